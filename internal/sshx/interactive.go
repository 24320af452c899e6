package sshx

import (
	"fmt"
	"os"
	"os/exec"
)

// Interactive replaces the session with the system ssh binary so the
// operator gets a real terminal, agent forwarding, and window resizing for
// free.
func Interactive(host, user, keyPath string) error {
	path, err := exec.LookPath("ssh")
	if err != nil {
		return fmt.Errorf("ssh binary not found in PATH: %w", err)
	}

	cmd := exec.Command(path,
		"-i", keyPath,
		"-o", "StrictHostKeyChecking=no",
		"-o", "UserKnownHostsFile=/dev/null",
		fmt.Sprintf("%s@%s", user, host),
	)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ssh session ended with error: %w", err)
	}
	return nil
}

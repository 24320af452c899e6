// Package sshx executes commands and transfers files on the dev instance
// over SSH.
package sshx

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"golang.org/x/crypto/ssh"
)

const (
	// DefaultPort is the SSH port.
	DefaultPort = 22

	dialTimeout = 10 * time.Second
)

// Communicator defines the interface for executing commands on the remote instance.
type Communicator interface {
	// Run executes a single command and returns its combined output.
	Run(ctx context.Context, command string) (string, error)
	// RunScript pipes a multi-line script to a remote shell started with
	// stop-on-error semantics.
	RunScript(ctx context.Context, script string) (string, error)
	// Upload writes data to a file on the remote instance.
	Upload(ctx context.Context, data []byte, remotePath string, mode os.FileMode) error
	// Download reads a file from the remote instance.
	Download(ctx context.Context, remotePath string) ([]byte, error)
}

// Client implements Communicator using the SSH protocol.
type Client struct {
	host   string
	port   int
	config *ssh.ClientConfig
}

// NewClient creates a Client authenticating as user with the given PEM
// private key.
func NewClient(host, user string, privateKey []byte) (*Client, error) {
	signer, err := ssh.ParsePrivateKey(privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	return &Client{
		host: host,
		port: DefaultPort,
		config: &ssh.ClientConfig{
			User: user,
			Auth: []ssh.AuthMethod{
				ssh.PublicKeys(signer),
			},
			// Dev instances are freshly created, there is no known host key.
			HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec
			Timeout:         dialTimeout,
		},
	}, nil
}

var _ Communicator = (*Client)(nil)

func (c *Client) dial(ctx context.Context) (*ssh.Client, error) {
	addr := net.JoinHostPort(c.host, strconv.Itoa(c.port))
	conn, err := (&net.Dialer{Timeout: c.config.Timeout}).DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", addr, err)
	}
	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, c.config)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ssh handshake with %s failed: %w", addr, err)
	}
	return ssh.NewClient(sshConn, chans, reqs), nil
}

// Run executes a single command and returns its combined output.
func (c *Client) Run(ctx context.Context, command string) (string, error) {
	client, err := c.dial(ctx)
	if err != nil {
		return "", err
	}
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	defer session.Close()

	output, err := session.CombinedOutput(command)
	if err != nil {
		return string(output), fmt.Errorf("remote command %q failed: %w, output: %s", command, err, output)
	}
	return string(output), nil
}

// RunScript pipes the script to `bash -seu` on the instance. The -e flag
// aborts the script at the first failing command.
func (c *Client) RunScript(ctx context.Context, script string) (string, error) {
	client, err := c.dial(ctx)
	if err != nil {
		return "", err
	}
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	defer session.Close()

	session.Stdin = bytes.NewReader([]byte(script))
	var output bytes.Buffer
	session.Stdout = &output
	session.Stderr = &output

	if err := session.Run("/usr/bin/env bash -seu"); err != nil {
		return output.String(), fmt.Errorf("remote script failed: %w, output: %s", err, output.String())
	}
	return output.String(), nil
}

// Upload writes data to a file on the remote instance by streaming it to a
// remote cat, then fixing the mode.
func (c *Client) Upload(ctx context.Context, data []byte, remotePath string, mode os.FileMode) error {
	client, err := c.dial(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	defer session.Close()

	session.Stdin = bytes.NewReader(data)
	cmd := fmt.Sprintf("cat > %q && chmod %o %q", remotePath, mode.Perm(), remotePath)
	if output, err := session.CombinedOutput(cmd); err != nil {
		return fmt.Errorf("failed to upload %s: %w, output: %s", remotePath, err, output)
	}
	return nil
}

// Download reads a file from the remote instance.
func (c *Client) Download(ctx context.Context, remotePath string) ([]byte, error) {
	client, err := c.dial(ctx)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	defer session.Close()

	var output bytes.Buffer
	session.Stdout = &output
	if err := session.Run(fmt.Sprintf("cat %q", remotePath)); err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", remotePath, err)
	}
	return output.Bytes(), nil
}

// Package deploy installs the container runtime on the dev instance and
// manages the Airflow compose stack running on it.
package deploy

import (
	"context"
	"fmt"

	"github.com/chainguard-dev/clog"

	"github.com/airstackdev/airstack/internal/sshx"
)

// setupScriptPath is where the runtime setup script is staged on the
// instance before execution.
const setupScriptPath = "/tmp/airstack-setup.sh"

// runtimeSetupScript installs Docker Engine and the compose plugin from
// Docker's apt repository and grants the login user access to the daemon.
const runtimeSetupScript = `#!/usr/bin/env bash
set -euo pipefail

export DEBIAN_FRONTEND=noninteractive

sudo apt-get update -q
sudo apt-get upgrade -yq
sudo apt-get install -yq ca-certificates curl git

sudo install -m 0755 -d /etc/apt/keyrings
sudo curl -fsSL https://download.docker.com/linux/ubuntu/gpg -o /etc/apt/keyrings/docker.asc
sudo chmod a+r /etc/apt/keyrings/docker.asc
echo "deb [arch=$(dpkg --print-architecture) signed-by=/etc/apt/keyrings/docker.asc] https://download.docker.com/linux/ubuntu $(. /etc/os-release && echo "$VERSION_CODENAME") stable" |
    sudo tee /etc/apt/sources.list.d/docker.list > /dev/null

sudo apt-get update -q
sudo apt-get install -yq docker-ce docker-ce-cli containerd.io docker-buildx-plugin docker-compose-plugin

sudo usermod -aG docker "$(whoami)"
sudo systemctl enable --now docker

docker --version
docker compose version
`

// InstallRuntime uploads the setup script to the instance and executes it.
func InstallRuntime(ctx context.Context, comm sshx.Communicator) error {
	log := clog.FromContext(ctx)

	if err := comm.Upload(ctx, []byte(runtimeSetupScript), setupScriptPath, 0o755); err != nil {
		return fmt.Errorf("failed to upload setup script: %w", err)
	}
	log.Info("uploaded setup script", "path", setupScriptPath)

	output, err := comm.Run(ctx, "bash "+setupScriptPath)
	if err != nil {
		return fmt.Errorf("runtime setup failed: %w", err)
	}
	log.Debug("runtime setup output", "output", output)
	log.Info("container runtime installed")
	return nil
}

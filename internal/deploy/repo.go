package deploy

import (
	"context"
	"fmt"

	"github.com/chainguard-dev/clog"

	"github.com/airstackdev/airstack/internal/config"
	"github.com/airstackdev/airstack/internal/sshx"
)

// EnsureCheckout makes sure the configured repository is present on the
// instance at cfg.Repo.RemotePath and sits on the latest commit of the
// configured branch. A fresh clone and an update of an existing checkout
// go through the same script so callers do not have to care which one
// happened.
func EnsureCheckout(ctx context.Context, comm sshx.Communicator, repo config.RepoConfig) error {
	log := clog.FromContext(ctx)
	log.Infof("Syncing %s (branch %s) to %s", repo.URL, repo.Branch, repo.RemotePath)

	script := fmt.Sprintf(`
if [ -d %[1]q/.git ]; then
  cd %[1]q
  git fetch origin %[2]q
  git checkout %[2]q
  git pull --ff-only origin %[2]q
else
  git clone --branch %[2]q %[3]q %[1]q
fi
`, repo.RemotePath, repo.Branch, repo.URL)

	if out, err := comm.RunScript(ctx, script); err != nil {
		return fmt.Errorf("failed to sync repository: %w: %s", err, out)
	}
	return nil
}

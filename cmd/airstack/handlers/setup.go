package handlers

import (
	"context"

	"github.com/chainguard-dev/clog"
)

// Setup installs the container runtime on the instance over SSH: package
// upgrade, docker engine with the compose plugin, and the login user added
// to the docker group.
func Setup(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	store, err := newStore(cfg.DataDir)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, loadTimeouts().Deploy)
	defer cancel()

	comm, host, err := connect(ctx, cfg, store)
	if err != nil {
		return err
	}

	log := clog.FromContext(ctx)
	log.Infof("Installing container runtime on %s", host)
	if err := installRuntime(ctx, comm); err != nil {
		return err
	}
	log.Infof("Runtime installed, %s is ready for 'airstack deploy'", cfg.Env)
	return nil
}

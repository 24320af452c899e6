package handlers

import (
	"context"
	"fmt"

	"github.com/chainguard-dev/clog"
)

// Deploy brings the Airflow stack up on the instance: sync the repository,
// point the webserver at the instance's public address, build the image if
// the remote engine does not have it yet, and start the stack detached.
func Deploy(ctx context.Context, configPath string) error {
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

	deployer := newDeployer(comm, cfg, host, store.KeyPath(cfg.Env))
	if err := deployer.Deploy(ctx); err != nil {
		return fmt.Errorf("deploy failed: %w", err)
	}

	clog.FromContext(ctx).Infof("Stack is up, web UI at http://%s:%d", host, cfg.WebUIPort)
	return nil
}

// Redeploy fast-forwards the checkout on the instance and restarts the
// stack.
func Redeploy(ctx context.Context, configPath string) error {
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

	deployer := newDeployer(comm, cfg, host, store.KeyPath(cfg.Env))
	if err := deployer.Redeploy(ctx); err != nil {
		return fmt.Errorf("redeploy failed: %w", err)
	}

	clog.FromContext(ctx).Infof("Stack restarted on %s", host)
	return nil
}

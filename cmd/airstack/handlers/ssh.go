package handlers

import (
	"context"
)

// SSH opens an interactive shell on the instance by handing the terminal to
// the local ssh binary with the stored key.
func SSH(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	store, err := newStore(cfg.DataDir)
	if err != nil {
		return err
	}

	host, err := resolveHost(ctx, cfg, store)
	if err != nil {
		return err
	}

	return runInteractiveSSH(host, cfg.SSHUser, store.KeyPath(cfg.Env))
}

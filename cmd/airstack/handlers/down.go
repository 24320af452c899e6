package handlers

import (
	"context"
	"fmt"

	"github.com/chainguard-dev/clog"

	"github.com/airstackdev/airstack/internal/provisioning"
	"github.com/airstackdev/airstack/internal/provisioning/destroy"
)

// newDestroyProvisioner creates the teardown phase - can be replaced in tests.
var newDestroyProvisioner = func() provisioning.Phase { return destroy.NewProvisioner() }

// Down tears the environment down: terminate the instance, wait for
// termination, then delete the security group and key pair. Deletes are
// tolerant of resources that are already gone, so a second down after a
// partial failure finishes the job.
//
// The local key file and state record are only removed after an interactive
// confirmation; losing the key for a still-running instance would lock the
// user out.
func Down(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	store, err := newStore(cfg.DataDir)
	if err != nil {
		return err
	}

	log := clog.FromContext(ctx)
	log.Infof("Destroying environment %s", cfg.Env)

	cloud, err := newCloudClient(ctx, cfg.Region)
	if err != nil {
		return err
	}

	pCtx := newProvisioningContext(ctx, cfg, cloud, store)
	if err := runPhases(pCtx, newDestroyProvisioner()); err != nil {
		return err
	}

	ok, err := confirm(
		fmt.Sprintf("Remove local state for %s?", cfg.Env),
		fmt.Sprintf("Deletes the private key and state record under %s", store.EnvDir(cfg.Env)),
	)
	if err != nil {
		return err
	}
	if !ok {
		log.Infof("Keeping local state under %s", store.EnvDir(cfg.Env))
		return nil
	}
	if err := store.RemoveAll(cfg.Env); err != nil {
		return fmt.Errorf("failed to remove local state: %w", err)
	}

	log.Infof("Environment %s destroyed", cfg.Env)
	return nil
}

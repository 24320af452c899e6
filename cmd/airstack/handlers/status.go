package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/airstackdev/airstack/internal/config"
	"github.com/airstackdev/airstack/internal/platform/awsec2"
	"github.com/airstackdev/airstack/internal/state"
	"github.com/airstackdev/airstack/internal/ui"
)

// Status prints the instance's lifecycle state and, when it is running, the
// compose containers on it.
func Status(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	store, err := newStore(cfg.DataDir)
	if err != nil {
		return err
	}
	cloud, err := newCloudClient(ctx, cfg.Region)
	if err != nil {
		return err
	}

	instance, err := findInstance(ctx, cfg, store, cloud)
	if err != nil {
		return err
	}
	if instance == nil {
		fmt.Printf("No instance for environment %s, run 'airstack up' first\n", cfg.Env)
		return nil
	}

	fmt.Println(ui.RenderEnvironment(cfg.Env, instance.ID, instance.PublicIP, cfg.WebUIPort))
	fmt.Printf("  State: %s\n", instance.State)

	if instance.State != awsec2.StateRunning || instance.PublicIP == "" {
		return nil
	}

	key, err := store.ReadKey(cfg.Env)
	if err != nil {
		fmt.Printf("  No local key for %s, cannot query containers\n", cfg.Env)
		return nil
	}
	comm, err := newCommunicator(instance.PublicIP, cfg.SSHUser, key)
	if err != nil {
		return err
	}

	deployer := newDeployer(comm, cfg, instance.PublicIP, store.KeyPath(cfg.Env))
	statuses, err := deployer.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to query containers: %w", err)
	}

	fmt.Println(ui.RenderStatus(cfg.Env, statuses))
	return nil
}

// findInstance resolves the environment's instance, preferring the state
// record over a tag lookup.
func findInstance(ctx context.Context, cfg *config.Config, store *state.Store, cloud awsec2.InfrastructureManager) (*awsec2.Instance, error) {
	rec, err := store.Load(cfg.Env)
	if err == nil {
		return cloud.DescribeInstance(ctx, rec.InstanceID)
	}
	if !errors.Is(err, state.ErrNotFound) {
		return nil, err
	}
	return cloud.FindInstanceByName(ctx, cfg.InstanceName())
}

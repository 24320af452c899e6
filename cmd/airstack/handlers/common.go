// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command
// definitions in the commands package. Handlers are framework-agnostic and
// can be tested independently of the CLI framework.
package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/airstackdev/airstack/internal/config"
	"github.com/airstackdev/airstack/internal/deploy"
	"github.com/airstackdev/airstack/internal/platform/awsec2"
	"github.com/airstackdev/airstack/internal/provisioning"
	"github.com/airstackdev/airstack/internal/sshx"
	"github.com/airstackdev/airstack/internal/state"
	"github.com/airstackdev/airstack/internal/ui"
)

const defaultConfigFile = "airstack.yaml"

// StackDeployer interface for testing - matches deploy.Deployer.
type StackDeployer interface {
	Deploy(ctx context.Context) error
	Redeploy(ctx context.Context) error
	Stop(ctx context.Context) error
	Status(ctx context.Context) ([]deploy.ContainerStatus, error)
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfigFile loads config from file (for testing injection).
	loadConfigFile = config.LoadFile

	// newStore opens the local state store (for testing injection).
	newStore = state.NewStore

	// newCloudClient creates an EC2 infrastructure client.
	newCloudClient = func(ctx context.Context, region string) (awsec2.InfrastructureManager, error) {
		return awsec2.NewRealClient(ctx, region)
	}

	// newCommunicator opens an SSH connection to the instance.
	newCommunicator = func(host, user string, privateKey []byte) (sshx.Communicator, error) {
		return sshx.NewClient(host, user, privateKey)
	}

	// newDeployer creates a stack deployer.
	newDeployer = func(comm sshx.Communicator, cfg *config.Config, host, keyPath string) StackDeployer {
		return deploy.NewDeployer(comm, cfg, host, keyPath)
	}

	// installRuntime installs docker on the instance.
	installRuntime = deploy.InstallRuntime

	// loadTimeouts reads the operation timeouts from the environment.
	loadTimeouts = config.LoadTimeouts

	// newProvisioningContext creates a new provisioning context.
	newProvisioningContext = provisioning.NewContext

	// runPhases executes provisioning phases.
	runPhases = provisioning.RunPhases

	// confirm asks the user a yes/no question.
	confirm = ui.Confirm

	// runInteractiveSSH hands the terminal to the local ssh binary.
	runInteractiveSSH = sshx.Interactive
)

// loadConfig loads the environment configuration, defaulting to
// airstack.yaml in the current directory.
func loadConfig(configPath string) (*config.Config, error) {
	if configPath == "" {
		configPath = defaultConfigFile
	}
	return loadConfigFile(configPath)
}

// resolveHost returns the public address of the environment's instance. The
// state record written by up is authoritative; a tag lookup is the fallback
// for environments provisioned before the record existed.
func resolveHost(ctx context.Context, cfg *config.Config, store *state.Store) (string, error) {
	rec, err := store.Load(cfg.Env)
	if err == nil {
		if rec.PublicIP == "" {
			return "", fmt.Errorf("state record for %s has no public IP", cfg.Env)
		}
		return rec.PublicIP, nil
	}
	if !errors.Is(err, state.ErrNotFound) {
		return "", err
	}

	cloud, err := newCloudClient(ctx, cfg.Region)
	if err != nil {
		return "", err
	}
	instance, err := cloud.FindInstanceByName(ctx, cfg.InstanceName())
	if err != nil {
		return "", err
	}
	if instance == nil {
		return "", fmt.Errorf("no instance found for environment %s, run 'airstack up' first", cfg.Env)
	}
	if instance.PublicIP == "" {
		return "", fmt.Errorf("instance %s has no public IP", instance.ID)
	}
	return instance.PublicIP, nil
}

// connect resolves the instance address and opens an SSH connection using
// the stored key.
func connect(ctx context.Context, cfg *config.Config, store *state.Store) (sshx.Communicator, string, error) {
	host, err := resolveHost(ctx, cfg, store)
	if err != nil {
		return nil, "", err
	}
	key, err := store.ReadKey(cfg.Env)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read private key for %s: %w", cfg.Env, err)
	}
	comm, err := newCommunicator(host, cfg.SSHUser, key)
	if err != nil {
		return nil, "", err
	}
	return comm, host, nil
}

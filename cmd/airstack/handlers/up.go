package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chainguard-dev/clog"

	"github.com/airstackdev/airstack/internal/provisioning"
	"github.com/airstackdev/airstack/internal/provisioning/compute"
	"github.com/airstackdev/airstack/internal/provisioning/infrastructure"
	"github.com/airstackdev/airstack/internal/state"
	"github.com/airstackdev/airstack/internal/ui"
)

// Phase constructors - can be replaced in tests.
var (
	newInfrastructureProvisioner = func() provisioning.Phase { return infrastructure.NewProvisioner() }
	newComputeProvisioner        = func() provisioning.Phase { return compute.NewProvisioner() }
)

// Up provisions the environment's AWS resources and records their
// identifiers.
//
// It generates an SSH key pair, creates the security group with ingress on
// the SSH and web UI ports, launches the instance, and waits until the
// instance runs and accepts TCP connections on the SSH port. The resulting
// identifiers are written to the local state record, which every other
// command reads.
//
// Up refuses to run when a state record already exists for the environment:
// the record is the environment's identity, and a second instance behind
// the same record would be unreachable by every other command.
func Up(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	store, err := newStore(cfg.DataDir)
	if err != nil {
		return err
	}
	if _, err := store.Load(cfg.Env); err == nil {
		return fmt.Errorf("environment %s already has a state record, run 'airstack down' first", cfg.Env)
	} else if !errors.Is(err, state.ErrNotFound) {
		return err
	}

	clog.FromContext(ctx).Infof("Provisioning environment %s in %s", cfg.Env, cfg.Region)

	cloud, err := newCloudClient(ctx, cfg.Region)
	if err != nil {
		return err
	}

	pCtx := newProvisioningContext(ctx, cfg, cloud, store)
	if err := runPhases(pCtx, newInfrastructureProvisioner(), newComputeProvisioner()); err != nil {
		return err
	}

	rec := &state.Record{
		Env:             cfg.Env,
		Region:          cfg.Region,
		InstanceID:      pCtx.State.InstanceID,
		SecurityGroupID: pCtx.State.SecurityGroupID,
		KeyPairName:     cfg.KeyPairName(),
		PublicIP:        pCtx.State.PublicIP,
		CreatedAt:       time.Now().UTC(),
	}
	if err := store.Save(rec); err != nil {
		return fmt.Errorf("instance %s is up but the state record could not be written: %w", rec.InstanceID, err)
	}

	fmt.Println(ui.RenderEnvironment(cfg.Env, rec.InstanceID, rec.PublicIP, cfg.WebUIPort))
	return nil
}

// Package destroy tears down the environment's AWS resources in dependency
// order: instance first, then security group, then key pair.
package destroy

import (
	"context"
	"errors"

	"github.com/chainguard-dev/clog"

	"github.com/airstackdev/airstack/internal/platform/awsec2"
	"github.com/airstackdev/airstack/internal/provisioning"
	"github.com/airstackdev/airstack/internal/state"
)

// Provisioner deletes all environment resources.
type Provisioner struct{}

// NewProvisioner creates a new destroy provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name returns the phase name.
func (p *Provisioner) Name() string { return "destroy" }

// Provision terminates the instance (resolved via the state record when
// present, via the fixed Name tag otherwise), waits for termination so the
// security group is released, then deletes the security group and key pair.
// Absent resources are reported and skipped, so repeated teardown succeeds.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	log := clog.FromContext(ctx)
	cfg := ctx.Config

	instanceID, err := p.resolveInstanceID(ctx)
	if err != nil {
		return err
	}

	if instanceID == "" {
		log.Info("no instance to terminate", "name", cfg.InstanceName())
	} else {
		if err := ctx.Cloud.TerminateInstance(ctx, instanceID); err != nil {
			return err
		}
		log.Info("terminating instance", "id", instanceID)

		termCtx, cancel := context.WithTimeout(ctx, ctx.Timeouts.InstanceTerminate)
		defer cancel()
		if err := ctx.Cloud.WaitInstanceState(termCtx, instanceID, awsec2.StateTerminated); err != nil {
			return err
		}
		log.Info("instance terminated", "id", instanceID)
	}

	if err := ctx.Cloud.DeleteSecurityGroup(ctx, cfg.SecurityGroupName()); err != nil {
		return err
	}
	log.Info("security group removed", "name", cfg.SecurityGroupName())

	if err := ctx.Cloud.DeleteKeyPair(ctx, cfg.KeyPairName()); err != nil {
		return err
	}
	log.Info("key pair removed", "name", cfg.KeyPairName())

	return nil
}

// resolveInstanceID prefers the state record and falls back to the Name tag.
func (p *Provisioner) resolveInstanceID(ctx *provisioning.Context) (string, error) {
	rec, err := ctx.Store.Load(ctx.Config.Env)
	if err != nil && !errors.Is(err, state.ErrNotFound) {
		return "", err
	}
	if rec != nil && rec.InstanceID != "" {
		// Confirm the recorded instance still exists; a stale record falls
		// back to the tag lookup.
		inst, err := ctx.Cloud.DescribeInstance(ctx, rec.InstanceID)
		if err != nil {
			return "", err
		}
		if inst != nil && inst.State != awsec2.StateTerminated {
			return rec.InstanceID, nil
		}
	}

	inst, err := ctx.Cloud.FindInstanceByName(ctx, ctx.Config.InstanceName())
	if err != nil {
		return "", err
	}
	if inst == nil {
		return "", nil
	}
	return inst.ID, nil
}

// Package compute launches the dev instance and waits for it to become
// reachable.
package compute

import (
	"context"
	"fmt"

	"github.com/chainguard-dev/clog"

	"github.com/airstackdev/airstack/internal/platform/awsec2"
	"github.com/airstackdev/airstack/internal/provisioning"
	"github.com/airstackdev/airstack/internal/sshx"
)

// waitReachable is swapped in tests.
var waitReachable = sshx.WaitReachable

// Provisioner launches the instance.
type Provisioner struct{}

// NewProvisioner creates a new compute provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name returns the phase name.
func (p *Provisioner) Name() string { return "compute" }

// Provision resolves the machine image, launches the instance with the key
// pair and security group from the infrastructure phase, waits for the
// running state, and then for SSH reachability.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	log := clog.FromContext(ctx)
	cfg := ctx.Config

	ami, err := ctx.Cloud.ResolveImage(ctx, cfg.AMI)
	if err != nil {
		return err
	}

	instanceID, err := ctx.Cloud.LaunchInstance(ctx, awsec2.LaunchOpts{
		Name:            cfg.InstanceName(),
		AMI:             ami,
		InstanceType:    cfg.InstanceType,
		KeyPairName:     cfg.KeyPairName(),
		SecurityGroupID: ctx.State.SecurityGroupID,
	})
	if err != nil {
		return err
	}
	ctx.State.InstanceID = instanceID
	log.Info("launched instance", "id", instanceID, "type", cfg.InstanceType, "ami", ami)

	runCtx, cancel := context.WithTimeout(ctx, ctx.Timeouts.InstanceRunning)
	defer cancel()
	if err := ctx.Cloud.WaitInstanceState(runCtx, instanceID, awsec2.StateRunning); err != nil {
		return err
	}

	inst, err := ctx.Cloud.DescribeInstance(ctx, instanceID)
	if err != nil {
		return err
	}
	if inst == nil || inst.PublicIP == "" {
		return fmt.Errorf("instance %s has no public IP", instanceID)
	}
	ctx.State.PublicIP = inst.PublicIP
	log.Info("instance running", "id", instanceID, "ip", inst.PublicIP)

	sshCtx, cancel := context.WithTimeout(ctx, ctx.Timeouts.SSHReady)
	defer cancel()
	if err := waitReachable(sshCtx, inst.PublicIP, sshx.DefaultPort); err != nil {
		return fmt.Errorf("instance never became reachable over SSH: %w", err)
	}
	log.Info("instance reachable over SSH", "ip", inst.PublicIP)

	return nil
}

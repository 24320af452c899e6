// Package infrastructure provisions the access prerequisites of the dev
// instance: the SSH key pair and the security group.
package infrastructure

import (
	"fmt"

	"github.com/chainguard-dev/clog"

	"github.com/airstackdev/airstack/internal/config"
	"github.com/airstackdev/airstack/internal/keygen"
	"github.com/airstackdev/airstack/internal/provisioning"
)

// Provisioner creates the key pair and security group.
type Provisioner struct{}

// NewProvisioner creates a new infrastructure provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name returns the phase name.
func (p *Provisioner) Name() string { return "infrastructure" }

// Provision generates the SSH key pair, imports its public half, writes the
// private half locally with restricted permissions, and creates the security
// group with ingress for SSH and the web UI.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	log := clog.FromContext(ctx)
	cfg := ctx.Config

	keys, err := keygen.GenerateED25519(cfg.KeyPairName())
	if err != nil {
		return fmt.Errorf("key generation failed: %w", err)
	}
	ctx.State.Keys = keys

	if err := ctx.Store.WriteKey(cfg.Env, keys.PrivateKey); err != nil {
		return err
	}
	log.Info("wrote private key", "path", ctx.Store.KeyPath(cfg.Env))

	keyPairID, err := ctx.Cloud.ImportKeyPair(ctx, cfg.KeyPairName(), keys.PublicKey)
	if err != nil {
		return err
	}
	log.Info("imported key pair", "name", cfg.KeyPairName(), "id", keyPairID)

	groupID, err := ctx.Cloud.CreateSecurityGroup(ctx, cfg.SecurityGroupName(),
		fmt.Sprintf("airstack %s dev environment", cfg.Env))
	if err != nil {
		return err
	}
	ctx.State.SecurityGroupID = groupID
	log.Info("created security group", "name", cfg.SecurityGroupName(), "id", groupID)

	for _, port := range []int32{config.SSHPort, cfg.WebUIPort} {
		if err := ctx.Cloud.AuthorizeIngress(ctx, groupID, cfg.AllowedCIDR, port); err != nil {
			return err
		}
		log.Info("authorized ingress", "port", port, "from", cfg.AllowedCIDR)
	}

	return nil
}

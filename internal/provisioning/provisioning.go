// Package provisioning provides shared types for environment provisioning.
//
// The provisioning domain is organized into focused subpackages:
//   - infrastructure/ creates the key pair and security group
//   - compute/ launches the dev instance and waits for its readiness
//   - destroy/ tears everything down in dependency order
//
// This root package contains the phase contract and the state shared
// between phases.
package provisioning

import (
	"context"

	"github.com/airstackdev/airstack/internal/config"
	"github.com/airstackdev/airstack/internal/keygen"
	"github.com/airstackdev/airstack/internal/platform/awsec2"
	"github.com/airstackdev/airstack/internal/state"
)

// Phase defines the interface for a provisioning phase.
type Phase interface {
	// Name returns the human-readable name of this phase.
	Name() string

	// Provision executes the provisioning logic for this phase.
	Provision(ctx *Context) error
}

// State holds the shared results of provisioning phases.
// It is progressively populated as each phase completes and is passed
// to subsequent phases that need earlier results.
type State struct {
	// Infrastructure results
	SecurityGroupID string
	Keys            *keygen.KeyPair

	// Compute results
	InstanceID string
	PublicIP   string
}

// Context wraps all dependencies and state needed for a provisioning phase.
type Context struct {
	context.Context
	Config   *config.Config
	State    *State
	Cloud    awsec2.InfrastructureManager
	Store    *state.Store
	Timeouts *config.Timeouts
}

// NewContext creates a new provisioning context.
func NewContext(
	ctx context.Context,
	cfg *config.Config,
	cloud awsec2.InfrastructureManager,
	store *state.Store,
) *Context {
	return &Context{
		Context:  ctx,
		Config:   cfg,
		State:    &State{},
		Cloud:    cloud,
		Store:    store,
		Timeouts: config.LoadTimeouts(),
	}
}

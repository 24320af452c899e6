// Package awsec2 provides a wrapper around the AWS EC2 API.
package awsec2

import (
	"context"
)

// Instance is the subset of EC2 instance attributes airstack cares about.
type Instance struct {
	ID       string
	Name     string
	State    string
	PublicIP string
	Type     string
}

// LaunchOpts holds all parameters for launching the dev instance.
type LaunchOpts struct {
	Name            string
	AMI             string
	InstanceType    string
	KeyPairName     string
	SecurityGroupID string
}

// InstanceProvisioner defines the interface for provisioning instances.
type InstanceProvisioner interface {
	// LaunchInstance launches a new instance and returns its ID.
	LaunchInstance(ctx context.Context, opts LaunchOpts) (string, error)

	// TerminateInstance terminates the instance with the given ID.
	// It should handle the case where the instance does not exist.
	TerminateInstance(ctx context.Context, instanceID string) error

	// FindInstanceByName returns the first non-terminated instance carrying
	// the given Name tag, or nil if none matches.
	FindInstanceByName(ctx context.Context, name string) (*Instance, error)

	// DescribeInstance returns the instance with the given ID, or nil if it
	// does not exist.
	DescribeInstance(ctx context.Context, instanceID string) (*Instance, error)

	// WaitInstanceState polls until the instance reaches the given state.
	// It returns the context error when the deadline passes first.
	WaitInstanceState(ctx context.Context, instanceID, state string) error

	// ResolveImage returns the AMI to launch. A non-empty ami is returned
	// as-is; otherwise the newest Ubuntu LTS image is looked up.
	ResolveImage(ctx context.Context, ami string) (string, error)
}

// SecurityGroupManager defines the interface for managing security groups.
type SecurityGroupManager interface {
	// CreateSecurityGroup creates a new security group and returns its ID.
	CreateSecurityGroup(ctx context.Context, name, description string) (string, error)

	// AuthorizeIngress opens a TCP port from the given CIDR.
	AuthorizeIngress(ctx context.Context, groupID, cidr string, port int32) error

	// FindSecurityGroup returns the ID of the named group, or "" if absent.
	FindSecurityGroup(ctx context.Context, name string) (string, error)

	// DeleteSecurityGroup deletes the named group.
	// It should handle the case where the group does not exist.
	DeleteSecurityGroup(ctx context.Context, name string) error
}

// KeyPairManager defines the interface for managing EC2 key pairs.
type KeyPairManager interface {
	// ImportKeyPair registers the public half of a locally generated key
	// and returns the key pair ID.
	ImportKeyPair(ctx context.Context, name string, publicKey []byte) (string, error)

	// DeleteKeyPair deletes the named key pair.
	// It should handle the case where the key pair does not exist.
	DeleteKeyPair(ctx context.Context, name string) error
}

// InfrastructureManager combines all infrastructure interfaces.
type InfrastructureManager interface {
	InstanceProvisioner
	SecurityGroupManager
	KeyPairManager
}

// Well-known EC2 instance lifecycle states.
const (
	StatePending    = "pending"
	StateRunning    = "running"
	StateStopped    = "stopped"
	StateTerminated = "terminated"
)

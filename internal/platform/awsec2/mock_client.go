package awsec2

import (
	"context"
)

// MockClient is a mock implementation of InfrastructureManager.
type MockClient struct {
	LaunchInstanceFunc     func(ctx context.Context, opts LaunchOpts) (string, error)
	TerminateInstanceFunc  func(ctx context.Context, instanceID string) error
	FindInstanceByNameFunc func(ctx context.Context, name string) (*Instance, error)
	DescribeInstanceFunc   func(ctx context.Context, instanceID string) (*Instance, error)
	WaitInstanceStateFunc  func(ctx context.Context, instanceID, state string) error
	ResolveImageFunc       func(ctx context.Context, ami string) (string, error)

	CreateSecurityGroupFunc func(ctx context.Context, name, description string) (string, error)
	AuthorizeIngressFunc    func(ctx context.Context, groupID, cidr string, port int32) error
	FindSecurityGroupFunc   func(ctx context.Context, name string) (string, error)
	DeleteSecurityGroupFunc func(ctx context.Context, name string) error

	ImportKeyPairFunc func(ctx context.Context, name string, publicKey []byte) (string, error)
	DeleteKeyPairFunc func(ctx context.Context, name string) error
}

// Ensure interface compliance.
var _ InfrastructureManager = (*MockClient)(nil)

// LaunchInstance mocks instance launch.
func (m *MockClient) LaunchInstance(ctx context.Context, opts LaunchOpts) (string, error) {
	if m.LaunchInstanceFunc != nil {
		return m.LaunchInstanceFunc(ctx, opts)
	}
	return "i-mock", nil
}

// TerminateInstance mocks instance termination.
func (m *MockClient) TerminateInstance(ctx context.Context, instanceID string) error {
	if m.TerminateInstanceFunc != nil {
		return m.TerminateInstanceFunc(ctx, instanceID)
	}
	return nil
}

// FindInstanceByName mocks the tag lookup.
func (m *MockClient) FindInstanceByName(ctx context.Context, name string) (*Instance, error) {
	if m.FindInstanceByNameFunc != nil {
		return m.FindInstanceByNameFunc(ctx, name)
	}
	return nil, nil
}

// DescribeInstance mocks the instance fetch.
func (m *MockClient) DescribeInstance(ctx context.Context, instanceID string) (*Instance, error) {
	if m.DescribeInstanceFunc != nil {
		return m.DescribeInstanceFunc(ctx, instanceID)
	}
	return &Instance{ID: instanceID, State: StateRunning, PublicIP: "192.0.2.10"}, nil
}

// WaitInstanceState mocks the state poll.
func (m *MockClient) WaitInstanceState(ctx context.Context, instanceID, state string) error {
	if m.WaitInstanceStateFunc != nil {
		return m.WaitInstanceStateFunc(ctx, instanceID, state)
	}
	return nil
}

// ResolveImage mocks AMI resolution.
func (m *MockClient) ResolveImage(ctx context.Context, ami string) (string, error) {
	if m.ResolveImageFunc != nil {
		return m.ResolveImageFunc(ctx, ami)
	}
	if ami != "" {
		return ami, nil
	}
	return "ami-mock", nil
}

// CreateSecurityGroup mocks group creation.
func (m *MockClient) CreateSecurityGroup(ctx context.Context, name, description string) (string, error) {
	if m.CreateSecurityGroupFunc != nil {
		return m.CreateSecurityGroupFunc(ctx, name, description)
	}
	return "sg-mock", nil
}

// AuthorizeIngress mocks rule creation.
func (m *MockClient) AuthorizeIngress(ctx context.Context, groupID, cidr string, port int32) error {
	if m.AuthorizeIngressFunc != nil {
		return m.AuthorizeIngressFunc(ctx, groupID, cidr, port)
	}
	return nil
}

// FindSecurityGroup mocks the group lookup.
func (m *MockClient) FindSecurityGroup(ctx context.Context, name string) (string, error) {
	if m.FindSecurityGroupFunc != nil {
		return m.FindSecurityGroupFunc(ctx, name)
	}
	return "", nil
}

// DeleteSecurityGroup mocks group deletion.
func (m *MockClient) DeleteSecurityGroup(ctx context.Context, name string) error {
	if m.DeleteSecurityGroupFunc != nil {
		return m.DeleteSecurityGroupFunc(ctx, name)
	}
	return nil
}

// ImportKeyPair mocks key pair import.
func (m *MockClient) ImportKeyPair(ctx context.Context, name string, publicKey []byte) (string, error) {
	if m.ImportKeyPairFunc != nil {
		return m.ImportKeyPairFunc(ctx, name, publicKey)
	}
	return "key-mock", nil
}

// DeleteKeyPair mocks key pair deletion.
func (m *MockClient) DeleteKeyPair(ctx context.Context, name string) error {
	if m.DeleteKeyPairFunc != nil {
		return m.DeleteKeyPairFunc(ctx, name)
	}
	return nil
}

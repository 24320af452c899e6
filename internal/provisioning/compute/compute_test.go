package compute

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/airstackdev/airstack/internal/config"
	"github.com/airstackdev/airstack/internal/platform/awsec2"
	"github.com/airstackdev/airstack/internal/provisioning"
	"github.com/airstackdev/airstack/internal/state"
)

func testConfig() *config.Config {
	return &config.Config{
		Env:          "dev",
		Region:       "us-east-1",
		InstanceType: "t3.large",
		AllowedCIDR:  "0.0.0.0/0",
		WebUIPort:    8080,
		Repo:         config.RepoConfig{URL: "https://example.com/repo.git"},
	}
}

func newContext(t *testing.T, cloud awsec2.InfrastructureManager) *provisioning.Context {
	t.Helper()
	store, err := state.NewStore(t.TempDir())
	require.NoError(t, err)
	pCtx := provisioning.NewContext(context.Background(), testConfig(), cloud, store)
	pCtx.State.SecurityGroupID = "sg-123"
	return pCtx
}

func TestProvision(t *testing.T) {
	origWait := waitReachable
	defer func() { waitReachable = origWait }()
	var waitedHost string
	waitReachable = func(_ context.Context, host string, port int) error {
		waitedHost = host
		require.Equal(t, 22, port)
		return nil
	}

	var launched awsec2.LaunchOpts
	cloud := &awsec2.MockClient{
		ResolveImageFunc: func(_ context.Context, ami string) (string, error) {
			require.Empty(t, ami)
			return "ami-resolved", nil
		},
		LaunchInstanceFunc: func(_ context.Context, opts awsec2.LaunchOpts) (string, error) {
			launched = opts
			return "i-123", nil
		},
		DescribeInstanceFunc: func(_ context.Context, id string) (*awsec2.Instance, error) {
			return &awsec2.Instance{ID: id, State: awsec2.StateRunning, PublicIP: "198.51.100.9"}, nil
		},
	}

	pCtx := newContext(t, cloud)
	require.NoError(t, NewProvisioner().Provision(pCtx))

	require.Equal(t, "dev-airflow", launched.Name)
	require.Equal(t, "ami-resolved", launched.AMI)
	require.Equal(t, "dev-airflow-key", launched.KeyPairName)
	require.Equal(t, "sg-123", launched.SecurityGroupID)
	require.Equal(t, "i-123", pCtx.State.InstanceID)
	require.Equal(t, "198.51.100.9", pCtx.State.PublicIP)
	require.Equal(t, "198.51.100.9", waitedHost)
}

func TestProvisionNoPublicIP(t *testing.T) {
	origWait := waitReachable
	defer func() { waitReachable = origWait }()
	waitReachable = func(_ context.Context, _ string, _ int) error { return nil }

	cloud := &awsec2.MockClient{
		DescribeInstanceFunc: func(_ context.Context, id string) (*awsec2.Instance, error) {
			return &awsec2.Instance{ID: id, State: awsec2.StateRunning}, nil
		},
	}

	pCtx := newContext(t, cloud)
	require.ErrorContains(t, NewProvisioner().Provision(pCtx), "no public IP")
}

func TestProvisionUnreachable(t *testing.T) {
	origWait := waitReachable
	defer func() { waitReachable = origWait }()
	waitReachable = func(_ context.Context, _ string, _ int) error {
		return context.DeadlineExceeded
	}

	pCtx := newContext(t, &awsec2.MockClient{})
	err := NewProvisioner().Provision(pCtx)
	require.ErrorContains(t, err, "never became reachable")
}

func TestProvisionLaunchFails(t *testing.T) {
	origWait := waitReachable
	defer func() { waitReachable = origWait }()
	waitReachable = func(_ context.Context, _ string, _ int) error { return nil }

	cloud := &awsec2.MockClient{
		LaunchInstanceFunc: func(_ context.Context, _ awsec2.LaunchOpts) (string, error) {
			return "", fmt.Errorf("capacity exhausted")
		},
	}

	pCtx := newContext(t, cloud)
	require.ErrorContains(t, NewProvisioner().Provision(pCtx), "capacity exhausted")
}

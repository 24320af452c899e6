package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/airstackdev/airstack/internal/platform/awsec2"
	"github.com/airstackdev/airstack/internal/sshx"
	"github.com/airstackdev/airstack/internal/state"
)

// fallbackCloudWithNoInstance is a cloud where the tag lookup finds nothing.
func fallbackCloudWithNoInstance() *awsec2.MockClient {
	return &awsec2.MockClient{}
}

// seedProvisionedEnv writes the record and key an up would have left behind.
func seedProvisionedEnv(t *testing.T, store *state.Store) {
	t.Helper()
	require.NoError(t, store.Save(&state.Record{
		Env:        "dev",
		InstanceID: "i-123",
		PublicIP:   "192.0.2.10",
	}))
	require.NoError(t, store.WriteKey("dev", []byte("fake key material")))
}

func TestDeploy(t *testing.T) {
	store := useTestStore(t)
	useTestConfig(t, testHandlerConfig())
	useTestCommunicator(t)
	seedProvisionedEnv(t, store)

	d := &fakeDeployer{}
	useTestDeployer(t, d)

	require.NoError(t, Deploy(context.Background(), ""))
	require.True(t, d.deployed)
	require.True(t, d.hadDeadline, "deploy should run under the deploy timeout")
}

func TestDeployWithoutInstance(t *testing.T) {
	useTestStore(t)
	useTestConfig(t, testHandlerConfig())
	useTestCloud(t, fallbackCloudWithNoInstance())

	err := Deploy(context.Background(), "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "airstack up")
}

func TestRedeploy(t *testing.T) {
	store := useTestStore(t)
	useTestConfig(t, testHandlerConfig())
	useTestCommunicator(t)
	seedProvisionedEnv(t, store)

	d := &fakeDeployer{}
	useTestDeployer(t, d)

	require.NoError(t, Redeploy(context.Background(), ""))
	require.True(t, d.redeployed)
	require.False(t, d.deployed)
	require.True(t, d.hadDeadline, "redeploy should run under the deploy timeout")
}

func TestSetup(t *testing.T) {
	store := useTestStore(t)
	useTestConfig(t, testHandlerConfig())
	useTestCommunicator(t)
	seedProvisionedEnv(t, store)

	installed := false
	hadDeadline := false
	origInstall := installRuntime
	installRuntime = func(ctx context.Context, _ sshx.Communicator) error {
		installed = true
		_, hadDeadline = ctx.Deadline()
		return nil
	}
	defer func() { installRuntime = origInstall }()

	require.NoError(t, Setup(context.Background(), ""))
	require.True(t, installed)
	require.True(t, hadDeadline, "setup should run under the deploy timeout")
}

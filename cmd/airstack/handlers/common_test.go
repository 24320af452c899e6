package handlers

import (
	"context"
	"os"
	"testing"

	"github.com/airstackdev/airstack/internal/config"
	"github.com/airstackdev/airstack/internal/deploy"
	"github.com/airstackdev/airstack/internal/platform/awsec2"
	"github.com/airstackdev/airstack/internal/sshx"
	"github.com/airstackdev/airstack/internal/state"
)

func testHandlerConfig() *config.Config {
	return &config.Config{
		Env:          "dev",
		Region:       "us-east-1",
		InstanceType: "t3.large",
		SSHUser:      "ubuntu",
		AllowedCIDR:  "0.0.0.0/0",
		WebUIPort:    8080,
		Repo: config.RepoConfig{
			URL:         "https://example.com/airflow.git",
			Branch:      "main",
			RemotePath:  "airflow",
			ComposeFile: "docker-compose.yaml",
			Image:       "airflow",
		},
	}
}

// useTestStore points the handlers at a store rooted in a temp dir and
// returns it.
func useTestStore(t *testing.T) *state.Store {
	t.Helper()
	dir := t.TempDir()
	store, err := state.NewStore(dir)
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	orig := newStore
	newStore = func(string) (*state.Store, error) { return store, nil }
	t.Cleanup(func() { newStore = orig })
	return store
}

func useTestConfig(t *testing.T, cfg *config.Config) {
	t.Helper()
	orig := loadConfigFile
	loadConfigFile = func(string) (*config.Config, error) { return cfg, nil }
	t.Cleanup(func() { loadConfigFile = orig })
}

func useTestCloud(t *testing.T, cloud awsec2.InfrastructureManager) {
	t.Helper()
	orig := newCloudClient
	newCloudClient = func(context.Context, string) (awsec2.InfrastructureManager, error) {
		return cloud, nil
	}
	t.Cleanup(func() { newCloudClient = orig })
}

// nopComm satisfies sshx.Communicator without doing anything.
type nopComm struct{}

func (nopComm) Run(context.Context, string) (string, error)       { return "", nil }
func (nopComm) RunScript(context.Context, string) (string, error) { return "", nil }
func (nopComm) Upload(context.Context, []byte, string, os.FileMode) error {
	return nil
}
func (nopComm) Download(context.Context, string) ([]byte, error) { return nil, nil }

func useTestCommunicator(t *testing.T) {
	t.Helper()
	orig := newCommunicator
	newCommunicator = func(string, string, []byte) (sshx.Communicator, error) {
		return nopComm{}, nil
	}
	t.Cleanup(func() { newCommunicator = orig })
}

// fakeDeployer records which stack operations ran and whether the handler
// bounded the context with a deadline.
type fakeDeployer struct {
	deployed    bool
	redeployed  bool
	stopped     bool
	hadDeadline bool
	statuses    []deploy.ContainerStatus
	err         error
}

func (f *fakeDeployer) Deploy(ctx context.Context) error {
	f.deployed = true
	_, f.hadDeadline = ctx.Deadline()
	return f.err
}

func (f *fakeDeployer) Redeploy(ctx context.Context) error {
	f.redeployed = true
	_, f.hadDeadline = ctx.Deadline()
	return f.err
}
func (f *fakeDeployer) Stop(context.Context) error     { f.stopped = true; return f.err }
func (f *fakeDeployer) Status(context.Context) ([]deploy.ContainerStatus, error) {
	return f.statuses, f.err
}

func useTestDeployer(t *testing.T, d *fakeDeployer) {
	t.Helper()
	orig := newDeployer
	newDeployer = func(sshx.Communicator, *config.Config, string, string) StackDeployer { return d }
	t.Cleanup(func() { newDeployer = orig })
}

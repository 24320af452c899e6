package deploy

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/stretchr/testify/require"

	"github.com/airstackdev/airstack/internal/config"
)

// fakeComm records remote operations and serves canned file contents.
type fakeComm struct {
	commands []string
	scripts  []string
	files    map[string][]byte
	runErr   error
}

func newFakeComm() *fakeComm {
	return &fakeComm{files: map[string][]byte{}}
}

func (f *fakeComm) Run(_ context.Context, command string) (string, error) {
	f.commands = append(f.commands, command)
	if f.runErr != nil {
		return "", f.runErr
	}
	return "", nil
}

func (f *fakeComm) RunScript(_ context.Context, script string) (string, error) {
	f.scripts = append(f.scripts, script)
	return "", nil
}

func (f *fakeComm) Upload(_ context.Context, data []byte, remotePath string, _ os.FileMode) error {
	f.files[remotePath] = data
	return nil
}

func (f *fakeComm) Download(_ context.Context, remotePath string) ([]byte, error) {
	data, ok := f.files[remotePath]
	if !ok {
		return nil, fmt.Errorf("no such file: %s", remotePath)
	}
	return data, nil
}

type fakeEngine struct {
	images     []image.Summary
	containers []container.Summary
	imageErr   error
}

func (f *fakeEngine) ImageList(context.Context, image.ListOptions) ([]image.Summary, error) {
	return f.images, f.imageErr
}

func (f *fakeEngine) ContainerList(context.Context, container.ListOptions) ([]container.Summary, error) {
	return f.containers, nil
}

func withFakeEngine(t *testing.T, engine *fakeEngine) {
	t.Helper()
	orig := newEngineClient
	newEngineClient = func(context.Context, string, string, string, int32) (EngineClient, error) {
		return engine, nil
	}
	t.Cleanup(func() { newEngineClient = orig })
}

func testConfig() *config.Config {
	return &config.Config{
		Env:       "dev",
		SSHUser:   "ubuntu",
		WebUIPort: 8080,
		Repo: config.RepoConfig{
			URL:         "https://example.com/airflow.git",
			Branch:      "main",
			RemotePath:  "airflow",
			ComposeFile: "docker-compose.yaml",
			Image:       "airflow",
		},
	}
}

func TestDeployBuildsWhenImageMissing(t *testing.T) {
	withFakeEngine(t, &fakeEngine{})

	comm := newFakeComm()
	comm.files["airflow/docker-compose.yaml"] = []byte(mapFormCompose)

	d := NewDeployer(comm, testConfig(), "203.0.113.7", "/tmp/key")
	require.NoError(t, d.Deploy(context.Background()))

	// One script for the repository sync.
	require.Len(t, comm.scripts, 1)
	require.Contains(t, comm.scripts[0], "git clone")

	// Compose file was rewritten for the public address.
	require.Contains(t, string(comm.files["airflow/docker-compose.yaml"]), "http://203.0.113.7:8080")

	require.Len(t, comm.commands, 2)
	require.Contains(t, comm.commands[0], "docker compose")
	require.Contains(t, comm.commands[0], "build")
	require.Contains(t, comm.commands[1], "up -d")
}

func TestDeploySkipsBuildWhenImagePresent(t *testing.T) {
	withFakeEngine(t, &fakeEngine{
		images: []image.Summary{{RepoTags: []string{"airflow:latest"}}},
	})

	comm := newFakeComm()
	comm.files["airflow/docker-compose.yaml"] = []byte(mapFormCompose)

	d := NewDeployer(comm, testConfig(), "203.0.113.7", "/tmp/key")
	require.NoError(t, d.Deploy(context.Background()))

	require.Len(t, comm.commands, 1)
	require.Contains(t, comm.commands[0], "up -d")
}

func TestDeployFailsOnUnparseableCompose(t *testing.T) {
	withFakeEngine(t, &fakeEngine{})

	comm := newFakeComm()
	comm.files["airflow/docker-compose.yaml"] = []byte("services: [unclosed")

	d := NewDeployer(comm, testConfig(), "203.0.113.7", "/tmp/key")
	require.Error(t, d.Deploy(context.Background()))
	require.Empty(t, comm.commands)
}

func TestRedeployPullsAndRestarts(t *testing.T) {
	comm := newFakeComm()

	d := NewDeployer(comm, testConfig(), "203.0.113.7", "/tmp/key")
	require.NoError(t, d.Redeploy(context.Background()))

	require.Len(t, comm.scripts, 1)
	require.Contains(t, comm.scripts[0], "git pull --ff-only")
	require.Len(t, comm.commands, 1)
	require.Contains(t, comm.commands[0], "restart")
}

func TestStop(t *testing.T) {
	comm := newFakeComm()

	d := NewDeployer(comm, testConfig(), "203.0.113.7", "/tmp/key")
	require.NoError(t, d.Stop(context.Background()))

	require.Len(t, comm.commands, 1)
	require.Contains(t, comm.commands[0], "down")
}

func TestStatus(t *testing.T) {
	withFakeEngine(t, &fakeEngine{
		containers: []container.Summary{
			{
				ID:     "abcdef1234567890",
				Names:  []string{"/airflow-webserver-1"},
				Image:  "airflow:latest",
				State:  "running",
				Status: "Up 3 hours",
			},
			{
				ID:     "1234567890abcdef",
				Image:  "postgres:16",
				State:  "exited",
				Status: "Exited (0) 2 minutes ago",
			},
		},
	})

	d := NewDeployer(newFakeComm(), testConfig(), "203.0.113.7", "/tmp/key")
	statuses, err := d.Status(context.Background())
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	require.Equal(t, "airflow-webserver-1", statuses[0].Name)
	require.Equal(t, "running", statuses[0].State)
	require.Equal(t, "1234567890ab", statuses[1].Name)
}

func TestHasImage(t *testing.T) {
	t.Parallel()

	engine := &fakeEngine{
		images: []image.Summary{
			{RepoTags: []string{"postgres:16"}},
			{RepoTags: []string{"airflow:2.10.4", "airflow:latest"}},
		},
	}

	present, err := HasImage(context.Background(), engine, "airflow")
	require.NoError(t, err)
	require.True(t, present)

	present, err = HasImage(context.Background(), engine, "redis")
	require.NoError(t, err)
	require.False(t, present)
}

func TestInstallRuntime(t *testing.T) {
	comm := newFakeComm()

	require.NoError(t, InstallRuntime(context.Background(), comm))

	script, ok := comm.files[setupScriptPath]
	require.True(t, ok)
	require.Contains(t, string(script), "docker-ce")
	require.Contains(t, string(script), "docker-compose-plugin")
	require.Len(t, comm.commands, 1)
	require.Contains(t, comm.commands[0], setupScriptPath)
}

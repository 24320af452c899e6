package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/airstackdev/airstack/internal/deploy"
	"github.com/airstackdev/airstack/internal/platform/awsec2"
)

func TestStatusWithRunningInstance(t *testing.T) {
	store := useTestStore(t)
	useTestConfig(t, testHandlerConfig())
	useTestCommunicator(t)
	seedProvisionedEnv(t, store)

	described := ""
	useTestCloud(t, &awsec2.MockClient{
		DescribeInstanceFunc: func(_ context.Context, id string) (*awsec2.Instance, error) {
			described = id
			return &awsec2.Instance{ID: id, State: awsec2.StateRunning, PublicIP: "192.0.2.10"}, nil
		},
	})

	useTestDeployer(t, &fakeDeployer{statuses: []deploy.ContainerStatus{
		{Name: "airflow-webserver-1", State: "running"},
	}})

	require.NoError(t, Status(context.Background(), ""))
	require.Equal(t, "i-123", described)
}

func TestStatusWithoutInstance(t *testing.T) {
	useTestStore(t)
	useTestConfig(t, testHandlerConfig())
	useTestCloud(t, fallbackCloudWithNoInstance())

	require.NoError(t, Status(context.Background(), ""))
}

func TestStatusFallsBackToTagLookup(t *testing.T) {
	useTestStore(t)
	useTestConfig(t, testHandlerConfig())

	looked := ""
	useTestCloud(t, &awsec2.MockClient{
		FindInstanceByNameFunc: func(_ context.Context, name string) (*awsec2.Instance, error) {
			looked = name
			return &awsec2.Instance{ID: "i-tagged", State: awsec2.StateStopped}, nil
		},
	})

	require.NoError(t, Status(context.Background(), ""))
	require.Equal(t, "dev-airflow", looked)
}

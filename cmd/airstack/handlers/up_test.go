package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/airstackdev/airstack/internal/platform/awsec2"
	"github.com/airstackdev/airstack/internal/provisioning"
	"github.com/airstackdev/airstack/internal/state"
)

type fakePhase struct {
	name string
	fn   func(*provisioning.Context) error
}

func (p *fakePhase) Name() string { return p.name }
func (p *fakePhase) Provision(ctx *provisioning.Context) error {
	if p.fn != nil {
		return p.fn(ctx)
	}
	return nil
}

func swapPhases(t *testing.T, infra, comp provisioning.Phase) {
	t.Helper()
	origInfra := newInfrastructureProvisioner
	origCompute := newComputeProvisioner
	newInfrastructureProvisioner = func() provisioning.Phase { return infra }
	newComputeProvisioner = func() provisioning.Phase { return comp }
	t.Cleanup(func() {
		newInfrastructureProvisioner = origInfra
		newComputeProvisioner = origCompute
	})
}

func TestUpSavesRecord(t *testing.T) {
	store := useTestStore(t)
	useTestConfig(t, testHandlerConfig())
	useTestCloud(t, &awsec2.MockClient{})

	swapPhases(t,
		&fakePhase{name: "infrastructure", fn: func(ctx *provisioning.Context) error {
			ctx.State.SecurityGroupID = "sg-123"
			return nil
		}},
		&fakePhase{name: "compute", fn: func(ctx *provisioning.Context) error {
			ctx.State.InstanceID = "i-123"
			ctx.State.PublicIP = "192.0.2.10"
			return nil
		}},
	)

	require.NoError(t, Up(context.Background(), ""))

	rec, err := store.Load("dev")
	require.NoError(t, err)
	require.Equal(t, "i-123", rec.InstanceID)
	require.Equal(t, "sg-123", rec.SecurityGroupID)
	require.Equal(t, "192.0.2.10", rec.PublicIP)
	require.Equal(t, "dev-airflow-key", rec.KeyPairName)
	require.WithinDuration(t, time.Now(), rec.CreatedAt, time.Minute)
}

func TestUpStoresRecordUnderConfiguredDataDir(t *testing.T) {
	dataDir := t.TempDir()
	cfg := testHandlerConfig()
	cfg.DataDir = dataDir
	useTestConfig(t, cfg)
	useTestCloud(t, &awsec2.MockClient{})

	swapPhases(t,
		&fakePhase{name: "infrastructure"},
		&fakePhase{name: "compute", fn: func(ctx *provisioning.Context) error {
			ctx.State.InstanceID = "i-456"
			return nil
		}},
	)

	require.NoError(t, Up(context.Background(), ""))

	store, err := state.NewStore(dataDir)
	require.NoError(t, err)
	rec, err := store.Load("dev")
	require.NoError(t, err)
	require.Equal(t, "i-456", rec.InstanceID)
}

func TestUpRefusesWhenRecordExists(t *testing.T) {
	store := useTestStore(t)
	useTestConfig(t, testHandlerConfig())
	useTestCloud(t, &awsec2.MockClient{})

	require.NoError(t, store.Save(&state.Record{Env: "dev", InstanceID: "i-old"}))

	err := Up(context.Background(), "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "airstack down")
}

func TestUpPhaseFailureDoesNotSaveRecord(t *testing.T) {
	store := useTestStore(t)
	useTestConfig(t, testHandlerConfig())
	useTestCloud(t, &awsec2.MockClient{})

	swapPhases(t,
		&fakePhase{name: "infrastructure", fn: func(*provisioning.Context) error {
			return context.DeadlineExceeded
		}},
		&fakePhase{name: "compute"},
	)

	require.Error(t, Up(context.Background(), ""))

	_, err := store.Load("dev")
	require.ErrorIs(t, err, state.ErrNotFound)
}

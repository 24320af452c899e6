package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/airstackdev/airstack/internal/platform/awsec2"
	"github.com/airstackdev/airstack/internal/provisioning"
	"github.com/airstackdev/airstack/internal/state"
)

func swapDestroyPhase(t *testing.T, phase provisioning.Phase) {
	t.Helper()
	orig := newDestroyProvisioner
	newDestroyProvisioner = func() provisioning.Phase { return phase }
	t.Cleanup(func() { newDestroyProvisioner = orig })
}

func swapConfirm(t *testing.T, answer bool) {
	t.Helper()
	orig := confirm
	confirm = func(string, string) (bool, error) { return answer, nil }
	t.Cleanup(func() { confirm = orig })
}

func TestDownRemovesLocalState(t *testing.T) {
	store := useTestStore(t)
	useTestConfig(t, testHandlerConfig())
	useTestCloud(t, &awsec2.MockClient{})
	swapDestroyPhase(t, &fakePhase{name: "destroy"})
	swapConfirm(t, true)

	seedProvisionedEnv(t, store)

	require.NoError(t, Down(context.Background(), ""))

	_, err := store.Load("dev")
	require.ErrorIs(t, err, state.ErrNotFound)
	_, err = store.ReadKey("dev")
	require.Error(t, err)
}

func TestDownKeepsLocalStateWhenDeclined(t *testing.T) {
	store := useTestStore(t)
	useTestConfig(t, testHandlerConfig())
	useTestCloud(t, &awsec2.MockClient{})
	swapDestroyPhase(t, &fakePhase{name: "destroy"})
	swapConfirm(t, false)

	seedProvisionedEnv(t, store)

	require.NoError(t, Down(context.Background(), ""))

	rec, err := store.Load("dev")
	require.NoError(t, err)
	require.Equal(t, "i-123", rec.InstanceID)
}

func TestDownPhaseFailureKeepsLocalState(t *testing.T) {
	store := useTestStore(t)
	useTestConfig(t, testHandlerConfig())
	useTestCloud(t, &awsec2.MockClient{})
	swapDestroyPhase(t, &fakePhase{name: "destroy", fn: func(*provisioning.Context) error {
		return context.DeadlineExceeded
	}})
	swapConfirm(t, true)

	seedProvisionedEnv(t, store)

	require.Error(t, Down(context.Background(), ""))

	_, err := store.Load("dev")
	require.NoError(t, err)
}

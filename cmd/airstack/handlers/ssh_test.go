package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSSHUsesRecordAndStoredKey(t *testing.T) {
	store := useTestStore(t)
	useTestConfig(t, testHandlerConfig())
	seedProvisionedEnv(t, store)

	var gotHost, gotUser, gotKey string
	orig := runInteractiveSSH
	runInteractiveSSH = func(host, user, keyPath string) error {
		gotHost, gotUser, gotKey = host, user, keyPath
		return nil
	}
	defer func() { runInteractiveSSH = orig }()

	require.NoError(t, SSH(context.Background(), ""))
	require.Equal(t, "192.0.2.10", gotHost)
	require.Equal(t, "ubuntu", gotUser)
	require.Equal(t, store.KeyPath("dev"), gotKey)
}

func TestSSHWithoutInstance(t *testing.T) {
	useTestStore(t)
	useTestConfig(t, testHandlerConfig())
	useTestCloud(t, fallbackCloudWithNoInstance())

	err := SSH(context.Background(), "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "airstack up")
}

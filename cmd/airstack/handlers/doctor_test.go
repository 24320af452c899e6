package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/airstackdev/airstack/internal/platform/awsec2"
)

func swapLookPath(t *testing.T, err error) {
	t.Helper()
	orig := lookPath
	lookPath = func(string) (string, error) {
		if err != nil {
			return "", err
		}
		return "/usr/bin/ssh", nil
	}
	t.Cleanup(func() { lookPath = orig })
}

func TestDoctorAllChecksPass(t *testing.T) {
	useTestStore(t)
	useTestConfig(t, testHandlerConfig())
	useTestCloud(t, &awsec2.MockClient{})
	swapLookPath(t, nil)

	require.NoError(t, Doctor(context.Background(), ""))
}

func TestDoctorMissingSSHBinary(t *testing.T) {
	useTestStore(t)
	useTestConfig(t, testHandlerConfig())
	useTestCloud(t, &awsec2.MockClient{})
	swapLookPath(t, errors.New("executable file not found"))

	require.Error(t, Doctor(context.Background(), ""))
}

func TestDoctorAPIFailure(t *testing.T) {
	useTestStore(t)
	useTestConfig(t, testHandlerConfig())
	swapLookPath(t, nil)
	useTestCloud(t, &awsec2.MockClient{
		FindSecurityGroupFunc: func(context.Context, string) (string, error) {
			return "", errors.New("no credentials")
		},
	})

	require.Error(t, Doctor(context.Background(), ""))
}

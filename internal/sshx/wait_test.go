package sshx

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWaitReachableOpenPort(t *testing.T) {
	t.Parallel()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			_ = conn.Close()
		}
	}()

	host, port := splitAddr(t, listener.Addr().String())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, WaitReachable(ctx, host, port))
}

func TestWaitReachableDeadline(t *testing.T) {
	t.Parallel()
	// Grab a port and close it again so nothing is listening there.
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	host, port := splitAddr(t, listener.Addr().String())
	require.NoError(t, listener.Close())

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	err = WaitReachable(ctx, host, port)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWaitReachableNeverSucceedsWhileClosed(t *testing.T) {
	t.Parallel()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	host, port := splitAddr(t, listener.Addr().String())
	require.NoError(t, listener.Close())

	done := make(chan error, 1)
	ctx, cancel := context.WithCancel(context.Background())
	go func() { done <- WaitReachable(ctx, host, port) }()

	select {
	case err := <-done:
		t.Fatalf("WaitReachable returned %v while the port was closed", err)
	case <-time.After(2 * time.Second):
	}

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func splitAddr(t *testing.T, addr string) (string, int) {
	t.Helper()
	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	tcpAddr, err := net.ResolveTCPAddr("tcp", net.JoinHostPort(host, portStr))
	require.NoError(t, err)
	return host, tcpAddr.Port
}

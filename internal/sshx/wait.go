package sshx

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/chainguard-dev/clog"
)

var dialer = &net.Dialer{
	Timeout: 3 * time.Second,
}

// WaitReachable blocks until a TCP connection to host:port succeeds or the
// context deadline passes. Callers bound the wait with a deadline; this
// function never reports success while connection attempts are failing.
func WaitReachable(ctx context.Context, host string, port int) error {
	log := clog.FromContext(ctx).With("host", host, "port", port)
	target := net.JoinHostPort(host, strconv.Itoa(port))

	delay := 1 * time.Second
	const maxDelay = 10 * time.Second
	for {
		if portOpen(ctx, target) {
			log.Debug("target is reachable")
			return nil
		}
		select {
		case <-ctx.Done():
			log.Debug("gave up waiting for target to become reachable")
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
			if delay > maxDelay {
				delay = maxDelay
			}
		}
	}
}

func portOpen(ctx context.Context, target string) bool {
	conn, err := dialer.DialContext(ctx, "tcp", target)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

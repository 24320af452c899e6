package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds all configurable timeout values.
// These values can be customized via environment variables.
type Timeouts struct {
	InstanceRunning   time.Duration // Timeout for the instance to reach the running state
	InstanceTerminate time.Duration // Timeout for the instance to reach the terminated state
	SSHReady          time.Duration // Timeout for the SSH port to become reachable
	Delete            time.Duration // Timeout for security group and key pair deletion
	Deploy            time.Duration // Timeout for a full remote deploy
	RetryMaxAttempts  int           // Maximum number of retry attempts
	RetryInitialDelay time.Duration // Initial delay between retries
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - AIRSTACK_TIMEOUT_INSTANCE_RUNNING (default: 5m)
//   - AIRSTACK_TIMEOUT_INSTANCE_TERMINATE (default: 5m)
//   - AIRSTACK_TIMEOUT_SSH_READY (default: 3m)
//   - AIRSTACK_TIMEOUT_DELETE (default: 2m)
//   - AIRSTACK_TIMEOUT_DEPLOY (default: 20m)
//   - AIRSTACK_RETRY_MAX_ATTEMPTS (default: 5)
//   - AIRSTACK_RETRY_INITIAL_DELAY (default: 1s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		InstanceRunning:   parseDuration("AIRSTACK_TIMEOUT_INSTANCE_RUNNING", 5*time.Minute),
		InstanceTerminate: parseDuration("AIRSTACK_TIMEOUT_INSTANCE_TERMINATE", 5*time.Minute),
		SSHReady:          parseDuration("AIRSTACK_TIMEOUT_SSH_READY", 3*time.Minute),
		Delete:            parseDuration("AIRSTACK_TIMEOUT_DELETE", 2*time.Minute),
		Deploy:            parseDuration("AIRSTACK_TIMEOUT_DEPLOY", 20*time.Minute),
		RetryMaxAttempts:  parseInt("AIRSTACK_RETRY_MAX_ATTEMPTS", 5),
		RetryInitialDelay: parseDuration("AIRSTACK_RETRY_INITIAL_DELAY", 1*time.Second),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return n
}

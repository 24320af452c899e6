package handlers

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/airstackdev/airstack/internal/state"
)

// lookPath finds a binary on PATH - can be replaced in tests.
var lookPath = exec.LookPath

type checkResult struct {
	name   string
	ok     bool
	detail string
}

// Doctor runs preflight checks before anything is provisioned: the
// configuration parses and validates, a local ssh binary exists for the
// interactive shell, and the AWS credentials can reach the EC2 API in the
// configured region. It also reports whether a state record exists.
func Doctor(ctx context.Context, configPath string) error {
	var results []checkResult
	failed := false

	cfg, err := loadConfig(configPath)
	if err != nil {
		results = append(results, checkResult{"configuration", false, err.Error()})
		printChecks(results)
		return fmt.Errorf("doctor found problems")
	}
	results = append(results, checkResult{"configuration", true, fmt.Sprintf("env %s, region %s", cfg.Env, cfg.Region)})

	if path, err := lookPath("ssh"); err != nil {
		failed = true
		results = append(results, checkResult{"ssh binary", false, "not found on PATH, 'airstack ssh' will not work"})
	} else {
		results = append(results, checkResult{"ssh binary", true, path})
	}

	if cloud, err := newCloudClient(ctx, cfg.Region); err != nil {
		failed = true
		results = append(results, checkResult{"aws credentials", false, err.Error()})
	} else if _, err := cloud.FindSecurityGroup(ctx, cfg.SecurityGroupName()); err != nil {
		failed = true
		results = append(results, checkResult{"aws api", false, err.Error()})
	} else {
		results = append(results, checkResult{"aws api", true, "EC2 reachable in " + cfg.Region})
	}

	store, err := newStore(cfg.DataDir)
	if err != nil {
		return err
	}
	if rec, err := store.Load(cfg.Env); err == nil {
		results = append(results, checkResult{"state record", true, "instance " + rec.InstanceID})
	} else if errors.Is(err, state.ErrNotFound) {
		results = append(results, checkResult{"state record", true, "none, environment not provisioned"})
	} else {
		failed = true
		results = append(results, checkResult{"state record", false, err.Error()})
	}

	printChecks(results)
	if failed {
		return fmt.Errorf("doctor found problems")
	}
	return nil
}

func printChecks(results []checkResult) {
	for _, r := range results {
		mark := "[OK]  "
		if !r.ok {
			mark = "[FAIL]"
		}
		fmt.Printf("%s %-16s %s\n", mark, r.name, r.detail)
	}
}

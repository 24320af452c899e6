// Package main is the entry point for the airstack CLI.
//
// airstack provisions, configures, deploys to, and tears down a
// single-node Apache Airflow development environment on an AWS EC2
// instance.
//
// Commands: up, setup, deploy, redeploy, ssh, status, down, doctor.
//
// For detailed usage information, run:
//
//	airstack --help
package main

import (
	"fmt"
	"os"

	"github.com/airstackdev/airstack/cmd/airstack/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

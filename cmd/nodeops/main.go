// Package main is the entry point for the nodeops CLI.
//
// nodeops provisions blockchain node clusters on AWS: it derives a cluster
// specification, creates the infrastructure stacks, distributes install
// artifacts through shared storage, and waits for nodes to discover each
// other and report healthy.
//
// Commands: default-spec, check, apply, destroy, health.
//
// For detailed usage information, run:
//
//	nodeops --help
package main

import (
	"fmt"
	"os"

	"github.com/quorumlabs/nodeops/cmd/nodeops/commands"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	commands.SetVersionInfo(version, commit)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

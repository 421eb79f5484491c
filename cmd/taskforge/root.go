// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskForge Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the TaskForge CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "taskforge",
		Short: "TaskForge - a multi-tenant task tracking backend",
		Long: `TaskForge is a task tracking backend with per-user projects,
stateless session tokens, and strict ownership enforcement.`,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newStatusCmd())

	return cmd
}

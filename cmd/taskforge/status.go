// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskForge Contributors

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskforge/taskforge/internal/config"
)

// probeStatus holds the result of one health probe.
type probeStatus struct {
	Probe string `json:"probe"`
	Up    bool   `json:"up"`
	Error string `json:"error,omitempty"`
}

type statusConfig struct {
	jsonOutput bool
	timeout    time.Duration
}

// newStatusCmd creates the status subcommand with all flags configured.
func newStatusCmd() *cobra.Command {
	cfg := &statusConfig{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show health of a running TaskForge server",
		Long:  `Probe the liveness and readiness endpoints of a running server's observability listener.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, cfg)
		},
	}

	cmd.Flags().BoolVar(&cfg.jsonOutput, "json", false, "output status as JSON")
	cmd.Flags().DurationVar(&cfg.timeout, "timeout", 3*time.Second, "probe timeout")

	return cmd
}

func runStatus(cmd *cobra.Command, cfg *statusConfig) error {
	appCfg, err := config.Load(configFile, nil)
	if err != nil {
		return err
	}
	if appCfg.MetricsAddr == "" {
		return fmt.Errorf("metrics_addr is empty; the server has no health endpoints to probe")
	}

	client := &http.Client{Timeout: cfg.timeout}
	statuses := []probeStatus{
		probe(client, appCfg.MetricsAddr, "liveness"),
		probe(client, appCfg.MetricsAddr, "readiness"),
	}

	if cfg.jsonOutput {
		encoded, err := json.MarshalIndent(statuses, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format JSON: %w", err)
		}
		cmd.Println(string(encoded))
		return nil
	}

	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PROBE\tUP\tERROR")
	for _, s := range statuses {
		errText := s.Error
		if errText == "" {
			errText = "-"
		}
		fmt.Fprintf(w, "%s\t%t\t%s\n", s.Probe, s.Up, errText)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	cmd.Print(b.String())
	return nil
}

func probe(client *http.Client, addr, name string) probeStatus {
	status := probeStatus{Probe: name}

	resp, err := client.Get(fmt.Sprintf("http://%s/healthz/%s", addr, name))
	if err != nil {
		status.Error = err.Error()
		return status
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		status.Error = fmt.Sprintf("unexpected status %d", resp.StatusCode)
		return status
	}

	status.Up = true
	return status
}

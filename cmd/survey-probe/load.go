package main

import (
	"context"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/diabcheck/internal/probe"
)

// Default configuration constants.
const (
	defaultSessions    = 1000
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Submit random valid sessions and verify malformed ones are rejected",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		url, _ := flags.GetString("url")
		sessions, _ := flags.GetInt("sessions")
		workers, _ := flags.GetInt("workers")
		timeout, _ := flags.GetDuration("timeout")
		verbose, _ := flags.GetBool("verbose")

		ctx, cancel := context.WithTimeout(cmd.Context(), defaultTestTimeout)
		defer cancel()

		_, err := probe.Run(ctx, &probe.Config{
			BaseURL:  url,
			Sessions: sessions,
			Workers:  max(workers, 1),
			Timeout:  timeout,
			Verbose:  verbose,
		}, cmd.OutOrStdout())
		return err
	},
}

func init() {
	loadCmd.Flags().String("url", "http://localhost:9080", "Base URL of the service")
	loadCmd.Flags().Int("sessions", defaultSessions, "Number of survey sessions to submit")
	loadCmd.Flags().Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
	loadCmd.Flags().Duration("timeout", defaultTimeout, "HTTP request timeout")
	loadCmd.Flags().Bool("verbose", false, "Log every failed session")
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/okian/diabcheck/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "survey-probe",
	Short: "Exercise the diabetes survey predictor",
	Long:  "survey-probe submits generated survey sessions to a running diabcheck server, or predicts offline from an answers file.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("log-format")
		if err := logger.Init(logger.WithWriter(cmd.ErrOrStderr()), logger.WithFormat(format)); err != nil {
			return err
		}
		level, _ := cmd.Flags().GetString("log-level")
		return logger.SetLevelString(level)
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format: text or json")

	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(predictCmd)
}

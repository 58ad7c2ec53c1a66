package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/okian/diabcheck/internal/probe"
)

var predictCmd = &cobra.Command{
	Use:   "predict ANSWERS_FILE",
	Short: "Predict offline from a YAML or JSON answers file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		transformer, _ := cmd.Flags().GetString("transformer")
		classifier, _ := cmd.Flags().GetString("classifier")

		out, err := probe.PredictFile(cmd.Context(), transformer, classifier, args[0])
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"prediction": out.Label,
			"message":    out.Message,
			"features":   out.Row,
		})
	},
}

func init() {
	predictCmd.Flags().String("transformer", "models/transformer.json", "Path to the transformer artifact")
	predictCmd.Flags().String("classifier", "models/classifier.json", "Path to the classifier artifact")
}

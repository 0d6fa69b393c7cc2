package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/parcelworks/feasibility-cli/internal/pipeline"
)

var runJSON bool

var runCmd = &cobra.Command{
	Use:   "run <address>",
	Short: "Run the feasibility pipeline for a single address",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		outcome, err := pipeline.RunSingle(ctx, env.Pipeline, args[0])
		if err != nil {
			return err
		}

		if runJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(outcome)
		}
		printOutcome(os.Stdout, outcome)
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&runJSON, "json", false, "emit the full outcome as JSON")
	rootCmd.AddCommand(runCmd)
}

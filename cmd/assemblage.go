package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/parcelworks/feasibility-cli/internal/pipeline"
)

var assemblageJSON bool

var assemblageCmd = &cobra.Command{
	Use:   "assemblage <address> <address> [address...]",
	Short: "Run the feasibility pipeline over a multi-lot assemblage",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		outcome, err := pipeline.RunAssemblage(ctx, env.Pipeline, args)
		if err != nil {
			return err
		}

		if assemblageJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(outcome)
		}

		printOutcome(os.Stdout, outcome)
		if outcome.Aggregation != nil {
			agg := outcome.Aggregation
			fmt.Fprintf(os.Stdout, "combined lot area: %.1f sqft\n", agg.CombinedLotAreaSqft)
			fmt.Fprintf(os.Stdout, "total buildable:   %.1f sqft (%s)\n", agg.TotalBuildableSqft, agg.FARMethod)
			if agg.DensityResult != nil {
				fmt.Fprintf(os.Stdout, "dwelling units:    %d (%s)\n", agg.DensityResult.UnitsRounded, agg.DensityResult.Strategy)
			}
		}
		return nil
	},
}

func init() {
	assemblageCmd.Flags().BoolVar(&assemblageJSON, "json", false, "emit the full outcome as JSON")
	rootCmd.AddCommand(assemblageCmd)
}

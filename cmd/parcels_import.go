package main

import (
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/parcelworks/feasibility-cli/pkg/parcel"
)

var parcelsCmd = &cobra.Command{
	Use:   "parcels",
	Short: "Manage the parcel lot database",
}

var parcelsImportCmd = &cobra.Command{
	Use:   "import <file.xlsx>",
	Short: "Import lot records from a spreadsheet export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("import"); err != nil {
			return err
		}
		ctx := cmd.Context()

		pool, err := pgxpool.New(ctx, cfg.Parcel.DatabaseURL)
		if err != nil {
			return eris.Wrap(err, "connect parcel database")
		}
		defer pool.Close()

		n, err := parcel.LoadXLSX(ctx, pool, args[0])
		if err != nil {
			return eris.Wrap(err, "import parcels")
		}
		fmt.Fprintf(os.Stdout, "imported %d lot records\n", n)
		return nil
	},
}

func init() {
	parcelsCmd.AddCommand(parcelsImportCmd)
	rootCmd.AddCommand(parcelsCmd)
}

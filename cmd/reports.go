package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/parcelworks/feasibility-cli/internal/model"
	"github.com/parcelworks/feasibility-cli/internal/pipeline"
	"github.com/parcelworks/feasibility-cli/internal/store"
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Inspect persisted feasibility reports",
}

var reportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List feasibility reports",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		status, _ := cmd.Flags().GetString("status")
		kind, _ := cmd.Flags().GetString("kind")
		limit, _ := cmd.Flags().GetInt("limit")

		reports, err := st.ListReports(ctx, store.ReportFilter{
			Status: model.ReportStatus(status),
			Kind:   model.QueryKind(kind),
			Limit:  limit,
		})
		if err != nil {
			return eris.Wrap(err, "reports list")
		}

		if len(reports) == 0 {
			fmt.Fprintln(os.Stderr, "No reports found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tKIND\tSTATUS\tADDRESSES\tCREATED")
		for _, r := range reports {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				r.ID, r.Query.Kind, r.Status,
				strings.Join(r.Query.Addresses, "; "),
				r.CreatedAt.Format("2006-01-02 15:04"),
			)
		}
		return w.Flush()
	},
}

var reportsShowCmd = &cobra.Command{
	Use:   "show <report-id>",
	Short: "Show one report with its source records",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		report, err := st.GetReport(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "reports show")
		}
		sources, err := st.ListSourceRecords(ctx, report.ID)
		if err != nil {
			return eris.Wrap(err, "reports show sources")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Report  *model.Report              `json:"report"`
			Sources []model.ReportSourceRecord `json:"sources"`
		}{report, sources})
	},
}

// printOutcome renders the per-source status table shared by run and
// assemblage.
func printOutcome(w io.Writer, outcome *pipeline.Outcome) {
	fmt.Fprintf(w, "report %s: %s\n", outcome.ReportID, outcome.Status)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SOURCE\tCHILD\tSTATUS\tERROR")
	for _, src := range outcome.Sources {
		child := "-"
		if src.ChildIndex != nil {
			child = fmt.Sprintf("%d", *src.ChildIndex)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", src.SourceKey, child, src.Status, src.ErrorMessage)
	}
	_ = tw.Flush()
}

func init() {
	reportsListCmd.Flags().String("status", "", "filter by status (pending|ready|failed)")
	reportsListCmd.Flags().String("kind", "", "filter by kind (single|assemblage)")
	reportsListCmd.Flags().Int("limit", 50, "max reports to list")
	reportsCmd.AddCommand(reportsListCmd)
	reportsCmd.AddCommand(reportsShowCmd)
	rootCmd.AddCommand(reportsCmd)
}

package audit

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"nathanbeddoewebdev/mailprov/internal/auditlog"

	"github.com/spf13/cobra"
)

// RunsCommand returns the "audit runs" subcommand.
func RunsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent apply runs with their outcome totals",
		Long: `List recent 'mailprov dns apply' runs, one line per run, with the number
of created, skipped and failed records. Use the run ID with
'mailprov audit list --run' to see the records of one run.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runRuns,
	}

	cmd.Flags().Int("limit", 10, "Number of runs to display")
	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runRuns(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		return fmt.Errorf("limit must be greater than 0")
	}
	output, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	repo, err := auditlog.Open()
	if err != nil {
		return err
	}
	defer repo.Close()

	runs, err := repo.Runs(limit)
	if err != nil {
		return err
	}

	if output == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tRUN\tPROVIDER\tCREATED\tSKIPPED\tFAILED")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\n",
			r.Started.Local().Format("2006-01-02 15:04:05"), r.RunID, r.Provider, r.Created, r.Skipped, r.Failed)
	}
	return w.Flush()
}

package dns

import (
	"fmt"

	"nathanbeddoewebdev/mailprov/internal/dns/planner"
	"nathanbeddoewebdev/mailprov/internal/dns/report"

	"github.com/spf13/cobra"
)

// PlanCommand returns the "dns plan" subcommand.
func PlanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Preview the DNS records a sheet describes",
		Long: `Fetch the sheet and print the records that 'mailprov dns apply' would
process, grouped by domain. Nothing is sent to the DNS provider.

Examples:
  mailprov dns plan --sheet-url https://docs.google.com/spreadsheets/d/ID/export?format=xlsx
  mailprov dns plan --sheet-url ./records.csv --target-domains example.com`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runPlan,
	}

	addSheetFlags(cmd)

	return cmd
}

func runPlan(cmd *cobra.Command, args []string) error {
	settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}

	result, err := loadPlan(cmd.Context(), settings, nil)
	if err != nil {
		return err
	}

	if len(result.Intents) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No DNS records to apply.")
		return nil
	}
	return report.WritePreview(cmd.OutOrStdout(), planner.Group(result.Intents))
}

package audit

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"nathanbeddoewebdev/mailprov/internal/auditlog"

	"github.com/spf13/cobra"
)

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent audit entries",
		Long: `List recent audit entries stored locally.

Examples:
  mailprov audit list
  mailprov audit list --limit 50
  mailprov audit list --run 01HZX3M5Q4S8V2T7K9C1B6N0EW
  mailprov audit list --outcome failed
  mailprov audit list -o json`,
		RunE:         runList,
		SilenceUsage: true,
	}

	cmd.Flags().Int("limit", 25, "Number of entries to display")
	cmd.Flags().String("run", "", "Show every entry of one run")
	cmd.Flags().String("command", "", "Filter by exact command path")
	cmd.Flags().String("outcome", "", "Only show entries with this outcome (created, skipped, failed)")
	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		return fmt.Errorf("limit must be greater than 0")
	}

	runID, _ := cmd.Flags().GetString("run")
	filter, _ := cmd.Flags().GetString("command")
	outcome, _ := cmd.Flags().GetString("outcome")
	output, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	repo, err := auditlog.Open()
	if err != nil {
		return err
	}
	defer repo.Close()

	var entries []auditlog.AuditEntry
	switch {
	case strings.TrimSpace(runID) != "":
		entries, err = repo.ListByRun(strings.TrimSpace(runID))
	case filter != "":
		entries, err = repo.ListByCommand(filter, limit)
	default:
		entries, err = repo.List(limit)
	}
	if err != nil {
		return err
	}
	if outcome = strings.ToLower(strings.TrimSpace(outcome)); outcome != "" {
		entries = slices.DeleteFunc(entries, func(e auditlog.AuditEntry) bool { return e.Outcome != outcome })
	}

	if output == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No audit entries found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tRUN\tOUTCOME\tDURATION\tRECORD\tDETAIL")
	for _, entry := range entries {
		timeStr := entry.Timestamp.Local().Format("2006-01-02 15:04:05")
		detail := entry.Detail
		if detail == "" {
			detail = "-"
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			timeStr,
			entry.RunID,
			entry.Outcome,
			formatDuration(entry.DurationMs),
			formatRecord(entry),
			detail,
		)
	}
	return w.Flush()
}

func outputFormat(cmd *cobra.Command) (string, error) {
	output, _ := cmd.Flags().GetString("output")
	switch output {
	case "", "table":
		return "table", nil
	case "json":
		return output, nil
	}
	return "", fmt.Errorf("unsupported output format %q", output)
}

// formatDuration renders a per-record duration, which stays well under a
// minute since each provider call is bounded.
func formatDuration(ms int64) string {
	return (time.Duration(ms) * time.Millisecond).Round(time.Millisecond).String()
}

// formatRecord renders "TYPE name -> content", or the domain for run-level
// entries that carry no record.
func formatRecord(entry auditlog.AuditEntry) string {
	if entry.RecordType == "" && entry.RecordName == "" {
		if entry.Domain != "" {
			return entry.Domain
		}
		return "-"
	}

	record := strings.TrimSpace(entry.RecordType + " " + entry.RecordName)
	if entry.Content != "" {
		record += " -> " + entry.Content
	}
	if entry.RecordID != "" {
		record += " [" + entry.RecordID + "]"
	}
	return record
}

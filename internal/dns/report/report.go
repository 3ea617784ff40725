// Package report renders the pre-apply preview and the post-apply summary.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"nathanbeddoewebdev/mailprov/internal/dns/domain"
	"nathanbeddoewebdev/mailprov/internal/dns/reconcile"
	"nathanbeddoewebdev/mailprov/internal/tui/styles"
)

// WritePreview prints the plan grouped by domain, followed by the total and a
// notice that nothing has been changed.
func WritePreview(w io.Writer, batch domain.PlanBatch) error {
	r := lipgloss.NewRenderer(w)
	title := styles.Bind(r, styles.Title)
	accent := styles.Bind(r, styles.AccentText)
	sub := styles.Bind(r, styles.Subtitle)
	muted := styles.Bind(r, styles.MutedText)

	var b strings.Builder
	b.WriteString(title.Render("DNS records to apply"))
	b.WriteString("\n")

	for _, g := range batch.Groups {
		fmt.Fprintf(&b, "\n%s %s\n", accent.Render(g.Domain), sub.Render("(zone "+g.ZoneID+")"))

		tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
		for _, in := range g.Intents {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", in.Type, in.Name, contentWithPriority(in))
		}
		tw.Flush()
	}

	fmt.Fprintf(&b, "\nTotal records planned: %d\n", batch.Len())
	b.WriteString(muted.Render("No changes have been made yet."))
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteSummary prints one line per result and the totals by outcome.
func WriteSummary(w io.Writer, results []reconcile.Result) error {
	r := lipgloss.NewRenderer(w)
	title := styles.Bind(r, styles.Title)

	var b strings.Builder
	b.WriteString(title.Render("Summary"))
	b.WriteString("\n")

	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	for _, res := range results {
		line := fmt.Sprintf("  %s\t%s\t%s\t%s", res.Status, res.Intent.Type, res.Intent.Name, contentWithPriority(res.Intent))
		if res.Status == reconcile.StatusFailed {
			line += "\t" + res.Reason
		}
		fmt.Fprintln(tw, line)
	}
	tw.Flush()

	counts := reconcile.Counts(results)
	fmt.Fprintf(&b, "\n%s  %s  %s\n",
		OutcomeLabel(r, reconcile.StatusCreated, counts[reconcile.StatusCreated]),
		OutcomeLabel(r, reconcile.StatusSkipped, counts[reconcile.StatusSkipped]),
		OutcomeLabel(r, reconcile.StatusFailed, counts[reconcile.StatusFailed]),
	)

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteProgress prints a single result as it completes.
func WriteProgress(w io.Writer, res reconcile.Result) error {
	r := lipgloss.NewRenderer(w)
	status := styles.Bind(r, styles.OutcomeStyle(string(res.Status))).Render(string(res.Status))
	status += strings.Repeat(" ", max(0, 7-len(res.Status)))

	line := fmt.Sprintf("%s %s", status, res.Intent.Label())
	if res.Intent.Priority != nil {
		line += fmt.Sprintf(" (priority %d)", *res.Intent.Priority)
	}
	if res.Status == reconcile.StatusFailed && res.Reason != "" {
		line += ": " + res.Reason
	}
	_, err := fmt.Fprintln(w, line)
	return err
}

// OutcomeLabel renders "Created: N" styled for the outcome.
func OutcomeLabel(r *lipgloss.Renderer, status reconcile.Status, n int) string {
	name := string(status)
	label := strings.ToUpper(name[:1]) + name[1:]
	return styles.Bind(r, styles.OutcomeStyle(name)).Render(fmt.Sprintf("%s: %d", label, n))
}

func contentWithPriority(in domain.RecordIntent) string {
	if in.Priority != nil {
		return fmt.Sprintf("%s (priority %d)", in.Content, *in.Priority)
	}
	return in.Content
}

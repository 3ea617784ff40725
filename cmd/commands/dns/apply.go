package dns

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"nathanbeddoewebdev/mailprov/internal/auditlog"
	"nathanbeddoewebdev/mailprov/internal/config"
	"nathanbeddoewebdev/mailprov/internal/dns/planner"
	"nathanbeddoewebdev/mailprov/internal/dns/reconcile"
	"nathanbeddoewebdev/mailprov/internal/dns/report"
	"nathanbeddoewebdev/mailprov/internal/dns/tui"
	"nathanbeddoewebdev/mailprov/internal/logging"
	"nathanbeddoewebdev/mailprov/internal/metrics"

	"github.com/spf13/cobra"
)

// ErrConfirmationRequired is returned when apply needs a confirmation but
// stdin is not a terminal.
var ErrConfirmationRequired = errors.New("confirmation required but stdin is not a terminal (use --yes or " + config.EnvAssumeYes + "=1)")

// Seams replaced in tests.
var (
	confirmApply  = tui.ConfirmApply
	openAuditRepo = func() (auditlog.Repository, error) { return auditlog.Open() }
)

// ApplyCommand returns the "dns apply" subcommand.
func ApplyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Create the missing DNS records a sheet describes",
		Long: `Fetch the sheet, preview the planned records and, after confirmation,
create every record that does not already exist at the provider.

Records are processed one at a time. A record that already exists with the
same type, name and content (and priority for MX) is skipped. A failed
record is reported and the run continues. Nothing is updated or deleted.

Examples:
  mailprov dns apply --sheet-url ./records.xlsx
  mailprov dns apply --yes --target-domains example.com,example.org
  DNS_FILE_URL=https://example.com/records.csv mailprov dns apply --yes`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runApply,
	}

	addSheetFlags(cmd)
	timeoutFlag(cmd)
	cmd.Flags().BoolP("yes", "y", false, "Apply without asking for confirmation (env "+config.EnvAssumeYes+")")
	cmd.Flags().String("metrics-file", "", "Write run metrics in Prometheus textfile format (env "+config.EnvMetricsFile+")")
	cmd.Flags().Bool("no-audit", false, "Do not record this run in the audit log (env "+config.EnvDisableAudit+")")

	return cmd
}

func runApply(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)
	out := cmd.OutOrStdout()

	settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	providerName := cmd.Flag("provider").Value.String()

	rec := metrics.New()
	metricsFile, _ := cmd.Flags().GetString("metrics-file")
	if metricsFile == "" {
		metricsFile = getenv(config.EnvMetricsFile)
	}
	defer func() {
		if err := rec.WriteTextfile(metricsFile); err != nil {
			log.Warn(ctx, "failed to write metrics file", "path", metricsFile, "error", err)
		}
	}()

	result, err := loadPlan(ctx, settings, rec)
	if err != nil {
		return err
	}
	if len(result.Intents) == 0 {
		fmt.Fprintln(out, "No DNS records to apply.")
		return nil
	}

	if err := report.WritePreview(out, planner.Group(result.Intents)); err != nil {
		return err
	}

	if !settings.AssumeYes {
		if !canPrompt() {
			return ErrConfirmationRequired
		}
		ok, err := confirmApply(len(result.Intents))
		if err != nil && !errors.Is(err, tui.ErrApplyAborted) {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Aborted. No DNS changes applied.")
			return nil
		}
	}

	factory, err := zoneFactory(providerName, rec)
	if err != nil {
		return err
	}

	audit := startAudit(cmd, providerName)
	defer audit.close()

	fmt.Fprintln(out)
	last := time.Now()
	r := reconcile.New(factory,
		reconcile.WithTimeout(getTimeout(cmd)),
		reconcile.WithResultHook(func(res reconcile.Result) {
			if err := report.WriteProgress(out, res); err != nil {
				logging.FromContext(ctx).Warn(ctx, "failed to write progress", "error", err)
			}
			rec.IncrementRecord(res.Intent.Domain, string(res.Status))
			now := time.Now()
			audit.record(ctx, res, now.Sub(last))
			last = now
		}),
	)
	results := r.Apply(ctx, result.Intents)

	fmt.Fprintln(out)
	return report.WriteSummary(out, results)
}

// applyAudit writes one audit entry per result. A zero value (no repository)
// records nothing.
type applyAudit struct {
	repo auditlog.Repository
	run  auditlog.Run
}

// startAudit opens the audit log unless disabled. Failing to open it only
// logs a warning.
func startAudit(cmd *cobra.Command, provider string) *applyAudit {
	ctx := cmd.Context()
	noAudit, _ := cmd.Flags().GetBool("no-audit")
	if noAudit || config.EnvBool(getenv(config.EnvDisableAudit)) {
		return &applyAudit{}
	}

	repo, err := openAuditRepo()
	if err != nil {
		logging.FromContext(ctx).Warn(ctx, "audit log unavailable", "error", err)
		return &applyAudit{}
	}

	run := auditlog.NewRun(cmd.CommandPath(), os.Args[1:], provider)
	logging.FromContext(ctx).Debug(ctx, "audit run started", "run", run.ID)
	return &applyAudit{repo: repo, run: run}
}

func (a *applyAudit) record(ctx context.Context, res reconcile.Result, elapsed time.Duration) {
	if a.repo == nil {
		return
	}
	entry := a.run.Entry()
	entry.Domain = res.Intent.Domain
	entry.ZoneID = res.Intent.ZoneID
	entry.RecordType = string(res.Intent.Type)
	entry.RecordName = res.Intent.Name
	entry.Content = res.Intent.Content
	if res.Intent.Priority != nil {
		entry.Content = fmt.Sprintf("%s (priority %d)", res.Intent.Content, *res.Intent.Priority)
	}
	entry.RecordID = res.RecordID
	entry.Outcome = string(res.Status)
	entry.Detail = strings.TrimSpace(res.Reason)
	entry.DurationMs = elapsed.Milliseconds()

	if err := a.repo.Save(entry); err != nil {
		logging.FromContext(ctx).Warn(ctx, "failed to write audit entry", "error", err)
	}
}

func (a *applyAudit) close() {
	if a.repo != nil {
		a.repo.Close()
	}
}

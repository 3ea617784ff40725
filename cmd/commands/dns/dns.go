package dns

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"nathanbeddoewebdev/mailprov/internal/config"
	"nathanbeddoewebdev/mailprov/internal/dns/domain"
	"nathanbeddoewebdev/mailprov/internal/dns/planner"
	dnsproviders "nathanbeddoewebdev/mailprov/internal/dns/providers"
	"nathanbeddoewebdev/mailprov/internal/dns/reconcile"
	"nathanbeddoewebdev/mailprov/internal/dns/tui"
	"nathanbeddoewebdev/mailprov/internal/logging"
	"nathanbeddoewebdev/mailprov/internal/metrics"
	"nathanbeddoewebdev/mailprov/internal/sheet"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// defaultProvider is used when neither --provider nor the dns-provider config
// key is set.
const defaultProvider = "cloudflare"

// Seams replaced in tests.
var (
	canPrompt  = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
	canSpin    = func() bool { return term.IsTerminal(int(os.Stderr.Fd())) }
	getenv     = os.Getenv
	httpClient = &http.Client{Timeout: sheet.DefaultFetchTimeout}
)

// NewCommand returns the top-level "dns" Cobra command with all subcommands attached.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dns",
		Short: "Plan and apply DNS records from a spreadsheet",
		Long: `Read the desired DNS records from a spreadsheet and create the ones that
are missing at the provider. Existing records are left untouched.

Each sheet row names a domain, its zone ID and API token, and one record
(type, name, content, priority). Blank domain, zone ID and token cells
inherit the value from the rows above.`,
		PersistentPreRunE: resolveDNSProvider,
	}

	cmd.AddCommand(PlanCommand())
	cmd.AddCommand(ApplyCommand())
	cmd.AddCommand(RecordsCommand())

	cmd.PersistentFlags().String("provider", "", "DNS provider to use (default from config, else cloudflare)")

	return cmd
}

// resolveDNSProvider ensures the --provider flag has a value, falling back to
// the dns-provider config key and then to Cloudflare.
func resolveDNSProvider(cmd *cobra.Command, args []string) error {
	if !cmd.Flag("provider").Changed {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		name := cfg.DNSProvider
		if name == "" {
			name = defaultProvider
		}
		if err := cmd.Flag("provider").Value.Set(name); err != nil {
			return fmt.Errorf("failed to set provider flag: %w", err)
		}
	}

	_, err := dnsproviders.Lookup(cmd.Flag("provider").Value.String())
	return err
}

func addSheetFlags(cmd *cobra.Command) {
	cmd.Flags().String("sheet-url", "", "Workbook URL or local path (env "+config.EnvSheetURL+")")
	cmd.Flags().String("sheet-name", "", "Workbook tab to read (env "+config.EnvSheetName+", default "+config.DefaultSheetName+")")
	cmd.Flags().String("target-domains", "", "Comma-separated domains to process (env "+config.EnvTargetDomains+")")
}

// resolveSettings merges the sheet flags with the environment and config file.
func resolveSettings(cmd *cobra.Command) (config.SheetSettings, error) {
	var flags config.SheetFlags
	flags.URL, _ = cmd.Flags().GetString("sheet-url")
	flags.SheetName, _ = cmd.Flags().GetString("sheet-name")
	flags.TargetDomains, _ = cmd.Flags().GetString("target-domains")
	if cmd.Flags().Changed("yes") {
		yes, _ := cmd.Flags().GetBool("yes")
		flags.AssumeYes = &yes
	}

	cfg, err := config.Load()
	if err != nil {
		return config.SheetSettings{}, fmt.Errorf("failed to load config: %w", err)
	}
	return config.ResolveSheet(flags, getenv, cfg)
}

// loadPlan fetches the sheet and plans its rows. Dropped rows are logged and
// counted on rec.
func loadPlan(ctx context.Context, settings config.SheetSettings, rec *metrics.Recorder) (planner.Result, error) {
	log := logging.FromContext(ctx)

	var rows []domain.SheetRow
	load := func(ctx context.Context) error {
		var err error
		rows, err = sheet.Load(ctx, httpClient, settings.URL, settings.SheetName)
		return err
	}

	var err error
	if canSpin() {
		err = tui.RunWithSpinner(ctx, "Fetching DNS sheet...", load)
	} else {
		err = load(ctx)
	}
	if err != nil {
		return planner.Result{}, err
	}
	log.Debug(ctx, "sheet loaded", "rows", len(rows), "sheet", settings.SheetName)

	result := planner.Plan(rows, planner.Options{TargetDomains: settings.TargetDomains})
	for _, s := range result.Skipped {
		rec.IncrementSkippedRow(string(s.Reason))
		if s.Reason == planner.SkipInvalid {
			log.Warn(ctx, "skipping invalid row", "line", s.Line, "detail", s.Detail)
		} else {
			log.Debug(ctx, "skipping row", "line", s.Line, "reason", s.Reason, "detail", s.Detail)
		}
	}
	return result, nil
}

// zoneFactory returns the provider factory for name with every call counted
// on rec.
func zoneFactory(name string, rec *metrics.Recorder) (dnsproviders.Factory, error) {
	factory, err := dnsproviders.Lookup(name)
	if err != nil {
		return nil, err
	}
	return dnsproviders.ObserveFactory(factory, func(op string, err error) {
		rec.IncrementProvider(name, op, err)
	}), nil
}

func timeoutFlag(cmd *cobra.Command) {
	cmd.Flags().Duration("timeout", reconcile.DefaultTimeout, "Timeout for each provider API call")
}

func getTimeout(cmd *cobra.Command) time.Duration {
	d, _ := cmd.Flags().GetDuration("timeout")
	if d <= 0 {
		return reconcile.DefaultTimeout
	}
	return d
}

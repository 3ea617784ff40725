package dns

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"nathanbeddoewebdev/mailprov/internal/config"
	"nathanbeddoewebdev/mailprov/internal/dns/domain"
	"nathanbeddoewebdev/mailprov/internal/dns/planner"
	dnsproviders "nathanbeddoewebdev/mailprov/internal/dns/providers"
	"nathanbeddoewebdev/mailprov/internal/logging"
	"nathanbeddoewebdev/mailprov/internal/services/auth"

	"github.com/spf13/cobra"
)

// newStore returns the fallback token store. Tests replace it.
var newStore = auth.DefaultStore

// RecordsCommand returns the "dns records" subcommand.
func RecordsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "List the DNS records of a zone",
		Long: `List the records that currently exist in one zone, for verifying an apply run.

The token is taken from --token, then ` + config.EnvToken + `, then the keychain
entry stored with 'mailprov auth login'.

Examples:
  mailprov dns records --zone-id 023e105f4ecef8ad9ca31a8372d0c353
  mailprov dns records --zone-id 023e105f4ecef8ad9ca31a8372d0c353 --type MX
  mailprov dns records --zone-id 023e105f4ecef8ad9ca31a8372d0c353 --name _dmarc.example.com`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runRecords,
	}

	cmd.Flags().String("zone-id", "", "Zone ID (env "+config.EnvZoneID+")")
	cmd.Flags().String("token", "", "Zone-scoped API token (env "+config.EnvToken+")")
	cmd.Flags().String("type", "", "Filter records by type (A, AAAA, CNAME, MX, TXT, etc.)")
	cmd.Flags().String("name", "", "Filter records by fully-qualified name")
	timeoutFlag(cmd)

	return cmd
}

func runRecords(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	providerName := cmd.Flag("provider").Value.String()

	zoneID, _ := cmd.Flags().GetString("zone-id")
	if zoneID = strings.TrimSpace(zoneID); zoneID == "" {
		zoneID = strings.TrimSpace(getenv(config.EnvZoneID))
	}
	if zoneID == "" {
		return fmt.Errorf("no zone ID given (use --zone-id or %s)", config.EnvZoneID)
	}

	tokenFlag, _ := cmd.Flags().GetString("token")
	token, source, err := auth.ResolveToken(tokenFlag, getenv(config.EnvToken), newStore(), providerName)
	if err != nil {
		return err
	}
	logging.FromContext(ctx).Debug(ctx, "using API token", "source", source)

	query := domain.RecordQuery{}
	if typeFilter, _ := cmd.Flags().GetString("type"); strings.TrimSpace(typeFilter) != "" {
		t, ok := planner.ParseRecordType(typeFilter)
		if !ok {
			return fmt.Errorf("unsupported record type %q", typeFilter)
		}
		query.Type = t
	}
	query.Name, _ = cmd.Flags().GetString("name")
	query.Name = strings.TrimSpace(query.Name)

	provider, err := dnsproviders.Get(providerName, domain.ZoneCredentials{ZoneID: zoneID, Token: token})
	if err != nil {
		return err
	}

	callCtx, cancel := context.WithTimeout(ctx, getTimeout(cmd))
	defer cancel()
	records, err := provider.ListRecords(callCtx, query)
	if err != nil {
		return fmt.Errorf("listing records: %w", err)
	}

	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No records found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tCONTENT\tTTL\tPRIORITY")
	fmt.Fprintln(w, "--\t----\t----\t-------\t---\t--------")
	for _, r := range records {
		prio := ""
		if r.Priority != nil {
			prio = fmt.Sprintf("%d", *r.Priority)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n", r.ID, r.Name, r.Type, r.Content, r.TTL, prio)
	}
	return w.Flush()
}

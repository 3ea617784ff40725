package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"nathanbeddoewebdev/mailprov/cmd/commands/audit"
	"nathanbeddoewebdev/mailprov/cmd/commands/auth"
	cfgcmd "nathanbeddoewebdev/mailprov/cmd/commands/config"
	"nathanbeddoewebdev/mailprov/cmd/commands/dns"
	"nathanbeddoewebdev/mailprov/internal/config"
	dnsproviders "nathanbeddoewebdev/mailprov/internal/dns/providers"
	"nathanbeddoewebdev/mailprov/internal/logging"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
func rootCmd() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "mailprov",
		Short: "Provision mail DNS records from a spreadsheet",
		Long: `mailprov reads the DNS records a set of mail domains needs from a
spreadsheet and creates the missing ones at the DNS provider. Existing
records are never updated or deleted, so a run can be repeated safely.

Supported providers: Cloudflare.

Quick start:
  mailprov config set sheet-url https://example.com/records.xlsx
  mailprov dns plan                # Preview the records in the sheet
  mailprov dns apply               # Create the missing records
  mailprov audit list              # Review what the last runs did`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("log-format", "", "Log format (human|text|json) (env "+config.EnvLogFormat+")")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	cmd.PersistentPreRunE = setupLogging

	cmd.AddCommand(dns.NewCommand())
	cmd.AddCommand(cfgcmd.NewCommand())
	cmd.AddCommand(auth.NewCommand())
	cmd.AddCommand(audit.NewCommand())

	return cmd
}

// setupLogging stores a logger in the command context. The format comes from
// --log-format, then the environment, then the config file.
func setupLogging(c *cobra.Command, _ []string) error {
	flagFormat, _ := c.Flags().GetString("log-format")
	verbose, _ := c.Flags().GetBool("verbose")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	l, err := logging.New(config.ResolveLogFormat(flagFormat, os.Getenv, cfg), level)
	if err != nil {
		return err
	}
	c.SetContext(logging.WithLogger(c.Context(), l))
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Both the root logging hook and the dns provider hook must run.
	cobra.EnableTraverseRunHooks = true

	dnsproviders.RegisterCloudflare()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var root = rootCmd()
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

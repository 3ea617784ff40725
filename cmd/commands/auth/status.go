package auth

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"nathanbeddoewebdev/mailprov/internal/config"
	"nathanbeddoewebdev/mailprov/internal/dns/providers"
	"nathanbeddoewebdev/mailprov/internal/services/auth"

	"github.com/spf13/cobra"
)

// getenv is replaced in tests.
var getenv = os.Getenv

func StatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which token 'dns records' would use",
		Long: `Show, per DNS provider, whether a token is stored in the keychain and
which source 'mailprov dns records' would take its token from.

` + config.EnvToken + ` takes precedence over the keychain.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runStatus,
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	names := providers.List()
	if len(names) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No providers registered.")
		return nil
	}

	store := newStore()
	envSet := getenv(config.EnvToken) != ""

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "PROVIDER\tKEYCHAIN\tIN USE")
	for _, name := range names {
		stored := "not logged in"
		_, err := store.GetToken(name)
		switch {
		case err == nil:
			stored = "logged in"
		case !errors.Is(err, auth.ErrTokenNotFound):
			stored = fmt.Sprintf("error (%v)", err)
		}

		inUse := "none"
		switch {
		case envSet:
			inUse = config.EnvToken
		case err == nil:
			inUse = auth.SourceKeychain
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", name, stored, inUse)
	}
	return w.Flush()
}

package auth

import (
	"nathanbeddoewebdev/mailprov/internal/services/auth"

	"github.com/spf13/cobra"
)

// newStore returns the token store. Tests replace it with an in-memory store.
var newStore = auth.DefaultStore

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage stored provider API tokens",
		Long: `Manage stored provider API tokens.

The stored token is a fallback for commands that address a zone directly,
such as 'mailprov dns records'. Sheet-driven runs use the token from each
sheet row instead.`,
	}

	cmd.AddCommand(LoginCommand())
	cmd.AddCommand(StatusCommand())
	cmd.AddCommand(LogoutCommand())

	return cmd
}

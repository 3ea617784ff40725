package config

import (
	"nathanbeddoewebdev/mailprov/internal/config"

	"github.com/spf13/cobra"
)

// NewCommand returns the "config" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show and change stored defaults",
		Long: "Stored defaults for the dns commands, kept in\n" +
			"~/.config/mailprov/config.json. A flag beats its environment variable,\n" +
			"which beats the stored value.\n\n" +
			config.KeysHelp(),
	}

	cmd.AddCommand(GetCommand())
	cmd.AddCommand(SetCommand())
	cmd.AddCommand(UnsetCommand())

	return cmd
}

package audit

import (
	"nathanbeddoewebdev/mailprov/internal/database"

	"github.com/spf13/cobra"
)

// NewCommand returns the "audit" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "View and manage the DNS apply history",
		Long: "Each 'mailprov dns apply' run stores one entry per processed record,\n" +
			"tagged with the run ID, outcome and provider reason, in\n" +
			"~/.config/mailprov/audit.db (override with " + database.EnvPath + ").",
		SilenceUsage: true,
	}

	cmd.AddCommand(RunsCommand())
	cmd.AddCommand(ListCommand())
	cmd.AddCommand(PruneCommand())

	return cmd
}

package config

import (
	"fmt"
	"strings"

	"nathanbeddoewebdev/mailprov/internal/config"
	"nathanbeddoewebdev/mailprov/internal/util"

	"github.com/spf13/cobra"
)

// GetCommand returns the "config get" command.
func GetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get [key]",
		Short: "Get a configuration value",
		Long: "Get a persistent configuration value.\n\n" +
			"Without a key, every setting is listed.\n\n" +
			config.KeysHelp() +
			"\nExamples:\n" +
			"  mailprov config get              # list all settings\n" +
			"  mailprov config get sheet-url    # print a single value",
		Args:         cobra.MaximumNArgs(1),
		RunE:         runGet,
		SilenceUsage: true,
	}

	cmd.Flags().String("key", "", "Configuration key to fetch (same as the positional argument)")

	return cmd
}

func runGet(cmd *cobra.Command, args []string) error {
	keyArg, _ := cmd.Flags().GetString("key")
	if len(args) == 1 {
		keyArg = args[0]
	}
	keyArg = strings.TrimSpace(keyArg)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if keyArg == "" {
		for _, spec := range config.Keys {
			value := spec.Get(cfg)
			if value == "" {
				value = "(not set)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", spec.Name, value)
		}
		return nil
	}

	spec := config.Lookup(util.NormalizeKey(keyArg))
	if spec == nil {
		return fmt.Errorf("unknown configuration key %q (valid: %s)", keyArg, strings.Join(config.KeyNames(), ", "))
	}

	value := spec.Get(cfg)
	if value == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "not set")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), value)
	}
	return nil
}

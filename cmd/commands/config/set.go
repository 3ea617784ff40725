package config

import (
	"fmt"
	"slices"
	"strings"

	"nathanbeddoewebdev/mailprov/internal/config"
	"nathanbeddoewebdev/mailprov/internal/dns/providers"
	"nathanbeddoewebdev/mailprov/internal/util"

	"github.com/spf13/cobra"
)

// SetCommand returns the "config set" command.
func SetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: "Set a persistent configuration value.\n\n" +
			config.KeysHelp() +
			"\nExamples:\n" +
			"  mailprov config set sheet-url https://example.com/dns.xlsx\n" +
			"  mailprov config set target-domains example.com,example.org",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return update(cmd, args[0], func(spec *config.KeySpec, cfg *config.Config) error {
				if spec.Name == "dns-provider" {
					if err := checkProvider(args[1]); err != nil {
						return err
					}
				}
				return spec.Set(cfg, args[1])
			})
		},
	}
}

// UnsetCommand returns the "config unset" command.
func UnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "unset <key>",
		Short:        "Clear a configuration value",
		Long:         "Clear a persistent configuration value so the default applies again.\n\n" + config.KeysHelp(),
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return update(cmd, args[0], func(spec *config.KeySpec, cfg *config.Config) error {
				return spec.Set(cfg, "")
			})
		},
	}
}

// update loads the config, applies fn to the named key and saves the result.
func update(cmd *cobra.Command, key string, fn func(*config.KeySpec, *config.Config) error) error {
	spec := config.Lookup(util.NormalizeKey(key))
	if spec == nil {
		return fmt.Errorf("unknown configuration key %q (valid: %s)", key, strings.Join(config.KeyNames(), ", "))
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := fn(spec, cfg); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return err
	}

	if v := spec.Get(cfg); v != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "%s set to %q\n", spec.Name, v)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "%s cleared\n", spec.Name)
	}
	return nil
}

// checkProvider rejects names missing from the DNS provider registry.
func checkProvider(name string) error {
	known := providers.List()
	if slices.Contains(known, util.NormalizeKey(name)) {
		return nil
	}
	return fmt.Errorf("unknown provider %q (registered: %s)", name, strings.Join(known, ", "))
}

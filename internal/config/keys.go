package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// KeySpec describes a single configuration key.
type KeySpec struct {
	// Name is the CLI-facing key name (e.g. "sheet-url").
	Name string

	// Description is a short human-readable explanation shown in help text.
	Description string

	// Get returns the current value for this key from a loaded Config.
	Get func(cfg *Config) string

	// Set validates and applies a value for this key to the given Config
	// (in memory only; the caller is responsible for calling Save).
	Set func(cfg *Config, value string) error
}

// logFormats mirrors the formats accepted by the logging package.
var logFormats = []string{"human", "text", "json"}

// Keys is the authoritative list of all supported configuration keys.
// To add a new option: add a field to Config and append a KeySpec here.
var Keys = []KeySpec{
	{
		Name:        "sheet-url",
		Description: "URL or local path of the desired-state workbook",
		Get:         func(cfg *Config) string { return cfg.SheetURL },
		Set: func(cfg *Config, v string) error {
			cfg.SheetURL = strings.TrimSpace(v)
			return nil
		},
	},
	{
		Name:        "sheet-name",
		Description: "Workbook tab to read (default Sheet1)",
		Get:         func(cfg *Config) string { return cfg.SheetName },
		Set: func(cfg *Config, v string) error {
			cfg.SheetName = strings.TrimSpace(v)
			return nil
		},
	},
	{
		Name:        "target-domains",
		Description: "Comma-separated allow-list of domains to process",
		Get:         func(cfg *Config) string { return cfg.TargetDomains },
		Set: func(cfg *Config, v string) error {
			cfg.TargetDomains = strings.Join(SplitList(v), ",")
			return nil
		},
	},
	{
		Name:        "assume-yes",
		Description: "Apply without the confirmation prompt (true/false)",
		Get:         func(cfg *Config) string { return strconv.FormatBool(cfg.AssumeYes) },
		Set: func(cfg *Config, v string) error {
			if strings.TrimSpace(v) == "" {
				cfg.AssumeYes = false
				return nil
			}
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("assume-yes must be true or false, got %q", v)
			}
			cfg.AssumeYes = b
			return nil
		},
	},
	{
		Name:        "log-format",
		Description: "Log output format: human, text or json",
		Get:         func(cfg *Config) string { return cfg.LogFormat },
		Set: func(cfg *Config, v string) error {
			v = strings.ToLower(strings.TrimSpace(v))
			if v != "" && !slices.Contains(logFormats, v) {
				return fmt.Errorf("log-format must be one of %s, got %q", strings.Join(logFormats, ", "), v)
			}
			cfg.LogFormat = v
			return nil
		},
	},
	{
		Name:        "dns-provider",
		Description: "DNS provider used when --provider is not specified",
		Get:         func(cfg *Config) string { return cfg.DNSProvider },
		Set: func(cfg *Config, v string) error {
			cfg.DNSProvider = strings.ToLower(strings.TrimSpace(v))
			return nil
		},
	},
}

// Lookup returns the KeySpec for the given name, or nil if not found.
// The name is matched case-insensitively after trimming whitespace.
func Lookup(name string) *KeySpec {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for i := range Keys {
		if Keys[i].Name == normalized {
			return &Keys[i]
		}
	}
	return nil
}

// KeyNames returns the names of all registered keys.
func KeyNames() []string {
	names := make([]string, len(Keys))
	for i, k := range Keys {
		names[i] = k.Name
	}
	return names
}

// KeysHelp builds a formatted block listing all available keys and their
// descriptions, suitable for inclusion in Cobra Long help text.
func KeysHelp() string {
	if len(Keys) == 0 {
		return ""
	}

	maxLen := 0
	for _, k := range Keys {
		maxLen = max(maxLen, len(k.Name))
	}

	var b strings.Builder
	b.WriteString("Available keys:\n")
	for _, k := range Keys {
		fmt.Fprintf(&b, "  %-*s   %s\n", maxLen, k.Name, k.Description)
	}
	return b.String()
}

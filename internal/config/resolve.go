package config

import (
	"errors"
	"strconv"
	"strings"
)

// Environment variables read by ResolveSheet and the root command.
const (
	EnvSheetURL      = "DNS_FILE_URL"
	EnvSheetName     = "DNS_SHEET_NAME"
	EnvTargetDomains = "TARGET_DOMAINS"
	EnvAssumeYes     = "MAILPROV_ASSUME_YES"
	EnvLogFormat     = "MAILPROV_LOG_FORMAT"
	EnvMetricsFile   = "MAILPROV_METRICS_FILE"
	EnvDisableAudit  = "MAILPROV_DISABLE_AUDIT"
	EnvZoneID        = "CLOUDFLARE_ZONE_ID"
	EnvToken         = "CLOUDFLARE_TOKEN"
)

// DefaultSheetName is used when no tab is configured anywhere.
const DefaultSheetName = "Sheet1"

// ErrMissingSheetURL is returned when no workbook location is configured.
var ErrMissingSheetURL = errors.New("no sheet URL configured (use --sheet-url, " + EnvSheetURL + " or 'mailprov config set sheet-url')")

// SheetFlags carries command-line values. Empty strings and a nil
// AssumeYes mean "not given".
type SheetFlags struct {
	URL           string
	SheetName     string
	TargetDomains string
	AssumeYes     *bool
}

// SheetSettings is the merged configuration for a plan or apply run.
type SheetSettings struct {
	URL           string
	SheetName     string
	TargetDomains []string
	AssumeYes     bool
}

// ResolveSheet merges flags, environment and the config file, in that order
// of precedence, and fills defaults. getenv may be nil.
func ResolveSheet(flags SheetFlags, getenv func(string) string, cfg *Config) (SheetSettings, error) {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}
	if cfg == nil {
		cfg = &Config{}
	}

	s := SheetSettings{
		URL:       first(flags.URL, getenv(EnvSheetURL), cfg.SheetURL),
		SheetName: first(flags.SheetName, getenv(EnvSheetName), cfg.SheetName, DefaultSheetName),
		TargetDomains: SplitList(
			first(flags.TargetDomains, getenv(EnvTargetDomains), cfg.TargetDomains),
		),
		AssumeYes: cfg.AssumeYes,
	}
	if v, ok := parseBool(getenv(EnvAssumeYes)); ok {
		s.AssumeYes = v
	}
	if flags.AssumeYes != nil {
		s.AssumeYes = *flags.AssumeYes
	}
	if s.URL == "" {
		return s, ErrMissingSheetURL
	}
	return s, nil
}

// ResolveLogFormat picks the log format from flag, environment or file.
func ResolveLogFormat(flag string, getenv func(string) string, cfg *Config) string {
	env := ""
	if getenv != nil {
		env = getenv(EnvLogFormat)
	}
	fileValue := ""
	if cfg != nil {
		fileValue = cfg.LogFormat
	}
	return first(flag, env, fileValue)
}

// SplitList splits a comma-separated value, trimming items and dropping
// empty ones.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// EnvBool interprets an environment value as a boolean. Unparseable values
// are false.
func EnvBool(v string) bool {
	b, ok := parseBool(v)
	return ok && b
}

func parseBool(v string) (bool, bool) {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	return b, err == nil
}

func first(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

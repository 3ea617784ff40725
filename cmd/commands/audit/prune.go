package audit

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"nathanbeddoewebdev/mailprov/internal/auditlog"
	"nathanbeddoewebdev/mailprov/internal/util"

	"github.com/spf13/cobra"
)

// retention is a pflag.Value accepting Go durations plus a whole-day "Nd" form.
type retention struct {
	d   time.Duration
	set bool
}

func (r *retention) String() string {
	if !r.set {
		return ""
	}
	if r.d%(24*time.Hour) == 0 {
		return fmt.Sprintf("%dd", r.d/(24*time.Hour))
	}
	return r.d.String()
}

func (r *retention) Set(s string) error {
	d, err := parseRetention(s)
	if err != nil {
		return err
	}
	r.d, r.set = d, true
	return nil
}

func (r *retention) Type() string { return "age" }

func parseRetention(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	var d time.Duration
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("invalid age %q (use e.g. 30d or 72h)", s)
		}
		d = time.Duration(n) * 24 * time.Hour
	} else {
		var err error
		if d, err = time.ParseDuration(s); err != nil {
			return 0, fmt.Errorf("invalid age %q (use e.g. 30d or 72h)", s)
		}
	}
	if d <= 0 {
		return 0, errors.New("age must be greater than zero")
	}
	return d, nil
}

func PruneCommand() *cobra.Command {
	var age retention

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete apply history older than an age",
		Long: `Delete audit entries recorded before the given age.

Examples:
  mailprov audit prune --older-than 30d
  mailprov audit prune --older-than 72h --dry-run`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			return runPrune(cmd, age.d, dryRun)
		},
	}

	cmd.Flags().Var(&age, "older-than", "Remove entries older than this age (e.g. 30d, 72h)")
	cmd.Flags().Bool("dry-run", false, "Only report how many entries would be removed")
	cmd.MarkFlagRequired("older-than")

	return cmd
}

func runPrune(cmd *cobra.Command, age time.Duration, dryRun bool) error {
	repo, err := auditlog.Open()
	if err != nil {
		return err
	}
	defer repo.Close()

	if dryRun {
		n, err := repo.CountOlderThan(age)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Would remove %s older than %s.\n", util.Plural(n, "entry", "entries"), (&retention{d: age, set: true}).String())
		return nil
	}

	removed, err := repo.Prune(age)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s.\n", util.Plural(removed, "audit entry", "audit entries"))
	return nil
}

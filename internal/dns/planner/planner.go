// Package planner turns raw sheet rows into record intents.
//
// Rows are folded in file order. Domain, zone ID and token carry forward from
// the last non-blank cell, so a sheet can state them once per block of rows.
// Planning is pure: it performs no I/O and reports dropped rows as Skip values
// for the caller to log.
package planner

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"nathanbeddoewebdev/mailprov/internal/dns/domain"
	"nathanbeddoewebdev/mailprov/internal/util"
)

// SkipReason classifies why a row produced no intent.
type SkipReason string

const (
	// SkipMissingContext means domain, zone ID or token was still unknown.
	SkipMissingContext SkipReason = "missing_context"

	// SkipNotTargeted means the row's domain is outside the allow-list.
	SkipNotTargeted SkipReason = "not_targeted"

	// SkipInvalid means type, name or content was empty or the type is unsupported.
	SkipInvalid SkipReason = "invalid"
)

// Skip records a row that was dropped during planning.
type Skip struct {
	Line   int
	Reason SkipReason
	Detail string
}

// Options tune planning.
type Options struct {
	// TargetDomains restricts planning to these domains when non-empty.
	// Matching is case-insensitive on trimmed values.
	TargetDomains []string
}

// Result is the outcome of Plan.
type Result struct {
	// Intents are in sheet order and are not deduplicated.
	Intents []domain.RecordIntent
	Skipped []Skip
}

// rowContext is the carry-forward accumulator threaded through the fold.
type rowContext struct {
	domain string
	zoneID string
	token  string
}

func (c rowContext) update(row domain.SheetRow) rowContext {
	if v := strings.TrimSpace(row.Domain); v != "" {
		c.domain = v
	}
	if v := strings.TrimSpace(row.ZoneID); v != "" {
		c.zoneID = v
	}
	if v := strings.TrimSpace(row.Token); v != "" {
		c.token = v
	}
	return c
}

func (c rowContext) complete() bool {
	return c.domain != "" && c.zoneID != "" && c.token != ""
}

func (c rowContext) missing() string {
	var missing []string
	if c.domain == "" {
		missing = append(missing, "domain")
	}
	if c.zoneID == "" {
		missing = append(missing, "zone_id")
	}
	if c.token == "" {
		missing = append(missing, "token")
	}
	return "no " + strings.Join(missing, ", ") + " in effect"
}

// Plan folds rows into record intents.
func Plan(rows []domain.SheetRow, opts Options) Result {
	targets := targetSet(opts.TargetDomains)

	var (
		res Result
		ctx rowContext
	)
	for _, row := range rows {
		ctx = ctx.update(row)

		if !ctx.complete() {
			res.Skipped = append(res.Skipped, Skip{Line: row.Line, Reason: SkipMissingContext, Detail: ctx.missing()})
			continue
		}
		if targets != nil && !targets[util.NormalizeKey(ctx.domain)] {
			res.Skipped = append(res.Skipped, Skip{
				Line:   row.Line,
				Reason: SkipNotTargeted,
				Detail: fmt.Sprintf("domain %s is not targeted", ctx.domain),
			})
			continue
		}

		intent, skip, ok := buildIntent(row, ctx)
		if !ok {
			res.Skipped = append(res.Skipped, skip)
			continue
		}
		res.Intents = append(res.Intents, intent)
	}
	return res
}

func buildIntent(row domain.SheetRow, ctx rowContext) (domain.RecordIntent, Skip, bool) {
	rawType := strings.TrimSpace(row.Type)
	name := strings.TrimSpace(row.Name)
	content := strings.TrimSpace(row.Content)

	if rawType == "" || name == "" || content == "" {
		var empty []string
		if rawType == "" {
			empty = append(empty, "type")
		}
		if name == "" {
			empty = append(empty, "name")
		}
		if content == "" {
			empty = append(empty, "content")
		}
		return domain.RecordIntent{}, Skip{
			Line:   row.Line,
			Reason: SkipInvalid,
			Detail: "empty " + strings.Join(empty, ", "),
		}, false
	}

	recordType, ok := ParseRecordType(rawType)
	if !ok {
		return domain.RecordIntent{}, Skip{
			Line:   row.Line,
			Reason: SkipInvalid,
			Detail: fmt.Sprintf("unsupported record type %q", rawType),
		}, false
	}

	intent := domain.RecordIntent{
		Line:    row.Line,
		Domain:  ctx.domain,
		ZoneID:  ctx.zoneID,
		Token:   ctx.token,
		Type:    recordType,
		Name:    QualifyName(name, ctx.domain),
		Content: content,
		TTL:     domain.DefaultTTL,
	}
	if recordType == domain.RecordTypeMX {
		p := ParsePriority(row.Priority)
		intent.Priority = &p
	}
	return intent, Skip{}, true
}

// QualifyName appends the domain to names that contain no dot. Names that
// already contain a dot are returned unchanged, so the operation is idempotent.
func QualifyName(name, domainName string) string {
	if strings.Contains(name, ".") {
		return name
	}
	return name + "." + domainName
}

// ParsePriority parses an MX priority cell. Blank, non-numeric, fractional or
// out-of-range (0..65535) values yield domain.DefaultMXPriority.
func ParsePriority(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.DefaultMXPriority
	}
	if n, err := strconv.Atoi(s); err == nil {
		return clampPriority(n)
	}
	// Spreadsheets sometimes render integers as "10.0".
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return domain.DefaultMXPriority
	}
	return clampPriority(int(f))
}

func clampPriority(n int) int {
	if n < 0 || n > math.MaxUint16 {
		return domain.DefaultMXPriority
	}
	return n
}

func targetSet(domains []string) map[string]bool {
	var set map[string]bool
	for _, d := range domains {
		d = util.NormalizeKey(d)
		if d == "" {
			continue
		}
		if set == nil {
			set = make(map[string]bool)
		}
		set[d] = true
	}
	return set
}

package reconcile

import (
	"context"
	"time"

	"nathanbeddoewebdev/mailprov/internal/dns/domain"
)

// DefaultTimeout bounds each provider call.
const DefaultTimeout = 30 * time.Second

// Checker decides whether an intent is already present at the provider.
type Checker struct {
	// Timeout bounds the lookup. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Exists queries the provider for records of the intent's type and name and
// reports whether one matches exactly. A failed query returns false together
// with the error, so callers err toward creating the record.
func (c Checker) Exists(ctx context.Context, provider domain.Provider, intent domain.RecordIntent) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, timeoutOrDefault(c.Timeout))
	defer cancel()

	records, err := provider.ListRecords(ctx, domain.RecordQuery{Type: intent.Type, Name: intent.Name})
	if err != nil {
		return false, err
	}
	return Matches(intent, records), nil
}

// Matches reports whether records contains one with the intent's type, name
// and content, compared literally. For MX the priority must also be equal.
func Matches(intent domain.RecordIntent, records []domain.Record) bool {
	for _, r := range records {
		if r.Type != intent.Type || r.Name != intent.Name || r.Content != intent.Content {
			continue
		}
		if intent.Type == domain.RecordTypeMX && !samePriority(intent.Priority, r.Priority) {
			continue
		}
		return true
	}
	return false
}

func samePriority(want, got *int) bool {
	if want == nil || got == nil {
		return want == nil && got == nil
	}
	return *want == *got
}

func timeoutOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultTimeout
	}
	return d
}

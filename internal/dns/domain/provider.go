package domain

import "context"

// Provider is a DNS provider client scoped to a single zone.
type Provider interface {
	// GetDisplayName returns the human-readable provider name (e.g. "Cloudflare").
	GetDisplayName() string

	// ListRecords returns the zone's records matching the query.
	ListRecords(ctx context.Context, query RecordQuery) ([]Record, error)

	// CreateRecord creates a new DNS record and returns the created record.
	CreateRecord(ctx context.Context, opts CreateRecordOpts) (*Record, error)
}

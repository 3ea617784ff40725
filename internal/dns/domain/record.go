package domain

import "strings"

// RecordType represents a DNS record type.
type RecordType string

const (
	RecordTypeA     RecordType = "A"
	RecordTypeAAAA  RecordType = "AAAA"
	RecordTypeCNAME RecordType = "CNAME"
	RecordTypeTXT   RecordType = "TXT"
	RecordTypeNS    RecordType = "NS"
	RecordTypeMX    RecordType = "MX"
	RecordTypeSRV   RecordType = "SRV"
	RecordTypeTLSA  RecordType = "TLSA"
	RecordTypeCAA   RecordType = "CAA"
	RecordTypeHTTPS RecordType = "HTTPS"
	RecordTypeSVCB  RecordType = "SVCB"
	RecordTypeSSHFP RecordType = "SSHFP"
	RecordTypePTR   RecordType = "PTR"
)

const (
	// DefaultTTL is the TTL applied to every planned record.
	DefaultTTL = 3600

	// DefaultMXPriority is used when an MX row has no usable priority.
	DefaultMXPriority = 10
)

// Record represents a single DNS record as it exists at the provider.
type Record struct {
	// ID is the provider-assigned record identifier.
	ID string `json:"id"`

	// Name is the fully-qualified record name as returned by the provider.
	Name string `json:"name"`

	// Type is the DNS record type (A, MX, TXT, etc.).
	Type RecordType `json:"type"`

	// Content is the record value, compared literally.
	Content string `json:"content"`

	// TTL is the time-to-live in seconds.
	TTL int `json:"ttl"`

	// Priority is set for record types that carry one (MX).
	Priority *int `json:"priority,omitempty"`
}

// RecordIntent is the desired final state of one DNS record, derived from a
// sheet row. It is built once by the planner and never modified afterwards.
type RecordIntent struct {
	// Line is the sheet row the intent came from.
	Line int

	// Domain is the logical domain owning the zone.
	Domain string

	// ZoneID is the provider zone identifier.
	ZoneID string

	// Token is the API token scoped to the zone.
	Token string

	Type RecordType

	// Name is always fully qualified.
	Name string

	Content string

	TTL int

	// Priority is non-nil if and only if Type is MX.
	Priority *int
}

// Credentials returns the zone credentials the intent must be applied with.
func (i RecordIntent) Credentials() ZoneCredentials {
	return ZoneCredentials{ZoneID: i.ZoneID, Token: i.Token}
}

// Label formats the intent as "TYPE name -> content" for logs and reports.
func (i RecordIntent) Label() string {
	var b strings.Builder
	b.WriteString(string(i.Type))
	b.WriteByte(' ')
	b.WriteString(i.Name)
	b.WriteString(" -> ")
	b.WriteString(i.Content)
	return b.String()
}

// ZoneCredentials identify and authorize access to one provider zone.
type ZoneCredentials struct {
	ZoneID string
	Token  string
}

// RecordQuery filters a record listing. Empty fields match everything.
type RecordQuery struct {
	Type RecordType
	Name string
}

// CreateRecordOpts holds the parameters for creating a new DNS record.
type CreateRecordOpts struct {
	// Name is the fully-qualified record name.
	Name string

	// Type is the DNS record type. Required.
	Type RecordType

	// Content is the record value. Required.
	Content string

	// TTL is the time-to-live in seconds.
	TTL int

	// Priority is sent only for MX records.
	Priority *int
}

// CreateOptsFromIntent builds the provider payload for an intent.
func CreateOptsFromIntent(i RecordIntent) CreateRecordOpts {
	return CreateRecordOpts{
		Name:     i.Name,
		Type:     i.Type,
		Content:  i.Content,
		TTL:      i.TTL,
		Priority: i.Priority,
	}
}

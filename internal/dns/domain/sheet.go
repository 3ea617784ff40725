package domain

// SheetRow is one raw row of the desired-state sheet. Domain, ZoneID and
// Token may be blank, meaning "inherit the most recent non-blank value".
type SheetRow struct {
	// Line is the 1-based row number in the sheet, header included.
	Line int

	Domain   string
	ZoneID   string
	Token    string
	Type     string
	Name     string
	Content  string
	Priority string
}

// DomainGroup is the slice of a plan that belongs to one domain.
type DomainGroup struct {
	Domain string

	// ZoneID is the zone of the first intent seen for the domain.
	ZoneID string

	Intents []RecordIntent
}

// PlanBatch groups planned intents by domain, in order of first appearance.
// It is used for the preview only.
type PlanBatch struct {
	Groups []DomainGroup
}

// Len returns the total number of intents across all groups.
func (b PlanBatch) Len() int {
	n := 0
	for _, g := range b.Groups {
		n += len(g.Intents)
	}
	return n
}

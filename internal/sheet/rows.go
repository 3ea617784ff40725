package sheet

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"nathanbeddoewebdev/mailprov/internal/dns/domain"
)

// Column aliases as authored in the sheet, matched case-sensitively.
var (
	ColDomain   = []string{"Domain"}
	ColZoneID   = []string{"zone_id", "ZONE_ID"}
	ColToken    = []string{"token", "TOKEN"}
	ColType     = []string{"type", "Type"}
	ColName     = []string{"Name", "name"}
	ColContent  = []string{"content", "Content"}
	ColPriority = []string{"priority", "Priority"}
)

var requiredColumns = [][]string{ColDomain, ColZoneID, ColToken, ColType, ColName, ColContent}

// Records maps the table into sheet rows. It fails with ErrMissingColumns
// when a required header is absent.
func (t *Table) Records() ([]domain.SheetRow, error) {
	var missing []string
	for _, aliases := range requiredColumns {
		if !t.HasColumn(aliases...) {
			missing = append(missing, strings.Join(aliases, "/"))
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	out := make([]domain.SheetRow, 0, len(t.Rows))
	for _, r := range t.Rows {
		out = append(out, domain.SheetRow{
			Line:     r.Line,
			Domain:   r.Get(ColDomain...),
			ZoneID:   r.Get(ColZoneID...),
			Token:    r.Get(ColToken...),
			Type:     r.Get(ColType...),
			Name:     r.Get(ColName...),
			Content:  r.Get(ColContent...),
			Priority: r.Get(ColPriority...),
		})
	}
	return out, nil
}

// Load fetches, parses and maps the workbook in one step.
func Load(ctx context.Context, client *http.Client, location, sheetName string) ([]domain.SheetRow, error) {
	data, hint, err := Fetch(ctx, client, location)
	if err != nil {
		return nil, err
	}
	table, err := Parse(data, hint, sheetName)
	if err != nil {
		return nil, err
	}
	return table.Records()
}

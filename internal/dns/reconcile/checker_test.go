package reconcile

import (
	"context"
	"errors"
	"testing"

	"nathanbeddoewebdev/mailprov/internal/dns/domain"
)

func TestMatches(t *testing.T) {
	mx := domain.RecordIntent{Type: domain.RecordTypeMX, Name: "example.com", Content: "mx.example.com", Priority: intPtr(10)}
	txt := domain.RecordIntent{Type: domain.RecordTypeTXT, Name: "example.com", Content: `"v=spf1 -all"`}

	tests := []struct {
		name    string
		intent  domain.RecordIntent
		records []domain.Record
		want    bool
	}{
		{
			name:    "exact MX match",
			intent:  mx,
			records: []domain.Record{{Type: domain.RecordTypeMX, Name: "example.com", Content: "mx.example.com", Priority: intPtr(10)}},
			want:    true,
		},
		{
			name:    "MX priority differs",
			intent:  mx,
			records: []domain.Record{{Type: domain.RecordTypeMX, Name: "example.com", Content: "mx.example.com", Priority: intPtr(20)}},
			want:    false,
		},
		{
			name:    "MX priority missing on record",
			intent:  mx,
			records: []domain.Record{{Type: domain.RecordTypeMX, Name: "example.com", Content: "mx.example.com"}},
			want:    false,
		},
		{
			name:    "content differs",
			intent:  mx,
			records: []domain.Record{{Type: domain.RecordTypeMX, Name: "example.com", Content: "mx2.example.com", Priority: intPtr(10)}},
			want:    false,
		},
		{
			name:   "match after non-matching candidates",
			intent: mx,
			records: []domain.Record{
				{Type: domain.RecordTypeMX, Name: "example.com", Content: "mx2.example.com", Priority: intPtr(10)},
				{Type: domain.RecordTypeMX, Name: "example.com", Content: "mx.example.com", Priority: intPtr(10)},
			},
			want: true,
		},
		{
			name:    "TXT literal match",
			intent:  txt,
			records: []domain.Record{{Type: domain.RecordTypeTXT, Name: "example.com", Content: `"v=spf1 -all"`}},
			want:    true,
		},
		{
			name:    "TXT quoting is not normalized",
			intent:  txt,
			records: []domain.Record{{Type: domain.RecordTypeTXT, Name: "example.com", Content: "v=spf1 -all"}},
			want:    false,
		},
		{
			name:    "TXT ignores priority",
			intent:  txt,
			records: []domain.Record{{Type: domain.RecordTypeTXT, Name: "example.com", Content: `"v=spf1 -all"`, Priority: intPtr(0)}},
			want:    true,
		},
		{
			name:    "type differs",
			intent:  txt,
			records: []domain.Record{{Type: domain.RecordTypeCNAME, Name: "example.com", Content: `"v=spf1 -all"`}},
			want:    false,
		},
		{
			name:   "empty set",
			intent: txt,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Matches(tt.intent, tt.records); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestChecker_Exists(t *testing.T) {
	intent := domain.RecordIntent{Type: domain.RecordTypeA, Name: "www.example.com", Content: "1.1.1.1"}

	t.Run("found", func(t *testing.T) {
		zone := &fakeZone{records: []domain.Record{{Type: domain.RecordTypeA, Name: "www.example.com", Content: "1.1.1.1"}}}
		ok, err := Checker{}.Exists(context.Background(), zone, intent)
		if err != nil || !ok {
			t.Errorf("Exists() = (%v, %v), want (true, nil)", ok, err)
		}
	})

	t.Run("query failure reports absent", func(t *testing.T) {
		zone := &fakeZone{listErr: errors.New("boom")}
		ok, err := Checker{}.Exists(context.Background(), zone, intent)
		if ok {
			t.Error("expected false on query failure")
		}
		if err == nil {
			t.Error("expected error to be returned")
		}
	})
}

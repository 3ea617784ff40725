package auditlog

import "time"

// Outcomes. Record-level entries use the reconcile outcomes; run-level
// entries use OutcomeSuccess or OutcomeError.
const (
	OutcomeCreated = "created"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"

	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// AuditEntry represents a persisted audit event: one DNS record intent
// processed by an apply run, or the run itself.
type AuditEntry struct {
	ID         int64     `json:"id"`
	RunID      string    `json:"run_id"`
	Timestamp  time.Time `json:"timestamp"`
	Command    string    `json:"command"`
	Args       string    `json:"args,omitempty"`
	Provider   string    `json:"provider,omitempty"`
	Domain     string    `json:"domain,omitempty"`
	ZoneID     string    `json:"zone_id,omitempty"`
	RecordType string    `json:"record_type,omitempty"`
	RecordName string    `json:"record_name,omitempty"`
	Content    string    `json:"content,omitempty"`
	RecordID   string    `json:"record_id,omitempty"`
	Outcome    string    `json:"outcome"`
	Detail     string    `json:"detail,omitempty"`
	DurationMs int64     `json:"duration_ms"`
}

// RunSummary totals the record outcomes of one run.
type RunSummary struct {
	RunID    string    `json:"run_id"`
	Started  time.Time `json:"started"`
	Command  string    `json:"command"`
	Provider string    `json:"provider,omitempty"`
	Created  int       `json:"created"`
	Skipped  int       `json:"skipped"`
	Failed   int       `json:"failed"`
}

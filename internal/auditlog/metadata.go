package auditlog

import (
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Run identifies one invocation whose entries share a run ID.
type Run struct {
	ID       string
	Command  string
	Args     string
	Provider string
	Started  time.Time
}

// NewRun starts a run with a fresh ULID. Args are sanitized before storage.
func NewRun(command string, args []string, provider string) Run {
	return Run{
		ID:       ulid.Make().String(),
		Command:  command,
		Args:     strings.Join(SanitizeArgs(args), " "),
		Provider: provider,
		Started:  time.Now().UTC(),
	}
}

// Entry returns an entry pre-filled with the run's fields.
func (r Run) Entry() *AuditEntry {
	return &AuditEntry{
		RunID:    r.ID,
		Command:  r.Command,
		Args:     r.Args,
		Provider: r.Provider,
	}
}

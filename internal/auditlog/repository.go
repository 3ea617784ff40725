package auditlog

import (
	"database/sql"
	"fmt"
	"time"

	"nathanbeddoewebdev/mailprov/internal/database"
)

// Repository defines the persistence interface for audit entries.
type Repository interface {
	Save(entry *AuditEntry) error
	List(limit int) ([]AuditEntry, error)
	ListByRun(runID string) ([]AuditEntry, error)
	ListByCommand(command string, limit int) ([]AuditEntry, error)
	Runs(limit int) ([]RunSummary, error)
	CountOlderThan(age time.Duration) (int64, error)
	Prune(olderThan time.Duration) (int64, error)
	Close() error
}

// SQLiteRepository implements Repository backed by a local SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

// Open creates or opens the audit repository at the default path.
func Open() (*SQLiteRepository, error) {
	path, err := database.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("auditlog: %w", err)
	}
	return OpenAt(path)
}

// OpenAt creates or opens a SQLite database at the given path.
func OpenAt(path string) (*SQLiteRepository, error) {
	db, err := database.Open(path)
	if err != nil {
		return nil, fmt.Errorf("auditlog: %w", err)
	}

	r := &SQLiteRepository{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *SQLiteRepository) migrate() error {
	const ddl = `
        CREATE TABLE IF NOT EXISTS dns_audit (
            id          INTEGER PRIMARY KEY AUTOINCREMENT,
            run_id      TEXT    NOT NULL,
            timestamp   TEXT    NOT NULL,
            command     TEXT    NOT NULL,
            args        TEXT    NOT NULL DEFAULT '',
            provider    TEXT    NOT NULL DEFAULT '',
            domain      TEXT    NOT NULL DEFAULT '',
            zone_id     TEXT    NOT NULL DEFAULT '',
            record_type TEXT    NOT NULL DEFAULT '',
            record_name TEXT    NOT NULL DEFAULT '',
            content     TEXT    NOT NULL DEFAULT '',
            record_id   TEXT    NOT NULL DEFAULT '',
            outcome     TEXT    NOT NULL DEFAULT '',
            detail      TEXT    NOT NULL DEFAULT '',
            duration_ms INTEGER NOT NULL DEFAULT 0
        );
        CREATE INDEX IF NOT EXISTS idx_dns_audit_timestamp ON dns_audit(timestamp);
        CREATE INDEX IF NOT EXISTS idx_dns_audit_run ON dns_audit(run_id);
        CREATE INDEX IF NOT EXISTS idx_dns_audit_command ON dns_audit(command);
        CREATE INDEX IF NOT EXISTS idx_dns_audit_record ON dns_audit(domain, record_type, record_name);
    `
	if _, err := r.db.Exec(ddl); err != nil {
		return fmt.Errorf("auditlog: migration failed: %w", err)
	}
	return nil
}

const selectColumns = `
        SELECT id, run_id, timestamp, command, args, provider, domain, zone_id,
               record_type, record_name, content, record_id, outcome, detail, duration_ms
        FROM dns_audit`

// Save inserts a new audit entry.
func (r *SQLiteRepository) Save(entry *AuditEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	result, err := r.db.Exec(`
        INSERT INTO dns_audit (run_id, timestamp, command, args, provider, domain, zone_id,
                               record_type, record_name, content, record_id, outcome, detail, duration_ms)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.RunID, entry.Timestamp.Format(time.RFC3339Nano), entry.Command, entry.Args, entry.Provider,
		entry.Domain, entry.ZoneID, entry.RecordType, entry.RecordName, entry.Content, entry.RecordID,
		entry.Outcome, entry.Detail, entry.DurationMs,
	)
	if err != nil {
		return fmt.Errorf("auditlog: insert failed: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("auditlog: failed to get last insert ID: %w", err)
	}
	entry.ID = id
	return nil
}

// List returns the most recent n audit entries.
func (r *SQLiteRepository) List(limit int) ([]AuditEntry, error) {
	rows, err := r.db.Query(selectColumns+` ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("auditlog: query failed: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// ListByRun returns every entry of a run in insertion order.
func (r *SQLiteRepository) ListByRun(runID string) ([]AuditEntry, error) {
	rows, err := r.db.Query(selectColumns+` WHERE run_id = ? ORDER BY id ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("auditlog: query failed: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// ListByCommand returns the most recent n audit entries for a command.
func (r *SQLiteRepository) ListByCommand(command string, limit int) ([]AuditEntry, error) {
	rows, err := r.db.Query(selectColumns+` WHERE command = ? ORDER BY timestamp DESC, id DESC LIMIT ?`, command, limit)
	if err != nil {
		return nil, fmt.Errorf("auditlog: query failed: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

func cutoff(age time.Duration) string {
	return time.Now().UTC().Add(-age).Format(time.RFC3339Nano)
}

// CountOlderThan reports how many entries Prune(age) would delete.
func (r *SQLiteRepository) CountOlderThan(age time.Duration) (int64, error) {
	var n int64
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM dns_audit WHERE timestamp < ?`, cutoff(age)).Scan(&n); err != nil {
		return 0, fmt.Errorf("auditlog: count failed: %w", err)
	}
	return n, nil
}

// Prune deletes entries older than the given duration.
func (r *SQLiteRepository) Prune(olderThan time.Duration) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM dns_audit WHERE timestamp < ?`, cutoff(olderThan))
	if err != nil {
		return 0, fmt.Errorf("auditlog: delete failed: %w", err)
	}
	return result.RowsAffected()
}

// Runs summarizes the most recent runs, newest first.
func (r *SQLiteRepository) Runs(limit int) ([]RunSummary, error) {
	rows, err := r.db.Query(`
        SELECT run_id, MIN(timestamp), MAX(command), MAX(provider),
               SUM(outcome = 'created'), SUM(outcome = 'skipped'), SUM(outcome = 'failed')
        FROM dns_audit
        GROUP BY run_id
        ORDER BY MIN(timestamp) DESC
        LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("auditlog: query failed: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var s RunSummary
		var started string
		if err := rows.Scan(&s.RunID, &started, &s.Command, &s.Provider, &s.Created, &s.Skipped, &s.Failed); err != nil {
			return nil, fmt.Errorf("auditlog: scan failed: %w", err)
		}
		s.Started, _ = time.Parse(time.RFC3339Nano, started)
		out = append(out, s)
	}
	return out, rows.Err()
}

// Close releases database resources.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func scanRows(rows *sql.Rows) ([]AuditEntry, error) {
	var entries []AuditEntry
	for rows.Next() {
		var entry AuditEntry
		var timestampStr string
		err := rows.Scan(
			&entry.ID, &entry.RunID, &timestampStr, &entry.Command, &entry.Args, &entry.Provider,
			&entry.Domain, &entry.ZoneID, &entry.RecordType, &entry.RecordName, &entry.Content,
			&entry.RecordID, &entry.Outcome, &entry.Detail, &entry.DurationMs,
		)
		if err != nil {
			return nil, fmt.Errorf("auditlog: scan failed: %w", err)
		}
		entry.Timestamp, _ = time.Parse(time.RFC3339Nano, timestampStr)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

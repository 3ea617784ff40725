package dns

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nathanbeddoewebdev/mailprov/internal/auditlog"
	"nathanbeddoewebdev/mailprov/internal/config"
	dnsdomain "nathanbeddoewebdev/mailprov/internal/dns/domain"
	dnsproviders "nathanbeddoewebdev/mailprov/internal/dns/providers"
	"nathanbeddoewebdev/mailprov/internal/dns/tui"
	"nathanbeddoewebdev/mailprov/internal/services/auth"

	"github.com/google/go-cmp/cmp"
)

// --- Mock DNS provider ---

type mockDNSProvider struct {
	records []dnsdomain.Record
	nextID  int

	listRecordsErr error
	createErr      map[string]error

	zones   []string
	creates []dnsdomain.CreateRecordOpts
}

func (m *mockDNSProvider) GetDisplayName() string { return "Mock" }

func (m *mockDNSProvider) ListRecords(_ context.Context, q dnsdomain.RecordQuery) ([]dnsdomain.Record, error) {
	if m.listRecordsErr != nil {
		return nil, m.listRecordsErr
	}
	var out []dnsdomain.Record
	for _, r := range m.records {
		if (q.Type == "" || r.Type == q.Type) && (q.Name == "" || r.Name == q.Name) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockDNSProvider) CreateRecord(_ context.Context, opts dnsdomain.CreateRecordOpts) (*dnsdomain.Record, error) {
	m.creates = append(m.creates, opts)
	if err := m.createErr[opts.Name]; err != nil {
		return nil, err
	}
	m.nextID++
	rec := dnsdomain.Record{
		ID:       fmt.Sprintf("rec-%d", m.nextID),
		Name:     opts.Name,
		Type:     opts.Type,
		Content:  opts.Content,
		TTL:      opts.TTL,
		Priority: opts.Priority,
	}
	m.records = append(m.records, rec)
	return &rec, nil
}

// registerMockDNSProvider resets the DNS registry and registers a mock
// provider factory that serves every zone from mock.
func registerMockDNSProvider(t *testing.T, name string, mock *mockDNSProvider) {
	t.Helper()
	dnsproviders.Reset()
	t.Cleanup(dnsproviders.Reset)
	dnsproviders.Register(name, func(creds dnsdomain.ZoneCredentials) (dnsdomain.Provider, error) {
		mock.zones = append(mock.zones, creds.ZoneID+"/"+creds.Token)
		return mock, nil
	})
}

// isolate points config, audit and environment lookups at test-local values.
func isolate(t *testing.T, env map[string]string) {
	t.Helper()
	config.SetPath(filepath.Join(t.TempDir(), "config.json"))
	t.Cleanup(config.ResetPath)

	origEnv, origPrompt, origSpin, origConfirm, origAudit, origStore := getenv, canPrompt, canSpin, confirmApply, openAuditRepo, newStore
	t.Cleanup(func() {
		getenv, canPrompt, canSpin, confirmApply, openAuditRepo, newStore = origEnv, origPrompt, origSpin, origConfirm, origAudit, origStore
	})

	getenv = func(k string) string { return env[k] }
	canPrompt = func() bool { return false }
	canSpin = func() bool { return false }
	confirmApply = func(int) (bool, error) {
		t.Fatal("unexpected confirmation prompt")
		return false, nil
	}
	openAuditRepo = func() (auditlog.Repository, error) {
		return nil, errors.New("audit disabled in tests")
	}
	newStore = func() auth.Store { return auth.NewMockStore() }
}

const scenarioCSV = `Domain,zone_id,token,type,Name,content,priority
example.com,Z1,T1,TXT,_dmarc,v=DMARC1; p=none;,
,,,A,mail,203.0.113.5,
,,,MX,example.com,mail.example.com,
other.org,Z2,T2,A,www,198.51.100.7,
,,,,,,
,,,A,,,
`

func writeSheet(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "records.csv")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// execDNS runs the given dns subcommand args and returns stdout, stderr and
// the command error.
func execDNS(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	cmd := NewCommand()
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)
	err = cmd.ExecuteContext(context.Background())
	return outBuf.String(), errBuf.String(), err
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}

// --- plan ---

func TestPlanCommand_PreviewsGroupedRecords(t *testing.T) {
	isolate(t, nil)
	mock := &mockDNSProvider{}
	registerMockDNSProvider(t, "mock", mock)

	stdout, _, err := execDNS(t, "plan", "--provider", "mock", "--sheet-url", writeSheet(t, scenarioCSV))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	for _, want := range []string{
		"DNS records to apply",
		"example.com", "(zone Z1)",
		"_dmarc.example.com", "v=DMARC1; p=none;",
		"mail.example.com", "203.0.113.5",
		"mail.example.com (priority 10)",
		"other.org", "(zone Z2)", "www.other.org",
		"Total records planned: 4",
		"No changes have been made yet.",
	} {
		if !contains(stdout, want) {
			t.Errorf("expected %q in output:\n%s", want, stdout)
		}
	}
	if len(mock.zones) != 0 || len(mock.creates) != 0 {
		t.Errorf("plan must not contact the provider: zones=%v creates=%d", mock.zones, len(mock.creates))
	}
}

func TestPlanCommand_TargetDomainsFromEnv(t *testing.T) {
	sheetPath := writeSheet(t, scenarioCSV)
	isolate(t, map[string]string{
		config.EnvSheetURL:      sheetPath,
		config.EnvTargetDomains: "other.org",
	})
	registerMockDNSProvider(t, "mock", &mockDNSProvider{})

	stdout, _, err := execDNS(t, "plan", "--provider", "mock")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if contains(stdout, "example.com") {
		t.Errorf("example.com should be filtered out:\n%s", stdout)
	}
	if !contains(stdout, "Total records planned: 1") {
		t.Errorf("expected one planned record:\n%s", stdout)
	}
}

func TestPlanCommand_NothingToDo(t *testing.T) {
	isolate(t, nil)
	registerMockDNSProvider(t, "mock", &mockDNSProvider{})

	sheetPath := writeSheet(t, "Domain,zone_id,token,type,Name,content\n,,,A,www,1.1.1.1\n")
	stdout, _, err := execDNS(t, "plan", "--provider", "mock", "--sheet-url", sheetPath)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !contains(stdout, "No DNS records to apply.") {
		t.Errorf("unexpected output:\n%s", stdout)
	}
}

func TestPlanCommand_SetupErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    func(t *testing.T) []string
		wantErr string
	}{
		{
			name:    "missing sheet URL",
			args:    func(t *testing.T) []string { return []string{"plan", "--provider", "mock"} },
			wantErr: "no sheet URL configured",
		},
		{
			name: "missing columns",
			args: func(t *testing.T) []string {
				return []string{"plan", "--provider", "mock", "--sheet-url", writeSheet(t, "Domain,type,Name,content\na.com,A,www,1.1.1.1\n")}
			},
			wantErr: "zone_id/ZONE_ID, token/TOKEN",
		},
		{
			name: "unreachable sheet",
			args: func(t *testing.T) []string {
				return []string{"plan", "--provider", "mock", "--sheet-url", filepath.Join(t.TempDir(), "missing.csv")}
			},
			wantErr: "missing.csv",
		},
		{
			name: "unknown provider",
			args: func(t *testing.T) []string {
				return []string{"plan", "--provider", "route53", "--sheet-url", writeSheet(t, scenarioCSV)}
			},
			wantErr: `unknown provider "route53"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t, nil)
			registerMockDNSProvider(t, "mock", &mockDNSProvider{})

			_, stderr, err := execDNS(t, tt.args(t)...)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantErr)
			}
			if !contains(stderr, "Error:") {
				t.Errorf("expected error on stderr, got %q", stderr)
			}
		})
	}
}

func TestPlanCommand_ProviderFromConfig(t *testing.T) {
	isolate(t, nil)
	cfg := &config.Config{DNSProvider: "mock"}
	if err := cfg.Save(); err != nil {
		t.Fatal(err)
	}
	registerMockDNSProvider(t, "mock", &mockDNSProvider{})

	if _, _, err := execDNS(t, "plan", "--sheet-url", writeSheet(t, scenarioCSV)); err != nil {
		t.Fatalf("expected provider from config, got %v", err)
	}
}

// --- apply ---

func TestApplyCommand_CreatesThenSkips(t *testing.T) {
	isolate(t, nil)
	mock := &mockDNSProvider{}
	registerMockDNSProvider(t, "mock", mock)
	sheetPath := writeSheet(t, scenarioCSV)

	stdout, _, err := execDNS(t, "apply", "--provider", "mock", "--sheet-url", sheetPath, "--yes")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	for _, want := range []string{
		"created TXT _dmarc.example.com -> v=DMARC1; p=none;",
		"created MX example.com -> mail.example.com (priority 10)",
		"Summary",
		"Created: 4  Skipped: 0  Failed: 0",
	} {
		if !contains(stdout, want) {
			t.Errorf("expected %q in output:\n%s", want, stdout)
		}
	}

	ten := 10
	wantCreates := []dnsdomain.CreateRecordOpts{
		{Name: "_dmarc.example.com", Type: dnsdomain.RecordTypeTXT, Content: "v=DMARC1; p=none;", TTL: 3600},
		{Name: "mail.example.com", Type: dnsdomain.RecordTypeA, Content: "203.0.113.5", TTL: 3600},
		{Name: "example.com", Type: dnsdomain.RecordTypeMX, Content: "mail.example.com", TTL: 3600, Priority: &ten},
		{Name: "www.other.org", Type: dnsdomain.RecordTypeA, Content: "198.51.100.7", TTL: 3600},
	}
	if diff := cmp.Diff(wantCreates, mock.creates); diff != "" {
		t.Errorf("create payloads mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Z1/T1", "Z2/T2"}, mock.zones); diff != "" {
		t.Errorf("zone clients mismatch (-want +got):\n%s", diff)
	}

	stdout, _, err = execDNS(t, "apply", "--provider", "mock", "--sheet-url", sheetPath, "--yes")
	if err != nil {
		t.Fatalf("rerun: expected no error, got %v", err)
	}
	if !contains(stdout, "Created: 0  Skipped: 4  Failed: 0") {
		t.Errorf("expected every record skipped on rerun:\n%s", stdout)
	}
	if len(mock.creates) != 4 {
		t.Errorf("rerun must not create records, total creates = %d", len(mock.creates))
	}
}

func TestApplyCommand_FailureIsReportedAndRunContinues(t *testing.T) {
	isolate(t, nil)
	mock := &mockDNSProvider{createErr: map[string]error{
		"_dmarc.example.com": fmt.Errorf("failed to create: %w", &dnsdomain.APIError{
			StatusCode: 400,
			Messages:   []string{"DNS record content is invalid."},
		}),
	}}
	registerMockDNSProvider(t, "mock", mock)

	stdout, _, err := execDNS(t, "apply", "--provider", "mock", "--sheet-url", writeSheet(t, scenarioCSV), "--yes")
	if err != nil {
		t.Fatalf("failed records must not fail the command, got %v", err)
	}
	if !contains(stdout, "failed  TXT _dmarc.example.com -> v=DMARC1; p=none;: DNS record content is invalid.") {
		t.Errorf("expected failure progress line:\n%s", stdout)
	}
	if !contains(stdout, "Created: 3  Skipped: 0  Failed: 1") {
		t.Errorf("unexpected totals:\n%s", stdout)
	}
}

func TestApplyCommand_ConfirmationRequiredWithoutTerminal(t *testing.T) {
	isolate(t, nil)
	mock := &mockDNSProvider{}
	registerMockDNSProvider(t, "mock", mock)

	stdout, _, err := execDNS(t, "apply", "--provider", "mock", "--sheet-url", writeSheet(t, scenarioCSV))
	if !errors.Is(err, ErrConfirmationRequired) {
		t.Fatalf("expected ErrConfirmationRequired, got %v", err)
	}
	if !contains(stdout, "Total records planned: 4") {
		t.Errorf("expected preview before the error:\n%s", stdout)
	}
	if len(mock.creates) != 0 {
		t.Errorf("expected no creations, got %d", len(mock.creates))
	}
}

func TestApplyCommand_AssumeYesFromEnv(t *testing.T) {
	isolate(t, map[string]string{config.EnvAssumeYes: "1"})
	mock := &mockDNSProvider{}
	registerMockDNSProvider(t, "mock", mock)

	if _, _, err := execDNS(t, "apply", "--provider", "mock", "--sheet-url", writeSheet(t, scenarioCSV)); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(mock.creates) != 4 {
		t.Errorf("expected 4 creations, got %d", len(mock.creates))
	}
}

func TestApplyCommand_YesFalseOverridesConfig(t *testing.T) {
	isolate(t, nil)
	cfg := &config.Config{AssumeYes: true}
	if err := cfg.Save(); err != nil {
		t.Fatal(err)
	}
	mock := &mockDNSProvider{}
	registerMockDNSProvider(t, "mock", mock)
	canPrompt = func() bool { return true }

	asked := false
	confirmApply = func(int) (bool, error) {
		asked = true
		return false, nil
	}

	stdout, _, err := execDNS(t, "apply", "--provider", "mock", "--yes=false", "--sheet-url", writeSheet(t, scenarioCSV))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !asked {
		t.Error("expected the confirmation prompt with --yes=false")
	}
	if !contains(stdout, "Aborted. No DNS changes applied.") || len(mock.creates) != 0 {
		t.Errorf("expected no changes, creates=%d\n%s", len(mock.creates), stdout)
	}
}

func TestApplyCommand_Declined(t *testing.T) {
	tests := []struct {
		name    string
		confirm func(int) (bool, error)
	}{
		{name: "answered no", confirm: func(int) (bool, error) { return false, nil }},
		{name: "interrupted", confirm: func(int) (bool, error) { return false, tui.ErrApplyAborted }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t, nil)
			mock := &mockDNSProvider{}
			registerMockDNSProvider(t, "mock", mock)
			canPrompt = func() bool { return true }
			confirmApply = tt.confirm

			stdout, _, err := execDNS(t, "apply", "--provider", "mock", "--sheet-url", writeSheet(t, scenarioCSV))
			if err != nil {
				t.Fatalf("declining must exit cleanly, got %v", err)
			}
			if !contains(stdout, "Aborted. No DNS changes applied.") {
				t.Errorf("expected abort notice:\n%s", stdout)
			}
			if len(mock.creates) != 0 || len(mock.zones) != 0 {
				t.Errorf("expected no provider calls, zones=%v creates=%d", mock.zones, len(mock.creates))
			}
		})
	}
}

func TestApplyCommand_ConfirmedInteractively(t *testing.T) {
	isolate(t, nil)
	mock := &mockDNSProvider{}
	registerMockDNSProvider(t, "mock", mock)
	canPrompt = func() bool { return true }

	var asked int
	confirmApply = func(n int) (bool, error) {
		asked = n
		return true, nil
	}

	if _, _, err := execDNS(t, "apply", "--provider", "mock", "--sheet-url", writeSheet(t, scenarioCSV)); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if asked != 4 {
		t.Errorf("confirmation asked for %d records, want 4", asked)
	}
	if len(mock.creates) != 4 {
		t.Errorf("expected 4 creations, got %d", len(mock.creates))
	}
}

func TestApplyCommand_WritesAuditEntries(t *testing.T) {
	isolate(t, nil)
	repo, err := auditlog.OpenAt(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { repo.Close() })
	openAuditRepo = func() (auditlog.Repository, error) { return nopCloser{repo}, nil }

	mock := &mockDNSProvider{records: []dnsdomain.Record{
		{ID: "old", Type: dnsdomain.RecordTypeA, Name: "mail.example.com", Content: "203.0.113.5"},
	}}
	registerMockDNSProvider(t, "mock", mock)

	if _, _, err := execDNS(t, "apply", "--provider", "mock", "--sheet-url", writeSheet(t, scenarioCSV), "--yes"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	entries, err := repo.List(100)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 4 {
		t.Fatalf("expected 4 audit entries, got %d", len(entries))
	}

	outcomes := map[string]string{}
	runIDs := map[string]bool{}
	for _, e := range entries {
		outcomes[e.RecordName+" "+e.RecordType] = e.Outcome
		runIDs[e.RunID] = true
		if e.Provider != "mock" {
			t.Errorf("entry provider = %q, want mock", e.Provider)
		}
	}
	want := map[string]string{
		"_dmarc.example.com TXT": auditlog.OutcomeCreated,
		"mail.example.com A":     auditlog.OutcomeSkipped,
		"example.com MX":         auditlog.OutcomeCreated,
		"www.other.org A":        auditlog.OutcomeCreated,
	}
	if diff := cmp.Diff(want, outcomes); diff != "" {
		t.Errorf("audit outcomes mismatch (-want +got):\n%s", diff)
	}
	if len(runIDs) != 1 {
		t.Errorf("expected entries to share one run ID, got %d", len(runIDs))
	}
}

func TestApplyCommand_NoAuditFlag(t *testing.T) {
	isolate(t, nil)
	openAuditRepo = func() (auditlog.Repository, error) {
		t.Fatal("audit log must not be opened with --no-audit")
		return nil, nil
	}
	registerMockDNSProvider(t, "mock", &mockDNSProvider{})

	if _, _, err := execDNS(t, "apply", "--provider", "mock", "--sheet-url", writeSheet(t, scenarioCSV), "--yes", "--no-audit"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestApplyCommand_WritesMetricsFile(t *testing.T) {
	isolate(t, nil)
	registerMockDNSProvider(t, "mock", &mockDNSProvider{})
	path := filepath.Join(t.TempDir(), "mailprov.prom")

	if _, _, err := execDNS(t, "apply", "--provider", "mock", "--sheet-url", writeSheet(t, scenarioCSV), "--yes", "--metrics-file", path); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("metrics file not written: %v", err)
	}
	for _, want := range []string{
		`mailprov_dns_records_total{domain="example.com",outcome="created"} 3`,
		`mailprov_dns_records_total{domain="other.org",outcome="created"} 1`,
		`mailprov_provider_requests_total{operation="create_record",provider="mock",result="ok"} 4`,
		`mailprov_sheet_rows_skipped_total{reason="invalid"} 1`,
	} {
		if !contains(string(data), want) {
			t.Errorf("expected %q in metrics:\n%s", want, data)
		}
	}
}

// nopCloser keeps the shared test repository open when the command closes it.
type nopCloser struct{ auditlog.Repository }

func (nopCloser) Close() error { return nil }

// --- records ---

func TestRecordsCommand_ListsZone(t *testing.T) {
	isolate(t, nil)
	prio := 10
	mock := &mockDNSProvider{records: []dnsdomain.Record{
		{ID: "r1", Type: dnsdomain.RecordTypeMX, Name: "example.com", Content: "mail.example.com", TTL: 3600, Priority: &prio},
		{ID: "r2", Type: dnsdomain.RecordTypeTXT, Name: "_dmarc.example.com", Content: "v=DMARC1; p=none;", TTL: 3600},
	}}
	registerMockDNSProvider(t, "mock", mock)

	stdout, _, err := execDNS(t, "records", "--provider", "mock", "--zone-id", "Z1", "--token", "T1", "--type", "mx")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	for _, want := range []string{"ID", "PRIORITY", "r1", "mail.example.com", "10"} {
		if !contains(stdout, want) {
			t.Errorf("expected %q in output:\n%s", want, stdout)
		}
	}
	if contains(stdout, "r2") {
		t.Errorf("type filter not applied:\n%s", stdout)
	}
	if diff := cmp.Diff([]string{"Z1/T1"}, mock.zones); diff != "" {
		t.Errorf("zone credentials mismatch (-want +got):\n%s", diff)
	}
}

func TestRecordsCommand_TokenFromKeychain(t *testing.T) {
	isolate(t, map[string]string{config.EnvZoneID: "Z9"})
	store := auth.NewMockStore()
	store.SetToken("mock", "stored-token")
	newStore = func() auth.Store { return store }

	mock := &mockDNSProvider{}
	registerMockDNSProvider(t, "mock", mock)

	stdout, _, err := execDNS(t, "records", "--provider", "mock")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !contains(stdout, "No records found.") {
		t.Errorf("unexpected output:\n%s", stdout)
	}
	if diff := cmp.Diff([]string{"Z9/stored-token"}, mock.zones); diff != "" {
		t.Errorf("zone credentials mismatch (-want +got):\n%s", diff)
	}
}

func TestRecordsCommand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		mock    *mockDNSProvider
		wantErr string
	}{
		{name: "no zone", args: []string{"records", "--provider", "mock", "--token", "T"}, wantErr: "no zone ID given"},
		{name: "no token", args: []string{"records", "--provider", "mock", "--zone-id", "Z"}, wantErr: "auth token not found"},
		{name: "bad type", args: []string{"records", "--provider", "mock", "--zone-id", "Z", "--token", "T", "--type", "BOGUS"}, wantErr: `unsupported record type "BOGUS"`},
		{
			name:    "provider error",
			args:    []string{"records", "--provider", "mock", "--zone-id", "Z", "--token", "T"},
			mock:    &mockDNSProvider{listRecordsErr: fmt.Errorf("wrapped: %w", dnsdomain.ErrUnauthorized)},
			wantErr: "listing records: wrapped: unauthorized",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t, nil)
			mock := tt.mock
			if mock == nil {
				mock = &mockDNSProvider{}
			}
			registerMockDNSProvider(t, "mock", mock)

			_, _, err := execDNS(t, tt.args...)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

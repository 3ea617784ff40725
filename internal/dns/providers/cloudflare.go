package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"nathanbeddoewebdev/mailprov/internal/dns/domain"
)

const (
	cloudflareBaseURL = "https://api.cloudflare.com/client/v4"
	cloudflareTimeout = 30 * time.Second
	cloudflarePerPage = 100
)

// Compile-time check that CloudflareProvider satisfies domain.Provider.
var _ domain.Provider = (*CloudflareProvider)(nil)

// CloudflareProvider implements domain.Provider for a single Cloudflare zone
// using the API v4. It authenticates with a zone-scoped API token that needs
// DNS:Edit permission.
type CloudflareProvider struct {
	zoneID  string
	token   string
	baseURL string
	client  *http.Client
}

// CloudflareOption configures a CloudflareProvider.
type CloudflareOption func(*CloudflareProvider)

// WithHTTPClient replaces the default HTTP client (30s timeout).
func WithHTTPClient(client *http.Client) CloudflareOption {
	return func(c *CloudflareProvider) {
		if client != nil {
			c.client = client
		}
	}
}

// WithBaseURL points the provider at a different API root.
func WithBaseURL(baseURL string) CloudflareOption {
	return func(c *CloudflareProvider) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// NewCloudflareProvider creates a CloudflareProvider for the given zone.
func NewCloudflareProvider(creds domain.ZoneCredentials, opts ...CloudflareOption) *CloudflareProvider {
	c := &CloudflareProvider{
		zoneID:  creds.ZoneID,
		token:   creds.Token,
		baseURL: cloudflareBaseURL,
		client:  &http.Client{Timeout: cloudflareTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RegisterCloudflare registers the Cloudflare provider factory with the DNS registry.
func RegisterCloudflare(opts ...CloudflareOption) {
	Register("cloudflare", func(creds domain.ZoneCredentials) (domain.Provider, error) {
		if strings.TrimSpace(creds.ZoneID) == "" {
			return nil, fmt.Errorf("cloudflare: zone ID is required")
		}
		if strings.TrimSpace(creds.Token) == "" {
			return nil, fmt.Errorf("cloudflare: API token is required for zone %s", creds.ZoneID)
		}
		return NewCloudflareProvider(creds, opts...), nil
	})
}

// GetDisplayName returns the human-readable provider name.
func (c *CloudflareProvider) GetDisplayName() string {
	return "Cloudflare"
}

// --- Wire types ---

// cfResponse is the v4 envelope. Info is only present on list endpoints.
type cfResponse[T any] struct {
	Success bool      `json:"success"`
	Errors  []cfError `json:"errors"`
	Result  T         `json:"result"`
	Info    *cfPage   `json:"result_info,omitempty"`
}

type cfError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type cfPage struct {
	Page       int `json:"page"`
	TotalPages int `json:"total_pages"`
}

type cfRecord struct {
	ID       string `json:"id,omitempty"`
	Type     string `json:"type"`
	Name     string `json:"name"`
	Content  string `json:"content"`
	TTL      int    `json:"ttl,omitempty"`
	Priority *int   `json:"priority,omitempty"`
}

func (r cfRecord) toDomain() domain.Record {
	return domain.Record{
		ID:       r.ID,
		Name:     r.Name,
		Type:     domain.RecordType(r.Type),
		Content:  r.Content,
		TTL:      r.TTL,
		Priority: r.Priority,
	}
}

// --- Error classification ---

var statusKinds = map[int]error{
	http.StatusUnauthorized:    domain.ErrUnauthorized,
	http.StatusForbidden:       domain.ErrUnauthorized,
	http.StatusNotFound:        domain.ErrNotFound,
	http.StatusConflict:        domain.ErrConflict,
	http.StatusTooManyRequests: domain.ErrRateLimited,
}

// codeKinds covers failures Cloudflare reports with a 400 status.
var codeKinds = map[int]error{
	9109:  domain.ErrUnauthorized,
	10000: domain.ErrUnauthorized,
	7003:  domain.ErrNotFound,
	81044: domain.ErrNotFound,
	81057: domain.ErrConflict,
	81058: domain.ErrConflict,
}

func classify(status int, errs []cfError) error {
	if kind, ok := statusKinds[status]; ok {
		return kind
	}
	for _, e := range errs {
		if kind, ok := codeKinds[e.Code]; ok {
			return kind
		}
		msg := strings.ToLower(e.Message)
		switch {
		case strings.Contains(msg, "authentication"):
			return domain.ErrUnauthorized
		case strings.Contains(msg, "already exists"):
			return domain.ErrConflict
		case strings.Contains(msg, "not found"):
			return domain.ErrNotFound
		}
	}
	return nil
}

// --- Transport ---

// call sends one request and decodes the envelope into out. A response with
// success=false becomes a *domain.APIError regardless of the HTTP status.
func call[T any](ctx context.Context, c *CloudflareProvider, method, path string, payload any, out *cfResponse[T]) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("cloudflare: encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("cloudflare: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("cloudflare: request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("cloudflare: unreadable response (HTTP %d): %w", resp.StatusCode, err)
	}
	if out.Success {
		return nil
	}

	apiErr := &domain.APIError{StatusCode: resp.StatusCode, Kind: classify(resp.StatusCode, out.Errors)}
	for _, e := range out.Errors {
		if e.Message != "" {
			apiErr.Messages = append(apiErr.Messages, e.Message)
		}
	}
	return apiErr
}

func (c *CloudflareProvider) recordsPath() string {
	return "/zones/" + url.PathEscape(c.zoneID) + "/dns_records"
}

// --- domain.Provider ---

// ListRecords returns the zone's records matching query. Every page is read.
func (c *CloudflareProvider) ListRecords(ctx context.Context, query domain.RecordQuery) ([]domain.Record, error) {
	params := url.Values{}
	if query.Type != "" {
		params.Set("type", string(query.Type))
	}
	if query.Name != "" {
		params.Set("name", query.Name)
	}
	params.Set("per_page", strconv.Itoa(cloudflarePerPage))

	var records []domain.Record
	for page := 1; ; page++ {
		params.Set("page", strconv.Itoa(page))

		var out cfResponse[[]cfRecord]
		if err := call(ctx, c, http.MethodGet, c.recordsPath()+"?"+params.Encode(), nil, &out); err != nil {
			return nil, fmt.Errorf("list records in zone %s: %w", c.zoneID, err)
		}
		for _, r := range out.Result {
			records = append(records, r.toDomain())
		}
		if out.Info == nil || page >= out.Info.TotalPages {
			break
		}
	}
	return records, nil
}

// CreateRecord adds a record to the zone. Priority is sent only when set.
func (c *CloudflareProvider) CreateRecord(ctx context.Context, opts domain.CreateRecordOpts) (*domain.Record, error) {
	payload := cfRecord{
		Type:     string(opts.Type),
		Name:     opts.Name,
		Content:  opts.Content,
		TTL:      opts.TTL,
		Priority: opts.Priority,
	}

	var out cfResponse[cfRecord]
	if err := call(ctx, c, http.MethodPost, c.recordsPath(), payload, &out); err != nil {
		return nil, fmt.Errorf("create %s record %s: %w", opts.Type, opts.Name, err)
	}
	created := out.Result.toDomain()
	return &created, nil
}

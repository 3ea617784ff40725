package sheet

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// DefaultFetchTimeout bounds the workbook download.
const DefaultFetchTimeout = 60 * time.Second

// maxBodyBytes caps the workbook size. Larger bodies are rejected.
var maxBodyBytes int64 = 64 << 20

// Fetch retrieves the workbook at location: an http(s) URL, a file:// URL or
// a local path. It also returns a content hint (file extension or media type)
// used to pick the parser.
func Fetch(ctx context.Context, client *http.Client, location string) ([]byte, string, error) {
	location = strings.TrimSpace(location)
	u, err := url.Parse(location)
	if err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return fetchHTTP(ctx, client, location, u)
	}

	path := location
	if err == nil && u.Scheme == "file" {
		path = u.Path
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	return data, extHint(path), nil
}

func fetchHTTP(ctx context.Context, client *http.Client, location string, u *url.URL) ([]byte, string, error) {
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrUnreachable, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("%w: HTTP %d from %s", ErrUnreachable, resp.StatusCode, u.Redacted())
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("%w: reading body: %w", ErrUnreachable, err)
	}
	if int64(len(data)) > maxBodyBytes {
		return nil, "", fmt.Errorf("%w: body exceeds %d bytes", ErrUnreachable, maxBodyBytes)
	}

	hint := extHint(u.Path)
	if ct := resp.Header.Get("Content-Type"); strings.Contains(ct, "csv") {
		hint = ".csv"
	} else if u.Query().Get("format") == "csv" {
		hint = ".csv"
	}
	return data, hint, nil
}

func extHint(path string) string {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".xlsx"):
		return ".xlsx"
	case strings.HasSuffix(lower, ".csv"):
		return ".csv"
	default:
		return ""
	}
}

package downloader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Client talks to the downloader HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	files     *http.Client
	userAgent string
}

const (
	defaultServerURL = "http://127.0.0.1:8000"
	defaultUserAgent = "tapedeck/0.1"
	requestTimeout   = 5 * time.Second
)

// StatusError reports a non-2xx API response.
type StatusError struct {
	Path string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api %s returned status %d", e.Path, e.Code)
}

// IsNotFound reports whether err is a 404 API response.
func IsNotFound(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound
}

// NewClient builds a Client for the given server URL. A bare host:port is
// accepted and treated as http.
func NewClient(serverURL string) (*Client, error) {
	base, err := parseBaseURL(serverURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		// File downloads can outlive any fixed timeout; cancellation is the
		// caller's context.
		files:     &http.Client{},
		userAgent: defaultUserAgent,
	}, nil
}

// WebSocketURL returns the push endpoint derived from the base URL.
func (c *Client) WebSocketURL() string {
	ws := *c.baseURL
	switch ws.Scheme {
	case "https":
		ws.Scheme = "wss"
	default:
		ws.Scheme = "ws"
	}
	ws.Path = "/ws"
	return ws.String()
}

// FetchQueue retrieves the current queue snapshot.
func (c *Client) FetchQueue(ctx context.Context) ([]Item, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var items []Item
	if err := c.do(ctx, http.MethodGet, "/api/downloads", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// FetchItem retrieves a single queue item by id.
func (c *Client) FetchItem(ctx context.Context, id string) (*Item, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("item id required")
	}
	var item Item
	if err := c.do(ctx, http.MethodGet, "/api/downloads/"+id, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// FetchStats retrieves the aggregate queue counters.
func (c *Client) FetchStats(ctx context.Context) (*Stats, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var stats Stats
	if err := c.do(ctx, http.MethodGet, "/api/queue/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Submit enqueues a batch of source URLs at the given quality and returns the
// created items. There are no partial-batch semantics: any error means the
// whole call failed.
func (c *Client) Submit(ctx context.Context, urls []string, quality string) ([]Item, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("at least one url required")
	}
	body := struct {
		URLs    []string `json:"urls"`
		Quality string   `json:"quality"`
	}{URLs: urls, Quality: quality}
	var items []Item
	if err := c.do(ctx, http.MethodPost, "/api/downloads", body, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Cancel asks the server to stop and forget an item. A 404 means the server
// already forgot it, which counts as success.
func (c *Client) Cancel(ctx context.Context, id string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	err := c.do(ctx, http.MethodDelete, "/api/downloads/"+id, nil, nil)
	if IsNotFound(err) {
		return nil
	}
	return err
}

// Retry restarts a failed or cancelled item and returns its refreshed record.
func (c *Client) Retry(ctx context.Context, id string) (*Item, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var item Item
	if err := c.do(ctx, http.MethodPost, "/api/downloads/"+id+"/retry", nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// ClearCompleted removes completed and skipped items server-side.
func (c *Client) ClearCompleted(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.do(ctx, http.MethodPost, "/api/queue/clear", nil, nil)
}

// CancelAll cancels every item the server still considers active.
func (c *Client) CancelAll(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.do(ctx, http.MethodPost, "/api/queue/cancel-all", nil, nil)
}

// ClearAll removes every item from the server queue.
func (c *Client) ClearAll(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.do(ctx, http.MethodPost, "/api/queue/clear-all", nil, nil)
}

// ListFiles returns the produced files available on the server.
func (c *Client) ListFiles(ctx context.Context) ([]FileEntry, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var entries []FileEntry
	if err := c.do(ctx, http.MethodGet, "/api/files", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// DeleteFile removes one produced file from the server.
func (c *Client) DeleteFile(ctx context.Context, filename string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.do(ctx, http.MethodDelete, "/api/files/"+filename, nil, nil)
}

// DeleteAllFiles removes every produced file from the server.
func (c *Client) DeleteAllFiles(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.do(ctx, http.MethodDelete, "/api/files", nil, nil)
}

// SaveFile streams a produced file into destDir and returns the local path.
// The file is written to a temporary name first so an interrupted transfer
// never leaves a truncated file under its final name.
func (c *Client) SaveFile(ctx context.Context, filename, destDir string) (string, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(filename) == "" {
		return "", fmt.Errorf("filename required")
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}

	rel := &url.URL{Path: "/api/files/" + filename}
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.files.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= 400 {
		return "", &StatusError{Path: rel.Path, Code: resp.StatusCode}
	}

	dest := filepath.Join(destDir, filepath.Base(filename))
	tmp, err := os.CreateTemp(destDir, ".tapedeck-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("close file: %w", err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("finalize file: %w", err)
	}
	return dest, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	rel := &url.URL{Path: path}
	reqURL := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return &StatusError{Path: path, Code: resp.StatusCode}
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(serverURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(serverURL)
	if trimmed == "" {
		trimmed = defaultServerURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse server_url %q: %w", serverURL, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch retrieves the survey page and keeps optional snapshots of
// what was fetched.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/pollharvest/internal/httputil"
	"github.com/pdiddy/pollharvest/pkg/types"
)

// MaxPageBytes bounds the size of a fetched page. Tests lower it.
var MaxPageBytes int64 = 16 << 20

// ErrPageTooLarge reports a response body longer than MaxPageBytes.
var ErrPageTooLarge = errors.New("page exceeds size limit")

// Backoff is the retry schedule for throttled requests. Tests override it
// to avoid real sleeps.
var Backoff = httputil.DefaultBackoff

// NewClient returns an HTTP client with the configured timeout.
func NewClient(cfg types.FetchConfig) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// Page downloads cfg.URL (DefaultSourceURL when empty) and returns the
// body. It sets User-Agent, asks for HTML, and retries throttled
// responses up to cfg.MaxRetries times.
func Page(ctx context.Context, client *http.Client, cfg types.FetchConfig) ([]byte, error) {
	url := cfg.URL
	if url == "" {
		url = types.DefaultSourceURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}
	req.Header.Set("Accept", "text/html")

	b := Backoff
	if cfg.MaxRetries > 0 {
		b.MaxRetries = cfg.MaxRetries
	}
	resp, err := httputil.Do(ctx, client, req, b)
	if err != nil {
		return nil, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxPageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if int64(len(data)) > MaxPageBytes {
		return nil, fmt.Errorf("%w: %s is larger than %d bytes", ErrPageTooLarge, url, MaxPageBytes)
	}
	return data, nil
}

// Snapshot writes page into dir as page-<UTC timestamp>.html using a
// temporary file that is renamed on success. It returns the final path.
func Snapshot(dir string, page []byte, at time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", dir, err)
	}
	destPath := filepath.Join(dir, "page-"+at.UTC().Format("20060102T150405Z")+".html")

	tmpFile, err := os.CreateTemp(dir, ".snapshot-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(page)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("writing snapshot: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("renaming temp file: %w", err)
	}
	return destPath, nil
}

// Package fileutil provides file, path and source loading helpers.
package fileutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// MaxSourceSize caps Markdown read from a file or URL (default 10MB).
var MaxSourceSize int64 = 10 << 20

// Sentinel errors for file utility operations.
var (
	ErrSourceEmpty    = errors.New("source cannot be empty")
	ErrSourceTooLarge = errors.New("source exceeds maximum size")
	ErrSourceFetch    = errors.New("fetching source failed")
)

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "slides" -> false (name)
//   - "./slides.yaml" -> true (relative path)
//   - "/etc/md2slides.yaml" -> true (absolute)
//   - "C:\config\slides.yaml" -> true (Windows)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// IsURL returns true if the string looks like an http or https URL.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// ReadSource returns the content of a local file or, when src is an http(s)
// URL, the body fetched with client. A nil client uses http.DefaultClient.
// Content larger than MaxSourceSize is rejected.
func ReadSource(ctx context.Context, client *http.Client, src string) (string, error) {
	if src == "" {
		return "", ErrSourceEmpty
	}
	if IsURL(src) {
		return fetch(ctx, client, src)
	}

	f, err := os.Open(src) // #nosec G304 -- source path is user-provided
	if err != nil {
		return "", fmt.Errorf("opening source: %w", err)
	}
	defer func() { _ = f.Close() }()
	return readLimited(f, src)
}

func fetch(ctx context.Context, client *http.Client, url string) (string, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSourceFetch, err)
	}
	req.Header.Set("Accept", "text/markdown, text/plain;q=0.9, */*;q=0.1")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSourceFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s returned %s", ErrSourceFetch, url, resp.Status)
	}
	return readLimited(resp.Body, url)
}

func readLimited(r io.Reader, name string) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxSourceSize+1))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", name, err)
	}
	if int64(len(data)) > MaxSourceSize {
		return "", fmt.Errorf("%w: %s (max %d bytes)", ErrSourceTooLarge, name, MaxSourceSize)
	}
	return string(data), nil
}

// WritePrivateFile writes data readable only by the current user, creating
// parent directories as needed. The file is replaced atomically.
func WritePrivateFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("setting permissions: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

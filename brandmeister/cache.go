package brandmeister

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// fetchStatus indicates whether the cached device list changed.
type fetchStatus string

const (
	statusUpdated fetchStatus = "updated"
	statusCached  fetchStatus = "cached"
)

// cacheMeta is the sidecar record for the device-list cache. Conditional
// headers let a --force refresh skip the transfer when the list is unchanged.
type cacheMeta struct {
	URL          string    `json:"url,omitempty"`
	ETag         string    `json:"etag,omitempty"`
	LastModified string    `json:"last_modified,omitempty"`
	DownloadedAt time.Time `json:"downloaded_at,omitempty"`
	SizeBytes    int64     `json:"size_bytes,omitempty"`
	SHA256       string    `json:"sha256,omitempty"`
}

type fetchResult struct {
	Status fetchStatus
	Bytes  int64
}

func metaPath(cachePath string) string {
	return cachePath + ".status.json"
}

// fetchDeviceFile ensures cachePath holds the device list. Without force, an
// existing cache file short-circuits. With force, conditional headers from
// the sidecar avoid re-transferring an unchanged payload.
func (c *Client) fetchDeviceFile(ctx context.Context, cachePath string, force bool) (fetchResult, error) {
	var result fetchResult
	if cachePath == "" {
		return result, errors.New("brandmeister: device cache path is empty")
	}

	_, statErr := os.Stat(cachePath)
	cacheExists := statErr == nil
	if statErr != nil && !errors.Is(statErr, os.ErrNotExist) {
		return result, fmt.Errorf("brandmeister: stat device cache: %w", statErr)
	}
	if cacheExists && !force {
		result.Status = statusCached
		return result, nil
	}

	url := c.baseURL + "/device"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return result, fmt.Errorf("brandmeister: build request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	prev := readCacheMeta(metaPath(cachePath))
	if cacheExists && prev != nil {
		if prev.ETag != "" {
			req.Header.Set("If-None-Match", prev.ETag)
		}
		if prev.LastModified != "" {
			req.Header.Set("If-Modified-Since", prev.LastModified)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return result, fmt.Errorf("brandmeister: fetch device list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		result.Status = statusCached
		return result, nil
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return result, fmt.Errorf("brandmeister: fetch device list: status %s", resp.Status)
	}

	dir := filepath.Dir(cachePath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return result, fmt.Errorf("brandmeister: create cache directory: %w", err)
		}
	}
	tmpDir := dir
	if tmpDir == "" {
		tmpDir = "."
	}
	tmpFile, err := os.CreateTemp(tmpDir, "bmlist-*.tmp")
	if err != nil {
		return result, fmt.Errorf("brandmeister: create temp file: %w", err)
	}
	tmpName := tmpFile.Name()
	defer os.Remove(tmpName)

	hasher := sha256.New()
	written, err := io.Copy(io.MultiWriter(tmpFile, hasher), resp.Body)
	if err != nil {
		tmpFile.Close()
		return result, fmt.Errorf("brandmeister: copy body: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return result, fmt.Errorf("brandmeister: finalize temp file: %w", err)
	}
	if written <= 0 {
		return result, errors.New("brandmeister: empty device list response")
	}

	if err := os.Remove(cachePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return result, fmt.Errorf("brandmeister: remove old cache: %w", err)
	}
	if err := os.Rename(tmpName, cachePath); err != nil {
		return result, fmt.Errorf("brandmeister: replace cache: %w", err)
	}

	meta := cacheMeta{
		URL:          url,
		ETag:         strings.TrimSpace(resp.Header.Get("ETag")),
		LastModified: strings.TrimSpace(resp.Header.Get("Last-Modified")),
		DownloadedAt: time.Now().UTC(),
		SizeBytes:    written,
		SHA256:       hex.EncodeToString(hasher.Sum(nil)),
	}
	if err := writeCacheMeta(metaPath(cachePath), meta); err != nil {
		log.WithError(err).Warn("unable to write device cache metadata")
	}

	result.Status = statusUpdated
	result.Bytes = written
	return result, nil
}

func readCacheMeta(path string) *cacheMeta {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var meta cacheMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil
	}
	return &meta
}

func writeCacheMeta(path string, meta cacheMeta) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

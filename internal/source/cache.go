package source

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const (
	cacheSubdir    = "podscript/sources"
	cacheTTL       = 24 * time.Hour
	partialSuffix  = ".part"
	metaSuffix     = ".meta"
	bodySuffix     = ".body"
	maxSourceBytes = 32 << 20
)

var errTooLarge = errors.New("source exceeds size limit")

type diskCache struct {
	dir    string
	client *http.Client
}

type cacheMeta struct {
	URL          string    `json:"url"`
	ContentType  string    `json:"contentType"`
	ETag         string    `json:"etag"`
	LastModified string    `json:"lastModified"`
	CachedAt     time.Time `json:"cachedAt"`
	Size         int64     `json:"size"`
}

// newDiskCache stores downloads under dir, or the user cache dir when empty.
func newDiskCache(dir string, client *http.Client) (*diskCache, error) {
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			base = filepath.Join(os.TempDir(), "podscript-cache")
		}
		dir = filepath.Join(base, cacheSubdir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &diskCache{dir: dir, client: client}, nil
}

// Fetch returns the path of a local copy of rawURL. Fresh copies are reused,
// stale ones are revalidated, and a stale copy is served when the network
// fails.
func (c *diskCache) Fetch(ctx context.Context, rawURL string) (string, cacheMeta, error) {
	bodyPath, metaPath, partialPath := c.pathsFor(rawURL)
	meta, metaErr := readMeta(metaPath)
	info, statErr := os.Stat(bodyPath)
	haveCopy := statErr == nil && metaErr == nil && info.Size() > 0

	if haveCopy && time.Since(meta.CachedAt) < cacheTTL {
		return bodyPath, meta, nil
	}

	fresh, err := c.download(ctx, rawURL, bodyPath, metaPath, partialPath, meta, haveCopy)
	if err == nil {
		return bodyPath, fresh, nil
	}
	if haveCopy {
		return bodyPath, meta, nil
	}
	return "", cacheMeta{}, err
}

func (c *diskCache) download(ctx context.Context, rawURL, bodyPath, metaPath, partialPath string, meta cacheMeta, haveCopy bool) (cacheMeta, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return cacheMeta{}, err
	}
	req.Header.Set("User-Agent", userAgent)
	if haveCopy {
		if meta.ETag != "" {
			req.Header.Set("If-None-Match", meta.ETag)
		}
		if meta.LastModified != "" {
			req.Header.Set("If-Modified-Since", meta.LastModified)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return cacheMeta{}, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotModified && haveCopy:
		meta.CachedAt = time.Now().UTC()
		if err := writeMeta(metaPath, meta); err != nil {
			return cacheMeta{}, err
		}
		return meta, nil
	case resp.StatusCode == http.StatusOK:
		return c.saveBody(resp, bodyPath, metaPath, partialPath)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return cacheMeta{}, fmt.Errorf("download %s: %s (%s)", rawURL, resp.Status, string(body))
	}
}

func (c *diskCache) saveBody(resp *http.Response, bodyPath, metaPath, partialPath string) (cacheMeta, error) {
	file, err := os.OpenFile(partialPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return cacheMeta{}, err
	}
	written, err := io.Copy(file, io.LimitReader(resp.Body, maxSourceBytes+1))
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err == nil && written > maxSourceBytes {
		err = errTooLarge
	}
	if err != nil {
		_ = os.Remove(partialPath)
		return cacheMeta{}, err
	}
	if err := os.Rename(partialPath, bodyPath); err != nil {
		return cacheMeta{}, err
	}

	meta := cacheMeta{
		URL:          resp.Request.URL.String(),
		ContentType:  resp.Header.Get("Content-Type"),
		ETag:         resp.Header.Get("Etag"),
		LastModified: resp.Header.Get("Last-Modified"),
		CachedAt:     time.Now().UTC(),
		Size:         written,
	}
	if err := writeMeta(metaPath, meta); err != nil {
		return cacheMeta{}, err
	}
	return meta, nil
}

func (c *diskCache) pathsFor(rawURL string) (string, string, string) {
	sum := sha1.Sum([]byte(rawURL))
	key := hex.EncodeToString(sum[:])
	return filepath.Join(c.dir, key+bodySuffix), filepath.Join(c.dir, key+metaSuffix), filepath.Join(c.dir, key+partialSuffix)
}

func readMeta(path string) (cacheMeta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cacheMeta{}, err
	}
	var meta cacheMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return cacheMeta{}, err
	}
	return meta, nil
}

func writeMeta(path string, meta cacheMeta) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

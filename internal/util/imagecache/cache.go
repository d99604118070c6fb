// Package imagecache downloads remote images once and reuses the local copy.
package imagecache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	httputil "github.com/jmylchreest/threecolours/internal/util/http"
	"github.com/jmylchreest/threecolours/internal/version"
)

// FetchFunc retrieves the body at url.
type FetchFunc func(ctx context.Context, url string, opts httputil.FetchOptions) ([]byte, error)

// Cache stores downloaded images under Dir, keyed by URL.
type Cache struct {
	// Dir is the cache directory. If empty, DefaultDir is used.
	Dir string

	// Refresh downloads again even when a cached copy exists.
	Refresh bool

	fetch FetchFunc
}

// New returns a cache rooted at dir.
func New(dir string) *Cache {
	return &Cache{Dir: dir, fetch: httputil.Fetch}
}

// DefaultDir returns the default cache directory path.
func DefaultDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to determine cache directory: %w", err)
		}
		return filepath.Join(home, ".cache", version.Name, "images"), nil
	}
	return filepath.Join(cacheDir, version.Name, "images"), nil
}

// Filename returns the cache file name for url: a hash of the URL plus the
// URL's extension, or .jpg when it has none.
func Filename(url string) string {
	hash := sha256.Sum256([]byte(url))

	ext := filepath.Ext(url)
	if idx := strings.IndexAny(ext, "?#"); idx != -1 {
		ext = ext[:idx]
	}
	if ext == "" || len(ext) > 5 {
		ext = ".jpg"
	}

	return fmt.Sprintf("%x%s", hash[:16], strings.ToLower(ext))
}

// Get returns a local path holding the image at url, downloading it if it
// is not cached yet.
func (c *Cache) Get(ctx context.Context, url string) (string, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "", fmt.Errorf("invalid URL: must start with http:// or https://")
	}

	dir := c.Dir
	if dir == "" {
		defaultDir, err := DefaultDir()
		if err != nil {
			return "", err
		}
		dir = defaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil { // #nosec G301 - Cache directory needs standard permissions
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	cachedPath := filepath.Join(dir, Filename(url))
	if !c.Refresh {
		if _, err := os.Stat(cachedPath); err == nil {
			return cachedPath, nil
		}
	}

	fetch := c.fetch
	if fetch == nil {
		fetch = httputil.Fetch
	}
	data, err := fetch(ctx, url, httputil.FetchOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to download image: %w", err)
	}

	// Write then rename so an interrupted download never looks cached.
	tmp, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return "", fmt.Errorf("failed to write cached image: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write cached image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write cached image: %w", err)
	}
	if err := os.Rename(tmp.Name(), cachedPath); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write cached image: %w", err)
	}

	return cachedPath, nil
}

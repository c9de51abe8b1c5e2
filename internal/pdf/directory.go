package pdf

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// DirectoryCache provides TTL-based caching of base document listings
type DirectoryCache struct {
	entries map[string]cacheEntry
	ttl     time.Duration
	mu      sync.RWMutex
}

type cacheEntry struct {
	files      []FileInfo
	lastUpdate time.Time
}

// NewDirectoryCache creates a new directory cache with specified TTL
func NewDirectoryCache(ttl time.Duration) *DirectoryCache {
	return &DirectoryCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
	}
}

// Get retrieves cached directory contents if still fresh
func (c *DirectoryCache) Get(path string) ([]FileInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[path]
	if !exists || time.Since(entry.lastUpdate) > c.ttl {
		return nil, false
	}
	return append([]FileInfo(nil), entry.files...), true
}

// Set stores directory contents
func (c *DirectoryCache) Set(path string, files []FileInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = cacheEntry{files: append([]FileInfo(nil), files...), lastUpdate: time.Now()}
}

// Invalidate drops the entry for path, e.g. after an export was written
func (c *DirectoryCache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, path)
}

// DirectoryScanner lists PDF files below a root with depth and count limits
type DirectoryScanner struct {
	maxDepth  int
	fileLimit int
	cache     *DirectoryCache
}

// NewDirectoryScanner creates a scanner with a short-lived cache
func NewDirectoryScanner(maxDepth, fileLimit int, ttl time.Duration) *DirectoryScanner {
	return &DirectoryScanner{
		maxDepth:  maxDepth,
		fileLimit: fileLimit,
		cache:     NewDirectoryCache(ttl),
	}
}

// Invalidate forgets the cached listing of root
func (s *DirectoryScanner) Invalidate(root string) {
	s.cache.Invalidate(root)
}

// Scan returns the PDF files below root sorted by path. Hidden entries and
// symlinks are skipped.
func (s *DirectoryScanner) Scan(ctx context.Context, root string) ([]FileInfo, error) {
	if files, ok := s.cache.Get(root); ok {
		return files, nil
	}

	var files []FileInfo
	if err := s.scan(ctx, root, 0, &files); err != nil {
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	s.cache.Set(root, files)
	return files, nil
}

func (s *DirectoryScanner) scan(ctx context.Context, path string, depth int, files *[]FileInfo) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.maxDepth > 0 && depth >= s.maxDepth {
		return nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil // unreadable directories are skipped
	}

	for _, entry := range entries {
		if s.fileLimit > 0 && len(*files) >= s.fileLimit {
			return nil
		}
		if strings.HasPrefix(entry.Name(), ".") || entry.Type()&os.ModeSymlink != 0 {
			continue
		}

		entryPath := filepath.Join(path, entry.Name())
		if entry.IsDir() {
			if err := s.scan(ctx, entryPath, depth+1, files); err != nil {
				return err
			}
			continue
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		*files = append(*files, FileInfo{
			Name:         entry.Name(),
			Path:         entryPath,
			Size:         info.Size(),
			ModifiedTime: info.ModTime().Format("2006-01-02 15:04:05"),
		})
	}
	return nil
}

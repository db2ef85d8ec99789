package codec

import (
	"fmt"
	"os"
	"sync"

	"github.com/ironsheep/raster-tools-mcp/internal/raster"
)

// Cache provides thread-safe caching of decoded buffers to avoid redundant
// disk reads.
//
// Buffers are keyed by the exact path string given to Load. Every Load
// returns a private copy, so callers may transform the result freely without
// affecting the cached original.
//
// # Memory Management
//
// Cached buffers remain in memory until removed via Evict() or Clear(). Save
// through the cache (Cache.Save) to keep a cached entry in sync with the file
// it was loaded from.
//
// # Example Usage
//
//	cache := codec.NewCache()
//	buf, err := cache.Load("wiz.tga")
//	if err != nil {
//	    return err
//	}
//	buf.Grayscale()
//	err = cache.Save("wiz-gray.tga", buf)
type Cache struct {
	mu      sync.RWMutex
	buffers map[string]*raster.Buffer
}

// NewCache creates an empty cache, ready for concurrent use.
func NewCache() *Cache {
	return &Cache{
		buffers: make(map[string]*raster.Buffer),
	}
}

// Load returns a copy of the buffer for path, decoding the file on first use.
func (c *Cache) Load(path string) (*raster.Buffer, error) {
	c.mu.RLock()
	if buf, ok := c.buffers[path]; ok {
		c.mu.RUnlock()
		return buf.Copy(), nil
	}
	c.mu.RUnlock()

	buf, err := Load(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.buffers[path] = buf
	c.mu.Unlock()

	return buf.Copy(), nil
}

// Save writes buf to path and refreshes any cached entry for it.
func (c *Cache) Save(path string, buf *raster.Buffer) error {
	if err := Save(path, buf); err != nil {
		return err
	}
	c.Evict(path)
	return nil
}

// Clear removes all buffers from the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.buffers = make(map[string]*raster.Buffer)
	c.mu.Unlock()
}

// Evict removes a specific buffer from the cache by its path.
//
// If the path is not in the cache, this method does nothing.
func (c *Cache) Evict(path string) {
	c.mu.Lock()
	delete(c.buffers, path)
	c.mu.Unlock()
}

// Len reports the number of cached buffers.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.buffers)
}

// Info contains metadata about an image file.
type Info struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the format selected from the file extension.
	Format Format `json:"format"`

	// HasAlpha is true when at least one pixel is not fully opaque.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the size of the file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadInfo loads an image through the cache and describes it.
func LoadInfo(cache *Cache, path string) (*Info, error) {
	buf, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	hasAlpha := false
	pix := buf.Pix()
	for i := 3; i < len(pix); i += 4 {
		if pix[i] != 255 {
			hasAlpha = true
			break
		}
	}

	return &Info{
		Width:         buf.Width(),
		Height:        buf.Height(),
		Format:        format,
		HasAlpha:      hasAlpha,
		FileSizeBytes: stat.Size(),
	}, nil
}

package api

import (
	"time"
	"unsafe"

	"github.com/coocood/freecache"
	"github.com/rs/zerolog"
)

// Cache holds encoded responses keyed by request.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	Clear()
}

type freeCache struct {
	cache *freecache.Cache
	ttl   int
}

// NewCache returns a freecache-backed Cache of sizeMB megabytes. A size
// of zero or less disables caching.
func NewCache(sizeMB int, ttl time.Duration, log zerolog.Logger) Cache {
	if sizeMB <= 0 {
		log.Info().Msg("response cache disabled")
		return noopCache{}
	}
	secs := max(int(ttl.Seconds()), 1)
	log.Info().Int("size_mb", sizeMB).Int("ttl_s", secs).Msg("response cache initialized")
	return &freeCache{
		cache: freecache.NewCache(sizeMB * 1024 * 1024),
		ttl:   secs,
	}
}

// freecache copies keys, so the unaliased view is only read.
func keyBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

func (c *freeCache) Get(key string) ([]byte, bool) {
	val, err := c.cache.Get(keyBytes(key))
	if err != nil {
		return nil, false
	}
	return val, true
}

func (c *freeCache) Set(key string, value []byte) {
	_ = c.cache.Set(keyBytes(key), value, c.ttl)
}

func (c *freeCache) Clear() {
	c.cache.Clear()
}

type noopCache struct{}

func (noopCache) Get(string) ([]byte, bool) { return nil, false }
func (noopCache) Set(string, []byte)        {}
func (noopCache) Clear()                    {}

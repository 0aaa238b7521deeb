package space_summary_service

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Analysis is the cacheable outcome of running the pipeline over one file.
type Analysis struct {
	HeaderRow   int
	Aggregation *Aggregation
}

type AnalysisCache interface {
	Get(key string) (*Analysis, bool)
	Set(key string, a *Analysis)
}

type memAnalysisCache struct {
	cache *gocache.Cache
}

// NewMemAnalysisCache keeps analyses for ttl; ttl <= 0 keeps them until the process exits.
func NewMemAnalysisCache(ttl, cleanupInterval time.Duration) AnalysisCache {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &memAnalysisCache{cache: gocache.New(ttl, cleanupInterval)}
}

func (c *memAnalysisCache) Get(key string) (*Analysis, bool) {
	if v, found := c.cache.Get(key); found {
		return v.(*Analysis), true
	}
	return nil, false
}

func (c *memAnalysisCache) Set(key string, a *Analysis) {
	c.cache.SetDefault(key, a)
}

// cacheKey identifies a file by content, so a renamed re-upload still hits.
func cacheKey(file []byte) string {
	h := sha256.Sum256(file)
	return hex.EncodeToString(h[:])
}

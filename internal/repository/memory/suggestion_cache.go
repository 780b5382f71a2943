package memory

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/patrickmn/go-cache"
)

const generalSuggestionsKey = "suggestions:general"

// SuggestionCache keeps generated suggestion lists keyed by document digest.
type SuggestionCache struct {
	cache *cache.Cache
}

// NewSuggestionCache stores entries for ttl and purges expired ones every
// ttl*2. A ttl <= 0 disables caching.
func NewSuggestionCache(ttl time.Duration) *SuggestionCache {
	if ttl <= 0 {
		return &SuggestionCache{}
	}
	return &SuggestionCache{
		cache: cache.New(ttl, 2*ttl),
	}
}

// Key is fixed for the general path and a SHA-256 of the content otherwise.
func (c *SuggestionCache) Key(documentContent string) string {
	if documentContent == "" {
		return generalSuggestionsKey
	}
	sum := sha256.Sum256([]byte(documentContent))
	return "suggestions:doc:" + hex.EncodeToString(sum[:])
}

func (c *SuggestionCache) Save(key string, suggestions []string) {
	if c.cache == nil {
		return
	}
	c.cache.Set(key, append([]string(nil), suggestions...), cache.DefaultExpiration)
}

func (c *SuggestionCache) Get(key string) ([]string, bool) {
	if c.cache == nil {
		return nil, false
	}
	if x, found := c.cache.Get(key); found {
		return append([]string(nil), x.([]string)...), true
	}
	return nil, false
}

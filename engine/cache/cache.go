package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/brainus-ai/brainus-go/engine/brainus"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Entry is a cached answer together with the time it was stored.
type Entry struct {
	Answer       string
	Citations    []brainus.Citation
	HasCitations bool
	CachedAt     time.Time
}

// AnswerCache is a TTL-bounded LRU of query answers, keyed by store and
// query text. It is safe for concurrent use.
type AnswerCache struct {
	lru *expirable.LRU[string, Entry]
}

// New builds a cache holding up to size entries, each expiring after ttl.
func New(size int, ttl time.Duration) *AnswerCache {
	if size < 1 {
		size = 1
	}
	return &AnswerCache{lru: expirable.NewLRU[string, Entry](size, nil, ttl)}
}

// Key derives the cache key for a store/query pair.
func Key(storeID, query string) string {
	sum := sha256.Sum256([]byte(storeID + "\x00" + query))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached entry for the store/query pair, if present and
// unexpired.
func (c *AnswerCache) Get(storeID, query string) (Entry, bool) {
	return c.lru.Get(Key(storeID, query))
}

// Set stores a query result.
func (c *AnswerCache) Set(storeID, query string, result *brainus.QueryResult) {
	if result == nil {
		return
	}
	c.lru.Add(Key(storeID, query), Entry{
		Answer:       result.Answer,
		Citations:    result.Citations,
		HasCitations: result.HasCitations,
		CachedAt:     time.Now(),
	})
}

// Len reports the number of live entries.
func (c *AnswerCache) Len() int {
	return c.lru.Len()
}

// Purge drops every entry.
func (c *AnswerCache) Purge() {
	c.lru.Purge()
}

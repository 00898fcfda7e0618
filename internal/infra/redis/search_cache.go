package redis

import (
	"context"
	"fmt"
	"time"

	"carcare/internal/domain/record"
)

// searchTTL keeps search pages hot briefly; records change rarely within a
// session but the cache must not mask edits for long.
const searchTTL = 2 * time.Minute

// SearchCache caches assembled search pages per user and query.
type SearchCache struct {
	cache *snappyJSONCache
}

// NewSearchCache builds a SearchCache on top of the shared Redis client.
func NewSearchCache(client bytesCacheClient) *SearchCache {
	return &SearchCache{cache: newSnappyJSONCache(client, searchTTL)}
}

// BuildKey derives the cache key for a normalized query. The term is hashed
// so free text never appears in key listings.
func (c *SearchCache) BuildKey(query record.SearchQuery) string {
	raw := fmt.Sprintf("%s|%s|%s|%s|%d",
		query.UserID, query.Category, query.Term, query.Sort, query.Page)
	return "carcare:search:" + sha256Hex(raw)
}

// Get looks up a cached page for the query.
func (c *SearchCache) Get(ctx context.Context, query record.SearchQuery, out any) (bool, error) {
	return c.cache.Get(ctx, c.BuildKey(query), out)
}

// Set stores one assembled page for the query.
func (c *SearchCache) Set(ctx context.Context, query record.SearchQuery, value any) error {
	return c.cache.Set(ctx, c.BuildKey(query), value)
}

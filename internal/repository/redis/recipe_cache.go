package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"time"
)

const recipeCachePrefix = "recipe:"

// RecipeCache stores generated recipes keyed by their normalized
// ingredient list, so repeated requests for the same ingredients skip the
// engine call. Session state is never cached here.
type RecipeCache struct {
	client *Client
	ttl    time.Duration
}

// NewRecipeCache creates a recipe cache with the given entry TTL.
func NewRecipeCache(client *Client, ttl time.Duration) *RecipeCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RecipeCache{client: client, ttl: ttl}
}

// Get retrieves a cached recipe. The second return is false on miss or
// redis error; a cache failure must never fail the request.
func (c *RecipeCache) Get(ctx context.Context, ingredients []string) (string, bool) {
	recipe, err := c.client.rdb.Get(ctx, cacheKey(ingredients)).Result()
	if err != nil {
		return "", false
	}
	return recipe, true
}

// Set caches a generated recipe.
func (c *RecipeCache) Set(ctx context.Context, ingredients []string, recipe string) error {
	return c.client.rdb.Set(ctx, cacheKey(ingredients), recipe, c.ttl).Err()
}

// cacheKey normalizes the ingredient list (trimmed, lower-cased, sorted)
// so equivalent requests share one entry regardless of ordering.
func cacheKey(ingredients []string) string {
	normalized := make([]string, len(ingredients))
	for i, ing := range ingredients {
		normalized[i] = strings.ToLower(strings.TrimSpace(ing))
	}
	sort.Strings(normalized)

	sum := sha256.Sum256([]byte(strings.Join(normalized, ",")))
	return recipeCachePrefix + hex.EncodeToString(sum[:])
}

package embedding

import (
	"context"
	"encoding/json"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

// Cache persists movie embeddings in Redis, keyed by the movie's Plex
// key. Regenerating embeddings costs API calls, so entries never
// expire; the movie key is stable across library rescans.
type Cache struct {
	client *goredis.Client
	prefix string
}

func NewCache(client *goredis.Client) *Cache {
	return &Cache{
		client: client,
		prefix: "embedding:",
	}
}

func (c *Cache) key(movieKey string) string {
	return c.prefix + movieKey
}

// Get returns the cached vector for movieKey, or nil when absent.
func (c *Cache) Get(ctx context.Context, movieKey string) ([]float32, error) {
	val, err := c.client.Get(ctx, c.key(movieKey)).Result()
	if err == goredis.Nil {
		return nil, nil // not cached
	}
	if err != nil {
		return nil, err
	}

	var vector []float32
	if err := json.Unmarshal([]byte(val), &vector); err != nil {
		return nil, fmt.Errorf("embedding: failed to unmarshal cached vector: %w", err)
	}
	return vector, nil
}

func (c *Cache) Put(ctx context.Context, movieKey string, vector []float32) error {
	if movieKey == "" {
		return fmt.Errorf("embedding: missing movie key")
	}

	data, err := json.Marshal(vector)
	if err != nil {
		return fmt.Errorf("embedding: failed to marshal vector: %w", err)
	}

	return c.client.Set(ctx, c.key(movieKey), data, 0).Err()
}

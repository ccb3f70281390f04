package redis

import (
	"context"
	"fmt"

	"github.com/dumu-tech/boomerang/internal/core"
	"github.com/redis/go-redis/v9"
)

const (
	// AttachmentKeyPrefix is the prefix for hosted attachment keys in Redis
	AttachmentKeyPrefix = "attachment:"
)

// Repository implements core.AttachmentStore using Redis, so every bot
// process behind one public URL serves the same hosted attachments
type Repository struct {
	client *redis.Client
}

// NewRepository creates a new Redis repository
func NewRepository(client *redis.Client) *Repository {
	return &Repository{client: client}
}

// Register stores path under id unless id is already present
func (r *Repository) Register(ctx context.Context, id string, path string) (bool, error) {
	key := AttachmentKeyPrefix + id
	created, err := r.client.SetNX(ctx, key, path, 0).Result()
	if err != nil {
		return false, fmt.Errorf("failed to register attachment: %w", err)
	}
	return created, nil
}

// Lookup returns the file reference registered under id
func (r *Repository) Lookup(ctx context.Context, id string) (string, error) {
	key := AttachmentKeyPrefix + id
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", fmt.Errorf("attachment %s: %w", id, core.ErrAttachmentNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get attachment: %w", err)
	}
	return val, nil
}

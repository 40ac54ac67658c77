package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/meetingdash/meeting-reconciler/internal/domain/entities"
)

const snapshotKey = "reconciler:meetings:snapshot"

// SnapshotCache persists the last-known-good meeting collection in Redis so
// a restarted instance can serve data before its first successful poll.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSnapshotCache creates a snapshot cache. A non-positive ttl falls back
// to 24 hours.
func NewSnapshotCache(client *redis.Client, ttl time.Duration) *SnapshotCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SnapshotCache{
		client: client,
		ttl:    ttl,
	}
}

// Save stores the collection as a single JSON blob with a TTL. A stale
// snapshot expiring is preferable to serving day-old meetings forever.
func (c *SnapshotCache) Save(ctx context.Context, meetings []entities.Meeting) error {
	data, err := json.Marshal(meetings)
	if err != nil {
		return fmt.Errorf("failed to marshal meeting snapshot: %w", err)
	}
	if err := c.client.Set(ctx, snapshotKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save meeting snapshot: %w", err)
	}
	return nil
}

// Load fetches the stored collection. The second return is false when no
// snapshot exists.
func (c *SnapshotCache) Load(ctx context.Context) ([]entities.Meeting, bool, error) {
	data, err := c.client.Get(ctx, snapshotKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to load meeting snapshot: %w", err)
	}

	var meetings []entities.Meeting
	if err := json.Unmarshal(data, &meetings); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal meeting snapshot: %w", err)
	}
	return meetings, true, nil
}

// Clear removes the snapshot.
func (c *SnapshotCache) Clear(ctx context.Context) error {
	if err := c.client.Del(ctx, snapshotKey).Err(); err != nil {
		return fmt.Errorf("failed to clear meeting snapshot: %w", err)
	}
	return nil
}

package out_cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/explorer2005/skycab-booking-system/internal/fleet/domain"
	"github.com/explorer2005/skycab-booking-system/internal/shared/cache"
)

const (
	fleetSnapshotKey = "fleet:snapshot"

	// Снимок живет недолго: симулятор все равно двигает флот каждый тик
	fleetSnapshotTTL = 30 * time.Second
)

// SnapshotCache — Redis-кэш снимка флота
type SnapshotCache struct {
	redis *cache.Redis
}

// NewSnapshotCache создает новый кэш поверх Redis
func NewSnapshotCache(redis *cache.Redis) *SnapshotCache {
	return &SnapshotCache{redis: redis}
}

// GetFleet возвращает снимок флота. (nil, nil) при промахе.
func (c *SnapshotCache) GetFleet(ctx context.Context) ([]*domain.Vehicle, error) {
	data, err := c.redis.Get(ctx, fleetSnapshotKey)
	if err != nil {
		if errors.Is(err, cache.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("read fleet snapshot: %w", err)
	}

	var vehicles []*domain.Vehicle
	if err := json.Unmarshal(data, &vehicles); err != nil {
		// Битый снимок приравниваем к промаху
		return nil, nil
	}

	return vehicles, nil
}

// SetFleet сохраняет снимок флота
func (c *SnapshotCache) SetFleet(ctx context.Context, vehicles []*domain.Vehicle) error {
	data, err := json.Marshal(vehicles)
	if err != nil {
		return fmt.Errorf("marshal fleet snapshot: %w", err)
	}
	return c.redis.Set(ctx, fleetSnapshotKey, data, fleetSnapshotTTL)
}

// Invalidate сбрасывает снимок
func (c *SnapshotCache) Invalidate(ctx context.Context) error {
	return c.redis.Del(ctx, fleetSnapshotKey)
}

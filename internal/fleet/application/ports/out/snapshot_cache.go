package out

import (
	"context"

	"github.com/explorer2005/skycab-booking-system/internal/fleet/domain"
)

// SnapshotCache — исходящий порт кэша снимка флота.
// Кэш — ускоритель чтения, его отказ не должен ронять операции.
type SnapshotCache interface {
	// GetFleet возвращает закэшированный снимок флота.
	// (nil, nil) означает промах кэша.
	GetFleet(ctx context.Context) ([]*domain.Vehicle, error)

	// SetFleet сохраняет снимок флота
	SetFleet(ctx context.Context, vehicles []*domain.Vehicle) error

	// Invalidate сбрасывает снимок
	Invalidate(ctx context.Context) error
}

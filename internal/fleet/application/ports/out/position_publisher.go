package out

import (
	"context"

	"github.com/explorer2005/skycab-booking-system/internal/fleet/domain"
)

// PositionPublisher — исходящий порт трансляции позиций флота.
// Каждое закоммиченное обновление позиции публикуется ровно один раз.
type PositionPublisher interface {
	PublishPosition(ctx context.Context, vehicle *domain.Vehicle) error
}

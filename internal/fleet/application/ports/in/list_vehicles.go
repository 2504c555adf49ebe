package in

import (
	"context"

	"github.com/explorer2005/skycab-booking-system/internal/fleet/domain"
)

// ListVehiclesUseCase — входящий порт чтения флота
type ListVehiclesUseCase interface {
	// ListAll возвращает все аппараты, отсортированные по имени
	ListAll(ctx context.Context) ([]*domain.Vehicle, error)
}

package out

import (
	"context"

	"github.com/explorer2005/skycab-booking-system/internal/fleet/domain"
)

// VehicleRepository — исходящий порт для работы с хранилищем флота
type VehicleRepository interface {
	// ListAll возвращает все аппараты, отсортированные по имени
	ListAll(ctx context.Context) ([]*domain.Vehicle, error)

	// FindByID возвращает аппарат по ID.
	// Возвращает domain.ErrVehicleNotFound если записи нет.
	FindByID(ctx context.Context, vehicleID string) (*domain.Vehicle, error)

	// UpdatePosition сохраняет новые координаты аппарата
	// и возвращает обновленную запись
	UpdatePosition(ctx context.Context, vehicleID string, lat, lng float64) (*domain.Vehicle, error)

	// UpdateStatus сохраняет новый операционный статус аппарата
	UpdateStatus(ctx context.Context, vehicleID string, status domain.VehicleStatus) (*domain.Vehicle, error)
}

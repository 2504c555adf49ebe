package in

import (
	"context"

	"github.com/explorer2005/skycab-booking-system/internal/fleet/domain"
)

// UpdateVehicleStatusInput — входные данные для смены статуса аппарата
type UpdateVehicleStatusInput struct {
	VehicleID   string
	RequestedBy string
	NewStatus   string
}

// UpdateVehicleStatusUseCase — входящий порт смены операционного статуса
type UpdateVehicleStatusUseCase interface {
	Execute(ctx context.Context, input UpdateVehicleStatusInput) (*domain.Vehicle, error)
}

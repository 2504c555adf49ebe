package in

import (
	"context"

	"github.com/explorer2005/skycab-booking-system/internal/booking/domain"
)

// CreateBookingInput — входные данные для создания бронирования.
// Fare рассчитывается вызывающей стороной до отправки: ядро его
// только валидирует и сохраняет.
type CreateBookingInput struct {
	RiderID      string
	Pickup       string
	Dropoff      string
	VehicleClass string
	Fare         float64
}

// CreateBookingUseCase — интерфейс use-case создания бронирования
type CreateBookingUseCase interface {
	Execute(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
}

package in

import (
	"context"

	"github.com/explorer2005/skycab-booking-system/internal/booking/domain"
)

// ListBookingsUseCase — read-only проекции, отсортированные по created_at DESC.
// ListAll — привилегированная операция, роль проверяется на транспортном слое.
type ListBookingsUseCase interface {
	ListForRider(ctx context.Context, riderID string) ([]*domain.Booking, error)
	ListAll(ctx context.Context) ([]*domain.Booking, error)
}

package out

import (
	"context"

	"github.com/explorer2005/skycab-booking-system/internal/booking/domain"
)

// BookingRepository — интерфейс репозитория бронирований
type BookingRepository interface {
	// Create вставляет запись; id и created_at назначает хранилище,
	// возвращается сохраненная запись целиком
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)

	// FindByID возвращает бронирование по ID или ErrBookingNotFound
	FindByID(ctx context.Context, bookingID string) (*domain.Booking, error)

	// UpdateStatus выполняет условный переход: запись обновляется только
	// если текущий статус равен from (compare-and-swap на уровне строки).
	// Проигравший гонку конкурентный переход получает ErrInvalidTransition.
	UpdateStatus(ctx context.Context, bookingID string, from, to domain.Status) (*domain.Booking, error)

	// ListByRider возвращает бронирования пассажира, created_at DESC
	ListByRider(ctx context.Context, riderID string) ([]*domain.Booking, error)

	// ListAll возвращает все бронирования, created_at DESC
	ListAll(ctx context.Context) ([]*domain.Booking, error)
}

package in

import (
	"context"

	"github.com/explorer2005/skycab-booking-system/internal/booking/domain"
)

// TransitionBookingInput — входные данные для перехода статуса.
// RequestedBy — идентификатор инициатора (пассажир, диспетчер, админ);
// права инициатора проверяет внешний identity-провайдер, менеджер
// жизненного цикла проверяет только форму перехода.
type TransitionBookingInput struct {
	BookingID   string
	RequestedBy string
	NewStatus   string
}

// TransitionBookingUseCase — интерфейс use-case перехода статуса
type TransitionBookingUseCase interface {
	Execute(ctx context.Context, input TransitionBookingInput) (*domain.Booking, error)
}

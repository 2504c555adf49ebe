package usecase

import (
	"context"
	"fmt"

	"github.com/explorer2005/skycab-booking-system/internal/booking/application/ports/out"
	"github.com/explorer2005/skycab-booking-system/internal/booking/domain"
	"github.com/explorer2005/skycab-booking-system/internal/shared/logger"
)

// ListBookingsService реализует ListBookingsUseCase
type ListBookingsService struct {
	bookingRepo out.BookingRepository
	log         *logger.Logger
}

// NewListBookingsService создает новый сервис чтения бронирований
func NewListBookingsService(bookingRepo out.BookingRepository, log *logger.Logger) *ListBookingsService {
	return &ListBookingsService{
		bookingRepo: bookingRepo,
		log:         log,
	}
}

// ListForRider возвращает бронирования пассажира, новые первыми
func (s *ListBookingsService) ListForRider(ctx context.Context, riderID string) ([]*domain.Booking, error) {
	bookings, err := s.bookingRepo.ListByRider(ctx, riderID)
	if err != nil {
		s.log.Error(logger.Entry{
			Action:  "list_rider_bookings_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
			Additional: map[string]any{
				"rider_id": riderID,
			},
		})
		return nil, fmt.Errorf("list bookings for rider: %w", err)
	}
	return bookings, nil
}

// ListAll возвращает все бронирования, новые первыми.
// Привилегированность операции обеспечивается снаружи.
func (s *ListBookingsService) ListAll(ctx context.Context) ([]*domain.Booking, error) {
	bookings, err := s.bookingRepo.ListAll(ctx)
	if err != nil {
		s.log.Error(logger.Entry{
			Action:  "list_all_bookings_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		return nil, fmt.Errorf("list all bookings: %w", err)
	}
	return bookings, nil
}

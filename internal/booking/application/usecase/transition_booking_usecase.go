package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/explorer2005/skycab-booking-system/internal/booking/application/ports/in"
	"github.com/explorer2005/skycab-booking-system/internal/booking/application/ports/out"
	"github.com/explorer2005/skycab-booking-system/internal/booking/domain"
	"github.com/explorer2005/skycab-booking-system/internal/shared/logger"
)

// TransitionBookingService реализует TransitionBookingUseCase —
// авторитетную машину состояний над Booking.Status
type TransitionBookingService struct {
	bookingRepo out.BookingRepository
	publisher   out.EventPublisher
	changes     out.ChangeStream
	log         *logger.Logger
}

// NewTransitionBookingService создает новый сервис переходов статуса
func NewTransitionBookingService(
	bookingRepo out.BookingRepository,
	publisher out.EventPublisher,
	changes out.ChangeStream,
	log *logger.Logger,
) *TransitionBookingService {
	return &TransitionBookingService{
		bookingRepo: bookingRepo,
		publisher:   publisher,
		changes:     changes,
		log:         log,
	}
}

// Execute выполняет переход статуса бронирования.
// Переход персистится условным обновлением "только если текущий статус
// равен ожидаемому": второй из двух гонящихся переходов получает
// ErrInvalidTransition, а не молча перезаписывает первого.
func (s *TransitionBookingService) Execute(ctx context.Context, input in.TransitionBookingInput) (*domain.Booking, error) {
	newStatus := domain.Status(input.NewStatus)
	if !newStatus.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, input.NewStatus)
	}

	booking, err := s.bookingRepo.FindByID(ctx, input.BookingID)
	if err != nil {
		if errors.Is(err, domain.ErrBookingNotFound) {
			return nil, err
		}
		s.log.Error(logger.Entry{
			Action:    "transition_find_booking_failed",
			Message:   err.Error(),
			BookingID: input.BookingID,
			Error:     &logger.ErrObj{Msg: err.Error()},
		})
		return nil, fmt.Errorf("find booking: %w", err)
	}

	current := booking.Status
	if !current.CanTransitionTo(newStatus) {
		s.log.Warn(logger.Entry{
			Action:    "transition_rejected",
			Message:   fmt.Sprintf("%s -> %s", current, newStatus),
			BookingID: booking.ID,
			Additional: map[string]any{
				"requested_by": input.RequestedBy,
				"terminal":     current.Terminal(),
			},
		})
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, current, newStatus)
	}

	updated, err := s.bookingRepo.UpdateStatus(ctx, booking.ID, current, newStatus)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) || errors.Is(err, domain.ErrBookingNotFound) {
			// Конкурентный переход успел раньше
			return nil, err
		}
		s.log.Error(logger.Entry{
			Action:    "transition_update_failed",
			Message:   err.Error(),
			BookingID: booking.ID,
			Error:     &logger.ErrObj{Msg: err.Error()},
		})
		return nil, fmt.Errorf("update booking status: %w", err)
	}

	s.log.Info(logger.Entry{
		Action:    "booking_transitioned",
		Message:   fmt.Sprintf("%s -> %s", current, newStatus),
		BookingID: updated.ID,
		Additional: map[string]any{
			"requested_by": input.RequestedBy,
		},
	})

	// Ровно одно событие на успешный переход
	s.changes.BookingChanged(out.ChangeUpdate, updated)

	eventData := out.BookingEventData{
		BookingID:   updated.ID,
		RiderID:     updated.RiderID,
		Status:      updated.Status,
		RequestedBy: input.RequestedBy,
		Additional: map[string]any{
			"previous_status": string(current),
		},
	}
	if err := s.publisher.PublishBookingEvent(ctx, domain.EventTypeForStatus(newStatus), eventData); err != nil {
		s.log.Error(logger.Entry{
			Action:    "publish_booking_event_failed",
			Message:   err.Error(),
			BookingID: updated.ID,
			Error:     &logger.ErrObj{Msg: err.Error()},
		})
	}

	return updated, nil
}

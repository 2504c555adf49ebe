package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/explorer2005/skycab-booking-system/internal/booking/application/ports/in"
	"github.com/explorer2005/skycab-booking-system/internal/booking/application/ports/out"
	"github.com/explorer2005/skycab-booking-system/internal/booking/domain"
	"github.com/explorer2005/skycab-booking-system/internal/shared/logger"
)

// CreateBookingService реализует CreateBookingUseCase
type CreateBookingService struct {
	bookingRepo out.BookingRepository
	publisher   out.EventPublisher
	changes     out.ChangeStream
	log         *logger.Logger
}

// NewCreateBookingService создает новый сервис создания бронирования
func NewCreateBookingService(
	bookingRepo out.BookingRepository,
	publisher out.EventPublisher,
	changes out.ChangeStream,
	log *logger.Logger,
) *CreateBookingService {
	return &CreateBookingService{
		bookingRepo: bookingRepo,
		publisher:   publisher,
		changes:     changes,
		log:         log,
	}
}

// Execute выполняет создание нового бронирования со статусом requested
func (s *CreateBookingService) Execute(ctx context.Context, input in.CreateBookingInput) (*domain.Booking, error) {
	// Валидация входных данных
	if strings.TrimSpace(input.Pickup) == "" {
		return nil, fmt.Errorf("%w: pickup is required", domain.ErrValidation)
	}
	if strings.TrimSpace(input.Dropoff) == "" {
		return nil, fmt.Errorf("%w: dropoff is required", domain.ErrValidation)
	}
	// Fare рассчитан вызывающей стороной, ядро проверяет только
	// положительность и конечность
	if input.Fare <= 0 || math.IsInf(input.Fare, 0) || math.IsNaN(input.Fare) {
		return nil, fmt.Errorf("%w: fare must be a positive finite number", domain.ErrValidation)
	}

	class := domain.VehicleClass(input.VehicleClass)
	if !class.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidVehicleClass, input.VehicleClass)
	}

	booking := &domain.Booking{
		RiderID:      input.RiderID,
		Pickup:       strings.TrimSpace(input.Pickup),
		Dropoff:      strings.TrimSpace(input.Dropoff),
		VehicleClass: class,
		Fare:         input.Fare,
		Status:       domain.StatusRequested,
	}

	// id и created_at назначает хранилище
	stored, err := s.bookingRepo.Create(ctx, booking)
	if err != nil {
		s.log.Error(logger.Entry{
			Action:  "create_booking_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
			Additional: map[string]any{
				"rider_id": input.RiderID,
			},
		})
		return nil, fmt.Errorf("insert booking: %w", err)
	}

	s.log.Info(logger.Entry{
		Action:    "booking_created",
		Message:   stored.Pickup + " -> " + stored.Dropoff,
		BookingID: stored.ID,
		Additional: map[string]any{
			"rider_id":      stored.RiderID,
			"vehicle_class": string(stored.VehicleClass),
			"fare":          stored.Fare,
		},
	})

	// Закоммиченная мутация уходит в поток изменений и в RabbitMQ.
	// Бронирование уже сохранено, поэтому ошибки доставки не возвращаем.
	s.changes.BookingChanged(out.ChangeInsert, stored)

	eventData := out.BookingEventData{
		BookingID:   stored.ID,
		RiderID:     stored.RiderID,
		Status:      stored.Status,
		RequestedBy: stored.RiderID,
		Additional: map[string]any{
			"pickup":        stored.Pickup,
			"dropoff":       stored.Dropoff,
			"vehicle_class": string(stored.VehicleClass),
			"fare":          stored.Fare,
		},
	}
	if err := s.publisher.PublishBookingEvent(ctx, domain.EventBookingRequested, eventData); err != nil {
		s.log.Error(logger.Entry{
			Action:    "publish_booking_event_failed",
			Message:   err.Error(),
			BookingID: stored.ID,
			Error:     &logger.ErrObj{Msg: err.Error()},
		})
	}

	return stored, nil
}

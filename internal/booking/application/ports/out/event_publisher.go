package out

import (
	"context"

	"github.com/explorer2005/skycab-booking-system/internal/booking/domain"
)

// BookingEventData — данные события бронирования
type BookingEventData struct {
	BookingID   string         `json:"booking_id"`
	RiderID     string         `json:"rider_id"`
	Status      domain.Status  `json:"status"`
	RequestedBy string         `json:"requested_by,omitempty"`
	Additional  map[string]any `json:"additional,omitempty"`
}

// EventPublisher — интерфейс для публикации событий в RabbitMQ.
// Вызывается ровно один раз на закоммиченную запись.
type EventPublisher interface {
	PublishBookingEvent(ctx context.Context, eventType string, data BookingEventData) error
}

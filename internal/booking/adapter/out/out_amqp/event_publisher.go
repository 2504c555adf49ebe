package out_amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/explorer2005/skycab-booking-system/internal/booking/application/ports/out"
	"github.com/explorer2005/skycab-booking-system/internal/booking/domain"
	"github.com/explorer2005/skycab-booking-system/internal/shared/logger"
	"github.com/explorer2005/skycab-booking-system/internal/shared/mq"
)

// EventPublisher публикует события жизненного цикла бронирования в RabbitMQ
type EventPublisher struct {
	rabbitmq *mq.RabbitMQ
	log      *logger.Logger
}

// NewEventPublisher создает новый издатель событий
func NewEventPublisher(rabbitmq *mq.RabbitMQ, log *logger.Logger) *EventPublisher {
	return &EventPublisher{
		rabbitmq: rabbitmq,
		log:      log,
	}
}

// BookingEventMessage — структура сообщения о событии бронирования
type BookingEventMessage struct {
	EventType   string         `json:"event_type"`
	BookingID   string         `json:"booking_id"`
	RiderID     string         `json:"rider_id"`
	Status      string         `json:"status"`
	RequestedBy string         `json:"requested_by,omitempty"`
	Timestamp   time.Time      `json:"timestamp"`
	Additional  map[string]any `json:"additional,omitempty"`
}

// PublishBookingEvent публикует событие в topic exchange.
// Routing key соответствует имени очереди для данного статуса.
func (p *EventPublisher) PublishBookingEvent(ctx context.Context, eventType string, data out.BookingEventData) error {
	routingKey, err := routingKeyForStatus(data.Status)
	if err != nil {
		return err
	}

	message := BookingEventMessage{
		EventType:   eventType,
		BookingID:   data.BookingID,
		RiderID:     data.RiderID,
		Status:      string(data.Status),
		RequestedBy: data.RequestedBy,
		Timestamp:   time.Now().UTC(),
		Additional:  data.Additional,
	}

	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshal booking event: %w", err)
	}

	if err := p.rabbitmq.Publish(ctx, mq.ExchangeBookingTopic, routingKey, body); err != nil {
		p.log.Error(logger.Entry{
			Action:    "publish_booking_event_failed",
			Message:   err.Error(),
			BookingID: data.BookingID,
			Error:     &logger.ErrObj{Msg: err.Error()},
		})
		return fmt.Errorf("publish booking event: %w", err)
	}

	p.log.Debug(logger.Entry{
		Action:    "booking_event_published",
		Message:   fmt.Sprintf("event %s -> %s", eventType, routingKey),
		BookingID: data.BookingID,
	})

	return nil
}

func routingKeyForStatus(status domain.Status) (string, error) {
	switch status {
	case domain.StatusRequested:
		return mq.QueueBookingRequested, nil
	case domain.StatusAccepted:
		return mq.QueueBookingAccepted, nil
	case domain.StatusInTransit:
		return mq.QueueBookingInTransit, nil
	case domain.StatusCompleted:
		return mq.QueueBookingCompleted, nil
	case domain.StatusCancelled:
		return mq.QueueBookingCancelled, nil
	default:
		return "", fmt.Errorf("%w: no routing key for status %q", domain.ErrInvalidStatus, status)
	}
}

package mq

import (
	"fmt"

	"github.com/explorer2005/skycab-booking-system/internal/shared/logger"
)

const (
	// ExchangeBookingTopic — topic exchange для событий жизненного цикла бронирований
	ExchangeBookingTopic = "booking_topic"

	// ExchangeFleetFanout — fanout exchange для позиций флота (симулятор → все сервисы)
	ExchangeFleetFanout = "fleet_fanout"
)

// Очереди booking_topic, по одной на статус. Routing key совпадает с именем очереди.
const (
	QueueBookingRequested = "booking.requested"
	QueueBookingAccepted  = "booking.accepted"
	QueueBookingInTransit = "booking.in_transit"
	QueueBookingCompleted = "booking.completed"
	QueueBookingCancelled = "booking.cancelled"
)

// SetupTopology создает exchanges, queues и bindings
func SetupTopology(mq *RabbitMQ, log *logger.Logger) error {
	ch := mq.Channel()
	if ch == nil {
		return fmt.Errorf("rabbitmq channel not available")
	}

	// 1. Exchange: booking_topic (topic)
	if err := ch.ExchangeDeclare(
		ExchangeBookingTopic,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,   // args
	); err != nil {
		return fmt.Errorf("declare booking_topic: %w", err)
	}

	// 2. Exchange: fleet_fanout (fanout)
	if err := ch.ExchangeDeclare(
		ExchangeFleetFanout,
		"fanout",
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("declare fleet_fanout: %w", err)
	}

	// 3. Очереди для booking_topic, по одной на статус
	bookingQueues := []string{
		QueueBookingRequested,
		QueueBookingAccepted,
		QueueBookingInTransit,
		QueueBookingCompleted,
		QueueBookingCancelled,
	}
	for _, q := range bookingQueues {
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare queue %s: %w", q, err)
		}
		// routing key совпадает с именем очереди
		if err := ch.QueueBind(q, q, ExchangeBookingTopic, false, nil); err != nil {
			return fmt.Errorf("bind queue %s: %w", q, err)
		}
	}

	// 4. Для fleet_fanout каждый потребитель объявляет свою auto-delete очередь
	// при подписке, здесь очереди не создаются.

	log.Info(logger.Entry{
		Action:  "topology_setup_complete",
		Message: "all exchanges and queues created",
	})

	return nil
}

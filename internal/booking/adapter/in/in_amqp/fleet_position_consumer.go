package in_amqp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/explorer2005/skycab-booking-system/internal/shared/fanout"
	"github.com/explorer2005/skycab-booking-system/internal/shared/logger"
	"github.com/explorer2005/skycab-booking-system/internal/shared/mq"

	amqp "github.com/rabbitmq/amqp091-go"
)

// VehiclePositionMessage — сообщение о позиции аппарата из fleet_fanout
type VehiclePositionMessage struct {
	VehicleID    string  `json:"vehicle_id"`
	Name         string  `json:"name"`
	VehicleClass string  `json:"vehicle_class"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	Status       string  `json:"status"`
	UpdatedAt    string  `json:"updated_at"`
}

// FleetPositionConsumer читает позиции флота из fleet_fanout и транслирует их
// в локальный реестр подписок, чтобы сессии пассажиров видели аппараты вживую
type FleetPositionConsumer struct {
	mqConn   *mq.RabbitMQ
	registry *fanout.Registry
	log      *logger.Logger
}

// NewFleetPositionConsumer создает новый consumer позиций флота
func NewFleetPositionConsumer(mqConn *mq.RabbitMQ, registry *fanout.Registry, log *logger.Logger) *FleetPositionConsumer {
	return &FleetPositionConsumer{
		mqConn:   mqConn,
		registry: registry,
		log:      log,
	}
}

// Start подключает временную очередь к fleet_fanout и запускает обработку
func (c *FleetPositionConsumer) Start(ctx context.Context) error {
	ch := c.mqConn.Channel()
	if ch == nil {
		return fmt.Errorf("failed to get RabbitMQ channel")
	}

	// Объявляем временную очередь для этого сервиса
	queue, err := ch.QueueDeclare(
		"booking_service_fleet_positions", // name
		false,                             // durable
		true,                              // auto-delete
		false,                             // exclusive
		false,                             // no-wait
		nil,                               // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	// Привязываем очередь к fleet_fanout exchange
	err = ch.QueueBind(
		queue.Name,             // queue name
		"",                     // routing key (игнорируется для fanout)
		mq.ExchangeFleetFanout, // exchange
		false,                  // no-wait
		nil,                    // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	c.log.Info(logger.Entry{
		Action:  "fleet_position_consumer_started",
		Message: fmt.Sprintf("listening on %s (queue: %s)", mq.ExchangeFleetFanout, queue.Name),
	})

	return c.mqConn.Consume(ctx, queue.Name, "booking-service", func(msg amqp.Delivery) {
		if err := c.handlePosition(msg); err != nil {
			c.log.Error(logger.Entry{
				Action:  "handle_fleet_position_failed",
				Message: err.Error(),
				Error:   &logger.ErrObj{Msg: err.Error()},
			})
			_ = msg.Nack(false, false)
			return
		}
		_ = msg.Ack(false)
	})
}

// handlePosition разбирает сообщение и публикует его в реестр подписок
func (c *FleetPositionConsumer) handlePosition(msg amqp.Delivery) error {
	var position VehiclePositionMessage
	if err := json.Unmarshal(msg.Body, &position); err != nil {
		return fmt.Errorf("parse fleet position: %w", err)
	}

	c.registry.Publish(fanout.TopicVehicles, fanout.KindUpdate, &position)

	c.log.Debug(logger.Entry{
		Action:    "fleet_position_received",
		Message:   fmt.Sprintf("vehicle=%s lat=%f lng=%f", position.VehicleID, position.Lat, position.Lng),
		VehicleID: position.VehicleID,
	})

	return nil
}

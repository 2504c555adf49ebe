package out_amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/explorer2005/skycab-booking-system/internal/fleet/domain"
	"github.com/explorer2005/skycab-booking-system/internal/shared/logger"
	"github.com/explorer2005/skycab-booking-system/internal/shared/mq"
)

// PositionPublisher транслирует позиции флота в fleet_fanout exchange
type PositionPublisher struct {
	rabbitmq *mq.RabbitMQ
	log      *logger.Logger
}

// NewPositionPublisher создает новый издатель позиций
func NewPositionPublisher(rabbitmq *mq.RabbitMQ, log *logger.Logger) *PositionPublisher {
	return &PositionPublisher{
		rabbitmq: rabbitmq,
		log:      log,
	}
}

// VehiclePositionMessage — сообщение о позиции аппарата.
// Формат общий для всех потребителей fleet_fanout.
type VehiclePositionMessage struct {
	VehicleID    string  `json:"vehicle_id"`
	Name         string  `json:"name"`
	VehicleClass string  `json:"vehicle_class"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	Status       string  `json:"status"`
	UpdatedAt    string  `json:"updated_at"`
}

// PublishPosition публикует позицию аппарата.
// Routing key для fanout exchange игнорируется.
func (p *PositionPublisher) PublishPosition(ctx context.Context, vehicle *domain.Vehicle) error {
	message := VehiclePositionMessage{
		VehicleID:    vehicle.ID,
		Name:         vehicle.Name,
		VehicleClass: string(vehicle.Class),
		Lat:          vehicle.Lat,
		Lng:          vehicle.Lng,
		Status:       string(vehicle.Status),
		UpdatedAt:    vehicle.UpdatedAt.UTC().Format(time.RFC3339),
	}

	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshal vehicle position: %w", err)
	}

	if err := p.rabbitmq.Publish(ctx, mq.ExchangeFleetFanout, "", body); err != nil {
		return fmt.Errorf("publish vehicle position: %w", err)
	}

	return nil
}

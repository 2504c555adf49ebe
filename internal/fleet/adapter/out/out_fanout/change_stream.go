package out_fanout

import (
	"github.com/explorer2005/skycab-booking-system/internal/fleet/domain"
	"github.com/explorer2005/skycab-booking-system/internal/shared/fanout"
)

// ChangeStream публикует изменения флота во внутрипроцессный реестр подписок
type ChangeStream struct {
	registry *fanout.Registry
}

// NewChangeStream создает адаптер поверх реестра
func NewChangeStream(registry *fanout.Registry) *ChangeStream {
	return &ChangeStream{registry: registry}
}

// VehicleChanged транслирует изменение всем подписчикам темы vehicles
func (s *ChangeStream) VehicleChanged(vehicle *domain.Vehicle) {
	s.registry.Publish(fanout.TopicVehicles, fanout.KindUpdate, vehicle)
}

package out_fanout

import (
	"github.com/explorer2005/skycab-booking-system/internal/booking/application/ports/out"
	"github.com/explorer2005/skycab-booking-system/internal/booking/domain"
	"github.com/explorer2005/skycab-booking-system/internal/shared/fanout"
)

// ChangeStream публикует изменения бронирований во внутрипроцессный реестр подписок
type ChangeStream struct {
	registry *fanout.Registry
}

// NewChangeStream создает адаптер поверх реестра
func NewChangeStream(registry *fanout.Registry) *ChangeStream {
	return &ChangeStream{registry: registry}
}

// BookingChanged транслирует изменение всем подписчикам темы bookings
func (s *ChangeStream) BookingChanged(change out.ChangeKind, booking *domain.Booking) {
	kind := fanout.KindInsert
	if change == out.ChangeUpdate {
		kind = fanout.KindUpdate
	}

	s.registry.Publish(fanout.TopicBookings, kind, booking)
}

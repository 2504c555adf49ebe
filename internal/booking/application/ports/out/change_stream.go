package out

import (
	"github.com/explorer2005/skycab-booking-system/internal/booking/domain"
)

// ChangeKind — вид мутации для потока изменений
type ChangeKind string

const (
	ChangeInsert ChangeKind = "insert"
	ChangeUpdate ChangeKind = "update"
)

// ChangeStream — интерфейс потока изменений для сессий просмотрщиков.
// Доставка асинхронная: медленный подписчик не задерживает писателя,
// ошибка доставки никогда не возвращается в use case.
type ChangeStream interface {
	BookingChanged(kind ChangeKind, booking *domain.Booking)
}

package domain

// Типы событий жизненного цикла, публикуемых в RabbitMQ
const (
	EventBookingRequested = "BOOKING_REQUESTED"
	EventBookingAccepted  = "BOOKING_ACCEPTED"
	EventBookingInTransit = "BOOKING_IN_TRANSIT"
	EventBookingCompleted = "BOOKING_COMPLETED"
	EventBookingCancelled = "BOOKING_CANCELLED"
)

// EventTypeForStatus возвращает тип события для достигнутого статуса
func EventTypeForStatus(s Status) string {
	switch s {
	case StatusRequested:
		return EventBookingRequested
	case StatusAccepted:
		return EventBookingAccepted
	case StatusInTransit:
		return EventBookingInTransit
	case StatusCompleted:
		return EventBookingCompleted
	case StatusCancelled:
		return EventBookingCancelled
	default:
		return "BOOKING_STATUS_CHANGED"
	}
}

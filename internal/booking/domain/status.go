package domain

// Status — статус бронирования
type Status string

const (
	StatusRequested Status = "requested"
	StatusAccepted  Status = "accepted"
	StatusInTransit Status = "in_transit"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// transitions — таблица допустимых переходов (текущий → следующие).
// completed и cancelled терминальны: исходящих переходов нет.
// Текущий статус не входит в собственный набор, поэтому повтор
// того же статуса тоже отклоняется.
var transitions = map[Status][]Status{
	StatusRequested: {StatusAccepted, StatusCancelled},
	StatusAccepted:  {StatusInTransit, StatusCancelled},
	StatusInTransit: {StatusCompleted},
	StatusCompleted: {},
	StatusCancelled: {},
}

// Valid проверяет, что статус входит в закрытый набор
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Terminal сообщает, является ли статус терминальным
func (s Status) Terminal() bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

// CanTransitionTo проверяет достижимость next из s за один шаг
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AllowedNext возвращает копию набора допустимых следующих статусов
func (s Status) AllowedNext() []Status {
	next := transitions[s]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

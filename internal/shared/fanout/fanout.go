// ============================================================================
// CHANGE FAN-OUT - Реестр подписок на изменения записей
// ============================================================================
//
// Каждая закоммиченная мутация (бронирование или позиция аппарата) публикуется
// сюда один раз и доставляется каждой живой подписке, чей предикат совпал с
// записью. Подписка — это просто канал: никакой истории, никакого replay.
// Новый подписчик сам делает полное начальное чтение из хранилища.
//
// ГАРАНТИИ:
// - ровно одна доставка на совпавшую подписку за publish;
// - publish никогда не блокируется: переполненный буфер подписчика означает
//   потерю события только для этого подписчика (с логом);
// - после Unsubscribe событие не может попасть в чужую подписку.
//
// ============================================================================

package fanout

import (
	"sync"

	"github.com/explorer2005/skycab-booking-system/internal/shared/logger"

	"github.com/google/uuid"
)

// Topic — таблица, изменения которой транслируются
type Topic string

const (
	TopicBookings Topic = "bookings"
	TopicVehicles Topic = "vehicles"
)

// Kind — вид мутации
type Kind string

const (
	KindInsert Kind = "insert"
	KindUpdate Kind = "update"
)

// Event — одно закоммиченное изменение записи
type Event struct {
	Topic  Topic `json:"topic"`
	Kind   Kind  `json:"kind"`
	Record any   `json:"record"`
}

// Predicate решает, видит ли подписчик запись.
// Примеры: "record.riderId == sessionRiderId" (личный кабинет),
// всегда true (админка, панель отслеживания).
type Predicate func(Event) bool

// All пропускает каждое событие топика
func All(Event) bool { return true }

// subscriberBuffer — емкость канала подписки. Медленный просмотрщик
// начинает терять события, а не тормозить писателя.
const subscriberBuffer = 256

// Subscription — регистрация интереса одной сессии просмотрщика.
// Живет от подключения до отключения сессии.
type Subscription struct {
	ID    string
	Topic Topic

	pred Predicate
	ch   chan Event
}

// Events возвращает канал доставки. Канал закрывается при Unsubscribe.
func (s *Subscription) Events() <-chan Event {
	return s.ch
}

// Registry управляет всеми активными подписками.
// Один экземпляр на процесс, создается явно в composition root.
type Registry struct {
	mu   sync.RWMutex
	subs map[string]*Subscription
	log  *logger.Logger
}

// NewRegistry создает новый реестр подписок
func NewRegistry(log *logger.Logger) *Registry {
	return &Registry{
		subs: make(map[string]*Subscription),
		log:  log,
	}
}

// Subscribe регистрирует интерес к топику, отфильтрованный предикатом.
// nil-предикат эквивалентен All.
func (r *Registry) Subscribe(topic Topic, pred Predicate) *Subscription {
	if pred == nil {
		pred = All
	}

	sub := &Subscription{
		ID:    uuid.New().String(),
		Topic: topic,
		pred:  pred,
		ch:    make(chan Event, subscriberBuffer),
	}

	r.mu.Lock()
	r.subs[sub.ID] = sub
	r.mu.Unlock()

	r.log.Debug(logger.Entry{
		Action:  "fanout_subscribed",
		Message: sub.ID,
		Additional: map[string]any{
			"topic": string(topic),
		},
	})

	return sub
}

// Unsubscribe снимает регистрацию и закрывает канал подписки.
// Повторный вызов безопасен.
func (r *Registry) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}

	r.mu.Lock()
	if _, ok := r.subs[sub.ID]; ok {
		delete(r.subs, sub.ID)
		close(sub.ch)
	}
	r.mu.Unlock()

	r.log.Debug(logger.Entry{
		Action:  "fanout_unsubscribed",
		Message: sub.ID,
	})
}

// Publish доставляет событие каждой совпавшей подписке, не блокируя писателя.
// Вызывается один раз на закоммиченную запись.
func (r *Registry) Publish(topic Topic, kind Kind, record any) {
	e := Event{Topic: topic, Kind: kind, Record: record}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, sub := range r.subs {
		if sub.Topic != topic {
			continue
		}
		if !sub.pred(e) {
			continue
		}
		select {
		case sub.ch <- e:
		default:
			// Буфер полон: событие теряется только для этого подписчика
			r.log.Warn(logger.Entry{
				Action:  "fanout_delivery_dropped",
				Message: sub.ID,
				Additional: map[string]any{
					"topic": string(topic),
					"kind":  string(kind),
				},
			})
		}
	}
}

// SubscriberCount возвращает число живых подписок топика
func (r *Registry) SubscriberCount(topic Topic) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, sub := range r.subs {
		if sub.Topic == topic {
			n++
		}
	}
	return n
}

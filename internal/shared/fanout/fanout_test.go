package fanout

import (
	"testing"
	"time"

	"github.com/explorer2005/skycab-booking-system/internal/shared/logger"
)

type bookingRecord struct {
	ID      string
	RiderID string
}

func newTestRegistry() *Registry {
	return NewRegistry(logger.NewLogger("test"))
}

func riderPredicate(riderID string) Predicate {
	return func(e Event) bool {
		b, ok := e.Record.(bookingRecord)
		return ok && b.RiderID == riderID
	}
}

func drain(t *testing.T, sub *Subscription) []Event {
	t.Helper()
	var events []Event
	for {
		select {
		case e, ok := <-sub.Events():
			if !ok {
				return events
			}
			events = append(events, e)
		case <-time.After(50 * time.Millisecond):
			return events
		}
	}
}

func TestPublishDeliversByPredicate(t *testing.T) {
	r := newTestRegistry()

	subA := r.Subscribe(TopicBookings, riderPredicate("u1")) // личный кабинет u1
	subB := r.Subscribe(TopicBookings, All)                  // админ-консоль

	r.Publish(TopicBookings, KindInsert, bookingRecord{ID: "bk-1", RiderID: "u1"})

	gotA := drain(t, subA)
	gotB := drain(t, subB)
	if len(gotA) != 1 {
		t.Errorf("subscriber A received %d events, want 1", len(gotA))
	}
	if len(gotB) != 1 {
		t.Errorf("subscriber B received %d events, want 1", len(gotB))
	}

	// Чужая запись видна только админу
	r.Publish(TopicBookings, KindInsert, bookingRecord{ID: "bk-2", RiderID: "u2"})

	if got := drain(t, subA); len(got) != 0 {
		t.Errorf("subscriber A received %d events for foreign record, want 0", len(got))
	}
	if got := drain(t, subB); len(got) != 1 {
		t.Errorf("subscriber B received %d events, want 1", len(got))
	}
}

func TestPublishSkipsOtherTopics(t *testing.T) {
	r := newTestRegistry()

	bookings := r.Subscribe(TopicBookings, nil)
	vehicles := r.Subscribe(TopicVehicles, nil)

	r.Publish(TopicVehicles, KindUpdate, bookingRecord{ID: "v-1"})

	if got := drain(t, bookings); len(got) != 0 {
		t.Errorf("bookings subscriber received %d vehicle events, want 0", len(got))
	}
	if got := drain(t, vehicles); len(got) != 1 {
		t.Errorf("vehicles subscriber received %d events, want 1", len(got))
	}
}

func TestNilPredicateMatchesAll(t *testing.T) {
	r := newTestRegistry()
	sub := r.Subscribe(TopicBookings, nil)

	r.Publish(TopicBookings, KindInsert, bookingRecord{ID: "bk-1", RiderID: "anyone"})

	if got := drain(t, sub); len(got) != 1 {
		t.Errorf("received %d events, want 1", len(got))
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	r := newTestRegistry()
	sub := r.Subscribe(TopicBookings, nil)

	r.Unsubscribe(sub)

	if n := r.SubscriberCount(TopicBookings); n != 0 {
		t.Errorf("SubscriberCount = %d after unsubscribe, want 0", n)
	}

	// Канал закрыт, publish не паникует и никуда не доставляет
	r.Publish(TopicBookings, KindInsert, bookingRecord{ID: "bk-1"})

	if _, ok := <-sub.Events(); ok {
		t.Error("subscription channel still open after unsubscribe")
	}

	// Повторный Unsubscribe безопасен
	r.Unsubscribe(sub)
}

func TestPublishDoesNotBlockOnFullSubscriber(t *testing.T) {
	r := newTestRegistry()
	slow := r.Subscribe(TopicBookings, nil)

	// Переполняем буфер медленного подписчика и публикуем сверх него
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < subscriberBuffer+10; i++ {
			r.Publish(TopicBookings, KindInsert, bookingRecord{ID: "bk"})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on full subscriber buffer")
	}

	// Подписчик получил ровно столько, сколько влезло в буфер
	if got := drain(t, slow); len(got) != subscriberBuffer {
		t.Errorf("slow subscriber received %d events, want %d", len(got), subscriberBuffer)
	}
}

func TestSubscriberCount(t *testing.T) {
	r := newTestRegistry()

	a := r.Subscribe(TopicBookings, nil)
	b := r.Subscribe(TopicBookings, nil)
	v := r.Subscribe(TopicVehicles, nil)

	if n := r.SubscriberCount(TopicBookings); n != 2 {
		t.Errorf("SubscriberCount(bookings) = %d, want 2", n)
	}
	if n := r.SubscriberCount(TopicVehicles); n != 1 {
		t.Errorf("SubscriberCount(vehicles) = %d, want 1", n)
	}

	r.Unsubscribe(a)
	r.Unsubscribe(b)
	r.Unsubscribe(v)

	if n := r.SubscriberCount(TopicBookings); n != 0 {
		t.Errorf("SubscriberCount(bookings) = %d after teardown, want 0", n)
	}
}

package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/explorer2005/skycab-booking-system/internal/booking/application/ports/in"
	"github.com/explorer2005/skycab-booking-system/internal/booking/domain"
)

func seedBooking(repo *fakeBookingRepo, riderID string, status domain.Status) *domain.Booking {
	stored, _ := repo.Create(context.Background(), &domain.Booking{
		RiderID:      riderID,
		Pickup:       "SkyPort Central",
		Dropoff:      "Harbor Heliport",
		VehicleClass: domain.ClassDroneTaxi,
		Fare:         25,
		Status:       status,
	})
	return stored
}

func TestTransitionBookingRejectsInvalidPairs(t *testing.T) {
	tests := []struct {
		name      string
		current   domain.Status
		requested string
		wantErr   error
	}{
		{"completed to accepted", domain.StatusCompleted, "accepted", domain.ErrInvalidTransition},
		{"requested to requested", domain.StatusRequested, "requested", domain.ErrInvalidTransition},
		{"requested to completed", domain.StatusRequested, "completed", domain.ErrInvalidTransition},
		{"cancelled to in_transit", domain.StatusCancelled, "in_transit", domain.ErrInvalidTransition},
		{"in_transit to cancelled", domain.StatusInTransit, "cancelled", domain.ErrInvalidTransition},
		{"unknown status", domain.StatusRequested, "finished", domain.ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeBookingRepo()
			pub := &fakePublisher{}
			changes := &fakeChangeStream{}
			svc := NewTransitionBookingService(repo, pub, changes, testLogger())

			booking := seedBooking(repo, "u1", tt.current)

			_, err := svc.Execute(context.Background(), in.TransitionBookingInput{
				BookingID:   booking.ID,
				RequestedBy: "u1",
				NewStatus:   tt.requested,
			})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Execute() error = %v, want %v", err, tt.wantErr)
			}

			// Статус в хранилище не изменился
			got, _ := repo.FindByID(context.Background(), booking.ID)
			if got.Status != tt.current {
				t.Errorf("status after rejected transition = %s, want %s", got.Status, tt.current)
			}
			if len(pub.events) != 0 || len(changes.updates) != 0 {
				t.Error("events emitted for rejected transition")
			}
		})
	}
}

func TestTransitionBookingNotFound(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := NewTransitionBookingService(repo, &fakePublisher{}, &fakeChangeStream{}, testLogger())

	_, err := svc.Execute(context.Background(), in.TransitionBookingInput{
		BookingID:   "bk-missing",
		RequestedBy: "u1",
		NewStatus:   "accepted",
	})
	if !errors.Is(err, domain.ErrBookingNotFound) {
		t.Fatalf("Execute() error = %v, want ErrBookingNotFound", err)
	}
}

func TestTransitionBookingLostRace(t *testing.T) {
	repo := newFakeBookingRepo()
	pub := &fakePublisher{}
	changes := &fakeChangeStream{}
	svc := NewTransitionBookingService(repo, pub, changes, testLogger())

	booking := seedBooking(repo, "u1", domain.StatusRequested)

	// Конкурент успел перевести статус между чтением и условным обновлением
	repo.updateErr = domain.ErrInvalidTransition

	_, err := svc.Execute(context.Background(), in.TransitionBookingInput{
		BookingID:   booking.ID,
		RequestedBy: "u1",
		NewStatus:   "accepted",
	})
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("Execute() error = %v, want ErrInvalidTransition", err)
	}
	if len(pub.events) != 0 || len(changes.updates) != 0 {
		t.Error("events emitted for lost race")
	}
}

func TestTransitionBookingEmitsExactlyOneEvent(t *testing.T) {
	repo := newFakeBookingRepo()
	pub := &fakePublisher{}
	changes := &fakeChangeStream{}
	svc := NewTransitionBookingService(repo, pub, changes, testLogger())

	booking := seedBooking(repo, "u1", domain.StatusRequested)

	updated, err := svc.Execute(context.Background(), in.TransitionBookingInput{
		BookingID:   booking.ID,
		RequestedBy: "dispatcher-1",
		NewStatus:   "accepted",
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if updated.Status != domain.StatusAccepted {
		t.Errorf("status = %s, want accepted", updated.Status)
	}
	if len(changes.updates) != 1 {
		t.Errorf("change stream updates = %d, want 1", len(changes.updates))
	}
	if len(pub.events) != 1 || pub.events[0] != domain.EventBookingAccepted {
		t.Errorf("published events = %v, want [%s]", pub.events, domain.EventBookingAccepted)
	}
}

func TestBookingLifecycleEndToEnd(t *testing.T) {
	repo := newFakeBookingRepo()
	pub := &fakePublisher{}
	changes := &fakeChangeStream{}

	createSvc := NewCreateBookingService(repo, pub, changes, testLogger())
	transitionSvc := NewTransitionBookingService(repo, pub, changes, testLogger())

	booking, err := createSvc.Execute(context.Background(), in.CreateBookingInput{
		RiderID:      "u1",
		Pickup:       "SkyPort Central",
		Dropoff:      "Harbor Heliport",
		VehicleClass: "vtol",
		Fare:         80,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	steps := []struct {
		newStatus string
		want      domain.Status
	}{
		{"accepted", domain.StatusAccepted},
		{"in_transit", domain.StatusInTransit},
		{"completed", domain.StatusCompleted},
	}

	for _, step := range steps {
		updated, err := transitionSvc.Execute(context.Background(), in.TransitionBookingInput{
			BookingID:   booking.ID,
			RequestedBy: "dispatcher-1",
			NewStatus:   step.newStatus,
		})
		if err != nil {
			t.Fatalf("transition to %s: %v", step.newStatus, err)
		}
		if updated.Status != step.want {
			t.Fatalf("status = %s, want %s", updated.Status, step.want)
		}

		persisted, _ := repo.FindByID(context.Background(), booking.ID)
		if persisted.Status != step.want {
			t.Fatalf("persisted status = %s, want %s", persisted.Status, step.want)
		}
	}

	// Одно событие создания + по одному на каждый переход
	wantEvents := []string{
		domain.EventBookingRequested,
		domain.EventBookingAccepted,
		domain.EventBookingInTransit,
		domain.EventBookingCompleted,
	}
	if len(pub.events) != len(wantEvents) {
		t.Fatalf("published %d events, want %d: %v", len(pub.events), len(wantEvents), pub.events)
	}
	for i, want := range wantEvents {
		if pub.events[i] != want {
			t.Errorf("event[%d] = %s, want %s", i, pub.events[i], want)
		}
	}
	if len(changes.inserts) != 1 || len(changes.updates) != 3 {
		t.Errorf("change stream: %d inserts %d updates, want 1 and 3", len(changes.inserts), len(changes.updates))
	}
}

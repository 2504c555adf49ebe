package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/explorer2005/skycab-booking-system/internal/booking/application/ports/in"
	"github.com/explorer2005/skycab-booking-system/internal/booking/application/ports/out"
	"github.com/explorer2005/skycab-booking-system/internal/booking/domain"
	"github.com/explorer2005/skycab-booking-system/internal/shared/logger"
)

// ----------------------------------------------------------------------------
// Фейки портов
// ----------------------------------------------------------------------------

type fakeBookingRepo struct {
	bookings map[string]*domain.Booking
	nextID   int

	createErr error
	findErr   error
	updateErr error
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[string]*domain.Booking)}
}

func (r *fakeBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.nextID++
	stored := *booking
	stored.ID = fmt.Sprintf("bk-%d", r.nextID)
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.bookings[stored.ID] = &stored
	return &stored, nil
}

func (r *fakeBookingRepo) FindByID(_ context.Context, bookingID string) (*domain.Booking, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	b, ok := r.bookings[bookingID]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeBookingRepo) UpdateStatus(_ context.Context, bookingID string, from, to domain.Status) (*domain.Booking, error) {
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	b, ok := r.bookings[bookingID]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	if b.Status != from {
		return nil, fmt.Errorf("%w: concurrent update from %s", domain.ErrInvalidTransition, from)
	}
	b.Status = to
	b.UpdatedAt = time.Now()
	copied := *b
	return &copied, nil
}

func (r *fakeBookingRepo) ListByRider(_ context.Context, riderID string) ([]*domain.Booking, error) {
	var result []*domain.Booking
	for _, b := range r.bookings {
		if b.RiderID == riderID {
			copied := *b
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *fakeBookingRepo) ListAll(_ context.Context) ([]*domain.Booking, error) {
	var result []*domain.Booking
	for _, b := range r.bookings {
		copied := *b
		result = append(result, &copied)
	}
	return result, nil
}

type fakePublisher struct {
	events []string
	err    error
}

func (p *fakePublisher) PublishBookingEvent(_ context.Context, eventType string, _ out.BookingEventData) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, eventType)
	return nil
}

type fakeChangeStream struct {
	inserts []*domain.Booking
	updates []*domain.Booking
}

func (s *fakeChangeStream) BookingChanged(kind out.ChangeKind, booking *domain.Booking) {
	if kind == out.ChangeInsert {
		s.inserts = append(s.inserts, booking)
		return
	}
	s.updates = append(s.updates, booking)
}

func testLogger() *logger.Logger {
	return logger.NewLogger("test")
}

// ----------------------------------------------------------------------------
// Тесты создания бронирования
// ----------------------------------------------------------------------------

func TestCreateBookingValidation(t *testing.T) {
	tests := []struct {
		name    string
		input   in.CreateBookingInput
		wantErr error
	}{
		{
			name:    "empty pickup",
			input:   in.CreateBookingInput{RiderID: "u1", Pickup: "  ", Dropoff: "Harbor", VehicleClass: "drone_taxi", Fare: 10},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "empty dropoff",
			input:   in.CreateBookingInput{RiderID: "u1", Pickup: "Central", Dropoff: "", VehicleClass: "drone_taxi", Fare: 10},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "zero fare",
			input:   in.CreateBookingInput{RiderID: "u1", Pickup: "Central", Dropoff: "Harbor", VehicleClass: "drone_taxi", Fare: 0},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "negative fare",
			input:   in.CreateBookingInput{RiderID: "u1", Pickup: "Central", Dropoff: "Harbor", VehicleClass: "drone_taxi", Fare: -5},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "NaN fare",
			input:   in.CreateBookingInput{RiderID: "u1", Pickup: "Central", Dropoff: "Harbor", VehicleClass: "drone_taxi", Fare: math.NaN()},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "unknown vehicle class",
			input:   in.CreateBookingInput{RiderID: "u1", Pickup: "Central", Dropoff: "Harbor", VehicleClass: "submarine", Fare: 10},
			wantErr: domain.ErrInvalidVehicleClass,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeBookingRepo()
			pub := &fakePublisher{}
			changes := &fakeChangeStream{}
			svc := NewCreateBookingService(repo, pub, changes, testLogger())

			_, err := svc.Execute(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Execute() error = %v, want %v", err, tt.wantErr)
			}
			if len(repo.bookings) != 0 {
				t.Errorf("booking persisted despite validation error")
			}
			if len(pub.events) != 0 || len(changes.inserts) != 0 {
				t.Errorf("events emitted despite validation error")
			}
		})
	}
}

func TestCreateBookingSuccess(t *testing.T) {
	repo := newFakeBookingRepo()
	pub := &fakePublisher{}
	changes := &fakeChangeStream{}
	svc := NewCreateBookingService(repo, pub, changes, testLogger())

	input := in.CreateBookingInput{
		RiderID:      "u1",
		Pickup:       "SkyPort Central",
		Dropoff:      "Harbor Heliport",
		VehicleClass: "air_taxi",
		Fare:         37.5,
	}

	booking, err := svc.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if booking.ID == "" {
		t.Error("stored booking has no id")
	}
	if booking.Status != domain.StatusRequested {
		t.Errorf("new booking status = %s, want %s", booking.Status, domain.StatusRequested)
	}
	if booking.Fare != 37.5 {
		t.Errorf("fare = %f, want 37.5", booking.Fare)
	}
	if booking.CreatedAt.IsZero() {
		t.Error("stored booking has no created_at")
	}

	if len(changes.inserts) != 1 {
		t.Errorf("change stream inserts = %d, want 1", len(changes.inserts))
	}
	if len(pub.events) != 1 || pub.events[0] != domain.EventBookingRequested {
		t.Errorf("published events = %v, want [%s]", pub.events, domain.EventBookingRequested)
	}
}

func TestCreateBookingStoreFailure(t *testing.T) {
	repo := newFakeBookingRepo()
	repo.createErr = domain.ErrStoreUnavailable
	pub := &fakePublisher{}
	changes := &fakeChangeStream{}
	svc := NewCreateBookingService(repo, pub, changes, testLogger())

	_, err := svc.Execute(context.Background(), in.CreateBookingInput{
		RiderID: "u1", Pickup: "A", Dropoff: "B", VehicleClass: "vtol", Fare: 12,
	})
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("Execute() error = %v, want ErrStoreUnavailable", err)
	}
	if len(pub.events) != 0 || len(changes.inserts) != 0 {
		t.Error("events emitted for failed create")
	}
}

func TestCreateBookingPublishFailureDoesNotFailCreate(t *testing.T) {
	repo := newFakeBookingRepo()
	pub := &fakePublisher{err: errors.New("broker down")}
	changes := &fakeChangeStream{}
	svc := NewCreateBookingService(repo, pub, changes, testLogger())

	booking, err := svc.Execute(context.Background(), in.CreateBookingInput{
		RiderID: "u1", Pickup: "A", Dropoff: "B", VehicleClass: "drone_taxi", Fare: 9.99,
	})
	if err != nil {
		t.Fatalf("Execute() error = %v, broker failure must not fail create", err)
	}
	if booking.Status != domain.StatusRequested {
		t.Errorf("status = %s, want requested", booking.Status)
	}
	// Локальный fan-out все равно получил событие
	if len(changes.inserts) != 1 {
		t.Errorf("change stream inserts = %d, want 1", len(changes.inserts))
	}
}

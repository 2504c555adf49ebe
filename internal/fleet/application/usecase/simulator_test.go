package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/explorer2005/skycab-booking-system/internal/fleet/domain"
	"github.com/explorer2005/skycab-booking-system/internal/shared/logger"
)

// ----------------------------------------------------------------------------
// Фейки портов
// ----------------------------------------------------------------------------

type fakeVehicleRepo struct {
	vehicles map[string]*domain.Vehicle
	order    []string

	listErr error
	// аппараты, чья запись позиции всегда отказывает
	failUpdates map[string]bool
}

func newFakeVehicleRepo() *fakeVehicleRepo {
	return &fakeVehicleRepo{
		vehicles:    make(map[string]*domain.Vehicle),
		failUpdates: make(map[string]bool),
	}
}

func (r *fakeVehicleRepo) add(id string, lat, lng float64) {
	r.vehicles[id] = &domain.Vehicle{
		ID:     id,
		Name:   "SkyCab-" + id,
		Class:  domain.ClassDroneTaxi,
		Lat:    lat,
		Lng:    lng,
		Status: domain.StatusAvailable,
	}
	r.order = append(r.order, id)
}

func (r *fakeVehicleRepo) ListAll(_ context.Context) ([]*domain.Vehicle, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var result []*domain.Vehicle
	for _, id := range r.order {
		copied := *r.vehicles[id]
		result = append(result, &copied)
	}
	return result, nil
}

func (r *fakeVehicleRepo) FindByID(_ context.Context, vehicleID string) (*domain.Vehicle, error) {
	v, ok := r.vehicles[vehicleID]
	if !ok {
		return nil, domain.ErrVehicleNotFound
	}
	copied := *v
	return &copied, nil
}

func (r *fakeVehicleRepo) UpdatePosition(_ context.Context, vehicleID string, lat, lng float64) (*domain.Vehicle, error) {
	if r.failUpdates[vehicleID] {
		return nil, fmt.Errorf("update vehicle position: %w", domain.ErrStoreUnavailable)
	}
	v, ok := r.vehicles[vehicleID]
	if !ok {
		return nil, domain.ErrVehicleNotFound
	}
	v.Lat = lat
	v.Lng = lng
	v.UpdatedAt = time.Now()
	copied := *v
	return &copied, nil
}

func (r *fakeVehicleRepo) UpdateStatus(_ context.Context, vehicleID string, status domain.VehicleStatus) (*domain.Vehicle, error) {
	v, ok := r.vehicles[vehicleID]
	if !ok {
		return nil, domain.ErrVehicleNotFound
	}
	v.Status = status
	copied := *v
	return &copied, nil
}

type fakePositionPublisher struct {
	published []string
	err       error
}

func (p *fakePositionPublisher) PublishPosition(_ context.Context, v *domain.Vehicle) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, v.ID)
	return nil
}

type fakeVehicleChanges struct {
	changed []*domain.Vehicle
}

func (s *fakeVehicleChanges) VehicleChanged(v *domain.Vehicle) {
	s.changed = append(s.changed, v)
}

type fakeSnapshotCache struct {
	fleet       []*domain.Vehicle
	invalidated int
}

func (c *fakeSnapshotCache) GetFleet(_ context.Context) ([]*domain.Vehicle, error) {
	return c.fleet, nil
}

func (c *fakeSnapshotCache) SetFleet(_ context.Context, vehicles []*domain.Vehicle) error {
	c.fleet = vehicles
	return nil
}

func (c *fakeSnapshotCache) Invalidate(_ context.Context) error {
	c.fleet = nil
	c.invalidated++
	return nil
}

const testMaxDelta = 0.00075

func newTestSimulator(repo *fakeVehicleRepo, pub *fakePositionPublisher, changes *fakeVehicleChanges, cache *fakeSnapshotCache) *Simulator {
	return NewSimulator(repo, pub, changes, cache, time.Second, testMaxDelta, logger.NewLogger("test"))
}

// ----------------------------------------------------------------------------
// Тесты
// ----------------------------------------------------------------------------

func TestTickPerturbationWithinBounds(t *testing.T) {
	repo := newFakeVehicleRepo()
	repo.add("v1", 55.7558, 37.6173)
	repo.add("v2", 40.7128, -74.0060)
	repo.add("v3", -33.8688, 151.2093)

	before := make(map[string][2]float64)
	for id, v := range repo.vehicles {
		before[id] = [2]float64{v.Lat, v.Lng}
	}

	sim := newTestSimulator(repo, &fakePositionPublisher{}, &fakeVehicleChanges{}, &fakeSnapshotCache{})
	sim.Tick(context.Background())

	for id, v := range repo.vehicles {
		dLat := math.Abs(v.Lat - before[id][0])
		dLng := math.Abs(v.Lng - before[id][1])
		if dLat > testMaxDelta {
			t.Errorf("vehicle %s: |dLat| = %g exceeds %g", id, dLat, testMaxDelta)
		}
		if dLng > testMaxDelta {
			t.Errorf("vehicle %s: |dLng| = %g exceeds %g", id, dLng, testMaxDelta)
		}
	}
}

func TestTickPartialFailureIsolation(t *testing.T) {
	repo := newFakeVehicleRepo()
	repo.add("v1", 10, 10)
	repo.add("v2", 20, 20)
	repo.add("v3", 30, 30)
	repo.failUpdates["v2"] = true

	sim := newTestSimulator(repo, &fakePositionPublisher{}, &fakeVehicleChanges{}, &fakeSnapshotCache{})

	// Несколько тиков подряд: v2 отказывает каждый раз
	const ticks = 5
	prev := map[string][2]float64{
		"v1": {10, 10},
		"v3": {30, 30},
	}

	for i := 0; i < ticks; i++ {
		sim.Tick(context.Background())

		for _, id := range []string{"v1", "v3"} {
			v := repo.vehicles[id]
			if v.Lat == prev[id][0] && v.Lng == prev[id][1] {
				t.Fatalf("tick %d: vehicle %s did not advance despite v2 failing", i+1, id)
			}
			prev[id] = [2]float64{v.Lat, v.Lng}
		}
	}

	// Отказавший аппарат остался на месте
	if v2 := repo.vehicles["v2"]; v2.Lat != 20 || v2.Lng != 20 {
		t.Errorf("failing vehicle moved: lat=%f lng=%f", v2.Lat, v2.Lng)
	}
}

func TestTickRefreshesWorkingSet(t *testing.T) {
	repo := newFakeVehicleRepo()
	repo.add("v1", 10, 10)

	changes := &fakeVehicleChanges{}
	sim := newTestSimulator(repo, &fakePositionPublisher{}, changes, &fakeSnapshotCache{})

	sim.Tick(context.Background())
	if len(changes.changed) != 1 {
		t.Fatalf("first tick moved %d vehicles, want 1", len(changes.changed))
	}

	// Аппарат добавлен извне между тиками
	repo.add("v2", 50, 50)

	sim.Tick(context.Background())
	if len(changes.changed) != 3 {
		t.Fatalf("second tick: %d total changes, want 3 (working set must be re-read)", len(changes.changed))
	}

	if v2 := repo.vehicles["v2"]; v2.Lat == 50 && v2.Lng == 50 {
		t.Error("externally added vehicle was not advanced")
	}
}

func TestTickListFailureRetriedNextTick(t *testing.T) {
	repo := newFakeVehicleRepo()
	repo.add("v1", 10, 10)

	pub := &fakePositionPublisher{}
	sim := newTestSimulator(repo, pub, &fakeVehicleChanges{}, &fakeSnapshotCache{})

	// Первый тик: чтение списка отказывает, никто не двигается
	repo.listErr = errors.New("connection refused")
	sim.Tick(context.Background())

	if len(pub.published) != 0 {
		t.Fatalf("published %d positions during list failure, want 0", len(pub.published))
	}
	if v := repo.vehicles["v1"]; v.Lat != 10 || v.Lng != 10 {
		t.Fatal("vehicle moved during list failure")
	}

	// Хранилище восстановилось: следующий тик работает
	repo.listErr = nil
	sim.Tick(context.Background())

	if len(pub.published) != 1 {
		t.Fatalf("published %d positions after recovery, want 1", len(pub.published))
	}
}

func TestTickPublishFailureDoesNotStopPersistence(t *testing.T) {
	repo := newFakeVehicleRepo()
	repo.add("v1", 10, 10)
	repo.add("v2", 20, 20)

	pub := &fakePositionPublisher{err: errors.New("broker down")}
	changes := &fakeVehicleChanges{}
	sim := newTestSimulator(repo, pub, changes, &fakeSnapshotCache{})

	sim.Tick(context.Background())

	// Позиции записаны и локальный fan-out получил события
	if len(changes.changed) != 2 {
		t.Errorf("local change stream got %d events, want 2", len(changes.changed))
	}
	if v := repo.vehicles["v1"]; v.Lat == 10 && v.Lng == 10 {
		t.Error("vehicle not persisted when broker publish fails")
	}
}

func TestTickInvalidatesCache(t *testing.T) {
	repo := newFakeVehicleRepo()
	repo.add("v1", 10, 10)

	cache := &fakeSnapshotCache{}
	sim := newTestSimulator(repo, &fakePositionPublisher{}, &fakeVehicleChanges{}, cache)

	sim.Tick(context.Background())
	sim.Tick(context.Background())

	if cache.invalidated != 2 {
		t.Errorf("cache invalidated %d times, want 2", cache.invalidated)
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	repo := newFakeVehicleRepo()
	sim := NewSimulator(repo, &fakePositionPublisher{}, &fakeVehicleChanges{}, &fakeSnapshotCache{},
		10*time.Millisecond, testMaxDelta, logger.NewLogger("test"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sim.Run(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after context cancel")
	}
}

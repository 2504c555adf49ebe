package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/explorer2005/skycab-booking-system/internal/fleet/application/ports/in"
	"github.com/explorer2005/skycab-booking-system/internal/fleet/domain"
	"github.com/explorer2005/skycab-booking-system/internal/shared/logger"
)

func TestUpdateVehicleStatus(t *testing.T) {
	tests := []struct {
		name      string
		vehicleID string
		newStatus string
		wantErr   error
		want      domain.VehicleStatus
	}{
		{"to maintenance", "v1", "maintenance", nil, domain.StatusMaintenance},
		{"to occupied", "v1", "occupied", nil, domain.StatusOccupied},
		{"back to available", "v1", "available", nil, domain.StatusAvailable},
		{"unknown status", "v1", "grounded", domain.ErrInvalidVehicleStatus, ""},
		{"uppercase rejected", "v1", "AVAILABLE", domain.ErrInvalidVehicleStatus, ""},
		{"missing vehicle", "v-missing", "maintenance", domain.ErrVehicleNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeVehicleRepo()
			repo.add("v1", 10, 10)
			changes := &fakeVehicleChanges{}
			cache := &fakeSnapshotCache{}
			svc := NewUpdateVehicleStatusService(repo, changes, cache, logger.NewLogger("test"))

			updated, err := svc.Execute(context.Background(), in.UpdateVehicleStatusInput{
				VehicleID:   tt.vehicleID,
				RequestedBy: "admin-1",
				NewStatus:   tt.newStatus,
			})

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Execute() error = %v, want %v", err, tt.wantErr)
				}
				if len(changes.changed) != 0 {
					t.Error("change emitted for failed status update")
				}
				return
			}

			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if updated.Status != tt.want {
				t.Errorf("status = %s, want %s", updated.Status, tt.want)
			}
			if len(changes.changed) != 1 {
				t.Errorf("change stream got %d events, want 1", len(changes.changed))
			}
			if cache.invalidated != 1 {
				t.Errorf("cache invalidated %d times, want 1", cache.invalidated)
			}
		})
	}
}

func TestListVehiclesCacheReadThrough(t *testing.T) {
	repo := newFakeVehicleRepo()
	repo.add("v1", 10, 10)
	repo.add("v2", 20, 20)

	cache := &fakeSnapshotCache{}
	svc := NewListVehiclesService(repo, cache, logger.NewLogger("test"))

	// Промах: читаем БД и наполняем кэш
	vehicles, err := svc.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(vehicles) != 2 {
		t.Fatalf("ListAll() = %d vehicles, want 2", len(vehicles))
	}
	if len(cache.fleet) != 2 {
		t.Fatalf("cache holds %d vehicles after miss, want 2", len(cache.fleet))
	}

	// Попадание: БД больше не нужна
	repo.listErr = errors.New("db down")
	vehicles, err = svc.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll() from cache error = %v", err)
	}
	if len(vehicles) != 2 {
		t.Errorf("ListAll() from cache = %d vehicles, want 2", len(vehicles))
	}
}

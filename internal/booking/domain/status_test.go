package domain

import "testing"

func TestStatusValid(t *testing.T) {
	valid := []Status{StatusRequested, StatusAccepted, StatusInTransit, StatusCompleted, StatusCancelled}
	for _, s := range valid {
		if !s.Valid() {
			t.Errorf("Status(%q).Valid() = false, want true", s)
		}
	}

	invalid := []Status{"", "REQUESTED", "pending", "done"}
	for _, s := range invalid {
		if s.Valid() {
			t.Errorf("Status(%q).Valid() = true, want false", s)
		}
	}
}

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		from Status
		to   Status
		want bool
	}{
		// requested
		{StatusRequested, StatusAccepted, true},
		{StatusRequested, StatusCancelled, true},
		{StatusRequested, StatusInTransit, false},
		{StatusRequested, StatusCompleted, false},
		{StatusRequested, StatusRequested, false}, // переход в себя запрещен

		// accepted
		{StatusAccepted, StatusInTransit, true},
		{StatusAccepted, StatusCancelled, true},
		{StatusAccepted, StatusRequested, false},
		{StatusAccepted, StatusCompleted, false},
		{StatusAccepted, StatusAccepted, false},

		// in_transit
		{StatusInTransit, StatusCompleted, true},
		{StatusInTransit, StatusCancelled, false},
		{StatusInTransit, StatusAccepted, false},
		{StatusInTransit, StatusRequested, false},
		{StatusInTransit, StatusInTransit, false},

		// терминальные статусы никуда не переходят
		{StatusCompleted, StatusRequested, false},
		{StatusCompleted, StatusAccepted, false},
		{StatusCompleted, StatusInTransit, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusCompleted, false},
		{StatusCancelled, StatusRequested, false},
		{StatusCancelled, StatusAccepted, false},
		{StatusCancelled, StatusInTransit, false},
		{StatusCancelled, StatusCompleted, false},
		{StatusCancelled, StatusCancelled, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestTerminal(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusRequested, false},
		{StatusAccepted, false},
		{StatusInTransit, false},
		{StatusCompleted, true},
		{StatusCancelled, true},
	}

	for _, tt := range tests {
		if got := tt.status.Terminal(); got != tt.want {
			t.Errorf("Terminal(%s) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestAllowedNext(t *testing.T) {
	if next := StatusRequested.AllowedNext(); len(next) != 2 {
		t.Errorf("AllowedNext(requested) = %v, want two statuses", next)
	}
	if next := StatusCompleted.AllowedNext(); len(next) != 0 {
		t.Errorf("AllowedNext(completed) = %v, want empty", next)
	}
}

func TestVehicleClassValid(t *testing.T) {
	for _, c := range []VehicleClass{ClassDroneTaxi, ClassAirTaxi, ClassVTOL} {
		if !c.Valid() {
			t.Errorf("VehicleClass(%q).Valid() = false, want true", c)
		}
	}
	for _, c := range []VehicleClass{"", "helicopter", "DRONE_TAXI"} {
		if c.Valid() {
			t.Errorf("VehicleClass(%q).Valid() = true, want false", c)
		}
	}
}

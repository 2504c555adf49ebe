package in

import "context"

// SystemMetrics — сводные показатели системы
type SystemMetrics struct {
	BookingsByStatus map[string]int `json:"bookings_by_status"`
	VehiclesByStatus map[string]int `json:"vehicles_by_status"`
	TotalBookings    int            `json:"total_bookings"`
	TotalVehicles    int            `json:"total_vehicles"`
	CompletedFare    float64        `json:"completed_fare"`
}

// GetOverviewOutput — обзор системы для админ-консоли
type GetOverviewOutput struct {
	Timestamp string        `json:"timestamp"`
	Metrics   SystemMetrics `json:"metrics"`
}

// GetOverviewUseCase — входящий порт обзора системы
type GetOverviewUseCase interface {
	Execute(ctx context.Context) (*GetOverviewOutput, error)
}

package repo

import (
	"context"
	"fmt"

	"github.com/explorer2005/skycab-booking-system/internal/admin/application/ports/in"
	"github.com/explorer2005/skycab-booking-system/internal/shared/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// MetricsPgRepository читает сводные показатели из PostgreSQL
type MetricsPgRepository struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

// NewMetricsPgRepository создает новый экземпляр репозитория
func NewMetricsPgRepository(pool *pgxpool.Pool, log *logger.Logger) *MetricsPgRepository {
	return &MetricsPgRepository{
		pool: pool,
		log:  log,
	}
}

// GetSystemMetrics собирает показатели бронирований и флота
func (r *MetricsPgRepository) GetSystemMetrics(ctx context.Context) (*in.SystemMetrics, error) {
	metrics := &in.SystemMetrics{
		BookingsByStatus: make(map[string]int),
		VehiclesByStatus: make(map[string]int),
	}

	// Бронирования по статусам
	rows, err := r.pool.Query(ctx, `SELECT status, count(*) FROM bookings GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("query booking counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan booking count: %w", err)
		}
		metrics.BookingsByStatus[status] = count
		metrics.TotalBookings += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booking counts: %w", err)
	}

	// Флот по статусам
	rows, err = r.pool.Query(ctx, `SELECT status, count(*) FROM vehicles GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("query vehicle counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan vehicle count: %w", err)
		}
		metrics.VehiclesByStatus[status] = count
		metrics.TotalVehicles += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vehicle counts: %w", err)
	}

	// Суммарная выручка завершенных бронирований
	err = r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(fare), 0) FROM bookings WHERE status = 'completed'`,
	).Scan(&metrics.CompletedFare)
	if err != nil {
		return nil, fmt.Errorf("query completed fare: %w", err)
	}

	return metrics, nil
}

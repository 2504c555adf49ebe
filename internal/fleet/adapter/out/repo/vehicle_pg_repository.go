package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/explorer2005/skycab-booking-system/internal/fleet/domain"
	"github.com/explorer2005/skycab-booking-system/internal/shared/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// VehiclePgRepository — PostgreSQL репозиторий флота
type VehiclePgRepository struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

// NewVehiclePgRepository создает новый экземпляр репозитория
func NewVehiclePgRepository(pool *pgxpool.Pool, log *logger.Logger) *VehiclePgRepository {
	return &VehiclePgRepository{
		pool: pool,
		log:  log,
	}
}

const vehicleColumns = `id, name, vehicle_class, lat, lng, status, created_at, updated_at`

func scanVehicle(row pgx.Row) (*domain.Vehicle, error) {
	v := &domain.Vehicle{}
	err := row.Scan(
		&v.ID,
		&v.Name,
		&v.Class,
		&v.Lat,
		&v.Lng,
		&v.Status,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// ListAll возвращает все аппараты, отсортированные по имени
func (r *VehiclePgRepository) ListAll(ctx context.Context) ([]*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.log.Error(logger.Entry{
			Action:  "db_list_vehicles_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		return nil, fmt.Errorf("query vehicles: %w", domain.ErrStoreUnavailable)
	}
	defer rows.Close()

	var vehicles []*domain.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vehicle: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vehicles: %w", domain.ErrStoreUnavailable)
	}

	return vehicles, nil
}

// FindByID возвращает аппарат по ID
func (r *VehiclePgRepository) FindByID(ctx context.Context, vehicleID string) (*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1`

	vehicle, err := scanVehicle(r.pool.QueryRow(ctx, query, vehicleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVehicleNotFound
		}
		r.log.Error(logger.Entry{
			Action:    "db_find_vehicle_failed",
			Message:   err.Error(),
			VehicleID: vehicleID,
			Error:     &logger.ErrObj{Msg: err.Error()},
		})
		return nil, fmt.Errorf("query vehicle by id: %w", domain.ErrStoreUnavailable)
	}

	return vehicle, nil
}

// UpdatePosition сохраняет новые координаты аппарата
func (r *VehiclePgRepository) UpdatePosition(ctx context.Context, vehicleID string, lat, lng float64) (*domain.Vehicle, error) {
	if !domain.ValidCoordinates(lat, lng) {
		return nil, fmt.Errorf("%w: lat=%f lng=%f", domain.ErrInvalidCoordinates, lat, lng)
	}

	query := `
		UPDATE vehicles
		SET lat = $2, lng = $3, updated_at = now()
		WHERE id = $1
		RETURNING ` + vehicleColumns

	updated, err := scanVehicle(r.pool.QueryRow(ctx, query, vehicleID, lat, lng))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVehicleNotFound
		}
		return nil, fmt.Errorf("update vehicle position: %w", domain.ErrStoreUnavailable)
	}

	return updated, nil
}

// UpdateStatus сохраняет новый операционный статус аппарата
func (r *VehiclePgRepository) UpdateStatus(ctx context.Context, vehicleID string, status domain.VehicleStatus) (*domain.Vehicle, error) {
	query := `
		UPDATE vehicles
		SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + vehicleColumns

	updated, err := scanVehicle(r.pool.QueryRow(ctx, query, vehicleID, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVehicleNotFound
		}
		r.log.Error(logger.Entry{
			Action:    "db_update_vehicle_status_failed",
			Message:   err.Error(),
			VehicleID: vehicleID,
			Error:     &logger.ErrObj{Msg: err.Error()},
		})
		return nil, fmt.Errorf("update vehicle status: %w", domain.ErrStoreUnavailable)
	}

	return updated, nil
}

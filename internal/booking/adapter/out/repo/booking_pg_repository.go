package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/explorer2005/skycab-booking-system/internal/booking/domain"
	"github.com/explorer2005/skycab-booking-system/internal/shared/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BookingPgRepository — PostgreSQL репозиторий бронирований
type BookingPgRepository struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

// NewBookingPgRepository создает новый экземпляр репозитория
func NewBookingPgRepository(pool *pgxpool.Pool, log *logger.Logger) *BookingPgRepository {
	return &BookingPgRepository{
		pool: pool,
		log:  log,
	}
}

const bookingColumns = `id, rider_id, pickup, dropoff, vehicle_class, fare, status, created_at, updated_at`

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	b := &domain.Booking{}
	err := row.Scan(
		&b.ID,
		&b.RiderID,
		&b.Pickup,
		&b.Dropoff,
		&b.VehicleClass,
		&b.Fare,
		&b.Status,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Create вставляет бронирование; id и created_at генерирует БД
func (r *BookingPgRepository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	query := `
		INSERT INTO bookings (rider_id, pickup, dropoff, vehicle_class, fare, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + bookingColumns

	stored, err := scanBooking(r.pool.QueryRow(ctx, query,
		booking.RiderID,
		booking.Pickup,
		booking.Dropoff,
		booking.VehicleClass,
		booking.Fare,
		booking.Status,
	))
	if err != nil {
		r.log.Error(logger.Entry{
			Action:  "db_create_booking_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		return nil, fmt.Errorf("insert booking: %w", domain.ErrStoreUnavailable)
	}

	return stored, nil
}

// FindByID возвращает бронирование по ID
func (r *BookingPgRepository) FindByID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.pool.QueryRow(ctx, query, bookingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		r.log.Error(logger.Entry{
			Action:    "db_find_booking_failed",
			Message:   err.Error(),
			BookingID: bookingID,
			Error:     &logger.ErrObj{Msg: err.Error()},
		})
		return nil, fmt.Errorf("query booking by id: %w", domain.ErrStoreUnavailable)
	}

	return booking, nil
}

// UpdateStatus выполняет условный переход статуса одним запросом.
// WHERE по (id, from) делает обновление атомарным read-modify-write:
// конкурентный переход, изменивший статус первым, оставляет ноль строк.
func (r *BookingPgRepository) UpdateStatus(ctx context.Context, bookingID string, from, to domain.Status) (*domain.Booking, error) {
	query := `
		UPDATE bookings
		SET status = $3, updated_at = now()
		WHERE id = $1 AND status = $2
		RETURNING ` + bookingColumns

	updated, err := scanBooking(r.pool.QueryRow(ctx, query, bookingID, from, to))
	if err == nil {
		return updated, nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		r.log.Error(logger.Entry{
			Action:    "db_update_booking_status_failed",
			Message:   err.Error(),
			BookingID: bookingID,
			Error:     &logger.ErrObj{Msg: err.Error()},
		})
		return nil, fmt.Errorf("update booking status: %w", domain.ErrStoreUnavailable)
	}

	// Ноль строк: либо записи нет, либо статус уже не from.
	// Перечитываем, чтобы различить эти случаи.
	if _, findErr := r.FindByID(ctx, bookingID); findErr != nil {
		return nil, findErr
	}
	return nil, fmt.Errorf("%w: concurrent update from %s", domain.ErrInvalidTransition, from)
}

// ListByRider возвращает бронирования пассажира, новые первыми
func (r *BookingPgRepository) ListByRider(ctx context.Context, riderID string) ([]*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE rider_id = $1 ORDER BY created_at DESC`
	return r.queryBookings(ctx, query, riderID)
}

// ListAll возвращает все бронирования, новые первыми
func (r *BookingPgRepository) ListAll(ctx context.Context) ([]*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY created_at DESC`
	return r.queryBookings(ctx, query)
}

func (r *BookingPgRepository) queryBookings(ctx context.Context, query string, args ...any) ([]*domain.Booking, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.log.Error(logger.Entry{
			Action:  "db_list_bookings_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		return nil, fmt.Errorf("query bookings: %w", domain.ErrStoreUnavailable)
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", domain.ErrStoreUnavailable)
	}

	return bookings, nil
}

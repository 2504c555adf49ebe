package usecase

import (
	"context"

	"github.com/explorer2005/skycab-booking-system/internal/fleet/application/ports/out"
	"github.com/explorer2005/skycab-booking-system/internal/fleet/domain"
	"github.com/explorer2005/skycab-booking-system/internal/shared/logger"
)

// ListVehiclesService реализует чтение флота с кэшем поверх БД
type ListVehiclesService struct {
	vehicleRepo out.VehicleRepository
	cache       out.SnapshotCache
	log         *logger.Logger
}

// NewListVehiclesService создает новый сервис
func NewListVehiclesService(vehicleRepo out.VehicleRepository, cache out.SnapshotCache, log *logger.Logger) *ListVehiclesService {
	return &ListVehiclesService{
		vehicleRepo: vehicleRepo,
		cache:       cache,
		log:         log,
	}
}

// ListAll возвращает все аппараты, отсортированные по имени.
// Сначала пробуем кэш, при промахе или отказе читаем БД и наполняем кэш.
func (s *ListVehiclesService) ListAll(ctx context.Context) ([]*domain.Vehicle, error) {
	cached, err := s.cache.GetFleet(ctx)
	if err != nil {
		// Отказ кэша не роняет чтение, идем в БД
		s.log.Warn(logger.Entry{
			Action:  "fleet_cache_read_failed",
			Message: err.Error(),
		})
	} else if cached != nil {
		return cached, nil
	}

	vehicles, err := s.vehicleRepo.ListAll(ctx)
	if err != nil {
		s.log.Error(logger.Entry{
			Action:  "list_vehicles_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		return nil, err
	}

	if err := s.cache.SetFleet(ctx, vehicles); err != nil {
		s.log.Warn(logger.Entry{
			Action:  "fleet_cache_write_failed",
			Message: err.Error(),
		})
	}

	return vehicles, nil
}

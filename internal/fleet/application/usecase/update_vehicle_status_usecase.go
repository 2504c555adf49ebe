package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/explorer2005/skycab-booking-system/internal/fleet/application/ports/in"
	"github.com/explorer2005/skycab-booking-system/internal/fleet/application/ports/out"
	"github.com/explorer2005/skycab-booking-system/internal/fleet/domain"
	"github.com/explorer2005/skycab-booking-system/internal/shared/logger"
)

// UpdateVehicleStatusService реализует смену операционного статуса аппарата.
// Статус пишется поверх текущего без условного обновления: позиции и статусы
// флота живут по принципу last-write-wins, гонка с тиком симулятора допустима.
type UpdateVehicleStatusService struct {
	vehicleRepo out.VehicleRepository
	changes     out.ChangeStream
	cache       out.SnapshotCache
	log         *logger.Logger
}

// NewUpdateVehicleStatusService создает новый сервис
func NewUpdateVehicleStatusService(
	vehicleRepo out.VehicleRepository,
	changes out.ChangeStream,
	cache out.SnapshotCache,
	log *logger.Logger,
) *UpdateVehicleStatusService {
	return &UpdateVehicleStatusService{
		vehicleRepo: vehicleRepo,
		changes:     changes,
		cache:       cache,
		log:         log,
	}
}

// Execute меняет статус аппарата
func (s *UpdateVehicleStatusService) Execute(ctx context.Context, input in.UpdateVehicleStatusInput) (*domain.Vehicle, error) {
	newStatus := domain.VehicleStatus(input.NewStatus)
	if !newStatus.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidVehicleStatus, input.NewStatus)
	}

	updated, err := s.vehicleRepo.UpdateStatus(ctx, input.VehicleID, newStatus)
	if err != nil {
		if errors.Is(err, domain.ErrVehicleNotFound) {
			return nil, err
		}
		s.log.Error(logger.Entry{
			Action:    "update_vehicle_status_failed",
			Message:   err.Error(),
			VehicleID: input.VehicleID,
			Error:     &logger.ErrObj{Msg: err.Error()},
		})
		return nil, err
	}

	s.log.Info(logger.Entry{
		Action:    "vehicle_status_updated",
		Message:   fmt.Sprintf("status -> %s", newStatus),
		VehicleID: updated.ID,
		Additional: map[string]any{
			"requested_by": input.RequestedBy,
			"status":       string(newStatus),
		},
	})

	s.changes.VehicleChanged(updated)

	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn(logger.Entry{
			Action:  "vehicle_cache_invalidate_failed",
			Message: err.Error(),
		})
	}

	return updated, nil
}

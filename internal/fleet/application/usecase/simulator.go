// ============================================================================
// FLEET POSITION SIMULATOR
// ============================================================================
//
// Симулятор двигает каждый аппарат флота на небольшое случайное смещение
// с фиксированным периодом, независимо от того, смотрит ли кто-нибудь.
//
// ВАЖНЫЕ СВОЙСТВА:
// - рабочий набор перечитывается из хранилища КАЖДЫЙ тик, а не один раз
//   при старте: аппараты, добавленные или передвинутые извне, подхватываются;
// - отказ записи одного аппарата не прерывает тик для остальных;
// - отказ чтения списка логируется, следующая попытка — на следующем тике
//   (никаких горячих ретраев против деградировавшего хранилища);
// - симулятор ничего не возвращает вызывающему: у него нет вызывающего.
//
// ============================================================================

package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/explorer2005/skycab-booking-system/internal/fleet/application/ports/out"
	"github.com/explorer2005/skycab-booking-system/internal/fleet/domain"
	"github.com/explorer2005/skycab-booking-system/internal/shared/logger"
)

// Simulator продвигает позиции флота по таймеру
type Simulator struct {
	vehicleRepo out.VehicleRepository
	publisher   out.PositionPublisher
	changes     out.ChangeStream
	cache       out.SnapshotCache
	log         *logger.Logger

	tick     time.Duration
	maxDelta float64
	rng      *rand.Rand
}

// NewSimulator создает новый симулятор.
// tick — период обновления, maxDelta — максимальное смещение по каждой оси
// в градусах за один тик.
func NewSimulator(
	vehicleRepo out.VehicleRepository,
	publisher out.PositionPublisher,
	changes out.ChangeStream,
	cache out.SnapshotCache,
	tick time.Duration,
	maxDelta float64,
	log *logger.Logger,
) *Simulator {
	return &Simulator{
		vehicleRepo: vehicleRepo,
		publisher:   publisher,
		changes:     changes,
		cache:       cache,
		log:         log,
		tick:        tick,
		maxDelta:    maxDelta,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run запускает цикл тиков до отмены контекста
func (s *Simulator) Run(ctx context.Context) {
	s.log.Info(logger.Entry{
		Action:  "simulator_started",
		Message: fmt.Sprintf("tick=%s max_delta=%f", s.tick, s.maxDelta),
	})

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info(logger.Entry{Action: "simulator_stopped", Message: "context cancelled"})
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick выполняет один цикл обновления позиций.
// Рабочий набор перечитывается из хранилища на каждом вызове.
func (s *Simulator) Tick(ctx context.Context) {
	vehicles, err := s.vehicleRepo.ListAll(ctx)
	if err != nil {
		// Следующая попытка на следующем тике
		s.log.Error(logger.Entry{
			Action:  "simulator_list_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		return
	}

	moved := 0
	for _, v := range vehicles {
		if err := s.moveVehicle(ctx, v); err != nil {
			// Отказ одного аппарата не прерывает тик для остальных
			s.log.Error(logger.Entry{
				Action:    "simulator_move_failed",
				Message:   err.Error(),
				VehicleID: v.ID,
				Error:     &logger.ErrObj{Msg: err.Error()},
			})
			continue
		}
		moved++
	}

	s.log.Debug(logger.Entry{
		Action:  "simulator_tick_complete",
		Message: fmt.Sprintf("moved %d of %d vehicles", moved, len(vehicles)),
	})

	// Снимок флота кэшируется после тика; отказ кэша не фатален
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn(logger.Entry{
			Action:  "simulator_cache_invalidate_failed",
			Message: err.Error(),
		})
	}
}

// moveVehicle сдвигает один аппарат и публикует результат
func (s *Simulator) moveVehicle(ctx context.Context, v *domain.Vehicle) error {
	newLat := domain.ClampLat(v.Lat + s.offset())
	newLng := domain.ClampLng(v.Lng + s.offset())

	updated, err := s.vehicleRepo.UpdatePosition(ctx, v.ID, newLat, newLng)
	if err != nil {
		return fmt.Errorf("persist position: %w", err)
	}

	// Локальный fan-out для сессий этого процесса
	s.changes.VehicleChanged(updated)

	// Трансляция другим сервисам через fleet_fanout
	if err := s.publisher.PublishPosition(ctx, updated); err != nil {
		// Позиция уже записана, потеря трансляции не критична
		s.log.Warn(logger.Entry{
			Action:    "simulator_publish_failed",
			Message:   err.Error(),
			VehicleID: v.ID,
		})
	}

	return nil
}

// offset возвращает равномерное смещение из [-maxDelta, maxDelta]
func (s *Simulator) offset() float64 {
	return (s.rng.Float64() - 0.5) * 2 * s.maxDelta
}

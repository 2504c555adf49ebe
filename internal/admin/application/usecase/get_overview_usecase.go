package usecase

import (
	"context"
	"time"

	"github.com/explorer2005/skycab-booking-system/internal/admin/application/ports/in"
	"github.com/explorer2005/skycab-booking-system/internal/admin/application/ports/out"
	"github.com/explorer2005/skycab-booking-system/internal/shared/logger"
)

// GetOverviewService реализует GetOverviewUseCase
type GetOverviewService struct {
	metricsRepo out.MetricsRepository
	log         *logger.Logger
}

// NewGetOverviewService создает новый сервис обзора системы
func NewGetOverviewService(metricsRepo out.MetricsRepository, log *logger.Logger) *GetOverviewService {
	return &GetOverviewService{
		metricsRepo: metricsRepo,
		log:         log,
	}
}

// Execute выполняет получение обзора системы
func (s *GetOverviewService) Execute(ctx context.Context) (*in.GetOverviewOutput, error) {
	metrics, err := s.metricsRepo.GetSystemMetrics(ctx)
	if err != nil {
		s.log.Error(logger.Entry{
			Action:  "get_system_metrics_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		return nil, err
	}

	return &in.GetOverviewOutput{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Metrics:   *metrics,
	}, nil
}

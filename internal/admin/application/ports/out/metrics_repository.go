package out

import (
	"context"

	"github.com/explorer2005/skycab-booking-system/internal/admin/application/ports/in"
)

// MetricsRepository — исходящий порт чтения сводных показателей
type MetricsRepository interface {
	GetSystemMetrics(ctx context.Context) (*in.SystemMetrics, error)
}

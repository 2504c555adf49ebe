package out

import (
	"github.com/explorer2005/skycab-booking-system/internal/fleet/domain"
)

// ChangeStream — исходящий порт внутрипроцессных уведомлений об изменениях.
// Вызывается после коммита, синхронно и без возврата ошибки.
type ChangeStream interface {
	VehicleChanged(vehicle *domain.Vehicle)
}

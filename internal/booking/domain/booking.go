package domain

import "time"

// Booking представляет основную сущность бронирования полета.
// id и created_at назначаются хранилищем и неизменяемы; rider_id и fare
// фиксируются при создании; status меняется только по таблице переходов.
type Booking struct {
	ID           string       `json:"id" db:"id"`
	RiderID      string       `json:"rider_id" db:"rider_id"`
	Pickup       string       `json:"pickup" db:"pickup"`
	Dropoff      string       `json:"dropoff" db:"dropoff"`
	VehicleClass VehicleClass `json:"vehicle_class" db:"vehicle_class"`
	Fare         float64      `json:"fare" db:"fare"`
	Status       Status       `json:"status" db:"status"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
}

// VehicleClass — класс летательного аппарата, запрошенный пассажиром
type VehicleClass string

const (
	ClassDroneTaxi VehicleClass = "drone_taxi"
	ClassAirTaxi   VehicleClass = "air_taxi"
	ClassVTOL      VehicleClass = "vtol"
)

// Valid проверяет, что класс входит в закрытый набор
func (c VehicleClass) Valid() bool {
	switch c {
	case ClassDroneTaxi, ClassAirTaxi, ClassVTOL:
		return true
	default:
		return false
	}
}

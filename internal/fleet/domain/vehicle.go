package domain

import "time"

// VehicleClass — класс летательного аппарата
type VehicleClass string

const (
	ClassDroneTaxi VehicleClass = "drone_taxi"
	ClassAirTaxi   VehicleClass = "air_taxi"
	ClassVTOL      VehicleClass = "vtol"
)

// Valid проверяет, что класс аппарата известен системе
func (c VehicleClass) Valid() bool {
	switch c {
	case ClassDroneTaxi, ClassAirTaxi, ClassVTOL:
		return true
	}
	return false
}

// VehicleStatus — операционный статус аппарата
type VehicleStatus string

const (
	StatusAvailable   VehicleStatus = "available"
	StatusOccupied    VehicleStatus = "occupied"
	StatusMaintenance VehicleStatus = "maintenance"
)

// Valid проверяет, что статус известен системе
func (s VehicleStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusOccupied, StatusMaintenance:
		return true
	}
	return false
}

// Vehicle представляет летательный аппарат флота
type Vehicle struct {
	ID        string        `json:"id" db:"id"`
	Name      string        `json:"name" db:"name"`
	Class     VehicleClass  `json:"vehicle_class" db:"vehicle_class"`
	Lat       float64       `json:"lat" db:"lat"`
	Lng       float64       `json:"lng" db:"lng"`
	Status    VehicleStatus `json:"status" db:"status"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" db:"updated_at"`
}

// Пределы координат
const (
	MinLat = -90.0
	MaxLat = 90.0
	MinLng = -180.0
	MaxLng = 180.0
)

// ValidCoordinates проверяет, что точка лежит в допустимых пределах
func ValidCoordinates(lat, lng float64) bool {
	return lat >= MinLat && lat <= MaxLat && lng >= MinLng && lng <= MaxLng
}

// ClampLat ограничивает широту допустимым диапазоном
func ClampLat(lat float64) float64 {
	if lat < MinLat {
		return MinLat
	}
	if lat > MaxLat {
		return MaxLat
	}
	return lat
}

// ClampLng ограничивает долготу допустимым диапазоном
func ClampLng(lng float64) float64 {
	if lng < MinLng {
		return MinLng
	}
	if lng > MaxLng {
		return MaxLng
	}
	return lng
}

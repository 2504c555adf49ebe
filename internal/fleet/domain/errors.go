package domain

import "errors"

// Доменные ошибки Fleet Service
var (
	// ErrVehicleNotFound — аппарат не существует
	ErrVehicleNotFound = errors.New("vehicle not found")

	// ErrInvalidVehicleStatus — неизвестный операционный статус
	ErrInvalidVehicleStatus = errors.New("invalid vehicle status")

	// ErrInvalidCoordinates — точка вне допустимых пределов
	ErrInvalidCoordinates = errors.New("invalid coordinates")

	// ErrStoreUnavailable — хранилище недоступно или отказало
	ErrStoreUnavailable = errors.New("store unavailable")
)

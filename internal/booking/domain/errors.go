package domain

import "errors"

var (
	// ErrBookingNotFound возвращается когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrValidation возвращается при некорректных входных данных создания
	ErrValidation = errors.New("validation failed")

	// ErrInvalidVehicleClass возвращается при неподдерживаемом классе аппарата
	ErrInvalidVehicleClass = errors.New("invalid vehicle class")

	// ErrInvalidStatus возвращается при статусе вне закрытого набора
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidTransition возвращается когда запрошенный статус недостижим
	// из текущего, в том числе при гонке двух одновременных переходов
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrStoreUnavailable возвращается при временном сбое хранилища
	ErrStoreUnavailable = errors.New("store unavailable")
)

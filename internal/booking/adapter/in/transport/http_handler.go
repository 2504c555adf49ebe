package transport

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/explorer2005/skycab-booking-system/internal/booking/application/ports/in"
	"github.com/explorer2005/skycab-booking-system/internal/booking/domain"
	"github.com/explorer2005/skycab-booking-system/internal/shared/auth"
	"github.com/explorer2005/skycab-booking-system/internal/shared/logger"
)

const maxBodySize = 1 << 20 // 1MB

// HTTPHandler обрабатывает HTTP запросы для Booking Service
type HTTPHandler struct {
	createBookingUC     in.CreateBookingUseCase
	transitionBookingUC in.TransitionBookingUseCase
	listBookingsUC      in.ListBookingsUseCase
	log                 *logger.Logger
}

// NewHTTPHandler создает новый HTTP handler
func NewHTTPHandler(
	createBookingUC in.CreateBookingUseCase,
	transitionBookingUC in.TransitionBookingUseCase,
	listBookingsUC in.ListBookingsUseCase,
	log *logger.Logger,
) *HTTPHandler {
	return &HTTPHandler{
		createBookingUC:     createBookingUC,
		transitionBookingUC: transitionBookingUC,
		listBookingsUC:      listBookingsUC,
		log:                 log,
	}
}

// RegisterRoutes регистрирует все HTTP маршруты
func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.HandlerFunc) http.HandlerFunc) {
	// liveness
	mux.HandleFunc("GET /health", h.handleHealth)

	// business
	mux.HandleFunc("POST /bookings", authMiddleware(h.handleCreateBooking))
	mux.HandleFunc("PATCH /bookings/{booking_id}/status", authMiddleware(h.handleTransitionBooking))
	mux.HandleFunc("GET /bookings", authMiddleware(h.handleListBookings))
}

// handleHealth обрабатывает health check
func (h *HTTPHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// CreateBookingHTTPRequest — HTTP DTO для создания бронирования
type CreateBookingHTTPRequest struct {
	Pickup       string  `json:"pickup"`
	Dropoff      string  `json:"dropoff"`
	VehicleClass string  `json:"vehicle_class"`
	Fare         float64 `json:"fare"`
}

// handleCreateBooking обрабатывает POST /bookings
func (h *HTTPHandler) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := UserIDFromContext(ctx)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	// Ограничиваем размер тела запроса
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var req CreateBookingHTTPRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			h.respondError(w, http.StatusBadRequest, "empty request body")
			return
		}
		h.log.Error(logger.Entry{
			Action:  "parse_request_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		h.respondError(w, http.StatusBadRequest, "invalid request format")
		return
	}

	// Маппинг HTTP DTO → Use Case Input
	input := in.CreateBookingInput{
		RiderID:      userID,
		Pickup:       req.Pickup,
		Dropoff:      req.Dropoff,
		VehicleClass: req.VehicleClass,
		Fare:         req.Fare,
	}

	booking, err := h.createBookingUC.Execute(ctx, input)
	if err != nil {
		h.handleUseCaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, booking)
}

// TransitionBookingHTTPRequest — HTTP DTO для смены статуса бронирования
type TransitionBookingHTTPRequest struct {
	Status string `json:"status"`
}

// handleTransitionBooking обрабатывает PATCH /bookings/{booking_id}/status
func (h *HTTPHandler) handleTransitionBooking(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := UserIDFromContext(ctx)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	bookingID := r.PathValue("booking_id")
	if bookingID == "" {
		h.respondError(w, http.StatusBadRequest, "booking_id is required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var req TransitionBookingHTTPRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			h.respondError(w, http.StatusBadRequest, "empty request body")
			return
		}
		h.respondError(w, http.StatusBadRequest, "invalid request format")
		return
	}

	if req.Status == "" {
		h.respondError(w, http.StatusBadRequest, "status is required")
		return
	}

	input := in.TransitionBookingInput{
		BookingID:   bookingID,
		RequestedBy: userID,
		NewStatus:   req.Status,
	}

	booking, err := h.transitionBookingUC.Execute(ctx, input)
	if err != nil {
		h.handleUseCaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, booking)
}

// handleListBookings обрабатывает GET /bookings.
// По умолчанию возвращает бронирования текущего пассажира,
// ?scope=all доступен только администраторам.
func (h *HTTPHandler) handleListBookings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := UserIDFromContext(ctx)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if r.URL.Query().Get("scope") == "all" {
		role, _ := RoleFromContext(ctx)
		if role != auth.RoleAdmin {
			h.respondError(w, http.StatusForbidden, "admin role required")
			return
		}

		bookings, err := h.listBookingsUC.ListAll(ctx)
		if err != nil {
			h.handleUseCaseError(w, err)
			return
		}
		h.respondJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
		return
	}

	bookings, err := h.listBookingsUC.ListForRider(ctx, userID)
	if err != nil {
		h.handleUseCaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}

// handleUseCaseError обрабатывает ошибки use case
func (h *HTTPHandler) handleUseCaseError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidVehicleClass),
		errors.Is(err, domain.ErrInvalidStatus):
		h.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrBookingNotFound):
		h.respondError(w, http.StatusNotFound, "booking not found")
	case errors.Is(err, domain.ErrInvalidTransition):
		h.respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrStoreUnavailable):
		h.respondError(w, http.StatusServiceUnavailable, "storage temporarily unavailable")
	default:
		h.log.Error(logger.Entry{
			Action:  "usecase_error",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		h.respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// respondJSON отправляет JSON ответ
func (h *HTTPHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error(logger.Entry{
			Action:  "encode_response_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}
}

// respondError отправляет JSON с ошибкой
func (h *HTTPHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

package transport

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/explorer2005/skycab-booking-system/internal/fleet/application/ports/in"
	"github.com/explorer2005/skycab-booking-system/internal/fleet/domain"
	"github.com/explorer2005/skycab-booking-system/internal/shared/auth"
	"github.com/explorer2005/skycab-booking-system/internal/shared/logger"
)

const maxBodySize = 1 << 20 // 1MB

// HTTPHandler обрабатывает HTTP запросы для Fleet Service
type HTTPHandler struct {
	listVehiclesUC        in.ListVehiclesUseCase
	updateVehicleStatusUC in.UpdateVehicleStatusUseCase
	log                   *logger.Logger
}

// NewHTTPHandler создает новый HTTP handler
func NewHTTPHandler(
	listVehiclesUC in.ListVehiclesUseCase,
	updateVehicleStatusUC in.UpdateVehicleStatusUseCase,
	log *logger.Logger,
) *HTTPHandler {
	return &HTTPHandler{
		listVehiclesUC:        listVehiclesUC,
		updateVehicleStatusUC: updateVehicleStatusUC,
		log:                   log,
	}
}

// RegisterRoutes регистрирует все HTTP маршруты
func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.HandlerFunc) http.HandlerFunc) {
	// liveness
	mux.HandleFunc("GET /health", h.handleHealth)

	// business
	mux.HandleFunc("GET /vehicles", authMiddleware(h.handleListVehicles))
	mux.HandleFunc("PATCH /vehicles/{vehicle_id}/status", authMiddleware(h.handleUpdateVehicleStatus))
}

// handleHealth обрабатывает health check
func (h *HTTPHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// handleListVehicles обрабатывает GET /vehicles
func (h *HTTPHandler) handleListVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.listVehiclesUC.ListAll(r.Context())
	if err != nil {
		h.handleUseCaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{"vehicles": vehicles})
}

// UpdateVehicleStatusHTTPRequest — HTTP DTO для смены статуса аппарата
type UpdateVehicleStatusHTTPRequest struct {
	Status string `json:"status"`
}

// handleUpdateVehicleStatus обрабатывает PATCH /vehicles/{vehicle_id}/status.
// Операция доступна только администраторам.
func (h *HTTPHandler) handleUpdateVehicleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	role, _ := RoleFromContext(ctx)
	if role != auth.RoleAdmin {
		h.respondError(w, http.StatusForbidden, "admin role required")
		return
	}

	userID, _ := UserIDFromContext(ctx)

	vehicleID := r.PathValue("vehicle_id")
	if vehicleID == "" {
		h.respondError(w, http.StatusBadRequest, "vehicle_id is required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var req UpdateVehicleStatusHTTPRequest
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

	input := in.UpdateVehicleStatusInput{
		VehicleID:   vehicleID,
		RequestedBy: userID,
		NewStatus:   req.Status,
	}

	vehicle, err := h.updateVehicleStatusUC.Execute(ctx, input)
	if err != nil {
		h.handleUseCaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, vehicle)
}

// handleUseCaseError обрабатывает ошибки use case
func (h *HTTPHandler) handleUseCaseError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidVehicleStatus),
		errors.Is(err, domain.ErrInvalidCoordinates):
		h.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrVehicleNotFound):
		h.respondError(w, http.StatusNotFound, "vehicle not found")
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

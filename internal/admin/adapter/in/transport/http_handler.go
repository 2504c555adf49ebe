package transport

import (
	"encoding/json"
	"net/http"

	"github.com/explorer2005/skycab-booking-system/internal/admin/application/ports/in"
	"github.com/explorer2005/skycab-booking-system/internal/shared/logger"
)

// HTTPHandler обрабатывает HTTP запросы для Admin Service
type HTTPHandler struct {
	getOverviewUC in.GetOverviewUseCase
	log           *logger.Logger
}

// NewHTTPHandler создает новый HTTP handler
func NewHTTPHandler(getOverviewUC in.GetOverviewUseCase, log *logger.Logger) *HTTPHandler {
	return &HTTPHandler{
		getOverviewUC: getOverviewUC,
		log:           log,
	}
}

// RegisterRoutes регистрирует все HTTP маршруты
func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.HandlerFunc) http.HandlerFunc) {
	// liveness
	mux.HandleFunc("GET /health", h.handleHealth)

	// business
	mux.HandleFunc("GET /overview", authMiddleware(h.handleGetOverview))
}

// handleHealth обрабатывает health check
func (h *HTTPHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// handleGetOverview обрабатывает GET /overview
func (h *HTTPHandler) handleGetOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.getOverviewUC.Execute(r.Context())
	if err != nil {
		h.log.Error(logger.Entry{
			Action:  "usecase_error",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		h.respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.respondJSON(w, http.StatusOK, overview)
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

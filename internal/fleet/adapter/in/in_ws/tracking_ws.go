package in_ws

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/explorer2005/skycab-booking-system/internal/shared/auth"
	"github.com/explorer2005/skycab-booking-system/internal/shared/fanout"
	"github.com/explorer2005/skycab-booking-system/internal/shared/logger"
	"github.com/explorer2005/skycab-booking-system/internal/shared/ws"
)

// TrackingWSHandler обрабатывает WebSocket соединения панели отслеживания флота.
// Каждая сессия видит позиции всех аппаратов: предикат всегда истинен.
type TrackingWSHandler struct {
	hub      *ws.Hub
	registry *fanout.Registry
	log      *logger.Logger

	mu   sync.Mutex
	subs map[string]*fanout.Subscription // client.ID → подписка
}

// NewTrackingWSHandler создает новый handler панели отслеживания
func NewTrackingWSHandler(jwtSvc *auth.JWTService, registry *fanout.Registry, log *logger.Logger) *TrackingWSHandler {
	authFunc := func(token string) (userID, role string, err error) {
		claims, err := jwtSvc.ValidateToken(token)
		if err != nil {
			return "", "", err
		}

		if claims.Role != auth.RoleRider && claims.Role != auth.RoleAdmin {
			return "", "", fmt.Errorf("invalid role: %s (expected RIDER or ADMIN)", claims.Role)
		}

		return claims.UserID, claims.Role, nil
	}

	hub := ws.NewHub(authFunc, log)

	handler := &TrackingWSHandler{
		hub:      hub,
		registry: registry,
		log:      log,
		subs:     make(map[string]*fanout.Subscription),
	}

	hub.SetMessageHandler(handler.handleMessage)
	hub.SetClientHooks(handler.onClientConnected, handler.onClientDisconnected)

	return handler
}

// GetHub возвращает WebSocket hub
func (h *TrackingWSHandler) GetHub() *ws.Hub {
	return h.hub
}

// ServeWS обрабатывает WebSocket соединение
func (h *TrackingWSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	h.hub.ServeWS(w, r)
}

// onClientConnected открывает подписку на все позиции флота
func (h *TrackingWSHandler) onClientConnected(client *ws.Client) {
	sub := h.registry.Subscribe(fanout.TopicVehicles, nil)

	h.mu.Lock()
	h.subs[client.ID] = sub
	h.mu.Unlock()

	go h.forward(client, sub)
}

// onClientDisconnected закрывает подписку сессии
func (h *TrackingWSHandler) onClientDisconnected(client *ws.Client) {
	h.mu.Lock()
	sub := h.subs[client.ID]
	delete(h.subs, client.ID)
	h.mu.Unlock()

	h.registry.Unsubscribe(sub)
}

// forward пересылает позиции флота в WebSocket соединение
func (h *TrackingWSHandler) forward(client *ws.Client, sub *fanout.Subscription) {
	for event := range sub.Events() {
		if err := h.hub.SendToClientJSON(client.ID, map[string]any{
			"type": "vehicle_position",
			"data": event.Record,
		}); err != nil {
			h.log.Error(logger.Entry{
				Action:  "tracking_ws_forward_failed",
				Message: err.Error(),
				Error:   &logger.ErrObj{Msg: err.Error()},
			})
		}
	}
}

// handleMessage обрабатывает входящие сообщения
func (h *TrackingWSHandler) handleMessage(client *ws.Client, msgType string, data json.RawMessage) error {
	switch msgType {
	case "ping":
		return h.hub.SendToClientJSON(client.ID, map[string]any{
			"type": "pong",
			"data": map[string]string{"status": "ok"},
		})

	default:
		h.log.Warn(logger.Entry{
			Action:  "tracking_ws_unknown_message_type",
			Message: msgType,
			Additional: map[string]any{
				"user_id": client.UserID,
			},
		})
	}

	return nil
}

package in_ws

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/explorer2005/skycab-booking-system/internal/booking/domain"
	"github.com/explorer2005/skycab-booking-system/internal/shared/auth"
	"github.com/explorer2005/skycab-booking-system/internal/shared/fanout"
	"github.com/explorer2005/skycab-booking-system/internal/shared/logger"
	"github.com/explorer2005/skycab-booking-system/internal/shared/ws"
)

// RiderWSHandler обрабатывает WebSocket соединения пассажиров и админов.
// Каждая сессия при регистрации получает свою подписку fan-out:
// пассажир видит только свои бронирования, админ видит все.
type RiderWSHandler struct {
	hub      *ws.Hub
	registry *fanout.Registry
	jwtSvc   *auth.JWTService
	log      *logger.Logger

	mu   sync.Mutex
	subs map[string][]*fanout.Subscription // client.ID → подписки сессии
}

// NewRiderWSHandler создает новый handler для пассажиров
func NewRiderWSHandler(jwtSvc *auth.JWTService, registry *fanout.Registry, log *logger.Logger) *RiderWSHandler {
	// Создаем auth функцию для валидации токенов
	authFunc := func(token string) (userID, role string, err error) {
		claims, err := jwtSvc.ValidateToken(token)
		if err != nil {
			return "", "", err
		}

		// Проверяем, что пользователь - RIDER или ADMIN
		if claims.Role != auth.RoleRider && claims.Role != auth.RoleAdmin {
			return "", "", fmt.Errorf("invalid role: %s (expected RIDER or ADMIN)", claims.Role)
		}

		return claims.UserID, claims.Role, nil
	}

	hub := ws.NewHub(authFunc, log)

	handler := &RiderWSHandler{
		hub:      hub,
		registry: registry,
		jwtSvc:   jwtSvc,
		log:      log,
		subs:     make(map[string][]*fanout.Subscription),
	}

	hub.SetMessageHandler(handler.handleMessage)
	hub.SetClientHooks(handler.onClientConnected, handler.onClientDisconnected)

	return handler
}

// GetHub возвращает WebSocket hub
func (h *RiderWSHandler) GetHub() *ws.Hub {
	return h.hub
}

// ServeWS обрабатывает WebSocket соединение
func (h *RiderWSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	h.hub.ServeWS(w, r)
}

// onClientConnected открывает подписки fan-out на время жизни сессии:
// бронирования (с фильтром по пассажиру) и позиции флота (все)
func (h *RiderWSHandler) onClientConnected(client *ws.Client) {
	var pred fanout.Predicate
	if client.Role != auth.RoleAdmin {
		riderID := client.UserID
		pred = func(e fanout.Event) bool {
			booking, ok := e.Record.(*domain.Booking)
			return ok && booking.RiderID == riderID
		}
	}

	bookingSub := h.registry.Subscribe(fanout.TopicBookings, pred)
	vehicleSub := h.registry.Subscribe(fanout.TopicVehicles, nil)

	h.mu.Lock()
	h.subs[client.ID] = []*fanout.Subscription{bookingSub, vehicleSub}
	h.mu.Unlock()

	// Горутины живут до закрытия канала подписки (Unsubscribe)
	go h.forward(client, bookingSub)
	go h.forward(client, vehicleSub)

	h.log.Info(logger.Entry{
		Action:  "rider_ws_subscribed",
		Message: client.ID,
		Additional: map[string]any{
			"user_id": client.UserID,
			"role":    client.Role,
		},
	})
}

// onClientDisconnected закрывает подписки сессии
func (h *RiderWSHandler) onClientDisconnected(client *ws.Client) {
	h.mu.Lock()
	subs := h.subs[client.ID]
	delete(h.subs, client.ID)
	h.mu.Unlock()

	for _, sub := range subs {
		h.registry.Unsubscribe(sub)
	}
}

// forward пересылает события подписки в WebSocket соединение
func (h *RiderWSHandler) forward(client *ws.Client, sub *fanout.Subscription) {
	for event := range sub.Events() {
		var msgType string
		switch {
		case event.Topic == fanout.TopicVehicles:
			msgType = "vehicle_position"
		case event.Kind == fanout.KindInsert:
			msgType = "booking_created"
		default:
			msgType = "booking_updated"
		}

		if err := h.hub.SendToClientJSON(client.ID, map[string]any{
			"type": msgType,
			"data": event.Record,
		}); err != nil {
			h.log.Error(logger.Entry{
				Action:  "rider_ws_forward_failed",
				Message: err.Error(),
				Error:   &logger.ErrObj{Msg: err.Error()},
			})
		}
	}
}

// handleMessage обрабатывает входящие сообщения от пассажиров
func (h *RiderWSHandler) handleMessage(client *ws.Client, msgType string, data json.RawMessage) error {
	switch msgType {
	case "ping":
		// Ответ на ping
		return h.hub.SendToClientJSON(client.ID, map[string]any{
			"type": "pong",
			"data": map[string]string{"status": "ok"},
		})

	default:
		h.log.Warn(logger.Entry{
			Action:  "rider_ws_unknown_message_type",
			Message: msgType,
			Additional: map[string]any{
				"user_id": client.UserID,
			},
		})
	}

	return nil
}

// ============================================================================
// WEBSOCKET HUB - Менеджер всех WebSocket соединений
// ============================================================================
//
// 📡 НАЗНАЧЕНИЕ:
// Hub — "центральная станция" для сессий просмотрщиков: личный кабинет
// пассажира, панель live-отслеживания флота, админ-консоль. Он знает всех,
// кто сейчас подключен, и может отправить им сообщения.
//
// 🎯 ОСНОВНЫЕ ЗАДАЧИ:
// 1. Регистрация новых клиентов (когда пользователь подключается)
// 2. Отключение клиентов (когда соединение разрывается)
// 3. Отправка сообщений конкретному пользователю (по userID) или роли
// 4. Поддержание соединения активным (ping/pong)
//
// 🔐 БЕЗОПАСНОСТЬ:
// - Клиент ДОЛЖЕН аутентифицироваться в течение 5 секунд после подключения
// - Аутентификация происходит через JWT токен
// - Без валидного токена соединение закрывается
//
// 💡 ПРИМЕР ИСПОЛЬЗОВАНИЯ:
//
//   hub := ws.NewHub(authFunc, logger)
//   hub.SetClientHooks(onConnect, onDisconnect)
//   go hub.Run(ctx)
//
//   hub.SendToUserJSON("uuid-123", map[string]any{
//     "type": "booking_update",
//     "booking_id": "bk-456",
//   })
//
// ============================================================================

package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/explorer2005/skycab-booking-system/internal/shared/logger"

	"github.com/gorilla/websocket"
)

const (
	// authTimeout — максимальное время ожидания аутентификации.
	// После подключения клиент ДОЛЖЕН отправить токен, иначе соединение
	// будет разорвано.
	authTimeout = 5 * time.Second

	// pingInterval — как часто сервер отправляет ping клиенту
	pingInterval = 30 * time.Second

	// pongWait — максимальное время ожидания pong от клиента
	pongWait = 60 * time.Second

	// maxMessageSize — максимальный размер сообщения (8 KB)
	maxMessageSize = 8192

	// writeWait — таймаут на отправку сообщения
	writeWait = 10 * time.Second
)

// upgrader конвертирует обычный HTTP запрос в WebSocket соединение
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// ⚠️ В PRODUCTION здесь должна быть проверка origin!
		return true
	},
}

// AuthFunc — функция для валидации JWT токена.
// Возвращает: userID, role, error.
type AuthFunc func(token string) (userID, role string, err error)

// MessageHandler — функция обработки входящих сообщений от клиента
type MessageHandler func(client *Client, messageType string, data json.RawMessage) error

// ClientHook вызывается после регистрации/отключения клиента.
// Используется адаптерами для открытия и закрытия подписок fan-out,
// привязанных к жизни сессии.
type ClientHook func(client *Client)

// Client представляет одно WebSocket соединение с клиентом
type Client struct {
	ID     string          // Уникальный ID соединения
	UserID string          // ID пользователя (из JWT)
	Role   string          // RIDER | ADMIN
	conn   *websocket.Conn // WebSocket соединение
	send   chan []byte     // Канал для исходящих сообщений
	hub    *Hub            // Ссылка на Hub
	log    *logger.Logger  // Logger
}

// Hub управляет всеми активными WebSocket соединениями.
// Весь доступ к hub.clients защищен мьютексом.
type Hub struct {
	clients        map[string]*Client // Все активные клиенты
	mu             sync.RWMutex       // Защита от concurrent access
	register       chan *Client       // Канал регистрации
	unregister     chan *Client       // Канал отключения
	broadcast      chan []byte        // Канал broadcast сообщений
	authFunc       AuthFunc           // Функция аутентификации
	messageHandler MessageHandler     // Обработчик сообщений
	onRegister     ClientHook         // Хук после регистрации
	onUnregister   ClientHook         // Хук после отключения
	log            *logger.Logger     // Logger
}

// NewHub создает новый WebSocket Hub.
// После создания НЕ забудьте запустить hub.Run(ctx) в горутине.
func NewHub(authFunc AuthFunc, log *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client, 10),
		unregister: make(chan *Client, 10),
		broadcast:  make(chan []byte, 256),
		authFunc:   authFunc,
		log:        log,
	}
}

// SetMessageHandler устанавливает обработчик входящих сообщений от клиентов
func (h *Hub) SetMessageHandler(handler MessageHandler) {
	h.messageHandler = handler
}

// SetClientHooks устанавливает колбэки жизненного цикла клиента.
// Любой из них может быть nil.
func (h *Hub) SetClientHooks(onRegister, onUnregister ClientHook) {
	h.onRegister = onRegister
	h.onUnregister = onUnregister
}

// Run запускает главный цикл хаба
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.log.Info(logger.Entry{Action: "hub_stopped", Message: "websocket hub stopped"})
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			h.log.Info(logger.Entry{
				Action:  "client_registered",
				Message: client.ID,
				Additional: map[string]any{
					"user_id": client.UserID,
					"role":    client.Role,
				},
			})
			if h.onRegister != nil {
				h.onRegister(client)
			}

		case client := <-h.unregister:
			h.mu.Lock()
			_, ok := h.clients[client.ID]
			if ok {
				delete(h.clients, client.ID)
				close(client.send)
			}
			h.mu.Unlock()
			if ok {
				h.log.Info(logger.Entry{
					Action:  "client_unregistered",
					Message: client.ID,
				})
				if h.onUnregister != nil {
					h.onUnregister(client)
				}
			}

		case message := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Канал переполнен, сообщение теряется для этого клиента
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast отправляет сообщение всем подключенным клиентам
func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	default:
		h.log.Error(logger.Entry{
			Action:  "broadcast_dropped",
			Message: "broadcast channel full",
		})
	}
}

// SendToUser отправляет сообщение конкретному пользователю
func (h *Hub) SendToUser(userID string, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		if client.UserID == userID {
			select {
			case client.send <- message:
			default:
				h.log.Error(logger.Entry{
					Action:  "send_to_user_failed",
					Message: userID,
				})
			}
		}
	}
}

// SendToClient отправляет сообщение одному конкретному соединению
func (h *Hub) SendToClient(clientID string, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	client, ok := h.clients[clientID]
	if !ok {
		return
	}
	select {
	case client.send <- message:
	default:
		h.log.Error(logger.Entry{
			Action:  "send_to_client_failed",
			Message: clientID,
		})
	}
}

// SendToRole отправляет сообщение всем пользователям с определенной ролью
func (h *Hub) SendToRole(role string, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		if client.Role == role {
			select {
			case client.send <- message:
			default:
				h.log.Error(logger.Entry{
					Action:  "send_to_role_failed",
					Message: role,
					Additional: map[string]any{
						"client_id": client.ID,
					},
				})
			}
		}
	}
}

// ServeWS обрабатывает HTTP запрос на WebSocket соединение
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error(logger.Entry{
			Action:  "ws_upgrade_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		return
	}

	clientID := fmt.Sprintf("ws_%d", time.Now().UnixNano())

	client := &Client{
		ID:   clientID,
		conn: conn,
		send: make(chan []byte, 256),
		hub:  h,
		log:  h.log,
	}

	// Устанавливаем дедлайн для аутентификации
	_ = conn.SetReadDeadline(time.Now().Add(authTimeout))

	// Ожидаем первое сообщение с JWT токеном
	var authMsg struct {
		Token string `json:"token"`
	}

	if err := conn.ReadJSON(&authMsg); err != nil {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseProtocolError, "auth timeout"))
		_ = conn.Close()
		h.log.Error(logger.Entry{
			Action:  "ws_auth_failed",
			Message: "no auth message received",
		})
		return
	}

	// Валидируем токен
	userID, role, err := h.authFunc(authMsg.Token)
	if err != nil {
		_ = conn.WriteJSON(map[string]string{"error": "invalid token"})
		_ = conn.Close()
		h.log.Error(logger.Entry{
			Action:  "ws_auth_invalid_token",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		return
	}

	client.UserID = userID
	client.Role = role

	// Снимаем дедлайн, ставим нормальный pong wait
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// Регистрируем клиента
	h.register <- client

	// Отправляем подтверждение аутентификации
	_ = conn.WriteJSON(map[string]string{"status": "authenticated", "user_id": userID})

	// Запускаем горутины для чтения и записи
	go client.writePump()
	go client.readPump()
}

// readPump читает сообщения от клиента
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Error(logger.Entry{
					Action:  "ws_read_error",
					Message: c.ID,
					Error:   &logger.ErrObj{Msg: err.Error()},
				})
			}
			break
		}

		var msg struct {
			Type string          `json:"type"`
			Data json.RawMessage `json:"data,omitempty"`
		}

		if err := json.Unmarshal(message, &msg); err != nil {
			c.log.Error(logger.Entry{
				Action:  "ws_parse_message_error",
				Message: err.Error(),
				Error:   &logger.ErrObj{Msg: err.Error()},
				Additional: map[string]any{
					"client_id": c.ID,
					"raw":       string(message),
				},
			})
			continue
		}

		if c.hub.messageHandler != nil {
			if err := c.hub.messageHandler(c, msg.Type, msg.Data); err != nil {
				c.log.Error(logger.Entry{
					Action:  "ws_handle_message_error",
					Message: err.Error(),
					Error:   &logger.ErrObj{Msg: err.Error()},
					Additional: map[string]any{
						"client_id": c.ID,
						"msg_type":  msg.Type,
					},
				})
			}
		}
	}
}

// writePump отправляет сообщения клиенту
func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub закрыл канал
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// BroadcastJSON отправляет JSON всем клиентам
func (h *Hub) BroadcastJSON(data any) error {
	msg, err := json.Marshal(data)
	if err != nil {
		return err
	}
	h.Broadcast(msg)
	return nil
}

// SendToUserJSON отправляет JSON конкретному пользователю
func (h *Hub) SendToUserJSON(userID string, data any) error {
	msg, err := json.Marshal(data)
	if err != nil {
		return err
	}
	h.SendToUser(userID, msg)
	return nil
}

// SendToClientJSON отправляет JSON одному соединению
func (h *Hub) SendToClientJSON(clientID string, data any) error {
	msg, err := json.Marshal(data)
	if err != nil {
		return err
	}
	h.SendToClient(clientID, msg)
	return nil
}

// SendToRoleJSON отправляет JSON всем пользователям с ролью
func (h *Hub) SendToRoleJSON(role string, data any) error {
	msg, err := json.Marshal(data)
	if err != nil {
		return err
	}
	h.SendToRole(role, msg)
	return nil
}

// SendTypedMessage отправляет сообщение с типом конкретному пользователю
func (h *Hub) SendTypedMessage(userID, msgType string, data any) error {
	return h.SendToUserJSON(userID, map[string]any{
		"type": msgType,
		"data": data,
	})
}

package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const writeTimeout = 5 * time.Second

// Hub управляет websocket-подключениями киосков и рассылает им события
type Hub struct {
	clients      map[uuid.UUID]*websocket.Conn
	clientsMutex sync.RWMutex
	upgrader     websocket.Upgrader
	logger       *logrus.Logger
}

// NewHub создает новый Hub
func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		clients: make(map[uuid.UUID]*websocket.Conn),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true // Киоски подключаются с других хостов локальной сети
			},
		},
		logger: logger,
	}
}

// HandleConnection переводит HTTP-запрос в websocket и регистрирует клиента
func (h *Hub) HandleConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	clientID := uuid.New()
	h.clientsMutex.Lock()
	h.clients[clientID] = conn
	clientCount := len(h.clients)
	h.clientsMutex.Unlock()

	h.logger.WithFields(logrus.Fields{
		"client_id": clientID,
		"clients":   clientCount,
		"remote":    c.ClientIP(),
	}).Info("WebSocket client connected")

	// Читаем соединение только ради обнаружения разрыва, входящие
	// сообщения от киосков не предусмотрены
	go h.readLoop(clientID, conn)
}

func (h *Hub) readLoop(clientID uuid.UUID, conn *websocket.Conn) {
	defer h.removeClient(clientID)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) removeClient(clientID uuid.UUID) {
	h.clientsMutex.Lock()
	conn, ok := h.clients[clientID]
	if ok {
		delete(h.clients, clientID)
		conn.Close()
	}
	clientCount := len(h.clients)
	h.clientsMutex.Unlock()

	if ok {
		h.logger.WithFields(logrus.Fields{
			"client_id": clientID,
			"clients":   clientCount,
		}).Info("WebSocket client disconnected")
	}
}

// Broadcast отправляет сообщение всем подключенным клиентам.
// Клиенты с ошибкой записи отключаются.
func (h *Hub) Broadcast(payload []byte) {
	h.clientsMutex.RLock()
	targets := make(map[uuid.UUID]*websocket.Conn, len(h.clients))
	for id, conn := range h.clients {
		targets[id] = conn
	}
	h.clientsMutex.RUnlock()

	for id, conn := range targets {
		if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
			h.logger.WithError(err).WithField("client_id", id).Warn("Failed to set write deadline")
			h.removeClient(id)
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.logger.WithError(err).WithField("client_id", id).Warn("Failed to write to client")
			h.removeClient(id)
		}
	}
}

// ClientCount возвращает число подключенных клиентов
func (h *Hub) ClientCount() int {
	h.clientsMutex.RLock()
	defer h.clientsMutex.RUnlock()
	return len(h.clients)
}

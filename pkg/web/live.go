package web

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/PancyStudios/GuardianBotGo/pkg/logger"
	"github.com/PancyStudios/GuardianBotGo/pkg/models"
	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

// LiveFeed reparte cada acción de moderación completada a los dashboards
// conectados por WebSocket. Un cliente lento se desconecta en vez de
// bloquear el feed.
type LiveFeed struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]chan []byte
}

var (
	feed     *LiveFeed
	feedOnce sync.Once
)

// Feed returns the global live feed instance
func Feed() *LiveFeed {
	feedOnce.Do(func() {
		feed = &LiveFeed{clients: make(map[*websocket.Conn]chan []byte)}
	})
	return feed
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// El middleware de host del servidor ya filtra orígenes
	CheckOrigin: func(r *http.Request) bool { return true },
}

// liveHandler upgrades the connection and streams moderation actions
func liveHandler(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn(fmt.Sprintf("Fallo al abrir el WebSocket: %v", err), "WebServer")
		return
	}

	f := Feed()
	send := make(chan []byte, 16)

	f.mu.Lock()
	f.clients[conn] = send
	f.mu.Unlock()

	go func() {
		defer f.drop(conn)
		for msg := range send {
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	}()

	// Drena lecturas para detectar la desconexión del cliente
	go func() {
		defer f.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// drop removes a client and closes its connection
func (f *LiveFeed) drop(conn *websocket.Conn) {
	f.mu.Lock()
	if send, ok := f.clients[conn]; ok {
		delete(f.clients, conn)
		close(send)
	}
	f.mu.Unlock()
	conn.Close()
}

// Broadcast envía una acción a todos los clientes. Nunca bloquea: si el
// buffer de un cliente está lleno, ese cliente se descarta.
func (f *LiveFeed) Broadcast(action models.ModerationAction) {
	payload, err := json.Marshal(gin.H{"type": "moderation_action", "action": action})
	if err != nil {
		return
	}

	f.mu.Lock()
	var slow []*websocket.Conn
	for conn, send := range f.clients {
		select {
		case send <- payload:
		default:
			slow = append(slow, conn)
		}
	}
	f.mu.Unlock()

	for _, conn := range slow {
		f.drop(conn)
	}
}

// ClientCount returns how many dashboards are listening
func (f *LiveFeed) ClientCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.clients)
}

package livereload

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Hub keeps the set of connected pages and pushes reload messages to them.
type Hub struct {
	clients    map[*connection]bool
	register   chan *connection
	unregister chan *connection

	mu sync.RWMutex

	upgrader websocket.Upgrader
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*connection]bool),
		register:   make(chan *connection),
		unregister: make(chan *connection),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Dev-only surface: every page served by the local server may connect.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Run starts the hub loop handling registrations and unregistrations.
// Must be launched in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn] = true
			total := len(h.clients)
			h.mu.Unlock()
			logrus.WithField("client", conn.id).Debugf("livereload: client registered, total %d", total)

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.closeSend()
			}
			total := len(h.clients)
			h.mu.Unlock()
			logrus.WithField("client", conn.id).Debugf("livereload: client unregistered, total %d", total)
		}
	}
}

// ClientCount reports how many pages are currently connected.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastReload tells every connected page that the bundle at path was
// rewritten.
func (h *Hub) BroadcastReload(path string) {
	h.broadcast(&Message{Type: EvtReload, Path: path})
}

func (h *Hub) broadcast(msg *Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for conn := range h.clients {
		conn.sendMsg(msg)
	}
}

// HandleUpgrade upgrades an HTTP request into a livereload connection and
// starts its read/write pumps.
func (h *Hub) HandleUpgrade(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.WithError(err).Warn("livereload: upgrade failed")
		return
	}

	conn := newConnection(uuid.NewString(), ws)
	h.register <- conn

	go conn.writePump()
	go conn.readPump(func(c *connection) { h.unregister <- c })

	conn.sendMsg(&Message{Type: EvtHello})
}

// ClientScript is the snippet the dev server injects into the playground page.
// It reconnects with a small backoff so page reloads and server restarts keep
// the channel alive.
const ClientScript = `(function () {
  function connect() {
    var ws = new WebSocket("ws://" + window.location.host + "/livereload");
    ws.onmessage = function (ev) {
      var msg = JSON.parse(ev.data);
      if (msg.type === "reload") {
        window.location.reload();
      }
    };
    ws.onclose = function () {
      setTimeout(connect, 1000);
    };
  }
  connect();
})();
`

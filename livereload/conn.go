package livereload

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	// Max time for any message writing
	writeWait = 10 * time.Second
	// Max time for the next peer message reading.
	pongWait = 60 * time.Second
	// Sending ping to the peer after this period. Must be low than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Max message body. Clients only ever send control frames.
	maxMessageSize = 512
)

type connection struct {
	id   string
	ws   *websocket.Conn
	send chan *Message // Channel for outgoing messages
}

func newConnection(id string, ws *websocket.Conn) *connection {
	return &connection{
		id:   id,
		ws:   ws,
		send: make(chan *Message, 16),
	}
}

// Handling outgoing messages and periodical ping messages to the peer
func (c *connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			jsonBytes, err := json.Marshal(message)
			if err != nil {
				logrus.WithError(err).WithField("client", c.id).Warn("livereload: failed to marshal message")
				continue
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, jsonBytes); err != nil {
				logrus.WithError(err).WithField("client", c.id).Debug("livereload: write failed")
				return
			}

		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Consuming the peer side until it goes away. Pages never send application
// messages; the pump only keeps the pong deadline fresh and detects closes.
func (c *connection) readPump(disconnect func(conn *connection)) {
	defer func() {
		disconnect(c)
		c.ws.Close()
	}()

	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logrus.WithError(err).WithField("client", c.id).Debug("livereload: read error")
			}
			break
		}
	}
}

// sending a message without blocking the broadcaster.
func (c *connection) sendMsg(msg *Message) {
	select {
	case c.send <- msg:
	default:
		logrus.WithField("client", c.id).Warnf("livereload: send channel full, message type %s dropped", msg.Type)
	}
}

// closing the send channel and stopping the writePump function.
func (c *connection) closeSend() {
	close(c.send)
}

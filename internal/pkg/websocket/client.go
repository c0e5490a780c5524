package websocket

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/coarpuno/recojo/internal/app/models"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Subscribers never send payloads,
	// only control frames, so this stays small.
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins for development, in production you should restrict this
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client is one session's subscription to a single student record
type Client struct {
	hub *Hub

	// The WebSocket connection
	conn *websocket.Conn

	// Buffered channel of outbound snapshots
	send chan []byte

	// Account ID of the subscriber
	accountID int64

	// Role of the subscriber (decides view projection and alert edges)
	role models.RoleType

	// Student ID this client is subscribed to
	studentID int64

	// Snapshot delivered on registration, before any live update
	initial *models.Student

	// lastAuth and primed track the previously observed pickup authorization
	// for edge detection. Touched only by the hub's run loop.
	lastAuth models.PickupAuthStatus
	primed   bool

	// Logger instance
	logger zerolog.Logger
}

// readPump drains the connection until it closes, then tears the
// subscription down. Inbound payloads are ignored: this feed is one-way, the
// read side only exists to detect disconnects and answer pings.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Info().
					Int64("accountID", c.accountID).
					Int64("studentID", c.studentID).
					Msg("Subscription closed normally")
			} else if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn().
					Err(err).
					Int64("accountID", c.accountID).
					Int64("studentID", c.studentID).
					Msg("Unexpected subscription close")
			} else {
				c.logger.Debug().
					Err(err).
					Int64("accountID", c.accountID).
					Int64("studentID", c.studentID).
					Msg("Subscription read error")
			}
			break
		}
	}
}

// writePump pumps snapshots from the hub to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

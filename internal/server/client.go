package server

import (
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = 30 * time.Second
	sendBufferSize = 64
)

// Client is a single websocket connection. Its id doubles as the transient
// connection alias in the session registry.
type Client struct {
	id     string
	conn   *websocket.Conn
	send   chan Event
	hub    *Hub
	router *Router
	closed atomic.Bool
}

func newClient(id string, conn *websocket.Conn, hub *Hub, router *Router) *Client {
	return &Client{
		id:     id,
		conn:   conn,
		hub:    hub,
		router: router,
		send:   make(chan Event, sendBufferSize),
	}
}

// ID is the connection identity used to resolve the acting player.
func (c *Client) ID() string { return c.id }

func (c *Client) readLoop() {
	defer c.close()
	c.conn.SetReadLimit(1 << 20)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			log.Debug().Err(err).Str("conn", c.id).Msg("read message")
			return
		}
		var env Envelope
		if err := json.Unmarshal(payload, &env); err != nil {
			c.Push(errorEvent("Invalid message format", codeValidationFailed))
			continue
		}
		c.router.Handle(c, env)
	}
}

func (c *Client) writeLoop() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.close()
	}()
	for {
		select {
		case ev := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(ev); err != nil {
				log.Debug().Err(err).Str("conn", c.id).Msg("write json")
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

// Push queues an event for delivery, dropping the oldest queued event under
// backpressure rather than blocking the caller.
func (c *Client) Push(ev Event) {
	if c.closed.Load() {
		return
	}
	select {
	case c.send <- ev:
	default:
		select {
		case <-c.send:
		default:
		}
		c.send <- ev
	}
}

func (c *Client) close() {
	if c.closed.Swap(true) {
		return
	}
	c.router.Disconnected(c)
	c.hub.drop(c)
	_ = c.conn.Close()
}

package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Clients connect from arbitrary origins (native apps, local dev).
	CheckOrigin: func(*http.Request) bool { return true },
}

// Handler builds the HTTP surface: a health probe and the websocket
// endpoint every game event flows through.
func Handler(hub *Hub, router *Router) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/ws", func(w http.ResponseWriter, req *http.Request) {
		conn, err := upgrader.Upgrade(w, req, nil)
		if err != nil {
			log.Warn().Err(err).Msg("websocket upgrade")
			return
		}
		c := newClient(uuid.NewString(), conn, hub, router)
		hub.add(c)
		go c.writeLoop()
		go c.readLoop()
		log.Debug().Str("conn", c.id).Str("remote", req.RemoteAddr).Msg("connection opened")
	})

	return r
}

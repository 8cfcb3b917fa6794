package server

import "sync"

// Transport is the delivery contract the event router assumes: room-scoped
// broadcast, targeted unicast, and membership bookkeeping. The Hub is its
// websocket implementation; tests substitute a recorder.
type Transport interface {
	Join(connID, playerID, roomCode string)
	Leave(connID string)
	Broadcast(roomCode string, ev Event)
	BroadcastExcept(roomCode, exceptPlayerID string, ev Event)
	Unicast(playerID string, ev Event)
	Disconnect(playerID string)
}

// Hub tracks live connections and their room membership. It carries no game
// state; the session registry stays authoritative.
type Hub struct {
	mu       sync.RWMutex
	conns    map[string]*Client            // connID -> client
	byPlayer map[string]*Client            // playerID -> client
	rooms    map[string]map[string]*Client // roomCode -> connID -> client
	member   map[string]string             // connID -> roomCode
	players  map[string]string             // connID -> playerID
}

func NewHub() *Hub {
	return &Hub{
		conns:    make(map[string]*Client),
		byPlayer: make(map[string]*Client),
		rooms:    make(map[string]map[string]*Client),
		member:   make(map[string]string),
		players:  make(map[string]string),
	}
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[c.id] = c
}

func (h *Hub) drop(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.detachLocked(c.id)
	delete(h.conns, c.id)
}

// Join binds a connection to a room and player identity for targeting.
func (h *Hub) Join(connID, playerID, roomCode string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.conns[connID]
	if !ok {
		return
	}
	h.detachLocked(connID)
	if h.rooms[roomCode] == nil {
		h.rooms[roomCode] = make(map[string]*Client)
	}
	h.rooms[roomCode][connID] = c
	h.member[connID] = roomCode
	h.players[connID] = playerID
	h.byPlayer[playerID] = c
}

// Leave detaches a connection from its room without closing it.
func (h *Hub) Leave(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.detachLocked(connID)
}

func (h *Hub) detachLocked(connID string) {
	if code, ok := h.member[connID]; ok {
		if set := h.rooms[code]; set != nil {
			delete(set, connID)
			if len(set) == 0 {
				delete(h.rooms, code)
			}
		}
		delete(h.member, connID)
	}
	if playerID, ok := h.players[connID]; ok {
		if cur, ok := h.byPlayer[playerID]; ok && cur.id == connID {
			delete(h.byPlayer, playerID)
		}
		delete(h.players, connID)
	}
}

// Broadcast delivers to every connection in the room.
func (h *Hub) Broadcast(roomCode string, ev Event) {
	for _, c := range h.roomClients(roomCode, "") {
		c.Push(ev)
	}
}

// BroadcastExcept delivers to every connection in the room except the one
// bound to exceptPlayerID.
func (h *Hub) BroadcastExcept(roomCode, exceptPlayerID string, ev Event) {
	for _, c := range h.roomClients(roomCode, exceptPlayerID) {
		c.Push(ev)
	}
}

// Unicast delivers to the single connection bound to the player, if any.
func (h *Hub) Unicast(playerID string, ev Event) {
	h.mu.RLock()
	c := h.byPlayer[playerID]
	h.mu.RUnlock()
	if c != nil {
		c.Push(ev)
	}
}

// Disconnect force-closes the player's connection (kick).
func (h *Hub) Disconnect(playerID string) {
	h.mu.RLock()
	c := h.byPlayer[playerID]
	h.mu.RUnlock()
	if c != nil {
		c.close()
	}
}

// Close shuts down every live connection.
func (h *Hub) Close() {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.conns))
	for _, c := range h.conns {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		c.close()
	}
}

func (h *Hub) roomClients(roomCode, exceptPlayerID string) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	set := h.rooms[roomCode]
	out := make([]*Client, 0, len(set))
	for connID, c := range set {
		if exceptPlayerID != "" && h.players[connID] == exceptPlayerID {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Package session is the authoritative in-memory store of rooms, game state
// and session tokens. Every mutating operation is scoped to a single room
// and serialized on that room's lock; operations on different rooms never
// block each other. Nothing here survives a process restart.
package session

import (
	"crypto/rand"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jeeminhan/Common-Lore/internal/deck"
	"github.com/jeeminhan/Common-Lore/internal/game"
)

// codeAlphabet excludes I, O, 0 and 1: room codes are read aloud and typed.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

const codeAttempts = 10

// Config carries the registry tunables, injected from the process config.
type Config struct {
	RoomCodeLength int
	MaxPlayers     int
	MinPlayers     int
	CardsPerPlayer int
	RoomTTL        time.Duration
}

// Ref resolves a session token or live connection id back to a seat.
type Ref struct {
	RoomCode string
	PlayerID string
}

type entry struct {
	mu    sync.Mutex
	room  *game.Room
	state *game.State
}

// Registry owns all rooms and their game state. Construct one per process
// with NewRegistry and inject it into the event router; tests get a fresh
// registry each.
type Registry struct {
	cfg Config

	mu       sync.RWMutex
	rooms    map[string]*entry
	sessions map[string]Ref
}

func NewRegistry(cfg Config) *Registry {
	return &Registry{
		cfg:      cfg,
		rooms:    make(map[string]*entry),
		sessions: make(map[string]Ref),
	}
}

// CreateRoom makes a new room with hostName seated as host and facilitator.
// The connection id is aliased to the same session so emits can target the
// host before the client echoes its token back.
func (r *Registry) CreateRoom(hostName, connID, roomName string, settings *game.Settings) (*game.Room, string, error) {
	playerID := uuid.NewString()
	token := randomString(tokenAlphabet, 32)
	now := time.Now()

	host := &game.Player{
		ID:            playerID,
		Name:          hostName,
		IsHost:        true,
		IsFacilitator: true,
		Status:        game.StatusConnected,
		Hand:          []deck.Card{},
		JoinedAt:      now,
		LastActiveAt:  now,
	}

	roomSettings := game.DefaultSettings()
	if settings != nil {
		roomSettings = *settings
	}

	room := &game.Room{
		ID:         uuid.NewString(),
		Name:       roomName,
		HostID:     playerID,
		Players:    []*game.Player{host},
		MaxPlayers: r.cfg.MaxPlayers,
		Settings:   roomSettings,
		CreatedAt:  now,
		ExpiresAt:  now.Add(r.cfg.RoomTTL),
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	code := ""
	for i := 0; i < codeAttempts; i++ {
		candidate := randomString(codeAlphabet, r.cfg.RoomCodeLength)
		if _, taken := r.rooms[candidate]; !taken {
			code = candidate
			break
		}
	}
	if code == "" {
		return nil, "", game.ErrCodeGenerationExhausted
	}

	room.Code = code
	r.rooms[code] = &entry{room: room}
	ref := Ref{RoomCode: code, PlayerID: playerID}
	r.sessions[token] = ref
	r.sessions[connID] = ref

	return room.Clone(), token, nil
}

// JoinRoom seats a new player. Joining fails once a game has left the lobby,
// when the room is full, or on a case-insensitive name collision.
func (r *Registry) JoinRoom(code, playerName, connID string) (*game.Room, string, string, error) {
	e, ok := r.entry(code)
	if !ok {
		return nil, "", "", game.ErrRoomNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != nil && e.state.Phase != game.PhaseLobby {
		return nil, "", "", game.ErrGameInProgress
	}
	if len(e.room.Players) >= e.room.MaxPlayers {
		return nil, "", "", game.ErrRoomFull
	}
	for _, p := range e.room.Players {
		if strings.EqualFold(p.Name, playerName) {
			return nil, "", "", game.ErrNameTaken
		}
	}

	playerID := uuid.NewString()
	token := randomString(tokenAlphabet, 32)
	now := time.Now()
	e.room.Players = append(e.room.Players, &game.Player{
		ID:           playerID,
		Name:         playerName,
		Status:       game.StatusConnected,
		Hand:         []deck.Card{},
		JoinedAt:     now,
		LastActiveAt: now,
	})

	ref := Ref{RoomCode: code, PlayerID: playerID}
	r.mu.Lock()
	r.sessions[token] = ref
	r.sessions[connID] = ref
	r.mu.Unlock()

	return e.room.Clone(), playerID, token, nil
}

// RemovePlayer takes a player out of the room for good (explicit leave or
// kick; disconnects go through UpdatePlayerStatus instead). An emptied room
// is deleted, returning a nil room. When the host leaves, the first
// remaining player inherits host and facilitator.
func (r *Registry) RemovePlayer(code, playerID string) (*game.Room, *game.Player, error) {
	e, ok := r.entry(code)
	if !ok {
		return nil, nil, game.ErrRoomNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	var removed *game.Player
	players := e.room.Players[:0]
	for _, p := range e.room.Players {
		if p.ID == playerID {
			removed = p
			continue
		}
		players = append(players, p)
	}
	if removed == nil {
		return nil, nil, game.ErrPlayerNotFound
	}
	e.room.Players = players

	// Removal is permanent: the player's token and connection aliases stop
	// resolving, so a kicked player cannot resume back into the room.
	r.mu.Lock()
	for key, ref := range r.sessions {
		if ref.RoomCode == code && ref.PlayerID == playerID {
			delete(r.sessions, key)
		}
	}
	r.mu.Unlock()

	if len(e.room.Players) == 0 {
		r.deleteRoom(code)
		return nil, removed, nil
	}

	if e.room.HostID == playerID {
		next := e.room.Players[0]
		next.IsHost = true
		next.IsFacilitator = true
		e.room.HostID = next.ID
	}
	if e.state != nil {
		game.SkipDeparted(e.room, e.state)
	}
	return e.room.Clone(), removed, nil
}

// UpdatePlayerStatus flips presence and refreshes the activity stamp.
// Misses are silent: disconnect races with room deletion are expected.
func (r *Registry) UpdatePlayerStatus(code, playerID string, status game.PlayerStatus) {
	e, ok := r.entry(code)
	if !ok {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if p := e.room.Player(playerID); p != nil {
		p.Status = status
		p.LastActiveAt = time.Now()
	}
}

// UpdateSettings replaces the room settings.
func (r *Registry) UpdateSettings(code string, settings game.Settings) (*game.Room, error) {
	e, ok := r.entry(code)
	if !ok {
		return nil, game.ErrRoomNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.room.Settings = settings
	return e.room.Clone(), nil
}

// CleanupExpiredRooms evicts every room past its TTL, along with its game
// state and session tokens. Rooms expire a fixed duration after creation
// regardless of activity. Safe to call concurrently with room operations;
// lookups after eviction simply miss.
func (r *Registry) CleanupExpiredRooms() int {
	now := time.Now()

	r.mu.RLock()
	codes := make([]string, 0, len(r.rooms))
	for code := range r.rooms {
		codes = append(codes, code)
	}
	r.mu.RUnlock()

	removed := 0
	for _, code := range codes {
		e, ok := r.entry(code)
		if !ok {
			continue
		}
		e.mu.Lock()
		expired := e.room.ExpiresAt.Before(now)
		e.mu.Unlock()
		if !expired {
			continue
		}
		r.mu.Lock()
		r.deleteRoomLocked(code)
		r.mu.Unlock()
		removed++
		log.Debug().Str("room", code).Msg("expired room evicted")
	}
	return removed
}

// StartGame runs the lobby -> playing transition under the room lock.
func (r *Registry) StartGame(code string) (*game.State, error) {
	e, ok := r.entry(code)
	if !ok {
		return nil, game.ErrRoomNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != nil && e.state.Phase != game.PhaseLobby {
		return nil, game.ErrGameInProgress
	}
	if len(e.room.Players) < r.cfg.MinPlayers {
		return nil, game.ErrNotEnoughPlayers
	}
	st, err := game.Start(e.room, r.cfg.CardsPerPlayer)
	if err != nil {
		return nil, err
	}
	e.state = st
	return st.Clone(), nil
}

// PlayCard plays a card for the acting player and returns it with the
// post-mutation state.
func (r *Registry) PlayCard(code, playerID, cardID string) (deck.Card, *game.State, error) {
	e, st, err := r.lockGame(code)
	if err != nil {
		return deck.Card{}, nil, err
	}
	defer e.mu.Unlock()
	card, err := game.PlayCard(e.room, st, playerID, cardID)
	if err != nil {
		return deck.Card{}, nil, err
	}
	return card, st.Clone(), nil
}

// CompleteTurn resolves the current table card and advances the turn. Any
// pending action still attached is cleared with it.
func (r *Registry) CompleteTurn(code string) (*game.State, error) {
	e, st, err := r.lockGame(code)
	if err != nil {
		return nil, err
	}
	defer e.mu.Unlock()
	if st.Phase != game.PhasePlaying {
		return nil, game.ErrWrongPhase
	}
	st.Pending = nil
	game.CompleteTurn(e.room, st)
	return st.Clone(), nil
}

// BridgePass draws a replacement card for the current player and advances
// the turn without discarding.
func (r *Registry) BridgePass(code, playerID string) (*deck.Card, *game.State, error) {
	e, st, err := r.lockGame(code)
	if err != nil {
		return nil, nil, err
	}
	defer e.mu.Unlock()
	drawn, err := game.BridgePass(e.room, st, playerID)
	if err != nil {
		return nil, nil, err
	}
	return drawn, st.Clone(), nil
}

// SetPendingReferral nominates a target to answer one of the initiator's
// own cards and records the pending effect.
func (r *Registry) SetPendingReferral(code, initiatorID, targetID, cardID string) (deck.Card, error) {
	e, st, err := r.lockGame(code)
	if err != nil {
		return deck.Card{}, err
	}
	defer e.mu.Unlock()

	if !e.room.HasPlayer(targetID) {
		return deck.Card{}, game.ErrPlayerNotFound
	}
	initiator := e.room.Player(initiatorID)
	if initiator == nil {
		return deck.Card{}, game.ErrPlayerNotFound
	}
	for _, c := range initiator.Hand {
		if c.ID == cardID {
			st.Pending = &game.PendingReferral{InitiatorID: initiatorID, TargetID: targetID, Card: c}
			st.LastActionAt = time.Now()
			return c, nil
		}
	}
	return deck.Card{}, game.ErrCardNotInHand
}

// SetPendingSharedTable arms a shared table: every player except the
// initiator owes a response. Returns the awaited ids and the question card
// to answer (the last resolved question, falling back to the table card).
func (r *Registry) SetPendingSharedTable(code, initiatorID string) (awaiting []string, question *deck.Card, err error) {
	e, st, err := r.lockGame(code)
	if err != nil {
		return nil, nil, err
	}
	defer e.mu.Unlock()

	for _, p := range e.room.Players {
		if p.ID != initiatorID {
			awaiting = append(awaiting, p.ID)
		}
	}
	st.Pending = &game.PendingSharedTable{
		InitiatorID: initiatorID,
		Awaiting:    awaiting,
		Completed:   make(map[string]bool),
	}
	st.LastActionAt = time.Now()

	if n := len(st.DiscardPile); n > 0 {
		card := st.DiscardPile[n-1]
		question = &card
	} else if st.CurrentCard != nil {
		card := *st.CurrentCard
		question = &card
	}
	return awaiting, question, nil
}

// SetPendingTranslator nominates a target to explain via metaphor or their
// native language.
func (r *Registry) SetPendingTranslator(code, initiatorID, targetID string) error {
	e, st, err := r.lockGame(code)
	if err != nil {
		return err
	}
	defer e.mu.Unlock()
	if !e.room.HasPlayer(targetID) {
		return game.ErrPlayerNotFound
	}
	st.Pending = &game.PendingTranslator{InitiatorID: initiatorID, TargetID: targetID}
	st.LastActionAt = time.Now()
	return nil
}

// AcknowledgeSharedTable records one response. When the last awaited player
// responds, the pending action clears and the turn completes, exactly once;
// the returned state is non-nil only in that case.
func (r *Registry) AcknowledgeSharedTable(code, playerID string) (bool, *game.State, error) {
	e, st, err := r.lockGame(code)
	if err != nil {
		return false, nil, err
	}
	defer e.mu.Unlock()

	done, err := game.AcknowledgeSharedTable(st, playerID)
	if err != nil {
		return false, nil, err
	}
	if !done {
		return false, nil, nil
	}
	st.Pending = nil
	game.CompleteTurn(e.room, st)
	return true, st.Clone(), nil
}

// CompleteTranslator clears the pending translator effect and completes the
// turn.
func (r *Registry) CompleteTranslator(code string) (*game.State, error) {
	e, st, err := r.lockGame(code)
	if err != nil {
		return nil, err
	}
	defer e.mu.Unlock()
	if err := game.CompleteTranslator(st); err != nil {
		return nil, err
	}
	game.CompleteTurn(e.room, st)
	return st.Clone(), nil
}

// SubmitReflection stores a final ritual reflection; resubmission replaces.
func (r *Registry) SubmitReflection(code, playerID, text string) (*game.State, error) {
	e, st, err := r.lockGame(code)
	if err != nil {
		return nil, err
	}
	defer e.mu.Unlock()
	if err := game.SubmitReflection(e.room, st, playerID, text); err != nil {
		return nil, err
	}
	return st.Clone(), nil
}

// SetPaused toggles the facilitator pause flag.
func (r *Registry) SetPaused(code string, paused bool) error {
	e, st, err := r.lockGame(code)
	if err != nil {
		return err
	}
	defer e.mu.Unlock()
	st.Paused = paused
	st.LastActionAt = time.Now()
	return nil
}

// Room returns a snapshot of the room, or false on a miss.
func (r *Registry) Room(code string) (*game.Room, bool) {
	e, ok := r.entry(code)
	if !ok {
		return nil, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.room.Clone(), true
}

// GameState returns a snapshot of the room's game state, if one exists.
func (r *Registry) GameState(code string) (*game.State, bool) {
	e, ok := r.entry(code)
	if !ok || e == nil {
		return nil, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == nil {
		return nil, false
	}
	return e.state.Clone(), true
}

// PlayerHand returns a copy of a player's hand; empty on any miss.
func (r *Registry) PlayerHand(code, playerID string) []deck.Card {
	e, ok := r.entry(code)
	if !ok {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	p := e.room.Player(playerID)
	if p == nil {
		return nil
	}
	return append([]deck.Card(nil), p.Hand...)
}

// PlayerBySession resolves a session token or connection alias.
func (r *Registry) PlayerBySession(token string) (Ref, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ref, ok := r.sessions[token]
	return ref, ok
}

// BindConnection aliases a live connection id to an existing session token,
// supporting reconnects. It reports the resolved seat.
func (r *Registry) BindConnection(connID, token string) (Ref, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ref, ok := r.sessions[token]
	if !ok {
		return Ref{}, false
	}
	r.sessions[connID] = ref
	return ref, true
}

// DropSession forgets a token or connection alias.
func (r *Registry) DropSession(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, token)
}

func (r *Registry) entry(code string) (*entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.rooms[code]
	return e, ok
}

// lockGame locks the room entry and hands back its live state. On success
// the caller owns e.mu and must unlock it.
func (r *Registry) lockGame(code string) (*entry, *game.State, error) {
	e, ok := r.entry(code)
	if !ok {
		return nil, nil, game.ErrRoomNotFound
	}
	e.mu.Lock()
	if e.state == nil {
		e.mu.Unlock()
		return nil, nil, game.ErrGameNotStarted
	}
	return e, e.state, nil
}

// deleteRoom removes a room and its sessions; callers hold no registry lock.
func (r *Registry) deleteRoom(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleteRoomLocked(code)
}

func (r *Registry) deleteRoomLocked(code string) {
	delete(r.rooms, code)
	for key, ref := range r.sessions {
		if ref.RoomCode == code {
			delete(r.sessions, key)
		}
	}
}

func randomString(alphabet string, n int) string {
	max := big.NewInt(int64(len(alphabet)))
	b := make([]byte, n)
	for i := range b {
		v, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic("session: read random: " + err.Error())
		}
		b[i] = alphabet[v.Int64()]
	}
	return string(b)
}

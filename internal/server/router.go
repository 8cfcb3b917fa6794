// Package server binds the websocket transport to the session registry: it
// validates inbound events, resolves the acting player from connection
// identity, invokes exactly one core operation and emits the resulting
// notifications in causal order. The router holds no state of its own.
package server

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/jeeminhan/Common-Lore/internal/config"
	"github.com/jeeminhan/Common-Lore/internal/deck"
	"github.com/jeeminhan/Common-Lore/internal/game"
	"github.com/jeeminhan/Common-Lore/internal/session"
)

const (
	codeValidationFailed = "VALIDATION_FAILED"
	codeInternal         = "INTERNAL_ERROR"
)

func errorEvent(message, code string) Event {
	return Event{Type: "room:error", Data: map[string]string{"message": message, "code": code}}
}

// Sender is the requesting connection from the router's point of view.
type Sender interface {
	ID() string
	Push(ev Event)
}

// Router maps inbound events to registry operations and outbound
// notifications.
type Router struct {
	reg       *session.Registry
	transport Transport
	validate  *validator.Validate
	cfg       config.Config
}

func NewRouter(reg *session.Registry, transport Transport, cfg config.Config) *Router {
	return &Router{
		reg:       reg,
		transport: transport,
		validate:  validator.New(),
		cfg:       cfg,
	}
}

// Handle dispatches one inbound frame. Every failure path ends in a single
// room:error unicast to the sender; nothing propagates to the transport.
func (rt *Router) Handle(s Sender, env Envelope) {
	switch env.Type {
	case "room:create":
		rt.createRoom(s, env.Data)
	case "room:join":
		rt.joinRoom(s, env.Data)
	case "room:leave":
		rt.leaveRoom(s, env.Data)
	case "room:kick":
		rt.kickPlayer(s, env.Data)
	case "room:settings":
		rt.updateSettings(s, env.Data)
	case "session:resume":
		rt.resumeSession(s, env.Data)
	case "game:start":
		rt.startGame(s, env.Data)
	case "game:play_card":
		rt.playCard(s, env.Data)
	case "game:bridge_pass":
		rt.bridgePass(s, env.Data)
	case "game:answer_complete":
		rt.answerComplete(s, env.Data)
	case "game:action_referral":
		rt.actionReferral(s, env.Data)
	case "game:action_translator":
		rt.actionTranslator(s, env.Data)
	case "game:action_shared_table_complete":
		rt.sharedTableComplete(s, env.Data)
	case "game:action_translator_complete":
		rt.translatorComplete(s, env.Data)
	case "game:action_experiment":
		rt.actionExperiment(s, env.Data)
	case "game:final_reflection":
		rt.finalReflection(s, env.Data)
	case "facilitator:pause":
		rt.setPaused(s, env.Data, true)
	case "facilitator:resume":
		rt.setPaused(s, env.Data, false)
	case "facilitator:skip_turn":
		rt.skipTurn(s, env.Data)
	case "facilitator:extend_timer":
		rt.extendTimer(s, env.Data)
	case "presence:typing":
		rt.presence(s, env.Data, "presence:player_typing", "")
	case "presence:away":
		rt.presence(s, env.Data, "presence:player_away", game.StatusAway)
	case "presence:back":
		rt.presence(s, env.Data, "presence:player_back", game.StatusConnected)
	default:
		s.Push(errorEvent("Unknown event type", codeValidationFailed))
	}
}

// Disconnected handles a transport drop: the player is marked disconnected
// but keeps their seat so they can resume with their session token.
func (rt *Router) Disconnected(s Sender) {
	ref, ok := rt.reg.PlayerBySession(s.ID())
	if !ok {
		return
	}
	rt.reg.DropSession(s.ID())
	rt.reg.UpdatePlayerStatus(ref.RoomCode, ref.PlayerID, game.StatusDisconnected)
	rt.transport.Broadcast(ref.RoomCode, Event{
		Type: "presence:player_disconnected",
		Data: map[string]string{"playerId": ref.PlayerID},
	})
	log.Debug().Str("room", ref.RoomCode).Str("player", ref.PlayerID).Msg("player disconnected")
}

func (rt *Router) createRoom(s Sender, data json.RawMessage) {
	var p createRoomPayload
	if !rt.decode(s, data, &p) {
		return
	}
	room, token, err := rt.reg.CreateRoom(p.HostName, s.ID(), p.RoomName, p.Settings)
	if err != nil {
		rt.fail(s, err)
		return
	}
	rt.transport.Join(s.ID(), room.HostID, room.Code)
	s.Push(Event{Type: "room:created", Data: map[string]any{
		"room":         viewOfRoom(room),
		"playerId":     room.HostID,
		"sessionToken": token,
	}})
	log.Info().Str("room", room.Code).Str("host", p.HostName).Msg("room created")
}

func (rt *Router) joinRoom(s Sender, data json.RawMessage) {
	var p joinRoomPayload
	if !rt.decode(s, data, &p) {
		return
	}
	room, playerID, token, err := rt.reg.JoinRoom(p.RoomCode, p.PlayerName, s.ID())
	if err != nil {
		rt.fail(s, err)
		return
	}
	rt.transport.Join(s.ID(), playerID, room.Code)
	s.Push(Event{Type: "room:joined", Data: map[string]any{
		"room":         viewOfRoom(room),
		"playerId":     playerID,
		"sessionToken": token,
	}})
	if joined := room.Player(playerID); joined != nil {
		rt.transport.BroadcastExcept(room.Code, playerID, Event{
			Type: "room:player_joined",
			Data: map[string]any{"player": viewOfPlayer(joined)},
		})
	}
	log.Info().Str("room", room.Code).Str("player", p.PlayerName).Msg("player joined")
}

func (rt *Router) leaveRoom(s Sender, data json.RawMessage) {
	var p roomCodePayload
	if !rt.decode(s, data, &p) {
		return
	}
	ref, ok := rt.actor(s)
	if !ok {
		return
	}
	heldTurn := rt.playerHoldsTurn(p.RoomCode, ref.PlayerID)
	_, removed, err := rt.reg.RemovePlayer(p.RoomCode, ref.PlayerID)
	if err != nil {
		rt.fail(s, err)
		return
	}
	rt.transport.Leave(s.ID())
	rt.transport.Broadcast(p.RoomCode, Event{Type: "room:player_left", Data: map[string]string{
		"playerId":   removed.ID,
		"playerName": removed.Name,
	}})
	if heldTurn {
		rt.announceTurn(p.RoomCode)
	}
	log.Info().Str("room", p.RoomCode).Str("player", removed.Name).Msg("player left")
}

func (rt *Router) kickPlayer(s Sender, data json.RawMessage) {
	var p kickPayload
	if !rt.decode(s, data, &p) {
		return
	}
	ref, ok := rt.requireHost(s, p.RoomCode)
	if !ok {
		return
	}
	if p.PlayerID == ref.PlayerID {
		rt.fail(s, game.ErrSelfKick)
		return
	}
	heldTurn := rt.playerHoldsTurn(p.RoomCode, p.PlayerID)
	_, removed, err := rt.reg.RemovePlayer(p.RoomCode, p.PlayerID)
	if err != nil {
		rt.fail(s, err)
		return
	}
	rt.transport.Broadcast(p.RoomCode, Event{Type: "room:player_left", Data: map[string]string{
		"playerId":   removed.ID,
		"playerName": removed.Name,
	}})
	rt.transport.Disconnect(removed.ID)
	if heldTurn {
		rt.announceTurn(p.RoomCode)
	}
	log.Info().Str("room", p.RoomCode).Str("player", removed.Name).Msg("player kicked")
}

func (rt *Router) updateSettings(s Sender, data json.RawMessage) {
	var p settingsPayload
	if !rt.decode(s, data, &p) {
		return
	}
	if _, ok := rt.requireHost(s, p.RoomCode); !ok {
		return
	}
	room, err := rt.reg.UpdateSettings(p.RoomCode, p.Settings)
	if err != nil {
		rt.fail(s, err)
		return
	}
	rt.transport.Broadcast(p.RoomCode, Event{Type: "room:settings_updated", Data: map[string]any{
		"settings": room.Settings,
	}})
}

// resumeSession restores a dropped player: the connection is re-aliased to
// the stored session, presence flips back to connected, and the client gets
// a fresh room and state snapshot.
func (rt *Router) resumeSession(s Sender, data json.RawMessage) {
	var p resumePayload
	if !rt.decode(s, data, &p) {
		return
	}
	ref, ok := rt.reg.BindConnection(s.ID(), p.SessionToken)
	if !ok {
		rt.fail(s, game.ErrRoomNotFound)
		return
	}
	room, ok := rt.reg.Room(ref.RoomCode)
	if !ok {
		rt.fail(s, game.ErrRoomNotFound)
		return
	}
	rt.reg.UpdatePlayerStatus(ref.RoomCode, ref.PlayerID, game.StatusConnected)
	rt.transport.Join(s.ID(), ref.PlayerID, ref.RoomCode)

	s.Push(Event{Type: "room:joined", Data: map[string]any{
		"room":         viewOfRoom(room),
		"playerId":     ref.PlayerID,
		"sessionToken": p.SessionToken,
	}})
	if st, ok := rt.reg.GameState(ref.RoomCode); ok {
		s.Push(Event{Type: "game:state_update", Data: map[string]any{
			"gameState": viewOf(st),
			"yourHand":  rt.reg.PlayerHand(ref.RoomCode, ref.PlayerID),
		}})
	}
	rt.transport.BroadcastExcept(ref.RoomCode, ref.PlayerID, Event{
		Type: "presence:player_reconnected",
		Data: map[string]string{"playerId": ref.PlayerID},
	})
	log.Info().Str("room", ref.RoomCode).Str("player", ref.PlayerID).Msg("player reconnected")
}

func (rt *Router) startGame(s Sender, data json.RawMessage) {
	var p roomCodePayload
	if !rt.decode(s, data, &p) {
		return
	}
	if _, ok := rt.requireHost(s, p.RoomCode); !ok {
		return
	}
	st, err := rt.reg.StartGame(p.RoomCode)
	if err != nil {
		rt.fail(s, err)
		return
	}
	room, ok := rt.reg.Room(p.RoomCode)
	if !ok {
		rt.fail(s, game.ErrRoomNotFound)
		return
	}

	// Each player gets their own hand; the journey pile stays hidden.
	for _, player := range room.Players {
		rt.transport.Unicast(player.ID, Event{Type: "game:started", Data: map[string]any{
			"gameState": viewOf(st),
			"yourHand":  rt.reg.PlayerHand(p.RoomCode, player.ID),
		}})
	}
	rt.broadcastTurnStarted(room, st)
	log.Info().Str("room", p.RoomCode).Int("players", len(room.Players)).Msg("game started")
}

func (rt *Router) playCard(s Sender, data json.RawMessage) {
	var p playCardPayload
	if !rt.decode(s, data, &p) {
		return
	}
	ref, ok := rt.actor(s)
	if !ok {
		return
	}
	card, _, err := rt.reg.PlayCard(p.RoomCode, ref.PlayerID, p.CardID)
	if err != nil {
		rt.fail(s, err)
		return
	}

	rt.transport.Broadcast(p.RoomCode, Event{Type: "game:card_played", Data: map[string]any{
		"playerId": ref.PlayerID,
		"card":     card,
	}})

	if !card.IsActionCard {
		return
	}
	rt.transport.Broadcast(p.RoomCode, Event{Type: "game:action_card_played", Data: map[string]any{
		"playerId":   ref.PlayerID,
		"actionType": card.ActionType,
		"card":       card,
	}})
	if card.ActionType == deck.ActionSharedTable {
		awaiting, question, err := rt.reg.SetPendingSharedTable(p.RoomCode, ref.PlayerID)
		if err != nil {
			rt.fail(s, err)
			return
		}
		if question == nil {
			question = &card
		}
		rt.transport.Broadcast(p.RoomCode, Event{Type: "game:shared_table_started", Data: map[string]any{
			"card":            question,
			"awaitingPlayers": awaiting,
		}})
	}
	// Referral, translator and experiment wait for the initiator's follow-up
	// event naming a target or a choice.
}

func (rt *Router) bridgePass(s Sender, data json.RawMessage) {
	var p bridgePassPayload
	if !rt.decode(s, data, &p) {
		return
	}
	ref, ok := rt.actor(s)
	if !ok {
		return
	}
	drawn, st, err := rt.reg.BridgePass(p.RoomCode, ref.PlayerID)
	if err != nil {
		rt.fail(s, err)
		return
	}
	if drawn != nil {
		// The drawn card is private; everyone else only learns a draw happened.
		rt.transport.Unicast(ref.PlayerID, Event{Type: "game:you_drew_card", Data: map[string]any{"card": drawn}})
		rt.transport.BroadcastExcept(p.RoomCode, ref.PlayerID, Event{
			Type: "game:card_dealt",
			Data: map[string]string{"playerId": ref.PlayerID},
		})
	}
	rt.transport.Broadcast(p.RoomCode, Event{Type: "game:bridge_pass", Data: map[string]string{
		"playerId": ref.PlayerID,
		"reason":   p.Reason,
	}})
	if room, ok := rt.reg.Room(p.RoomCode); ok {
		rt.broadcastTurnStarted(room, st)
	}
}

func (rt *Router) answerComplete(s Sender, data json.RawMessage) {
	var p answerCompletePayload
	if !rt.decode(s, data, &p) {
		return
	}
	ref, ok := rt.actor(s)
	if !ok {
		return
	}
	st, err := rt.reg.CompleteTurn(p.RoomCode)
	if err != nil {
		rt.fail(s, err)
		return
	}
	rt.finishTurn(p.RoomCode, ref.PlayerID, st)
}

func (rt *Router) actionReferral(s Sender, data json.RawMessage) {
	var p referralPayload
	if !rt.decode(s, data, &p) {
		return
	}
	ref, ok := rt.actor(s)
	if !ok {
		return
	}
	card, err := rt.reg.SetPendingReferral(p.RoomCode, ref.PlayerID, p.TargetPlayerID, p.CardID)
	if err != nil {
		rt.fail(s, err)
		return
	}
	targetName := rt.playerName(p.RoomCode, p.TargetPlayerID)
	rt.transport.Broadcast(p.RoomCode, Event{Type: "game:referral_target", Data: map[string]any{
		"targetPlayerId":   p.TargetPlayerID,
		"targetPlayerName": targetName,
		"card":             card,
	}})
}

func (rt *Router) actionTranslator(s Sender, data json.RawMessage) {
	var p translatorPayload
	if !rt.decode(s, data, &p) {
		return
	}
	ref, ok := rt.actor(s)
	if !ok {
		return
	}
	if err := rt.reg.SetPendingTranslator(p.RoomCode, ref.PlayerID, p.TargetPlayerID); err != nil {
		rt.fail(s, err)
		return
	}
	rt.transport.Broadcast(p.RoomCode, Event{Type: "game:translator_target", Data: map[string]string{
		"targetPlayerId":   p.TargetPlayerID,
		"targetPlayerName": rt.playerName(p.RoomCode, p.TargetPlayerID),
	}})
}

func (rt *Router) sharedTableComplete(s Sender, data json.RawMessage) {
	var p roomCodePayload
	if !rt.decode(s, data, &p) {
		return
	}
	ref, ok := rt.actor(s)
	if !ok {
		return
	}
	done, st, err := rt.reg.AcknowledgeSharedTable(p.RoomCode, ref.PlayerID)
	if err != nil {
		rt.fail(s, err)
		return
	}
	rt.transport.Broadcast(p.RoomCode, Event{
		Type: "game:shared_table_response",
		Data: map[string]string{"playerId": ref.PlayerID},
	})
	if done {
		rt.finishTurn(p.RoomCode, ref.PlayerID, st)
	}
}

func (rt *Router) translatorComplete(s Sender, data json.RawMessage) {
	var p roomCodePayload
	if !rt.decode(s, data, &p) {
		return
	}
	ref, ok := rt.actor(s)
	if !ok {
		return
	}
	st, err := rt.reg.CompleteTranslator(p.RoomCode)
	if err != nil {
		rt.fail(s, err)
		return
	}
	rt.finishTurn(p.RoomCode, ref.PlayerID, st)
}

func (rt *Router) actionExperiment(s Sender, data json.RawMessage) {
	var p experimentPayload
	if !rt.decode(s, data, &p) {
		return
	}
	ref, ok := rt.actor(s)
	if !ok {
		return
	}
	rt.transport.Broadcast(p.RoomCode, Event{Type: "game:experiment_choice", Data: map[string]any{
		"choice":         p.Choice,
		"targetPlayerId": p.TargetPlayerID,
	}})
	if p.Choice != "veto" {
		// A challenge resolves at the table; the turn completes through the
		// normal answer-complete path.
		return
	}
	// Veto redraws via the bridge pass rules.
	drawn, st, err := rt.reg.BridgePass(p.RoomCode, ref.PlayerID)
	if err != nil {
		rt.fail(s, err)
		return
	}
	if drawn != nil {
		rt.transport.Unicast(ref.PlayerID, Event{Type: "game:you_drew_card", Data: map[string]any{"card": drawn}})
		rt.transport.BroadcastExcept(p.RoomCode, ref.PlayerID, Event{
			Type: "game:card_dealt",
			Data: map[string]string{"playerId": ref.PlayerID},
		})
	}
	if room, ok := rt.reg.Room(p.RoomCode); ok {
		rt.broadcastTurnStarted(room, st)
	}
}

func (rt *Router) finalReflection(s Sender, data json.RawMessage) {
	var p reflectionPayload
	if !rt.decode(s, data, &p) {
		return
	}
	ref, ok := rt.actor(s)
	if !ok {
		return
	}
	st, err := rt.reg.SubmitReflection(p.RoomCode, ref.PlayerID, p.Reflection)
	if err != nil {
		rt.fail(s, err)
		return
	}
	rt.transport.Broadcast(p.RoomCode, Event{Type: "game:reflection_shared", Data: map[string]string{
		"playerId":   ref.PlayerID,
		"playerName": rt.playerName(p.RoomCode, ref.PlayerID),
		"reflection": p.Reflection,
	}})
	if st.Phase == game.PhaseCompleted {
		rt.transport.Broadcast(p.RoomCode, Event{Type: "game:completed", Data: map[string]any{
			"gameState": viewOf(st),
		}})
	}
}

func (rt *Router) setPaused(s Sender, data json.RawMessage, paused bool) {
	var p roomCodePayload
	if !rt.decode(s, data, &p) {
		return
	}
	ref, ok := rt.requireHost(s, p.RoomCode)
	if !ok {
		return
	}
	if err := rt.reg.SetPaused(p.RoomCode, paused); err != nil {
		rt.fail(s, err)
		return
	}
	name := "game:resumed"
	if paused {
		name = "game:paused"
	}
	rt.transport.Broadcast(p.RoomCode, Event{Type: name, Data: map[string]string{
		"byPlayerId": ref.PlayerID,
	}})
}

func (rt *Router) skipTurn(s Sender, data json.RawMessage) {
	var p roomCodePayload
	if !rt.decode(s, data, &p) {
		return
	}
	if _, ok := rt.requireHost(s, p.RoomCode); !ok {
		return
	}
	before, ok := rt.reg.GameState(p.RoomCode)
	if !ok {
		rt.fail(s, game.ErrGameNotStarted)
		return
	}
	skipped := before.CurrentPlayerID()
	st, err := rt.reg.CompleteTurn(p.RoomCode)
	if err != nil {
		rt.fail(s, err)
		return
	}
	rt.transport.Broadcast(p.RoomCode, Event{Type: "game:turn_skipped", Data: map[string]string{
		"skippedPlayerId": skipped,
	}})
	if room, ok := rt.reg.Room(p.RoomCode); ok && st.Phase == game.PhasePlaying {
		rt.broadcastTurnStarted(room, st)
	}
}

func (rt *Router) extendTimer(s Sender, data json.RawMessage) {
	var p extendTimerPayload
	if !rt.decode(s, data, &p) {
		return
	}
	if _, ok := rt.requireHost(s, p.RoomCode); !ok {
		return
	}
	rt.transport.Broadcast(p.RoomCode, Event{Type: "game:timer_extended", Data: map[string]int{
		"seconds": p.Seconds,
	}})
}

func (rt *Router) presence(s Sender, data json.RawMessage, event string, status game.PlayerStatus) {
	var p roomCodePayload
	if !rt.decode(s, data, &p) {
		return
	}
	ref, ok := rt.actor(s)
	if !ok {
		return
	}
	if status != "" {
		rt.reg.UpdatePlayerStatus(p.RoomCode, ref.PlayerID, status)
	}
	rt.transport.BroadcastExcept(p.RoomCode, ref.PlayerID, Event{
		Type: event,
		Data: map[string]string{"playerId": ref.PlayerID},
	})
}

// finishTurn emits the turn-complete sequence shared by every resolution
// path: turn_complete, then either final_ritual_started or turn_started.
func (rt *Router) finishTurn(roomCode, actorID string, st *game.State) {
	next := st.CurrentPlayerID()
	rt.transport.Broadcast(roomCode, Event{Type: "game:turn_complete", Data: map[string]string{
		"playerId":     actorID,
		"nextPlayerId": next,
	}})
	if st.Phase == game.PhaseFinalRitual {
		rt.transport.Broadcast(roomCode, Event{Type: "game:final_ritual_started"})
		return
	}
	if room, ok := rt.reg.Room(roomCode); ok {
		rt.broadcastTurnStarted(room, st)
	}
}

// playerHoldsTurn reports whether the turn currently points at playerID.
func (rt *Router) playerHoldsTurn(roomCode, playerID string) bool {
	st, ok := rt.reg.GameState(roomCode)
	return ok && st.Phase == game.PhasePlaying && st.CurrentPlayerID() == playerID
}

// announceTurn broadcasts the state the turn landed in after a departed
// seat was skipped: the next turn, or the final ritual if the skip ended
// the playing phase.
func (rt *Router) announceTurn(roomCode string) {
	st, ok := rt.reg.GameState(roomCode)
	if !ok {
		return
	}
	if st.Phase == game.PhaseFinalRitual {
		rt.transport.Broadcast(roomCode, Event{Type: "game:final_ritual_started"})
		return
	}
	if st.Phase != game.PhasePlaying {
		return
	}
	if room, ok := rt.reg.Room(roomCode); ok {
		rt.broadcastTurnStarted(room, st)
	}
}

func (rt *Router) broadcastTurnStarted(room *game.Room, st *game.State) {
	current := st.CurrentPlayerID()
	data := map[string]any{
		"playerId":   current,
		"playerName": rt.playerName(room.Code, current),
	}
	if room.Settings.TimerEnabled {
		seconds := room.Settings.TimerDurationSeconds
		if seconds <= 0 {
			seconds = rt.cfg.DefaultTimerSeconds
		}
		data["timerEndsAt"] = time.Now().Add(time.Duration(seconds) * time.Second)
	}
	rt.transport.Broadcast(room.Code, Event{Type: "game:turn_started", Data: data})
}

func (rt *Router) playerName(roomCode, playerID string) string {
	room, ok := rt.reg.Room(roomCode)
	if !ok {
		return ""
	}
	if p := room.Player(playerID); p != nil {
		return p.Name
	}
	return ""
}

// actor resolves the acting player from the connection identity. A frame
// from a connection with no session gets a targeted error.
func (rt *Router) actor(s Sender) (session.Ref, bool) {
	ref, ok := rt.reg.PlayerBySession(s.ID())
	if !ok {
		rt.fail(s, game.ErrPlayerNotFound)
		return session.Ref{}, false
	}
	return ref, true
}

// requireHost enforces host-only actions at the router boundary; the state
// machine never checks authorization.
func (rt *Router) requireHost(s Sender, roomCode string) (session.Ref, bool) {
	ref, ok := rt.actor(s)
	if !ok {
		return session.Ref{}, false
	}
	room, found := rt.reg.Room(roomCode)
	if !found {
		rt.fail(s, game.ErrRoomNotFound)
		return session.Ref{}, false
	}
	if room.HostID != ref.PlayerID {
		rt.fail(s, game.ErrNotHost)
		return session.Ref{}, false
	}
	return ref, true
}

func (rt *Router) decode(s Sender, data json.RawMessage, v any) bool {
	if len(data) == 0 {
		s.Push(errorEvent("Missing payload", codeValidationFailed))
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		s.Push(errorEvent("Invalid payload", codeValidationFailed))
		return false
	}
	if err := rt.validate.Struct(v); err != nil {
		s.Push(errorEvent("Invalid payload", codeValidationFailed))
		return false
	}
	return true
}

// fail converts a core failure into exactly one error notification.
func (rt *Router) fail(s Sender, err error) {
	var gerr *game.Error
	if errors.As(err, &gerr) {
		s.Push(errorEvent(gerr.Message, gerr.Code))
		return
	}
	log.Warn().Err(err).Msg("unexpected failure")
	s.Push(errorEvent("Request failed", codeInternal))
}

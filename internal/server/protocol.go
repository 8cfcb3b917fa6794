package server

import (
	"encoding/json"
	"time"

	"github.com/jeeminhan/Common-Lore/internal/deck"
	"github.com/jeeminhan/Common-Lore/internal/game"
)

// Envelope is the inbound websocket frame: an event name plus its payload.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Event is an outbound notification pushed to clients.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Inbound payloads. Shapes are checked by the validator before any core
// logic runs; an invalid frame never reaches the registry.

type createRoomPayload struct {
	HostName string         `json:"hostName" validate:"required,min=1,max=30"`
	RoomName string         `json:"roomName" validate:"omitempty,max=60"`
	Settings *game.Settings `json:"settings"`
}

type joinRoomPayload struct {
	RoomCode   string `json:"roomCode" validate:"required,len=8,uppercase"`
	PlayerName string `json:"playerName" validate:"required,min=1,max=30"`
}

type roomCodePayload struct {
	RoomCode string `json:"roomCode" validate:"required,len=8"`
}

type kickPayload struct {
	RoomCode string `json:"roomCode" validate:"required,len=8"`
	PlayerID string `json:"playerId" validate:"required"`
}

type settingsPayload struct {
	RoomCode string        `json:"roomCode" validate:"required,len=8"`
	Settings game.Settings `json:"settings"`
}

type playCardPayload struct {
	RoomCode string `json:"roomCode" validate:"required,len=8"`
	CardID   string `json:"cardId" validate:"required"`
}

type bridgePassPayload struct {
	RoomCode string `json:"roomCode" validate:"required,len=8"`
	Reason   string `json:"reason" validate:"required,oneof=pass under_construction"`
}

type answerCompletePayload struct {
	RoomCode  string `json:"roomCode" validate:"required,len=8"`
	Highlight bool   `json:"highlight"`
}

type referralPayload struct {
	RoomCode       string `json:"roomCode" validate:"required,len=8"`
	TargetPlayerID string `json:"targetPlayerId" validate:"required"`
	CardID         string `json:"cardId" validate:"required"`
}

type translatorPayload struct {
	RoomCode       string `json:"roomCode" validate:"required,len=8"`
	TargetPlayerID string `json:"targetPlayerId" validate:"required"`
}

type experimentPayload struct {
	RoomCode       string `json:"roomCode" validate:"required,len=8"`
	Choice         string `json:"choice" validate:"required,oneof=veto challenge"`
	TargetPlayerID string `json:"targetPlayerId" validate:"required_if=Choice challenge"`
}

type reflectionPayload struct {
	RoomCode   string `json:"roomCode" validate:"required,len=8"`
	Reflection string `json:"reflection" validate:"required,max=2000"`
}

type extendTimerPayload struct {
	RoomCode string `json:"roomCode" validate:"required,len=8"`
	Seconds  int    `json:"seconds" validate:"required,min=1,max=600"`
}

type resumePayload struct {
	SessionToken string `json:"sessionToken" validate:"required,len=32"`
}

// stateView is the client-facing game state. The journey pile contents are
// withheld; clients only learn how many cards remain.
type stateView struct {
	RoomID             string            `json:"roomId"`
	Phase              game.Phase        `json:"phase"`
	JourneyPileCount   int               `json:"journeyPileCount"`
	DiscardPile        []deck.Card       `json:"discardPile"`
	TurnOrder          []string          `json:"turnOrder"`
	CurrentPlayerIndex int               `json:"currentPlayerIndex"`
	CurrentCard        *deck.Card        `json:"currentCard,omitempty"`
	PendingAction      game.Pending      `json:"pendingAction,omitempty"`
	RoundNumber        int               `json:"roundNumber"`
	TotalRounds        int               `json:"totalRounds"`
	Paused             bool              `json:"paused"`
	Reflections        map[string]string `json:"reflections,omitempty"`
	TurnStartedAt      time.Time         `json:"turnStartedAt"`
}

func viewOf(st *game.State) stateView {
	return stateView{
		RoomID:             st.RoomID,
		Phase:              st.Phase,
		JourneyPileCount:   len(st.JourneyPile),
		DiscardPile:        st.DiscardPile,
		TurnOrder:          st.TurnOrder,
		CurrentPlayerIndex: st.CurrentPlayerIndex,
		CurrentCard:        st.CurrentCard,
		PendingAction:      st.Pending,
		RoundNumber:        st.RoundNumber,
		TotalRounds:        st.TotalRounds,
		Paused:             st.Paused,
		Reflections:        st.Reflections,
		TurnStartedAt:      st.TurnStartedAt,
	}
}

// roomView hides other players' hands: each player entry carries a hand
// count instead of card contents.
type roomView struct {
	ID         string        `json:"id"`
	Code       string        `json:"code"`
	Name       string        `json:"name,omitempty"`
	HostID     string        `json:"hostId"`
	Players    []playerView  `json:"players"`
	MaxPlayers int           `json:"maxPlayers"`
	Settings   game.Settings `json:"settings"`
	CreatedAt  time.Time     `json:"createdAt"`
	ExpiresAt  time.Time     `json:"expiresAt"`
}

type playerView struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	IsHost        bool              `json:"isHost"`
	IsFacilitator bool              `json:"isFacilitator"`
	Status        game.PlayerStatus `json:"status"`
	HandCount     int               `json:"handCount"`
	CardsPlayed   int               `json:"cardsPlayed"`
	JoinedAt      time.Time         `json:"joinedAt"`
}

func viewOfRoom(room *game.Room) roomView {
	players := make([]playerView, len(room.Players))
	for i, p := range room.Players {
		players[i] = playerView{
			ID:            p.ID,
			Name:          p.Name,
			IsHost:        p.IsHost,
			IsFacilitator: p.IsFacilitator,
			Status:        p.Status,
			HandCount:     len(p.Hand),
			CardsPlayed:   p.CardsPlayed,
			JoinedAt:      p.JoinedAt,
		}
	}
	return roomView{
		ID:         room.ID,
		Code:       room.Code,
		Name:       room.Name,
		HostID:     room.HostID,
		Players:    players,
		MaxPlayers: room.MaxPlayers,
		Settings:   room.Settings,
		CreatedAt:  room.CreatedAt,
		ExpiresAt:  room.ExpiresAt,
	}
}

func viewOfPlayer(p *game.Player) playerView {
	return playerView{
		ID:            p.ID,
		Name:          p.Name,
		IsHost:        p.IsHost,
		IsFacilitator: p.IsFacilitator,
		Status:        p.Status,
		HandCount:     len(p.Hand),
		CardsPlayed:   p.CardsPlayed,
		JoinedAt:      p.JoinedAt,
	}
}

package game

import (
	"time"

	"github.com/jeeminhan/Common-Lore/internal/deck"
)

// Phase is the game lifecycle. Dealing and action_resolution exist for
// clients that render them; the server collapses both into playing.
type Phase string

const (
	PhaseLobby            Phase = "lobby"
	PhaseDealing          Phase = "dealing"
	PhasePlaying          Phase = "playing"
	PhaseActionResolution Phase = "action_resolution"
	PhaseFinalRitual      Phase = "final_ritual"
	PhaseCompleted        Phase = "completed"
)

// Pending is the closed union over in-flight action-card effects. The
// experiment ace resolves synchronously and has no pending variant. At most
// one Pending is outstanding per room.
type Pending interface{ isPending() }

// PendingReferral waits for the nominated target to answer the chosen card.
type PendingReferral struct {
	InitiatorID string    `json:"initiatorId"`
	TargetID    string    `json:"targetPlayerId"`
	Card        deck.Card `json:"cardToAnswer"`
}

// PendingSharedTable waits for every non-initiator to acknowledge a
// response. Completed uses set semantics; re-acknowledging is a no-op.
type PendingSharedTable struct {
	InitiatorID string          `json:"initiatorId"`
	Awaiting    []string        `json:"awaitingResponses"`
	Completed   map[string]bool `json:"completedResponses"`
}

// PendingTranslator waits for a single explanation from the target.
type PendingTranslator struct {
	InitiatorID string `json:"initiatorId"`
	TargetID    string `json:"targetPlayerId"`
}

func (*PendingReferral) isPending()    {}
func (*PendingSharedTable) isPending() {}
func (*PendingTranslator) isPending()  {}

// State is the per-room game state. TurnOrder is fixed at game start and
// never resized; players who leave mid-game keep their slot and their turns
// are skipped during advancement.
type State struct {
	RoomID             string            `json:"roomId"`
	Phase              Phase             `json:"phase"`
	JourneyPile        []deck.Card       `json:"journeyPile"`
	DiscardPile        []deck.Card       `json:"discardPile"`
	TurnOrder          []string          `json:"turnOrder"`
	CurrentPlayerIndex int               `json:"currentPlayerIndex"`
	CurrentCard        *deck.Card        `json:"currentCard,omitempty"`
	Pending            Pending           `json:"pendingAction,omitempty"`
	RoundNumber        int               `json:"roundNumber"`
	TotalRounds        int               `json:"totalRounds"`
	Paused             bool              `json:"paused"`
	Reflections        map[string]string `json:"reflections,omitempty"`
	StartedAt          time.Time         `json:"startedAt"`
	TurnStartedAt      time.Time         `json:"turnStartedAt"`
	LastActionAt       time.Time         `json:"lastActionAt"`
}

// CurrentPlayerID returns the id whose turn it is.
func (s *State) CurrentPlayerID() string {
	return s.TurnOrder[s.CurrentPlayerIndex]
}

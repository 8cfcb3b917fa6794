package game

import (
	"time"

	"github.com/jeeminhan/Common-Lore/internal/deck"
)

// PlayerStatus tracks connection presence. A dropped transport flips a
// player to disconnected; it never removes them, so they can reconnect.
type PlayerStatus string

const (
	StatusConnected    PlayerStatus = "connected"
	StatusDisconnected PlayerStatus = "disconnected"
	StatusAway         PlayerStatus = "away"
)

// Player is a seat in a room. Exactly one player per room has IsHost set.
type Player struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	IsHost        bool         `json:"isHost"`
	IsFacilitator bool         `json:"isFacilitator"`
	Status        PlayerStatus `json:"status"`
	Hand          []deck.Card  `json:"hand"`
	CardsPlayed   int          `json:"cardsPlayed"`
	JoinedAt      time.Time    `json:"joinedAt"`
	LastActiveAt  time.Time    `json:"lastActiveAt"`
}

// Settings are the host-tunable room options.
type Settings struct {
	TimerEnabled            bool   `json:"timerEnabled"`
	TimerDurationSeconds    int    `json:"timerDurationSeconds"`
	AudioEnabled            bool   `json:"audioEnabled"`
	FacilitatorToolsEnabled bool   `json:"facilitatorToolsEnabled"`
	AllowSpectators         bool   `json:"allowSpectators"`
	Language                string `json:"language"`
}

// DefaultSettings returns the room defaults applied before any override.
func DefaultSettings() Settings {
	return Settings{
		TimerEnabled:            false,
		TimerDurationSeconds:    120,
		AudioEnabled:            true,
		FacilitatorToolsEnabled: true,
		AllowSpectators:         false,
		Language:                "en",
	}
}

// Room is one table of players. HostID always references a member of
// Players; host role transfers to the first remaining player on departure.
type Room struct {
	ID         string    `json:"id"`
	Code       string    `json:"code"`
	Name       string    `json:"name,omitempty"`
	HostID     string    `json:"hostId"`
	Players    []*Player `json:"players"`
	MaxPlayers int       `json:"maxPlayers"`
	Settings   Settings  `json:"settings"`
	CreatedAt  time.Time `json:"createdAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// Player returns the member with the given id, or nil.
func (r *Room) Player(id string) *Player {
	for _, p := range r.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// HasPlayer reports whether id is currently seated in the room.
func (r *Room) HasPlayer(id string) bool { return r.Player(id) != nil }

// Package game holds the turn-based state machine for a Common Lore table.
// Operations here are pure in-memory mutations of a single room's state; the
// session registry serializes calls per room, so nothing in this package
// locks.
package game

import (
	"time"

	"github.com/jeeminhan/Common-Lore/internal/deck"
)

// Start transitions lobby -> playing: builds and shuffles the deck, deals
// cardsPerPlayer to each player round-robin, fixes TurnOrder to the current
// seating order and leaves the undealt tail as the journey pile.
func Start(room *Room, cardsPerPlayer int) (*State, error) {
	if len(room.Players) < 2 {
		return nil, ErrNotEnoughPlayers
	}

	cards := deck.Shuffle(deck.Build())
	hands, remaining, err := deck.Deal(cards, len(room.Players), cardsPerPlayer)
	if err != nil {
		return nil, ErrInsufficientCards
	}

	order := make([]string, len(room.Players))
	for i, p := range room.Players {
		p.Hand = hands[i]
		p.CardsPlayed = 0
		order[i] = p.ID
	}

	now := time.Now()
	return &State{
		RoomID:             room.ID,
		Phase:              PhasePlaying,
		JourneyPile:        remaining,
		DiscardPile:        make([]deck.Card, 0, len(remaining)),
		TurnOrder:          order,
		CurrentPlayerIndex: 0,
		RoundNumber:        1,
		TotalRounds:        cardsPerPlayer,
		Reflections:        make(map[string]string),
		StartedAt:          now,
		TurnStartedAt:      now,
		LastActionAt:       now,
	}, nil
}

// PlayCard moves the named card from the acting player's hand to the table.
// The state is untouched when the turn or card check fails.
func PlayCard(room *Room, st *State, playerID, cardID string) (deck.Card, error) {
	if st.Phase != PhasePlaying {
		return deck.Card{}, ErrWrongPhase
	}
	if st.CurrentPlayerID() != playerID {
		return deck.Card{}, ErrNotYourTurn
	}
	player := room.Player(playerID)
	if player == nil {
		return deck.Card{}, ErrPlayerNotFound
	}

	idx := -1
	for i, c := range player.Hand {
		if c.ID == cardID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return deck.Card{}, ErrCardNotInHand
	}

	card := player.Hand[idx]
	player.Hand = append(player.Hand[:idx], player.Hand[idx+1:]...)
	player.CardsPlayed++
	player.LastActiveAt = time.Now()

	st.CurrentCard = &card
	st.LastActionAt = time.Now()
	return card, nil
}

// CompleteTurn discards the table card, advances to the next seated player
// and runs the round and game completion checks.
func CompleteTurn(room *Room, st *State) {
	if st.CurrentCard != nil {
		st.DiscardPile = append(st.DiscardPile, *st.CurrentCard)
		st.CurrentCard = nil
	}
	advanceTurn(room, st)

	// Round completes once everyone has played roundNumber cards.
	if allPlayed(room, st.RoundNumber) {
		st.RoundNumber++
	}
	checkFinalRitual(room, st)
}

// BridgePass lets the current player skip their question by drawing a
// replacement from the journey pile. Drawing from an empty pile is a valid
// no-card draw. The turn advances without touching the discard pile.
func BridgePass(room *Room, st *State, playerID string) (*deck.Card, error) {
	if st.Phase != PhasePlaying {
		return nil, ErrWrongPhase
	}
	if st.CurrentPlayerID() != playerID {
		return nil, ErrNotYourTurn
	}
	player := room.Player(playerID)
	if player == nil {
		return nil, ErrPlayerNotFound
	}

	drawn, rest := deck.DrawOne(st.JourneyPile)
	if drawn != nil {
		st.JourneyPile = rest
		player.Hand = append(player.Hand, *drawn)
	}
	player.LastActiveAt = time.Now()
	advanceTurn(room, st)
	return drawn, nil
}

// SkipDeparted moves the turn off a seat whose player has left the room.
// Their table card and any action they initiated are abandoned with them.
// No-op outside the playing phase or while the seat is still occupied.
func SkipDeparted(room *Room, st *State) bool {
	if st.Phase != PhasePlaying || room.HasPlayer(st.CurrentPlayerID()) {
		return false
	}
	st.CurrentCard = nil
	st.Pending = nil
	advanceTurn(room, st)
	if allPlayed(room, st.RoundNumber) {
		st.RoundNumber++
	}
	checkFinalRitual(room, st)
	return true
}

// AcknowledgeSharedTable records one player's response to a shared table.
// Duplicate acknowledgments are no-ops. It reports whether every awaited
// player has now responded; the caller clears Pending and completes the turn
// exactly once on done.
func AcknowledgeSharedTable(st *State, playerID string) (done bool, err error) {
	pending, ok := st.Pending.(*PendingSharedTable)
	if !ok {
		return false, ErrNoPendingAction
	}
	if pending.Completed == nil {
		pending.Completed = make(map[string]bool)
	}
	// Only awaited players count toward completion.
	for _, id := range pending.Awaiting {
		if id == playerID {
			pending.Completed[playerID] = true
			break
		}
	}
	st.LastActionAt = time.Now()
	return len(pending.Completed) >= len(pending.Awaiting), nil
}

// CompleteTranslator clears a pending translator effect. A single
// acknowledgment resolves it.
func CompleteTranslator(st *State) error {
	if _, ok := st.Pending.(*PendingTranslator); !ok {
		return ErrNoPendingAction
	}
	st.Pending = nil
	st.LastActionAt = time.Now()
	return nil
}

// SubmitReflection stores a player's closing reflection during the final
// ritual. Resubmission replaces the stored text. Once every seat in
// TurnOrder that is still occupied has reflected, the game completes.
func SubmitReflection(room *Room, st *State, playerID, text string) error {
	if st.Phase != PhaseFinalRitual && st.Phase != PhaseCompleted {
		return ErrWrongPhase
	}
	if !room.HasPlayer(playerID) {
		return ErrPlayerNotFound
	}
	if st.Reflections == nil {
		st.Reflections = make(map[string]string)
	}
	st.Reflections[playerID] = text
	st.LastActionAt = time.Now()

	if st.Phase == PhaseFinalRitual {
		all := true
		for _, p := range room.Players {
			if _, ok := st.Reflections[p.ID]; !ok {
				all = false
				break
			}
		}
		if all {
			st.Phase = PhaseCompleted
		}
	}
	return nil
}

// advanceTurn moves to the next slot in TurnOrder, skipping seats whose
// player has left the room. TurnOrder is never resized mid-game, so the
// walk is bounded by its length.
func advanceTurn(room *Room, st *State) {
	n := len(st.TurnOrder)
	for i := 0; i < n; i++ {
		st.CurrentPlayerIndex = (st.CurrentPlayerIndex + 1) % n
		if room.HasPlayer(st.CurrentPlayerID()) {
			break
		}
	}
	now := time.Now()
	st.TurnStartedAt = now
	st.LastActionAt = now
}

func allPlayed(room *Room, round int) bool {
	for _, p := range room.Players {
		if p.CardsPlayed < round {
			return false
		}
	}
	return true
}

// checkFinalRitual flips playing -> final_ritual once every remaining hand
// is empty. Re-checking never regresses the phase.
func checkFinalRitual(room *Room, st *State) {
	if st.Phase != PhasePlaying {
		return
	}
	for _, p := range room.Players {
		if len(p.Hand) > 0 {
			return
		}
	}
	st.Phase = PhaseFinalRitual
}

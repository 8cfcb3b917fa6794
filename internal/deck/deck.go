// Package deck builds, shuffles and deals the Common Lore prompt deck.
// Everything here is a pure function; state lives with the caller.
package deck

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

// ErrInsufficientCards is returned by Deal when the deck cannot cover
// playerCount*perPlayer cards.
var ErrInsufficientCards = errors.New("not enough cards in deck")

// Build returns the full 52-card deck in suit-major order. Aces carry the
// suit's action effect and no prompt; every other rank carries its prompt.
func Build() []Card {
	cards := make([]Card, 0, len(Suits)*len(Ranks))
	for _, suit := range Suits {
		for _, rank := range Ranks {
			c := Card{
				ID:   fmt.Sprintf("%s-%s", suit, rank),
				Suit: suit,
				Rank: rank,
			}
			if rank == Ace {
				spec := actionCards[suit]
				c.IsActionCard = true
				c.ActionType = spec.Type
				c.ActionDescription = spec.Description
			} else {
				c.Prompt = suitPrompts[suit][rank]
			}
			cards = append(cards, c)
		}
	}
	return cards
}

// Shuffle returns a new permutation of the deck using a Fisher-Yates walk
// seeded from crypto/rand. A CSPRNG is required here: draw order must not be
// predictable by the facilitator.
func Shuffle(cards []Card) []Card {
	out := make([]Card, len(cards))
	copy(out, cards)
	for i := len(out) - 1; i > 0; i-- {
		j := randIndex(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func randIndex(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand failing means the process has no usable entropy source.
		panic(fmt.Sprintf("deck: read random index: %v", err))
	}
	return int(v.Int64())
}

// Deal distributes perPlayer cards to each of playerCount hands round-robin:
// card k lands in hand k mod playerCount. The undealt tail becomes the
// journey pile.
func Deal(cards []Card, playerCount, perPlayer int) (hands [][]Card, remaining []Card, err error) {
	total := playerCount * perPlayer
	if len(cards) < total {
		return nil, nil, ErrInsufficientCards
	}
	hands = make([][]Card, playerCount)
	for i := range hands {
		hands[i] = make([]Card, 0, perPlayer)
	}
	for i := 0; i < total; i++ {
		hands[i%playerCount] = append(hands[i%playerCount], cards[i])
	}
	remaining = make([]Card, len(cards)-total)
	copy(remaining, cards[total:])
	return hands, remaining, nil
}

// DrawOne pops the front card of a pile. An empty pile yields a nil card;
// drawing nothing is a normal game event, not an error.
func DrawOne(pile []Card) (*Card, []Card) {
	if len(pile) == 0 {
		return nil, nil
	}
	card := pile[0]
	return &card, pile[1:]
}

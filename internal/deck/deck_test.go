package deck

import (
	"errors"
	"testing"
)

func TestBuildIntegrity(t *testing.T) {
	cards := Build()
	if len(cards) != 52 {
		t.Fatalf("deck size = %d, want 52", len(cards))
	}

	ids := make(map[string]bool)
	perSuit := make(map[Suit]int)
	perRank := make(map[Rank]int)
	actions := 0
	for _, c := range cards {
		if ids[c.ID] {
			t.Errorf("duplicate card id %q", c.ID)
		}
		ids[c.ID] = true
		perSuit[c.Suit]++
		perRank[c.Rank]++
		if c.IsActionCard {
			actions++
			if c.Rank != Ace {
				t.Errorf("action card %q is not an ace", c.ID)
			}
			if c.ActionType == "" || c.ActionDescription == "" {
				t.Errorf("action card %q missing action info", c.ID)
			}
			if c.Prompt != "" {
				t.Errorf("action card %q has a prompt", c.ID)
			}
		} else if c.Prompt == "" {
			t.Errorf("card %q has empty prompt", c.ID)
		}
	}
	for suit, n := range perSuit {
		if n != 13 {
			t.Errorf("suit %s has %d cards, want 13", suit, n)
		}
	}
	for rank, n := range perRank {
		if n != 4 {
			t.Errorf("rank %s has %d cards, want 4", rank, n)
		}
	}
	if actions != 4 {
		t.Errorf("deck has %d action cards, want 4", actions)
	}

	types := make(map[ActionType]bool)
	for _, c := range cards {
		if c.IsActionCard {
			types[c.ActionType] = true
		}
	}
	if len(types) != 4 {
		t.Errorf("deck has %d distinct action types, want 4", len(types))
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	original := Build()
	shuffled := Shuffle(original)

	if len(shuffled) != len(original) {
		t.Fatalf("shuffled size = %d, want %d", len(shuffled), len(original))
	}
	seen := make(map[string]int)
	for _, c := range original {
		seen[c.ID]++
	}
	for _, c := range shuffled {
		seen[c.ID]--
	}
	for id, n := range seen {
		if n != 0 {
			t.Errorf("card %q count mismatch after shuffle", id)
		}
	}

	// Shuffle must not mutate its input.
	rebuilt := Build()
	for i := range original {
		if original[i].ID != rebuilt[i].ID {
			t.Fatalf("shuffle mutated input at index %d", i)
		}
	}
}

func TestShuffleFixedPointBias(t *testing.T) {
	// Over many shuffles the expected number of fixed points per shuffle is
	// 1, so 200 shuffles of 52 cards should stay far below 52 each. A lazy
	// identity "shuffle" would fail immediately.
	original := Build()
	const rounds = 200
	fixed := 0
	for r := 0; r < rounds; r++ {
		shuffled := Shuffle(original)
		for i := range shuffled {
			if shuffled[i].ID == original[i].ID {
				fixed++
			}
		}
	}
	// Mean is rounds*1; allow a generous margin before calling bias.
	if fixed > rounds*3 {
		t.Errorf("observed %d fixed points over %d shuffles, expected around %d", fixed, rounds, rounds)
	}
}

func TestDealExactness(t *testing.T) {
	cards := Build()
	const players, per = 3, 5

	hands, remaining, err := Deal(cards, players, per)
	if err != nil {
		t.Fatalf("Deal: %v", err)
	}
	if len(hands) != players {
		t.Fatalf("hands = %d, want %d", len(hands), players)
	}
	for i, hand := range hands {
		if len(hand) != per {
			t.Errorf("hand %d size = %d, want %d", i, len(hand), per)
		}
		// Round-robin: hand i gets original indices i, i+players, i+2*players...
		for k, c := range hand {
			want := cards[i+k*players].ID
			if c.ID != want {
				t.Errorf("hand %d card %d = %q, want %q", i, k, c.ID, want)
			}
		}
	}
	if len(remaining) != len(cards)-players*per {
		t.Errorf("remaining = %d, want %d", len(remaining), len(cards)-players*per)
	}

	// Every dealt card appears in exactly one hand.
	seen := make(map[string]int)
	for _, hand := range hands {
		for _, c := range hand {
			seen[c.ID]++
		}
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("card %q dealt %d times", id, n)
		}
	}
}

func TestDealInsufficientCards(t *testing.T) {
	cards := Build()[:9]
	if _, _, err := Deal(cards, 2, 5); !errors.Is(err, ErrInsufficientCards) {
		t.Fatalf("err = %v, want ErrInsufficientCards", err)
	}
}

func TestDrawOne(t *testing.T) {
	pile := Build()[:3]
	card, rest := DrawOne(pile)
	if card == nil || card.ID != pile[0].ID {
		t.Fatalf("drew %v, want %q", card, pile[0].ID)
	}
	if len(rest) != 2 {
		t.Fatalf("remaining = %d, want 2", len(rest))
	}

	card, rest = DrawOne(nil)
	if card != nil || rest != nil {
		t.Fatalf("empty draw returned %v, %v", card, rest)
	}
}

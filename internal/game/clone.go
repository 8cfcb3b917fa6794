package game

import "github.com/jeeminhan/Common-Lore/internal/deck"

// Clone returns a deep copy of the room. The registry hands out clones so
// callers never hold live pointers into registry-owned state.
func (r *Room) Clone() *Room {
	out := *r
	out.Players = make([]*Player, len(r.Players))
	for i, p := range r.Players {
		cp := *p
		cp.Hand = append([]deck.Card(nil), p.Hand...)
		out.Players[i] = &cp
	}
	return &out
}

// Clone returns a deep copy of the state, including the pending action.
func (s *State) Clone() *State {
	out := *s
	out.JourneyPile = append([]deck.Card(nil), s.JourneyPile...)
	out.DiscardPile = append([]deck.Card(nil), s.DiscardPile...)
	out.TurnOrder = append([]string(nil), s.TurnOrder...)
	if s.CurrentCard != nil {
		card := *s.CurrentCard
		out.CurrentCard = &card
	}
	if s.Reflections != nil {
		out.Reflections = make(map[string]string, len(s.Reflections))
		for k, v := range s.Reflections {
			out.Reflections[k] = v
		}
	}
	switch p := s.Pending.(type) {
	case *PendingReferral:
		cp := *p
		out.Pending = &cp
	case *PendingTranslator:
		cp := *p
		out.Pending = &cp
	case *PendingSharedTable:
		cp := *p
		cp.Awaiting = append([]string(nil), p.Awaiting...)
		cp.Completed = make(map[string]bool, len(p.Completed))
		for k, v := range p.Completed {
			cp.Completed[k] = v
		}
		out.Pending = &cp
	}
	return &out
}

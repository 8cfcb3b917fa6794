package game

import (
	"fmt"
	"testing"

	"github.com/jeeminhan/Common-Lore/internal/deck"
)

func testRoom(n int) *Room {
	room := &Room{
		ID:         "room-1",
		Code:       "ABCDEFGH",
		MaxPlayers: 6,
		Settings:   DefaultSettings(),
	}
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("p%d", i+1)
		p := &Player{ID: id, Name: "Player " + id, Status: StatusConnected}
		if i == 0 {
			p.IsHost = true
			p.IsFacilitator = true
			room.HostID = id
		}
		room.Players = append(room.Players, p)
	}
	return room
}

func TestStartDealsHandsAndFixesTurnOrder(t *testing.T) {
	room := testRoom(3)
	st, err := Start(room, 5)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if st.Phase != PhasePlaying {
		t.Fatalf("phase = %q, want %q", st.Phase, PhasePlaying)
	}
	for _, p := range room.Players {
		if len(p.Hand) != 5 {
			t.Errorf("player %s hand = %d cards, want 5", p.ID, len(p.Hand))
		}
	}
	if got, want := len(st.JourneyPile), 52-3*5; got != want {
		t.Errorf("journey pile = %d, want %d", got, want)
	}
	for i, p := range room.Players {
		if st.TurnOrder[i] != p.ID {
			t.Errorf("turn order[%d] = %s, want %s", i, st.TurnOrder[i], p.ID)
		}
	}
	if st.RoundNumber != 1 || st.TotalRounds != 5 {
		t.Errorf("round = %d/%d, want 1/5", st.RoundNumber, st.TotalRounds)
	}
	if st.CurrentPlayerID() != "p1" {
		t.Errorf("current player = %s, want p1", st.CurrentPlayerID())
	}
}

func TestStartRequiresTwoPlayers(t *testing.T) {
	if _, err := Start(testRoom(1), 5); err != ErrNotEnoughPlayers {
		t.Fatalf("err = %v, want %v", err, ErrNotEnoughPlayers)
	}
}

func TestPlayCardEnforcesTurnAndHand(t *testing.T) {
	room := testRoom(2)
	st, err := Start(room, 3)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	if _, err := PlayCard(room, st, "p2", room.Players[1].Hand[0].ID); err != ErrNotYourTurn {
		t.Fatalf("out-of-turn err = %v, want %v", err, ErrNotYourTurn)
	}
	if _, err := PlayCard(room, st, "p1", "not-a-card"); err != ErrCardNotInHand {
		t.Fatalf("bad card err = %v, want %v", err, ErrCardNotInHand)
	}
	if st.CurrentCard != nil {
		t.Fatal("failed play mutated state")
	}

	want := room.Players[0].Hand[0]
	card, err := PlayCard(room, st, "p1", want.ID)
	if err != nil {
		t.Fatalf("PlayCard: %v", err)
	}
	if card.ID != want.ID {
		t.Errorf("played %s, want %s", card.ID, want.ID)
	}
	if len(room.Players[0].Hand) != 2 {
		t.Errorf("hand = %d cards after play, want 2", len(room.Players[0].Hand))
	}
	if room.Players[0].CardsPlayed != 1 {
		t.Errorf("cardsPlayed = %d, want 1", room.Players[0].CardsPlayed)
	}
	if st.CurrentCard == nil || st.CurrentCard.ID != want.ID {
		t.Error("current card not set to the played card")
	}
}

func TestCompleteTurnAdvancesAndCountsRounds(t *testing.T) {
	room := testRoom(2)
	st, err := Start(room, 3)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	for _, id := range []string{"p1", "p2"} {
		p := room.Player(id)
		if _, err := PlayCard(room, st, id, p.Hand[0].ID); err != nil {
			t.Fatalf("PlayCard %s: %v", id, err)
		}
		CompleteTurn(room, st)
	}
	if st.RoundNumber != 2 {
		t.Errorf("round = %d after full cycle, want 2", st.RoundNumber)
	}
	if got := len(st.DiscardPile); got != 2 {
		t.Errorf("discard pile = %d, want 2", got)
	}
	if st.CurrentPlayerID() != "p1" {
		t.Errorf("current = %s, want p1", st.CurrentPlayerID())
	}
}

func TestAdvanceTurnSkipsDepartedPlayers(t *testing.T) {
	room := testRoom(3)
	st, err := Start(room, 2)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	// p2 leaves; their TurnOrder slot stays but turns skip it.
	room.Players = append(room.Players[:1], room.Players[2:]...)

	if _, err := PlayCard(room, st, "p1", room.Player("p1").Hand[0].ID); err != nil {
		t.Fatalf("PlayCard: %v", err)
	}
	CompleteTurn(room, st)
	if st.CurrentPlayerID() != "p3" {
		t.Fatalf("current = %s, want p3 (p2 departed)", st.CurrentPlayerID())
	}
	if len(st.TurnOrder) != 3 {
		t.Errorf("turn order resized to %d, want 3", len(st.TurnOrder))
	}
}

func TestBridgePassDrawsReplacement(t *testing.T) {
	room := testRoom(2)
	st, err := Start(room, 3)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	pileBefore := len(st.JourneyPile)
	handBefore := len(room.Player("p1").Hand)
	drawn, err := BridgePass(room, st, "p1")
	if err != nil {
		t.Fatalf("BridgePass: %v", err)
	}
	if drawn == nil {
		t.Fatal("expected a drawn card")
	}
	if len(st.JourneyPile) != pileBefore-1 {
		t.Errorf("journey pile = %d, want %d", len(st.JourneyPile), pileBefore-1)
	}
	if len(room.Player("p1").Hand) != handBefore+1 {
		t.Errorf("hand = %d, want %d", len(room.Player("p1").Hand), handBefore+1)
	}
	if len(st.DiscardPile) != 0 {
		t.Error("bridge pass touched the discard pile")
	}
	if st.CurrentPlayerID() != "p2" {
		t.Errorf("current = %s, want p2", st.CurrentPlayerID())
	}
}

func TestBridgePassOnEmptyPile(t *testing.T) {
	room := testRoom(2)
	st, err := Start(room, 3)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	st.JourneyPile = nil

	drawn, err := BridgePass(room, st, "p1")
	if err != nil {
		t.Fatalf("BridgePass: %v", err)
	}
	if drawn != nil {
		t.Fatal("drew a card from an empty pile")
	}
	if st.CurrentPlayerID() != "p2" {
		t.Errorf("current = %s, want p2", st.CurrentPlayerID())
	}
}

func TestSkipDepartedMovesHeldTurn(t *testing.T) {
	room := testRoom(3)
	st, err := Start(room, 2)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	// Occupied seat: nothing to skip.
	if SkipDeparted(room, st) {
		t.Fatal("skipped an occupied seat")
	}

	// p1 leaves mid-turn with a card on the table and an action in flight.
	if _, err := PlayCard(room, st, "p1", room.Player("p1").Hand[0].ID); err != nil {
		t.Fatalf("PlayCard: %v", err)
	}
	st.Pending = &PendingTranslator{InitiatorID: "p1", TargetID: "p2"}
	room.Players = room.Players[1:]

	if !SkipDeparted(room, st) {
		t.Fatal("departed seat not skipped")
	}
	if st.CurrentPlayerID() != "p2" {
		t.Errorf("current = %s, want p2", st.CurrentPlayerID())
	}
	if st.CurrentCard != nil {
		t.Error("departed player's table card not abandoned")
	}
	if st.Pending != nil {
		t.Error("departed player's pending action not abandoned")
	}
	if len(st.DiscardPile) != 0 {
		t.Error("abandoned card reached the discard pile")
	}
}

func TestSharedTableCompletion(t *testing.T) {
	room := testRoom(3)
	st, err := Start(room, 2)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	st.Pending = &PendingSharedTable{
		InitiatorID: "p1",
		Awaiting:    []string{"p2", "p3"},
		Completed:   make(map[string]bool),
	}

	// The initiator's own ack never counts.
	done, err := AcknowledgeSharedTable(st, "p1")
	if err != nil {
		t.Fatalf("ack p1: %v", err)
	}
	if done {
		t.Fatal("initiator ack completed the table")
	}

	for i := 0; i < 2; i++ { // duplicate ack is a no-op
		done, err = AcknowledgeSharedTable(st, "p2")
		if err != nil {
			t.Fatalf("ack p2: %v", err)
		}
		if done {
			t.Fatal("completed before every awaited player responded")
		}
	}

	done, err = AcknowledgeSharedTable(st, "p3")
	if err != nil {
		t.Fatalf("ack p3: %v", err)
	}
	if !done {
		t.Fatal("not done after the last awaited response")
	}
}

func TestSharedTableWithoutPending(t *testing.T) {
	room := testRoom(2)
	st, err := Start(room, 2)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := AcknowledgeSharedTable(st, "p2"); err != ErrNoPendingAction {
		t.Fatalf("err = %v, want %v", err, ErrNoPendingAction)
	}
}

func TestTranslatorCompletion(t *testing.T) {
	room := testRoom(2)
	st, err := Start(room, 2)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := CompleteTranslator(st); err != ErrNoPendingAction {
		t.Fatalf("err = %v, want %v", err, ErrNoPendingAction)
	}
	st.Pending = &PendingTranslator{InitiatorID: "p1", TargetID: "p2"}
	if err := CompleteTranslator(st); err != nil {
		t.Fatalf("CompleteTranslator: %v", err)
	}
	if st.Pending != nil {
		t.Fatal("pending not cleared")
	}
}

func TestFinalRitualAndReflections(t *testing.T) {
	room := testRoom(2)
	st, err := Start(room, 1)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	if err := SubmitReflection(room, st, "p1", "too early"); err != ErrWrongPhase {
		t.Fatalf("reflection during play err = %v, want %v", err, ErrWrongPhase)
	}

	// One card each: playing both empties every hand.
	for _, id := range []string{"p1", "p2"} {
		p := room.Player(id)
		if _, err := PlayCard(room, st, id, p.Hand[0].ID); err != nil {
			t.Fatalf("PlayCard %s: %v", id, err)
		}
		CompleteTurn(room, st)
	}
	if st.Phase != PhaseFinalRitual {
		t.Fatalf("phase = %q after last card, want %q", st.Phase, PhaseFinalRitual)
	}

	if err := SubmitReflection(room, st, "p1", "first words"); err != nil {
		t.Fatalf("SubmitReflection: %v", err)
	}
	if err := SubmitReflection(room, st, "p1", "replaced words"); err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if st.Phase != PhaseFinalRitual {
		t.Fatal("game completed before everyone reflected")
	}
	if st.Reflections["p1"] != "replaced words" {
		t.Errorf("reflection = %q, want replacement", st.Reflections["p1"])
	}

	if err := SubmitReflection(room, st, "p2", "closing"); err != nil {
		t.Fatalf("SubmitReflection p2: %v", err)
	}
	if st.Phase != PhaseCompleted {
		t.Fatalf("phase = %q, want %q", st.Phase, PhaseCompleted)
	}
}

func TestCloneIsDeep(t *testing.T) {
	room := testRoom(2)
	st, err := Start(room, 3)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	st.Pending = &PendingSharedTable{InitiatorID: "p1", Awaiting: []string{"p2"}, Completed: map[string]bool{}}

	snap := st.Clone()
	snap.JourneyPile[0] = deck.Card{ID: "tampered"}
	snap.TurnOrder[0] = "tampered"
	snap.Pending.(*PendingSharedTable).Completed["p2"] = true

	if st.JourneyPile[0].ID == "tampered" {
		t.Error("journey pile shared with clone")
	}
	if st.TurnOrder[0] == "tampered" {
		t.Error("turn order shared with clone")
	}
	if st.Pending.(*PendingSharedTable).Completed["p2"] {
		t.Error("pending action shared with clone")
	}

	roomSnap := room.Clone()
	roomSnap.Players[0].Hand[0] = deck.Card{ID: "tampered"}
	if room.Players[0].Hand[0].ID == "tampered" {
		t.Error("hand shared with room clone")
	}
}

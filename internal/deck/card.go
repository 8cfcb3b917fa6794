package deck

// Suit identifies one of the four bridges of the deck.
type Suit string

const (
	Spades   Suit = "spades"
	Hearts   Suit = "hearts"
	Diamonds Suit = "diamonds"
	Clubs    Suit = "clubs"
)

// Suits lists every suit in deck-build order.
var Suits = []Suit{Spades, Hearts, Diamonds, Clubs}

// Rank is the card face value. Aces are action cards.
type Rank string

const (
	Ace   Rank = "A"
	Two   Rank = "2"
	Three Rank = "3"
	Four  Rank = "4"
	Five  Rank = "5"
	Six   Rank = "6"
	Seven Rank = "7"
	Eight Rank = "8"
	Nine  Rank = "9"
	Ten   Rank = "10"
	Jack  Rank = "J"
	Queen Rank = "Q"
	King  Rank = "K"
)

// Ranks lists every rank in deck-build order.
var Ranks = []Rank{Ace, Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King}

// ActionType is the special effect carried by an Ace.
type ActionType string

const (
	ActionReferral    ActionType = "referral"
	ActionSharedTable ActionType = "shared_table"
	ActionTranslator  ActionType = "translator"
	ActionExperiment  ActionType = "experiment"
)

// Card is immutable after Build; cards move between piles and hands by
// ownership transfer, never by copy-and-mutate.
type Card struct {
	ID                string     `json:"id"`
	Suit              Suit       `json:"suit"`
	Rank              Rank       `json:"rank"`
	Prompt            string     `json:"prompt"`
	IsActionCard      bool       `json:"isActionCard"`
	ActionType        ActionType `json:"actionType,omitempty"`
	ActionDescription string     `json:"actionDescription,omitempty"`
}

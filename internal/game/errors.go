package game

// Error is a game rule violation carrying the stable wire code surfaced to
// clients as room:error. All core failures are values of this type; nothing
// in the core panics on bad input.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

var (
	ErrRoomNotFound            = &Error{Code: "ROOM_NOT_FOUND", Message: "Room not found"}
	ErrPlayerNotFound          = &Error{Code: "PLAYER_NOT_FOUND", Message: "Player not found"}
	ErrGameNotStarted          = &Error{Code: "GAME_NOT_STARTED", Message: "Game has not started"}
	ErrGameInProgress          = &Error{Code: "GAME_IN_PROGRESS", Message: "Game has already started"}
	ErrRoomFull                = &Error{Code: "ROOM_FULL", Message: "Room is full"}
	ErrNameTaken               = &Error{Code: "NAME_TAKEN", Message: "A player with that name is already in the room"}
	ErrNotEnoughPlayers        = &Error{Code: "NOT_ENOUGH_PLAYERS", Message: "Not enough players to start"}
	ErrNotYourTurn             = &Error{Code: "NOT_YOUR_TURN", Message: "Not your turn"}
	ErrCardNotInHand           = &Error{Code: "CARD_NOT_IN_HAND", Message: "Card not in hand"}
	ErrInsufficientCards       = &Error{Code: "INSUFFICIENT_CARDS", Message: "Not enough cards in deck"}
	ErrNotHost                 = &Error{Code: "NOT_HOST", Message: "Only the host can do that"}
	ErrSelfKick                = &Error{Code: "SELF_KICK", Message: "Can't kick yourself"}
	ErrNoPendingAction         = &Error{Code: "NO_PENDING_ACTION", Message: "No action card is being resolved"}
	ErrWrongPhase              = &Error{Code: "WRONG_PHASE", Message: "Not allowed in the current phase"}
	ErrCodeGenerationExhausted = &Error{Code: "CODE_GENERATION_EXHAUSTED", Message: "Failed to generate a unique room code"}
)

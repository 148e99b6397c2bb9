package server

// MessageType represents a WebSocket message type with type safety
type MessageType string

// WebSocket message type constants for the client-server protocol.
// Server-to-client types mirror the game.Notifier calls one to one.
const (
	// Client to server messages
	MessageTypeJoin       MessageType = "join"
	MessageTypeLeave      MessageType = "leave"
	MessageTypeStart      MessageType = "start"
	MessageTypeChooseCard MessageType = "choose_card"
	MessageTypePickWinner MessageType = "pick_winner"
	MessageTypeRefresh    MessageType = "refresh"

	// Server to client messages
	MessageTypeError            MessageType = "error"
	MessageTypeNewPlayer        MessageType = "new_player"
	MessageTypeWaitForGameStart MessageType = "wait_for_game_start"
	MessageTypeCanStart         MessageType = "can_start"
	MessageTypeGameStart        MessageType = "game_start"
	MessageTypeNewCards         MessageType = "new_cards"
	MessageTypeCardChosen       MessageType = "card_chosen"
	MessageTypeWaitingOn        MessageType = "waiting_on"
	MessageTypeTimeToJudge      MessageType = "time_to_judge"
	MessageTypeJudgify          MessageType = "judgify"
	MessageTypePlayerLeave      MessageType = "player_leave"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}

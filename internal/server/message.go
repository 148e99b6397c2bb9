package server

import (
	"encoding/json"
	"time"

	"github.com/adam0314/cards-against-humanity/internal/deck"
	"github.com/adam0314/cards-against-humanity/internal/game"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	var dataBytes json.RawMessage
	if data != nil {
		var err error
		dataBytes, err = json.Marshal(data)
		if err != nil {
			return nil, err
		}
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server Messages

type JoinData struct {
	SessionID string `json:"sessionId"`
	PlayerID  string `json:"playerId"`
	Name      string `json:"name"`
}

type ChooseCardData struct {
	CardID int `json:"cardId"`
}

type PickWinnerData struct {
	CardID int `json:"cardId"`
}

// Server → Client Messages

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type NewPlayerData struct {
	Name  string `json:"name"`
	Judge bool   `json:"judge"`
	Score int    `json:"score"`
}

type GameStartData struct {
	Prompt deck.Card `json:"prompt"`
}

type NewCardsData struct {
	Cards []deck.Card `json:"cards"`
}

type CardChosenData struct {
	CardID int `json:"cardId"`
}

type WaitingOnData struct {
	Message string `json:"message"`
}

type SubmissionData struct {
	PlayerID string    `json:"playerId"`
	Card     deck.Card `json:"card"`
}

type TimeToJudgeData struct {
	Submissions []SubmissionData `json:"submissions"`
}

type PlayerLeaveData struct {
	Name string `json:"name"`
}

// SubmissionsFromGame converts game submissions to their wire shape
func SubmissionsFromGame(subs []game.Submission) []SubmissionData {
	out := make([]SubmissionData, len(subs))
	for i, s := range subs {
		out[i] = SubmissionData{PlayerID: s.PlayerID, Card: s.Card}
	}
	return out
}

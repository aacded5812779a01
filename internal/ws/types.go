package ws

import (
	"encoding/json"
)

// MessageType represents the different kinds of messages our system can handle
type MessageType string

const (
	MessageTypeMove       MessageType = "move"
	MessageTypeGameState  MessageType = "gameState"
	MessageTypeDrawOffer  MessageType = "drawOffer"
	MessageTypeAcceptDraw MessageType = "acceptDraw"
	MessageTypeRejectDraw MessageType = "rejectDraw"
	MessageTypeResign     MessageType = "resign"
	MessageTypeError      MessageType = "error"
)

// Message represents a WebSocket message in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// MovePayload carries a move in UCI notation together with the proof that
// authorizes it. Proof is base64 in JSON.
type MovePayload struct {
	Move      string `json:"move"`
	PublicKey string `json:"publicKey"`
	Proof     []byte `json:"proof"`
}

// ActionPayload carries the proof for a draw or resign action. The proof
// attests the action at the game's current ply and action count.
type ActionPayload struct {
	PublicKey string `json:"publicKey"`
	Proof     []byte `json:"proof"`
}

// ErrorPayload is sent back to the client whose request was rejected.
type ErrorPayload struct {
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
}

package controller

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/gofiber/websocket/v2"

	"github.com/Tejaaswini/zeroking/internal/errors"
	"github.com/Tejaaswini/zeroking/internal/middleware"
	"github.com/Tejaaswini/zeroking/internal/model"
	"github.com/Tejaaswini/zeroking/internal/service"
	"github.com/Tejaaswini/zeroking/internal/ws"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

var lifecycleMessages = map[ws.MessageType]model.LifecycleAction{
	ws.MessageTypeDrawOffer:  model.ActionOfferDraw,
	ws.MessageTypeAcceptDraw: model.ActionAcceptDraw,
	ws.MessageTypeRejectDraw: model.ActionRejectDraw,
	ws.MessageTypeResign:     model.ActionResign,
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(raw *websocket.Conn) {
	c := ws.NewConn(raw)
	gameID := raw.Params("gameId")
	publicKey, _ := raw.Locals(middleware.PlayerKeyLocal).(string)

	// Register this connection with the game
	if err := wsc.gameService.RegisterConnection(gameID, publicKey, c); err != nil {
		log.Printf("failed to register connection: %v", err)
		wsc.sendError(c, err)
		c.Close(err.Error())
		return
	}

	// Start message handling loop
	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Printf("read error: %v", err)
			break
		}

		if messageType == websocket.TextMessage {
			var msg ws.Message
			if err := json.Unmarshal(message, &msg); err != nil {
				log.Printf("parse error: %v", err)
				wsc.sendError(c, errors.Malformed("message: %v", err))
				continue
			}

			if err := wsc.handleMessage(gameID, publicKey, msg); err != nil {
				log.Printf("handle error: %v", err)
				wsc.sendError(c, err)
			}
		}
	}

	// Clean up when connection closes
	wsc.gameService.UnregisterConnection(gameID, c)
}

// Handle different types of incoming messages. Accepted actions reach every
// connection through the game's state broadcast.
func (wsc *WebSocketController) handleMessage(gameID, publicKey string, msg ws.Message) error {
	if msg.Type == ws.MessageTypeMove {
		var payload ws.MovePayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return errors.Malformed("move payload: %v", err)
		}
		if payload.PublicKey == "" {
			payload.PublicKey = publicKey
		}
		_, err := wsc.gameService.HandleMove(gameID, payload)
		return err
	}

	action, ok := lifecycleMessages[msg.Type]
	if !ok {
		return errors.Malformed("unknown message type: %s", msg.Type)
	}
	var payload ws.ActionPayload
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return errors.Malformed("%s payload: %v", msg.Type, err)
		}
	}
	if payload.PublicKey == "" {
		payload.PublicKey = publicKey
	}
	_, err := wsc.gameService.HandleAction(gameID, action, payload)
	return err
}

// Helper method to send error messages
func (wsc *WebSocketController) sendError(c *ws.Conn, err error) {
	payload, mErr := json.Marshal(ws.ErrorPayload{
		Kind:    string(errors.KindOf(err)),
		Message: err.Error(),
	})
	if mErr != nil {
		payload = []byte(fmt.Sprintf("%q", err.Error()))
	}
	if wErr := c.WriteJSON(ws.Message{
		Type:    ws.MessageTypeError,
		Payload: json.RawMessage(payload),
	}); wErr != nil {
		log.Printf("failed to send error: %v", wErr)
	}
}

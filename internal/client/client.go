// Package client talks to a running server: REST calls for game setup and
// moves, and a WebSocket stream for state pushes.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/Tejaaswini/zeroking/internal/errors"
	"github.com/Tejaaswini/zeroking/internal/game"
	"github.com/Tejaaswini/zeroking/internal/model"
	"github.com/Tejaaswini/zeroking/internal/ws"
)

type Client struct {
	baseURL   string
	playerKey string
	http      *http.Client
}

func New(baseURL, playerKey string) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		playerKey: playerKey,
		http:      http.DefaultClient,
	}
}

// APIError is a non-2xx reply from the server.
type APIError struct {
	Status int
	Reason errors.ErrorKind
	Msg    string
}

func (e *APIError) Error() string {
	if e.Reason != errors.KindNone {
		return fmt.Sprintf("server returned %d (%s): %s", e.Status, e.Reason, e.Msg)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Msg)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return errors.Wrap(err, "encode request")
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Player-Key", c.playerKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var reply struct {
			Error  string           `json:"error"`
			Reason errors.ErrorKind `json:"reason"`
			Result *game.MoveResult `json:"result"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&reply)
		apiErr := &APIError{Status: resp.StatusCode, Reason: reply.Reason, Msg: reply.Error}
		if reply.Result != nil && apiErr.Reason == errors.KindNone {
			apiErr.Reason = reply.Result.Reason
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Start creates a game and returns its id. An empty fen starts from the
// initial position.
func (c *Client) Start(ctx context.Context, whiteKey, blackKey, fen string) (string, error) {
	var reply struct {
		GameID string `json:"game_id"`
	}
	err := c.do(ctx, http.MethodPost, "/api/game/start", map[string]string{
		"whiteKey": whiteKey,
		"blackKey": blackKey,
		"fen":      fen,
	}, &reply)
	return reply.GameID, err
}

// State fetches the game's current position.
func (c *Client) State(ctx context.Context, gameID string) (model.GameState, error) {
	var reply struct {
		FEN string `json:"fen"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/game/"+url.PathEscape(gameID)+"/fen", nil, &reply); err != nil {
		return model.GameState{}, err
	}
	return model.ParseFEN(reply.FEN)
}

func (c *Client) Move(ctx context.Context, gameID string, payload ws.MovePayload) (game.MoveResult, error) {
	if payload.PublicKey == "" {
		payload.PublicKey = c.playerKey
	}
	var reply struct {
		Result game.MoveResult `json:"result"`
	}
	err := c.do(ctx, http.MethodPost, "/api/game/"+url.PathEscape(gameID)+"/move", payload, &reply)
	return reply.Result, err
}

// Snapshot fetches the session view of a game, including the action count
// lifecycle proofs bind to.
func (c *Client) Snapshot(ctx context.Context, gameID string) (model.Snapshot, error) {
	var snap model.Snapshot
	err := c.do(ctx, http.MethodGet, "/api/game/"+url.PathEscape(gameID), nil, &snap)
	return snap, err
}

var actionPaths = map[model.LifecycleAction]string{
	model.ActionOfferDraw:  "/draw/offer",
	model.ActionAcceptDraw: "/draw/accept",
	model.ActionRejectDraw: "/draw/reject",
	model.ActionResign:     "/resign",
}

// Act sends a draw or resign action with its proof.
func (c *Client) Act(ctx context.Context, gameID string, action model.LifecycleAction, payload ws.ActionPayload) (model.Lifecycle, error) {
	path, ok := actionPaths[action]
	if !ok {
		return model.Lifecycle{}, errors.Malformed("action %q", action)
	}
	if payload.PublicKey == "" {
		payload.PublicKey = c.playerKey
	}
	var l model.Lifecycle
	err := c.do(ctx, http.MethodPost, "/api/game/"+url.PathEscape(gameID)+path, payload, &l)
	return l, err
}

// Stream is a WebSocket subscription to one game.
type Stream struct {
	conn *websocket.Conn
}

// Subscribe opens the game's WebSocket. origin is sent as the Origin header
// and must be one the server allows.
func (c *Client) Subscribe(ctx context.Context, gameID, origin string) (*Stream, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse base url")
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/ws/game/" + url.PathEscape(gameID)
	u.RawQuery = url.Values{"playerKey": {c.playerKey}}.Encode()

	header := http.Header{}
	if origin != "" {
		header.Set("Origin", origin)
	}
	conn, _, err := websocket.Dial(ctx, u.String(), &websocket.DialOptions{HTTPHeader: header})
	if err != nil {
		return nil, errors.Wrapf(err, "dial %s", u.Redacted())
	}
	return &Stream{conn: conn}, nil
}

func (s *Stream) Send(ctx context.Context, msg ws.Message) error {
	return wsjson.Write(ctx, s.conn, msg)
}

// SendMove sends a move over the stream. The result arrives as a state push
// or an error message.
func (s *Stream) SendMove(ctx context.Context, payload ws.MovePayload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return s.Send(ctx, ws.Message{Type: ws.MessageTypeMove, Payload: raw})
}

func (s *Stream) Next(ctx context.Context) (ws.Message, error) {
	var msg ws.Message
	err := wsjson.Read(ctx, s.conn, &msg)
	return msg, err
}

// WaitState reads until the next state push. An error message from the
// server ends the wait with that error.
func (s *Stream) WaitState(ctx context.Context) (model.Snapshot, error) {
	for {
		msg, err := s.Next(ctx)
		if err != nil {
			return model.Snapshot{}, err
		}
		switch msg.Type {
		case ws.MessageTypeGameState:
			var snap model.Snapshot
			if err := json.Unmarshal(msg.Payload, &snap); err != nil {
				return model.Snapshot{}, errors.Wrap(err, "decode state")
			}
			return snap, nil
		case ws.MessageTypeError:
			var payload ws.ErrorPayload
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				return model.Snapshot{}, errors.Wrap(err, "decode error")
			}
			return model.Snapshot{}, &APIError{Reason: errors.ErrorKind(payload.Kind), Msg: payload.Message}
		}
	}
}

func (s *Stream) Close() error {
	return s.conn.Close(websocket.StatusNormalClosure, "bye")
}

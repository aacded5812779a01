package model

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/Tejaaswini/zeroking/internal/errors"
	"github.com/Tejaaswini/zeroking/internal/ws"
)

type GameStatus string

const (
	StatusActive   GameStatus = "active"
	StatusDraw     GameStatus = "draw"
	StatusResigned GameStatus = "resigned"
)

// Lifecycle holds the flags the draw and resign operations produce. They sit
// beside the GameState and never influence move legality. Actions counts the
// accepted lifecycle actions; action proofs are bound to it.
type Lifecycle struct {
	Status        GameStatus  `json:"status"`
	DrawOfferedBy PlayerColor `json:"drawOfferedBy,omitempty"`
	Winner        PlayerColor `json:"winner,omitempty"`
	Actions       int         `json:"actions"`
}

type LifecycleAction string

const (
	ActionOfferDraw  LifecycleAction = "offerDraw"
	ActionAcceptDraw LifecycleAction = "acceptDraw"
	ActionRejectDraw LifecycleAction = "rejectDraw"
	ActionResign     LifecycleAction = "resign"
)

// The connections for a specific game. Anyone may watch a game; the key a
// connection was opened with is kept for logging only.
type GameConnections struct {
	connections map[*ws.Conn]string // connection -> publicKey
	mu          sync.RWMutex
}

// Game is one hosted session. It owns the authoritative GameState and
// serialises every transition of it: a move is evaluated and committed while
// the session lock is held.
type Game struct {
	ID          string
	mu          sync.Mutex
	broadcastMu sync.Mutex
	state       GameState
	players     Players
	lifecycle   Lifecycle
	lastMove    *Move
	connections *GameConnections
}

// Snapshot is the client-facing view of a session.
type Snapshot struct {
	ID            string      `json:"id"`
	FEN           string      `json:"fen"`
	Ply           int         `json:"ply"`
	State         GameState   `json:"state"`
	Players       Players     `json:"players"`
	Status        GameStatus  `json:"status"`
	DrawOfferedBy PlayerColor `json:"drawOfferedBy,omitempty"`
	Winner        PlayerColor `json:"winner,omitempty"`
	Actions       int         `json:"actions"`
	LastMove      *Move       `json:"lastMove"`
}

func NewGame(id, whiteKey, blackKey string, state GameState) *Game {
	return RestoreGame(id, whiteKey, blackKey, state, Lifecycle{Status: StatusActive})
}

// RestoreGame rebuilds a session from persisted state and lifecycle flags.
func RestoreGame(id, whiteKey, blackKey string, state GameState, lifecycle Lifecycle) *Game {
	return &Game{
		ID:    id,
		state: state,
		players: Players{
			White: ClientPlayer{PublicKey: whiteKey, Color: White},
			Black: ClientPlayer{PublicKey: blackKey, Color: Black},
		},
		lifecycle:   lifecycle,
		connections: NewGameConnections(),
	}
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[*ws.Conn]string),
	}
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.state
}

func (g *Game) Lifecycle() Lifecycle {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.lifecycle
}

func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.snapshot()
}

func (g *Game) snapshot() Snapshot {
	return Snapshot{
		ID:            g.ID,
		FEN:           ToFEN(g.state),
		Ply:           g.state.Ply(),
		State:         g.state,
		Players:       g.players,
		Status:        g.lifecycle.Status,
		DrawOfferedBy: g.lifecycle.DrawOfferedBy,
		Winner:        g.lifecycle.Winner,
		Actions:       g.lifecycle.Actions,
		LastMove:      g.lastMove,
	}
}

// SetLastMove records m as the move that produced the current state. Used
// when a session is restored.
func (g *Game) SetLastMove(m Move) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.lastMove = &m
}

func (g *Game) colorOf(publicKey string) (PlayerColor, bool) {
	if publicKey == "" {
		return "", false
	}
	if g.players.White.PublicKey == publicKey {
		return White, true
	}
	if g.players.Black.PublicKey == publicKey {
		return Black, true
	}
	return "", false
}

func (g *Game) keyFor(c PlayerColor) string {
	if c == Black {
		return g.players.Black.PublicKey
	}
	return g.players.White.PublicKey
}

// MakeMove evaluates am against the current state with evaluate and commits
// the state it returns. Nothing changes when evaluate fails. The proof must
// come from the key registered for the side to move.
func (g *Game) MakeMove(am AuthenticatedMove, evaluate func(GameState) (GameState, error)) (GameState, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.lifecycle.Status != StatusActive {
		return g.state, errors.ErrGameOver
	}
	if want := g.keyFor(g.state.Turn); am.PlayerProof.PublicKey != want {
		return g.state, errors.NewMoveError(am.Move.String(),
			errors.Wrapf(errors.ErrAuthorizationFailed, "key is not registered for %s", g.state.Turn))
	}

	next, err := evaluate(g.state)
	if err != nil {
		return g.state, err
	}

	g.state = next
	m := am.Move
	g.lastMove = &m

	go g.broadcastState()
	return next, nil
}

// ActionCheck authorizes a lifecycle action against the session as it
// stands when the action is applied.
type ActionCheck func(s GameState, l Lifecycle) error

// Act applies a draw or resign action taken by the holder of proof's key.
// authorize runs under the session lock before anything else is decided; a
// nil authorize rejects every action. commit runs before the new flags take
// effect.
func (g *Game) Act(proof PlayerZkProof, action LifecycleAction, authorize ActionCheck, commit func(Lifecycle) error) (Lifecycle, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	color, ok := g.colorOf(proof.PublicKey)
	if !ok {
		return g.lifecycle, errors.ErrNotParticipant
	}
	if g.lifecycle.Status != StatusActive {
		return g.lifecycle, errors.ErrGameOver
	}
	if authorize == nil {
		return g.lifecycle, errors.Wrapf(errors.ErrAuthorizationFailed, "no check for %s", action)
	}
	if err := authorize(g.state, g.lifecycle); err != nil {
		return g.lifecycle, err
	}

	next, err := nextLifecycle(g.lifecycle, color, action)
	if err != nil {
		return g.lifecycle, err
	}
	if commit != nil {
		if err := commit(next); err != nil {
			return g.lifecycle, err
		}
	}
	g.lifecycle = next

	go g.broadcastState()
	return next, nil
}

func nextLifecycle(l Lifecycle, by PlayerColor, action LifecycleAction) (Lifecycle, error) {
	switch action {
	case ActionOfferDraw:
		if l.DrawOfferedBy != "" {
			return l, errors.ErrDrawPending
		}
		l.DrawOfferedBy = by
	case ActionAcceptDraw:
		if l.DrawOfferedBy != by.Opposite() {
			return l, errors.ErrNoDrawOffer
		}
		l.Status = StatusDraw
		l.DrawOfferedBy = ""
	case ActionRejectDraw:
		if l.DrawOfferedBy != by.Opposite() {
			return l, errors.ErrNoDrawOffer
		}
		l.DrawOfferedBy = ""
	case ActionResign:
		l.Status = StatusResigned
		l.Winner = by.Opposite()
		l.DrawOfferedBy = ""
	default:
		return l, errors.Malformed("action %q", action)
	}
	l.Actions++
	return l, nil
}

// RegisterConnection adds conn to the game's watchers and sends it the
// current state. Watching needs no proof; every write a connection makes is
// authorized on its own.
func (g *Game) RegisterConnection(publicKey string, conn *ws.Conn) {
	log.Printf("registering connection %p for key %s in game %s", conn, shortKey(publicKey), g.ID)

	g.connections.mu.Lock()
	g.connections.connections[conn] = publicKey
	g.connections.mu.Unlock()

	go g.broadcastState()
}

func (g *Game) UnregisterConnection(conn *ws.Conn) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if key, exists := g.connections.connections[conn]; exists {
		log.Printf("unregistering connection %p for key %s", conn, shortKey(key))
		delete(g.connections.connections, conn)
	}
}

// broadcastState sends the current snapshot to every connection. Broadcasts
// are serialised and each reads the snapshot after taking its turn, so a
// connection never receives an older state after a newer one.
func (g *Game) broadcastState() {
	g.broadcastMu.Lock()
	defer g.broadcastMu.Unlock()

	snapshot := g.Snapshot()
	payload, err := json.Marshal(snapshot)
	if err != nil {
		log.Printf("failed to marshal state of game %s: %v", g.ID, err)
		return
	}

	// Get a snapshot of connections under the connections mutex
	g.connections.mu.RLock()
	activeConnections := make([]*ws.Conn, 0, len(g.connections.connections))
	for conn := range g.connections.connections {
		activeConnections = append(activeConnections, conn)
	}
	g.connections.mu.RUnlock()

	for _, conn := range activeConnections {
		if err := conn.WriteJSON(ws.Message{
			Type:    ws.MessageTypeGameState,
			Payload: json.RawMessage(payload),
		}); err != nil {
			log.Printf("failed to send state on connection %p: %v", conn, err)
			g.UnregisterConnection(conn)
		}
	}
}

func shortKey(key string) string {
	if len(key) > 12 {
		return key[:12]
	}
	return key
}

// Package game runs the authenticated move pipeline over a single GameState:
// identity authorization, legality, transition and the castling-safety check.
// Every entry point authorizes on its own; a proof is bound to one move at
// one ply of one game and never carries over to another.
package game

import (
	"github.com/Tejaaswini/zeroking/internal/errors"
	"github.com/Tejaaswini/zeroking/internal/model"
	"github.com/Tejaaswini/zeroking/internal/zkid"
)

// Logic evaluates moves against one immutable state.
type Logic struct {
	gameID         string
	state          model.GameState
	verifier       zkid.Verifier
	requiredDomain string
}

// MoveResult is the outcome of Move. NextState is set only when Accepted.
type MoveResult struct {
	Accepted  bool             `json:"accepted"`
	NextState *model.GameState `json:"nextState,omitempty"`
	Reason    errors.ErrorKind `json:"reason,omitempty"`
}

func NewLogic(gameID string, state model.GameState, v zkid.Verifier, requiredDomain string) *Logic {
	return &Logic{gameID: gameID, state: state, verifier: v, requiredDomain: requiredDomain}
}

func (l *Logic) State() model.GameState {
	return l.state
}

// Statement is the public statement a proof for am must attest in the
// current state.
func (l *Logic) Statement(am model.AuthenticatedMove) zkid.Statement {
	return StatementFor(l.gameID, l.state, am.Move, am.PlayerProof.PublicKey, l.requiredDomain)
}

// StatementFor builds the statement a client proves before sending m in
// game gameID.
func StatementFor(gameID string, s model.GameState, m model.Move, publicKey, domain string) zkid.Statement {
	return zkid.Statement{
		PublicKey: publicKey,
		Domain:    domain,
		GameID:    gameID,
		Binding:   Binding(s, m),
	}
}

// ActionStatementFor builds the statement a client proves before taking a
// lifecycle action. seq is the action count the game reports.
func ActionStatementFor(gameID string, s model.GameState, seq int, action model.LifecycleAction, publicKey, domain string) zkid.Statement {
	return zkid.Statement{
		PublicKey: publicKey,
		Domain:    domain,
		GameID:    gameID,
		Binding:   ActionBinding(s, seq, action),
	}
}

// AuthorizeAction checks proof for action against the session state s and
// its lifecycle flags l.
func AuthorizeAction(gameID string, s model.GameState, l model.Lifecycle, action model.LifecycleAction, proof model.PlayerZkProof, v zkid.Verifier, domain string) error {
	st := ActionStatementFor(gameID, s, l.Actions, action, proof.PublicKey, domain)
	if err := zkid.Authorize(v, st, proof.Proof); err != nil {
		return errors.Wrapf(err, "%s", action)
	}
	return nil
}

func (l *Logic) authorize(am model.AuthenticatedMove) error {
	if err := zkid.Authorize(l.verifier, l.Statement(am), am.PlayerProof.Proof); err != nil {
		return errors.NewMoveError(am.Move.String(), err)
	}
	return nil
}

// PreMoveValidations authorizes am and reports whether its move is legal.
func (l *Logic) PreMoveValidations(am model.AuthenticatedMove) (bool, error) {
	if err := l.authorize(am); err != nil {
		return false, err
	}
	return bool(model.Legal(l.state, am.Move)), nil
}

// ToUpdated authorizes am and returns the successor state. The move must
// already have passed PreMoveValidations.
func (l *Logic) ToUpdated(am model.AuthenticatedMove) (model.GameState, error) {
	if err := l.authorize(am); err != nil {
		return l.state, err
	}
	return model.Apply(l.state, am.Move), nil
}

// IllegalCastling is evaluated on the state that follows a castle. It
// authorizes am, a reply of the side now to move, and reports whether its
// destination is a square the castling king crossed.
func (l *Logic) IllegalCastling(am model.AuthenticatedMove) (bool, error) {
	if err := l.authorize(am); err != nil {
		return false, err
	}
	return bool(model.CastlingViolated(l.state, am.Move)), nil
}

// Move runs the full pipeline. On any failure the returned error carries the
// ErrorKind and the state held by l is unchanged.
func (l *Logic) Move(am model.AuthenticatedMove) (MoveResult, error) {
	uci := am.Move.String()
	reject := func(err error) (MoveResult, error) {
		me := errors.NewMoveError(uci, err)
		return MoveResult{Reason: me.Kind}, me
	}

	if err := l.state.Validate(); err != nil {
		return reject(err)
	}
	if !am.Move.Path.Start.Valid() || !am.Move.Path.End.Valid() {
		return reject(errors.Malformed("coordinates out of range"))
	}

	legal, err := l.PreMoveValidations(am)
	if err != nil {
		return reject(err)
	}
	if !legal {
		return reject(errors.ErrIllegalMove)
	}

	next, err := l.ToUpdated(am)
	if err != nil {
		return reject(err)
	}

	if model.Bool(next.KingCastled).And(model.CastleExposed(next)) {
		return reject(errors.Wrapf(errors.ErrIllegalCastle, "%s crossed a square the opponent reaches", next.Turn.Opposite()))
	}

	return MoveResult{Accepted: true, NextState: &next}, nil
}

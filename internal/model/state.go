package model

import (
	"github.com/Tejaaswini/zeroking/internal/errors"
)

// PlayerState is the per-color aggregate of a GameState. Captured pieces stay
// in Pieces with Alive unset.
type PlayerState struct {
	Pieces          []Piece `json:"pieces"`
	KingSideCastle  bool    `json:"kingSideCastle"`
	QueenSideCastle bool    `json:"queenSideCastle"`
}

// King returns the side's live king, or the zero Piece if there is none.
func (ps PlayerState) King() Piece {
	for _, p := range ps.Pieces {
		if p.Alive && p.Type == King {
			return p
		}
	}
	return Piece{}
}

func (ps PlayerState) clone() PlayerState {
	ps.Pieces = append([]Piece(nil), ps.Pieces...)
	return ps
}

func (ps *PlayerState) replace(old, updated Piece) {
	for i, p := range ps.Pieces {
		if p == old {
			ps.Pieces[i] = updated
			return
		}
	}
}

func (ps *PlayerState) capture(p Piece) {
	dead := p
	dead.Alive = false
	ps.replace(p, dead)
}

// GameState is an immutable snapshot of a game. Transitions return a new
// value and leave the receiver untouched.
type GameState struct {
	Board          Board       `json:"board"`
	Turn           PlayerColor `json:"turn"`
	KingCastled    bool        `json:"kingCastled"`
	White          PlayerState `json:"white"`
	Black          PlayerState `json:"black"`
	EnPassant      *Position   `json:"enPassant"`
	HalfmoveClock  int         `json:"halfmoveClock"`
	FullmoveNumber int         `json:"fullmoveNumber"`
}

// NewGameState returns the standard initial position with white to move.
func NewGameState() GameState {
	white := PlayerState{Pieces: initialPieces(White), KingSideCastle: true, QueenSideCastle: true}
	black := PlayerState{Pieces: initialPieces(Black), KingSideCastle: true, QueenSideCastle: true}
	return newState(white, black, White)
}

func newState(white, black PlayerState, turn PlayerColor) GameState {
	s := GameState{
		Turn:           turn,
		White:          white,
		Black:          black,
		FullmoveNumber: 1,
	}
	for _, ps := range []PlayerState{white, black} {
		for _, p := range ps.Pieces {
			if p.Alive {
				s.Board.set(p)
			}
		}
	}
	return s
}

func (s GameState) Player(c PlayerColor) PlayerState {
	if c == Black {
		return s.Black
	}
	return s.White
}

func (s *GameState) player(c PlayerColor) *PlayerState {
	if c == Black {
		return &s.Black
	}
	return &s.White
}

func (s GameState) Current() PlayerState {
	return s.Player(s.Turn)
}

func (s GameState) Opponent() PlayerState {
	return s.Player(s.Turn.Opposite())
}

// Ply counts half-moves from the start of the game.
func (s GameState) Ply() int {
	ply := 2 * (s.FullmoveNumber - 1)
	if s.Turn == Black {
		ply++
	}
	return ply
}

func (s *GameState) isEnPassant(p Position) Bool {
	return Bool(s.EnPassant != nil && *s.EnPassant == p)
}

// Validate checks the structural invariants: a known side to move, exactly
// one live king per color, and a board that agrees with both piece sets.
func (s GameState) Validate() error {
	if !s.Turn.Valid() {
		return errors.Malformed("turn %q", s.Turn)
	}
	live := 0
	for _, c := range []PlayerColor{White, Black} {
		kings := 0
		for _, p := range s.Player(c).Pieces {
			if p.Color != c {
				return errors.Malformed("%s piece listed for %s", p.Color, c)
			}
			if !p.Alive {
				continue
			}
			if !p.Position.Valid() {
				return errors.Malformed("%s %s off the board at %+v", c, p.Type, p.Position)
			}
			onBoard := s.Board[p.Position.index()]
			if onBoard == nil || *onBoard != p {
				return errors.Malformed("%s %s missing from board at %s", c, p.Type, p.Position)
			}
			if p.Type == King {
				kings++
			}
			live++
		}
		if kings != 1 {
			return errors.Malformed("%s has %d kings", c, kings)
		}
	}
	occupied := 0
	for _, sq := range s.Board {
		if sq != nil {
			occupied++
		}
	}
	if occupied != live {
		return errors.Malformed("board holds %d pieces, players list %d", occupied, live)
	}
	if s.EnPassant != nil {
		if err := s.validateEnPassant(*s.EnPassant); err != nil {
			return err
		}
	}
	return nil
}

// validateEnPassant checks that ep is the square an enemy pawn just skipped
// with its double step: on the enemy's third rank, empty, with the pawn
// standing right in front of it and its start square vacated.
func (s *GameState) validateEnPassant(ep Position) error {
	enemy := s.Turn.Opposite()
	if !ep.Valid() || ep.Row != pawnRow(enemy)+forward(enemy) {
		return errors.Malformed("en passant square %s with %s to move", ep.getSquareNotation(), s.Turn)
	}
	pawn := s.Board.At(Pos(ep.Column, ep.Row+forward(enemy)))
	if !pawn.Alive || pawn.Type != Pawn || pawn.Color != enemy {
		return errors.Malformed("en passant square %s has no %s pawn in front", ep.getSquareNotation(), enemy)
	}
	if s.Board.At(ep).Alive || s.Board.At(Pos(ep.Column, pawnRow(enemy))).Alive {
		return errors.Malformed("en passant square %s is not a vacated path", ep.getSquareNotation())
	}
	return nil
}

package model

import (
	"fmt"

	"github.com/Tejaaswini/zeroking/internal/errors"
)

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

// NoPromotion is the Promotion of every move that does not promote.
const NoPromotion PieceType = ""

func (p PieceType) getPieceNotation() string {
	switch p {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	case Pawn:
		return ""
	}
	return ""
}

// promotable reports whether a pawn may become p on the last row.
func promotable(p PieceType) Bool {
	return Any(Bool(p == Knight), Bool(p == Bishop), Bool(p == Rook), Bool(p == Queen))
}

type Position struct {
	Column int `json:"column"`
	Row    int `json:"row"`
}

// Pos is shorthand for Position{Column: column, Row: row}.
func Pos(column, row int) Position {
	return Position{Column: column, Row: row}
}

func (p Position) Valid() bool {
	return p.Column >= 0 && p.Column < 8 && p.Row >= 0 && p.Row < 8
}

func (p Position) index() int {
	return p.Row*8 + p.Column
}

// In reports whether p equals one of the candidate squares. Every candidate
// is compared.
func (p Position) In(candidates ...Position) Bool {
	r := Bool(false)
	for _, c := range candidates {
		r = r.Or(Bool(p == c))
	}
	return r
}

func (p Position) String() string {
	return p.getSquareNotation()
}

func (p Position) getSquareNotation() string {
	return fmt.Sprintf("%c%d", p.Column+'a', p.Row+1)
}

func (p Position) getFileNotation() string {
	return fmt.Sprintf("%c", p.Column+'a')
}

// ParseSquare reads algebraic notation such as "e4".
func ParseSquare(s string) (Position, error) {
	if len(s) != 2 {
		return Position{}, errors.Malformed("square %q", s)
	}
	p := Position{Column: int(s[0]) - 'a', Row: int(s[1]) - '1'}
	if !p.Valid() {
		return Position{}, errors.Malformed("square %q out of range", s)
	}
	return p, nil
}

// Piece is an immutable value; moving a piece yields a new Piece.
type Piece struct {
	Type     PieceType   `json:"type"`
	Color    PlayerColor `json:"color"`
	Position Position    `json:"position"`
	Alive    bool        `json:"alive"`
}

func (p Piece) movedTo(pos Position) Piece {
	p.Position = pos
	return p
}

// Board maps every square to an optional piece. Pieces referenced from a
// Board are never modified after they are placed.
type Board [64]*Piece

// At returns the piece on p, or the zero Piece (not alive) when p is empty or
// off the board.
func (b *Board) At(p Position) Piece {
	if !p.Valid() || b[p.index()] == nil {
		return Piece{}
	}
	return *b[p.index()]
}

func (b *Board) Empty(p Position) Bool {
	return Bool(!b.At(p).Alive)
}

// OccupiedBy reports whether a live piece of color c stands on p.
func (b *Board) OccupiedBy(p Position, c PlayerColor) Bool {
	pc := b.At(p)
	return Bool(pc.Alive).And(Bool(pc.Color == c))
}

func (b *Board) set(p Piece) {
	b[p.Position.index()] = &p
}

func (b *Board) clear(pos Position) {
	b[pos.index()] = nil
}

var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

func initialPieces(c PlayerColor) []Piece {
	pieces := make([]Piece, 0, 16)
	for col, t := range backRank {
		pieces = append(pieces, Piece{Type: t, Color: c, Position: Pos(col, homeRow(c)), Alive: true})
	}
	for col := 0; col < 8; col++ {
		pieces = append(pieces, Piece{Type: Pawn, Color: c, Position: Pos(col, pawnRow(c)), Alive: true})
	}
	return pieces
}

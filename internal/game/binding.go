package game

import (
	"github.com/Tejaaswini/zeroking/internal/model"
)

var promotionCodes = map[model.PieceType]uint64{
	model.NoPromotion: 0,
	model.Knight:      1,
	model.Bishop:      2,
	model.Rook:        3,
	model.Queen:       4,
	model.King:        5,
	model.Pawn:        6,
}

// Lifecycle actions use the low-nibble codes no promotion takes.
var actionCodes = map[model.LifecycleAction]uint64{
	model.ActionOfferDraw:  8,
	model.ActionAcceptDraw: 9,
	model.ActionRejectDraw: 10,
	model.ActionResign:     11,
}

func square(p model.Position) uint64 {
	return uint64(p.Row)<<3 | uint64(p.Column)
}

// Binding packs the ply, both squares and the promotion of m into the value
// a move proof commits to. It is zero, which no proof can attest, when a
// square is off the board.
//
//	ply<<16 | from<<10 | to<<4 | promotion, plus one
func Binding(s model.GameState, m model.Move) uint64 {
	if !m.Path.Start.Valid() || !m.Path.End.Valid() {
		return 0
	}
	b := uint64(s.Ply())<<16 |
		square(m.Path.Start)<<10 |
		square(m.Path.End)<<4 |
		promotionCodes[m.Promotion]
	return b + 1
}

// ActionBinding is the value a lifecycle action proof commits to. seq is the
// number of actions the game has accepted so far, so an action proof is
// spent once it is used.
//
//	ply<<16 | (seq mod 4096)<<4 | action, plus one
func ActionBinding(s model.GameState, seq int, action model.LifecycleAction) uint64 {
	code, ok := actionCodes[action]
	if !ok {
		return 0
	}
	b := uint64(s.Ply())<<16 |
		uint64(seq&0xfff)<<4 |
		code
	return b + 1
}

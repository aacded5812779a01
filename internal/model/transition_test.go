package model_test

import (
	"testing"

	"github.com/Tejaaswini/zeroking/internal/model"
	"github.com/Tejaaswini/zeroking/internal/testutil"
)

func TestApply(t *testing.T) {
	tests := []struct {
		name     string
		fen      string
		move     string
		want     string
		notation string
	}{
		{
			name:     "double push sets en passant and flips the turn",
			fen:      model.InitialFEN,
			move:     "e2e4",
			want:     "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
			notation: "e4",
		},
		{
			name:     "knight development",
			fen:      model.InitialFEN,
			move:     "g1f3",
			want:     "rnbqkbnr/pppppppp/8/8/8/5N2/PPPPPPPP/RNBQKB1R b KQkq - 1 1",
			notation: "Nf3",
		},
		{
			name:     "king side castle moves the rook",
			fen:      testutil.OpenCastlingFEN,
			move:     "e1g1",
			want:     "r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R4RK1 b kq - 1 1",
			notation: "O-O",
		},
		{
			name:     "black queen side castle",
			fen:      "r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R b KQkq - 0 1",
			move:     "e8c8",
			want:     "2kr3r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R w KQ - 1 2",
			notation: "O-O-O",
		},
		{
			name:     "rook move drops one right",
			fen:      "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1",
			move:     "h1h5",
			want:     "r3k2r/8/8/7R/8/8/8/R3K3 b Qkq - 1 1",
			notation: "Rh5",
		},
		{
			name:     "capture on a rook corner drops the victim's right",
			fen:      "r3k2r/6P1/8/8/8/8/8/4K3 w kq - 0 1",
			move:     "g7h8q",
			want:     "r3k2Q/8/8/8/8/8/8/4K3 b q - 0 1",
			notation: "gxh8=Q",
		},
		{
			name:     "en passant removes the bypassed pawn",
			fen:      "4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1",
			move:     "e5d6",
			want:     "4k3/8/3P4/8/8/8/8/4K3 b - - 0 1",
			notation: "exd6",
		},
		{
			name:     "promotion",
			fen:      testutil.PromotionFEN,
			move:     "e7e8n",
			want:     "4N3/8/8/8/8/8/8/K6k b - - 0 1",
			notation: "e8=N",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testutil.MustParseFEN(t, tt.fen)
			m := testutil.MustParseMove(t, tt.move)
			testutil.AssertTrue(t, bool(model.Legal(s, m)), "%s must be legal", tt.move)

			next := model.Apply(s, m)
			testutil.AssertEqual(t, model.ToFEN(next), tt.want)
			testutil.AssertNoError(t, next.Validate())

			// The input state is a value and must be left as it was.
			testutil.AssertEqual(t, model.ToFEN(s), model.ToFEN(testutil.MustParseFEN(t, tt.fen)))

			ply := model.NewPly(s, m, next)
			testutil.AssertEqual(t, ply.Notation, tt.notation)
			testutil.AssertEqual(t, ply.Number, next.Ply())
			testutil.AssertEqual(t, ply.FEN, tt.want)
		})
	}
}

func TestApplyRecordsCastling(t *testing.T) {
	s := testutil.MustParseFEN(t, testutil.OpenCastlingFEN)

	castled := model.Apply(s, testutil.MustParseMove(t, "e1g1"))
	testutil.AssertTrue(t, castled.KingCastled, "KingCastled after O-O")
	testutil.AssertEqual(t, castled.White.King().Position, model.Pos(6, 0))

	ply := model.NewPly(s, testutil.MustParseMove(t, "e1g1"), castled)
	testutil.AssertEqual(t, *ply.CastleRookMove, model.CastleRookMove{From: model.Pos(7, 0), To: model.Pos(5, 0)})

	reply := model.Apply(castled, testutil.MustParseMove(t, "a7a6"))
	testutil.AssertFalse(t, reply.KingCastled, "KingCastled only describes the last move")
}

func TestApplyKeepsCapturedPieces(t *testing.T) {
	s := testutil.MustParseFEN(t, "4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1")
	next := model.Apply(s, testutil.MustParseMove(t, "e4d5"))

	dead := 0
	for _, p := range next.Black.Pieces {
		if !p.Alive {
			dead++
			testutil.AssertEqual(t, p.Type, model.Pawn)
		}
	}
	testutil.AssertEqual(t, dead, 1)
	testutil.AssertEqual(t, len(next.Black.Pieces), 2)
}

func TestPly(t *testing.T) {
	s := model.NewGameState()
	testutil.AssertEqual(t, s.Ply(), 0)
	s = model.Apply(s, testutil.MustParseMove(t, "e2e4"))
	testutil.AssertEqual(t, s.Ply(), 1)
	s = model.Apply(s, testutil.MustParseMove(t, "e7e5"))
	testutil.AssertEqual(t, s.Ply(), 2)
}

// Every double step leaves an en passant square that passes Validate, and
// the square is cleared by the next move.
func TestApplyEnPassantSquareValidates(t *testing.T) {
	s := model.NewGameState()
	for _, uci := range []string{"e2e4", "d7d5", "e4e5", "f7f5", "e5f6", "g7g5"} {
		s = model.Apply(s, testutil.MustParseMove(t, uci))
		testutil.AssertNoError(t, s.Validate(), "after %s", uci)
	}
	testutil.AssertEqual(t, model.ToFEN(s), "rnbqkbnr/ppp1p2p/5P2/3p2p1/8/8/PPPP1PPP/RNBQKBNR w KQkq g6 0 4")
}

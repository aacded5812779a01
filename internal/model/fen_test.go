package model_test

import (
	"strings"
	"testing"

	"github.com/Tejaaswini/zeroking/internal/errors"
	"github.com/Tejaaswini/zeroking/internal/model"
	"github.com/Tejaaswini/zeroking/internal/testutil"
	"github.com/notnil/chess"
)

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		model.InitialFEN,
		testutil.OpenCastlingFEN,
		testutil.CastleIntoRookFEN,
		testutil.PromotionFEN,
		"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
		"r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3",
	}
	for _, fen := range fens {
		s := testutil.MustParseFEN(t, fen)
		testutil.AssertEqual(t, model.ToFEN(s), fen)
	}
}

func TestParseFENDefaults(t *testing.T) {
	s := testutil.MustParseFEN(t, "4k3/8/8/8/8/8/8/4K3 b")
	testutil.AssertEqual(t, model.ToFEN(s), "4k3/8/8/8/8/8/8/4K3 b - - 0 1")
	testutil.AssertEqual(t, s.Turn, model.Black)
}

func TestParseFENDropsImpossibleRights(t *testing.T) {
	s := testutil.MustParseFEN(t, "4k3/8/8/8/8/8/8/4K2R w KQ - 0 1")
	testutil.AssertTrue(t, s.White.KingSideCastle)
	testutil.AssertFalse(t, s.White.QueenSideCastle, "no rook on a1")
}

func TestParseFENRejects(t *testing.T) {
	tests := []struct {
		name string
		fen  string
	}{
		{"empty", ""},
		{"placement only", "8/8/8/8/8/8/8/8"},
		{"seven rows", "8/8/8/8/8/8/8 w"},
		{"short row", "4k3/8/8/8/8/8/8/4K2 w"},
		{"long row", "4k3/8/8/8/8/8/8/4K4 w"},
		{"bad piece", "4k3/8/8/8/8/8/8/4X3 w"},
		{"bad side", "4k3/8/8/8/8/8/8/4K3 x"},
		{"no white king", "4k3/8/8/8/8/8/8/8 w"},
		{"two black kings", "3kk3/8/8/8/8/8/8/4K3 w"},
		{"bad castling", "4k3/8/8/8/8/8/8/4K3 w X"},
		{"bad en passant row", "4k3/8/8/8/8/8/8/4K3 w - e4"},
		{"en passant behind the side to move", "4k3/8/8/8/8/8/3P4/4K3 w - e3 0 1"},
		{"en passant without the skipping pawn", "4k3/8/8/3P4/8/8/8/4K3 w - e6 0 1"},
		{"en passant with a white pawn in front", "4k3/8/8/3PP3/8/8/8/4K3 w - e6 0 1"},
		{"en passant square occupied", "4k3/8/3n4/3pP3/8/8/8/4K3 w - d6 0 1"},
		{"en passant start square occupied", "4k3/3n4/8/3pP3/8/8/8/4K3 w - d6 0 1"},
		{"negative clock", "4k3/8/8/8/8/8/8/4K3 w - - -1 1"},
		{"zero fullmove", "4k3/8/8/8/8/8/8/4K3 w - - 0 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := model.ParseFEN(tt.fen)
			testutil.AssertErrorIs(t, err, errors.ErrMalformedInput)
		})
	}
}

// Placement, side to move, castling rights and both clocks must agree with
// an independent implementation after a sequence of moves.
func TestFENAgreesWithReferenceGame(t *testing.T) {
	moves := []string{"e2e4", "e7e5", "g1f3", "b8c6", "f1c4", "g8f6", "e1g1", "f8c5", "d2d4", "e5d4", "c2c3", "d4c3", "b1c3"}

	fenOpt, err := chess.FEN(model.InitialFEN)
	testutil.AssertNoError(t, err)
	ref := chess.NewGame(fenOpt, chess.UseNotation(chess.UCINotation{}))

	s := model.NewGameState()
	for _, uci := range moves {
		m := testutil.MustParseMove(t, uci)
		if !model.Legal(s, m) {
			t.Fatalf("%s rejected in %s", uci, model.ToFEN(s))
		}
		s = model.Apply(s, m)
		testutil.AssertNoError(t, ref.MoveStr(uci), "reference move %s", uci)

		got := strings.Fields(model.ToFEN(s))
		want := strings.Fields(ref.Position().String())
		for _, i := range []int{0, 1, 2, 4, 5} {
			testutil.AssertEqual(t, got[i], want[i], "after %s field %d", uci, i)
		}
	}
}

package model_test

import (
	"sort"
	"testing"

	"github.com/Tejaaswini/zeroking/internal/model"
	"github.com/Tejaaswini/zeroking/internal/testutil"
	"github.com/dylhunn/dragontoothmg"
)

var promotionChoices = []model.PieceType{model.NoPromotion, model.Knight, model.Bishop, model.Rook, model.Queen}

// legalMoves enumerates every move Legal accepts in s, in UCI notation.
func legalMoves(s model.GameState) []string {
	var out []string
	for from := 0; from < 64; from++ {
		for to := 0; to < 64; to++ {
			for _, promo := range promotionChoices {
				m := model.NewMove(model.Pos(from%8, from/8), model.Pos(to%8, to/8))
				m.Promotion = promo
				if model.Legal(s, m) {
					out = append(out, m.String())
				}
			}
		}
	}
	sort.Strings(out)
	return out
}

func referenceMoves(fen string) []string {
	board := dragontoothmg.ParseFen(fen)
	var out []string
	for _, m := range board.GenerateLegalMoves() {
		out = append(out, m.String())
	}
	sort.Strings(out)
	return out
}

func TestLegalStartPosition(t *testing.T) {
	s := model.NewGameState()
	got := legalMoves(s)
	testutil.AssertEqual(t, len(got), 20, "legal moves from the start")
	testutil.AssertEqual(t, got, referenceMoves(model.InitialFEN))
}

// The rules never compute check, so every move a full generator accepts must
// be accepted here too.
func TestLegalCoversReferenceGenerator(t *testing.T) {
	fens := []string{
		"r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3",
		"r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R w KQkq - 0 1",
		"r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R b KQkq - 0 1",
		"4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1",
		"8/4P3/8/8/8/8/8/K6k w - - 0 1",
		"rnbqkb1r/ppp2ppp/4pn2/3p4/2PP4/2N5/PP2PPPP/R1BQKBNR w KQkq - 2 4",
	}
	for _, fen := range fens {
		t.Run(fen, func(t *testing.T) {
			s := testutil.MustParseFEN(t, fen)
			ours := make(map[string]bool)
			for _, m := range legalMoves(s) {
				ours[m] = true
			}
			for _, m := range referenceMoves(fen) {
				testutil.AssertTrue(t, ours[m], "reference move %s rejected", m)
			}
		})
	}
}

func TestLegalScenarios(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		move string
		want bool
	}{
		{"pawn single push", model.InitialFEN, "e2e3", true},
		{"pawn double push", model.InitialFEN, "e2e4", true},
		{"pawn triple push", model.InitialFEN, "e2e5", false},
		{"knight jump", model.InitialFEN, "g1f3", true},
		{"knight three squares straight", model.InitialFEN, "b1b4", false},
		{"bishop blocked", model.InitialFEN, "f1c4", false},
		{"rook onto own piece", model.InitialFEN, "a1a2", false},
		{"moving the opponent's piece", model.InitialFEN, "e7e5", false},
		{"empty origin", model.InitialFEN, "e4e5", false},
		{"promotion on a quiet push", model.InitialFEN, "e2e4q", false},
		{"pawn to last row without promotion", testutil.PromotionFEN, "e7e8", false},
		{"pawn to last row as queen", testutil.PromotionFEN, "e7e8q", true},
		{"pawn to last row as knight", testutil.PromotionFEN, "e7e8n", true},
		{"pawn to last row as king", testutil.PromotionFEN, "e7e8k", false},
		{"pawn to last row as pawn", testutil.PromotionFEN, "e7e8p", false},
		{"en passant", "4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1", "e5d6", true},
		{"diagonal without capture", "4k3/8/8/3pP3/8/8/8/4K3 w - - 0 1", "e5d6", false},
		{"castle king side", testutil.OpenCastlingFEN, "e1g1", true},
		{"castle queen side", testutil.OpenCastlingFEN, "e1c1", true},
		{"castle without the right", "r3k2r/8/8/8/8/8/8/R3K2R w - - 0 1", "e1g1", false},
		{"castle through a piece", "r3k2r/8/8/8/8/8/8/R3KB1R w KQkq - 0 1", "e1g1", false},
		{"queen side castle blocked on b1", "r3k2r/8/8/8/8/8/8/RN2K2R w KQkq - 0 1", "e1c1", false},
		{"black castles", "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", "e8c8", true},
		{"king steps", model.InitialFEN, "e1e2", false},
		{"queen slides", "4k3/8/8/8/8/8/8/3QK3 w - - 0 1", "d1h5", true},
		{"queen jumps like a knight", "4k3/8/8/8/8/8/8/3QK3 w - - 0 1", "d1e3", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testutil.MustParseFEN(t, tt.fen)
			m := testutil.MustParseMove(t, tt.move)
			testutil.AssertEqual(t, bool(model.Legal(s, m)), tt.want, "Legal(%s)", tt.move)
		})
	}
}

// At most one piece rule may hold for any move, and exactly one holds when
// the move is legal.
func TestAtMostOneRuleHolds(t *testing.T) {
	fens := []string{model.InitialFEN, testutil.OpenCastlingFEN, testutil.PromotionFEN, testutil.CastleIntoRookFEN}
	for _, fen := range fens {
		s := testutil.MustParseFEN(t, fen)
		for from := 0; from < 64; from++ {
			for to := 0; to < 64; to++ {
				m := model.NewMove(model.Pos(from%8, from/8), model.Pos(to%8, to/8))
				results := model.RuleResults(s, m)
				var verdicts []model.Bool
				for _, r := range results {
					verdicts = append(verdicts, r)
				}
				n := model.Count(verdicts...)
				if n > 1 {
					t.Fatalf("%s in %s: %d rules hold", m, fen, n)
				}
				if (n == 1) != bool(model.Legal(s, m)) {
					t.Fatalf("%s in %s: Legal disagrees with rule results %v", m, fen, results)
				}
			}
		}
	}
}

func TestLegalOffBoard(t *testing.T) {
	s := model.NewGameState()
	m := model.NewMove(model.Pos(6, 0), model.Pos(8, 1))
	testutil.AssertFalse(t, bool(model.Legal(s, m)), "move off the board")
	m = model.NewMove(model.Pos(-1, 0), model.Pos(0, 2))
	testutil.AssertFalse(t, bool(model.Legal(s, m)), "move from off the board")
}

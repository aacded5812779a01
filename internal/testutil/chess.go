package testutil

import (
	"testing"

	"github.com/Tejaaswini/zeroking/internal/model"
)

// Positions used across the test suites.
const (
	// White may castle king side; a black rook on a1 covers the back rank.
	CastleIntoRookFEN = "4k3/8/8/8/8/8/8/r3K2R w K - 0 1"
	// Both sides keep every castling right with empty back ranks between.
	OpenCastlingFEN = "r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R w KQkq - 0 1"
	// A white pawn on e7 ready to promote.
	PromotionFEN = "8/4P3/8/8/8/8/8/K6k w - - 0 1"
)

// MustParseFEN parses fen and calls t.Fatal on failure.
func MustParseFEN(t *testing.T, fen string) model.GameState {
	t.Helper()
	s, err := model.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return s
}

// MustParseMove parses UCI text and calls t.Fatal on failure.
func MustParseMove(t *testing.T, uci string) model.Move {
	t.Helper()
	m, err := model.ParseMove(uci)
	if err != nil {
		t.Fatalf("ParseMove(%q): %v", uci, err)
	}
	return m
}

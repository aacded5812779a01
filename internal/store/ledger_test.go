package store

import (
	"testing"

	"github.com/Tejaaswini/zeroking/internal/errors"
	"github.com/Tejaaswini/zeroking/internal/model"
	"github.com/Tejaaswini/zeroking/internal/testutil"
)

func openTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open("")
	testutil.AssertNoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func TestLedgerMeta(t *testing.T) {
	l := openTestLedger(t)

	_, err := l.LoadMeta("missing")
	testutil.AssertErrorIs(t, err, errors.ErrGameNotFound)

	meta := GameMeta{ID: "g1", WhiteKey: "w", BlackKey: "b", Lifecycle: model.Lifecycle{Status: model.StatusActive}}
	testutil.AssertNoError(t, l.SaveMeta(meta))

	got, err := l.LoadMeta("g1")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, got.WhiteKey, "w")
	testutil.AssertEqual(t, got.Lifecycle, meta.Lifecycle)
	testutil.AssertFalse(t, got.CreatedAt.IsZero())

	got.Lifecycle = model.Lifecycle{Status: model.StatusResigned, Winner: model.Black}
	testutil.AssertNoError(t, l.SaveMeta(got))
	again, err := l.LoadMeta("g1")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, again.Lifecycle, got.Lifecycle)
	testutil.AssertTrue(t, again.CreatedAt.Equal(got.CreatedAt), "CreatedAt must survive updates")
}

func TestLedgerAppend(t *testing.T) {
	l := openTestLedger(t)

	_, err := l.Latest("g1")
	testutil.AssertErrorIs(t, err, errors.ErrGameNotFound)

	s := model.NewGameState()
	testutil.AssertNoError(t, l.Append("g1", Entry{Ply: model.InitialPly(s), State: s}))

	states := []model.GameState{s}
	for _, uci := range []string{"e2e4", "e7e5", "g1f3"} {
		prev := states[len(states)-1]
		m := testutil.MustParseMove(t, uci)
		next := model.Apply(prev, m)
		testutil.AssertNoError(t, l.Append("g1", Entry{Ply: model.NewPly(prev, m, next), State: next}))
		states = append(states, next)
	}

	err = l.Append("g1", Entry{Ply: model.InitialPly(s), State: s})
	testutil.AssertErrorIs(t, err, ErrPlyExists)

	latest, err := l.Latest("g1")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, latest.Ply.Number, 3)
	testutil.AssertEqual(t, model.ToFEN(latest.State), model.ToFEN(states[3]))
	testutil.AssertNoError(t, latest.State.Validate())

	history, err := l.History("g1")
	testutil.AssertNoError(t, err)
	var notation []string
	for _, e := range history {
		notation = append(notation, e.Ply.Notation)
	}
	testutil.AssertEqual(t, notation, []string{"", "e4", "e5", "Nf3"})
}

// Games sharing an id prefix must not see each other's plies.
func TestLedgerIsolation(t *testing.T) {
	l := openTestLedger(t)
	s := model.NewGameState()
	next := model.Apply(s, testutil.MustParseMove(t, "d2d4"))

	testutil.AssertNoError(t, l.Append("g1", Entry{Ply: model.InitialPly(s), State: s}))
	testutil.AssertNoError(t, l.Append("g10", Entry{Ply: model.InitialPly(next), State: next}))
	testutil.AssertNoError(t, l.SaveMeta(GameMeta{ID: "g1"}))
	testutil.AssertNoError(t, l.SaveMeta(GameMeta{ID: "g10"}))

	latest, err := l.Latest("g1")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, model.ToFEN(latest.State), model.InitialFEN)

	history, err := l.History("g1")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(history), 1)

	games, err := l.Games()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(games), 2)
}

// Plies past six digits must still sort after the ones before them.
func TestLedgerLatestLargePly(t *testing.T) {
	l := openTestLedger(t)
	s := model.NewGameState()

	for _, n := range []int{999999, 1000000, 8, 65536} {
		testutil.AssertNoError(t, l.Append("g1", Entry{Ply: model.Ply{Number: n}, State: s}))
	}

	latest, err := l.Latest("g1")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, latest.Ply.Number, 1000000)

	history, err := l.History("g1")
	testutil.AssertNoError(t, err)
	var numbers []int
	for _, e := range history {
		numbers = append(numbers, e.Ply.Number)
	}
	testutil.AssertEqual(t, numbers, []int{8, 65536, 999999, 1000000})
}

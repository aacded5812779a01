package model_test

import (
	"testing"

	"github.com/Tejaaswini/zeroking/internal/errors"
	"github.com/Tejaaswini/zeroking/internal/model"
	"github.com/Tejaaswini/zeroking/internal/testutil"
)

func TestQueue(t *testing.T) {
	q := model.NewQueue()

	_, _, ok := q.GetNextPair()
	testutil.AssertFalse(t, ok, "pair from an empty queue")

	testutil.AssertNoError(t, q.AddPlayer(model.Player{PublicKey: "a"}))
	testutil.AssertErrorIs(t, q.AddPlayer(model.Player{PublicKey: "a"}), errors.ErrAlreadyQueued)

	_, _, ok = q.GetNextPair()
	testutil.AssertFalse(t, ok, "pair from a single player")

	testutil.AssertNoError(t, q.AddPlayer(model.Player{PublicKey: "b"}))
	testutil.AssertNoError(t, q.AddPlayer(model.Player{PublicKey: "c"}))
	testutil.AssertEqual(t, q.Size(), 3)
	testutil.AssertTrue(t, q.Contains("c"))

	p1, p2, ok := q.GetNextPair()
	testutil.AssertTrue(t, ok)
	testutil.AssertEqual(t, []string{p1.PublicKey, p2.PublicKey}, []string{"a", "b"})
	testutil.AssertEqual(t, q.Size(), 1)
	testutil.AssertFalse(t, q.Contains("a"))
}

package model

// Bool is the result type of every legality predicate. Its combinators take
// already-evaluated operands, so And and Or never skip a sub-expression the
// way && and || do: every term of a predicate is computed on every call.
type Bool bool

func (b Bool) And(o Bool) Bool { return b && o }

func (b Bool) Or(o Bool) Bool { return b || o }

func (b Bool) Not() Bool { return !b }

// Any folds its arguments with Or.
func Any(bs ...Bool) Bool {
	r := Bool(false)
	for _, b := range bs {
		r = r.Or(b)
	}
	return r
}

// All folds its arguments with And.
func All(bs ...Bool) Bool {
	r := Bool(true)
	for _, b := range bs {
		r = r.And(b)
	}
	return r
}

// Count returns how many of its arguments are true.
func Count(bs ...Bool) int {
	n := 0
	for _, b := range bs {
		if b {
			n++
		}
	}
	return n
}

func eq(a, b int) Bool { return Bool(a == b) }

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

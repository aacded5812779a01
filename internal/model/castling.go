package model

// crossedColumns are the back-rank columns that can carry a crossed square:
// c, d, e and f.
var crossedColumns = [...]int{2, 3, 4, 5}

// CastlingViolated is evaluated on the state that follows a castle, with the
// castler's opponent to move. It reports whether reply lands on a square the
// castling king stood on or crossed: e or f after castling king side, c, d or
// e after castling queen side. It is never true unless KingCastled is set.
func CastlingViolated(s GameState, reply Move) Bool {
	castler := s.Turn.Opposite()
	row := homeRow(castler)
	king := s.Player(castler).King()

	kingSide := Bool(king.Position == Pos(6, row))
	queenSide := Bool(king.Position == Pos(2, row))
	dest := reply.Path.End

	kingSideWasVulnerable := dest.In(Pos(4, row), Pos(5, row))
	queenSideWasVulnerable := dest.In(Pos(4, row), Pos(3, row), Pos(2, row))

	return Bool(s.KingCastled).And(Any(
		kingSide.And(kingSideWasVulnerable),
		queenSide.And(queenSideWasVulnerable),
	))
}

// CastleExposed reports whether any piece of the side to move has a legal
// move onto a square the opposing king crossed while castling. It tries a
// fixed set of moves: every listed piece against every crossed column.
// Attack sets are not computed, so a crossed square that is only attacked,
// not reachable by a legal move, goes unnoticed.
func CastleExposed(s GameState) Bool {
	row := homeRow(s.Turn.Opposite())
	exposed := Bool(false)
	for _, p := range s.Current().Pieces {
		for _, col := range crossedColumns {
			m := NewMove(p.Position, Pos(col, row))
			if p.Type == Pawn {
				m.Promotion = Queen
			}
			exposed = exposed.Or(Legal(s, m).And(CastlingViolated(s, m)))
		}
	}
	return exposed
}

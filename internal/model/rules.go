package model

// A rule is the legality predicate of one piece type. Each rule carries its
// own origin gate, so for any move at most one rule can hold.
type rule func(s *GameState, m Move) Bool

var rules = [...]struct {
	piece PieceType
	legal rule
}{
	{Pawn, legalPawn},
	{Knight, legalKnight},
	{Bishop, legalBishop},
	{Rook, legalRook},
	{Queen, legalQueen},
	{King, legalKing},
}

// Legal reports whether m is a legal move in s. All six rules are evaluated
// and combined with Or.
func Legal(s GameState, m Move) Bool {
	results := make([]Bool, len(rules))
	for i, r := range rules {
		results[i] = r.legal(&s, m)
	}
	return Any(results...)
}

// RuleResults returns each rule's verdict for m, keyed by piece type.
func RuleResults(s GameState, m Move) map[PieceType]Bool {
	out := make(map[PieceType]Bool, len(rules))
	for _, r := range rules {
		out[r.piece] = r.legal(&s, m)
	}
	return out
}

// moverIs gates a rule: the origin holds a live piece of type t belonging to
// the side to move, both squares are on the board and distinct, and the
// destination does not hold a piece of the mover's own color.
func moverIs(s *GameState, m Move, t PieceType) Bool {
	piece := s.Board.At(m.Path.Start)
	return All(
		Bool(piece.Alive),
		Bool(piece.Type == t),
		Bool(piece.Color == s.Turn),
		Bool(m.Path.Start.Valid()),
		Bool(m.Path.End.Valid()),
		Bool(m.Path.Start != m.Path.End),
		s.Board.OccupiedBy(m.Path.End, s.Turn).Not(),
	)
}

func noPromotion(m Move) Bool {
	return Bool(m.Promotion == NoPromotion)
}

func legalPawn(s *GameState, m Move) Bool {
	gate := moverIs(s, m, Pawn)
	dir := forward(s.Turn)
	dc, dr := m.Path.delta()
	destEmpty := s.Board.Empty(m.Path.End)

	single := All(eq(dc, 0), eq(dr, dir), destEmpty)
	double := All(
		eq(dc, 0),
		eq(dr, 2*dir),
		eq(m.Path.Start.Row, pawnRow(s.Turn)),
		s.Board.Empty(Pos(m.Path.Start.Column, m.Path.Start.Row+dir)),
		destEmpty,
	)
	diagonal := eq(abs(dc), 1).And(eq(dr, dir))
	capture := diagonal.And(s.Board.OccupiedBy(m.Path.End, s.Turn.Opposite()))
	enPassant := diagonal.And(s.isEnPassant(m.Path.End)).And(destEmpty)

	reachesLast := eq(m.Path.End.Row, lastRow(s.Turn))
	promotion := Any(
		reachesLast.And(promotable(m.Promotion)),
		reachesLast.Not().And(noPromotion(m)),
	)
	return All(gate, Any(single, double, capture, enPassant), promotion)
}

func legalKnight(s *GameState, m Move) Bool {
	gate := moverIs(s, m, Knight)
	jump := m.Path.End.In(targets(m.Path.Start, knightOffsets)...)
	return All(gate, jump, noPromotion(m))
}

func legalBishop(s *GameState, m Move) Bool {
	gate := moverIs(s, m, Bishop)
	return All(gate, m.Path.Diagonal(), m.Path.Clear(&s.Board), noPromotion(m))
}

func legalRook(s *GameState, m Move) Bool {
	gate := moverIs(s, m, Rook)
	return All(gate, m.Path.Straight(), m.Path.Clear(&s.Board), noPromotion(m))
}

func legalQueen(s *GameState, m Move) Bool {
	gate := moverIs(s, m, Queen)
	line := Any(m.Path.Diagonal(), m.Path.Straight())
	return All(gate, line, m.Path.Clear(&s.Board), noPromotion(m))
}

func legalKing(s *GameState, m Move) Bool {
	gate := moverIs(s, m, King)
	step := m.Path.End.In(targets(m.Path.Start, kingOffsets)...)
	kingSide := castling(s, m, true)
	queenSide := castling(s, m, false)
	return All(gate, Any(step, kingSide, queenSide), noPromotion(m))
}

// castling recognises the king's two-square castling move toward one side.
// Whether the king stands in check is not computed here; CastleExposed
// approximates it after the move.
func castling(s *GameState, m Move, kingSide bool) Bool {
	row := homeRow(s.Turn)
	player := s.Player(s.Turn)
	start := Pos(4, row)
	dest, rookStart, right := Pos(2, row), Pos(0, row), player.QueenSideCastle
	if kingSide {
		dest, rookStart, right = Pos(6, row), Pos(7, row), player.KingSideCastle
	}
	rook := s.Board.At(rookStart)
	return All(
		Bool(m.Path.Start == start),
		Bool(m.Path.End == dest),
		Bool(right),
		Bool(rook.Alive),
		Bool(rook.Type == Rook),
		Bool(rook.Color == s.Turn),
		Path{Start: start, End: rookStart}.Clear(&s.Board),
	)
}

package model

// capturedBy returns the enemy piece m removes from the board, including the
// pawn taken en passant.
func capturedBy(s GameState, m Move) (Piece, bool) {
	target := s.Board.At(m.Path.End)
	if target.Alive && target.Color != s.Turn {
		return target, true
	}
	mover := s.Board.At(m.Path.Start)
	if mover.Type == Pawn && bool(s.isEnPassant(m.Path.End)) && m.Path.Start.Column != m.Path.End.Column {
		bypassed := s.Board.At(Pos(m.Path.End.Column, m.Path.Start.Row))
		if bypassed.Alive && bypassed.Type == Pawn && bypassed.Color != s.Turn {
			return bypassed, true
		}
	}
	return Piece{}, false
}

// castleRook returns the rook relocation that accompanies m when m castles.
func castleRook(s GameState, m Move) (Position, Position, bool) {
	mover := s.Board.At(m.Path.Start)
	dc, dr := m.Path.delta()
	if mover.Type != King || dr != 0 || abs(dc) != 2 {
		return Position{}, Position{}, false
	}
	row := m.Path.Start.Row
	if dc > 0 {
		return Pos(7, row), Pos(5, row), true
	}
	return Pos(0, row), Pos(3, row), true
}

// Apply returns the state that follows s after m. It assumes m has already
// been found legal in s and does not check it again.
func Apply(s GameState, m Move) GameState {
	next := s
	next.White = s.White.clone()
	next.Black = s.Black.clone()

	color := s.Turn
	enemy := color.Opposite()
	own := next.player(color)
	opp := next.player(enemy)

	mover := s.Board.At(m.Path.Start)
	moved := mover.movedTo(m.Path.End)
	if mover.Type == Pawn && m.Promotion != NoPromotion {
		moved.Type = m.Promotion
	}

	captured, didCapture := capturedBy(s, m)
	if didCapture {
		opp.capture(captured)
		next.Board.clear(captured.Position)
		if captured.Type == Rook && captured.Position == Pos(7, homeRow(enemy)) {
			opp.KingSideCastle = false
		}
		if captured.Type == Rook && captured.Position == Pos(0, homeRow(enemy)) {
			opp.QueenSideCastle = false
		}
	}

	own.replace(mover, moved)
	next.Board.clear(m.Path.Start)
	next.Board.set(moved)

	rookFrom, rookTo, castled := castleRook(s, m)
	if castled {
		rook := s.Board.At(rookFrom)
		movedRook := rook.movedTo(rookTo)
		own.replace(rook, movedRook)
		next.Board.clear(rookFrom)
		next.Board.set(movedRook)
	}
	next.KingCastled = castled

	switch {
	case mover.Type == King:
		own.KingSideCastle = false
		own.QueenSideCastle = false
	case mover.Type == Rook && m.Path.Start == Pos(7, homeRow(color)):
		own.KingSideCastle = false
	case mover.Type == Rook && m.Path.Start == Pos(0, homeRow(color)):
		own.QueenSideCastle = false
	}

	next.EnPassant = nil
	if _, dr := m.Path.delta(); mover.Type == Pawn && abs(dr) == 2 {
		ep := Pos(m.Path.Start.Column, m.Path.Start.Row+dr/2)
		next.EnPassant = &ep
	}

	next.HalfmoveClock++
	if mover.Type == Pawn || didCapture {
		next.HalfmoveClock = 0
	}
	if color == Black {
		next.FullmoveNumber++
	}
	next.Turn = enemy
	return next
}

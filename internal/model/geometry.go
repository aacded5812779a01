package model

// maxRay is the longest straight or diagonal line on the board.
const maxRay = 7

type Path struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

func (p Path) delta() (int, int) {
	return p.End.Column - p.Start.Column, p.End.Row - p.Start.Row
}

// Diagonal reports whether End lies on a diagonal through Start.
func (p Path) Diagonal() Bool {
	dc, dr := p.delta()
	return eq(abs(dc), abs(dr)).And(Bool(dc != 0))
}

// Straight reports whether End shares a row or a column with Start.
func (p Path) Straight() Bool {
	dc, dr := p.delta()
	return Any(eq(dc, 0).And(Bool(dr != 0)), eq(dr, 0).And(Bool(dc != 0)))
}

func (p Path) length() int {
	dc, dr := p.delta()
	return max(abs(dc), abs(dr))
}

// Clear reports whether every square strictly between Start and End is empty.
// All maxRay steps are evaluated; steps past End contribute true. The result
// is only meaningful for straight and diagonal paths.
func (p Path) Clear(b *Board) Bool {
	dc, dr := p.delta()
	stepC, stepR := sign(dc), sign(dr)
	n := p.length()
	clear := Bool(true)
	for k := 1; k <= maxRay; k++ {
		sq := Pos(p.Start.Column+k*stepC, p.Start.Row+k*stepR)
		between := Bool(k < n)
		clear = clear.And(between.Not().Or(b.Empty(sq)))
	}
	return clear
}

var (
	knightOffsets = [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingOffsets   = [8][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
)

// targets returns the eight squares reached from p by a fixed offset table.
// Squares off the board are included; they never match a valid destination.
func targets(p Position, offsets [8][2]int) []Position {
	out := make([]Position, len(offsets))
	for i, o := range offsets {
		out[i] = Pos(p.Column+o[0], p.Row+o[1])
	}
	return out
}

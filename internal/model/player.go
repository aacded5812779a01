package model

type PlayerColor string

const (
	White PlayerColor = "white"
	Black PlayerColor = "black"
)

func (c PlayerColor) Opposite() PlayerColor {
	if c == White {
		return Black
	}
	return White
}

func (c PlayerColor) Valid() bool {
	return c == White || c == Black
}

// homeRow is the back rank of c: row 0 for white, row 7 for black.
func homeRow(c PlayerColor) int {
	if c == Black {
		return 7
	}
	return 0
}

func pawnRow(c PlayerColor) int {
	if c == Black {
		return 6
	}
	return 1
}

func lastRow(c PlayerColor) int {
	return homeRow(c.Opposite())
}

func forward(c PlayerColor) int {
	if c == Black {
		return -1
	}
	return 1
}

// Player is a participant identified by the identity commitment its proofs
// are verified against.
type Player struct {
	PublicKey string
	Color     PlayerColor
}

type ClientPlayer struct {
	PublicKey string      `json:"publicKey"`
	Color     PlayerColor `json:"color"`
}

type Players struct {
	White ClientPlayer `json:"white"`
	Black ClientPlayer `json:"black"`
}

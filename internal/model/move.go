package model

import (
	"fmt"
	"strings"

	"github.com/Tejaaswini/zeroking/internal/errors"
)

type Move struct {
	Path      Path      `json:"path"`
	Promotion PieceType `json:"promotion,omitempty"`
}

// NewMove builds a non-promoting move between two squares.
func NewMove(from, to Position) Move {
	return Move{Path: Path{Start: from, End: to}}
}

var promotionLetters = map[byte]PieceType{
	'n': Knight,
	'b': Bishop,
	'r': Rook,
	'q': Queen,
	'k': King,
	'p': Pawn,
}

// ParseMove reads UCI notation: "e2e4", or "e7e8q" with a promotion letter.
// King and pawn letters parse so that the rules can reject them.
func ParseMove(s string) (Move, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 4 && len(s) != 5 {
		return Move{}, errors.Malformed("move %q", s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return Move{}, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return Move{}, err
	}
	m := NewMove(from, to)
	if len(s) == 5 {
		promo, ok := promotionLetters[s[4]]
		if !ok {
			return Move{}, errors.Malformed("promotion %q", s[4:])
		}
		m.Promotion = promo
	}
	return m, nil
}

func (m Move) String() string {
	s := m.Path.Start.getSquareNotation() + m.Path.End.getSquareNotation()
	for letter, t := range promotionLetters {
		if t == m.Promotion {
			s += string(letter)
		}
	}
	return s
}

// PlayerZkProof attests, without revealing the credential, that the holder
// of PublicKey owns a credential whose domain claim equals the required one.
type PlayerZkProof struct {
	PublicKey string `json:"publicKey"`
	Proof     []byte `json:"proof"`
}

// AuthenticatedMove is the only input the move pipeline accepts.
type AuthenticatedMove struct {
	Move        Move          `json:"move"`
	PlayerProof PlayerZkProof `json:"playerProof"`
}

type CastleRookMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

// Ply records one committed half-move.
type Ply struct {
	Number         int             `json:"number"`
	Move           *Move           `json:"move,omitempty"`
	Piece          *Piece          `json:"piece,omitempty"`
	CapturedPiece  *Piece          `json:"capturedPiece,omitempty"`
	CastleRookMove *CastleRookMove `json:"castleRookMove,omitempty"`
	Notation       string          `json:"notation,omitempty"`
	FEN            string          `json:"fen"`
}

// InitialPly is the ply-zero record of a freshly started game.
func InitialPly(s GameState) Ply {
	return Ply{Number: s.Ply(), FEN: ToFEN(s)}
}

// NewPly describes the accepted move m that turned prev into next.
func NewPly(prev GameState, m Move, next GameState) Ply {
	piece := prev.Board.At(m.Path.Start)
	ply := Ply{
		Number:   next.Ply(),
		Move:     &m,
		Piece:    &piece,
		Notation: getNotation(prev, m),
		FEN:      ToFEN(next),
	}
	if captured, ok := capturedBy(prev, m); ok {
		ply.CapturedPiece = &captured
	}
	if rookFrom, rookTo, ok := castleRook(prev, m); ok {
		ply.CastleRookMove = &CastleRookMove{From: rookFrom, To: rookTo}
	}
	return ply
}

func getNotation(s GameState, m Move) string {
	if _, _, ok := castleRook(s, m); ok {
		if m.Path.End.Column == 6 {
			return "O-O"
		}
		return "O-O-O"
	}
	piece := s.Board.At(m.Path.Start)
	from := m.Path.Start
	to := m.Path.End
	pieceNotationPrefix := piece.Type.getPieceNotation()
	pieceNotationCapture := ""
	if _, ok := capturedBy(s, m); ok {
		pieceNotationCapture = "x"
	}
	pieceNotationSuffix := to.getSquareNotation()
	pawnFileSpecifier := ""
	if piece.Type == Pawn && from.Column != to.Column {
		pawnFileSpecifier = from.getFileNotation()
	}
	if piece.Type == Pawn && m.Promotion != NoPromotion {
		pieceNotationSuffix += "=" + m.Promotion.getPieceNotation()
	}
	return fmt.Sprintf("%s%s%s%s", pieceNotationPrefix, pawnFileSpecifier, pieceNotationCapture, pieceNotationSuffix)
}

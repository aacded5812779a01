package model

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/Tejaaswini/zeroking/internal/errors"
)

// InitialFEN is the FEN string for the standard starting position.
const InitialFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var fenPieces = map[rune]PieceType{
	'k': King,
	'q': Queen,
	'r': Rook,
	'b': Bishop,
	'n': Knight,
	'p': Pawn,
}

func fenLetter(p Piece) byte {
	letter := p.Type.getPieceNotation()
	if p.Type == Pawn {
		letter = "P"
	}
	if p.Color == Black {
		return strings.ToLower(letter)[0]
	}
	return letter[0]
}

// ToFEN projects s onto Forsyth-Edwards Notation.
func ToFEN(s GameState) string {
	var sb strings.Builder
	for row := 7; row >= 0; row-- {
		empty := 0
		for col := 0; col < 8; col++ {
			p := s.Board.At(Pos(col, row))
			if !p.Alive {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(fenLetter(p))
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if row > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if s.Turn == Black {
		sb.WriteByte('b')
	} else {
		sb.WriteByte('w')
	}

	sb.WriteByte(' ')
	rights := ""
	if s.White.KingSideCastle {
		rights += "K"
	}
	if s.White.QueenSideCastle {
		rights += "Q"
	}
	if s.Black.KingSideCastle {
		rights += "k"
	}
	if s.Black.QueenSideCastle {
		rights += "q"
	}
	if rights == "" {
		rights = "-"
	}
	sb.WriteString(rights)

	sb.WriteByte(' ')
	if s.EnPassant != nil {
		sb.WriteString(s.EnPassant.getSquareNotation())
	} else {
		sb.WriteByte('-')
	}

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(s.HalfmoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(s.FullmoveNumber))
	return sb.String()
}

// ParseFEN builds a GameState from a FEN string. The piece placement and side
// to move are required; missing trailing fields take their usual defaults.
func ParseFEN(fen string) (GameState, error) {
	parts := strings.Fields(fen)
	if len(parts) < 2 {
		return GameState{}, errors.Malformed("FEN %q needs placement and side to move", fen)
	}

	white := PlayerState{}
	black := PlayerState{}
	if err := parsePiecePositions(parts[0], &white, &black); err != nil {
		return GameState{}, err
	}

	turn, err := parseSideToMove(parts[1])
	if err != nil {
		return GameState{}, err
	}

	s := newState(white, black, turn)
	if len(parts) > 2 {
		if err := parseCastlingRights(&s, parts[2]); err != nil {
			return GameState{}, err
		}
	}
	if len(parts) > 3 {
		if err := parseEnPassant(&s, parts[3]); err != nil {
			return GameState{}, err
		}
	}
	var clocks []string
	if len(parts) > 4 {
		clocks = parts[4:]
	}
	if err := parseClocks(&s, clocks); err != nil {
		return GameState{}, err
	}

	if err := s.Validate(); err != nil {
		return GameState{}, err
	}
	return s, nil
}

func parsePiecePositions(placement string, white, black *PlayerState) error {
	rows := strings.Split(placement, "/")
	if len(rows) != 8 {
		return errors.Malformed("FEN placement has %d rows", len(rows))
	}
	for i, rowText := range rows {
		row := 7 - i
		col := 0
		for _, c := range rowText {
			if c >= '1' && c <= '8' {
				col += int(c - '0')
				continue
			}
			t, ok := fenPieces[unicode.ToLower(c)]
			if !ok {
				return errors.Malformed("invalid piece character %q", c)
			}
			if col > 7 {
				return errors.Malformed("FEN row %d overflows", row+1)
			}
			p := Piece{Type: t, Color: White, Position: Pos(col, row), Alive: true}
			if unicode.IsLower(c) {
				p.Color = Black
				black.Pieces = append(black.Pieces, p)
			} else {
				white.Pieces = append(white.Pieces, p)
			}
			col++
		}
		if col != 8 {
			return errors.Malformed("FEN row %d has %d columns", row+1, col)
		}
	}
	return nil
}

func parseSideToMove(field string) (PlayerColor, error) {
	switch field {
	case "w":
		return White, nil
	case "b":
		return Black, nil
	}
	return "", errors.Malformed("side to move %q", field)
}

// parseCastlingRights sets a right only when king and rook still stand on
// their starting squares.
func parseCastlingRights(s *GameState, field string) error {
	if field == "-" {
		return nil
	}
	for _, c := range field {
		color := White
		if unicode.IsLower(c) {
			color = Black
		}
		row := homeRow(color)
		ps := s.player(color)
		king := s.Board.At(Pos(4, row))
		kingHome := king.Alive && king.Type == King && king.Color == color
		rookHome := func(col int) bool {
			r := s.Board.At(Pos(col, row))
			return r.Alive && r.Type == Rook && r.Color == color
		}
		switch unicode.ToLower(c) {
		case 'k':
			ps.KingSideCastle = kingHome && rookHome(7)
		case 'q':
			ps.QueenSideCastle = kingHome && rookHome(0)
		default:
			return errors.Malformed("castling rights %q", field)
		}
	}
	return nil
}

func parseEnPassant(s *GameState, field string) error {
	if field == "-" {
		return nil
	}
	sq, err := ParseSquare(field)
	if err != nil {
		return err
	}
	s.EnPassant = &sq
	return nil
}

func parseClocks(s *GameState, fields []string) error {
	if len(fields) > 0 {
		n, err := strconv.Atoi(fields[0])
		if err != nil || n < 0 {
			return errors.Malformed("halfmove clock %q", fields[0])
		}
		s.HalfmoveClock = n
	}
	if len(fields) > 1 {
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 1 {
			return errors.Malformed("fullmove number %q", fields[1])
		}
		s.FullmoveNumber = n
	}
	return nil
}

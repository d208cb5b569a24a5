package board

import "fmt"

// Piece is the value held by one board cell: Empty, OffBoard or an encoded
// color/kind pair. Encoded pieces are always positive.
type Piece int8

// Color occupies two bits above the kind field. White and Black are spaced so
// the color bits never overlap kind bits once shifted.
type Color int8

// Kind is the colorless piece type.
type Kind int8

const (
	White Color = 0
	Black Color = 2
)

const (
	Pawn Kind = iota + 1
	Knight
	Bishop
	Rook
	Queen
	King
)

const (
	Empty    Piece = 0
	OffBoard Piece = -1
)

// Bit layout: [color:2][kind:4]
const (
	ColorShift = 4
	ColorMask  = 0b11
	KindMask   = 0b1111
)

// Encode packs a color and kind into a cell value.
func Encode(c Color, k Kind) Piece {
	return Piece(int8(c)<<ColorShift | int8(k))
}

// Decode splits an occupied cell into color and kind.
func Decode(p Piece) (Color, Kind, error) {
	if !p.IsPiece() {
		return 0, 0, fmt.Errorf("decode %d: %w", p, ErrNotAPiece)
	}
	return p.Color(), p.Kind(), nil
}

// IsPiece reports whether the cell holds an encoded piece.
func (p Piece) IsPiece() bool {
	return p > Empty
}

// Color returns the color field. Only meaningful when IsPiece is true.
func (p Piece) Color() Color {
	return Color((p >> ColorShift) & ColorMask)
}

// Kind returns the kind field. Only meaningful when IsPiece is true.
func (p Piece) Kind() Kind {
	return Kind(p & KindMask)
}

var kindSymbols = [...]byte{Pawn: 'p', Knight: 'n', Bishop: 'b', Rook: 'r', Queen: 'q', King: 'k'}

// Symbol returns the FEN letter for the piece, uppercase for White.
// Empty renders as '.', OffBoard as '#'.
func (p Piece) Symbol() byte {
	switch {
	case p == Empty:
		return '.'
	case !p.IsPiece():
		return '#'
	}
	k := p.Kind()
	if k < Pawn || k > King {
		return '?'
	}
	sym := kindSymbols[k]
	if p.Color() == White {
		sym -= 'a' - 'A'
	}
	return sym
}

func (p Piece) String() string {
	return string(p.Symbol())
}

// PieceFromSymbol maps a FEN piece letter to its encoded value.
func PieceFromSymbol(r rune) (Piece, bool) {
	color := Black
	if r >= 'A' && r <= 'Z' {
		color = White
		r += 'a' - 'A'
	}
	for k := Pawn; k <= King; k++ {
		if rune(kindSymbols[k]) == r {
			return Encode(color, k), true
		}
	}
	return Empty, false
}

// Opposite returns the other side.
func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

// String returns the FEN side-to-move letter.
func (c Color) String() string {
	switch c {
	case White:
		return "w"
	case Black:
		return "b"
	default:
		return "-"
	}
}

// ParseColor accepts the FEN side-to-move letters and their long names.
func ParseColor(s string) (Color, error) {
	switch s {
	case "w", "white":
		return White, nil
	case "b", "black":
		return Black, nil
	default:
		return White, fmt.Errorf("invalid color %q: %w", s, ErrInvalidInput)
	}
}

func (k Kind) String() string {
	switch k {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	default:
		return "unknown"
	}
}

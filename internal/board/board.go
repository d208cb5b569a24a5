package board

import (
	"fmt"
	"strings"
)

const (
	// StartingPlacement is the piece-placement field of the initial position.
	StartingPlacement = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR"
	StartingFEN       = StartingPlacement + " w KQkq - 0 1"
)

// Board is a 120-cell padded mailbox. It is built once by LoadPosition and
// never mutated afterwards, so it may be shared between goroutines.
type Board struct {
	cells [Size]Piece

	// occupied squares per color, ascending
	white []int
	black []int
}

// At returns the cell value at index. Indices outside the array read as OffBoard.
func (b *Board) At(index int) Piece {
	if index < 0 || index >= Size {
		return OffBoard
	}
	return b.cells[index]
}

// Cells returns a copy of all 120 cells.
func (b *Board) Cells() [Size]Piece {
	return b.cells
}

// Squares returns the occupied squares of one color in ascending order.
func (b *Board) Squares(c Color) []int {
	var src []int
	if c == White {
		src = b.white
	} else {
		src = b.black
	}
	out := make([]int, len(src))
	copy(out, src)
	return out
}

// Count returns how many pieces of the given color and kind are on the board.
func (b *Board) Count(c Color, k Kind) int {
	want := Encode(c, k)
	n := 0
	for _, sq := range realSquares {
		if b.cells[sq] == want {
			n++
		}
	}
	return n
}

func (b *Board) indexPieces() {
	b.white, b.black = b.white[:0], b.black[:0]
	for _, sq := range realSquares {
		p := b.cells[sq]
		if !p.IsPiece() {
			continue
		}
		if p.Color() == White {
			b.white = append(b.white, sq)
		} else {
			b.black = append(b.black, sq)
		}
	}
}

// Placement serializes the board back into a FEN piece-placement field.
func (b *Board) Placement() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			p := b.cells[Index(file, rank)]
			if p == Empty {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(p.Symbol())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	return sb.String()
}

// String renders an ASCII diagram with rank 8 at the top.
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")

	for rank := 7; rank >= 0; rank-- {
		sb.WriteString(fmt.Sprintf("%d ", rank+1))
		for file := 0; file < 8; file++ {
			sb.WriteByte(b.cells[Index(file, rank)].Symbol())
			sb.WriteByte(' ')
		}
		sb.WriteString(fmt.Sprintf(" %d\n", rank+1))
	}
	sb.WriteString("  a b c d e f g h")

	return sb.String()
}

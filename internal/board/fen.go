package board

import (
	"fmt"
	"strings"
)

// LoadPosition builds a board from a FEN piece-placement field.
func LoadPosition(placement string) (*Board, error) {
	if strings.TrimSpace(placement) == "" {
		return nil, fmt.Errorf("empty piece placement: %w", ErrInvalidInput)
	}

	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("expected 8 ranks, got %d: %w", len(ranks), ErrMalformedFEN)
	}

	b := &Board{}
	for i := range b.cells {
		b.cells[i] = OffBoard
	}

	// FEN lists rank 8 first, which is also the first real row.
	index := A8
	for r, rank := range ranks {
		files := 0
		for _, ch := range rank {
			switch {
			case ch >= '1' && ch <= '8':
				n := int(ch - '0')
				if files+n > 8 {
					return nil, fmt.Errorf("rank %d overflows 8 files: %w", 8-r, ErrMalformedFEN)
				}
				for j := 0; j < n; j++ {
					b.cells[index+j] = Empty
				}
				index += n
				files += n
			default:
				p, ok := PieceFromSymbol(ch)
				if !ok {
					return nil, fmt.Errorf("unknown symbol %q in rank %d: %w", ch, 8-r, ErrMalformedFEN)
				}
				if files >= 8 {
					return nil, fmt.Errorf("rank %d overflows 8 files: %w", 8-r, ErrMalformedFEN)
				}
				b.cells[index] = p
				index++
				files++
			}
		}
		if files != 8 {
			return nil, fmt.Errorf("rank %d has %d files: %w", 8-r, files, ErrMalformedFEN)
		}

		// skip the right border of this row and the left border of the next
		index += 2
	}

	b.indexPieces()
	return b, nil
}

// LoadRecord accepts either a bare placement field or a full FEN record. Only
// the placement and side-to-move fields are read; a missing side defaults to White.
func LoadRecord(record string) (*Board, Color, error) {
	fields := strings.Fields(record)
	if len(fields) == 0 {
		return nil, White, fmt.Errorf("empty FEN record: %w", ErrInvalidInput)
	}

	b, err := LoadPosition(fields[0])
	if err != nil {
		return nil, White, err
	}

	side := White
	if len(fields) > 1 {
		if fields[1] != "w" && fields[1] != "b" {
			return nil, White, fmt.Errorf("side to move %q: %w", fields[1], ErrMalformedFEN)
		}
		side, _ = ParseColor(fields[1])
	}
	return b, side, nil
}

package board

import "fmt"

// Layout of the padded board: 10 columns by 12 rows. Rows 0-1 and 10-11 and
// columns 0 and 9 are border cells. Row 2 holds rank 8, row 9 holds rank 1.
const (
	Size  = 120
	Width = 10

	// A8 is the first real square; H1 the last.
	A8 = 21
	H1 = 98
)

// Index maps zero-based file (a=0) and rank (rank 1 = 0) to a cell index.
func Index(file, rank int) int {
	return A8 + file + Width*(7-rank)
}

// FileRank is the inverse of Index. ok is false for border cells.
func FileRank(index int) (file, rank int, ok bool) {
	if index < 0 || index >= Size {
		return 0, 0, false
	}
	col, row := index%Width, index/Width
	if col < 1 || col > 8 || row < 2 || row > 9 {
		return 0, 0, false
	}
	return col - 1, 9 - row, true
}

// IsReal reports whether index addresses one of the 64 playable squares.
func IsReal(index int) bool {
	_, _, ok := FileRank(index)
	return ok
}

// IndexOf converts an algebraic label such as "e4" into a cell index.
func IndexOf(coordinate string) (int, error) {
	if len(coordinate) != 2 {
		return 0, fmt.Errorf("%q: %w", coordinate, ErrInvalidCoordinate)
	}
	f, r := coordinate[0], coordinate[1]
	if f < 'a' || f > 'h' || r < '1' || r > '8' {
		return 0, fmt.Errorf("%q: %w", coordinate, ErrInvalidCoordinate)
	}
	return Index(int(f-'a'), int(r-'1')), nil
}

// CoordinateOf converts a real cell index back into its algebraic label.
func CoordinateOf(index int) (string, error) {
	file, rank, ok := FileRank(index)
	if !ok {
		return "", fmt.Errorf("index %d: %w", index, ErrInvalidCoordinate)
	}
	return string([]byte{byte('a' + file), byte('1' + rank)}), nil
}

// MustCoordinateOf is CoordinateOf for indices already known to be real.
func MustCoordinateOf(index int) string {
	s, err := CoordinateOf(index)
	if err != nil {
		panic(err)
	}
	return s
}

var realSquares = func() []int {
	squares := make([]int, 0, 64)
	for i := 0; i < Size; i++ {
		if IsReal(i) {
			squares = append(squares, i)
		}
	}
	return squares
}()

// RealSquares returns the 64 playable indices in ascending order.
func RealSquares() []int {
	out := make([]int, len(realSquares))
	copy(out, realSquares)
	return out
}

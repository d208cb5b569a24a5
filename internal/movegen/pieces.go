package movegen

import "mailbox/internal/board"

var (
	diagonalOffsets   = []int{11, -11, 9, -9}
	orthogonalOffsets = []int{10, -10, 1, -1}
	octolinearOffsets = []int{11, -11, 9, -9, 10, -10, 1, -1}

	knightOffsets = []int{21, -21, 19, -19, 12, -12, 8, -8}
	kingOffsets   = []int{-10, 10, 1, -1, 11, -11, 9, -9}
)

// slidingMoves walks each ray until the edge or the first occupied cell.
// An enemy piece ends the ray and is recorded; a friendly one is not.
func slidingMoves(b *board.Board, from int, offsets []int) PieceMove {
	pm := newPieceMove(b, from)
	mover := pm.Piece

	for _, offset := range offsets {
		for to := from + offset; ; to += offset {
			target := b.At(to)
			if target == board.OffBoard {
				break
			}
			if target == board.Empty {
				pm.TargetSquares = append(pm.TargetSquares, to)
				continue
			}
			if !IsFriendly(mover, target) {
				pm.TargetSquares = append(pm.TargetSquares, to)
			}
			break
		}
	}

	return pm
}

// stepMoves takes exactly one step per offset (knight and king).
func stepMoves(b *board.Board, from int, offsets []int) PieceMove {
	pm := newPieceMove(b, from)
	mover := pm.Piece

	for _, offset := range offsets {
		to := from + offset
		target := b.At(to)
		switch {
		case target == board.OffBoard:
		case target == board.Empty, !IsFriendly(mover, target):
			pm.TargetSquares = append(pm.TargetSquares, to)
		}
	}

	return pm
}

// Starting rank bounds for the double push.
const (
	whitePawnRankLo, whitePawnRankHi = 81, 88
	blackPawnRankLo, blackPawnRankHi = 31, 38
)

func onStartingRank(color board.Color, sq int) bool {
	if color == board.White {
		return sq >= whitePawnRankLo && sq <= whitePawnRankHi
	}
	return sq >= blackPawnRankLo && sq <= blackPawnRankHi
}

// pawnMoves: White moves toward lower indices, Black toward higher ones.
// En passant and promotion are not generated.
func (g *Generator) pawnMoves(b *board.Board, from int) PieceMove {
	pm := newPieceMove(b, from)
	mover := pm.Piece
	color := mover.Color()

	dir := -1
	if color == board.Black {
		dir = 1
	}

	single := from + 10*dir
	if b.At(single) == board.Empty {
		pm.TargetSquares = append(pm.TargetSquares, single)

		double := single + 10*dir
		if onStartingRank(color, from) && b.At(double) == board.Empty {
			pm.TargetSquares = append(pm.TargetSquares, double)
		}
	}

	for _, diag := range [2]int{from + 11*dir, from + 9*dir} {
		target := b.At(diag)
		switch {
		case target == board.OffBoard:
		case target == board.Empty:
			if g.permissiveDiagonals {
				pm.TargetSquares = append(pm.TargetSquares, diag)
			}
		case !IsFriendly(mover, target):
			pm.TargetSquares = append(pm.TargetSquares, diag)
		}
	}

	return pm
}

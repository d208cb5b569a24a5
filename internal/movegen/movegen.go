// Package movegen produces pseudo-legal moves on a padded mailbox board.
//
// Walks never bounds-check: every offset from a real square lands either on
// another real square or on an OffBoard cell, which ends the walk.
package movegen

import (
	"mailbox/internal/board"
)

// PieceMove lists the squares one piece can reach. TargetSquares follow the
// per-kind direction order, not index order.
type PieceMove struct {
	Piece         board.Piece `json:"piece"`
	StartSquare   int         `json:"startSquare"`
	TargetSquares []int       `json:"targetSquares"`
}

// Move is a single from/to pair flattened out of a PieceMove.
type Move struct {
	From int
	To   int
}

// String returns the move in coordinate notation, e.g. "e2e4".
func (m Move) String() string {
	return board.MustCoordinateOf(m.From) + board.MustCoordinateOf(m.To)
}

// Option configures a Generator.
type Option func(*Generator)

// WithPermissiveDiagonals makes pawns record any diagonal square that is on
// the board and not friendly, including empty ones. Without it a pawn only
// moves diagonally onto an enemy piece.
func WithPermissiveDiagonals() Option {
	return func(g *Generator) {
		g.permissiveDiagonals = true
	}
}

// Generator holds rule switches. The zero value applies standard capture rules.
type Generator struct {
	permissiveDiagonals bool
}

// New creates a Generator with the given options.
func New(opts ...Option) *Generator {
	g := &Generator{}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

var defaultGenerator = New()

// GeneratePseudoLegalMoves runs the default generator for side on b.
func GeneratePseudoLegalMoves(b *board.Board, side board.Color) []PieceMove {
	return defaultGenerator.Generate(b, side)
}

// Generate returns one PieceMove per piece of side, in ascending square order.
// The board is only read.
func (g *Generator) Generate(b *board.Board, side board.Color) []PieceMove {
	moves := make([]PieceMove, 0, 16)

	for sq := board.A8; sq <= board.H1; sq++ {
		p := b.At(sq)
		if !p.IsPiece() || p.Color() != side {
			continue
		}

		switch p.Kind() {
		case board.Pawn:
			moves = append(moves, g.pawnMoves(b, sq))
		case board.Knight:
			moves = append(moves, stepMoves(b, sq, knightOffsets))
		case board.Bishop:
			moves = append(moves, slidingMoves(b, sq, diagonalOffsets))
		case board.Rook:
			moves = append(moves, slidingMoves(b, sq, orthogonalOffsets))
		case board.Queen:
			moves = append(moves, slidingMoves(b, sq, octolinearOffsets))
		case board.King:
			moves = append(moves, stepMoves(b, sq, kingOffsets))
		}
	}

	return moves
}

// IsFriendly reports whether two occupied cells hold pieces of the same color.
func IsFriendly(a, b board.Piece) bool {
	return a.Color() == b.Color()
}

// Flatten expands PieceMoves into individual from/to pairs, preserving order.
func Flatten(pms []PieceMove) []Move {
	var out []Move
	for _, pm := range pms {
		for _, to := range pm.TargetSquares {
			out = append(out, Move{From: pm.StartSquare, To: to})
		}
	}
	return out
}

// CountTargets returns the total number of target squares across pms.
func CountTargets(pms []PieceMove) int {
	n := 0
	for _, pm := range pms {
		n += len(pm.TargetSquares)
	}
	return n
}

func newPieceMove(b *board.Board, sq int) PieceMove {
	return PieceMove{
		Piece:         b.At(sq),
		StartSquare:   sq,
		TargetSquares: []int{},
	}
}

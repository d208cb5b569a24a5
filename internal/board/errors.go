package board

import "errors"

// Sentinel errors returned by the loader and the coordinate mapper.
// Callers match them with errors.Is; messages carry the offending input.
var (
	// ErrInvalidInput indicates an empty or blank FEN argument.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMalformedFEN indicates piece-placement text that cannot be parsed.
	ErrMalformedFEN = errors.New("malformed FEN")

	// ErrInvalidCoordinate indicates a square label or index outside the real board.
	ErrInvalidCoordinate = errors.New("invalid coordinate")

	// ErrNotAPiece indicates an attempt to decode an empty or off-board cell.
	ErrNotAPiece = errors.New("not a piece")
)

package service

import (
	"context"
	"fmt"
	"runtime"

	"mailbox/internal/board"

	"golang.org/x/sync/errgroup"
)

// AnalyzeInput is one entry of a batch
type AnalyzeInput struct {
	FEN  string
	Turn string
}

// Load accepts either a bare placement field or a full FEN record. turn,
// when set, wins over the record's side-to-move field.
func Load(fen, turn string) (*board.Board, board.Color, error) {
	b, side, err := board.LoadRecord(fen)
	if err != nil {
		return nil, board.White, err
	}

	if turn != "" {
		if side, err = board.ParseColor(turn); err != nil {
			return nil, board.White, err
		}
	}
	return b, side, nil
}

// AnalyzeBatch analyzes independent positions concurrently. Results keep
// request order; the first failure cancels the rest and is returned with
// the index of the offending entry.
func (s *Service) AnalyzeBatch(ctx context.Context, inputs []AnalyzeInput) ([]*Analysis, error) {
	results := make([]*Analysis, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			a, err := s.Analyze(in.FEN, in.Turn)
			if err != nil {
				return fmt.Errorf("position %d: %w", i, err)
			}
			results[i] = a
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

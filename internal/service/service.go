package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"mailbox/internal/board"
	"mailbox/internal/movegen"
	"mailbox/internal/storage"

	"github.com/google/uuid"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var ErrPositionNotFound = errors.New("position not found")

// Position is a loaded board plus the side to move. The board is never
// mutated after load; only Turn changes.
type Position struct {
	ID        string
	Board     *board.Board
	Turn      board.Color
	CreatedAt time.Time
}

// Analysis is the result of one generation pass
type Analysis struct {
	PositionID string // empty for stateless analysis
	Board      *board.Board
	Turn       board.Color
	Moves      []movegen.PieceMove
}

// Service coordinates loaded positions, move generation and storage
type Service struct {
	positions map[string]*Position
	mu        sync.RWMutex
	store     *storage.Store
	gen       *movegen.Generator
}

// New creates a service. store may be nil to run without persistence.
func New(store *storage.Store, gen *movegen.Generator) *Service {
	if gen == nil {
		gen = movegen.New()
	}
	return &Service{
		positions: make(map[string]*Position),
		store:     store,
		gen:       gen,
	}
}

// StorageHealth returns the storage component status
func (s *Service) StorageHealth() string {
	if s.store == nil {
		return "disabled"
	}
	if s.store.IsHealthy() {
		return "ok"
	}
	return "degraded"
}

// CreatePosition loads fen and registers it under a new ID. A non-empty
// turn overrides the side-to-move field of a full record.
func (s *Service) CreatePosition(fen, turn string) (*Position, error) {
	b, side, err := Load(fen, turn)
	if err != nil {
		return nil, err
	}

	pos := &Position{
		ID:        uuid.New().String(),
		Board:     b,
		Turn:      side,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.positions[pos.ID] = pos
	// the parent row must be queued before any write that refers to it
	if s.store != nil {
		s.store.RecordPosition(storage.PositionRecord{
			PositionID:   pos.ID,
			Placement:    b.Placement(),
			Turn:         side.String(),
			CreatedAtUTC: pos.CreatedAt,
		})
	}
	s.mu.Unlock()

	return pos.snapshot(), nil
}

// GetPosition returns a copy of the registered position
func (s *Service) GetPosition(id string) (*Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.positions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPositionNotFound, id)
	}
	return pos.snapshot(), nil
}

func (s *Service) DeletePosition(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.positions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrPositionNotFound, id)
	}
	delete(s.positions, id)

	if s.store != nil {
		s.store.DeletePosition(id)
	}
	return nil
}

// ListPositions returns registered IDs in lexical order
func (s *Service) ListPositions() []string {
	s.mu.RLock()
	ids := maps.Keys(s.positions)
	s.mu.RUnlock()

	slices.Sort(ids)
	return ids
}

// SetTurn changes the side to move of a registered position
func (s *Service) SetTurn(id string, side board.Color) (*Position, error) {
	if side != board.White && side != board.Black {
		return nil, fmt.Errorf("%w: side %d", board.ErrInvalidInput, side)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.positions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPositionNotFound, id)
	}
	pos.Turn = side

	if s.store != nil {
		s.store.UpdateTurn(id, side.String())
	}
	return pos.snapshot(), nil
}

// GenerateMoves runs the generator for the side to move of a registered position
func (s *Service) GenerateMoves(id string) (*Analysis, error) {
	pos, err := s.GetPosition(id)
	if err != nil {
		return nil, err
	}

	moves := s.gen.Generate(pos.Board, pos.Turn)

	if s.store != nil {
		// queued under the lock so a concurrent delete is ordered after it
		s.mu.RLock()
		if _, ok := s.positions[id]; ok {
			s.store.RecordGeneration(storage.GenerationRecord{
				PositionID:     id,
				Turn:           pos.Turn.String(),
				PieceCount:     len(moves),
				TargetCount:    movegen.CountTargets(moves),
				GeneratedAtUTC: time.Now().UTC(),
			})
		}
		s.mu.RUnlock()
	}

	return &Analysis{
		PositionID: id,
		Board:      pos.Board,
		Turn:       pos.Turn,
		Moves:      moves,
	}, nil
}

// Analyze loads fen and generates moves without registering the position
func (s *Service) Analyze(fen, turn string) (*Analysis, error) {
	b, side, err := Load(fen, turn)
	if err != nil {
		return nil, err
	}
	return &Analysis{
		Board: b,
		Turn:  side,
		Moves: s.gen.Generate(b, side),
	}, nil
}

// Shutdown drops all positions and closes storage
func (s *Service) Shutdown(timeout time.Duration) error {
	var errs []error

	s.mu.Lock()
	s.positions = make(map[string]*Position)
	s.mu.Unlock()

	if s.store != nil {
		done := make(chan error, 1)
		go func() { done <- s.store.Close() }()

		select {
		case err := <-done:
			if err != nil {
				errs = append(errs, fmt.Errorf("storage: %w", err))
			}
		case <-time.After(timeout):
			errs = append(errs, fmt.Errorf("storage: close timed out after %v", timeout))
		}
	}

	return errors.Join(errs...)
}

func (p *Position) snapshot() *Position {
	cp := *p
	return &cp
}

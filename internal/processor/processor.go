package processor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"mailbox/internal/board"
	"mailbox/internal/core"
	"mailbox/internal/movegen"
	"mailbox/internal/service"
)

// Placement field, optionally followed by side to move and the remaining
// record fields. Trailing fields are accepted but not interpreted.
var fenPattern = regexp.MustCompile(`^[rnbqkpRNBQKP1-8/]+(?: [wb](?: [KQkq-]+(?: [a-h1-8-]+(?: \d+(?: \d+)?)?)?)?)?$`)

// Processor handles command execution between transport and service layers
type Processor struct {
	svc *service.Service
}

func New(svc *service.Service) *Processor {
	return &Processor{svc: svc}
}

// Execute runs cmd without a deadline
func (p *Processor) Execute(cmd Command) ProcessorResponse {
	return p.ExecuteContext(context.Background(), cmd)
}

// ExecuteContext runs cmd; ctx bounds batch analysis
func (p *Processor) ExecuteContext(ctx context.Context, cmd Command) ProcessorResponse {
	switch cmd.Type {
	case CmdCreatePosition:
		return p.handleCreatePosition(cmd)
	case CmdGetPosition:
		return p.handleGetPosition(cmd)
	case CmdListPositions:
		return p.handleListPositions()
	case CmdDeletePosition:
		return p.handleDeletePosition(cmd)
	case CmdSetTurn:
		return p.handleSetTurn(cmd)
	case CmdGenerateMoves:
		return p.handleGenerateMoves(cmd)
	case CmdGetBoard:
		return p.handleGetBoard(cmd)
	case CmdAnalyze:
		return p.handleAnalyze(cmd)
	case CmdAnalyzeBatch:
		return p.handleAnalyzeBatch(ctx, cmd)
	case CmdLookupSquare:
		return p.handleLookupSquare(cmd)
	default:
		return p.errorResponse("unknown command", core.ErrInvalidRequest)
	}
}

// isFENSafe rejects control characters and anything outside the FEN alphabet
func (p *Processor) isFENSafe(fen string) bool {
	for _, r := range fen {
		if unicode.IsControl(r) {
			return false
		}
	}
	return fenPattern.MatchString(fen)
}

func (p *Processor) handleCreatePosition(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.CreatePositionRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	fen := strings.TrimSpace(args.FEN)
	if !p.isFENSafe(fen) {
		return p.errorResponse("invalid FEN format or characters", core.ErrInvalidFEN)
	}

	pos, err := p.svc.CreatePosition(fen, args.Turn)
	if err != nil {
		return p.serviceError(err)
	}

	return ProcessorResponse{
		Success: true,
		Data:    buildPositionResponse(pos),
	}
}

func (p *Processor) handleGetPosition(cmd Command) ProcessorResponse {
	pos, err := p.svc.GetPosition(cmd.PositionID)
	if err != nil {
		return p.serviceError(err)
	}

	return ProcessorResponse{
		Success: true,
		Data:    buildPositionResponse(pos),
	}
}

func (p *Processor) handleListPositions() ProcessorResponse {
	return ProcessorResponse{
		Success: true,
		Data:    core.PositionListResponse{Positions: p.svc.ListPositions()},
	}
}

func (p *Processor) handleDeletePosition(cmd Command) ProcessorResponse {
	if err := p.svc.DeletePosition(cmd.PositionID); err != nil {
		return p.serviceError(err)
	}
	return ProcessorResponse{Success: true}
}

func (p *Processor) handleSetTurn(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.TurnRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	side, err := board.ParseColor(args.Turn)
	if err != nil {
		return p.errorResponse(fmt.Sprintf("invalid turn: %q", args.Turn), core.ErrInvalidRequest)
	}

	pos, err := p.svc.SetTurn(cmd.PositionID, side)
	if err != nil {
		return p.serviceError(err)
	}

	return ProcessorResponse{
		Success: true,
		Data:    buildPositionResponse(pos),
	}
}

func (p *Processor) handleGenerateMoves(cmd Command) ProcessorResponse {
	a, err := p.svc.GenerateMoves(cmd.PositionID)
	if err != nil {
		return p.serviceError(err)
	}

	return ProcessorResponse{
		Success: true,
		Data:    buildMovesResponse(a),
	}
}

func (p *Processor) handleGetBoard(cmd Command) ProcessorResponse {
	pos, err := p.svc.GetPosition(cmd.PositionID)
	if err != nil {
		return p.serviceError(err)
	}

	cells := pos.Board.Cells()
	ints := make([]int, len(cells))
	for i, c := range cells {
		ints[i] = int(c)
	}

	return ProcessorResponse{
		Success: true,
		Data: core.BoardResponse{
			FEN:   pos.Board.Placement(),
			Board: pos.Board.String(),
			Cells: ints,
		},
	}
}

func (p *Processor) handleAnalyze(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.AnalyzeRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	fen := strings.TrimSpace(args.FEN)
	if !p.isFENSafe(fen) {
		return p.errorResponse("invalid FEN format or characters", core.ErrInvalidFEN)
	}

	a, err := p.svc.Analyze(fen, args.Turn)
	if err != nil {
		return p.serviceError(err)
	}

	return ProcessorResponse{
		Success: true,
		Data:    buildMovesResponse(a),
	}
}

func (p *Processor) handleAnalyzeBatch(ctx context.Context, cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.BatchAnalyzeRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	inputs := make([]service.AnalyzeInput, len(args.Positions))
	for i, req := range args.Positions {
		fen := strings.TrimSpace(req.FEN)
		if !p.isFENSafe(fen) {
			return p.errorResponse(fmt.Sprintf("position %d: invalid FEN format or characters", i), core.ErrInvalidFEN)
		}
		inputs[i] = service.AnalyzeInput{FEN: fen, Turn: req.Turn}
	}

	results, err := p.svc.AnalyzeBatch(ctx, inputs)
	if err != nil {
		return p.serviceError(err)
	}

	resp := core.BatchResponse{Results: make([]core.MovesResponse, len(results))}
	for i, a := range results {
		resp.Results[i] = buildMovesResponse(a)
	}

	return ProcessorResponse{
		Success: true,
		Data:    resp,
	}
}

func (p *Processor) handleLookupSquare(cmd Command) ProcessorResponse {
	arg, ok := cmd.Args.(string)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	// numeric argument is an index, anything else a label
	if n, err := strconv.Atoi(arg); err == nil {
		coord, err := board.CoordinateOf(n)
		if err != nil {
			return p.serviceError(err)
		}
		return ProcessorResponse{
			Success: true,
			Data:    core.SquareResponse{Coordinate: coord, Index: n},
		}
	}

	idx, err := board.IndexOf(strings.ToLower(arg))
	if err != nil {
		return p.serviceError(err)
	}
	return ProcessorResponse{
		Success: true,
		Data:    core.SquareResponse{Coordinate: strings.ToLower(arg), Index: idx},
	}
}

func buildPositionResponse(pos *service.Position) core.PositionResponse {
	return core.PositionResponse{
		PositionID: pos.ID,
		FEN:        pos.Board.Placement(),
		Turn:       pos.Turn.String(),
		White:      len(pos.Board.Squares(board.White)),
		Black:      len(pos.Board.Squares(board.Black)),
	}
}

func buildMovesResponse(a *service.Analysis) core.MovesResponse {
	resp := core.MovesResponse{
		PositionID: a.PositionID,
		FEN:        a.Board.Placement(),
		Turn:       a.Turn.String(),
		Pieces:     make([]core.PieceMoveInfo, len(a.Moves)),
		Moves:      []string{},
	}

	for i, pm := range a.Moves {
		info := core.PieceMoveInfo{
			Piece:             int(pm.Piece),
			Symbol:            pm.Piece.String(),
			StartSquare:       pm.StartSquare,
			StartCoordinate:   board.MustCoordinateOf(pm.StartSquare),
			TargetSquares:     pm.TargetSquares,
			TargetCoordinates: make([]string, len(pm.TargetSquares)),
		}
		for j, to := range pm.TargetSquares {
			info.TargetCoordinates[j] = board.MustCoordinateOf(to)
		}
		resp.Pieces[i] = info
	}

	for _, m := range movegen.Flatten(a.Moves) {
		resp.Moves = append(resp.Moves, m.String())
	}
	resp.Count = len(resp.Moves)

	return resp
}

// serviceError maps service and board errors onto response codes
func (p *Processor) serviceError(err error) ProcessorResponse {
	switch {
	case errors.Is(err, service.ErrPositionNotFound):
		return p.errorResponse("position not found", core.ErrPositionNotFound)
	case errors.Is(err, board.ErrInvalidCoordinate):
		return p.errorResponseDetails("invalid coordinate", core.ErrInvalidCoordinate, err.Error())
	case errors.Is(err, board.ErrMalformedFEN), errors.Is(err, board.ErrInvalidInput):
		return p.errorResponseDetails("invalid FEN", core.ErrInvalidFEN, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return p.errorResponseDetails("request canceled", core.ErrInvalidRequest, err.Error())
	default:
		log.Printf("Processor: unexpected error: %v", err)
		return p.errorResponse("internal error", core.ErrInternalError)
	}
}

// errorResponse creates error response
func (p *Processor) errorResponse(message, code string) ProcessorResponse {
	return p.errorResponseDetails(message, code, "")
}

func (p *Processor) errorResponseDetails(message, code, details string) ProcessorResponse {
	return ProcessorResponse{
		Success: false,
		Error: &core.ErrorResponse{
			Error:   message,
			Code:    code,
			Details: details,
		},
	}
}

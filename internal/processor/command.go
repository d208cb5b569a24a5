package processor

import (
	"mailbox/internal/core"
)

// CommandType defines the type of command being executed
type CommandType int

const (
	CmdCreatePosition CommandType = iota
	CmdGetPosition
	CmdListPositions
	CmdDeletePosition
	CmdSetTurn
	CmdGenerateMoves
	CmdGetBoard
	CmdAnalyze
	CmdAnalyzeBatch
	CmdLookupSquare
)

// Command is a unified structure for all processor operations
type Command struct {
	Type       CommandType
	PositionID string // For position-specific commands
	Args       any    // Command-specific arguments
}

// ProcessorResponse wraps the response with metadata
type ProcessorResponse struct {
	Success bool                `json:"success"`
	Data    any                 `json:"data,omitempty"`
	Error   *core.ErrorResponse `json:"error,omitempty"`
}

func NewCreatePositionCommand(req core.CreatePositionRequest) Command {
	return Command{
		Type: CmdCreatePosition,
		Args: req,
	}
}

func NewGetPositionCommand(positionID string) Command {
	return Command{
		Type:       CmdGetPosition,
		PositionID: positionID,
	}
}

func NewListPositionsCommand() Command {
	return Command{Type: CmdListPositions}
}

func NewDeletePositionCommand(positionID string) Command {
	return Command{
		Type:       CmdDeletePosition,
		PositionID: positionID,
	}
}

func NewSetTurnCommand(positionID string, req core.TurnRequest) Command {
	return Command{
		Type:       CmdSetTurn,
		PositionID: positionID,
		Args:       req,
	}
}

func NewGenerateMovesCommand(positionID string) Command {
	return Command{
		Type:       CmdGenerateMoves,
		PositionID: positionID,
	}
}

func NewGetBoardCommand(positionID string) Command {
	return Command{
		Type:       CmdGetBoard,
		PositionID: positionID,
	}
}

func NewAnalyzeCommand(req core.AnalyzeRequest) Command {
	return Command{
		Type: CmdAnalyze,
		Args: req,
	}
}

func NewAnalyzeBatchCommand(req core.BatchAnalyzeRequest) Command {
	return Command{
		Type: CmdAnalyzeBatch,
		Args: req,
	}
}

// NewLookupSquareCommand accepts either an algebraic label or a cell index
func NewLookupSquareCommand(coordinate string) Command {
	return Command{
		Type: CmdLookupSquare,
		Args: coordinate,
	}
}

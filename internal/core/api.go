package core

// Request types

type CreatePositionRequest struct {
	FEN  string `json:"fen" validate:"required,max=100"`
	Turn string `json:"turn,omitempty" validate:"omitempty,oneof=w b"` // overrides the FEN side-to-move field
}

type TurnRequest struct {
	Turn string `json:"turn" validate:"required,oneof=w b"`
}

type AnalyzeRequest struct {
	FEN  string `json:"fen" validate:"required,max=100"`
	Turn string `json:"turn,omitempty" validate:"omitempty,oneof=w b"`
}

type BatchAnalyzeRequest struct {
	Positions []AnalyzeRequest `json:"positions" validate:"required,min=1,max=32,dive"`
}

// Response types

type PositionResponse struct {
	PositionID string `json:"positionId"`
	FEN        string `json:"fen"`  // piece placement only
	Turn       string `json:"turn"` // "w" or "b"
	White      int    `json:"white"`
	Black      int    `json:"black"`
}

type PositionListResponse struct {
	Positions []string `json:"positions"`
}

type PieceMoveInfo struct {
	Piece             int      `json:"piece"`
	Symbol            string   `json:"symbol"`
	StartSquare       int      `json:"startSquare"`
	StartCoordinate   string   `json:"startCoordinate"`
	TargetSquares     []int    `json:"targetSquares"`
	TargetCoordinates []string `json:"targetCoordinates"`
}

type MovesResponse struct {
	PositionID string          `json:"positionId,omitempty"`
	FEN        string          `json:"fen"`
	Turn       string          `json:"turn"`
	Pieces     []PieceMoveInfo `json:"pieces"`
	Moves      []string        `json:"moves"` // flattened, e.g. "e2e4"
	Count      int             `json:"count"`
}

type BatchResponse struct {
	Results []MovesResponse `json:"results"`
}

type BoardResponse struct {
	FEN   string `json:"fen"`
	Board string `json:"board"` // ASCII representation
	Cells []int  `json:"cells"` // all 120 padded cells
}

type SquareResponse struct {
	Coordinate string `json:"coordinate"`
	Index      int    `json:"index"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

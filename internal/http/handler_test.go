package http

import (
	"bytes"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mailbox/internal/board"
	"mailbox/internal/core"
	"mailbox/internal/processor"
	"mailbox/internal/service"
	"mailbox/internal/testutil"

	"github.com/gofiber/fiber/v2"
)

func newTestApp(devMode bool) *fiber.App {
	svc := service.New(nil, nil)
	return NewFiberApp(processor.New(svc), svc, devMode)
}

func do(t *testing.T, app *fiber.App, method, path string, body any) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		testutil.AssertNoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	testutil.AssertNoError(t, err, "%s %s", method, path)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	testutil.AssertNoError(t, err)
	return resp.StatusCode, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return v
}

func createPosition(t *testing.T, app *fiber.App, fen string) core.PositionResponse {
	t.Helper()
	status, data := do(t, app, nethttp.MethodPost, "/api/v1/positions", core.CreatePositionRequest{FEN: fen})
	if status != fiber.StatusCreated {
		t.Fatalf("create status %d: %s", status, data)
	}
	return decode[core.PositionResponse](t, data)
}

func TestHealth(t *testing.T) {
	app := newTestApp(true)

	status, data := do(t, app, nethttp.MethodGet, "/health", nil)
	testutil.AssertEqual(t, status, fiber.StatusOK)

	body := decode[map[string]any](t, data)
	testutil.AssertEqual(t, body["status"], "healthy")
	testutil.AssertEqual(t, body["storage"], "disabled")
}

func TestPositionLifecycle(t *testing.T) {
	app := newTestApp(true)

	created := createPosition(t, app, board.StartingFEN)
	testutil.AssertEqual(t, created.FEN, board.StartingPlacement)
	testutil.AssertEqual(t, created.Turn, "w")

	status, data := do(t, app, nethttp.MethodGet, "/api/v1/positions/"+created.PositionID, nil)
	testutil.AssertEqual(t, status, fiber.StatusOK)
	testutil.AssertEqual(t, decode[core.PositionResponse](t, data), created)

	status, data = do(t, app, nethttp.MethodGet, "/api/v1/positions", nil)
	testutil.AssertEqual(t, status, fiber.StatusOK)
	testutil.AssertEqual(t, decode[core.PositionListResponse](t, data).Positions, []string{created.PositionID})

	status, data = do(t, app, nethttp.MethodPut, "/api/v1/positions/"+created.PositionID+"/turn", core.TurnRequest{Turn: "b"})
	testutil.AssertEqual(t, status, fiber.StatusOK)
	testutil.AssertEqual(t, decode[core.PositionResponse](t, data).Turn, "b")

	status, data = do(t, app, nethttp.MethodGet, "/api/v1/positions/"+created.PositionID+"/moves", nil)
	testutil.AssertEqual(t, status, fiber.StatusOK)
	moves := decode[core.MovesResponse](t, data)
	testutil.AssertEqual(t, moves.Turn, "b")
	testutil.AssertEqual(t, moves.Count, 20)
	testutil.AssertTrue(t, len(moves.Moves) == 20 && moves.Moves[0] == "b8c6", "first black move, got %v", moves.Moves)

	status, data = do(t, app, nethttp.MethodGet, "/api/v1/positions/"+created.PositionID+"/board", nil)
	testutil.AssertEqual(t, status, fiber.StatusOK)
	b := decode[core.BoardResponse](t, data)
	testutil.AssertEqual(t, len(b.Cells), board.Size)
	testutil.AssertTrue(t, strings.HasPrefix(b.Board, "  a b c d e f g h\n8 r n b q k b n r  8\n"), "ascii board:\n%s", b.Board)

	status, _ = do(t, app, nethttp.MethodDelete, "/api/v1/positions/"+created.PositionID, nil)
	testutil.AssertEqual(t, status, fiber.StatusNoContent)

	status, data = do(t, app, nethttp.MethodGet, "/api/v1/positions/"+created.PositionID, nil)
	testutil.AssertEqual(t, status, fiber.StatusNotFound)
	testutil.AssertEqual(t, decode[core.ErrorResponse](t, data).Code, core.ErrPositionNotFound)
}

func TestCreatePositionRejections(t *testing.T) {
	app := newTestApp(true)

	tests := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{"missing fen", map[string]string{}, fiber.StatusBadRequest, core.ErrInvalidRequest},
		{"bad turn", core.CreatePositionRequest{FEN: board.StartingPlacement, Turn: "x"}, fiber.StatusBadRequest, core.ErrInvalidRequest},
		{"unsafe characters", core.CreatePositionRequest{FEN: "8/8/8/8/8/8/8/8; rm"}, fiber.StatusBadRequest, core.ErrInvalidFEN},
		{"short rank", core.CreatePositionRequest{FEN: "8/8/8/8/8/8/8/7"}, fiber.StatusBadRequest, core.ErrInvalidFEN},
		{"too many ranks", core.CreatePositionRequest{FEN: "8/8/8/8/8/8/8/8/8"}, fiber.StatusBadRequest, core.ErrInvalidFEN},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, data := do(t, app, nethttp.MethodPost, "/api/v1/positions", tt.body)
			testutil.AssertEqual(t, status, tt.status)
			testutil.AssertEqual(t, decode[core.ErrorResponse](t, data).Code, tt.code)
		})
	}
}

func TestInvalidPositionID(t *testing.T) {
	app := newTestApp(true)

	status, data := do(t, app, nethttp.MethodGet, "/api/v1/positions/not-a-uuid", nil)
	testutil.AssertEqual(t, status, fiber.StatusBadRequest)
	testutil.AssertEqual(t, decode[core.ErrorResponse](t, data).Code, core.ErrInvalidRequest)

	status, _ = do(t, app, nethttp.MethodGet, "/api/v1/positions/00000000-0000-0000-0000-000000000000/moves", nil)
	testutil.AssertEqual(t, status, fiber.StatusNotFound)
}

func TestContentTypeValidation(t *testing.T) {
	app := newTestApp(true)

	req := httptest.NewRequest(nethttp.MethodPost, "/api/v1/analyze", strings.NewReader("fen=8/8/8/8/8/8/8/8"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req, -1)
	testutil.AssertNoError(t, err)
	defer resp.Body.Close()
	testutil.AssertEqual(t, resp.StatusCode, fiber.StatusUnsupportedMediaType)
}

func TestAnalyze(t *testing.T) {
	app := newTestApp(true)

	status, data := do(t, app, nethttp.MethodPost, "/api/v1/analyze", core.AnalyzeRequest{FEN: "8/8/8/8/8/8/8/R7"})
	testutil.AssertEqual(t, status, fiber.StatusOK)

	moves := decode[core.MovesResponse](t, data)
	testutil.AssertEqual(t, moves.PositionID, "")
	testutil.AssertEqual(t, moves.Count, 14)
	testutil.AssertEqual(t, len(moves.Pieces), 1)
	testutil.AssertEqual(t, moves.Pieces[0].StartSquare, 91)
	testutil.AssertEqual(t, moves.Pieces[0].Piece, int(board.Encode(board.White, board.Rook)))

	// analysis is stateless
	status, data = do(t, app, nethttp.MethodGet, "/api/v1/positions", nil)
	testutil.AssertEqual(t, status, fiber.StatusOK)
	testutil.AssertEqual(t, len(decode[core.PositionListResponse](t, data).Positions), 0)
}

func TestAnalyzeBatch(t *testing.T) {
	app := newTestApp(true)

	req := core.BatchAnalyzeRequest{Positions: []core.AnalyzeRequest{
		{FEN: board.StartingFEN},
		{FEN: board.StartingPlacement, Turn: "b"},
		{FEN: "8/8/8/8/8/8/8/R7"},
	}}
	status, data := do(t, app, nethttp.MethodPost, "/api/v1/analyze/batch", req)
	testutil.AssertEqual(t, status, fiber.StatusOK)

	batch := decode[core.BatchResponse](t, data)
	testutil.AssertEqual(t, len(batch.Results), 3)
	testutil.AssertEqual(t, batch.Results[0].Turn, "w")
	testutil.AssertEqual(t, batch.Results[1].Turn, "b")
	testutil.AssertEqual(t, batch.Results[2].Count, 14)

	status, data = do(t, app, nethttp.MethodPost, "/api/v1/analyze/batch", core.BatchAnalyzeRequest{})
	testutil.AssertEqual(t, status, fiber.StatusBadRequest)
	testutil.AssertEqual(t, decode[core.ErrorResponse](t, data).Code, core.ErrInvalidRequest)

	bad := core.BatchAnalyzeRequest{Positions: []core.AnalyzeRequest{{FEN: board.StartingFEN}, {FEN: ""}}}
	status, data = do(t, app, nethttp.MethodPost, "/api/v1/analyze/batch", bad)
	testutil.AssertEqual(t, status, fiber.StatusBadRequest)
	details := decode[core.ErrorResponse](t, data).Details
	testutil.AssertTrue(t, strings.Contains(details, "Positions[1].FEN is required"), "details: %s", details)
}

func TestLookupSquare(t *testing.T) {
	app := newTestApp(true)

	status, data := do(t, app, nethttp.MethodGet, "/api/v1/squares/e4", nil)
	testutil.AssertEqual(t, status, fiber.StatusOK)
	testutil.AssertEqual(t, decode[core.SquareResponse](t, data), core.SquareResponse{Coordinate: "e4", Index: 65})

	status, data = do(t, app, nethttp.MethodGet, "/api/v1/squares/98", nil)
	testutil.AssertEqual(t, status, fiber.StatusOK)
	testutil.AssertEqual(t, decode[core.SquareResponse](t, data).Coordinate, "h1")

	status, data = do(t, app, nethttp.MethodGet, "/api/v1/squares/z9", nil)
	testutil.AssertEqual(t, status, fiber.StatusBadRequest)
	testutil.AssertEqual(t, decode[core.ErrorResponse](t, data).Code, core.ErrInvalidCoordinate)
}

func TestUnknownRoute(t *testing.T) {
	app := newTestApp(true)

	status, data := do(t, app, nethttp.MethodGet, "/api/v1/nowhere", nil)
	testutil.AssertEqual(t, status, fiber.StatusNotFound)
	testutil.AssertEqual(t, decode[core.ErrorResponse](t, data).Code, core.ErrRouteNotFound)
}

func TestRateLimit(t *testing.T) {
	app := newTestApp(false)

	limited := false
	for i := 0; i < 3*rateLimitRate; i++ {
		status, data := do(t, app, nethttp.MethodGet, "/api/v1/positions", nil)
		if status == fiber.StatusTooManyRequests {
			testutil.AssertEqual(t, decode[core.ErrorResponse](t, data).Code, core.ErrRateLimitExceeded)
			limited = true
			break
		}
	}
	testutil.AssertTrue(t, limited, "expected a 429 within %d requests", 3*rateLimitRate)
}

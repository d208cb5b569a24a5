package client

import (
	"context"
	"errors"
	"net"
	"testing"

	"mailbox/internal/board"
	"mailbox/internal/core"
	mailboxhttp "mailbox/internal/http"
	"mailbox/internal/processor"
	"mailbox/internal/service"
	"mailbox/internal/testutil"
)

func startServer(t *testing.T) *Client {
	t.Helper()

	svc := service.New(nil, nil)
	app := mailboxhttp.NewFiberApp(processor.New(svc), svc, true)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	testutil.AssertNoError(t, err)

	go app.Listener(ln)
	t.Cleanup(func() { app.Shutdown() })

	return New("http://" + ln.Addr().String() + "/")
}

func TestClientRoundTrip(t *testing.T) {
	c := startServer(t)
	ctx := context.Background()

	health, err := c.Health(ctx)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, health.Status, "healthy")
	testutil.AssertEqual(t, health.Storage, "disabled")

	pos, err := c.CreatePosition(ctx, board.StartingFEN, "")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, pos.FEN, board.StartingPlacement)

	got, err := c.GetPosition(ctx, pos.PositionID)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, *got, *pos)

	ids, err := c.ListPositions(ctx)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, ids, []string{pos.PositionID})

	updated, err := c.SetTurn(ctx, pos.PositionID, "b")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, updated.Turn, "b")

	moves, err := c.GenerateMoves(ctx, pos.PositionID)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, moves.Count, 20)
	testutil.AssertEqual(t, moves.Turn, "b")

	b, err := c.GetBoard(ctx, pos.PositionID)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(b.Cells), board.Size)

	testutil.AssertNoError(t, c.DeletePosition(ctx, pos.PositionID))

	_, err = c.GetPosition(ctx, pos.PositionID)
	var apiErr *APIError
	testutil.AssertTrue(t, errors.As(err, &apiErr), "got %v", err)
	testutil.AssertEqual(t, apiErr.Status, 404)
	testutil.AssertEqual(t, apiErr.Code, core.ErrPositionNotFound)
}

func TestClientAnalyze(t *testing.T) {
	c := startServer(t)
	ctx := context.Background()

	moves, err := c.Analyze(ctx, "8/8/8/8/8/8/8/R7", "w")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, moves.Count, 14)

	results, err := c.AnalyzeBatch(ctx, []core.AnalyzeRequest{
		{FEN: board.StartingFEN},
		{FEN: "8/8/8/8/8/8/8/R7"},
	})
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(results), 2)
	testutil.AssertEqual(t, results[1].Count, 14)

	_, err = c.Analyze(ctx, "8/8/8", "")
	var apiErr *APIError
	testutil.AssertTrue(t, errors.As(err, &apiErr), "got %v", err)
	testutil.AssertEqual(t, apiErr.Code, core.ErrInvalidFEN)
}

func TestClientLookupSquare(t *testing.T) {
	c := startServer(t)
	ctx := context.Background()

	sq, err := c.LookupSquare(ctx, "a1")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, sq.Index, 91)

	sq, err = c.LookupSquare(ctx, "28")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, sq.Coordinate, "h8")
}

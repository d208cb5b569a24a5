package http

import (
	"fmt"
	"strings"
	"time"

	"mailbox/internal/core"
	"mailbox/internal/processor"
	"mailbox/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const rateLimitRate = 10 // req/sec

// HTTPHandler handles HTTP requests and routes them to the processor
type HTTPHandler struct {
	proc *processor.Processor
	svc  *service.Service
}

func NewHTTPHandler(proc *processor.Processor, svc *service.Service) *HTTPHandler {
	return &HTTPHandler{proc: proc, svc: svc}
}

func NewFiberApp(proc *processor.Processor, svc *service.Service, devMode bool) *fiber.App {
	h := NewHTTPHandler(proc, svc)

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	})

	// Global middleware (order matters)
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Health check (no rate limit)
	app.Get("/health", h.Health)

	api := app.Group("/api/v1")

	maxReq := rateLimitRate
	if devMode {
		maxReq = rateLimitRate * 2
	}
	api.Use(limiter.New(limiter.Config{
		Max:          maxReq,
		Expiration:   1 * time.Second,
		KeyGenerator: clientKey,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(core.ErrorResponse{
				Error:   "rate limit exceeded",
				Code:    core.ErrRateLimitExceeded,
				Details: fmt.Sprintf("%d requests per second allowed", maxReq),
			})
		},
	}))

	api.Use(contentTypeValidator)
	api.Use(validationMiddleware)

	api.Post("/positions", h.CreatePosition)
	api.Get("/positions", h.ListPositions)
	api.Get("/positions/:positionId", h.GetPosition)
	api.Delete("/positions/:positionId", h.DeletePosition)
	api.Put("/positions/:positionId/turn", h.SetTurn)
	api.Get("/positions/:positionId/moves", h.GenerateMoves)
	api.Get("/positions/:positionId/board", h.GetBoard)
	api.Post("/analyze", h.Analyze)
	api.Post("/analyze/batch", h.AnalyzeBatch)
	api.Get("/squares/:coordinate", h.LookupSquare)

	return app
}

// clientKey keys the limiter on the first forwarded address when behind a proxy
func clientKey(c *fiber.Ctx) string {
	if xff := c.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return xff
	}
	return c.IP()
}

// Health check endpoint with storage status
func (h *HTTPHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"time":    time.Now().Unix(),
		"storage": h.svc.StorageHealth(),
	})
}

// CreatePosition loads a FEN into a new position
func (h *HTTPHandler) CreatePosition(c *fiber.Ctx) error {
	req, ok := validatedBody[core.CreatePositionRequest](c)
	if !ok {
		return validationBypass(c)
	}

	resp := h.proc.Execute(processor.NewCreatePositionCommand(*req))
	if !resp.Success {
		return respondError(c, resp)
	}

	return c.Status(fiber.StatusCreated).JSON(resp.Data)
}

func (h *HTTPHandler) ListPositions(c *fiber.Ctx) error {
	resp := h.proc.Execute(processor.NewListPositionsCommand())
	return c.JSON(resp.Data)
}

func (h *HTTPHandler) GetPosition(c *fiber.Ctx) error {
	positionID := c.Params("positionId")
	if !isValidUUID(positionID) {
		return invalidPositionID(c)
	}

	resp := h.proc.Execute(processor.NewGetPositionCommand(positionID))
	if !resp.Success {
		return respondError(c, resp)
	}

	return c.JSON(resp.Data)
}

func (h *HTTPHandler) DeletePosition(c *fiber.Ctx) error {
	positionID := c.Params("positionId")
	if !isValidUUID(positionID) {
		return invalidPositionID(c)
	}

	resp := h.proc.Execute(processor.NewDeletePositionCommand(positionID))
	if !resp.Success {
		return respondError(c, resp)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// SetTurn changes which side the generator runs for
func (h *HTTPHandler) SetTurn(c *fiber.Ctx) error {
	positionID := c.Params("positionId")
	if !isValidUUID(positionID) {
		return invalidPositionID(c)
	}

	req, ok := validatedBody[core.TurnRequest](c)
	if !ok {
		return validationBypass(c)
	}

	resp := h.proc.Execute(processor.NewSetTurnCommand(positionID, *req))
	if !resp.Success {
		return respondError(c, resp)
	}

	return c.JSON(resp.Data)
}

// GenerateMoves returns pseudo-legal moves for the side to move
func (h *HTTPHandler) GenerateMoves(c *fiber.Ctx) error {
	positionID := c.Params("positionId")
	if !isValidUUID(positionID) {
		return invalidPositionID(c)
	}

	resp := h.proc.Execute(processor.NewGenerateMovesCommand(positionID))
	if !resp.Success {
		return respondError(c, resp)
	}

	return c.JSON(resp.Data)
}

func (h *HTTPHandler) GetBoard(c *fiber.Ctx) error {
	positionID := c.Params("positionId")
	if !isValidUUID(positionID) {
		return invalidPositionID(c)
	}

	resp := h.proc.Execute(processor.NewGetBoardCommand(positionID))
	if !resp.Success {
		return respondError(c, resp)
	}

	return c.JSON(resp.Data)
}

// Analyze generates moves for a FEN without storing it
func (h *HTTPHandler) Analyze(c *fiber.Ctx) error {
	req, ok := validatedBody[core.AnalyzeRequest](c)
	if !ok {
		return validationBypass(c)
	}

	resp := h.proc.Execute(processor.NewAnalyzeCommand(*req))
	if !resp.Success {
		return respondError(c, resp)
	}

	return c.JSON(resp.Data)
}

func (h *HTTPHandler) AnalyzeBatch(c *fiber.Ctx) error {
	req, ok := validatedBody[core.BatchAnalyzeRequest](c)
	if !ok {
		return validationBypass(c)
	}

	resp := h.proc.ExecuteContext(c.UserContext(), processor.NewAnalyzeBatchCommand(*req))
	if !resp.Success {
		return respondError(c, resp)
	}

	return c.JSON(resp.Data)
}

// LookupSquare converts between algebraic labels and cell indices
func (h *HTTPHandler) LookupSquare(c *fiber.Ctx) error {
	resp := h.proc.Execute(processor.NewLookupSquareCommand(c.Params("coordinate")))
	if !resp.Success {
		return respondError(c, resp)
	}

	return c.JSON(resp.Data)
}

func invalidPositionID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
		Error:   "invalid position ID format",
		Code:    core.ErrInvalidRequest,
		Details: "position ID must be a valid UUID",
	})
}

func respondError(c *fiber.Ctx, resp processor.ProcessorResponse) error {
	return c.Status(statusFor(resp.Error.Code)).JSON(resp.Error)
}

func statusFor(code string) int {
	switch code {
	case core.ErrPositionNotFound, core.ErrRouteNotFound:
		return fiber.StatusNotFound
	case core.ErrInternalError:
		return fiber.StatusInternalServerError
	case core.ErrRateLimitExceeded:
		return fiber.StatusTooManyRequests
	case core.ErrInvalidContent:
		return fiber.StatusUnsupportedMediaType
	default:
		return fiber.StatusBadRequest
	}
}

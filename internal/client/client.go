// Package client is a typed HTTP client for the mailbox API server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mailbox/internal/core"
)

// APIError is a non-2xx response decoded from the server's error body
type APIError struct {
	Status int
	core.ErrorResponse
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%d %s: %s (%s)", e.Status, e.Code, e.ErrorResponse.Error, e.Details)
	}
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.ErrorResponse.Error)
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) doRequest(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bodyReader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		if err := json.Unmarshal(respBody, &apiErr.ErrorResponse); err != nil {
			apiErr.ErrorResponse.Error = strings.TrimSpace(string(respBody))
		}
		return apiErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}

// HealthResponse mirrors the /health body
type HealthResponse struct {
	Status  string `json:"status"`
	Time    int64  `json:"time"`
	Storage string `json:"storage"`
}

func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	err := c.doRequest(ctx, http.MethodGet, "/health", nil, &resp)
	return &resp, err
}

func (c *Client) CreatePosition(ctx context.Context, fen, turn string) (*core.PositionResponse, error) {
	var resp core.PositionResponse
	err := c.doRequest(ctx, http.MethodPost, "/api/v1/positions", core.CreatePositionRequest{FEN: fen, Turn: turn}, &resp)
	return &resp, err
}

func (c *Client) GetPosition(ctx context.Context, positionID string) (*core.PositionResponse, error) {
	var resp core.PositionResponse
	err := c.doRequest(ctx, http.MethodGet, "/api/v1/positions/"+url.PathEscape(positionID), nil, &resp)
	return &resp, err
}

func (c *Client) ListPositions(ctx context.Context) ([]string, error) {
	var resp core.PositionListResponse
	err := c.doRequest(ctx, http.MethodGet, "/api/v1/positions", nil, &resp)
	return resp.Positions, err
}

func (c *Client) DeletePosition(ctx context.Context, positionID string) error {
	return c.doRequest(ctx, http.MethodDelete, "/api/v1/positions/"+url.PathEscape(positionID), nil, nil)
}

func (c *Client) SetTurn(ctx context.Context, positionID, turn string) (*core.PositionResponse, error) {
	var resp core.PositionResponse
	err := c.doRequest(ctx, http.MethodPut, "/api/v1/positions/"+url.PathEscape(positionID)+"/turn", core.TurnRequest{Turn: turn}, &resp)
	return &resp, err
}

func (c *Client) GenerateMoves(ctx context.Context, positionID string) (*core.MovesResponse, error) {
	var resp core.MovesResponse
	err := c.doRequest(ctx, http.MethodGet, "/api/v1/positions/"+url.PathEscape(positionID)+"/moves", nil, &resp)
	return &resp, err
}

func (c *Client) GetBoard(ctx context.Context, positionID string) (*core.BoardResponse, error) {
	var resp core.BoardResponse
	err := c.doRequest(ctx, http.MethodGet, "/api/v1/positions/"+url.PathEscape(positionID)+"/board", nil, &resp)
	return &resp, err
}

// Analyze generates moves on the server without registering the position
func (c *Client) Analyze(ctx context.Context, fen, turn string) (*core.MovesResponse, error) {
	var resp core.MovesResponse
	err := c.doRequest(ctx, http.MethodPost, "/api/v1/analyze", core.AnalyzeRequest{FEN: fen, Turn: turn}, &resp)
	return &resp, err
}

func (c *Client) AnalyzeBatch(ctx context.Context, reqs []core.AnalyzeRequest) ([]core.MovesResponse, error) {
	var resp core.BatchResponse
	err := c.doRequest(ctx, http.MethodPost, "/api/v1/analyze/batch", core.BatchAnalyzeRequest{Positions: reqs}, &resp)
	return resp.Results, err
}

// LookupSquare accepts an algebraic label or a cell index
func (c *Client) LookupSquare(ctx context.Context, coordinate string) (*core.SquareResponse, error) {
	var resp core.SquareResponse
	err := c.doRequest(ctx, http.MethodGet, "/api/v1/squares/"+url.PathEscape(coordinate), nil, &resp)
	return &resp, err
}

// Package executor provides the client for the external service that
// translates natural-language dashboard queries and executes them against
// the warehouse.
package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"pulseboard/internal/domain"
)

// DefaultTimeout bounds a single execution round trip. A stalled engine
// surfaces as an ExecutionError instead of wedging the query pipeline.
const DefaultTimeout = 30 * time.Second

// HTTPExecutor calls the execution service over HTTP. The service owns
// translation and engine access; this client only ferries the request and
// decodes the {columns, rows} response.
type HTTPExecutor struct {
	url    string
	token  string
	client *http.Client
	logger *slog.Logger
}

// NewHTTPExecutor creates a client for the execution service at url. An
// empty token omits the Authorization header; a non-positive timeout
// defaults to DefaultTimeout.
func NewHTTPExecutor(url, token string, timeout time.Duration, logger *slog.Logger) *HTTPExecutor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPExecutor{
		url:    url,
		token:  token,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

type executeRequest struct {
	DashboardID string `json:"dashboardId"`
	Query       string `json:"query"`
}

// Execute posts the query and decodes the tabular response. Transport
// failures, timeouts, and non-2xx statuses all surface as ExecutionError.
func (e *HTTPExecutor) Execute(ctx context.Context, dashboardID, query string) (domain.TableData, error) {
	if e.url == "" {
		return domain.TableData{}, domain.ErrExecution("no execution service configured (EXECUTOR_URL)")
	}

	body, err := json.Marshal(executeRequest{DashboardID: dashboardID, Query: query})
	if err != nil {
		return domain.TableData{}, fmt.Errorf("encode execute request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return domain.TableData{}, fmt.Errorf("build execute request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.token != "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}

	start := time.Now()
	resp, err := e.client.Do(req)
	if err != nil {
		return domain.TableData{}, domain.ErrExecution("query execution failed: %v", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.TableData{}, domain.ErrExecution("execution service returned %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}

	var data domain.TableData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return domain.TableData{}, domain.ErrExecution("malformed execution response: %v", err)
	}

	e.logger.Debug("query executed",
		"dashboard", dashboardID,
		"duration_ms", time.Since(start).Milliseconds(),
		"rows", len(data.Rows),
	)
	return data, nil
}

var _ domain.QueryExecutor = (*HTTPExecutor)(nil)

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulseboard/internal/app"
	"pulseboard/internal/config"
	internaldb "pulseboard/internal/db"
	"pulseboard/internal/domain"
	"pulseboard/internal/testutil"
)

// === Test server wiring ===

type testServer struct {
	srv      *httptest.Server
	app      *app.App
	executor *testutil.MockExecutor
	cache    *testutil.MockCache
}

var sampleData = domain.TableData{
	Columns: []string{"month", "revenue"},
	Rows: []map[string]any{
		{"month": "2026-01", "revenue": 1200.5},
		{"month": "2026-02", "revenue": 1894.0},
	},
}

func testConfig() *config.Config {
	return &config.Config{
		ListenAddr:         ":0",
		LogLevel:           "error",
		RateLimitRPS:       1000,
		RateLimitBurst:     1000,
		CORSAllowedOrigins: []string{"*"},
		Auth: config.AuthConfig{
			JWTSecret: "api-test-secret",
			TokenTTL:  time.Hour,
		},
		Cache: config.CacheConfig{TTL: 5 * time.Minute},
		Executor: config.ExecutorConfig{
			URL:     "http://executor.internal:9000",
			Timeout: time.Second,
		},
	}
}

// setupTestServer wires a full server over a real SQLite store with the
// executor and cache mocked out.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	writeDB, readDB := internaldb.OpenTestSQLite(t)

	executor := &testutil.MockExecutor{
		ExecuteFn: func(context.Context, string, string) (domain.TableData, error) {
			return sampleData, nil
		},
	}
	cache := &testutil.MockCache{}

	cfg := testConfig()
	logger := slog.New(slog.DiscardHandler)
	a, err := app.New(context.Background(), app.Deps{
		Cfg:      cfg,
		WriteDB:  writeDB,
		ReadDB:   readDB,
		Cache:    cache,
		Executor: executor,
		Logger:   logger,
	})
	require.NoError(t, err)

	srv := httptest.NewServer(NewHandler(a, cfg, logger).Router())
	t.Cleanup(srv.Close)

	return &testServer{srv: srv, app: a, executor: executor, cache: cache}
}

// doJSON performs a request against the test server with an optional bearer
// token and JSON body.
func (ts *testServer) doJSON(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		payload = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, ts.srv.URL+path, payload)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

// registerAndLogin provisions an account and returns its bearer token and
// principal.
func (ts *testServer) registerAndLogin(t *testing.T, email string) (string, domain.Principal) {
	t.Helper()

	creds := map[string]string{"email": email, "password": "correct horse battery"}
	resp := ts.doJSON(t, http.MethodPost, "/v1/auth/register", "", creds)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = ts.doJSON(t, http.MethodPost, "/v1/auth/login", "", creds)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out loginResponse
	decodeJSON(t, resp, &out)
	require.NotEmpty(t, out.Token)
	return out.Token, out.Principal
}

// === Tests ===

func TestAPI_Health(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.doJSON(t, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health healthResponse
	decodeJSON(t, resp, &health)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "enabled", health.Cache)
	assert.Equal(t, "configured", health.Executor)
}

func TestAPI_RegisterAndLogin(t *testing.T) {
	ts := setupTestServer(t)

	creds := map[string]string{"email": "ana@example.com", "password": "s3cret-enough"}
	resp := ts.doJSON(t, http.MethodPost, "/v1/auth/register", "", creds)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var user userResponse
	decodeJSON(t, resp, &user)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "ana@example.com", user.Email)

	// Same email again conflicts.
	resp = ts.doJSON(t, http.MethodPost, "/v1/auth/register", "", creds)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Wrong password is rejected.
	resp = ts.doJSON(t, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email": "ana@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = ts.doJSON(t, http.MethodPost, "/v1/auth/login", "", creds)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var login loginResponse
	decodeJSON(t, resp, &login)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, user.ID, login.Principal.ID)
}

func TestAPI_AuthRequired(t *testing.T) {
	ts := setupTestServer(t)

	tests := []struct {
		name  string
		token string
	}{
		{"no token", ""},
		{"garbage token", "not-a-jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.doJSON(t, http.MethodGet, "/v1/dashboards", tt.token, nil)
			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

			var body errorBody
			decodeJSON(t, resp, &body)
			assert.Equal(t, http.StatusUnauthorized, body.Code)
			assert.Contains(t, body.Message, "unauthorized")
		})
	}
}

func TestAPI_ExecuteQuery(t *testing.T) {
	ts := setupTestServer(t)
	token, principal := ts.registerAndLogin(t, "query@example.com")

	resp := ts.doJSON(t, http.MethodPost, "/v1/query", token, queryRequest{
		DashboardID: "1",
		Query:       "  revenue by month  ",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var env domain.ResultEnvelope
	decodeJSON(t, resp, &env)
	assert.NotEmpty(t, env.QueryID)
	assert.Equal(t, "1", env.DashboardID)
	assert.False(t, env.FromCache)
	assert.Equal(t, sampleData.Columns, env.Data.Columns)
	assert.Len(t, env.Data.Rows, 2)
	assert.Equal(t, 1, ts.executor.Calls)

	// The execution was recorded against the dashboard.
	resp = ts.doJSON(t, http.MethodGet, "/v1/dashboards/1/history", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var history historyListResponse
	decodeJSON(t, resp, &history)
	require.Len(t, history.Records, 1)
	assert.Equal(t, int64(1), history.TotalCount)
	assert.Equal(t, "revenue by month", history.Records[0].Query)
	assert.Equal(t, principal.ID, history.Records[0].PrincipalID)

	var stored domain.TableData
	require.NoError(t, json.Unmarshal(history.Records[0].Result, &stored))
	assert.Equal(t, sampleData.Columns, stored.Columns)
}

func TestAPI_ExecuteQuery_Validation(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerAndLogin(t, "validation@example.com")

	tests := []struct {
		name string
		req  queryRequest
	}{
		{"missing dashboard", queryRequest{Query: "revenue"}},
		{"empty query", queryRequest{DashboardID: "1"}},
		{"whitespace query", queryRequest{DashboardID: "1", Query: "   "}},
		{"oversized query", queryRequest{DashboardID: "1", Query: strings.Repeat("x", 501)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.doJSON(t, http.MethodPost, "/v1/query", token, tt.req)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
	assert.Zero(t, ts.executor.Calls)
}

func TestAPI_ExecuteQuery_ExecutorFailure(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerAndLogin(t, "failure@example.com")

	ts.executor.ExecuteFn = func(context.Context, string, string) (domain.TableData, error) {
		return domain.TableData{}, domain.ErrExecution("translation failed: unknown metric")
	}

	resp := ts.doJSON(t, http.MethodPost, "/v1/query", token, queryRequest{
		DashboardID: "1", Query: "unknowable",
	})
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var body errorBody
	decodeJSON(t, resp, &body)
	assert.Contains(t, body.Message, "translation failed")
}

func TestAPI_ExecuteQuery_CacheHit(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerAndLogin(t, "cached@example.com")

	ts.cache.GetFn = func(context.Context, string) (domain.TableData, bool) {
		return sampleData, true
	}

	resp := ts.doJSON(t, http.MethodPost, "/v1/query", token, queryRequest{
		DashboardID: "7", Query: "revenue by month",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var env domain.ResultEnvelope
	decodeJSON(t, resp, &env)
	assert.True(t, env.FromCache)
	assert.Zero(t, ts.executor.Calls)
}

func TestAPI_Dashboards(t *testing.T) {
	ts := setupTestServer(t)
	ownerToken, _ := ts.registerAndLogin(t, "owner@example.com")
	otherToken, _ := ts.registerAndLogin(t, "other@example.com")

	resp := ts.doJSON(t, http.MethodPost, "/v1/dashboards", ownerToken, createDashboardRequest{
		Name: "  Revenue  ", Description: "quarterly numbers",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created dashboardResponse
	decodeJSON(t, resp, &created)
	assert.Equal(t, "Revenue", created.Name)
	require.NotZero(t, created.ID)
	id := created.ID

	resp = ts.doJSON(t, http.MethodGet, "/v1/dashboards/"+itoa(id), ownerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = ts.doJSON(t, http.MethodGet, "/v1/dashboards", ownerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list dashboardListResponse
	decodeJSON(t, resp, &list)
	assert.Equal(t, int64(1), list.TotalCount)
	require.Len(t, list.Dashboards, 1)
	assert.Equal(t, "Revenue", list.Dashboards[0].Name)

	// Only the owner can delete.
	resp = ts.doJSON(t, http.MethodDelete, "/v1/dashboards/"+itoa(id), otherToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = ts.doJSON(t, http.MethodDelete, "/v1/dashboards/"+itoa(id), ownerToken, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = ts.doJSON(t, http.MethodGet, "/v1/dashboards/"+itoa(id), ownerToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_Dashboards_BadInput(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerAndLogin(t, "badinput@example.com")

	resp := ts.doJSON(t, http.MethodGet, "/v1/dashboards/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = ts.doJSON(t, http.MethodPost, "/v1/dashboards", token, createDashboardRequest{Name: "   "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Malformed JSON body.
	req, err := http.NewRequest(http.MethodPost, ts.srv.URL+"/v1/dashboards", strings.NewReader("{not json"))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	raw, err := ts.srv.Client().Do(req)
	require.NoError(t, err)
	defer raw.Body.Close() //nolint:errcheck
	assert.Equal(t, http.StatusBadRequest, raw.StatusCode)
}

func TestAPI_History_Empty(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerAndLogin(t, "nohistory@example.com")

	resp := ts.doJSON(t, http.MethodGet, "/v1/dashboards/99/history", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var history historyListResponse
	decodeJSON(t, resp, &history)
	assert.Empty(t, history.Records)
	assert.Zero(t, history.TotalCount)
	assert.Empty(t, history.NextPageToken)
}

func TestAPI_Metrics(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerAndLogin(t, "metrics@example.com")

	resp := ts.doJSON(t, http.MethodGet, "/v1/metrics", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list metricListResponse
	decodeJSON(t, resp, &list)
	require.NotEmpty(t, list.Metrics)
	names := make([]string, len(list.Metrics))
	for i, m := range list.Metrics {
		names[i] = m.Name
	}
	assert.Contains(t, names, "revenue")

	resp = ts.doJSON(t, http.MethodGet, "/v1/metrics/revenue?format=table", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var metric metricResponse
	decodeJSON(t, resp, &metric)
	assert.Equal(t, "revenue", metric.Name)
	assert.NotEmpty(t, metric.Points)
	require.NotNil(t, metric.Table)
	assert.Equal(t, []string{"label", "value"}, metric.Table.Columns)

	resp = ts.doJSON(t, http.MethodGet, "/v1/metrics/does-not-exist", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

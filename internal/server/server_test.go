package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snowfolio/snowfolio/internal/config"
	"github.com/snowfolio/snowfolio/internal/modules/budget"
	"github.com/snowfolio/snowfolio/internal/modules/risk"
)

func testServer() *Server {
	return New(Config{
		Port:   8080,
		Log:    zerolog.Nop(),
		Config: &config.Config{Port: 8080},
		Handlers: Handlers{
			Risk:   risk.NewHandler(zerolog.Nop()),
			Budget: budget.NewHandler(zerolog.Nop()),
		},
		DevMode: true,
	})
}

func TestHealthEndpoint(t *testing.T) {
	srv := testServer()

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, "snowfolio", resp["service"])
}

func TestSystemStatusEndpoint(t *testing.T) {
	srv := testServer()

	req := httptest.NewRequest("GET", "/api/system/status", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "running", resp["status"])
	assert.Equal(t, "not_configured", resp["database"])
	assert.Contains(t, resp, "memory")
	assert.Contains(t, resp, "goroutines")
}

func TestRiskScoreRoute(t *testing.T) {
	srv := testServer()

	body := `{"age":30,"income":80000,"monthly_expenses":2500,"investment_goal":"long_term","risk_tolerance":"medium","investment_experience":"intermediate","time_horizon":10,"liquidity_need":"medium"}`
	req := httptest.NewRequest("POST", "/api/risk/score", strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Contains(t, resp, "score")
	assert.Contains(t, resp, "profile")
}

func TestBudgetSurplusRoute(t *testing.T) {
	srv := testServer()

	body := `{"monthly_income":5000,"monthly_expenses":3500}`
	req := httptest.NewRequest("POST", "/api/budget/surplus", strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUnknownRouteIs404(t *testing.T) {
	srv := testServer()

	req := httptest.NewRequest("GET", "/api/nope", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

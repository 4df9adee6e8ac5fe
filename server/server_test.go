package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/rl-bandits/bandit"
	"golang.org/x/exp/rand"
)

func newTestServer(t *testing.T) *Server {
	b, err := bandit.NewBernoulliBandit([]float64{0.2, 0.8, 0.5}, rand.NewSource(1))
	require.NoError(t, err)
	c := bandit.NewComparison(b).WithOutput(io.Discard)
	_, err = c.AddStrategy(bandit.NewUCB1())
	require.NoError(t, err)
	ts, err := bandit.NewThompsonSampling(1, 1, rand.NewSource(2))
	require.NoError(t, err)
	_, err = c.AddStrategy(ts)
	require.NoError(t, err)
	require.NoError(t, c.Run(context.Background(), 120))

	s := NewServer(":0", c)
	gin.SetMode(gin.TestMode)
	return s
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := get(t, newTestServer(t), "/health")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBanditEndpoint(t *testing.T) {
	w := get(t, newTestServer(t), "/bandit")
	require.Equal(t, http.StatusOK, w.Code)
	var resp banditResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Arms)
	assert.Equal(t, 1, resp.BestArm)
	assert.Equal(t, 0.8, resp.BestProbability)
}

func TestSolversEndpoint(t *testing.T) {
	w := get(t, newTestServer(t), "/solvers")
	require.Equal(t, http.StatusOK, w.Code)
	var resp []solverSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "ucb1", resp[0].Name)
	assert.Equal(t, "finished", resp[0].State)
	assert.Equal(t, 120, resp[1].Steps)
}

func TestSolverEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := get(t, s, "/solvers/thompson-sampling")
	require.Equal(t, http.StatusOK, w.Code)
	var result bandit.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "thompson-sampling", result.Name)
	assert.Len(t, result.Counts, 3)

	w = get(t, s, "/solvers/ucb1/regrets")
	require.Equal(t, http.StatusOK, w.Code)
	var regrets []float64
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &regrets))
	assert.Len(t, regrets, 120)

	w = get(t, s, "/solvers/unknown")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = get(t, s, "/solvers/unknown/regrets")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

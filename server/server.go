// Package server exposes the results of a bandit comparison over a read-only HTTP API
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zeu5/rl-bandits/bandit"
	"gonum.org/v1/gonum/floats"
)

// Server serves the results of a comparison once it has been run
type Server struct {
	addr       string
	comparison *bandit.Comparison
	router     *gin.Engine

	mu     sync.Mutex
	server *http.Server
}

func NewServer(addr string, comparison *bandit.Comparison) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		addr:       addr,
		comparison: comparison,
	}
	s.router = s.routes()
	return s
}

// Handler is the http handler of the API
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/health", s.handleHealth)
	r.GET("/bandit", s.handleBandit)
	r.GET("/solvers", s.handleSolvers)
	r.GET("/solvers/:name", s.handleSolver)
	r.GET("/solvers/:name/regrets", s.handleRegrets)
	return r
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

type banditResponse struct {
	Arms            int       `json:"arms"`
	Probabilities   []float64 `json:"probabilities"`
	BestArm         int       `json:"best_arm"`
	BestProbability float64   `json:"best_probability"`
}

func (s *Server) handleBandit(c *gin.Context) {
	b := s.comparison.Bandit()
	resp := &banditResponse{
		Arms:            b.Arms(),
		Probabilities:   make([]float64, b.Arms()),
		BestProbability: b.BestProbability(),
	}
	for i := 0; i < b.Arms(); i++ {
		resp.Probabilities[i] = b.Probability(i)
	}
	resp.BestArm = floats.MaxIdx(resp.Probabilities)
	c.JSON(http.StatusOK, resp)
}

type solverSummary struct {
	Name        string  `json:"name"`
	State       string  `json:"state"`
	Steps       int     `json:"steps"`
	FinalRegret float64 `json:"final_regret"`
	TotalReward float64 `json:"total_reward"`
}

func (s *Server) handleSolvers(c *gin.Context) {
	out := make([]solverSummary, len(s.comparison.Solvers))
	for i, solver := range s.comparison.Solvers {
		out[i] = solverSummary{
			Name:        solver.Name(),
			State:       solver.State().String(),
			Steps:       solver.Steps(),
			FinalRegret: solver.CumulativeRegret(),
			TotalReward: solver.TotalReward(),
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) solver(c *gin.Context) (*bandit.Solver, bool) {
	solver, ok := s.comparison.Solver(c.Param("name"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown solver"})
	}
	return solver, ok
}

func (s *Server) handleSolver(c *gin.Context) {
	solver, ok := s.solver(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, solver.Result())
}

func (s *Server) handleRegrets(c *gin.Context) {
	solver, ok := s.solver(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, solver.Regrets())
}

// Start serves the API until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	s.server = &http.Server{
		Addr:    s.addr,
		Handler: s.router,
	}
	srv := s.server
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gridmc/core"
)

// Train request bounds. Out-of-range parameters are rejected here, before
// the trainer runs; the core assumes well-formed input.
const (
	maxEpisodesPerRequest = 5000
	maxEvalEvery          = 5000
	maxNEval              = 500
)

type trainRequest struct {
	N         int     `form:"n,default=50"`
	Alpha     float64 `form:"alpha,default=0.1"`
	EvalEvery int     `form:"eval_every,default=50"`
	NEval     int     `form:"n_eval,default=20"`
}

func (r trainRequest) validate() error {
	if r.N < 1 || r.N > maxEpisodesPerRequest {
		return fmt.Errorf("n must be in [1, %d], got %d", maxEpisodesPerRequest, r.N)
	}
	if r.Alpha <= 0 || r.Alpha > 1 {
		return fmt.Errorf("alpha must be in (0, 1], got %v", r.Alpha)
	}
	if r.EvalEvery < 1 || r.EvalEvery > maxEvalEvery {
		return fmt.Errorf("eval_every must be in [1, %d], got %d", maxEvalEvery, r.EvalEvery)
	}
	if r.NEval < 1 || r.NEval > maxNEval {
		return fmt.Errorf("n_eval must be in [1, %d], got %d", maxNEval, r.NEval)
	}
	return nil
}

// Server exposes the trainer over HTTP. The trainer is not safe for
// concurrent use, so every handler serializes through one mutex.
type Server struct {
	lock    *sync.Mutex
	trainer *core.Trainer

	router *gin.Engine
	server *http.Server
}

func New(addr string, allowOrigin string, trainer *core.Trainer) *Server {
	s := &Server{
		lock:    new(sync.Mutex),
		trainer: trainer,
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestID())
	if allowOrigin != "" {
		r.Use(cors(allowOrigin))
	}
	r.GET("/state", s.handleState)
	r.POST("/reset", s.handleReset)
	r.POST("/train", s.handleTrain)
	s.router = r
	s.server = &http.Server{
		Addr:    addr,
		Handler: r,
	}

	return s
}

// Handler exposes the route tree, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() {
	go func() {
		s.server.ListenAndServe()
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleState(c *gin.Context) {
	s.lock.Lock()
	snapshot := s.trainer.Snapshot()
	s.lock.Unlock()

	c.JSON(http.StatusOK, snapshot)
}

func (s *Server) handleReset(c *gin.Context) {
	s.lock.Lock()
	s.trainer.Reset()
	snapshot := s.trainer.Snapshot()
	s.lock.Unlock()

	c.JSON(http.StatusOK, snapshot)
}

func (s *Server) handleTrain(c *gin.Context) {
	req := trainRequest{}
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to parse train parameters"})
		return
	}
	if err := req.validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.lock.Lock()
	err := s.trainer.Train(core.TrainParams{
		Episodes:  req.N,
		Alpha:     req.Alpha,
		EvalEvery: req.EvalEvery,
		NEval:     req.NEval,
	})
	snapshot := s.trainer.Snapshot()
	s.lock.Unlock()

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Request-Id", uuid.NewString())
		c.Next()
	}
}

// cors admits the local visualization frontend.
func cors(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Header("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

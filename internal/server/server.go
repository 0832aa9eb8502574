// Package server exposes the interpreter over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/railvoice/internal/model"
	"github.com/ppiankov/railvoice/internal/pipeline"
	"github.com/ppiankov/railvoice/internal/worker"
)

// ClassifyRequest is the body of POST /api/v1/classify
type ClassifyRequest struct {
	Audio string `json:"audio"`
	Text  string `json:"text"`
}

// CommandInfo describes one catalog label
type CommandInfo struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Phrases  []string `json:"phrases,omitempty"`
	Quantity bool     `json:"quantity"`
}

// Server is the HTTP API
type Server struct {
	config     model.ServerConfig
	pipeline   *pipeline.Pipeline
	router     *gin.Engine
	httpServer *http.Server
	metrics    *metrics
	logger     *zap.Logger

	limiter  *worker.Limiter
	limitKey string
}

// New creates the API server around p
func New(cfg model.ServerConfig, p *pipeline.Pipeline, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		config:   cfg,
		pipeline: p,
		metrics:  newMetrics(),
		logger:   logger.Named("server"),
	}

	router := gin.New()
	router.Use(s.observe())
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{})))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/classify", s.handleClassify)
		v1.POST("/transcriptions", s.handleTranscription)
		v1.GET("/catalog", s.handleCatalog)
	}

	s.router = router
	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// SetLimiter rejects uploads with 429 once key has no tokens left.
// A nil limiter disables the check.
func (s *Server) SetLimiter(l *worker.Limiter, key string) {
	s.limiter = l
	s.limitKey = key
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is done, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("listening", zap.String("addr", s.config.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		timeout := s.config.ShutdownTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		s.logger.Info("shutting down")
		return s.httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (s *Server) handleClassify(c *gin.Context) {
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body: " + err.Error()})
		return
	}
	if req.Audio == "" {
		req.Audio = "request"
	}

	res := s.pipeline.ClassifyTextContext(c.Request.Context(), req.Audio, req.Text)
	s.metrics.observeResult(res.Label, res.HasAttribute())
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleTranscription(c *gin.Context) {
	if s.limiter != nil && !s.limiter.Allow(s.limitKey) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "transcription rate limit exceeded"})
		return
	}
	if s.config.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.config.MaxUploadBytes)
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field \"file\" is required"})
		return
	}

	name, ok := uploadName(header.Filename)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "upload needs a file name"})
		return
	}

	dir, err := os.MkdirTemp("", "railvoice-upload-")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot stage upload"})
		return
	}
	defer func() { _ = os.RemoveAll(dir) }()

	// keep the client's base name so results name the clip it sent
	path := filepath.Join(dir, name)
	if err := c.SaveUploadedFile(header, path); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot stage upload"})
		return
	}

	res, err := s.pipeline.ClassifyFile(c.Request.Context(), path)
	if err != nil {
		s.metrics.transcribeFails.Inc()
		s.logger.Warn("transcription failed", zap.String("clip", header.Filename), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	s.metrics.observeResult(res.Label, res.HasAttribute())
	c.JSON(http.StatusOK, res)
}

// uploadName returns the base name of a client file name, rejecting names
// that do not point at a file inside the staging dir
func uploadName(filename string) (string, bool) {
	name := filepath.Base(filepath.Clean("/" + filepath.ToSlash(filename)))
	switch name {
	case "", ".", "..", "/":
		return "", false
	}
	if name == string(filepath.Separator) {
		return "", false
	}
	return name, true
}

func (s *Server) handleCatalog(c *gin.Context) {
	in := s.pipeline.Interpreter()
	gate := in.Gate()

	cmds := in.Catalog().Commands()
	out := make([]CommandInfo, 0, len(cmds))
	for _, cmd := range cmds {
		out = append(out, CommandInfo{
			ID:       cmd.ID,
			Name:     cmd.Name,
			Phrases:  cmd.Phrases,
			Quantity: gate.Contains(cmd.ID),
		})
	}
	c.JSON(http.StatusOK, out)
}

// observe logs each request and records its latency
func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		code := c.Writer.Status()
		took := time.Since(start)

		s.metrics.requestDuration.WithLabelValues(route, strconv.Itoa(code)).Observe(took.Seconds())
		s.logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", code),
			zap.Duration("took", took))
	}
}

// Package api exposes the reconciliation service over HTTP: ledger upload
// returning the report bundle, plus run history backed by the store.
package api

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"gemrecon/internal/gateway"
	"gemrecon/internal/report"
	"gemrecon/internal/storage"
	"gemrecon/internal/usecase"
)

// Config holds API server configuration.
type Config struct {
	Port           int
	AllowedOrigins []string
}

// Server is the HTTP API server.
type Server struct {
	config    Config
	router    *gin.Engine
	reconcile *usecase.ReconcileUseCase
	store     *storage.Store
	writer    *report.Writer
	logger    *slog.Logger
}

// NewServer creates a new API server. store may be nil, in which case the
// run-history endpoints report the feature as unavailable.
func NewServer(cfg Config, reconcile *usecase.ReconcileUseCase, store *storage.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config:    cfg,
		router:    gin.New(),
		reconcile: reconcile,
		store:     store,
		writer:    report.NewWriter(),
		logger:    logger,
	}

	s.router.Use(gin.Recovery())
	s.router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.health)

	apiGroup := s.router.Group("/api")
	apiGroup.POST("/reconcile", s.postReconcile)
	apiGroup.GET("/runs", s.listRuns)
	apiGroup.GET("/runs/:id", s.getRun)
	apiGroup.GET("/runs/:id/groups", s.listRunGroups)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe runs the server until it fails.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	s.logger.Info("api server listening", "addr", addr)
	return s.router.Run(addr)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// postReconcile accepts the two ledgers as a multipart upload and streams
// back the ZIP report bundle.
func (s *Server) postReconcile(c *gin.Context) {
	invoiceFile, err := c.FormFile("invoice_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invoice_file is required"})
		return
	}
	paymentFile, err := c.FormFile("payment_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payment_file is required"})
		return
	}

	invoiceSrc, err := invoiceFile.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not open invoice_file"})
		return
	}
	defer invoiceSrc.Close()

	paymentSrc, err := paymentFile.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not open payment_file"})
		return
	}
	defer paymentSrc.Close()

	result, summary, err := s.reconcile.Reconcile(c.Request.Context(), invoiceSrc, paymentSrc)
	if err != nil {
		if errors.Is(err, gateway.ErrMissingColumn) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		s.logger.Error("reconciliation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reconciliation failed"})
		return
	}

	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", `attachment; filename="reconciliation_result.zip"`)
	c.Header("X-Run-Id", summary.RunID)
	c.Status(http.StatusOK)

	if err := s.writer.WriteZip(c.Writer, result); err != nil {
		// Headers are already out; all we can do is log.
		s.logger.Error("failed to stream report bundle", "error", err, "run_id", summary.RunID)
	}
}

func (s *Server) listRuns(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "run history is disabled"})
		return
	}
	runs, err := s.store.ListRuns(c.Request.Context(), 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list runs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

func (s *Server) getRun(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "run history is disabled"})
		return
	}
	run, err := s.store.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch run"})
		return
	}
	c.JSON(http.StatusOK, run)
}

func (s *Server) listRunGroups(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "run history is disabled"})
		return
	}
	groups, err := s.store.ListGroups(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list match groups"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

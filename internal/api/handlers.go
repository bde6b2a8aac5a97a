package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/reelscope/reelscope/internal/aggregator"
	"github.com/reelscope/reelscope/internal/domain"
)

// Reconciler is the analyze surface the handler depends on.
type Reconciler interface {
	Analyze(ctx context.Context, url string, forceRefresh bool) (*domain.Reel, error)
}

// Aggregator is the read-view surface the handler depends on.
type Aggregator interface {
	Compare(ctx context.Context, urls []string) (*aggregator.ComparisonResult, error)
	UserAnalytics(ctx context.Context, username string) (*domain.UserAnalytics, error)
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Logger defines the logging interface
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Handler handles HTTP requests for the reelscope API
type Handler struct {
	reconciler Reconciler
	aggregator Aggregator
	db         Pinger
	logger     Logger
	service    string
	version    string
}

// NewHandler creates a new API handler
func NewHandler(rec Reconciler, agg Aggregator, db Pinger, logger Logger, service, version string) *Handler {
	return &Handler{
		reconciler: rec,
		aggregator: agg,
		db:         db,
		logger:     logger,
		service:    service,
		version:    version,
	}
}

// AnalyzeRequest represents an analyze request
type AnalyzeRequest struct {
	URL          string `json:"url" binding:"required"`
	ForceRefresh bool   `json:"forceRefresh"`
}

// CompareRequest represents a comparison request
type CompareRequest struct {
	URLs []string `json:"urls" binding:"required,min=2,max=5"`
}

// Analyze handles POST /api/v1/reels/analyze
func (h *Handler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid analyze request", "error", err)
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if !strings.Contains(req.URL, "instagram.com/reel/") {
		respondError(c, http.StatusBadRequest, "url must be an Instagram reel link")
		return
	}

	h.logger.Info("Analyzing reel", "url", req.URL, "force_refresh", req.ForceRefresh)

	reel, err := h.reconciler.Analyze(c.Request.Context(), req.URL, req.ForceRefresh)
	if err != nil {
		h.logger.Error("Reel analysis failed", "url", req.URL, "error", err)
		respondError(c, statusFor(err), err.Error())
		return
	}

	respondOK(c, reel)
}

// Compare handles POST /api/v1/reels/compare
func (h *Handler) Compare(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid compare request", "error", err)
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	h.logger.Info("Comparing reels", "count", len(req.URLs))

	result, err := h.aggregator.Compare(c.Request.Context(), req.URLs)
	if err != nil {
		h.logger.Error("Comparison failed", "error", err)
		respondError(c, statusFor(err), err.Error())
		return
	}

	respondOK(c, result)
}

// UserAnalytics handles GET /api/v1/users/:username
func (h *Handler) UserAnalytics(c *gin.Context) {
	username := c.Param("username")

	h.logger.Info("Building user analytics", "username", username)

	analytics, err := h.aggregator.UserAnalytics(c.Request.Context(), username)
	if err != nil {
		h.logger.Error("User analytics failed", "username", username, "error", err)
		respondError(c, statusFor(err), err.Error())
		return
	}

	respondOK(c, analytics)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": h.service,
		"version": h.version,
	})
}

// ReadyCheck handles GET /ready
func (h *Handler) ReadyCheck(c *gin.Context) {
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		h.logger.Error("Readiness check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"checks": gin.H{"postgresql": err.Error()},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"checks": gin.H{"postgresql": "ok"},
	})
}

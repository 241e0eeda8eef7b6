// Package api serves the snapshot status and query endpoints.
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"solana-token-risk/internal/observability"
	"solana-token-risk/internal/snapshot"
	"solana-token-risk/internal/storage"
)

// StatusProvider reports scheduler state.
type StatusProvider interface {
	Status() snapshot.Status
}

// Handler serves HTTP requests.
type Handler struct {
	status StatusProvider
	store  storage.SnapshotStore // nil disables /api/snapshots
}

// NewHandler creates a Handler.
func NewHandler(status StatusProvider, store storage.SnapshotStore) *Handler {
	return &Handler{status: status, store: store}
}

// NewRouter builds the gin engine with all routes.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/metrics", gin.WrapH(observability.Handler()))
	r.GET("/status", h.getStatus)

	snapshots := r.Group("/api/snapshots")
	snapshots.GET("/:address", h.getLatest)
	snapshots.GET("/:address/history", h.getHistory)

	return r
}

func (h *Handler) getStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.status.Status())
}

func (h *Handler) getLatest(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no snapshot store configured"})
		return
	}

	rec, err := h.store.GetLatest(c.Request.Context(), c.Param("address"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no snapshot for token"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) getHistory(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no snapshot store configured"})
		return
	}

	records, err := h.store.GetByToken(c.Request.Context(), c.Param("address"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(records), "items": records})
}

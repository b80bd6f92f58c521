package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/timmy/trendmeme/internal/api/middleware"
)

// TrendsSource returns the raw trending searches array.
type TrendsSource interface {
	Trending(ctx context.Context) (json.RawMessage, error)
}

// TrendsHandler handles trending-topic endpoints.
type TrendsHandler struct {
	trends TrendsSource
}

// NewTrendsHandler creates a new trends handler.
func NewTrendsHandler(trends TrendsSource) *TrendsHandler {
	return &TrendsHandler{trends: trends}
}

// Trends handles GET /api/trends and relays the upstream array unchanged.
func (h *TrendsHandler) Trends(c *gin.Context) {
	raw, err := h.trends.Trending(c.Request.Context())
	if err != nil {
		middleware.GetLogger(c).WithError(err).Error("Error fetching trends")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch trends"})
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}

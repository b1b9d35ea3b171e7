package handler

import (
	"context"
	"net/http"
	"strconv"

	"address-reconciler/internal/models"

	"github.com/gin-gonic/gin"
)

// NearestHandler handles nearest position requests
type NearestHandler struct {
	service NearestService
}

// NearestService interface for dependency injection
type NearestService interface {
	NearestPosition(context.Context, float64, float64) (*models.Position, error)
}

// NewNearestHandler creates a new nearest position handler
func NewNearestHandler(svc NearestService) *NearestHandler {
	return &NearestHandler{service: svc}
}

// Nearest handles GET /positions/nearest requests
//
//	@Summary	Find the stored position nearest to a point
//	@Tags		positions
//	@Produce	json
//	@Param		lat	query		number	true	"latitude"
//	@Param		lon	query		number	true	"longitude"
//	@Success	200	{object}	models.Position
//	@Failure	400	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/positions/nearest [get]
func (h *NearestHandler) Nearest(c *gin.Context) {
	latStr := c.Query("lat")
	lonStr := c.Query("lon")

	if latStr == "" || lonStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameters 'lat' and 'lon'"})
		return
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid latitude format"})
		return
	}

	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid longitude format"})
		return
	}

	p, err := h.service.NearestPosition(c.Request.Context(), lat, lon)
	if err != nil {
		abortWithError(c, err)
		return
	}

	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no position found near the specified coordinates"})
		return
	}

	c.JSON(http.StatusOK, p)
}

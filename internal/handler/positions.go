package handler

import (
	"net/http"

	"address-reconciler/internal/models"

	"github.com/gin-gonic/gin"
)

// PositionHandler handles map position requests
type PositionHandler struct {
	service PositionService
}

// PositionService interface for dependency injection
type PositionService interface {
	Positions() []models.Position
	RemovePosition(id string) (models.Position, error)
	UpdateUserLocation(lon, lat float64) (models.Position, error)
}

// NewPositionHandler creates a new position handler
func NewPositionHandler(svc PositionService) *PositionHandler {
	return &PositionHandler{service: svc}
}

// UserLocationRequest is the body of PUT /positions/user-location
type UserLocationRequest struct {
	Longitude *float64 `json:"longitude" binding:"required"`
	Latitude  *float64 `json:"latitude" binding:"required"`
}

// List handles GET /positions requests
//
//	@Summary	List positions
//	@Tags		positions
//	@Produce	json
//	@Success	200	{array}	models.Position
//	@Router		/positions [get]
func (h *PositionHandler) List(c *gin.Context) {
	positions := h.service.Positions()
	if positions == nil {
		positions = []models.Position{}
	}
	c.JSON(http.StatusOK, positions)
}

// Remove handles DELETE /positions/:id requests
//
//	@Summary	Remove a position
//	@Tags		positions
//	@Produce	json
//	@Param		id	path		string	true	"position id"
//	@Success	200	{object}	models.Position
//	@Failure	404	{object}	ErrorResponse
//	@Router		/positions/{id} [delete]
func (h *PositionHandler) Remove(c *gin.Context) {
	p, err := h.service.RemovePosition(c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// UserLocation handles PUT /positions/user-location requests
//
//	@Summary	Move the user-location marker
//	@Tags		positions
//	@Accept		json
//	@Produce	json
//	@Param		location	body		UserLocationRequest	true	"coordinates"
//	@Success	200			{object}	models.Position
//	@Failure	400			{object}	ErrorResponse
//	@Router		/positions/user-location [put]
func (h *PositionHandler) UserLocation(c *gin.Context) {
	var req UserLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	p, err := h.service.UpdateUserLocation(*req.Longitude, *req.Latitude)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

package handler

import (
	"errors"
	"net/http"

	"address-reconciler/internal/position"
	"address-reconciler/internal/service"
	"address-reconciler/internal/store"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

func abortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrRecordNotFound), errors.Is(err, position.ErrPositionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCoordinates):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrGeocoderTimeout):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

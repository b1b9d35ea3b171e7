package handler

import (
	"context"
	"net/http"

	"address-reconciler/internal/matcher"
	"address-reconciler/internal/models"

	"github.com/gin-gonic/gin"
)

// GeocodeHandler handles matching and geocoding requests
type GeocodeHandler struct {
	service GeocodeService
}

// GeocodeService interface for dependency injection
type GeocodeService interface {
	Snapshot() []models.Record
	Match(q matcher.Query) models.MatchResult
	GeocodeBatch(ctx context.Context, records []models.Record) (int, error)
	Search(ctx context.Context, query string) error
	HandleResponse(resp models.GeocodeResponse) models.MatchResult
}

// NewGeocodeHandler creates a new geocode handler
func NewGeocodeHandler(svc GeocodeService) *GeocodeHandler {
	return &GeocodeHandler{service: svc}
}

// BatchResponse is the result of POST /geocode
type BatchResponse struct {
	Submitted int `json:"submitted"`
}

// Match handles GET /match requests
//
//	@Summary	Match address fields against the records
//	@Tags		geocode
//	@Produce	json
//	@Param		postcode	query		string	false	"postcode"
//	@Param		housenumber	query		string	false	"house number"
//	@Param		street		query		string	false	"street"
//	@Param		city		query		string	false	"city"
//	@Param		q			query		string	false	"free-text query"
//	@Success	200			{object}	models.MatchResult
//	@Failure	400			{object}	ErrorResponse
//	@Router		/match [get]
func (h *GeocodeHandler) Match(c *gin.Context) {
	q := matcher.Query{
		Postcode:    c.Query("postcode"),
		HouseNumber: c.Query("housenumber"),
		Street:      c.Query("street"),
		City:        c.Query("city"),
		Text:        c.Query("q"),
	}
	if q == (matcher.Query{}) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing address query parameters"})
		return
	}

	c.JSON(http.StatusOK, h.service.Match(q))
}

// Geocode handles POST /geocode requests. It submits every record without
// coordinates and returns when the last query has been sent.
//
//	@Summary	Geocode all records without coordinates
//	@Tags		geocode
//	@Produce	json
//	@Success	200	{object}	BatchResponse
//	@Failure	504	{object}	ErrorResponse
//	@Router		/geocode [post]
func (h *GeocodeHandler) Geocode(c *gin.Context) {
	n, err := h.service.GeocodeBatch(c.Request.Context(), h.service.Snapshot())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, BatchResponse{Submitted: n})
}

// Search handles POST /geocode/search requests
//
//	@Summary	Submit a free-text geocoder query
//	@Tags		geocode
//	@Param		q	query	string	true	"free-text query"
//	@Success	202
//	@Failure	400	{object}	ErrorResponse
//	@Failure	504	{object}	ErrorResponse
//	@Router		/geocode/search [post]
func (h *GeocodeHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameter 'q'"})
		return
	}

	if err := h.service.Search(c.Request.Context(), query); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}

// Response handles POST /geocode/responses requests, the answers of an
// external geocoder that posts its results back.
//
//	@Summary	Deliver a geocoder answer
//	@Tags		geocode
//	@Accept		json
//	@Produce	json
//	@Param		response	body		models.GeocodeResponse	true	"geocoder answer"
//	@Success	200			{object}	models.MatchResult
//	@Failure	400			{object}	ErrorResponse
//	@Router		/geocode/responses [post]
func (h *GeocodeHandler) Response(c *gin.Context) {
	var resp models.GeocodeResponse
	if err := c.ShouldBindJSON(&resp); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	c.JSON(http.StatusOK, h.service.HandleResponse(resp))
}

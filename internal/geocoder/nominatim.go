// Package geocoder talks to a Nominatim-compatible search endpoint. Answers
// are delivered asynchronously to a response handler, one per submitted
// query, even when the request fails.
package geocoder

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"address-reconciler/internal/models"

	"github.com/rs/zerolog/log"
)

// ResponseHandler receives geocoder answers.
type ResponseHandler func(resp models.GeocodeResponse)

// Client is an asynchronous geocoder client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	handler    ResponseHandler
}

// NewClient creates a client for the search endpoint at baseURL.
func NewClient(baseURL string, timeout time.Duration, handler ResponseHandler) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		handler:    handler,
	}
}

// SetHandler replaces the response handler. It must be called before the
// first Submit.
func (c *Client) SetHandler(handler ResponseHandler) {
	c.handler = handler
}

// Submit starts a search for query. The handler is called exactly once with
// the answer; failed or empty searches produce a response without
// coordinates.
func (c *Client) Submit(ctx context.Context, query string) error {
	if c.handler == nil {
		return fmt.Errorf("geocoder: no response handler")
	}
	req, err := c.newRequest(ctx, query)
	if err != nil {
		return err
	}
	go func() {
		resp, err := c.do(req, query)
		if err != nil {
			log.Error().Err(err).Str("query", query).Msg("geocoder request failed")
			resp = models.GeocodeResponse{Query: query}
		}
		c.handler(resp)
	}()
	return nil
}

func (c *Client) newRequest(ctx context.Context, query string) (*http.Request, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "jsonv2")
	params.Set("addressdetails", "1")
	params.Set("limit", "1")

	// the request outlives the caller's context
	req, err := http.NewRequestWithContext(context.WithoutCancel(ctx), http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("geocoder: failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "address-reconciler")
	return req, nil
}

type place struct {
	Lat         string       `json:"lat"`
	Lon         string       `json:"lon"`
	DisplayName string       `json:"display_name"`
	Address     placeAddress `json:"address"`
}

type placeAddress struct {
	HouseNumber string `json:"house_number"`
	Road        string `json:"road"`
	Pedestrian  string `json:"pedestrian"`
	City        string `json:"city"`
	Town        string `json:"town"`
	Village     string `json:"village"`
	Postcode    string `json:"postcode"`
	CountryCode string `json:"country_code"`
}

func (c *Client) do(req *http.Request, query string) (models.GeocodeResponse, error) {
	res, err := c.httpClient.Do(req)
	if err != nil {
		return models.GeocodeResponse{}, fmt.Errorf("geocoder: request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return models.GeocodeResponse{}, fmt.Errorf("geocoder: unexpected status %d", res.StatusCode)
	}

	var places []place
	if err := json.NewDecoder(res.Body).Decode(&places); err != nil {
		return models.GeocodeResponse{}, fmt.Errorf("geocoder: failed to decode response: %w", err)
	}
	if len(places) == 0 {
		return models.GeocodeResponse{Query: query}, nil
	}
	return toResponse(places[0], query)
}

func toResponse(p place, query string) (models.GeocodeResponse, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return models.GeocodeResponse{}, fmt.Errorf("geocoder: invalid latitude %q: %w", p.Lat, err)
	}
	lon, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return models.GeocodeResponse{}, fmt.Errorf("geocoder: invalid longitude %q: %w", p.Lon, err)
	}
	return models.GeocodeResponse{
		Longitude:   lon,
		Latitude:    lat,
		DisplayName: p.DisplayName,
		Query:       query,
		Properties: models.GeocodeProperties{
			Postcode:    p.Address.Postcode,
			City:        firstNonEmpty(p.Address.City, p.Address.Town, p.Address.Village),
			Street:      firstNonEmpty(p.Address.Road, p.Address.Pedestrian),
			HouseNumber: p.Address.HouseNumber,
			Country:     strings.ToUpper(p.Address.CountryCode),
		},
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

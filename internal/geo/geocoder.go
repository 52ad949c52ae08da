// Package geo wraps the external geocoding collaborator. The core only
// consumes the resulting lat/lng pair.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"campdir/internal/utils/logger"
)

type Geocoder struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     *logger.Logger
}

func NewGeocoder(baseURL, apiKey string) *Geocoder {
	return &Geocoder{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     logger.New("GEOCODER"),
	}
}

type geocodeResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode resolves a free-form address or zipcode to coordinates via the
// upstream service.
func (g *Geocoder) Geocode(ctx context.Context, address string) (lat, lng float64, err error) {
	q := url.Values{}
	q.Set("q", address)
	if g.apiKey != "" {
		q.Set("api_key", g.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return 0, 0, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return 0, 0, g.log.Error("geocoding request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, g.log.Error("geocoding request failed", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var results []geocodeResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return 0, 0, g.log.Error("failed to decode geocoding response", err)
	}
	if len(results) == 0 {
		return 0, 0, fmt.Errorf("no geocoding result for %q", address)
	}

	lat, err = strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return 0, 0, err
	}
	lng, err = strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return 0, 0, err
	}

	return lat, lng, nil
}

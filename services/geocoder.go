package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"campusnest/errors"

	"github.com/goccy/go-json"
)

const mapboxBaseURL = "https://api.mapbox.com/geocoding/v5/mapbox.places"

// Geocoder turns a postal address into coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (lat, lon float64, err error)
}

// GeocodingResponseMapbox is the subset of the Mapbox places response we read.
type GeocodingResponseMapbox struct {
	Features []struct {
		PlaceName string    `json:"place_name"`
		Center    []float64 `json:"center"`
	} `json:"features"`
}

type MapboxGeocoder struct {
	token   string
	baseURL string
	client  *http.Client
}

func NewMapboxGeocoder(token string) *MapboxGeocoder {
	return &MapboxGeocoder{
		token:   token,
		baseURL: mapboxBaseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

// WithBaseURL points the geocoder at another host; tests use httptest.
func (g *MapboxGeocoder) WithBaseURL(base string) *MapboxGeocoder {
	g.baseURL = strings.TrimRight(base, "/")
	return g
}

func (g *MapboxGeocoder) Geocode(ctx context.Context, address string) (float64, float64, error) {
	apiURL := fmt.Sprintf("%s/%s.json?access_token=%s&limit=1&country=us",
		g.baseURL, url.PathEscape(address), url.QueryEscape(g.token))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return 0, 0, err
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return 0, 0, errors.NewAppError(errors.ErrCodeUpstream, "Geocoding request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, errors.NewAppError(errors.ErrCodeUpstream, "Geocoding request failed",
			fmt.Errorf("geocoder returned status %d", resp.StatusCode))
	}

	var body GeocodingResponseMapbox
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, 0, fmt.Errorf("failed to parse geocoder response: %w", err)
	}
	if len(body.Features) == 0 || len(body.Features[0].Center) != 2 {
		return 0, 0, errors.ErrGeocodeNoResult
	}

	// Mapbox centers are [lon, lat].
	center := body.Features[0].Center
	return center[1], center[0], nil
}

// FormatAddress joins the non-empty parts of a US address.
func FormatAddress(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}

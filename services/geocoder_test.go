package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"campusnest/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapboxGeocoder(t *testing.T) {
	var gotPath, gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.URL.Query().Get("access_token")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"features":[{"place_name":"2500 Broadway, Lubbock, Texas","center":[-101.87,33.58]}]}`))
	}))
	defer srv.Close()

	geo := NewMapboxGeocoder("tok").WithBaseURL(srv.URL + "/")
	lat, lon, err := geo.Geocode(context.Background(), "2500 Broadway, Lubbock County, TX")
	require.NoError(t, err)
	assert.InDelta(t, 33.58, lat, 1e-9)
	assert.InDelta(t, -101.87, lon, 1e-9)
	assert.Equal(t, "tok", gotToken)
	assert.Equal(t, "/2500 Broadway, Lubbock County, TX.json", gotPath)
}

func TestMapboxGeocoderErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{"upstream status", http.StatusUnauthorized, `{}`, func(t *testing.T, err error) {
			assert.True(t, errors.HasCode(err, errors.ErrCodeUpstream))
		}},
		{"no features", http.StatusOK, `{"features":[]}`, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, errors.ErrGeocodeNoResult)
		}},
		{"bad json", http.StatusOK, `{"features":`, func(t *testing.T, err error) {
			assert.Error(t, err)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, _, err := NewMapboxGeocoder("tok").WithBaseURL(srv.URL).Geocode(context.Background(), "x")
			tt.check(t, err)
		})
	}
}

func TestFormatAddress(t *testing.T) {
	assert.Equal(t, "1 Main St, Lubbock County, TX", FormatAddress("1 Main St", "  ", "Lubbock County", "TX"))
	assert.Equal(t, "", FormatAddress())
}

package routing

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSRM_Route(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_, _ = io.WriteString(w, `{"code":"Ok","routes":[{"distance":12500,"geometry":{"coordinates":[[80.2341,13.0418],[80.2206,13.0067],[1]]}}]}`)
	}))
	defer srv.Close()

	g, err := NewOSRM(srv.URL+"/", time.Second).Route(context.Background(), 13.0418, 80.2341, 13.0067, 80.2206)
	require.NoError(t, err)

	assert.Equal(t, "/route/v1/driving/80.234100,13.041800;80.220600,13.006700", gotPath)
	assert.Contains(t, gotQuery, "overview=full")
	assert.Contains(t, gotQuery, "geometries=geojson")
	assert.InDelta(t, 12.5, g.DistanceKm, 1e-9)
	require.Len(t, g.Points, 2)
	assert.Equal(t, Point{Lat: 13.0418, Lon: 80.2341}, g.Points[0])
}

func TestOSRM_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"bad status", http.StatusBadGateway, `{}`},
		{"osrm code", http.StatusOK, `{"code":"NoRoute","routes":[]}`},
		{"no routes", http.StatusOK, `{"code":"Ok","routes":[]}`},
		{"bad json", http.StatusOK, `not json`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := NewOSRM(srv.URL, time.Second).Route(context.Background(), 1, 2, 3, 4)
			assert.Error(t, err)
		})
	}
}

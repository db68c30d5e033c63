package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"traffic-dashboard-backend/internal/domain"
	"traffic-dashboard-backend/internal/store"
)

func TestHandleAreas(t *testing.T) {
	e := newTestEnv(t)
	rec := do(t, e.HandleAreas, http.MethodGet, "/api/areas", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, gjson.Parse(rec.Body.String()).Array(), 12)
}

func TestHandleCongestion(t *testing.T) {
	e := newTestEnv(t)
	rec := do(t, e.HandleCongestion, http.MethodGet, "/api/congestion", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	res := gjson.Parse(rec.Body.String())
	assert.Len(t, res.Get("readings").Array(), 12)
	assert.Equal(t, int64(2), res.Get("hotspots").Int())
	assert.Equal(t, int64(4), res.Get("high").Int())
}

func TestHandleStability(t *testing.T) {
	e := newTestEnv(t)
	rec := do(t, e.HandleStability, http.MethodGet, "/api/stability", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	res := gjson.Parse(rec.Body.String())
	assert.Equal(t, int64(54), res.Get("avgStability").Int())
	assert.Equal(t, "ECR", res.Get("entries.0.areaName").String())
	assert.Len(t, res.Get("reliable").Array(), 4)
}

func TestHandleRoutes(t *testing.T) {
	e := newTestEnv(t)
	citizen := signedIn(t, e, domain.RoleCitizen)

	rec := do(t, e.HandleRoutes, http.MethodPost, "/api/routes", map[string]string{"source": "1", "destination": "5"}, citizen)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := gjson.Parse(rec.Body.String())
	assert.Len(t, res.Get("routes").Array(), 4)
	assert.Equal(t, "T. Nagar → Guindy (via Inner Ring Road)", res.Get("best.name").String())
	assert.Equal(t, "T. Nagar → Guindy (via City Center)", res.Get("routes.3.name").String())
	assert.False(t, res.Get("road").Exists())
}

func TestHandleRoutes_Errors(t *testing.T) {
	e := newTestEnv(t)
	citizen := signedIn(t, e, domain.RoleCitizen)
	authority := signedIn(t, e, domain.RoleAuthority)

	tests := []struct {
		name   string
		token  string
		body   map[string]string
		status int
	}{
		{"not signed in", "", map[string]string{"source": "1", "destination": "2"}, http.StatusUnauthorized},
		{"authority", authority, map[string]string{"source": "1", "destination": "2"}, http.StatusForbidden},
		{"missing destination", citizen, map[string]string{"source": "1"}, http.StatusBadRequest},
		{"same area", citizen, map[string]string{"source": "3", "destination": "3"}, http.StatusBadRequest},
		{"unknown area", citizen, map[string]string{"source": "1", "destination": "99"}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, e.HandleRoutes, http.MethodPost, "/api/routes", tt.body, tt.token)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestHandleRoutes_RoadGeometryFromSettings(t *testing.T) {
	var calls int
	osrm := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = io.WriteString(w, `{"code":"Ok","routes":[{"distance":9800,"geometry":{"coordinates":[[80.2341,13.0418],[80.2206,13.0067]]}}]}`)
	}))
	defer osrm.Close()

	e := newTestEnv(t)
	e.OSRMBaseURL = "http://127.0.0.1:1" // настройка из БД важнее конфига
	require.NoError(t, e.Store.SaveSettings(context.Background(), store.Settings{OSRMBaseURL: osrm.URL}))
	citizen := signedIn(t, e, domain.RoleCitizen)

	rec := do(t, e.HandleRoutes, http.MethodPost, "/api/routes", map[string]string{"source": "1", "destination": "5"}, citizen)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 1, calls)
	road := gjson.Get(rec.Body.String(), "road")
	assert.InDelta(t, 9.8, road.Get("distanceKm").Float(), 1e-9)
	assert.Len(t, road.Get("points").Array(), 2)
}

func TestHandleRoutes_OSRMFailureIsOmitted(t *testing.T) {
	osrm := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer osrm.Close()

	e := newTestEnv(t)
	e.OSRMBaseURL = osrm.URL
	citizen := signedIn(t, e, domain.RoleCitizen)

	rec := do(t, e.HandleRoutes, http.MethodPost, "/api/routes", map[string]string{"source": "1", "destination": "5"}, citizen)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, gjson.Get(rec.Body.String(), "road").Exists())
	assert.Len(t, gjson.Get(rec.Body.String(), "routes").Array(), 4)
}

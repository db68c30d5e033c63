package handlers

import (
	"net/http"
	"strings"

	"traffic-dashboard-backend/internal/apperr"
	"traffic-dashboard-backend/internal/domain"
)

type markersResponse struct {
	Markers  []domain.MapMarker `json:"markers"`
	Hotspots []domain.MapMarker `json:"hotspots"`
	High     []domain.MapMarker `json:"high"`
}

// GET /api/authority/markers — маркеры живой карты
func (e *Env) HandleMarkers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		e.methodNotAllowed(w, r)
		return
	}
	if _, ok := e.requireRole(w, r, domain.RoleAuthority); !ok {
		return
	}

	markers, err := e.markers(r)
	if err != nil {
		e.writeError(w, r, err)
		return
	}
	e.writeJSON(w, markersResponse{
		Markers:  markers,
		Hotspots: domain.Hotspots(markers),
		High:     domain.HighCongestion(markers),
	})
}

func (e *Env) markers(r *http.Request) ([]domain.MapMarker, error) {
	readings, err := e.Store.LatestCongestion(r.Context())
	if err != nil {
		return nil, err
	}
	areas, err := e.Store.ListAreas(r.Context())
	if err != nil {
		return nil, err
	}
	return domain.Markers(readings, areas), nil
}

type analyticsResponse struct {
	Corridor  domain.Corridor         `json:"corridor"`
	Corridors []domain.Corridor       `json:"corridors"`
	Points    []domain.AnalyticsPoint `json:"points"`
	Summary   domain.AnalyticsSummary `json:"summary"`
}

// GET /api/authority/analytics?route=1
func (e *Env) HandleAnalytics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		e.methodNotAllowed(w, r)
		return
	}
	if _, ok := e.requireRole(w, r, domain.RoleAuthority); !ok {
		return
	}

	id := strings.TrimSpace(r.URL.Query().Get("route"))
	if id == "" {
		id = domain.DefaultCorridorID
	}
	corridor := domain.FindCorridor(id)
	if corridor == nil {
		e.writeError(w, r, apperr.NotFound("unknown corridor "+id))
		return
	}

	points, err := e.Store.Analytics(r.Context(), id)
	if err != nil {
		e.writeError(w, r, err)
		return
	}
	// для коридоров без статистики показываем демо-данные
	if len(points) == 0 {
		points = domain.AnalyticsFixtures()
	}

	e.writeJSON(w, analyticsResponse{
		Corridor:  *corridor,
		Corridors: domain.Corridors(),
		Points:    points,
		Summary:   domain.SummarizeAnalytics(points),
	})
}

// POST /api/authority/congestion — новый замер, уходит подписчикам /ws/congestion
func (e *Env) HandleIngestCongestion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		e.methodNotAllowed(w, r)
		return
	}
	if _, ok := e.requireRole(w, r, domain.RoleAuthority); !ok {
		return
	}

	var reading domain.CongestionReading
	if err := decodeJSON(r, &reading); err != nil {
		e.writeError(w, r, err)
		return
	}

	saved, err := e.Ingestor.Ingest(r.Context(), reading)
	if err != nil {
		e.writeError(w, r, err)
		return
	}
	e.writeJSONStatus(w, http.StatusCreated, saved)
}

package handlers

import (
	"net/http"

	"traffic-dashboard-backend/internal/domain"
)

// GET /api/areas
func (e *Env) HandleAreas(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		e.methodNotAllowed(w, r)
		return
	}
	areas, err := e.Store.ListAreas(r.Context())
	if err != nil {
		e.writeError(w, r, err)
		return
	}
	e.writeJSON(w, areas)
}

type congestionResponse struct {
	Readings []domain.CongestionReading `json:"readings"`
	Hotspots int                        `json:"hotspots"`
	High     int                        `json:"high"`
}

// GET /api/congestion — последний замер по каждому району
func (e *Env) HandleCongestion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		e.methodNotAllowed(w, r)
		return
	}
	readings, err := e.Store.LatestCongestion(r.Context())
	if err != nil {
		e.writeError(w, r, err)
		return
	}

	resp := congestionResponse{Readings: readings}
	for _, c := range readings {
		if c.IsHotspot() {
			resp.Hotspots++
		}
		if c.Level == domain.LevelHigh {
			resp.High++
		}
	}
	e.writeJSON(w, resp)
}

// GET /api/stability
func (e *Env) HandleStability(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		e.methodNotAllowed(w, r)
		return
	}
	readings, err := e.Store.LatestCongestion(r.Context())
	if err != nil {
		e.writeError(w, r, err)
		return
	}
	e.writeJSON(w, domain.StabilityReport(readings))
}

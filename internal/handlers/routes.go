package handlers

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"traffic-dashboard-backend/internal/apperr"
	"traffic-dashboard-backend/internal/domain"
	"traffic-dashboard-backend/internal/routing"
)

type routeRequest struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

type routeResponse struct {
	Source      domain.Area          `json:"source"`
	Destination domain.Area          `json:"destination"`
	Routes      []domain.RouteOption `json:"routes"`
	Best        domain.RouteOption   `json:"best"`
	Road        *routing.Geometry    `json:"road,omitempty"` // геометрия OSRM, если сервис настроен
}

// POST /api/routes { "source": "1", "destination": "5" }
func (e *Env) HandleRoutes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		e.methodNotAllowed(w, r)
		return
	}
	if _, ok := e.requireRole(w, r, domain.RoleCitizen); !ok {
		return
	}

	var req routeRequest
	if err := decodeJSON(r, &req); err != nil {
		e.writeError(w, r, err)
		return
	}

	areas, err := e.Store.ListAreas(r.Context())
	if err != nil {
		e.writeError(w, r, err)
		return
	}

	var src, dst *domain.Area
	if id := strings.TrimSpace(req.Source); id != "" {
		if src = domain.FindArea(areas, id); src == nil {
			e.writeError(w, r, apperr.NotFound("unknown source area"))
			return
		}
	}
	if id := strings.TrimSpace(req.Destination); id != "" {
		if dst = domain.FindArea(areas, id); dst == nil {
			e.writeError(w, r, apperr.NotFound("unknown destination area"))
			return
		}
	}

	routes, err := domain.GenerateRoutes(src, dst)
	if err != nil {
		e.writeError(w, r, apperr.Wrap(apperr.CodeInvalidInput, err.Error(), err))
		return
	}

	resp := routeResponse{
		Source:      *src,
		Destination: *dst,
		Routes:      routes,
		Best:        routes[0],
		Road:        e.roadGeometry(r.Context(), *src, *dst),
	}
	e.writeJSON(w, resp)
}

// osrmBaseURL — адрес из настроек в БД, иначе из конфига
func (e *Env) osrmBaseURL(ctx context.Context) string {
	st, err := e.Store.LoadSettings(ctx)
	if err == nil && strings.TrimSpace(st.OSRMBaseURL) != "" {
		return strings.TrimSpace(st.OSRMBaseURL)
	}
	return e.OSRMBaseURL
}

// roadGeometry — ошибки OSRM только логируем, маршрут отдаём без геометрии
func (e *Env) roadGeometry(ctx context.Context, src, dst domain.Area) *routing.Geometry {
	base := e.osrmBaseURL(ctx)
	if base == "" {
		return nil
	}
	g, err := routing.NewOSRM(base, e.RouteTimeout).Route(ctx, src.Latitude, src.Longitude, dst.Latitude, dst.Longitude)
	if err != nil {
		e.Log.Warn("osrm route failed",
			zap.String("source", src.ID),
			zap.String("destination", dst.ID),
			zap.Error(err),
		)
		return nil
	}
	return &g
}

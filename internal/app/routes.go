package app

import (
	"net/http"

	"traffic-dashboard-backend/internal/handlers"
	"traffic-dashboard-backend/internal/live"
)

// заголовки CORS для API: фронт в dev живёт на другом origin
var corsHeaders = [][2]string{
	{"Access-Control-Allow-Origin", "*"},
	{"Access-Control-Allow-Headers", "Authorization, Content-Type"},
	{"Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS"},
	{"Access-Control-Max-Age", "600"},
}

// withCORS отвечает на preflight сам, остальное передаёт дальше
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, h := range corsHeaders {
			w.Header().Set(h[0], h[1])
		}
		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func registerRoutes(mux *http.ServeMux, env *handlers.Env, hub *live.Hub) {
	api := func(path string, h http.HandlerFunc) {
		mux.Handle(path, withCORS(h))
	}

	// --- API ---
	api("/api/health", env.HandleHealth)

	api("/api/auth/signup", env.HandleSignUp)
	api("/api/auth/signin", env.HandleSignIn)
	api("/api/auth/signout", env.HandleSignOut)
	api("/api/me", env.HandleMe)

	// открытые данные
	api("/api/areas", env.HandleAreas)
	api("/api/congestion", env.HandleCongestion)
	api("/api/stability", env.HandleStability)

	// житель
	api("/api/routes", env.HandleRoutes)
	api("/api/chat", env.HandleChat)

	// дорожная служба
	api("/api/authority/markers", env.HandleMarkers)
	api("/api/authority/analytics", env.HandleAnalytics)
	api("/api/authority/cost", env.HandleCost)
	api("/api/authority/cost/scenarios", env.HandleCostScenarios)
	api("/api/authority/congestion", env.HandleIngestCongestion)
	api("/api/authority/settings", env.HandleAuthoritySettings)

	// живая лента замеров
	mux.Handle("/ws/congestion", hub)

	// --- Страницы ---
	mux.HandleFunc("/", env.HandlePages)
}

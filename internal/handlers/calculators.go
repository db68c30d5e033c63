package handlers

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"traffic-dashboard-backend/internal/apperr"
	"traffic-dashboard-backend/internal/domain"
)

// flexInt принимает число или строку; всё, что не разобралось, считаем нулём
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		*f = flexInt(math.Trunc(n))
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexInt(leadingInt(s))
		return nil
	}
	*f = 0
	return nil
}

// leadingInt — целое из начала строки: "12 cars" -> 12, "abc" -> 0
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	v, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return v
}

type costRequest struct {
	Vehicles     flexInt `json:"vehicles"`
	AvgDelayMins flexInt `json:"avgDelayMins"`
	Level        string  `json:"congestionLevel"`
}

func (req costRequest) input() domain.CostInput {
	lvl, err := domain.ParseLevel(req.Level)
	if err != nil {
		lvl = domain.LevelMedium
	}
	return domain.CostInput{
		Vehicles:     int(req.Vehicles),
		AvgDelayMins: int(req.AvgDelayMins),
		Level:        lvl,
	}.Normalize()
}

// значения формы калькулятора по умолчанию
var defaultCostInput = domain.CostInput{Vehicles: 1000, AvgDelayMins: 15, Level: domain.LevelMedium}

type costConfigResponse struct {
	Factors  domain.CostFactors  `json:"factors"`
	Defaults domain.CostInput    `json:"defaults"`
	Estimate domain.CostEstimate `json:"estimate"`
}

// GET/POST /api/authority/cost
func (e *Env) HandleCost(w http.ResponseWriter, r *http.Request) {
	if _, ok := e.requireRole(w, r, domain.RoleAuthority); !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		e.writeJSON(w, costConfigResponse{
			Factors:  e.CostFactors,
			Defaults: defaultCostInput,
			Estimate: domain.EstimateCost(e.CostFactors, defaultCostInput),
		})

	case http.MethodPost:
		var req costRequest
		if err := decodeJSON(r, &req); err != nil {
			e.writeError(w, r, err)
			return
		}
		e.writeJSON(w, domain.EstimateCost(e.CostFactors, req.input()))

	default:
		e.methodNotAllowed(w, r)
	}
}

type scenarioRequest struct {
	costRequest
	Name string `json:"name"`
}

// GET/POST/DELETE /api/authority/cost/scenarios — сохранённые расчёты
func (e *Env) HandleCostScenarios(w http.ResponseWriter, r *http.Request) {
	u, ok := e.requireRole(w, r, domain.RoleAuthority)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		list, err := e.Store.Scenarios(r.Context(), u.ID)
		if err != nil {
			e.writeError(w, r, err)
			return
		}
		if list == nil {
			list = []domain.CostScenario{}
		}
		e.writeJSON(w, list)

	case http.MethodPost:
		var req scenarioRequest
		if err := decodeJSON(r, &req); err != nil {
			e.writeError(w, r, err)
			return
		}

		name := strings.TrimSpace(req.Name)
		if name == "" {
			e.writeError(w, r, apperr.InvalidInput("scenario name is required"))
			return
		}

		in := req.input()
		sc := domain.CostScenario{
			ID:        uuid.NewString(),
			OwnerID:   u.ID,
			Name:      name,
			Input:     in,
			TotalCost: domain.EstimateCost(e.CostFactors, in).TotalCost,
			CreatedAt: time.Now().UTC(),
		}
		if err := e.Store.CreateScenario(r.Context(), sc); err != nil {
			e.writeError(w, r, err)
			return
		}
		e.writeJSONStatus(w, http.StatusCreated, sc)

	case http.MethodDelete:
		id := strings.TrimSpace(r.URL.Query().Get("id"))
		if id == "" {
			e.writeError(w, r, apperr.InvalidInput("id is required"))
			return
		}
		if err := e.Store.DeleteScenario(r.Context(), id, u.ID); err != nil {
			e.writeError(w, r, storeErr(err, "scenario"))
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		e.methodNotAllowed(w, r)
	}
}

package domain

import (
	"errors"
	"sort"
	"strconv"
)

var (
	ErrRouteEndpointsRequired = errors.New("source and destination are required")
	ErrRouteSameEndpoints     = errors.New("source and destination must differ")
)

// RouteOption — вариант маршрута с оценкой стабильности и риска задержки
type RouteOption struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	DistanceKm        float64 `json:"distanceKm"`
	EstimatedTimeMins int     `json:"estimatedTimeMins"`
	Level             Level   `json:"congestionLevel"`
	StabilityIndex    int     `json:"stabilityIndex"`
	FutureRisk        Level   `json:"futureRisk"`
	DelayProbability  int     `json:"delayProbability"` // %
}

// RouteScore — чем меньше, тем лучше: время с поправкой на стабильность
func RouteScore(r RouteOption) float64 {
	return float64(r.EstimatedTimeMins) * (1 - float64(r.StabilityIndex)/100)
}

// RankRoutes сортирует маршруты по RouteScore (по возрастанию), исходный слайс не трогает.
// При равном score сохраняется исходный порядок.
func RankRoutes(routes []RouteOption) []RouteOption {
	out := make([]RouteOption, len(routes))
	copy(out, routes)
	sort.SliceStable(out, func(i, j int) bool {
		return RouteScore(out[i]) < RouteScore(out[j])
	})
	return out
}

// routeTemplate — шаблон варианта, из которого строится маршрут для пары районов
type routeTemplate struct {
	via              string
	distanceKm       float64
	timeMins         int
	level            Level
	stability        int
	risk             Level
	delayProbability int
}

var routeTemplates = []routeTemplate{
	{via: "Inner Ring Road", distanceKm: 12.5, timeMins: 35, level: LevelLow, stability: 85, risk: LevelLow, delayProbability: 12},
	{via: "Main Road", distanceKm: 10.2, timeMins: 42, level: LevelMedium, stability: 58, risk: LevelMedium, delayProbability: 38},
	{via: "Expressway", distanceKm: 15.8, timeMins: 28, level: LevelMedium, stability: 72, risk: LevelMedium, delayProbability: 25},
	{via: "City Center", distanceKm: 8.5, timeMins: 55, level: LevelHigh, stability: 32, risk: LevelHigh, delayProbability: 65},
}

// GenerateRoutes строит варианты маршрута между двумя районами и ранжирует их.
// Первый элемент результата — лучший маршрут.
func GenerateRoutes(src, dst *Area) ([]RouteOption, error) {
	if src == nil || dst == nil {
		return nil, ErrRouteEndpointsRequired
	}
	if src.ID == dst.ID {
		return nil, ErrRouteSameEndpoints
	}

	routes := make([]RouteOption, 0, len(routeTemplates))
	for i, t := range routeTemplates {
		routes = append(routes, RouteOption{
			ID:                strconv.Itoa(i + 1),
			Name:              src.Name + " → " + dst.Name + " (via " + t.via + ")",
			DistanceKm:        t.distanceKm,
			EstimatedTimeMins: t.timeMins,
			Level:             t.level,
			StabilityIndex:    t.stability,
			FutureRisk:        t.risk,
			DelayProbability:  t.delayProbability,
		})
	}
	return RankRoutes(routes), nil
}

// DefaultRouteOptions — общегородские варианты (для ассистента и обзорных экранов)
func DefaultRouteOptions() []RouteOption {
	return []RouteOption{
		{ID: "1", Name: "Via Inner Ring Road", DistanceKm: 12.5, EstimatedTimeMins: 35, Level: LevelLow, StabilityIndex: 85, FutureRisk: LevelLow, DelayProbability: 12},
		{ID: "2", Name: "Via OMR Expressway", DistanceKm: 15.2, EstimatedTimeMins: 28, Level: LevelMedium, StabilityIndex: 62, FutureRisk: LevelMedium, DelayProbability: 35},
		{ID: "3", Name: "Via Mount Road", DistanceKm: 10.8, EstimatedTimeMins: 45, Level: LevelHigh, StabilityIndex: 28, FutureRisk: LevelHigh, DelayProbability: 68},
	}
}

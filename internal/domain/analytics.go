package domain

import (
	"math"
	"strconv"
)

// AnalyticsPoint — почасовая статистика по коридору
type AnalyticsPoint struct {
	Hour                int     `json:"hour"`
	AvgSpeed            float64 `json:"avgSpeed"`
	CongestionFrequency float64 `json:"congestionFrequency"` // %
	PredictionAccuracy  float64 `json:"predictionAccuracy"`  // %
}

// Corridor — магистраль, по которой ведётся аналитика
type Corridor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DefaultCorridorID — коридор, который показывается по умолчанию
const DefaultCorridorID = "1"

// порог частоты заторов, выше которого час считается пиковым
const peakCongestionThreshold = 70

// Corridors — демо-коридоры для экрана аналитики
func Corridors() []Corridor {
	return []Corridor{
		{ID: "1", Name: "OMR IT Corridor"},
		{ID: "2", Name: "Inner Ring Road"},
		{ID: "3", Name: "Mount Road (Anna Salai)"},
		{ID: "4", Name: "ECR Coastal Route"},
		{ID: "5", Name: "Guindy Industrial Zone"},
	}
}

// FindCorridor ищет коридор по ID
func FindCorridor(id string) *Corridor {
	for _, c := range Corridors() {
		if c.ID == id {
			c := c
			return &c
		}
	}
	return nil
}

// AnalyticsFixtures — демо-статистика с 6:00 до 22:00
func AnalyticsFixtures() []AnalyticsPoint {
	return []AnalyticsPoint{
		{Hour: 6, AvgSpeed: 45, CongestionFrequency: 15, PredictionAccuracy: 92},
		{Hour: 7, AvgSpeed: 38, CongestionFrequency: 35, PredictionAccuracy: 89},
		{Hour: 8, AvgSpeed: 22, CongestionFrequency: 72, PredictionAccuracy: 85},
		{Hour: 9, AvgSpeed: 18, CongestionFrequency: 85, PredictionAccuracy: 88},
		{Hour: 10, AvgSpeed: 28, CongestionFrequency: 55, PredictionAccuracy: 91},
		{Hour: 11, AvgSpeed: 35, CongestionFrequency: 40, PredictionAccuracy: 90},
		{Hour: 12, AvgSpeed: 32, CongestionFrequency: 48, PredictionAccuracy: 87},
		{Hour: 13, AvgSpeed: 30, CongestionFrequency: 52, PredictionAccuracy: 86},
		{Hour: 14, AvgSpeed: 34, CongestionFrequency: 42, PredictionAccuracy: 89},
		{Hour: 15, AvgSpeed: 28, CongestionFrequency: 58, PredictionAccuracy: 88},
		{Hour: 16, AvgSpeed: 22, CongestionFrequency: 70, PredictionAccuracy: 84},
		{Hour: 17, AvgSpeed: 15, CongestionFrequency: 88, PredictionAccuracy: 82},
		{Hour: 18, AvgSpeed: 12, CongestionFrequency: 95, PredictionAccuracy: 85},
		{Hour: 19, AvgSpeed: 18, CongestionFrequency: 78, PredictionAccuracy: 87},
		{Hour: 20, AvgSpeed: 28, CongestionFrequency: 52, PredictionAccuracy: 90},
		{Hour: 21, AvgSpeed: 38, CongestionFrequency: 30, PredictionAccuracy: 92},
		{Hour: 22, AvgSpeed: 48, CongestionFrequency: 18, PredictionAccuracy: 94},
	}
}

// ChartPoint — точка для графиков скорости/заторов/точности
type ChartPoint struct {
	Time       string  `json:"time"`
	Speed      float64 `json:"speed"`
	Congestion float64 `json:"congestion"`
	Accuracy   float64 `json:"accuracy"`
}

// AnalyticsSummary — сводные карточки + данные для графиков
type AnalyticsSummary struct {
	AvgSpeed      float64      `json:"avgSpeed"`      // 1 знак после запятой
	PeakHours     []string     `json:"peakHours"`     // не больше трёх
	AvgCongestion int          `json:"avgCongestion"` // %
	AvgAccuracy   int          `json:"avgAccuracy"`   // %
	Chart         []ChartPoint `json:"chart"`
}

// SummarizeAnalytics считает средние и пиковые часы
func SummarizeAnalytics(points []AnalyticsPoint) AnalyticsSummary {
	out := AnalyticsSummary{
		PeakHours: []string{},
		Chart:     make([]ChartPoint, 0, len(points)),
	}
	if len(points) == 0 {
		return out
	}

	var speed, congestion, accuracy float64
	for _, p := range points {
		speed += p.AvgSpeed
		congestion += p.CongestionFrequency
		accuracy += p.PredictionAccuracy

		label := hourLabel(p.Hour)
		if p.CongestionFrequency > peakCongestionThreshold && len(out.PeakHours) < 3 {
			out.PeakHours = append(out.PeakHours, label)
		}
		out.Chart = append(out.Chart, ChartPoint{
			Time:       label,
			Speed:      p.AvgSpeed,
			Congestion: p.CongestionFrequency,
			Accuracy:   p.PredictionAccuracy,
		})
	}

	n := float64(len(points))
	out.AvgSpeed = math.Round(speed/n*10) / 10
	out.AvgCongestion = int(math.Round(congestion / n))
	out.AvgAccuracy = int(math.Round(accuracy / n))
	return out
}

func hourLabel(h int) string {
	return strconv.Itoa(h) + ":00"
}

package domain

import (
	"sort"
	"time"
)

// CongestionReading — замер загруженности по району с прогнозами на ближайшие часы
type CongestionReading struct {
	ID              string    `json:"id" yaml:"id"`
	AreaID          string    `json:"areaId" yaml:"area_id"`
	AreaName        string    `json:"areaName" yaml:"area_name"`
	Level           Level     `json:"congestionLevel" yaml:"congestion_level"`
	Prediction10Min Level     `json:"prediction10min,omitempty" yaml:"prediction_10min"`
	Prediction30Min Level     `json:"prediction30min,omitempty" yaml:"prediction_30min"`
	Prediction1Hr   Level     `json:"prediction1hr,omitempty" yaml:"prediction_1hr"`
	Prediction2Hr   Level     `json:"prediction2hr,omitempty" yaml:"prediction_2hr"`
	Prediction3Hr   Level     `json:"prediction3hr,omitempty" yaml:"prediction_3hr"`
	CurrentSpeed    float64   `json:"currentSpeed" yaml:"current_speed"`     // км/ч
	VehicleDensity  float64   `json:"vehicleDensity" yaml:"vehicle_density"` // машин на км
	Reason          string    `json:"reason" yaml:"reason"`
	StabilityIndex  int       `json:"stabilityIndex" yaml:"stability_index"` // 0-100
	RecordedAt      time.Time `json:"recordedAt" yaml:"recorded_at"`
}

// NearTermPrediction — ближайший доступный прогноз: 10 мин, затем 30 мин, затем текущий уровень
func (c CongestionReading) NearTermPrediction() Level {
	if c.Prediction10Min.Valid() {
		return c.Prediction10Min
	}
	if c.Prediction30Min.Valid() {
		return c.Prediction30Min
	}
	return c.Level
}

// IsHotspot — прогноз "high" там, где сейчас ещё не "high"
func (c CongestionReading) IsHotspot() bool {
	return c.NearTermPrediction() == LevelHigh && c.Level != LevelHigh
}

// LatestPerArea оставляет по одному, самому свежему, замеру на район.
// Порядок результата — от свежих к старым, как в выдаче с order by recorded_at desc.
func LatestPerArea(readings []CongestionReading) []CongestionReading {
	sorted := make([]CongestionReading, len(readings))
	copy(sorted, readings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].RecordedAt.After(sorted[j].RecordedAt)
	})

	seen := make(map[string]bool, len(sorted))
	out := make([]CongestionReading, 0, len(sorted))
	for _, r := range sorted {
		key := r.AreaID
		if key == "" {
			key = r.AreaName
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}

// CongestionFixtures — демо-замеры, привязанные к моменту now
func CongestionFixtures(now time.Time) []CongestionReading {
	rows := []CongestionReading{
		{ID: "1", AreaID: "1", AreaName: "T. Nagar", Level: LevelHigh, Prediction30Min: LevelHigh, Prediction1Hr: LevelMedium, Prediction2Hr: LevelMedium, Prediction3Hr: LevelLow, CurrentSpeed: 12, VehicleDensity: 85, Reason: "Peak shopping hours", StabilityIndex: 35},
		{ID: "2", AreaID: "2", AreaName: "Anna Nagar", Level: LevelMedium, Prediction30Min: LevelMedium, Prediction1Hr: LevelHigh, Prediction2Hr: LevelMedium, Prediction3Hr: LevelLow, CurrentSpeed: 28, VehicleDensity: 55, Reason: "School zone traffic", StabilityIndex: 65},
		{ID: "3", AreaID: "3", AreaName: "Velachery", Level: LevelLow, Prediction30Min: LevelMedium, Prediction1Hr: LevelMedium, Prediction2Hr: LevelLow, Prediction3Hr: LevelLow, CurrentSpeed: 42, VehicleDensity: 30, Reason: "Normal traffic flow", StabilityIndex: 82},
		{ID: "4", AreaID: "4", AreaName: "Adyar", Level: LevelMedium, Prediction30Min: LevelHigh, Prediction1Hr: LevelHigh, Prediction2Hr: LevelMedium, Prediction3Hr: LevelMedium, CurrentSpeed: 25, VehicleDensity: 60, Reason: "IT corridor traffic building up", StabilityIndex: 48},
		{ID: "5", AreaID: "5", AreaName: "Guindy", Level: LevelHigh, Prediction30Min: LevelHigh, Prediction1Hr: LevelHigh, Prediction2Hr: LevelHigh, Prediction3Hr: LevelMedium, CurrentSpeed: 8, VehicleDensity: 92, Reason: "Industrial zone peak hours", StabilityIndex: 22},
		{ID: "6", AreaID: "6", AreaName: "Egmore", Level: LevelMedium, Prediction30Min: LevelMedium, Prediction1Hr: LevelLow, Prediction2Hr: LevelLow, Prediction3Hr: LevelLow, CurrentSpeed: 32, VehicleDensity: 48, Reason: "Station area moderate traffic", StabilityIndex: 71},
		{ID: "7", AreaID: "7", AreaName: "Mylapore", Level: LevelLow, Prediction30Min: LevelLow, Prediction1Hr: LevelMedium, Prediction2Hr: LevelLow, Prediction3Hr: LevelLow, CurrentSpeed: 45, VehicleDensity: 25, Reason: "Clear roads", StabilityIndex: 88},
		{ID: "8", AreaID: "8", AreaName: "Tambaram", Level: LevelMedium, Prediction30Min: LevelHigh, Prediction1Hr: LevelHigh, Prediction2Hr: LevelMedium, Prediction3Hr: LevelLow, CurrentSpeed: 22, VehicleDensity: 62, Reason: "Suburban rush hour approaching", StabilityIndex: 45},
		{ID: "9", AreaID: "9", AreaName: "Porur", Level: LevelHigh, Prediction30Min: LevelHigh, Prediction1Hr: LevelMedium, Prediction2Hr: LevelMedium, Prediction3Hr: LevelLow, CurrentSpeed: 15, VehicleDensity: 78, Reason: "Junction congestion", StabilityIndex: 28},
		{ID: "10", AreaID: "10", AreaName: "Perungudi", Level: LevelMedium, Prediction30Min: LevelMedium, Prediction1Hr: LevelHigh, Prediction2Hr: LevelMedium, Prediction3Hr: LevelLow, CurrentSpeed: 30, VehicleDensity: 52, Reason: "IT park exit traffic", StabilityIndex: 55},
		{ID: "11", AreaID: "11", AreaName: "OMR", Level: LevelHigh, Prediction30Min: LevelHigh, Prediction1Hr: LevelHigh, Prediction2Hr: LevelHigh, Prediction3Hr: LevelMedium, CurrentSpeed: 10, VehicleDensity: 88, Reason: "IT corridor heavy traffic", StabilityIndex: 18},
		{ID: "12", AreaID: "12", AreaName: "ECR", Level: LevelLow, Prediction30Min: LevelLow, Prediction1Hr: LevelLow, Prediction2Hr: LevelMedium, Prediction3Hr: LevelMedium, CurrentSpeed: 55, VehicleDensity: 20, Reason: "Coastal route clear", StabilityIndex: 92},
	}
	for i := range rows {
		rows[i].RecordedAt = now
	}
	return rows
}

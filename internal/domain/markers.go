package domain

// MapMarker — точка на карте дорожной службы
type MapMarker struct {
	ID         string  `json:"id"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	Name       string  `json:"name"`
	Level      Level   `json:"congestionLevel"`
	IsHotspot  bool    `json:"isHotspot"`
	Speed      float64 `json:"speed,omitempty"`
	Density    float64 `json:"density,omitempty"`
	Prediction Level   `json:"prediction,omitempty"`
	Reason     string  `json:"reason,omitempty"`
}

// Markers строит маркеры по свежим замерам: один маркер на район
func Markers(readings []CongestionReading, areas []Area) []MapMarker {
	latest := LatestPerArea(readings)
	out := make([]MapMarker, 0, len(latest))
	for _, r := range latest {
		m := MapMarker{
			ID:         r.AreaID,
			Lat:        CityCenterLat,
			Lng:        CityCenterLng,
			Name:       r.AreaName,
			Level:      r.Level,
			IsHotspot:  r.IsHotspot(),
			Speed:      r.CurrentSpeed,
			Density:    r.VehicleDensity,
			Prediction: r.NearTermPrediction(),
			Reason:     r.Reason,
		}
		if a := FindArea(areas, r.AreaID); a != nil {
			m.Lat = a.Latitude
			m.Lng = a.Longitude
			if m.Name == "" {
				m.Name = a.Name
			}
		}
		if m.ID == "" {
			m.ID = r.ID
		}
		out = append(out, m)
	}
	return out
}

// Hotspots — районы, где ожидается рост до high
func Hotspots(markers []MapMarker) []MapMarker {
	out := make([]MapMarker, 0)
	for _, m := range markers {
		if m.IsHotspot {
			out = append(out, m)
		}
	}
	return out
}

// HighCongestion — районы, где уже high
func HighCongestion(markers []MapMarker) []MapMarker {
	out := make([]MapMarker, 0)
	for _, m := range markers {
		if m.Level == LevelHigh {
			out = append(out, m)
		}
	}
	return out
}

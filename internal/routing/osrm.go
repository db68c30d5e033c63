// Package routing — дорожная геометрия маршрута через OSRM.
package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Point — точка полилинии маршрута
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Geometry — расстояние по дорогам и линия для карты
type Geometry struct {
	DistanceKm float64 `json:"distanceKm"`
	Points     []Point `json:"points"`
}

type osrmRouteResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"` // метры
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}

// OSRM — клиент /route/v1/driving
type OSRM struct {
	baseURL string
	http    *http.Client
}

func NewOSRM(baseURL string, timeout time.Duration) *OSRM {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &OSRM{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Route — маршрут между двумя точками (lat/lon)
func (o *OSRM) Route(ctx context.Context, lat1, lon1, lat2, lon2 float64) (Geometry, error) {
	u, err := url.Parse(o.baseURL + "/route/v1/driving/")
	if err != nil {
		return Geometry{}, fmt.Errorf("bad osrm base url: %w", err)
	}

	// OSRM ожидает lon,lat
	u.Path += fmt.Sprintf("%f,%f;%f,%f", lon1, lat1, lon2, lat2)
	q := u.Query()
	q.Set("overview", "full")
	q.Set("geometries", "geojson")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Geometry{}, fmt.Errorf("build osrm request: %w", err)
	}
	resp, err := o.http.Do(req)
	if err != nil {
		return Geometry{}, fmt.Errorf("osrm request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Geometry{}, fmt.Errorf("osrm status: %s", resp.Status)
	}

	var data osrmRouteResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return Geometry{}, fmt.Errorf("decode osrm: %w", err)
	}
	if data.Code != "" && data.Code != "Ok" {
		return Geometry{}, fmt.Errorf("osrm code: %s", data.Code)
	}
	if len(data.Routes) == 0 {
		return Geometry{}, fmt.Errorf("osrm: no routes")
	}

	points := make([]Point, 0, len(data.Routes[0].Geometry.Coordinates))
	for _, c := range data.Routes[0].Geometry.Coordinates {
		if len(c) < 2 {
			continue
		}
		// [lon, lat] -> {lat, lon}
		points = append(points, Point{Lat: c[1], Lon: c[0]})
	}

	return Geometry{DistanceKm: data.Routes[0].Distance / 1000, Points: points}, nil
}

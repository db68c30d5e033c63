package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkers_FixtureHotspots(t *testing.T) {
	markers := Markers(CongestionFixtures(time.Now()), Areas())
	require.Len(t, markers, 12)

	names := func(ms []MapMarker) []string {
		out := make([]string, 0, len(ms))
		for _, m := range ms {
			out = append(out, m.Name)
		}
		return out
	}

	// прогноз на 30 минут high, а сейчас ещё нет
	assert.ElementsMatch(t, []string{"Adyar", "Tambaram"}, names(Hotspots(markers)))
	assert.ElementsMatch(t, []string{"T. Nagar", "Guindy", "Porur", "OMR"}, names(HighCongestion(markers)))
}

func TestMarkers_LatestReadingWins(t *testing.T) {
	now := time.Now()
	readings := []CongestionReading{
		{ID: "old", AreaID: "4", AreaName: "Adyar", Level: LevelLow, RecordedAt: now.Add(-time.Hour)},
		{ID: "new", AreaID: "4", AreaName: "Adyar", Level: LevelMedium, Prediction10Min: LevelHigh, RecordedAt: now},
	}

	markers := Markers(readings, Areas())

	require.Len(t, markers, 1)
	assert.Equal(t, LevelMedium, markers[0].Level)
	assert.True(t, markers[0].IsHotspot)
	assert.Equal(t, LevelHigh, markers[0].Prediction)
	assert.InDelta(t, 13.0012, markers[0].Lat, 1e-9)
}

func TestMarkers_UnknownAreaUsesCityCenter(t *testing.T) {
	markers := Markers([]CongestionReading{{ID: "x", AreaID: "99", AreaName: "Nowhere", Level: LevelLow}}, Areas())

	require.Len(t, markers, 1)
	assert.Equal(t, CityCenterLat, markers[0].Lat)
	assert.Equal(t, CityCenterLng, markers[0].Lng)
}

func TestNearTermPrediction_Fallbacks(t *testing.T) {
	assert.Equal(t, LevelHigh, CongestionReading{Level: LevelLow, Prediction10Min: LevelHigh, Prediction30Min: LevelLow}.NearTermPrediction())
	assert.Equal(t, LevelMedium, CongestionReading{Level: LevelLow, Prediction30Min: LevelMedium}.NearTermPrediction())
	assert.Equal(t, LevelLow, CongestionReading{Level: LevelLow}.NearTermPrediction())
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel(" HIGH ")
	require.NoError(t, err)
	assert.Equal(t, LevelHigh, l)
	assert.Equal(t, 3, l.Rank())

	_, err = ParseLevel("gridlock")
	assert.Error(t, err)
}

func TestNavigation(t *testing.T) {
	assert.Equal(t, "/authority/map", HomePath(RoleAuthority))
	assert.Equal(t, "/citizen/congestion", HomePath(RoleCitizen))
	assert.Equal(t, "AI Helper", NavLinks(RoleAuthority)[3].Label)
	assert.Equal(t, "Congestion", NavLinks(RoleCitizen)[0].Label)
}

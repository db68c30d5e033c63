package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouteScore(t *testing.T) {
	tests := []struct {
		name  string
		route RouteOption
		want  float64
	}{
		{"stable route", RouteOption{EstimatedTimeMins: 35, StabilityIndex: 85}, 5.25},
		{"unstable route", RouteOption{EstimatedTimeMins: 55, StabilityIndex: 32}, 37.4},
		{"zero stability", RouteOption{EstimatedTimeMins: 20, StabilityIndex: 0}, 20},
		{"fully stable", RouteOption{EstimatedTimeMins: 20, StabilityIndex: 100}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, RouteScore(tt.route), 1e-9)
		})
	}
}

func TestRankRoutes_DoesNotMutateInput(t *testing.T) {
	in := DefaultRouteOptions()
	firstID := in[0].ID

	ranked := RankRoutes(in)

	require.Len(t, ranked, len(in))
	assert.Equal(t, firstID, in[0].ID)
	for i := 1; i < len(ranked); i++ {
		assert.LessOrEqual(t, RouteScore(ranked[i-1]), RouteScore(ranked[i]))
	}
}

func TestRankRoutes_KeepsOrderOnTies(t *testing.T) {
	in := []RouteOption{
		{ID: "a", EstimatedTimeMins: 10, StabilityIndex: 50},
		{ID: "b", EstimatedTimeMins: 10, StabilityIndex: 50},
		{ID: "c", EstimatedTimeMins: 1, StabilityIndex: 0},
	}

	ranked := RankRoutes(in)

	assert.Equal(t, []string{"c", "a", "b"}, []string{ranked[0].ID, ranked[1].ID, ranked[2].ID})
}

func TestGenerateRoutes(t *testing.T) {
	areas := Areas()
	src := FindArea(areas, "1")
	dst := FindArea(areas, "5")

	routes, err := GenerateRoutes(src, dst)
	require.NoError(t, err)
	require.Len(t, routes, 4)

	// Inner Ring Road: 35*(1-0.85)=5.25, Expressway: 28*0.28=7.84,
	// Main Road: 42*0.42=17.64, City Center: 55*0.68=37.4
	assert.Equal(t, "T. Nagar → Guindy (via Inner Ring Road)", routes[0].Name)
	assert.Equal(t, "T. Nagar → Guindy (via Expressway)", routes[1].Name)
	assert.Equal(t, "T. Nagar → Guindy (via Main Road)", routes[2].Name)
	assert.Equal(t, "T. Nagar → Guindy (via City Center)", routes[3].Name)
	assert.Equal(t, LevelHigh, routes[3].FutureRisk)
}

func TestGenerateRoutes_Errors(t *testing.T) {
	areas := Areas()

	_, err := GenerateRoutes(nil, FindArea(areas, "2"))
	assert.ErrorIs(t, err, ErrRouteEndpointsRequired)

	_, err = GenerateRoutes(FindArea(areas, "2"), FindArea(areas, "2"))
	assert.ErrorIs(t, err, ErrRouteSameEndpoints)
}

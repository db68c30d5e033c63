package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeAnalytics_Fixtures(t *testing.T) {
	sum := SummarizeAnalytics(AnalyticsFixtures())

	assert.InDelta(t, 28.9, sum.AvgSpeed, 1e-9)
	assert.Equal(t, 55, sum.AvgCongestion)
	assert.Equal(t, 88, sum.AvgAccuracy)
	// 16:00 ровно 70 — не пик
	assert.Equal(t, []string{"8:00", "9:00", "17:00"}, sum.PeakHours)

	require.Len(t, sum.Chart, 17)
	assert.Equal(t, ChartPoint{Time: "6:00", Speed: 45, Congestion: 15, Accuracy: 92}, sum.Chart[0])
}

func TestSummarizeAnalytics_Empty(t *testing.T) {
	sum := SummarizeAnalytics(nil)

	assert.Equal(t, 0.0, sum.AvgSpeed)
	assert.NotNil(t, sum.PeakHours)
	assert.Empty(t, sum.Chart)
}

func TestFindCorridor(t *testing.T) {
	c := FindCorridor("3")
	require.NotNil(t, c)
	assert.Equal(t, "Mount Road (Anna Salai)", c.Name)

	assert.Nil(t, FindCorridor("42"))
}

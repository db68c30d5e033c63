package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketFor(t *testing.T) {
	tests := []struct {
		index int
		want  StabilityBucket
		label string
	}{
		{100, BucketReliable, "Reliable"},
		{70, BucketReliable, "Reliable"},
		{69, BucketVariable, "Variable"},
		{40, BucketVariable, "Variable"},
		{39, BucketAvoid, "Avoid"},
		{0, BucketAvoid, "Avoid"},
	}

	for _, tt := range tests {
		got := BucketFor(tt.index)
		assert.Equal(t, tt.want, got, "index %d", tt.index)
		assert.Equal(t, tt.label, got.Label())
	}
}

func TestTrend(t *testing.T) {
	assert.Equal(t, TrendWorsening, Trend(LevelLow, LevelHigh))
	assert.Equal(t, TrendImproving, Trend(LevelHigh, LevelMedium))
	assert.Equal(t, TrendStable, Trend(LevelMedium, LevelMedium))
}

func TestStabilityReport_Fixtures(t *testing.T) {
	report := StabilityReport(CongestionFixtures(time.Now()))

	require.Len(t, report.Entries, 12)
	assert.Equal(t, "ECR", report.Entries[0].AreaName)
	assert.Equal(t, 1, report.Entries[0].Rank)
	assert.Equal(t, "OMR", report.Entries[11].AreaName)

	// ECR 92, Mylapore 88, Velachery 82, Egmore 71
	assert.Len(t, report.Reliable, 4)
	// Anna Nagar 65, Perungudi 55, Adyar 48, Tambaram 45
	assert.Len(t, report.Variable, 4)
	// T. Nagar 35, Porur 28, Guindy 22, OMR 18
	assert.Len(t, report.Avoid, 4)

	// (35+65+82+48+22+71+88+45+28+55+18+92)/12 = 54.08
	assert.Equal(t, 54, report.AvgStability)
}

func TestStabilityReport_TrendUsesOneHourPrediction(t *testing.T) {
	report := StabilityReport([]CongestionReading{
		{AreaName: "A", Level: LevelMedium, Prediction1Hr: LevelHigh, StabilityIndex: 50},
		{AreaName: "B", Level: LevelHigh, StabilityIndex: 10},
	})

	require.Len(t, report.Entries, 2)
	assert.Equal(t, TrendWorsening, report.Entries[0].Trend)
	// без прогноза тренд считается стабильным
	assert.Equal(t, TrendStable, report.Entries[1].Trend)
}

func TestStabilityReport_Empty(t *testing.T) {
	report := StabilityReport(nil)

	assert.Empty(t, report.Entries)
	assert.Equal(t, 0, report.AvgStability)
}

package live

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"traffic-dashboard-backend/internal/apperr"
	"traffic-dashboard-backend/internal/domain"
	"traffic-dashboard-backend/internal/store"
)

type recorder struct {
	mu        sync.Mutex
	published []domain.CongestionReading
	alerts    []domain.CongestionReading
}

func (r *recorder) Publish(c domain.CongestionReading) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.published = append(r.published, c)
}

func (r *recorder) NotifyHotspot(c domain.CongestionReading) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, c)
}

func TestIngest_NewHotspotTriggersAlert(t *testing.T) {
	st := store.NewMemoryStore()
	rec := &recorder{}
	in := NewIngestor(st, rec, rec, nil)

	saved, err := in.Ingest(context.Background(), domain.CongestionReading{
		AreaID:          "3",
		AreaName:        "ignored",
		Level:           domain.LevelLow,
		Prediction10Min: domain.LevelHigh,
		CurrentSpeed:    40,
		StabilityIndex:  80,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, "Velachery", saved.AreaName)
	assert.False(t, saved.RecordedAt.IsZero())
	require.Len(t, rec.published, 1)
	require.Len(t, rec.alerts, 1)
	assert.Equal(t, "Velachery", rec.alerts[0].AreaName)

	latest, err := st.LatestCongestion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, saved.ID, latest[0].ID)
}

func TestIngest_ExistingHotspotDoesNotRepeatAlert(t *testing.T) {
	rec := &recorder{}
	in := NewIngestor(store.NewMemoryStore(), rec, rec, nil)

	// в демо-данных Adyar уже горячая точка
	_, err := in.Ingest(context.Background(), domain.CongestionReading{
		AreaID:          "4",
		Level:           domain.LevelMedium,
		Prediction10Min: domain.LevelHigh,
	})
	require.NoError(t, err)

	assert.Len(t, rec.published, 1)
	assert.Empty(t, rec.alerts)
}

func TestIngest_Validation(t *testing.T) {
	in := NewIngestor(store.NewMemoryStore(), nil, nil, nil)

	tests := []struct {
		name string
		r    domain.CongestionReading
		code apperr.Code
	}{
		{"missing area", domain.CongestionReading{Level: domain.LevelLow}, apperr.CodeInvalidInput},
		{"bad level", domain.CongestionReading{AreaID: "1", Level: "gridlock"}, apperr.CodeInvalidInput},
		{"bad prediction", domain.CongestionReading{AreaID: "1", Level: domain.LevelLow, Prediction1Hr: "soon"}, apperr.CodeInvalidInput},
		{"stability out of range", domain.CongestionReading{AreaID: "1", Level: domain.LevelLow, StabilityIndex: 101}, apperr.CodeInvalidInput},
		{"negative speed", domain.CongestionReading{AreaID: "1", Level: domain.LevelLow, CurrentSpeed: -1}, apperr.CodeInvalidInput},
		{"unknown area", domain.CongestionReading{AreaID: "99", Level: domain.LevelLow}, apperr.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := in.Ingest(context.Background(), tt.r)
			require.Error(t, err)
			assert.Equal(t, tt.code, apperr.CodeOf(err))
		})
	}
}

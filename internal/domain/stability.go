package domain

import (
	"math"
	"sort"
)

// StabilityBucket — группа района по индексу стабильности
type StabilityBucket string

const (
	BucketReliable StabilityBucket = "reliable" // >= 70
	BucketVariable StabilityBucket = "variable" // 40..69
	BucketAvoid    StabilityBucket = "avoid"    // < 40
)

// BucketFor раскладывает индекс по группам
func BucketFor(index int) StabilityBucket {
	switch {
	case index >= 70:
		return BucketReliable
	case index >= 40:
		return BucketVariable
	default:
		return BucketAvoid
	}
}

// Label — подпись группы для экрана
func (b StabilityBucket) Label() string {
	switch b {
	case BucketReliable:
		return "Reliable"
	case BucketVariable:
		return "Variable"
	default:
		return "Avoid"
	}
}

// TrendDirection — куда движется загруженность через час
type TrendDirection string

const (
	TrendWorsening TrendDirection = "worsening"
	TrendImproving TrendDirection = "improving"
	TrendStable    TrendDirection = "stable"
)

// Trend сравнивает текущий уровень с прогнозом на час
func Trend(current, prediction Level) TrendDirection {
	diff := prediction.Rank() - current.Rank()
	switch {
	case diff > 0:
		return TrendWorsening
	case diff < 0:
		return TrendImproving
	default:
		return TrendStable
	}
}

// StabilityEntry — строка рейтинга стабильности
type StabilityEntry struct {
	Rank           int               `json:"rank"`
	AreaID         string            `json:"areaId"`
	AreaName       string            `json:"areaName"`
	StabilityIndex int               `json:"stabilityIndex"`
	Bucket         StabilityBucket   `json:"bucket"`
	BucketLabel    string            `json:"bucketLabel"`
	Level          Level             `json:"congestionLevel"`
	Prediction1Hr  Level             `json:"prediction1hr"`
	Trend          TrendDirection    `json:"trend"`
	Reading        CongestionReading `json:"-"`
}

// StabilitySummary — сводка по стабильности для экрана граждан
type StabilitySummary struct {
	Entries      []StabilityEntry `json:"entries"`
	Reliable     []StabilityEntry `json:"reliable"`
	Variable     []StabilityEntry `json:"variable"`
	Avoid        []StabilityEntry `json:"avoid"`
	AvgStability int              `json:"avgStability"`
}

// StabilityReport сортирует районы по индексу (по убыванию) и раскладывает по группам
func StabilityReport(readings []CongestionReading) StabilitySummary {
	sorted := make([]CongestionReading, len(readings))
	copy(sorted, readings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StabilityIndex > sorted[j].StabilityIndex
	})

	sum := StabilitySummary{
		Entries:  make([]StabilityEntry, 0, len(sorted)),
		Reliable: []StabilityEntry{},
		Variable: []StabilityEntry{},
		Avoid:    []StabilityEntry{},
	}
	total := 0
	for i, r := range sorted {
		prediction := r.Prediction1Hr
		if !prediction.Valid() {
			prediction = r.Level
		}
		b := BucketFor(r.StabilityIndex)
		e := StabilityEntry{
			Rank:           i + 1,
			AreaID:         r.AreaID,
			AreaName:       r.AreaName,
			StabilityIndex: r.StabilityIndex,
			Bucket:         b,
			BucketLabel:    b.Label(),
			Level:          r.Level,
			Prediction1Hr:  prediction,
			Trend:          Trend(r.Level, prediction),
			Reading:        r,
		}
		sum.Entries = append(sum.Entries, e)
		switch b {
		case BucketReliable:
			sum.Reliable = append(sum.Reliable, e)
		case BucketVariable:
			sum.Variable = append(sum.Variable, e)
		default:
			sum.Avoid = append(sum.Avoid, e)
		}
		total += r.StabilityIndex
	}
	if len(sorted) > 0 {
		sum.AvgStability = int(math.Round(float64(total) / float64(len(sorted))))
	}
	return sum
}

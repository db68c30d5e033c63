package domain

import (
	"fmt"
	"strings"
)

// Level — уровень загруженности дорог в районе
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// ParseLevel разбирает строку уровня (регистр не важен)
func ParseLevel(s string) (Level, error) {
	switch Level(strings.ToLower(strings.TrimSpace(s))) {
	case LevelLow:
		return LevelLow, nil
	case LevelMedium:
		return LevelMedium, nil
	case LevelHigh:
		return LevelHigh, nil
	default:
		return "", fmt.Errorf("unknown congestion level %q", s)
	}
}

// Valid — true для low / medium / high
func (l Level) Valid() bool {
	return l == LevelLow || l == LevelMedium || l == LevelHigh
}

// Rank: low=1, medium=2, high=3, неизвестный уровень = 0
func (l Level) Rank() int {
	switch l {
	case LevelLow:
		return 1
	case LevelMedium:
		return 2
	case LevelHigh:
		return 3
	default:
		return 0
	}
}

// Label — подпись для бейджа
func (l Level) Label() string {
	switch l {
	case LevelLow:
		return "Low"
	case LevelMedium:
		return "Medium"
	case LevelHigh:
		return "High"
	default:
		return "Unknown"
	}
}

// Multiplier — множитель для калькулятора потерь
func (l Level) Multiplier() float64 {
	switch l {
	case LevelHigh:
		return 1.5
	case LevelMedium:
		return 1.0
	default:
		return 0.5
	}
}

package domain

import (
	"fmt"
	"math"
	"time"
)

// CostFactors — коэффициенты калькулятора потерь от заторов (демо-значения)
type CostFactors struct {
	FuelCostPerLiter  float64 `json:"fuelCostPerLiter"`  // INR
	IdleFuelPerHour   float64 `json:"idleFuelPerHour"`   // литров в час на холостом ходу
	AvgHourlyWage     float64 `json:"avgHourlyWage"`     // INR
	CO2PerLiter       float64 `json:"co2PerLiter"`       // кг CO2 на литр бензина
	CO2PerTreePerYear float64 `json:"co2PerTreePerYear"` // кг CO2, которые поглощает одно дерево
	DaysPerMonth      int     `json:"daysPerMonth"`
	DaysPerYear       int     `json:"daysPerYear"`
}

// NewDefaultCostFactors — коэффициенты по умолчанию
func NewDefaultCostFactors() CostFactors {
	return CostFactors{
		FuelCostPerLiter:  105,
		IdleFuelPerHour:   0.8,
		AvgHourlyWage:     250,
		CO2PerLiter:       2.31,
		CO2PerTreePerYear: 21,
		DaysPerMonth:      30,
		DaysPerYear:       365,
	}
}

// CostInput — входные параметры калькулятора
type CostInput struct {
	Vehicles     int   `json:"vehicles"`
	AvgDelayMins int   `json:"avgDelayMins"`
	Level        Level `json:"congestionLevel"`
}

// Normalize: отрицательные значения считаем нулём, неизвестный уровень — medium
func (in CostInput) Normalize() CostInput {
	if in.Vehicles < 0 {
		in.Vehicles = 0
	}
	if in.AvgDelayMins < 0 {
		in.AvgDelayMins = 0
	}
	if !in.Level.Valid() {
		in.Level = LevelMedium
	}
	return in
}

// CostEstimate — результат расчёта экономических потерь
type CostEstimate struct {
	Input         CostInput  `json:"input"`
	Multiplier    float64    `json:"multiplier"`
	FuelWastedL   float64    `json:"fuelWastedLiters"`
	FuelCost      float64    `json:"fuelCost"`
	TimeLostMins  float64    `json:"timeLostMins"`
	TimeCost      float64    `json:"timeCost"`
	CarbonKg      float64    `json:"carbonKg"`
	TotalCost     float64    `json:"totalCost"`
	DailyCost     float64    `json:"dailyCost"`
	MonthlyCost   float64    `json:"monthlyCost"`
	YearlyCost    float64    `json:"yearlyCost"`
	TreesToOffset int        `json:"treesToOffset"`
	TreesYearly   int        `json:"treesYearly"`
	Formatted     CostLabels `json:"formatted"`
}

// CostLabels — готовые подписи для карточек
type CostLabels struct {
	FuelWasted string `json:"fuelWasted"`
	FuelCost   string `json:"fuelCost"`
	TimeLost   string `json:"timeLost"`
	TimeCost   string `json:"timeCost"`
	Carbon     string `json:"carbon"`
	Total      string `json:"total"`
	Monthly    string `json:"monthly"`
	Yearly     string `json:"yearly"`
}

// EstimateCost считает потери топлива, времени и выбросы
func EstimateCost(f CostFactors, in CostInput) CostEstimate {
	in = in.Normalize()

	vehicles := float64(in.Vehicles)
	delayMins := float64(in.AvgDelayMins)
	delayHours := delayMins / 60
	mult := in.Level.Multiplier()

	fuel := vehicles * delayHours * f.IdleFuelPerHour * mult
	fuelCost := fuel * f.FuelCostPerLiter
	timeLost := vehicles * delayMins
	timeCost := vehicles * delayHours * f.AvgHourlyWage
	carbon := fuel * f.CO2PerLiter
	total := fuelCost + timeCost

	est := CostEstimate{
		Input:        in,
		Multiplier:   mult,
		FuelWastedL:  fuel,
		FuelCost:     fuelCost,
		TimeLostMins: timeLost,
		TimeCost:     timeCost,
		CarbonKg:     carbon,
		TotalCost:    total,
		DailyCost:    total,
		MonthlyCost:  total * float64(f.DaysPerMonth),
		YearlyCost:   total * float64(f.DaysPerYear),
	}
	if f.CO2PerTreePerYear > 0 {
		est.TreesToOffset = int(math.Round(carbon / f.CO2PerTreePerYear))
		est.TreesYearly = int(math.Round(carbon * float64(f.DaysPerYear) / f.CO2PerTreePerYear))
	}

	est.Formatted = CostLabels{
		FuelWasted: FormatCount(fuel) + " L",
		FuelCost:   FormatINR(fuelCost),
		TimeLost:   FormatCount(timeLost) + " min",
		TimeCost:   FormatINR(timeCost),
		Carbon:     FormatCount(carbon) + " kg",
		Total:      FormatINR(total),
		Monthly:    FormatINR(est.MonthlyCost),
		Yearly:     FormatINR(est.YearlyCost),
	}
	return est
}

// FormatINR — сумма в рупиях с индийскими единицами (крор, лакх, тысяча)
func FormatINR(v float64) string {
	switch {
	case v >= 10000000:
		return fmt.Sprintf("₹%.2f Cr", v/10000000)
	case v >= 100000:
		return fmt.Sprintf("₹%.2f L", v/100000)
	case v >= 1000:
		return fmt.Sprintf("₹%.2f K", v/1000)
	default:
		return fmt.Sprintf("₹%.2f", v)
	}
}

// FormatCount — короткая запись больших чисел
func FormatCount(v float64) string {
	switch {
	case v >= 1000000:
		return fmt.Sprintf("%.2fM", v/1000000)
	case v >= 1000:
		return fmt.Sprintf("%.1fK", v/1000)
	default:
		return fmt.Sprintf("%.1f", v)
	}
}

// CostScenario — сохранённый расчёт (чтобы сотрудник мог вернуться к нему позже)
type CostScenario struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Name      string    `json:"name"`
	Input     CostInput `json:"input"`
	TotalCost float64   `json:"totalCost"`
	CreatedAt time.Time `json:"createdAt"`
}

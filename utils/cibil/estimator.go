// Package cibil estimates an illustrative CIBIL score from credit utilization.
// It is a what-if aid for the dashboard, not a bureau computation.
package cibil

import "math"

const (
	BaselineScore = 750
	MinScore      = 300
	MaxScore      = 900
)

// Band is one row of the utilization table. A band applies when the
// utilization is strictly greater than Above.
type Band struct {
	Label      string
	Above      float64
	Adjustment int
}

// Bands is checked most restrictive first; the first match wins.
var Bands = []Band{
	{Label: "very_high", Above: 90, Adjustment: -100},
	{Label: "high", Above: 70, Adjustment: -75},
	{Label: "elevated", Above: 50, Adjustment: -50},
	{Label: "moderate", Above: 30, Adjustment: -25},
}

// Healthy applies at or below 30% utilization.
var Healthy = Band{Label: "healthy", Adjustment: 20}

type Estimate struct {
	Utilization float64
	Score       int
	Adjustment  int
	Band        string
}

// ClampUtilization forces a percentage into [0,100]. NaN counts as 0.
func ClampUtilization(u float64) float64 {
	switch {
	case math.IsNaN(u), u < 0:
		return 0
	case u > 100:
		return 100
	}
	return u
}

// RatioToPercent converts a 0..1 utilization ratio, as the analysis API
// reports it, into a percentage.
func RatioToPercent(ratio float64) float64 {
	return ratio * 100
}

// Classify returns the band for a (clamped) utilization percentage.
func Classify(u float64) Band {
	u = ClampUtilization(u)
	for _, b := range Bands {
		if u > b.Above {
			return b
		}
	}
	return Healthy
}

// Evaluate clamps u, picks its band and applies the adjustment to the baseline.
func Evaluate(u float64) Estimate {
	u = ClampUtilization(u)
	band := Classify(u)

	return Estimate{
		Utilization: u,
		Score:       clampScore(BaselineScore + band.Adjustment),
		Adjustment:  band.Adjustment,
		Band:        band.Label,
	}
}

// EstimateScore maps a utilization percentage to a score in [300,900].
func EstimateScore(u float64) int {
	return Evaluate(u).Score
}

func clampScore(score int) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}

// Package kpi stores key performance indicators and scores them against
// their targets.
package kpi

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerdash/internal/model"
)

// Band is a coarse rating of how close a KPI is to its target.
type Band string

const (
	BandGood    Band = "good"
	BandWarning Band = "warning"
	BandPoor    Band = "poor"
)

var (
	hundred      = decimal.NewFromInt(100)
	warningFloor = decimal.NewFromInt(75)
)

// ratio returns value/target as a percentage, or 0 for a zero target.
func ratio(value, target decimal.Decimal) decimal.Decimal {
	if target.IsZero() {
		return decimal.Zero
	}
	return value.Div(target).Mul(hundred)
}

// Performance is value as a percentage of target, capped at 100.
func Performance(value, target decimal.Decimal) decimal.Decimal {
	return decimal.Min(ratio(value, target), hundred)
}

// BandFor rates a KPI: good at or above target, warning from 75% of it,
// poor below that.
func BandFor(value, target decimal.Decimal) Band {
	pct := ratio(value, target)
	switch {
	case pct.GreaterThanOrEqual(hundred):
		return BandGood
	case pct.GreaterThanOrEqual(warningFloor):
		return BandWarning
	default:
		return BandPoor
	}
}

// OnTarget reports whether the KPI value has reached its target.
func OnTarget(k model.KPI) bool {
	return k.Value.GreaterThanOrEqual(k.Target)
}

// Variance is (value - target) / target as a percentage, rounded to one
// decimal. A zero target has zero variance.
func Variance(k model.KPI) decimal.Decimal {
	if k.Target.IsZero() {
		return decimal.Zero
	}
	return k.Value.Sub(k.Target).Div(k.Target).Mul(hundred).Round(1)
}

// Summary counts KPIs against their targets.
type Summary struct {
	OnTarget    int `json:"onTarget"`
	TrendingUp  int `json:"trendingUp"`
	BelowTarget int `json:"belowTarget"`
}

// Summarize tallies kpis.
func Summarize(kpis []model.KPI) Summary {
	var s Summary
	for _, k := range kpis {
		if OnTarget(k) {
			s.OnTarget++
		} else {
			s.BelowTarget++
		}
		if k.Trend == model.TrendUp {
			s.TrendingUp++
		}
	}
	return s
}

// Find returns the KPI with the given id.
func Find(kpis []model.KPI, id string) (model.KPI, bool) {
	for _, k := range kpis {
		if k.ID == id {
			return k, true
		}
	}
	return model.KPI{}, false
}

package model

import "github.com/shopspring/decimal"

// Trend is the direction a KPI has been moving.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// Valid reports whether t is a known trend.
func (t Trend) Valid() bool {
	return t == TrendUp || t == TrendDown || t == TrendStable
}

// KPI is a named metric with a current value and a target.
type KPI struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Value    decimal.Decimal `json:"value"`
	Target   decimal.Decimal `json:"target"`
	Unit     string          `json:"unit"`
	Trend    Trend           `json:"trend"`
	Change   decimal.Decimal `json:"change"` // percent change over the last period
	Category string          `json:"category"`
}

// KPIPatch holds the fields to change on a KPI.
type KPIPatch struct {
	Name     *string          `json:"name,omitempty"`
	Value    *decimal.Decimal `json:"value,omitempty"`
	Target   *decimal.Decimal `json:"target,omitempty"`
	Unit     *string          `json:"unit,omitempty"`
	Trend    *Trend           `json:"trend,omitempty"`
	Change   *decimal.Decimal `json:"change,omitempty"`
	Category *string          `json:"category,omitempty"`
}

// Apply returns a copy of k with the non-nil patch fields merged in.
func (p KPIPatch) Apply(k KPI) KPI {
	if p.Name != nil {
		k.Name = *p.Name
	}
	if p.Value != nil {
		k.Value = *p.Value
	}
	if p.Target != nil {
		k.Target = *p.Target
	}
	if p.Unit != nil {
		k.Unit = *p.Unit
	}
	if p.Trend != nil {
		k.Trend = *p.Trend
	}
	if p.Change != nil {
		k.Change = *p.Change
	}
	if p.Category != nil {
		k.Category = *p.Category
	}
	return k
}

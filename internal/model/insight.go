package model

import "time"

// InsightType classifies a canned insight.
type InsightType string

const (
	InsightWarning        InsightType = "warning"
	InsightOpportunity    InsightType = "opportunity"
	InsightRecommendation InsightType = "recommendation"
)

// Priority ranks an insight.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Insight is a canned advisory text block shown on the dashboard.
type Insight struct {
	ID          string      `json:"id" yaml:"id"`
	Title       string      `json:"title" yaml:"title"`
	Description string      `json:"description" yaml:"description"`
	Type        InsightType `json:"type" yaml:"type"`
	Priority    Priority    `json:"priority" yaml:"priority"`
	Category    string      `json:"category" yaml:"category"`
	Created     time.Time   `json:"created" yaml:"created"`
}

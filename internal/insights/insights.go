// Package insights serves the canned advisory text shown on the dashboard.
// A workbook may replace the built-in list with its own insights.yaml.
package insights

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/ledgerdash/internal/model"
)

// File is the optional override path relative to the workbook root.
const File = "insights.yaml"

// CategoryAll disables category filtering in Filter.
const CategoryAll = "All"

type document struct {
	Insights []model.Insight `yaml:"insights"`
}

// Builtin returns the default insight list.
func Builtin() []model.Insight {
	return []model.Insight{
		{
			ID:          "1",
			Title:       "Cash Flow Optimization",
			Description: "Your cash flow is strong, but consider investing excess cash in short-term securities to maximize returns.",
			Type:        model.InsightOpportunity,
			Priority:    model.PriorityMedium,
			Category:    "Cash Management",
			Created:     time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:          "2",
			Title:       "Accounts Receivable Alert",
			Description: "Invoice INV-2024-002 is approaching due date. Consider sending a reminder to Marketing Pro LLC.",
			Type:        model.InsightWarning,
			Priority:    model.PriorityHigh,
			Category:    "Collections",
			Created:     time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:          "3",
			Title:       "Expense Trend Analysis",
			Description: "Operating expenses have increased 8% this month. Review the largest expense categories for optimization opportunities.",
			Type:        model.InsightRecommendation,
			Priority:    model.PriorityMedium,
			Category:    "Cost Control",
			Created:     time.Date(2024, 1, 17, 0, 0, 0, 0, time.UTC),
		},
	}
}

// Load returns the insights from repoRoot/insights.yaml, or Builtin when
// the file does not exist.
func Load(repoRoot string) ([]model.Insight, error) {
	path := filepath.Join(repoRoot, File)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Builtin(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading insights: %w", err)
	}
	return Parse(data)
}

// Parse decodes an insights.yaml document.
func Parse(data []byte) ([]model.Insight, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing insights: %w", err)
	}
	return doc.Insights, nil
}

// Marshal encodes insights as an insights.yaml document.
func Marshal(list []model.Insight) ([]byte, error) {
	data, err := yaml.Marshal(document{Insights: list})
	if err != nil {
		return nil, fmt.Errorf("marshaling insights: %w", err)
	}
	return data, nil
}

// Filter returns the insights in category. An empty category or
// CategoryAll matches everything.
func Filter(list []model.Insight, category string) []model.Insight {
	if category == "" || category == CategoryAll {
		return append([]model.Insight(nil), list...)
	}
	var out []model.Insight
	for _, in := range list {
		if in.Category == category {
			out = append(out, in)
		}
	}
	return out
}

// Categories returns the distinct categories, sorted.
func Categories(list []model.Insight) []string {
	seen := make(map[string]bool)
	var out []string
	for _, in := range list {
		if !seen[in.Category] {
			seen[in.Category] = true
			out = append(out, in.Category)
		}
	}
	sort.Strings(out)
	return out
}

// CountByPriority tallies insights per priority.
func CountByPriority(list []model.Insight) map[model.Priority]int {
	counts := make(map[model.Priority]int)
	for _, in := range list {
		counts[in.Priority]++
	}
	return counts
}

// CountByType tallies insights per type.
func CountByType(list []model.Insight) map[model.InsightType]int {
	counts := make(map[model.InsightType]int)
	for _, in := range list {
		counts[in.Type]++
	}
	return counts
}

package models

import "time"

// InsightsSummary aggregates statistics about the business_insights table.
type InsightsSummary struct {
	TotalInsights   int64      `json:"total_insights"`
	UniqueTypes     int64      `json:"unique_types"`
	EarliestInsight *time.Time `json:"earliest_insight,omitempty"`
	LatestInsight   *time.Time `json:"latest_insight,omitempty"`
}

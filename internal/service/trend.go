package service

import (
	"sort"

	"stresswatch/internal/domain"
)

// TrendPoint is one point of the binarized trend series: a 1-based sequence
// index, a human-readable date label and a binary value (1 = Stressed,
// 0 = NotStressed). Magnitude is intentionally dropped; the sole consumer is
// a two-level trend line.
type TrendPoint struct {
	Seq   int    `json:"seq"`
	Date  string `json:"date"`
	Value int    `json:"value"`
}

// trendDateLayout keeps labels sortable and readable on chart axes.
const trendDateLayout = "2006-01-02 15:04"

// BuildTrendSeries projects a detection history (any order) into the chart
// series: ascending by timestamp, contiguous 1-based indices. An empty
// history yields an empty series; callers render a "no data" state.
func BuildTrendSeries(records []domain.DetectionRecord) []TrendPoint {
	sorted := make([]domain.DetectionRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	series := make([]TrendPoint, 0, len(sorted))
	for i, rec := range sorted {
		value := 0
		if rec.Condition() == domain.ConditionStressed {
			value = 1
		}
		series = append(series, TrendPoint{
			Seq:   i + 1,
			Date:  rec.Timestamp.Format(trendDateLayout),
			Value: value,
		})
	}
	return series
}

// Package models defines data structures and domain types.
package models

// ChartDataPoint is one day in a dense daily series. Endpoint fields
// default to zero when the source has no data for that day; Total is
// recomputed by the aggregator, never copied from the source.
type ChartDataPoint struct {
	Date        string `json:"date"`
	Tweet       int    `json:"tweet"`
	User        int    `json:"user"`
	Community   int    `json:"community"`
	Follows     int    `json:"follows"`
	Communities int    `json:"communities"`
	Total       int    `json:"total"`
}

// HourlyDataPoint is one hour slot in a dense 24-hour series for a
// single day. Hour is rendered as "HH:00".
type HourlyDataPoint struct {
	Hour        string `json:"hour"`
	Tweet       int    `json:"tweet"`
	User        int    `json:"user"`
	Community   int    `json:"community"`
	Follows     int    `json:"follows"`
	Communities int    `json:"communities"`
	Total       int    `json:"total"`
}

// AllHoursDataPoint is one day-hour instant in a dense multi-day
// hourly series. Datetime is rendered as "YYYY-MM-DD HH:00".
type AllHoursDataPoint struct {
	Datetime    string `json:"datetime"`
	Tweet       int    `json:"tweet"`
	User        int    `json:"user"`
	Community   int    `json:"community"`
	Follows     int    `json:"follows"`
	Communities int    `json:"communities"`
	Total       int    `json:"total"`
}

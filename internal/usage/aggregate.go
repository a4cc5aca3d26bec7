package usage

import (
	"fmt"
	"sort"

	"github.com/barkgg/barkdash/internal/models"
)

// SortOrder selects the direction of a sorted date list.
type SortOrder int

const (
	// Ascending sorts oldest first.
	Ascending SortOrder = iota
	// Descending sorts most recent first, as date pickers want it.
	Descending
)

// hourLabels are the 24 fixed hour keys "00".."23".
var hourLabels = func() []string {
	labels := make([]string, 24)
	for h := range labels {
		labels[h] = fmt.Sprintf("%02d", h)
	}
	return labels
}()

// lastDateWithData returns the maximum day key across all endpoints
// that is <= ceiling, or fallback if no such day exists. This is the
// "incomplete tail" rule: the daily series ends at the last day the
// source could have reported, not at the end of the requested window,
// so charts never show a misleading drop to zero for the future.
func lastDateWithData(rec models.UsageRecord, ceiling, fallback string) string {
	last := ""
	for _, ep := range rec.Endpoints {
		for date := range ep.Days {
			if CompareISODate(date, ceiling) > 0 {
				continue
			}
			if last == "" || CompareISODate(date, last) > 0 {
				last = date
			}
		}
	}
	if last == "" {
		return fallback
	}
	return last
}

// BuildDailySeries produces one ChartDataPoint per calendar day from
// rng.From through the last day with data (bounded above by rng.To),
// ascending, zero-filled for days the record does not cover. Endpoint
// identifiers without a named series still contribute to Total.
func BuildDailySeries(rec models.UsageRecord, rng models.DateRange) []models.ChartDataPoint {
	last := lastDateWithData(rec, rng.To, rng.From)

	days := EnumerateDays(rng.From, last)
	if len(days) == 0 {
		return nil
	}

	index := make(map[string]int, len(days))
	series := make([]models.ChartDataPoint, len(days))
	for i, date := range days {
		series[i] = models.ChartDataPoint{Date: date}
		index[date] = i
	}

	for endpointID, ep := range rec.Endpoints {
		name, named := ShortName(endpointID)
		for date, day := range ep.Days {
			i, ok := index[date]
			if !ok {
				continue
			}
			if named {
				setDailyField(&series[i], name, day.Total)
			}
			series[i].Total += day.Total
		}
	}

	sort.Slice(series, func(i, j int) bool {
		return series[i].Date < series[j].Date
	})
	return series
}

// BuildHourlySeriesForDay produces exactly 24 points, "00:00" through
// "23:00", for the given day. A date absent from the record yields an
// all-zero series, not an error. Hour fills come solely from the sparse
// hourly maps; day totals are never redistributed across hours.
func BuildHourlySeriesForDay(rec models.UsageRecord, date string) []models.HourlyDataPoint {
	series := make([]models.HourlyDataPoint, 24)
	for h, label := range hourLabels {
		series[h] = models.HourlyDataPoint{Hour: label + ":00"}
	}

	for endpointID, ep := range rec.Endpoints {
		day, ok := ep.Days[date]
		if !ok || day.Hours == nil {
			continue
		}
		name, named := ShortName(endpointID)
		for h, label := range hourLabels {
			count, ok := day.Hours[label]
			if !ok {
				continue
			}
			if named {
				setHourlyField(&series[h], name, count)
			}
			series[h].Total += count
		}
	}

	return series
}

// BuildAllHoursSeries expands the range into one point per day-hour
// instant, ascending, ending at the last day with data (bounded by
// rng.To). The tail day's later hours may legitimately be zero because
// they have not occurred yet.
func BuildAllHoursSeries(rec models.UsageRecord, rng models.DateRange) []models.AllHoursDataPoint {
	last := lastDateWithData(rec, rng.To, rng.From)

	days := EnumerateDays(rng.From, last)
	if len(days) == 0 {
		return nil
	}

	series := make([]models.AllHoursDataPoint, 0, len(days)*24)
	for _, date := range days {
		hourly := BuildHourlySeriesForDay(rec, date)
		for h, point := range hourly {
			series = append(series, models.AllHoursDataPoint{
				Datetime:    date + " " + hourLabels[h] + ":00",
				Tweet:       point.Tweet,
				User:        point.User,
				Community:   point.Community,
				Follows:     point.Follows,
				Communities: point.Communities,
				Total:       point.Total,
			})
		}
	}
	return series
}

// AvailableDates returns the distinct set of days for which at least
// one endpoint reports data, sorted per order. Sort direction is a
// presentation concern, so the caller chooses it.
func AvailableDates(rec models.UsageRecord, order SortOrder) []string {
	seen := make(map[string]struct{})
	for _, ep := range rec.Endpoints {
		for date := range ep.Days {
			seen[date] = struct{}{}
		}
	}

	dates := make([]string, 0, len(seen))
	for date := range seen {
		dates = append(dates, date)
	}

	if order == Descending {
		sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	} else {
		sort.Strings(dates)
	}
	return dates
}

func setDailyField(p *models.ChartDataPoint, name string, v int) {
	switch name {
	case "tweet":
		p.Tweet = v
	case "user":
		p.User = v
	case "community":
		p.Community = v
	case "follows":
		p.Follows = v
	case "communities":
		p.Communities = v
	}
}

func setHourlyField(p *models.HourlyDataPoint, name string, v int) {
	switch name {
	case "tweet":
		p.Tweet = v
	case "user":
		p.User = v
	case "community":
		p.Community = v
	case "follows":
		p.Follows = v
	case "communities":
		p.Communities = v
	}
}

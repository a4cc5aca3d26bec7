package usage

import "github.com/barkgg/barkdash/internal/models"

// FilterByRange restricts a record to days within [start, end]
// inclusive, recomputing endpoint totals and the grand total from the
// retained days. CreditsRemaining passes through unchanged: it is a
// point-in-time balance, not a usage sum. Endpoints left with no days
// stay in the result as empty entries so downstream consumers indexing
// by fixed identifiers never see a key disappear. The input record is
// not mutated.
func FilterByRange(rec models.UsageRecord, start, end string) models.UsageRecord {
	out := models.UsageRecord{
		CreditsRemaining: rec.CreditsRemaining,
		Endpoints:        make(map[string]models.EndpointUsage, len(rec.Endpoints)),
	}

	for endpointID, ep := range rec.Endpoints {
		kept := models.EndpointUsage{
			Days: make(map[string]models.DayUsage),
		}
		for date, day := range ep.Days {
			if CompareISODate(date, start) < 0 || CompareISODate(date, end) > 0 {
				continue
			}
			kept.Days[date] = day
			kept.Total += day.Total
		}
		out.Endpoints[endpointID] = kept
		out.Total += kept.Total
	}

	return out
}

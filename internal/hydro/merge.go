package hydro

import "sort"

// gapDescription matches the wording the mobile UI shows next to the
// missing period.
const gapDescription = "Government data processing gap"

// ReconcileGap computes the unmeasured interval between the last historical
// date and the first realtime date. Contiguous or overlapping sequences, or
// an empty sequence on either side, yield no gap.
func ReconcileGap(historical, realtime []DailyRecord) GapDescriptor {
	if len(historical) == 0 || len(realtime) == 0 {
		return GapDescriptor{}
	}

	lastHistorical := historical[len(historical)-1].Date
	firstRealtime := realtime[0].Date

	gapDays := lastHistorical.DaysUntil(firstRealtime) - 1
	if gapDays <= 0 {
		return GapDescriptor{}
	}

	return GapDescriptor{
		Exists:      true,
		StartDate:   lastHistorical.AddDays(1),
		EndDate:     firstRealtime.AddDays(-1),
		Days:        gapDays,
		Description: gapDescription,
	}
}

// MergeTimelines concatenates the historical and realtime sequences into one
// series ordered by ascending date. When both sources report the same date,
// the realtime record wins.
func MergeTimelines(historical, realtime []DailyRecord) []DailyRecord {
	merged := make([]DailyRecord, 0, len(historical)+len(realtime))
	merged = append(merged, historical...)
	merged = append(merged, realtime...)

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Date.Before(merged[j].Date.Time)
	})

	// Stable sort keeps historical ahead of realtime on equal dates, so
	// duplicates are adjacent and the realtime record replaces in place.
	out := merged[:0]
	for _, rec := range merged {
		if n := len(out); n > 0 && out[n-1].Date.Equal(rec.Date.Time) {
			if rec.Source == SourceRealtime {
				out[n-1] = rec
			}
			continue
		}
		out = append(out, rec)
	}

	return out
}

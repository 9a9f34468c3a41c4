package hydro

import (
	"math"
	"sort"
)

// AggregateSamples collapses raw high-frequency samples into one DailyRecord
// per calendar day, matching the shape of the historical daily-mean records.
// Discharge and level are averaged independently over their non-null values;
// a day with at least one measurement of either kind emits a record, a day
// with neither emits nothing. SampleCount covers every sample seen that day,
// including ones where both values were null.
func AggregateSamples(stationID string, samples []Sample) []DailyRecord {
	byDay := make(map[string][]Sample)
	for _, s := range samples {
		if s.Day.IsZero() {
			continue
		}
		k := s.Day.String()
		byDay[k] = append(byDay[k], s)
	}

	keys := make([]string, 0, len(byDay))
	for k := range byDay {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	records := make([]DailyRecord, 0, len(keys))
	for _, k := range keys {
		day := byDay[k]

		var (
			dischargeSum float64
			dischargeN   int
			levelSum     float64
			levelN       int
		)
		for _, s := range day {
			if s.DischargeM3s != nil {
				dischargeSum += *s.DischargeM3s
				dischargeN++
			}
			if s.LevelM != nil {
				levelSum += *s.LevelM
				levelN++
			}
		}

		if dischargeN == 0 && levelN == 0 {
			continue
		}

		rec := DailyRecord{
			StationID:   stationID,
			Date:        day[0].Day,
			Source:      SourceRealtime,
			SampleCount: len(day),
		}
		if dischargeN > 0 {
			v := roundTo(dischargeSum/float64(dischargeN), 2)
			rec.DischargeM3s = &v
		}
		if levelN > 0 {
			v := roundTo(levelSum/float64(levelN), 3)
			rec.LevelM = &v
		}
		records = append(records, rec)
	}

	return records
}

// roundTo rounds v to the given number of decimal places, half away from
// zero. The epsilon keeps exact midpoints (0.1235 -> 0.124) from landing a
// hair below .5 in binary and rounding down. Measurements are non-negative.
func roundTo(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow+1e-9) / pow
}

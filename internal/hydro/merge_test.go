package hydro

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func histRecord(date Date, discharge float64) DailyRecord {
	return DailyRecord{
		StationID:    "08NA011",
		Date:         date,
		DischargeM3s: f64(discharge),
		Source:       SourceHistorical,
	}
}

func rtRecord(date Date, discharge float64, sampleCount int) DailyRecord {
	return DailyRecord{
		StationID:    "08NA011",
		Date:         date,
		DischargeM3s: f64(discharge),
		Source:       SourceRealtime,
		SampleCount:  sampleCount,
	}
}

func TestReconcileGapPositive(t *testing.T) {
	historical := []DailyRecord{
		histRecord(NewDate(2024, time.December, 30), 9.3),
		histRecord(NewDate(2024, time.December, 31), 9.1),
	}
	realtime := []DailyRecord{
		rtRecord(NewDate(2025, time.September, 16), 8.4, 288),
	}

	gap := ReconcileGap(historical, realtime)
	require.True(t, gap.Exists)
	require.Equal(t, "2025-01-01", gap.StartDate.String())
	require.Equal(t, "2025-09-15", gap.EndDate.String())
	require.Equal(t, 258, gap.Days)
	require.NotEmpty(t, gap.Description)
}

func TestReconcileGapContiguous(t *testing.T) {
	historical := []DailyRecord{histRecord(NewDate(2025, time.January, 10), 9.0)}
	realtime := []DailyRecord{rtRecord(NewDate(2025, time.January, 11), 8.5, 288)}

	gap := ReconcileGap(historical, realtime)
	require.False(t, gap.Exists)
	require.Zero(t, gap.Days)
	require.True(t, gap.StartDate.IsZero())
	require.True(t, gap.EndDate.IsZero())
}

func TestReconcileGapOverlapping(t *testing.T) {
	historical := []DailyRecord{histRecord(NewDate(2025, time.January, 15), 9.0)}
	realtime := []DailyRecord{rtRecord(NewDate(2025, time.January, 10), 8.5, 288)}

	require.False(t, ReconcileGap(historical, realtime).Exists)
}

func TestReconcileGapEmptySequences(t *testing.T) {
	records := []DailyRecord{histRecord(NewDate(2025, time.January, 10), 9.0)}

	require.False(t, ReconcileGap(nil, records).Exists)
	require.False(t, ReconcileGap(records, nil).Exists)
	require.False(t, ReconcileGap(nil, nil).Exists)
}

func TestMergeTimelinesOrdering(t *testing.T) {
	historical := []DailyRecord{
		histRecord(NewDate(2024, time.December, 30), 9.3),
		histRecord(NewDate(2024, time.December, 31), 9.1),
	}
	realtime := []DailyRecord{
		rtRecord(NewDate(2025, time.September, 16), 8.4, 288),
		rtRecord(NewDate(2025, time.September, 17), 8.2, 288),
	}

	merged := MergeTimelines(historical, realtime)
	require.Len(t, merged, 4)
	for i := 1; i < len(merged); i++ {
		require.True(t, merged[i-1].Date.Before(merged[i].Date.Time),
			"dates must be strictly increasing: %s then %s", merged[i-1].Date, merged[i].Date)
	}
}

func TestMergeTimelinesDuplicateDateRealtimeWins(t *testing.T) {
	date := NewDate(2025, time.January, 10)
	historical := []DailyRecord{
		histRecord(NewDate(2025, time.January, 9), 9.5),
		histRecord(date, 9.0),
	}
	realtime := []DailyRecord{rtRecord(date, 8.5, 288)}

	merged := MergeTimelines(historical, realtime)
	require.Len(t, merged, 2)
	require.Equal(t, SourceRealtime, merged[1].Source)
	require.InDelta(t, 8.5, *merged[1].DischargeM3s, 1e-9)
}

func TestMergeTimelinesEmptySides(t *testing.T) {
	records := []DailyRecord{histRecord(NewDate(2025, time.January, 10), 9.0)}

	require.Len(t, MergeTimelines(records, nil), 1)
	require.Len(t, MergeTimelines(nil, records), 1)
	require.Empty(t, MergeTimelines(nil, nil))
}

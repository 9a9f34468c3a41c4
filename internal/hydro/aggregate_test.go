package hydro

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }

func sampleAt(day Date, discharge, level *float64) Sample {
	return Sample{
		Day:          day,
		Timestamp:    day.Time,
		DischargeM3s: discharge,
		LevelM:       level,
	}
}

func TestAggregateSamplesAveragesOneDay(t *testing.T) {
	day := NewDate(2025, time.September, 16)
	samples := []Sample{
		sampleAt(day, f64(5.0), nil),
		sampleAt(day, f64(7.0), nil),
		sampleAt(day, nil, nil), // null reading still counts toward the day's total
	}

	records := AggregateSamples("08NA011", samples)
	require.Len(t, records, 1)

	rec := records[0]
	require.Equal(t, "08NA011", rec.StationID)
	require.True(t, rec.Date.Equal(day.Time))
	require.Equal(t, SourceRealtime, rec.Source)
	require.Equal(t, 3, rec.SampleCount)
	require.NotNil(t, rec.DischargeM3s)
	require.InDelta(t, 6.0, *rec.DischargeM3s, 1e-9)
	require.Nil(t, rec.LevelM)
}

func TestAggregateSamplesSuppressesDaysWithNoMeasurements(t *testing.T) {
	day := NewDate(2025, time.September, 16)
	samples := []Sample{
		sampleAt(day, nil, nil),
		sampleAt(day, nil, nil),
	}

	records := AggregateSamples("08NA011", samples)
	require.Empty(t, records)
}

func TestAggregateSamplesLevelOnlyDayStillEmits(t *testing.T) {
	day := NewDate(2025, time.September, 16)
	samples := []Sample{
		sampleAt(day, nil, f64(1.234)),
		sampleAt(day, nil, f64(1.236)),
	}

	records := AggregateSamples("08NA011", samples)
	require.Len(t, records, 1)
	require.Nil(t, records[0].DischargeM3s)
	require.NotNil(t, records[0].LevelM)
	require.InDelta(t, 1.235, *records[0].LevelM, 1e-9)
	require.Equal(t, 2, records[0].SampleCount)
}

func TestAggregateSamplesRounding(t *testing.T) {
	day := NewDate(2025, time.September, 16)
	samples := []Sample{
		sampleAt(day, f64(1.005), f64(0.1234)),
		sampleAt(day, f64(1.015), f64(0.1236)),
	}

	records := AggregateSamples("08NA011", samples)
	require.Len(t, records, 1)
	require.InDelta(t, 1.01, *records[0].DischargeM3s, 1e-9)  // 2 decimal places
	require.InDelta(t, 0.124, *records[0].LevelM, 1e-9)       // 3 decimal places
}

func TestAggregateSamplesGroupsByDayInOrder(t *testing.T) {
	day1 := NewDate(2025, time.September, 16)
	day2 := NewDate(2025, time.September, 17)
	samples := []Sample{
		// Deliberately out of order across days.
		sampleAt(day2, f64(10.0), nil),
		sampleAt(day1, f64(8.0), nil),
		sampleAt(day2, f64(12.0), nil),
		sampleAt(day1, f64(8.2), nil),
	}

	records := AggregateSamples("08NA011", samples)
	require.Len(t, records, 2)
	require.Equal(t, "2025-09-16", records[0].Date.String())
	require.Equal(t, "2025-09-17", records[1].Date.String())
	require.InDelta(t, 8.1, *records[0].DischargeM3s, 1e-9)
	require.InDelta(t, 11.0, *records[1].DischargeM3s, 1e-9)
}

func TestAggregateSamplesEmptyInput(t *testing.T) {
	require.Empty(t, AggregateSamples("08NA011", nil))
}

func TestAggregateSamplesSkipsZeroDay(t *testing.T) {
	samples := []Sample{
		{Day: Date{}, DischargeM3s: f64(5.0)},
	}
	require.Empty(t, AggregateSamples("08NA011", samples))
}

func TestRoundTo(t *testing.T) {
	require.InDelta(t, 1.01, roundTo(1.005+0.005, 2), 1e-9)
	require.InDelta(t, 8.4, roundTo(8.4, 2), 1e-9)
	require.InDelta(t, 0.124, roundTo(0.1235, 3), 1e-9)
	require.InDelta(t, 9.12, roundTo(9.1249, 2), 1e-9)
	require.InDelta(t, 0.0, roundTo(0.0, 2), 1e-9)
}

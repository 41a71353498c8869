package meter

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"batterysim/internal/series"
)

func TestParseCSVSumsImportExportColumns(t *testing.T) {
	csv := "timestamp,import_a,import_b,export\n" +
		"2026-01-01T00:00:00Z,1.0,0.5,0\n" +
		"2026-01-01T00:15:00Z,2.0,1.0,0.2\n"

	readings, err := parseCSV(strings.NewReader(csv), Columns{
		Timestamp:  "timestamp",
		ImportCols: []string{"import_a", "import_b"},
		ExportCols: []string{"export"},
	})
	require.NoError(t, err)
	require.Len(t, readings, 2)
	assert.InDelta(t, 1.5, readings[0].ImportKwh, 1e-9)
	assert.InDelta(t, 3.0, readings[1].ImportKwh, 1e-9)
	assert.InDelta(t, 0.2, readings[1].ExportKwh, 1e-9)
}

func TestParseCSVRejectsMissingTimestampColumn(t *testing.T) {
	csv := "a,b\n1,2\n"
	_, err := parseCSV(strings.NewReader(csv), Columns{Timestamp: "timestamp"})
	require.Error(t, err)
}

func TestDetectIntervalMinutesRoundsToNearestAllowed(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	readings := make([]Reading, 5)
	for i := range readings {
		readings[i] = Reading{Instant: start.Add(time.Duration(i) * 16 * time.Minute)}
	}
	assert.Equal(t, 15, DetectIntervalMinutes(readings))
}

func TestDetectIntervalMinutesDefaultsOnTooFewReadings(t *testing.T) {
	assert.Equal(t, allowedIntervalsMinutes[0], DetectIntervalMinutes(nil))
	assert.Equal(t, allowedIntervalsMinutes[0], DetectIntervalMinutes([]Reading{{}}))
}

func TestDifferenceClampsNegativeDeltasToZero(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	readings := []Reading{
		{Instant: start, ImportKwh: 100, ExportKwh: 10},
		{Instant: start.Add(time.Hour), ImportKwh: 50, ExportKwh: 20}, // register reset
	}
	deltas := Difference(readings)
	require.Len(t, deltas, 1)
	assert.Equal(t, 0.0, deltas[0].ImportKwh)
	assert.InDelta(t, 10, deltas[0].ExportKwh, 1e-9)
}

func TestDifferenceOfEmptyIsNil(t *testing.T) {
	assert.Nil(t, Difference(nil))
}

func TestAggregateToPeriodBinsAndMapsImportExport(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	deltas := []Delta{
		{Instant: start.Add(10 * time.Minute), ImportKwh: 1, ExportKwh: 0},
		{Instant: start.Add(40 * time.Minute), ImportKwh: 2, ExportKwh: 0.5},
		{Instant: start.Add(time.Hour + 5*time.Minute), ImportKwh: 3, ExportKwh: 0},
	}
	points, err := AggregateToPeriod(deltas, series.Hourly)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.InDelta(t, 3, points[0].ConsumptionKwh, 1e-9)
	assert.InDelta(t, 0.5, points[0].SolarKwh, 1e-9)
	assert.InDelta(t, 3, points[1].ConsumptionKwh, 1e-9)
}

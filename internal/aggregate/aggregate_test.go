package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"batterysim/internal/planner"
	"batterysim/internal/rolling"
)

func recordAt(t time.Time, action planner.Kind, dc, cashflow, soc float64) rolling.TimestepRecord {
	return rolling.TimestepRecord{Instant: t, Action: action, DcMovedKwh: dc, Cashflow: cashflow, SocKwh: soc}
}

func TestMonthliesAreAdditiveAcrossDisjointMonths(t *testing.T) {
	jan := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)
	h := &rolling.History{Records: []rolling.TimestepRecord{
		recordAt(jan, planner.Charge, 5, -1, 5),
		recordAt(feb, planner.Discharge, 3, 2, 2),
	}}

	months := Monthlies(h, 10)
	assert.Len(t, months, 2)
	assert.Equal(t, time.January, months[0].Month)
	assert.Equal(t, time.February, months[1].Month)

	var totalCashflow float64
	for _, m := range months {
		totalCashflow += m.Cashflow
	}
	assert.InDelta(t, -1+2, totalCashflow, 1e-9)
}

func TestMonthliesSortedChronologically(t *testing.T) {
	feb := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	jan := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	h := &rolling.History{Records: []rolling.TimestepRecord{
		recordAt(feb, planner.Idle, 0, 0, 0),
		recordAt(jan, planner.Idle, 0, 0, 0),
	}}
	months := Monthlies(h, 10)
	require := months
	assert.Equal(t, time.January, require[0].Month)
	assert.Equal(t, time.February, require[1].Month)
}

func TestDailiesTracksSocRangeAndBaselineSavings(t *testing.T) {
	day := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	h := &rolling.History{Records: []rolling.TimestepRecord{
		recordAt(day, planner.Charge, 2, -1, 8),
		recordAt(day.Add(time.Hour), planner.Discharge, 1, 1, 3),
	}}
	baseline := map[time.Time]float64{time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC): -5}

	dailies := Dailies(h, 10, baseline)
	require2 := dailies[0]
	assert.InDelta(t, 0.3, require2.MinSocPct, 1e-9)
	assert.InDelta(t, 0.8, require2.MaxSocPct, 1e-9)
	assert.InDelta(t, (-1.0+1.0)-(-5), require2.SavingsVsBaseline, 1e-9)
}

func TestIntradayFiltersByCalendarDate(t *testing.T) {
	d1 := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	h := &rolling.History{Records: []rolling.TimestepRecord{
		recordAt(d1, planner.Idle, 0, 0, 0),
		recordAt(d2, planner.Idle, 0, 0, 0),
	}}
	out := Intraday(h, d1)
	assert.Len(t, out, 1)
	assert.Equal(t, d1, out[0].Instant)
}

func TestRankByProfitDescending(t *testing.T) {
	points := []PointResult{{Label: "a", Profit: 1}, {Label: "b", Profit: 5}}
	ranked := RankByProfit(points)
	assert.Equal(t, "b", ranked[0].Label)
}

func TestRankByProfitPerCycleTreatsZeroCyclesAsLast(t *testing.T) {
	points := []PointResult{
		{Label: "zero-cycles", Cycles: 0, ProfitPerCycle: 1000},
		{Label: "normal", Cycles: 2, ProfitPerCycle: 1},
	}
	ranked := RankByProfitPerCycle(points)
	assert.Equal(t, "normal", ranked[0].Label)
}

func TestPercentileSortedInterpolates(t *testing.T) {
	sorted := []float64{10, 20, 30, 40}
	assert.InDelta(t, 10, PercentileSorted(sorted, 0), 1e-9)
	assert.InDelta(t, 40, PercentileSorted(sorted, 1), 1e-9)
	assert.InDelta(t, 25, PercentileSorted(sorted, 0.5), 1e-9)
}

func TestPercentileSortedEmptyReturnsZero(t *testing.T) {
	assert.Equal(t, 0.0, PercentileSorted(nil, 0.5))
}

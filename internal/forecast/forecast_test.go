package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/templui/ahorros/internal/model"
)

func contribs(pairs ...any) []*model.Contribution {
	var out []*model.Contribution
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, &model.Contribution{Date: pairs[i].(string), Amount: pairs[i+1].(float64)})
	}
	return out
}

func TestTotalSavedIgnoresOrder(t *testing.T) {
	a := contribs("2026-01-05", 300.0, "2026-02-10", 400.0, "2025-12-01", 12.5)
	b := []*model.Contribution{a[2], a[0], a[1]}

	assert.Equal(t, 712.5, TotalSaved(a))
	assert.Equal(t, TotalSaved(a), TotalSaved(b))
	assert.Zero(t, TotalSaved(nil))
}

func TestActiveMonths(t *testing.T) {
	assert.Equal(t, 1, ActiveMonths(contribs("2026-01-05", 1.0, "2026-01-20", 1.0)))
	assert.Equal(t, 2, ActiveMonths(contribs("2026-01-05", 1.0, "2026-02-01", 1.0)))
	assert.Equal(t, 0, ActiveMonths(nil))
}

func TestActiveMonthsMalformedDates(t *testing.T) {
	got := ActiveMonths(contribs("", 1.0, "oops", 1.0, "oops", 2.0, "2026-01-05", 1.0))
	assert.Equal(t, 3, got)
}

func TestAverageMonthly(t *testing.T) {
	assert.Equal(t, 300.0, AverageMonthly(600, 2))
	assert.Zero(t, AverageMonthly(0, 0))
	assert.Zero(t, AverageMonthly(600, 0))
}

func TestProjectionRate(t *testing.T) {
	assert.Equal(t, 225.0, ProjectionRate(Conservative, 300))
	assert.InDelta(t, 420.0, ProjectionRate(Ambitious, 300), 1e-9)
	assert.Equal(t, 200.0, ProjectionRate(Conservative, 0))
	assert.Equal(t, 500.0, ProjectionRate(Ambitious, 0))

	fb := Fallbacks{Conservative: 50, Ambitious: 90}
	assert.Equal(t, 50.0, ProjectionRateWith(Conservative, 0, fb))
	assert.Equal(t, 90.0, ProjectionRateWith(Ambitious, 0, fb))
}

func TestRemainingAndProgress(t *testing.T) {
	assert.Zero(t, Remaining(5000, 6000))
	assert.Equal(t, 300.0, Remaining(1000, 700))

	assert.Equal(t, 100.0, ProgressPercent(7000, 8000))
	assert.Equal(t, 70.0, ProgressPercent(1000, 700))
	assert.Zero(t, ProgressPercent(0, 700))

	assert.True(t, IsComplete(7000, 7000))
	assert.False(t, IsComplete(7000, 6999))
}

func TestMonthsToGoal(t *testing.T) {
	assert.Equal(t, Duration{Months: 2}, MonthsToGoal(300, 225))
	assert.Equal(t, Duration{Months: 1}, MonthsToGoal(300, 300))
	assert.Equal(t, Duration{Completed: true}, MonthsToGoal(0, 0))
	assert.Equal(t, Duration{Completed: true}, MonthsToGoal(-5, 100))
	assert.Equal(t, Duration{Unknown: true}, MonthsToGoal(300, 0))
	assert.Equal(t, Duration{Unknown: true}, MonthsToGoal(300, -1))
}

func TestProjectTrip(t *testing.T) {
	h := Summarize(contribs("2026-01-05", 300.0, "2026-02-10", 400.0), DefaultFallbacks)

	assert.Equal(t, 700.0, h.TotalSaved)
	assert.Equal(t, 2, h.ActiveMonths)
	assert.Equal(t, 350.0, h.AverageMonthly)

	p := Project(1000, h)
	assert.Equal(t, 300.0, p.Remaining)
	assert.Equal(t, 70.0, p.Percent)
	assert.False(t, p.Complete)
	// 300 / 262.5 and 300 / 490
	assert.Equal(t, Duration{Months: 2}, p.Conservative)
	assert.Equal(t, Duration{Months: 1}, p.Ambitious)
}

func TestProjectWithoutHistoryUsesFallbacks(t *testing.T) {
	h := Summarize(nil, Fallbacks{Conservative: 100, Ambitious: 250})
	p := Project(1000, h)

	assert.Equal(t, Duration{Months: 10}, p.Conservative)
	assert.Equal(t, Duration{Months: 4}, p.Ambitious)
}

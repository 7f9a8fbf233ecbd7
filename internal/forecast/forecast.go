// Package forecast derives savings totals, monthly pace and goal projections
// from a contribution history. Every function is pure and ignores the order
// of its input.
package forecast

import (
	"math"

	"github.com/templui/ahorros/internal/model"
)

type Kind string

const (
	Conservative Kind = "conservative"
	Ambitious    Kind = "ambitious"
)

const (
	conservativeFactor = 0.75
	ambitiousFactor    = 1.4
)

// Fallbacks are the monthly rates used when there is no history at all.
type Fallbacks struct {
	Conservative float64
	Ambitious    float64
}

var DefaultFallbacks = Fallbacks{
	Conservative: model.DefaultConservativeMonthly,
	Ambitious:    model.DefaultAmbitiousMonthly,
}

func FallbacksFrom(s model.Settings) Fallbacks {
	s = s.Normalized()
	return Fallbacks{Conservative: s.ConservativeMonthly, Ambitious: s.AmbitiousMonthly}
}

func TotalSaved(contributions []*model.Contribution) float64 {
	var total float64
	for _, c := range contributions {
		total += c.Amount
	}
	return total
}

// ActiveMonths counts distinct YYYY-MM buckets. Malformed dates are kept as
// their own bucket instead of being rejected.
func ActiveMonths(contributions []*model.Contribution) int {
	months := make(map[string]struct{}, len(contributions))
	for _, c := range contributions {
		months[c.Month()] = struct{}{}
	}
	return len(months)
}

func AverageMonthly(total float64, activeMonths int) float64 {
	if total <= 0 || activeMonths <= 0 {
		return 0
	}
	return total / float64(activeMonths)
}

// ProjectionRate returns the monthly rate for kind using the default fallbacks.
func ProjectionRate(kind Kind, average float64) float64 {
	return ProjectionRateWith(kind, average, DefaultFallbacks)
}

func ProjectionRateWith(kind Kind, average float64, fb Fallbacks) float64 {
	switch kind {
	case Ambitious:
		if average > 0 {
			return average * ambitiousFactor
		}
		return fb.Ambitious
	default:
		if average > 0 {
			return average * conservativeFactor
		}
		return fb.Conservative
	}
}

func Remaining(target, total float64) float64 {
	return math.Max(target-total, 0)
}

// ProgressPercent is clamped to [0, 100].
func ProgressPercent(target, total float64) float64 {
	if target <= 0 {
		return 0
	}
	ratio := math.Min(total/target, 1)
	if ratio < 0 {
		ratio = 0
	}
	return ratio * 100
}

func IsComplete(target, total float64) bool {
	return total >= target
}

// Duration is the projected time to reach a goal.
type Duration struct {
	Months    int  `json:"months"`
	Completed bool `json:"completed"`
	// Unknown is set when there is still money left but no positive rate
	// to project with.
	Unknown bool `json:"unknown"`
}

func MonthsToGoal(remaining, monthlyRate float64) Duration {
	if remaining <= 0 {
		return Duration{Completed: true}
	}
	if monthlyRate <= 0 || math.IsNaN(monthlyRate) || math.IsInf(monthlyRate, 0) || math.IsNaN(remaining) {
		return Duration{Unknown: true}
	}
	return Duration{Months: int(math.Ceil(remaining / monthlyRate))}
}

// History is the aggregate of a contribution list, shared by every goal.
type History struct {
	TotalSaved          float64 `json:"totalSaved"`
	ActiveMonths        int     `json:"activeMonths"`
	AverageMonthly      float64 `json:"averageMonthly"`
	ConservativeMonthly float64 `json:"conservativeMonthly"`
	AmbitiousMonthly    float64 `json:"ambitiousMonthly"`
}

func Summarize(contributions []*model.Contribution, fb Fallbacks) History {
	total := TotalSaved(contributions)
	months := ActiveMonths(contributions)
	avg := AverageMonthly(total, months)
	return History{
		TotalSaved:          total,
		ActiveMonths:        months,
		AverageMonthly:      avg,
		ConservativeMonthly: ProjectionRateWith(Conservative, avg, fb),
		AmbitiousMonthly:    ProjectionRateWith(Ambitious, avg, fb),
	}
}

// Projection is the derived view of one goal against the savings pool.
type Projection struct {
	Target       float64  `json:"target"`
	Saved        float64  `json:"saved"`
	Remaining    float64  `json:"remaining"`
	Percent      float64  `json:"percent"`
	Complete     bool     `json:"complete"`
	Conservative Duration `json:"conservative"`
	Ambitious    Duration `json:"ambitious"`
}

func Project(target float64, h History) Projection {
	remaining := Remaining(target, h.TotalSaved)
	return Projection{
		Target:       target,
		Saved:        h.TotalSaved,
		Remaining:    remaining,
		Percent:      ProgressPercent(target, h.TotalSaved),
		Complete:     IsComplete(target, h.TotalSaved),
		Conservative: MonthsToGoal(remaining, h.ConservativeMonthly),
		Ambitious:    MonthsToGoal(remaining, h.AmbitiousMonthly),
	}
}

package service

import (
	"context"

	"github.com/templui/ahorros/internal/forecast"
	"github.com/templui/ahorros/internal/format"
	"github.com/templui/ahorros/internal/live"
	"github.com/templui/ahorros/internal/model"
)

type GoalDisplay struct {
	Target       string `json:"target"`
	Saved        string `json:"saved"`
	Remaining    string `json:"remaining"`
	Percent      string `json:"percent"`
	Conservative string `json:"conservative"`
	Ambitious    string `json:"ambitious"`
}

type GoalProgress struct {
	Goal       *model.Goal         `json:"goal"`
	Projection forecast.Projection `json:"projection"`
	Display    GoalDisplay         `json:"display"`
}

type HistoryDisplay struct {
	TotalSaved          string `json:"totalSaved"`
	AverageMonthly      string `json:"averageMonthly"`
	ConservativeMonthly string `json:"conservativeMonthly"`
	AmbitiousMonthly    string `json:"ambitiousMonthly"`
}

// Summary is the dashboard view: every visible goal projected against the
// viewer's single contribution pool.
type Summary struct {
	History  forecast.History `json:"history"`
	Display  HistoryDisplay   `json:"display"`
	Settings model.Settings   `json:"settings"`
	Goals    []GoalProgress   `json:"goals"`
}

type SummaryService struct {
	goals         *GoalService
	contributions *ContributionService
	settings      *SettingsService
	hub           *live.Hub
	formatter     *format.Formatter
}

func NewSummaryService(
	goals *GoalService,
	contributions *ContributionService,
	settings *SettingsService,
	hub *live.Hub,
	formatter *format.Formatter,
) *SummaryService {
	return &SummaryService{
		goals:         goals,
		contributions: contributions,
		settings:      settings,
		hub:           hub,
		formatter:     formatter,
	}
}

func (s *SummaryService) Formatter() *format.Formatter {
	return s.formatter
}

func (s *SummaryService) Summary(ctx context.Context, actor model.Principal) (*Summary, error) {
	goals, err := s.goals.Goals(ctx, actor)
	if err != nil {
		return nil, err
	}
	contributions, err := s.contributions.Contributions(ctx, actor)
	if err != nil {
		return nil, err
	}
	settings, err := s.settings.Settings(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return s.build(goals, contributions, settings), nil
}

// Subscribe emits a fresh summary whenever goals, contributions or settings
// change.
func (s *SummaryService) Subscribe(ctx context.Context, actor model.Principal) *live.Subscription[*Summary] {
	return live.Watch(ctx, s.hub, func(ctx context.Context) (*Summary, error) {
		return s.Summary(ctx, actor)
	}, live.AllTopics...)
}

func (s *SummaryService) build(goals []*model.Goal, contributions []*model.Contribution, settings model.Settings) *Summary {
	f := s.formatter
	history := forecast.Summarize(contributions, forecast.FallbacksFrom(settings))

	summary := &Summary{
		History: history,
		Display: HistoryDisplay{
			TotalSaved:          f.Currency(history.TotalSaved),
			AverageMonthly:      f.Monthly(history.AverageMonthly),
			ConservativeMonthly: f.Monthly(history.ConservativeMonthly),
			AmbitiousMonthly:    f.Monthly(history.AmbitiousMonthly),
		},
		Settings: settings,
		Goals:    make([]GoalProgress, 0, len(goals)),
	}

	for _, g := range goals {
		p := forecast.Project(g.Target, history)
		summary.Goals = append(summary.Goals, GoalProgress{
			Goal:       g,
			Projection: p,
			Display: GoalDisplay{
				Target:       f.Currency(p.Target),
				Saved:        f.Currency(p.Saved),
				Remaining:    f.Currency(p.Remaining),
				Percent:      f.Percent(p.Percent),
				Conservative: f.Duration(p.Conservative),
				Ambitious:    f.Duration(p.Ambitious),
			},
		})
	}
	return summary
}

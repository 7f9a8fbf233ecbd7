package model

import "time"

const (
	DefaultConservativeMonthly = 200
	DefaultAmbitiousMonthly    = 500
)

// Settings holds the per-user monthly rates used to project goals when
// there is no contribution history yet.
type Settings struct {
	UserID              string    `db:"user_id" json:"userId"`
	ConservativeMonthly float64   `db:"conservative_monthly" json:"conservativeMonthly"`
	AmbitiousMonthly    float64   `db:"ambitious_monthly" json:"ambitiousMonthly"`
	UpdatedAt           time.Time `db:"updated_at" json:"updatedAt"`
}

type SettingsPatch struct {
	ConservativeMonthly *float64 `json:"conservativeMonthly,omitempty"`
	AmbitiousMonthly    *float64 `json:"ambitiousMonthly,omitempty"`
}

func DefaultSettings(userID string) Settings {
	return Settings{
		UserID:              userID,
		ConservativeMonthly: DefaultConservativeMonthly,
		AmbitiousMonthly:    DefaultAmbitiousMonthly,
	}
}

// Normalized replaces unset (zero or negative) rates with the defaults.
func (s Settings) Normalized() Settings {
	if s.ConservativeMonthly <= 0 {
		s.ConservativeMonthly = DefaultConservativeMonthly
	}
	if s.AmbitiousMonthly <= 0 {
		s.AmbitiousMonthly = DefaultAmbitiousMonthly
	}
	return s
}

// Apply merges the non-nil fields of p into s.
func (s Settings) Apply(p SettingsPatch) Settings {
	if p.ConservativeMonthly != nil {
		s.ConservativeMonthly = *p.ConservativeMonthly
	}
	if p.AmbitiousMonthly != nil {
		s.AmbitiousMonthly = *p.AmbitiousMonthly
	}
	return s
}

package model

import (
	"time"
)

const (
	// DateLayout is the ISO calendar date format used for contribution dates.
	DateLayout = "2006-01-02"

	DefaultContributionNote = "Aporte"
)

type Contribution struct {
	ID        string    `db:"id" json:"id"`
	Date      string    `db:"contributed_on" json:"date"`
	Amount    float64   `db:"amount" json:"amount"`
	Note      string    `db:"note" json:"note"`
	OwnerID   string    `db:"owner_id" json:"ownerId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type ContributionPatch struct {
	Date   *string  `json:"date,omitempty"`
	Amount *float64 `json:"amount,omitempty"`
	Note   *string  `json:"note,omitempty"`
}

func (p ContributionPatch) Empty() bool {
	return p.Date == nil && p.Amount == nil && p.Note == nil
}

// Month returns the year-month bucket of the contribution date. Dates too
// short to carry one are returned as-is so they still form their own bucket.
func (c *Contribution) Month() string {
	if len(c.Date) < 7 {
		return c.Date
	}
	return c.Date[:7]
}

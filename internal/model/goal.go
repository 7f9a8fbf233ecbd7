package model

import (
	"time"
)

// ShareGrant lets a non-owner see a goal, and edit it when CanEdit is set.
// Email is always stored normalized (see NormalizeEmail).
type ShareGrant struct {
	Email   string `db:"email" json:"email"`
	CanEdit bool   `db:"can_edit" json:"canEdit"`
}

type Goal struct {
	ID         string       `db:"id" json:"id"`
	Name       string       `db:"name" json:"name"`
	Target     float64      `db:"target" json:"target"`
	OwnerID    string       `db:"owner_id" json:"ownerId"`
	OwnerEmail string       `db:"owner_email" json:"ownerEmail"`
	Shares     []ShareGrant `db:"-" json:"shares"`
	CreatedAt  time.Time    `db:"created_at" json:"createdAt"`

	// Viewer-scoped fields (not in database)
	SharedWithMe bool       `db:"-" json:"sharedWithMe,omitempty"`
	Capability   Capability `db:"-" json:"capability,omitempty"`
}

// GoalPatch is a merge patch: nil fields are left untouched.
type GoalPatch struct {
	Name   *string  `json:"name,omitempty"`
	Target *float64 `json:"target,omitempty"`
}

func (p GoalPatch) Empty() bool {
	return p.Name == nil && p.Target == nil
}

// Share returns the grant for email, if any.
func (g *Goal) Share(email string) (ShareGrant, bool) {
	email = NormalizeEmail(email)
	for _, s := range g.Shares {
		if NormalizeEmail(s.Email) == email {
			return s, true
		}
	}
	return ShareGrant{}, false
}

// WithShare returns the grant list with grant added, replacing any
// previous grant for the same viewer.
func (g *Goal) WithShare(grant ShareGrant) []ShareGrant {
	grant.Email = NormalizeEmail(grant.Email)
	out := g.WithoutShare(grant.Email)
	return append(out, grant)
}

// WithoutShare returns the grant list minus the grant for email.
func (g *Goal) WithoutShare(email string) []ShareGrant {
	email = NormalizeEmail(email)
	out := make([]ShareGrant, 0, len(g.Shares))
	for _, s := range g.Shares {
		if NormalizeEmail(s.Email) != email {
			out = append(out, s)
		}
	}
	return out
}

// ForViewer returns a copy of the goal annotated with the viewer's capability.
func (g *Goal) ForViewer(viewer Principal) *Goal {
	c := *g
	c.Shares = append([]ShareGrant(nil), g.Shares...)
	c.Capability = ResolveCapability(g, viewer)
	c.SharedWithMe = c.Capability != CapabilityOwner && c.Capability != CapabilityNone
	return &c
}

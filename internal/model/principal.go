package model

import "strings"

// Principal is the authenticated identity performing an operation.
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (p Principal) IsZero() bool {
	return p.ID == ""
}

type Capability string

const (
	CapabilityNone   Capability = "none"
	CapabilityViewer Capability = "viewer"
	CapabilityEditor Capability = "editor"
	CapabilityOwner  Capability = "owner"
)

func (c Capability) CanEdit() bool {
	return c == CapabilityOwner || c == CapabilityEditor
}

// CanManage reports whether the capability allows deleting and sharing.
func (c Capability) CanManage() bool {
	return c == CapabilityOwner
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ResolveCapability returns what viewer may do with goal. Ownership wins over
// any grant the owner may hold on their own goal.
func ResolveCapability(goal *Goal, viewer Principal) Capability {
	if goal == nil || viewer.IsZero() {
		return CapabilityNone
	}
	if goal.OwnerID == viewer.ID {
		return CapabilityOwner
	}
	if viewer.Email == "" {
		return CapabilityNone
	}
	grant, ok := goal.Share(viewer.Email)
	if !ok {
		return CapabilityNone
	}
	if grant.CanEdit {
		return CapabilityEditor
	}
	return CapabilityViewer
}

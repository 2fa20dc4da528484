package entities

import "time"

// PanelKind distinguishes the two panel families
type PanelKind string

const (
	PanelTicket     PanelKind = "ticket"
	PanelRoleSelect PanelKind = "role_select"
)

// Panel bounds
const (
	MaxTicketRoles     = 4
	MaxRoleSelectRoles = 5
)

// RoleOption is one selectable role on a role panel
type RoleOption struct {
	RoleID string
	Label  string
	Symbol string
}

// Panel is a stored configuration activated later by a button press.
// Panels are immutable once created.
type Panel struct {
	ID        string
	Kind      PanelKind
	CreatedAt time.Time

	// Ticket panels
	CategoryID string
	RoleIDs    []string

	// Role-select panels
	Options []RoleOption
}

// Option returns the role option at index, if it exists
func (p *Panel) Option(index int) (RoleOption, bool) {
	if p.Kind != PanelRoleSelect || index < 0 || index >= len(p.Options) {
		return RoleOption{}, false
	}
	return p.Options[index], true
}

// TicketOutcome is the result of a ticket activation
type TicketOutcome struct {
	Channel *Channel
	// Created is false when the member already had a ticket channel under the category.
	Created bool
	RoleIDs []string
}

// ToggleResult is the result of a role toggle
type ToggleResult struct {
	Role  *Role
	Added bool
}

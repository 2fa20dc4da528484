package dispatch

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ActivationKind names an activation variant
type ActivationKind string

const (
	ActivationAuthStart    ActivationKind = "auth_start"
	ActivationAuthPick     ActivationKind = "auth_pick"
	ActivationTicketCreate ActivationKind = "ticket_create"
	ActivationTicketClose  ActivationKind = "ticket_close"
	ActivationRoleToggle   ActivationKind = "role_toggle"
)

// ErrUnknownActivation is returned for custom ids this bot never issued
var ErrUnknownActivation = errors.New("unknown activation")

// Activation is a parsed component custom id
type Activation interface {
	Kind() ActivationKind
	CustomID() string
}

// AuthStart begins verification for a role
type AuthStart struct {
	RoleID string
}

func (a AuthStart) Kind() ActivationKind { return ActivationAuthStart }
func (a AuthStart) CustomID() string     { return "auth_start_" + a.RoleID }

// AuthPick answers the multiple-choice challenge Nonce owned by UserID
type AuthPick struct {
	UserID string
	Nonce  string
	Value  int64
}

func (a AuthPick) Kind() ActivationKind { return ActivationAuthPick }
func (a AuthPick) CustomID() string {
	return fmt.Sprintf("auth_pick_%s_%s_%d", a.UserID, a.Nonce, a.Value)
}

// TicketCreate opens a ticket from a panel
type TicketCreate struct {
	PanelID string
}

func (a TicketCreate) Kind() ActivationKind { return ActivationTicketCreate }
func (a TicketCreate) CustomID() string     { return "ticket_create_" + a.PanelID }

// TicketClose closes the ticket channel the control lives in
type TicketClose struct{}

func (a TicketClose) Kind() ActivationKind { return ActivationTicketClose }
func (a TicketClose) CustomID() string     { return "ticket_close" }

// RoleToggle toggles the role at Index of a role panel
type RoleToggle struct {
	PanelID string
	Index   int
}

func (a RoleToggle) Kind() ActivationKind { return ActivationRoleToggle }
func (a RoleToggle) CustomID() string {
	return fmt.Sprintf("role_toggle_%s_%d", a.PanelID, a.Index)
}

// ParseActivation decodes a custom id into its activation variant
func ParseActivation(customID string) (Activation, error) {
	switch {
	case customID == "ticket_close":
		return TicketClose{}, nil

	case strings.HasPrefix(customID, "auth_start_"):
		roleID := strings.TrimPrefix(customID, "auth_start_")
		if roleID == "" {
			break
		}
		return AuthStart{RoleID: roleID}, nil

	case strings.HasPrefix(customID, "auth_pick_"):
		head, raw, ok := splitLast(strings.TrimPrefix(customID, "auth_pick_"))
		if !ok {
			break
		}
		userID, nonce, ok := splitLast(head)
		if !ok {
			break
		}
		value, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			break
		}
		return AuthPick{UserID: userID, Nonce: nonce, Value: value}, nil

	case strings.HasPrefix(customID, "ticket_create_"):
		panelID := strings.TrimPrefix(customID, "ticket_create_")
		if panelID == "" {
			break
		}
		return TicketCreate{PanelID: panelID}, nil

	case strings.HasPrefix(customID, "role_toggle_"):
		panelID, raw, ok := splitLast(strings.TrimPrefix(customID, "role_toggle_"))
		if !ok {
			break
		}
		index, err := strconv.Atoi(raw)
		if err != nil || index < 0 {
			break
		}
		return RoleToggle{PanelID: panelID, Index: index}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownActivation, customID)
}

func splitLast(s string) (head, tail string, ok bool) {
	i := strings.LastIndex(s, "_")
	if i <= 0 || i == len(s)-1 {
		return "", "", false
	}
	return s[:i], s[i+1:], true
}

package events

import "inncoin/domain/entities"

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange     EventType = "balance_change"
	EventTypeChallengeIssued   EventType = "challenge_issued"
	EventTypeChallengeResolved EventType = "challenge_resolved"
	EventTypePanelCreated      EventType = "panel_created"
	EventTypeTicketOpened      EventType = "ticket_opened"
	EventTypeTicketClosed      EventType = "ticket_closed"
)

// AllEventTypes lists every event type the domain emits
func AllEventTypes() []EventType {
	return []EventType{
		EventTypeBalanceChange,
		EventTypeChallengeIssued,
		EventTypeChallengeResolved,
		EventTypePanelCreated,
		EventTypeTicketOpened,
		EventTypeTicketClosed,
	}
}

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a balance change that occurred
type BalanceChangeEvent struct {
	UserID          string                   `json:"user_id"`
	OldBalance      int64                    `json:"old_balance"`
	NewBalance      int64                    `json:"new_balance"`
	ChangeAmount    int64                    `json:"change_amount"`
	TransactionType entities.TransactionType `json:"transaction_type"`
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// ChallengeIssuedEvent is emitted when a user starts verification
type ChallengeIssuedEvent struct {
	UserID  string                    `json:"user_id"`
	GuildID string                    `json:"guild_id"`
	RoleID  string                    `json:"role_id"`
	Variant entities.ChallengeVariant `json:"variant"`
}

func (e ChallengeIssuedEvent) Type() EventType {
	return EventTypeChallengeIssued
}

// ChallengeResolvedEvent is emitted for every answer attempt
type ChallengeResolvedEvent struct {
	UserID  string `json:"user_id"`
	GuildID string `json:"guild_id,omitempty"`
	Outcome string `json:"outcome"`
	// Granted is false when the answer was correct but the role grant failed.
	Granted bool `json:"granted"`
}

func (e ChallengeResolvedEvent) Type() EventType {
	return EventTypeChallengeResolved
}

// PanelCreatedEvent is emitted when an administrator creates a panel
type PanelCreatedEvent struct {
	PanelID string             `json:"panel_id"`
	Kind    entities.PanelKind `json:"kind"`
}

func (e PanelCreatedEvent) Type() EventType {
	return EventTypePanelCreated
}

// TicketOpenedEvent is emitted when a ticket channel is created
type TicketOpenedEvent struct {
	PanelID   string `json:"panel_id"`
	GuildID   string `json:"guild_id"`
	ChannelID string `json:"channel_id"`
	UserID    string `json:"user_id"`
}

func (e TicketOpenedEvent) Type() EventType {
	return EventTypeTicketOpened
}

// TicketClosedEvent is emitted when a ticket channel deletion is scheduled
type TicketClosedEvent struct {
	ChannelID string `json:"channel_id"`
	ClosedBy  string `json:"closed_by"`
}

func (e TicketClosedEvent) Type() EventType {
	return EventTypeTicketClosed
}

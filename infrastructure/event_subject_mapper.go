package infrastructure

import (
	"fmt"
	"strings"

	"inncoin/domain/events"
)

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct {
	prefix string
}

// NewEventSubjectMapper creates a mapper placing every subject under prefix
func NewEventSubjectMapper(prefix string) *EventSubjectMapper {
	return &EventSubjectMapper{prefix: prefix}
}

func (m *EventSubjectMapper) subject(suffix string) string {
	if m.prefix == "" {
		return suffix
	}
	return m.prefix + "." + suffix
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	return m.MapTypeToSubject(event.Type())
}

// MapTypeToSubject converts an event type to its NATS subject
func (m *EventSubjectMapper) MapTypeToSubject(eventType events.EventType) string {
	switch eventType {
	case events.EventTypeBalanceChange:
		return m.subject("users.balance_changed")
	case events.EventTypeChallengeIssued:
		return m.subject("auth.challenge_issued")
	case events.EventTypeChallengeResolved:
		return m.subject("auth.challenge_resolved")
	case events.EventTypePanelCreated:
		return m.subject("panels.created")
	case events.EventTypeTicketOpened:
		return m.subject("tickets.opened")
	case events.EventTypeTicketClosed:
		return m.subject("tickets.closed")
	default:
		// Fallback for unknown event types
		return m.subject(fmt.Sprintf("unknown.%s", eventType))
	}
}

// GetAllSubjects returns all subjects that this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	types := events.AllEventTypes()
	subjects := make([]string, 0, len(types))
	for _, eventType := range types {
		subjects = append(subjects, m.MapTypeToSubject(eventType))
	}
	return subjects
}

// StreamName names the JetStream stream holding the prefix's subjects
func (m *EventSubjectMapper) StreamName() string {
	if m.prefix == "" {
		return "domain_events"
	}
	return strings.ReplaceAll(m.prefix, ".", "_") + "_events"
}

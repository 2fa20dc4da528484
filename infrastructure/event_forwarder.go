package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"inncoin/domain/events"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// SourceService identifies this process in event envelopes
const SourceService = "inncoin-bot"

// publishTimeout bounds a single forwarded publish
const publishTimeout = 5 * time.Second

// MessagePublisher sends raw payloads to a subject
type MessagePublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// PublishRecorder is notified of every forwarded event
type PublishRecorder interface {
	RecordNATSMessagePublished(eventType string)
}

// EventEnvelope wraps a forwarded domain event
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Timestamp     time.Time       `json:"timestamp"`
	SourceService string          `json:"source_service"`
	Payload       json.RawMessage `json:"payload"`
}

// EventForwarder republishes domain events from the in-process bus to NATS
type EventForwarder struct {
	publisher     MessagePublisher
	subjectMapper *EventSubjectMapper
	recorder      PublishRecorder
	now           func() time.Time
}

// NewEventForwarder creates a forwarder. recorder may be nil.
func NewEventForwarder(publisher MessagePublisher, subjectMapper *EventSubjectMapper, recorder PublishRecorder) *EventForwarder {
	return &EventForwarder{
		publisher:     publisher,
		subjectMapper: subjectMapper,
		recorder:      recorder,
		now:           time.Now,
	}
}

// Attach subscribes the forwarder to every domain event type
func (f *EventForwarder) Attach(bus *events.Bus) {
	bus.SubscribeAll(f.handle, events.AllEventTypes()...)
}

func (f *EventForwarder) handle(ctx context.Context, event events.Event) {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := f.Forward(ctx, event); err != nil {
		log.WithFields(log.Fields{
			"eventType": event.Type(),
			"error":     err,
		}).Error("Failed to forward event to NATS")
	}
}

// Forward publishes one event in an envelope on its mapped subject
func (f *EventForwarder) Forward(ctx context.Context, event events.Event) error {
	subject := f.subjectMapper.MapEventToSubject(event)

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	envelope := &EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     string(event.Type()),
		Timestamp:     f.now().UTC(),
		SourceService: SourceService,
		Payload:       payload,
	}

	envelopeData, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	if err := f.publisher.Publish(ctx, subject, envelopeData); err != nil {
		// No stream captures the subject; nobody is listening.
		if strings.Contains(err.Error(), "no response from stream") {
			return nil
		}
		return fmt.Errorf("failed to publish event to NATS: %w", err)
	}

	if f.recorder != nil {
		f.recorder.RecordNATSMessagePublished(string(event.Type()))
	}

	log.WithFields(log.Fields{
		"eventType": event.Type(),
		"eventId":   envelope.EventID,
		"subject":   subject,
	}).Debug("Successfully published event to NATS")

	return nil
}

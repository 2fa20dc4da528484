package dispatch

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"inncoin/bot/common"

	log "github.com/sirupsen/logrus"
)

// User-facing rejection texts
const (
	MsgPermissionDenied = "❌ You do not have permission to use this command."
	MsgGuildOnly        = "❌ This command can only be used in a server."
	MsgUnknownCommand   = "❌ Unknown command."
	MsgInvalidControl   = "❌ This control is no longer valid."
)

// Outcome labels reported to the observer
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
	OutcomePanic    = "panic"
)

// Observer is notified once per handled event
type Observer interface {
	EventHandled(ctx context.Context, kind EventKind, name, outcome string, elapsed time.Duration)
}

// Dispatcher routes inbound events to registered handlers and guarantees a
// single terminal reply per command or activation.
type Dispatcher struct {
	registry   *Registry
	transport  Transport
	authorizer Authorizer
	observer   Observer
}

// NewDispatcher creates a dispatcher
func NewDispatcher(registry *Registry, transport Transport, authorizer Authorizer) *Dispatcher {
	return &Dispatcher{
		registry:   registry,
		transport:  transport,
		authorizer: authorizer,
	}
}

// SetObserver installs an observer
func (d *Dispatcher) SetObserver(observer Observer) {
	d.observer = observer
}

// Dispatch handles one inbound event
func (d *Dispatcher) Dispatch(ctx context.Context, event *Event) {
	start := time.Now()
	var outcome string

	switch event.Kind {
	case KindCommand:
		outcome = d.handleCommand(ctx, event)
	case KindActivation:
		outcome = d.handleActivation(ctx, event)
	case KindMessage:
		outcome = d.handleMessage(ctx, event)
	default:
		log.WithField("event_kind", event.Kind).Warn("Dropping event of unknown kind")
		return
	}

	if d.observer != nil {
		d.observer.EventHandled(ctx, event.Kind, observedName(event), outcome, time.Since(start))
	}
}

func observedName(event *Event) string {
	if event.Kind == KindActivation {
		if activation, err := ParseActivation(event.CustomID); err == nil {
			return string(activation.Kind())
		}
		return "invalid"
	}
	return event.Command
}

func (d *Dispatcher) handleCommand(ctx context.Context, event *Event) string {
	responder := NewResponder(d.transport, event)

	cmd, ok := d.registry.Command(event.Command)
	if !ok {
		d.reject(ctx, responder, event, MsgUnknownCommand)
		return OutcomeRejected
	}
	if cmd.GuildOnly && !event.InGuild() {
		d.reject(ctx, responder, event, MsgGuildOnly)
		return OutcomeRejected
	}
	if cmd.Permission != 0 && (event.Member == nil || !d.authorizer.MemberHasPermission(event.Member, cmd.Permission)) {
		d.reject(ctx, responder, event, MsgPermissionDenied)
		return OutcomeRejected
	}

	req := &Request{Event: event, Responder: responder, Transport: d.transport}
	return d.run(ctx, req, func() (*Reply, error) {
		return cmd.Handler(ctx, req)
	})
}

func (d *Dispatcher) handleActivation(ctx context.Context, event *Event) string {
	responder := NewResponder(d.transport, event)

	activation, err := ParseActivation(event.CustomID)
	if err != nil {
		d.reject(ctx, responder, event, MsgInvalidControl)
		return OutcomeRejected
	}
	handler, ok := d.registry.Activation(activation.Kind())
	if !ok {
		d.reject(ctx, responder, event, MsgInvalidControl)
		return OutcomeRejected
	}

	req := &Request{Event: event, Responder: responder, Transport: d.transport}
	return d.run(ctx, req, func() (*Reply, error) {
		return handler(ctx, req, activation)
	})
}

func (d *Dispatcher) handleMessage(ctx context.Context, event *Event) string {
	if event.User.Bot || !event.InGuild() {
		return OutcomeRejected
	}

	outcome := OutcomeOK
	for _, handler := range d.registry.MessageHandlers() {
		func() {
			defer func() {
				if r := recover(); r != nil {
					outcome = OutcomePanic
					logFields(event).WithFields(log.Fields{
						"panic": r,
						"stack": string(debug.Stack()),
					}).Error("Message handler panicked")
				}
			}()
			handler(ctx, event)
		}()
	}
	return outcome
}

// run invokes fn, converts its result into exactly one terminal reply and
// returns the outcome label
func (d *Dispatcher) run(ctx context.Context, req *Request, fn func() (*Reply, error)) (outcome string) {
	var (
		reply *Reply
		err   error
	)

	func() {
		defer func() {
			if r := recover(); r != nil {
				outcome = OutcomePanic
				err = fmt.Errorf("handler panicked: %v", r)
				logFields(req.Event).WithFields(log.Fields{
					"panic": r,
					"stack": string(debug.Stack()),
				}).Error("Handler panicked")
			}
		}()
		reply, err = fn()
	}()

	switch {
	case err != nil:
		reply = d.errorReply(req.Event, err)
		if outcome == "" {
			outcome = OutcomeFailed
			if botErr, ok := common.AsBotError(err); ok && botErr.Kind != common.KindUnexpected {
				outcome = OutcomeRejected
			}
		}
	case reply == nil:
		if req.Responder.Replied() {
			return OutcomeOK
		}
		logFields(req.Event).Warn("Handler finished without replying")
		reply = Text(common.GenericFailureMessage, true)
		outcome = OutcomeFailed
	default:
		outcome = OutcomeOK
	}

	if sendErr := req.Responder.Send(ctx, reply); sendErr != nil {
		logFields(req.Event).WithError(sendErr).Warn("Failed to deliver reply")
	}
	return outcome
}

// errorReply maps a handler error to the reply shown to the user
func (d *Dispatcher) errorReply(event *Event, err error) *Reply {
	botErr, ok := common.AsBotError(err)
	if !ok || botErr.Kind == common.KindUnexpected {
		logFields(event).WithError(err).Error("Unexpected error handling event")
		return Text(common.GenericFailureMessage, true)
	}

	entry := logFields(event).WithFields(log.Fields{
		"error_kind":   botErr.Kind.String(),
		"user_message": botErr.UserMessage,
		"context":      botErr.Context,
	})
	if botErr.Err != nil {
		entry = entry.WithError(botErr.Err)
	}
	if botErr.Kind == common.KindDelivery {
		entry.Warn(botErr.LogMessage)
	} else {
		entry.Info(botErr.LogMessage)
	}

	return Text(botErr.UserMessage, botErr.Ephemeral)
}

func (d *Dispatcher) reject(ctx context.Context, responder *Responder, event *Event, message string) {
	logFields(event).WithField("reason", message).Info("Event rejected")
	if err := responder.Send(ctx, Text(message, true)); err != nil {
		logFields(event).WithError(err).Warn("Failed to deliver rejection")
	}
}

func logFields(event *Event) *log.Entry {
	fields := log.Fields{
		"event_kind": event.Kind.String(),
		"user_id":    event.User.ID,
		"guild_id":   event.GuildID,
	}
	switch event.Kind {
	case KindCommand:
		fields["command"] = event.Name()
	case KindActivation:
		fields["custom_id"] = event.CustomID
	}
	return log.WithFields(fields)
}

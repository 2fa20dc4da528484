package dispatch

import (
	"inncoin/domain/entities"
)

// EventKind classifies an inbound event
type EventKind int

const (
	KindCommand EventKind = iota
	KindActivation
	KindMessage
)

func (k EventKind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindActivation:
		return "activation"
	case KindMessage:
		return "message"
	default:
		return "unknown"
	}
}

// Event is a platform-neutral inbound event
type Event struct {
	Kind      EventKind
	ID        string
	GuildID   string
	ChannelID string
	User      entities.User
	// Member is nil outside a guild (direct messages).
	Member *entities.Member

	// Command invocations
	Command    string
	Subcommand string
	Options    Options

	// Activations
	CustomID string

	// Passive messages
	Content string

	// Raw carries the transport's own payload so the transport can answer it.
	Raw any
}

// InGuild reports whether the event happened inside a guild
func (e *Event) InGuild() bool {
	return e.GuildID != "" && e.Member != nil
}

// Name returns the command name or custom id, for logging
func (e *Event) Name() string {
	switch e.Kind {
	case KindCommand:
		if e.Subcommand != "" {
			return e.Command + " " + e.Subcommand
		}
		return e.Command
	case KindActivation:
		return e.CustomID
	default:
		return ""
	}
}

// Options holds resolved command arguments by name. Values are int64,
// float64, string, bool, entities.User, entities.Role or entities.Channel.
type Options map[string]any

func (o Options) Int(name string) (int64, bool) {
	v, ok := o[name].(int64)
	return v, ok
}

func (o Options) Number(name string) (float64, bool) {
	switch v := o[name].(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func (o Options) String(name string) (string, bool) {
	v, ok := o[name].(string)
	return v, ok
}

func (o Options) Bool(name string) (bool, bool) {
	v, ok := o[name].(bool)
	return v, ok
}

func (o Options) User(name string) (entities.User, bool) {
	v, ok := o[name].(entities.User)
	return v, ok
}

func (o Options) Role(name string) (entities.Role, bool) {
	v, ok := o[name].(entities.Role)
	return v, ok
}

func (o Options) Channel(name string) (entities.Channel, bool) {
	v, ok := o[name].(entities.Channel)
	return v, ok
}

package dispatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Scope selects where a command is registered
type Scope int

const (
	// ScopeGuild registers the command to the configured guild only
	ScopeGuild Scope = iota
	// ScopeGlobal registers the command everywhere, including direct messages
	ScopeGlobal
)

// Request is what a handler receives
type Request struct {
	*Event
	Responder *Responder
	Transport Transport
}

// Reply sends reply through the responder
func (r *Request) Reply(ctx context.Context, reply *Reply) error {
	return r.Responder.Send(ctx, reply)
}

// Defer acknowledges the request before slow work
func (r *Request) Defer(ctx context.Context, ephemeral bool) error {
	return r.Responder.Defer(ctx, ephemeral)
}

// CommandHandler handles a command invocation. A nil reply means the handler
// already answered through the responder.
type CommandHandler func(ctx context.Context, req *Request) (*Reply, error)

// ActivationHandler handles a parsed activation
type ActivationHandler func(ctx context.Context, req *Request, activation Activation) (*Reply, error)

// MessageHandler handles a passive guild message; it never replies
type MessageHandler func(ctx context.Context, event *Event)

// Command describes a slash command
type Command struct {
	Name        string
	Description string
	Options     []*discordgo.ApplicationCommandOption
	// Permission is the required permission bit; 0 means anyone may invoke it.
	Permission int64
	// GuildOnly rejects invocations from direct messages.
	GuildOnly bool
	Scope     Scope
	Handler   CommandHandler
}

// ApplicationCommand builds the registration schema
func (c *Command) ApplicationCommand() *discordgo.ApplicationCommand {
	cmd := &discordgo.ApplicationCommand{
		Name:        c.Name,
		Description: c.Description,
		Options:     c.Options,
	}
	if c.Permission != 0 {
		perm := c.Permission
		cmd.DefaultMemberPermissions = &perm
	}
	if c.GuildOnly || c.Scope == ScopeGuild {
		dm := false
		cmd.DMPermission = &dm
	}
	return cmd
}

// Feature registers its commands and handlers
type Feature interface {
	Register(registry *Registry) error
}

// Registry holds command descriptors and event handlers
type Registry struct {
	commands    map[string]*Command
	order       []string
	activations map[ActivationKind]ActivationHandler
	messages    []MessageHandler
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		commands:    make(map[string]*Command),
		activations: make(map[ActivationKind]ActivationHandler),
	}
}

// AddCommand registers a command; names must be unique
func (r *Registry) AddCommand(cmd *Command) error {
	if cmd.Name == "" || cmd.Handler == nil {
		return fmt.Errorf("command %q is incomplete", cmd.Name)
	}
	if _, exists := r.commands[cmd.Name]; exists {
		return fmt.Errorf("command %q registered twice", cmd.Name)
	}
	r.commands[cmd.Name] = cmd
	r.order = append(r.order, cmd.Name)
	return nil
}

// OnActivation registers the handler for an activation kind
func (r *Registry) OnActivation(kind ActivationKind, handler ActivationHandler) {
	r.activations[kind] = handler
}

// OnMessage registers a passive message handler
func (r *Registry) OnMessage(handler MessageHandler) {
	r.messages = append(r.messages, handler)
}

// Command looks up a command by name
func (r *Registry) Command(name string) (*Command, bool) {
	cmd, ok := r.commands[name]
	return cmd, ok
}

// Activation looks up the handler for an activation kind
func (r *Registry) Activation(kind ActivationKind) (ActivationHandler, bool) {
	handler, ok := r.activations[kind]
	return handler, ok
}

// MessageHandlers returns the passive message handlers
func (r *Registry) MessageHandlers() []MessageHandler {
	return r.messages
}

// Commands returns every command in registration order
func (r *Registry) Commands() []*Command {
	out := make([]*Command, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.commands[name])
	}
	return out
}

// ApplicationCommands returns the schema of every command in scope
func (r *Registry) ApplicationCommands(scope Scope) []*discordgo.ApplicationCommand {
	var out []*discordgo.ApplicationCommand
	for _, cmd := range r.Commands() {
		if cmd.Scope == scope {
			out = append(out, cmd.ApplicationCommand())
		}
	}
	return out
}

var permissionNames = []struct {
	bit  int64
	name string
}{
	{discordgo.PermissionAdministrator, "Administrator"},
	{discordgo.PermissionBanMembers, "Ban Members"},
	{discordgo.PermissionKickMembers, "Kick Members"},
	{discordgo.PermissionModerateMembers, "Moderate Members"},
	{discordgo.PermissionManageRoles, "Manage Roles"},
	{discordgo.PermissionManageChannels, "Manage Channels"},
}

// PermissionName renders a permission bitset for humans
func PermissionName(permission int64) string {
	if permission == 0 {
		return "Everyone"
	}
	var names []string
	for _, p := range permissionNames {
		if permission&p.bit != 0 {
			names = append(names, p.name)
		}
	}
	if len(names) == 0 {
		return fmt.Sprintf("0x%x", permission)
	}
	return strings.Join(names, ", ")
}

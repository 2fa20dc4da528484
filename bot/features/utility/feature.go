package utility

import (
	"inncoin/bot/dispatch"

	"github.com/bwmarrin/discordgo"
)

// Feature provides ping, echo, senddm and help
type Feature struct {
	// registry is captured on Register so help can list every command.
	registry *dispatch.Registry
}

// New creates a new utility feature
func New() *Feature {
	return &Feature{}
}

// Register adds the utility commands to the registry
func (f *Feature) Register(registry *dispatch.Registry) error {
	f.registry = registry

	commands := []*dispatch.Command{
		{
			Name:        "ping",
			Description: "Show the gateway latency",
			Scope:       dispatch.ScopeGlobal,
			Handler:     f.handlePing,
		},
		{
			Name:        "echo",
			Description: "Make the bot post a message in this channel",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "message",
					Description: "Text to post",
					Required:    true,
				},
			},
			Permission: discordgo.PermissionAdministrator,
			Scope:      dispatch.ScopeGlobal,
			Handler:    f.handleEcho,
		},
		{
			Name:        "senddm",
			Description: "Send a direct message to a member",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "target",
					Description: "Recipient",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "message",
					Description: "Text to send",
					Required:    true,
				},
			},
			Permission: discordgo.PermissionAdministrator,
			Scope:      dispatch.ScopeGlobal,
			Handler:    f.handleSendDM,
		},
		{
			Name:        "help",
			Description: "List every command",
			Scope:       dispatch.ScopeGlobal,
			Handler:     f.handleHelp,
		},
	}
	for _, cmd := range commands {
		if err := registry.AddCommand(cmd); err != nil {
			return err
		}
	}
	return nil
}

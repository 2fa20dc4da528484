package auth

import (
	"time"

	"inncoin/bot/dispatch"
	"inncoin/domain/interfaces"

	"github.com/bwmarrin/discordgo"
)

// Feature provides role verification through arithmetic challenges
type Feature struct {
	auth interfaces.AuthService
	// ttl is shown to users so they know how long a code stays valid.
	ttl time.Duration
}

// New creates a new auth feature
func New(auth interfaces.AuthService, ttl time.Duration) *Feature {
	return &Feature{
		auth: auth,
		ttl:  ttl,
	}
}

// Register adds the auth commands and activation handlers to the registry
func (f *Feature) Register(registry *dispatch.Registry) error {
	commands := []*dispatch.Command{
		{
			Name:        "auth-panel",
			Description: "Post a verification panel that grants a role",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        "role",
					Description: "Role granted after verification",
					Required:    true,
				},
			},
			Permission: discordgo.PermissionAdministrator,
			GuildOnly:  true,
			Scope:      dispatch.ScopeGlobal,
			Handler:    f.handleAuthPanel,
		},
		{
			Name:        "auth",
			Description: "Submit your verification code",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "code",
					Description: "The answer to the puzzle you received",
					Required:    true,
				},
			},
			Scope:   dispatch.ScopeGlobal,
			Handler: f.handleAuth,
		},
	}
	for _, cmd := range commands {
		if err := registry.AddCommand(cmd); err != nil {
			return err
		}
	}

	registry.OnActivation(dispatch.ActivationAuthStart, f.handleStart)
	registry.OnActivation(dispatch.ActivationAuthPick, f.handlePick)
	return nil
}

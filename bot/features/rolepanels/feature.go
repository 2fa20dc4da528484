package rolepanels

import (
	"inncoin/bot/dispatch"
	"inncoin/domain/interfaces"

	"github.com/bwmarrin/discordgo"
)

var roleOptionNames = []string{"role1", "role2", "role3", "role4", "role5"}

// Feature provides self-service role panels
type Feature struct {
	panels interfaces.RolePanelService
}

// New creates a new role panels feature
func New(panels interfaces.RolePanelService) *Feature {
	return &Feature{panels: panels}
}

// Register adds the role panel command and the toggle handler to the registry
func (f *Feature) Register(registry *dispatch.Registry) error {
	options := []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "title",
			Description: "Title shown on the panel",
			Required:    true,
		},
	}
	for i, name := range roleOptionNames {
		options = append(options, &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionRole,
			Name:        name,
			Description: "Role members can toggle",
			Required:    i == 0,
		})
	}

	err := registry.AddCommand(&dispatch.Command{
		Name:        "role-panel",
		Description: "Post a panel that lets members pick their own roles",
		Options:     options,
		Permission:  discordgo.PermissionAdministrator,
		GuildOnly:   true,
		Scope:       dispatch.ScopeGlobal,
		Handler:     f.handleRolePanel,
	})
	if err != nil {
		return err
	}

	registry.OnActivation(dispatch.ActivationRoleToggle, f.handleToggle)
	return nil
}

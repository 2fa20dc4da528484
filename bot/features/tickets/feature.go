package tickets

import (
	"inncoin/bot/dispatch"
	"inncoin/domain/interfaces"

	"github.com/bwmarrin/discordgo"
)

// Feature provides ticket panels and private ticket channels
type Feature struct {
	tickets interfaces.TicketService
}

// New creates a new tickets feature
func New(tickets interfaces.TicketService) *Feature {
	return &Feature{tickets: tickets}
}

// Register adds the ticket command and activation handlers to the registry
func (f *Feature) Register(registry *dispatch.Registry) error {
	options := []*discordgo.ApplicationCommandOption{
		{
			Type:         discordgo.ApplicationCommandOptionChannel,
			Name:         "category",
			Description:  "Category ticket channels are created in",
			Required:     true,
			ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildCategory},
		},
	}
	for i, name := range roleOptionNames {
		options = append(options, &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionRole,
			Name:        name,
			Description: "Staff role that can see tickets",
			Required:    i == 0,
		})
	}

	err := registry.AddCommand(&dispatch.Command{
		Name:        "ticket-panel",
		Description: "Post a panel that opens private support tickets",
		Options:     options,
		Permission:  discordgo.PermissionAdministrator,
		GuildOnly:   true,
		Scope:       dispatch.ScopeGlobal,
		Handler:     f.handleTicketPanel,
	})
	if err != nil {
		return err
	}

	registry.OnActivation(dispatch.ActivationTicketCreate, f.handleCreate)
	registry.OnActivation(dispatch.ActivationTicketClose, f.handleClose)
	return nil
}

var roleOptionNames = []string{"role1", "role2", "role3", "role4"}

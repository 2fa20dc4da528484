package economy

import (
	"inncoin/bot/dispatch"
	"inncoin/domain/interfaces"

	"github.com/bwmarrin/discordgo"
)

// Feature provides the InnCoin commands and the passive chat reward
type Feature struct {
	economy interfaces.EconomyService
	gateway interfaces.GuildGateway
}

// New creates a new economy feature
func New(economy interfaces.EconomyService, gateway interfaces.GuildGateway) *Feature {
	return &Feature{
		economy: economy,
		gateway: gateway,
	}
}

// Register adds the economy commands to the registry
func (f *Feature) Register(registry *dispatch.Registry) error {
	for _, cmd := range f.commands() {
		if err := registry.AddCommand(cmd); err != nil {
			return err
		}
	}
	registry.OnMessage(f.handleMessage)
	return nil
}

func (f *Feature) commands() []*dispatch.Command {
	return []*dispatch.Command{
		{
			Name:        "gambling",
			Description: "Bet InnCoin for a chance to multiply it",
			Options: []*discordgo.ApplicationCommandOption{
				amountOption("Amount of InnCoin to bet"),
			},
			GuildOnly: true,
			Handler:   f.handleGambling,
		},
		{
			Name:        "money",
			Description: "Show the InnCoin balance of a member",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Member to check (defaults to you)",
				},
			},
			GuildOnly: true,
			Handler:   f.handleMoney,
		},
		{
			Name:        "load",
			Description: "Privately check your InnCoin balance",
			GuildOnly:   true,
			Handler:     f.handleLoad,
		},
		{
			Name:        "work",
			Description: "Work a shift for InnCoin (every 2 hours)",
			GuildOnly:   true,
			Handler:     f.handleWork,
		},
		{
			Name:        "rob",
			Description: "Try to steal InnCoin from another member (every 3 hours)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "target",
					Description: "Member to rob",
					Required:    true,
				},
			},
			GuildOnly: true,
			Handler:   f.handleRob,
		},
		{
			Name:        "give-money",
			Description: "Give InnCoin to a member or to everyone with a role",
			Options:     recipientOptions("Amount each recipient receives"),
			GuildOnly:   true,
			Handler:     f.handleGiveMoney,
		},
		{
			Name:        "add-money",
			Description: "Add InnCoin to a member or to everyone with a role",
			Options:     recipientOptions("Amount to add to each member"),
			Permission:  discordgo.PermissionAdministrator,
			GuildOnly:   true,
			Handler:     f.handleAddMoney,
		},
		{
			Name:        "remove-money",
			Description: "Remove InnCoin from a member or from everyone with a role",
			Options:     recipientOptions("Amount to remove from each member"),
			Permission:  discordgo.PermissionAdministrator,
			GuildOnly:   true,
			Handler:     f.handleRemoveMoney,
		},
		{
			Name:        "channel-money",
			Description: "Reward every message in a channel with InnCoin",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:         discordgo.ApplicationCommandOptionChannel,
					Name:         "channel",
					Description:  "Channel whose messages earn InnCoin",
					Required:     true,
					ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
				},
				boundOption("min", "Minimum reward per message"),
				boundOption("max", "Maximum reward per message"),
			},
			Permission: discordgo.PermissionAdministrator,
			GuildOnly:  true,
			Handler:    f.handleChannelMoney,
		},
	}
}

func amountOption(description string) *discordgo.ApplicationCommandOption {
	minValue := 1.0
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        "amount",
		Description: description,
		Required:    true,
		MinValue:    &minValue,
	}
}

func boundOption(name, description string) *discordgo.ApplicationCommandOption {
	minValue := 0.0
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        name,
		Description: description,
		Required:    true,
		MinValue:    &minValue,
	}
}

func recipientOptions(amountDescription string) []*discordgo.ApplicationCommandOption {
	return []*discordgo.ApplicationCommandOption{
		amountOption(amountDescription),
		{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "A single member",
		},
		{
			Type:        discordgo.ApplicationCommandOptionRole,
			Name:        "role",
			Description: "Every member holding this role",
		},
	}
}

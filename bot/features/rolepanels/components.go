package rolepanels

import (
	"inncoin/bot/dispatch"
	"inncoin/domain/entities"

	"github.com/bwmarrin/discordgo"
)

// buildPanelComponents renders one toggle button per option; five options fit one row
func buildPanelComponents(panel *entities.Panel) []discordgo.MessageComponent {
	buttons := make([]discordgo.MessageComponent, 0, len(panel.Options))
	for i, option := range panel.Options {
		buttons = append(buttons, discordgo.Button{
			Label:    option.Label,
			Style:    discordgo.SecondaryButton,
			CustomID: dispatch.RoleToggle{PanelID: panel.ID, Index: i}.CustomID(),
			Emoji: &discordgo.ComponentEmoji{
				Name: option.Symbol,
			},
		})
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: buttons},
	}
}

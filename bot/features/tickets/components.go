package tickets

import (
	"inncoin/bot/dispatch"

	"github.com/bwmarrin/discordgo"
)

func buildPanelComponents(panelID string) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Open ticket",
					Style:    discordgo.PrimaryButton,
					CustomID: dispatch.TicketCreate{PanelID: panelID}.CustomID(),
					Emoji: &discordgo.ComponentEmoji{
						Name: "🎫",
					},
				},
			},
		},
	}
}

func buildCloseComponents() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Close",
					Style:    discordgo.DangerButton,
					CustomID: dispatch.TicketClose{}.CustomID(),
					Emoji: &discordgo.ComponentEmoji{
						Name: "🔒",
					},
				},
			},
		},
	}
}

package auth

import (
	"strconv"

	"inncoin/bot/dispatch"
	"inncoin/domain/entities"

	"github.com/bwmarrin/discordgo"
)

func buildPanelComponents(roleID string) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Verify",
					Style:    discordgo.SuccessButton,
					CustomID: dispatch.AuthStart{RoleID: roleID}.CustomID(),
					Emoji: &discordgo.ComponentEmoji{
						Name: "✅",
					},
				},
			},
		},
	}
}

// buildChoiceComponents renders one button per candidate, bound to the challenge owner
func buildChoiceComponents(challenge *entities.Challenge) []discordgo.MessageComponent {
	buttons := make([]discordgo.MessageComponent, 0, len(challenge.Choices))
	for _, value := range challenge.Choices {
		buttons = append(buttons, discordgo.Button{
			Label:    strconv.FormatInt(value, 10),
			Style:    discordgo.SecondaryButton,
			CustomID: dispatch.AuthPick{UserID: challenge.UserID, Nonce: challenge.Nonce, Value: value}.CustomID(),
		})
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: buttons},
	}
}

package auth

import (
	"fmt"
	"time"

	"inncoin/bot/common"
	"inncoin/domain/entities"

	"github.com/bwmarrin/discordgo"
)

func buildPanelEmbed(role entities.Role) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🔐 Verification",
		Description: fmt.Sprintf("Press the button below and solve a quick puzzle to receive %s.", role.Mention()),
		Color:       common.ColorPrimary,
	}
}

func buildDirectEmbeds(challenge *entities.Challenge, role *entities.Role, ttl time.Duration) []*discordgo.MessageEmbed {
	return []*discordgo.MessageEmbed{
		{
			Title: "🔐 Verification puzzle",
			Description: fmt.Sprintf("What is **%s**?\n\nAnswer with `/auth code:<answer>` within %s to receive **%s**.",
				challenge.Expression(), common.FormatDuration(ttl), role.Name),
			Color: common.ColorPrimary,
		},
	}
}

func buildChoiceEmbeds(challenge *entities.Challenge, role *entities.Role, ttl time.Duration) []*discordgo.MessageEmbed {
	return []*discordgo.MessageEmbed{
		{
			Title: "🔐 Verification puzzle",
			Description: fmt.Sprintf("What is **%s**?\n\nPick the right answer within %s to receive **%s**.",
				challenge.Expression(), common.FormatDuration(ttl), role.Name),
			Color: common.ColorPrimary,
		},
	}
}

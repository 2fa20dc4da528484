package tickets

import (
	"fmt"
	"strings"
	"time"

	"inncoin/bot/common"

	"github.com/bwmarrin/discordgo"
)

func buildPanelEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🎫 Support",
		Description: "Need help from the staff? Press the button below to open a private ticket.",
		Color:       common.ColorPrimary,
	}
}

func buildWelcomeEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🎫 Ticket opened",
		Description: "Describe your request and a staff member will be with you shortly. Press **Close** when you are done.",
		Color:       common.ColorInfo,
	}
}

func buildClosingEmbed(closedBy string, delay time.Duration) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🔒 Ticket closed",
		Description: fmt.Sprintf("Closed by %s. This channel will be deleted in %d seconds.", closedBy, int(delay.Seconds())),
		Color:       common.ColorWarning,
	}
}

// welcomeContent pings the ticket owner and the staff roles
func welcomeContent(ownerMention string, roleIDs []string) string {
	mentions := []string{ownerMention}
	for _, roleID := range roleIDs {
		mentions = append(mentions, "<@&"+roleID+">")
	}
	return strings.Join(mentions, " ")
}

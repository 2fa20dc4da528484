package rolepanels

import (
	"fmt"
	"strings"

	"inncoin/bot/common"
	"inncoin/domain/entities"

	"github.com/bwmarrin/discordgo"
)

func buildPanelEmbed(title string, panel *entities.Panel) *discordgo.MessageEmbed {
	var lines []string
	for _, option := range panel.Options {
		lines = append(lines, fmt.Sprintf("%s <@&%s>", option.Symbol, option.RoleID))
	}

	return &discordgo.MessageEmbed{
		Title:       title,
		Description: strings.Join(lines, "\n"),
		Color:       common.ColorPrimary,
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Press a button to add or remove the role",
		},
	}
}

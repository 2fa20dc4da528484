package economy

import (
	"fmt"

	"inncoin/bot/common"
	"inncoin/domain/entities"

	"github.com/bwmarrin/discordgo"
)

func buildGambleEmbed(playerName string, result *entities.GambleResult) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "🎰 Gambling",
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Stake",
				Value:  common.FormatCoins(result.Stake),
				Inline: true,
			},
			{
				Name:   "Multiplier",
				Value:  common.FormatMultiplier(result.Multiplier),
				Inline: true,
			},
			{
				Name:   "Net",
				Value:  common.FormatSignedCoins(result.Net()),
				Inline: true,
			},
			{
				Name:   "Balance",
				Value:  common.FormatCoins(result.NewBalance),
				Inline: false,
			},
		},
	}

	if result.Won() {
		embed.Color = common.ColorSuccess
		embed.Description = fmt.Sprintf("🎉 **%s** won %s!", playerName, common.FormatCoins(result.Net()))
	} else {
		embed.Color = common.ColorDanger
		embed.Description = fmt.Sprintf("💸 **%s** lost %s.", playerName, common.FormatCoins(-result.Net()))
	}

	return embed
}

func buildBalanceEmbed(user entities.User, balance int64) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "💰 Balance",
		Description: fmt.Sprintf("%s has **%s**", user.Mention(), common.FormatCoins(balance)),
		Color:       common.ColorGold,
	}
}

func buildWorkEmbed(workerName string, result *entities.WorkResult) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "⚒️ Work",
		Description: fmt.Sprintf("**%s** worked a shift and earned %s.", workerName, common.FormatCoins(result.Earned)),
		Color:       common.ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:  "Balance",
				Value: common.FormatCoins(result.NewBalance),
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "You can work again in 2 hours",
		},
	}
}

func buildRobEmbed(robber, target entities.User, result *entities.RobResult) *discordgo.MessageEmbed {
	if result.Success {
		return &discordgo.MessageEmbed{
			Title: "🦹 Robbery succeeded",
			Description: fmt.Sprintf("%s stole %s (%s) from %s!",
				robber.Mention(), common.FormatCoins(result.Amount), common.FormatPercent(result.Fraction), target.Mention()),
			Color: common.ColorSuccess,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Your balance", Value: common.FormatCoins(result.RobberBalance), Inline: true},
				{Name: "Their balance", Value: common.FormatCoins(result.TargetBalance), Inline: true},
			},
		}
	}

	return &discordgo.MessageEmbed{
		Title: "🚨 Robbery failed",
		Description: fmt.Sprintf("%s got caught trying to rob %s and paid a fine of %s.",
			robber.Mention(), target.Mention(), common.FormatCoins(result.Amount)),
		Color: common.ColorDanger,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Your balance", Value: common.FormatCoins(result.RobberBalance), Inline: true},
		},
	}
}

func buildTransferEmbed(giver entities.User, recipientLabel string, result *entities.TransferResult) *discordgo.MessageEmbed {
	description := fmt.Sprintf("%s gave %s to %s.", giver.Mention(), common.FormatCoins(result.Amount), recipientLabel)
	if result.RecipientCount > 1 {
		description = fmt.Sprintf("%s gave %s each to %d members of %s.",
			giver.Mention(), common.FormatCoins(result.Amount), result.RecipientCount, recipientLabel)
	}

	return &discordgo.MessageEmbed{
		Title:       "💸 Transfer",
		Description: description,
		Color:       common.ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Total", Value: common.FormatCoins(result.TotalCost), Inline: true},
			{Name: "Your balance", Value: common.FormatCoins(result.GiverBalance), Inline: true},
		},
	}
}

func buildAdjustmentEmbed(recipientLabel string, result *entities.AdjustmentResult) *discordgo.MessageEmbed {
	verb := "Added"
	preposition := "to"
	color := common.ColorSuccess
	amount := result.Delta
	if amount < 0 {
		verb = "Removed"
		preposition = "from"
		color = common.ColorWarning
		amount = -amount
	}

	return &discordgo.MessageEmbed{
		Title: "🏦 Balance adjustment",
		Description: fmt.Sprintf("%s %s %s %s (%d %s).",
			verb, common.FormatCoins(amount), preposition, recipientLabel, result.Affected, pluralMembers(result.Affected)),
		Color: color,
	}
}

func buildChannelRewardEmbed(channel entities.Channel, reward entities.RewardRange) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "💬 Chat reward",
		Description: fmt.Sprintf("Every message in %s now earns between %s and %s.",
			channel.Mention(), common.FormatBalance(reward.Min), common.FormatCoins(reward.Max)),
		Color: common.ColorInfo,
	}
}

func pluralMembers(n int) string {
	if n == 1 {
		return "member"
	}
	return "members"
}

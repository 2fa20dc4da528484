package bot

import (
	"fmt"

	"inncoin/bot/dispatch"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// registerCommands replaces the registered command set of each scope.
// Guild-scoped commands are skipped when no guild is configured.
func (b *Bot) registerCommands(registry *dispatch.Registry) error {
	appID := b.session.State.User.ID

	if b.config.GuildID == "" {
		log.Warn("GUILD_ID not set, skipping guild command registration")
	} else {
		if err := b.overwrite(appID, b.config.GuildID, registry.ApplicationCommands(dispatch.ScopeGuild)); err != nil {
			return err
		}
	}

	return b.overwrite(appID, "", registry.ApplicationCommands(dispatch.ScopeGlobal))
}

func (b *Bot) overwrite(appID, guildID string, commands []*discordgo.ApplicationCommand) error {
	if commands == nil {
		commands = []*discordgo.ApplicationCommand{}
	}
	registered, err := b.session.ApplicationCommandBulkOverwrite(appID, guildID, commands)
	if err != nil {
		scope := "global"
		if guildID != "" {
			scope = "guild " + guildID
		}
		return fmt.Errorf("failed to register %s commands: %w", scope, err)
	}

	log.WithFields(log.Fields{
		"guild_id": guildID,
		"count":    len(registered),
	}).Info("Registered slash commands")
	return nil
}

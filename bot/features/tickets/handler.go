package tickets

import (
	"context"
	"errors"
	"fmt"

	"inncoin/bot/common"
	"inncoin/bot/dispatch"
	"inncoin/domain/services"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const msgPanelGone = "❌ This ticket panel is no longer valid. Ask an admin to recreate it."

func (f *Feature) handleTicketPanel(ctx context.Context, req *dispatch.Request) (*dispatch.Reply, error) {
	category, ok := req.Options.Channel("category")
	if !ok {
		return nil, common.NewUserError("❌ Choose a category for the tickets.", "ticket-panel without category")
	}

	var roleIDs []string
	for _, name := range roleOptionNames {
		if role, ok := req.Options.Role(name); ok {
			roleIDs = append(roleIDs, role.ID)
		}
	}

	panel, err := f.tickets.CreatePanel(ctx, req.GuildID, category.ID, roleIDs)
	switch {
	case errors.Is(err, services.ErrInvalidPanel):
		return nil, common.NewUserError("❌ A ticket panel needs between 1 and 4 staff roles.", err.Error())
	case errors.Is(err, services.ErrRoleGone):
		return nil, common.NewNotFoundError("❌ One of the roles no longer exists.", err)
	case err != nil:
		return nil, common.NewSystemError(err, "failed to create ticket panel")
	}

	message := &dispatch.Reply{
		Embeds:     []*discordgo.MessageEmbed{buildPanelEmbed()},
		Components: buildPanelComponents(panel.ID),
	}
	if err := req.Transport.SendToChannel(ctx, req.ChannelID, message); err != nil {
		return nil, common.NewDeliveryError("❌ Could not post the panel here. Check the bot's permissions in this channel.", err)
	}

	log.WithFields(log.Fields{
		"guild_id":    req.GuildID,
		"panel_id":    panel.ID,
		"category_id": category.ID,
		"roles":       len(roleIDs),
	}).Info("Ticket panel posted")

	return dispatch.Text("✅ Ticket panel posted.", true), nil
}

func (f *Feature) handleCreate(ctx context.Context, req *dispatch.Request, activation dispatch.Activation) (*dispatch.Reply, error) {
	create := activation.(dispatch.TicketCreate)
	if !req.InGuild() {
		return nil, common.NewUserError(dispatch.MsgGuildOnly, "ticket create outside a guild")
	}

	if err := req.Defer(ctx, true); err != nil {
		return nil, common.NewDeliveryError(common.GenericFailureMessage, err)
	}

	outcome, err := f.tickets.Open(ctx, create.PanelID, req.Member)
	switch {
	case errors.Is(err, services.ErrPanelGone):
		return nil, common.NewNotFoundError(msgPanelGone, err)
	case err != nil:
		return nil, common.NewDeliveryError("❌ Could not create your ticket. Check the bot's permissions.", err)
	}

	if !outcome.Created {
		return dispatch.Text(fmt.Sprintf("ℹ️ You already have an open ticket: %s", outcome.Channel.Mention()), true), nil
	}

	welcome := &dispatch.Reply{
		Content:    welcomeContent(req.User.Mention(), outcome.RoleIDs),
		Embeds:     []*discordgo.MessageEmbed{buildWelcomeEmbed()},
		Components: buildCloseComponents(),
	}
	if err := req.Transport.SendToChannel(ctx, outcome.Channel.ID, welcome); err != nil {
		log.WithError(err).WithField("channel_id", outcome.Channel.ID).Warn("Failed to post ticket welcome message")
	}

	return dispatch.Text(fmt.Sprintf("✅ Your ticket is ready: %s", outcome.Channel.Mention()), true), nil
}

func (f *Feature) handleClose(ctx context.Context, req *dispatch.Request, activation dispatch.Activation) (*dispatch.Reply, error) {
	delay, err := f.tickets.Close(ctx, req.ChannelID, req.User.ID)
	if err != nil {
		return nil, common.NewNotFoundError(msgPanelGone, err)
	}

	return &dispatch.Reply{
		Embeds: []*discordgo.MessageEmbed{buildClosingEmbed(req.User.Mention(), delay)},
	}, nil
}

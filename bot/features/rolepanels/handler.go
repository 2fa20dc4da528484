package rolepanels

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

func (f *Feature) handleRolePanel(ctx context.Context, req *dispatch.Request) (*dispatch.Reply, error) {
	title, _ := req.Options.String("title")

	var roleIDs []string
	for _, name := range roleOptionNames {
		if role, ok := req.Options.Role(name); ok {
			roleIDs = append(roleIDs, role.ID)
		}
	}

	panel, err := f.panels.CreatePanel(ctx, req.GuildID, roleIDs)
	switch {
	case errors.Is(err, services.ErrInvalidPanel):
		return nil, common.NewUserError("❌ A role panel needs between 1 and 5 different roles.", err.Error())
	case errors.Is(err, services.ErrRoleGone):
		return nil, common.NewNotFoundError("❌ One of the roles no longer exists.", err)
	case err != nil:
		return nil, common.NewSystemError(err, "failed to create role panel")
	}

	message := &dispatch.Reply{
		Embeds:     []*discordgo.MessageEmbed{buildPanelEmbed(title, panel)},
		Components: buildPanelComponents(panel),
	}
	if err := req.Transport.SendToChannel(ctx, req.ChannelID, message); err != nil {
		return nil, common.NewDeliveryError("❌ Could not post the panel here. Check the bot's permissions in this channel.", err)
	}

	log.WithFields(log.Fields{
		"guild_id": req.GuildID,
		"panel_id": panel.ID,
		"roles":    len(panel.Options),
	}).Info("Role panel posted")

	return dispatch.Text("✅ Role panel posted.", true), nil
}

func (f *Feature) handleToggle(ctx context.Context, req *dispatch.Request, activation dispatch.Activation) (*dispatch.Reply, error) {
	toggle := activation.(dispatch.RoleToggle)
	if !req.InGuild() {
		return nil, common.NewUserError(dispatch.MsgGuildOnly, "role toggle outside a guild")
	}

	result, err := f.panels.Toggle(ctx, toggle.PanelID, toggle.Index, req.Member)
	switch {
	case errors.Is(err, services.ErrPanelGone):
		return nil, common.NewNotFoundError("❌ This role panel is no longer valid. Ask an admin to recreate it.", err)
	case errors.Is(err, services.ErrRoleGone):
		return nil, common.NewNotFoundError("❌ That role no longer exists.", err)
	case err != nil:
		return nil, common.NewDeliveryError("❌ Could not update your roles. Check the bot's permissions.", err)
	}

	if result.Added {
		return dispatch.Text(fmt.Sprintf("✅ You now have %s.", result.Role.Mention()), true), nil
	}
	return dispatch.Text(fmt.Sprintf("➖ Removed %s.", result.Role.Mention()), true), nil
}

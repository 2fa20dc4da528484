package utility

import (
	"context"
	"fmt"
	"strings"

	"inncoin/bot/common"
	"inncoin/bot/dispatch"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handlePing(ctx context.Context, req *dispatch.Request) (*dispatch.Reply, error) {
	latency := req.Transport.Latency()
	return dispatch.Text(fmt.Sprintf("🏓 Pong! Gateway latency: %dms", latency.Milliseconds()), false), nil
}

// handleEcho posts the text as a plain channel message and acknowledges privately
func (f *Feature) handleEcho(ctx context.Context, req *dispatch.Request) (*dispatch.Reply, error) {
	message, _ := req.Options.String("message")
	if strings.TrimSpace(message) == "" {
		return nil, common.NewUserError("❌ The message must not be empty.", "empty echo")
	}

	if err := req.Transport.SendToChannel(ctx, req.ChannelID, dispatch.Text(message, false)); err != nil {
		return nil, common.NewDeliveryError("❌ Could not post in this channel. Check the bot's permissions.", err)
	}
	return dispatch.Text("✅ Sent.", true), nil
}

func (f *Feature) handleSendDM(ctx context.Context, req *dispatch.Request) (*dispatch.Reply, error) {
	target, ok := req.Options.User("target")
	if !ok {
		return nil, common.NewUserError("❌ Choose a recipient.", "senddm without target")
	}
	message, _ := req.Options.String("message")

	if err := req.Transport.SendDirect(ctx, target.ID, dispatch.Text(message, false)); err != nil {
		return nil, common.NewDeliveryError(
			fmt.Sprintf("❌ Could not send a direct message to %s. They may have DMs disabled.", target.Mention()), err)
	}

	log.WithFields(log.Fields{
		"sender_id":    req.User.ID,
		"recipient_id": target.ID,
	}).Info("Direct message sent")

	return dispatch.Text(fmt.Sprintf("✅ Message sent to %s.", target.Mention()), true), nil
}

func (f *Feature) handleHelp(ctx context.Context, req *dispatch.Request) (*dispatch.Reply, error) {
	var lines []string
	for _, cmd := range f.registry.Commands() {
		lines = append(lines, fmt.Sprintf("`/%s` %s (%s)", cmd.Name, cmd.Description, dispatch.PermissionName(cmd.Permission)))
	}

	return dispatch.Embed(&discordgo.MessageEmbed{
		Title:       "📖 Commands",
		Description: strings.Join(lines, "\n"),
		Color:       common.ColorInfo,
	}, true), nil
}

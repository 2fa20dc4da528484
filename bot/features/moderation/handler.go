package moderation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"inncoin/bot/common"
	"inncoin/bot/dispatch"
	"inncoin/domain/entities"

	log "github.com/sirupsen/logrus"
)

const (
	defaultReason = "No reason provided"
	unmuteTimeout = 10 * time.Second
)

func (f *Feature) handleBan(ctx context.Context, req *dispatch.Request) (*dispatch.Reply, error) {
	target, err := f.target(req, "ban")
	if err != nil {
		return nil, err
	}
	reason := reasonOf(req.Options)

	if err := f.moderator.BanMember(ctx, req.GuildID, target.ID, reason); err != nil {
		return nil, remoteFailure("ban", target, err)
	}

	f.audit(req, "ban", target.ID, reason)
	return dispatch.Text(fmt.Sprintf("🔨 %s was banned. Reason: %s", target.Mention(), reason), false), nil
}

func (f *Feature) handleKick(ctx context.Context, req *dispatch.Request) (*dispatch.Reply, error) {
	target, err := f.target(req, "kick")
	if err != nil {
		return nil, err
	}
	reason := reasonOf(req.Options)

	if err := f.moderator.KickMember(ctx, req.GuildID, target.ID, reason); err != nil {
		return nil, remoteFailure("kick", target, err)
	}

	f.audit(req, "kick", target.ID, reason)
	return dispatch.Text(fmt.Sprintf("👢 %s was kicked. Reason: %s", target.Mention(), reason), false), nil
}

func (f *Feature) handleMute(ctx context.Context, req *dispatch.Request) (*dispatch.Reply, error) {
	target, err := f.target(req, "mute")
	if err != nil {
		return nil, err
	}
	minutes, _ := req.Options.Int("minutes")
	if minutes < 1 || minutes > maxTimeoutMinutes {
		return nil, common.NewUserError(fmt.Sprintf("❌ Minutes must be between 1 and %d.", maxTimeoutMinutes), "mute duration out of range")
	}
	muteType := muteTypeOf(req.Options)
	reason := reasonOf(req.Options)
	duration := time.Duration(minutes) * time.Minute

	var applied []string
	if muteType == MuteText || muteType == MuteAll {
		until := f.clock.Now().Add(duration)
		if err := f.moderator.TimeoutMember(ctx, req.GuildID, target.ID, &until, reason); err != nil {
			return nil, remoteFailure("mute", target, err)
		}
		applied = append(applied, MuteText)
	}

	voiceFailed := false
	if muteType == MuteVoice || muteType == MuteAll {
		if f.moderator.InVoice(req.GuildID, target.ID) {
			if err := f.moderator.SetVoiceMute(ctx, req.GuildID, target.ID, true); err != nil {
				if len(applied) == 0 {
					return nil, remoteFailure("mute", target, err)
				}
				log.WithFields(log.Fields{
					"guild_id": req.GuildID,
					"user_id":  target.ID,
				}).WithError(err).Warn("Voice mute failed after timeout was applied")
				voiceFailed = true
			} else {
				f.scheduleVoiceUnmute(req.GuildID, target.ID, duration)
				applied = append(applied, MuteVoice)
			}
		} else if muteType == MuteVoice {
			return nil, common.NewUserError(fmt.Sprintf("❌ %s is not in a voice channel.", target.Mention()), "voice mute target not in voice")
		}
	}

	f.audit(req, "mute", target.ID, reason)
	message := fmt.Sprintf("🔇 %s was muted (%s) for %d minutes. Reason: %s",
		target.Mention(), strings.Join(applied, ", "), minutes, reason)
	if voiceFailed {
		message += "\n⚠️ The voice mute failed. Check the bot's permissions."
	}
	return dispatch.Text(message, false), nil
}

// scheduleVoiceUnmute lifts a voice mute once its duration has elapsed
func (f *Feature) scheduleVoiceUnmute(guildID, userID string, after time.Duration) {
	f.scheduler.AfterFunc(after, func() {
		ctx, cancel := context.WithTimeout(context.Background(), unmuteTimeout)
		defer cancel()

		fields := log.Fields{"guild_id": guildID, "user_id": userID}
		if err := f.moderator.SetVoiceMute(ctx, guildID, userID, false); err != nil {
			log.WithFields(fields).WithError(err).Warn("Failed to lift voice mute")
			return
		}
		log.WithFields(fields).Info("Voice mute expired")
	})
}

func (f *Feature) handleUnmute(ctx context.Context, req *dispatch.Request) (*dispatch.Reply, error) {
	target, ok := req.Options.User("target")
	if !ok {
		return nil, common.NewUserError("❌ Choose a member.", "unmute without target")
	}
	muteType := muteTypeOf(req.Options)

	if muteType == MuteText || muteType == MuteAll {
		if err := f.moderator.TimeoutMember(ctx, req.GuildID, target.ID, nil, "unmuted"); err != nil {
			return nil, remoteFailure("unmute", target, err)
		}
	}
	if muteType == MuteVoice || muteType == MuteAll {
		if f.moderator.InVoice(req.GuildID, target.ID) {
			if err := f.moderator.SetVoiceMute(ctx, req.GuildID, target.ID, false); err != nil {
				return nil, remoteFailure("unmute", target, err)
			}
		} else if muteType == MuteVoice {
			return nil, common.NewUserError(fmt.Sprintf("❌ %s is not in a voice channel.", target.Mention()), "voice unmute target not in voice")
		}
	}

	f.audit(req, "unmute", target.ID, "")
	return dispatch.Text(fmt.Sprintf("🔊 %s was unmuted.", target.Mention()), false), nil
}

func (f *Feature) handleUnban(ctx context.Context, req *dispatch.Request) (*dispatch.Reply, error) {
	userID, _ := req.Options.String("user_id")
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, common.NewUserError("❌ Enter the ID of the banned user.", "unban without user id")
	}
	reason := reasonOf(req.Options)

	if err := f.moderator.UnbanUser(ctx, req.GuildID, userID, reason); err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return nil, common.NewNotFoundError("❌ That user is not banned.", err)
		}
		return nil, common.NewDeliveryError("❌ Could not unban that user. Check the bot's permissions.", err)
	}

	f.audit(req, "unban", userID, reason)
	return dispatch.Text(fmt.Sprintf("✅ <@%s> was unbanned.", userID), false), nil
}

func (f *Feature) handleRole(ctx context.Context, req *dispatch.Request) (*dispatch.Reply, error) {
	target, ok := req.Options.User("target")
	if !ok {
		return nil, common.NewUserError("❌ Choose a member.", "role without target")
	}
	role, ok := req.Options.Role("role")
	if !ok {
		return nil, common.NewUserError("❌ Choose a role.", "role without role")
	}

	var (
		err     error
		message string
	)
	switch req.Subcommand {
	case "add":
		err = f.gateway.AddRoleToMember(ctx, req.GuildID, target.ID, role.ID)
		message = fmt.Sprintf("✅ Gave %s to %s.", role.Mention(), target.Mention())
	case "remove":
		err = f.gateway.RemoveRoleFromMember(ctx, req.GuildID, target.ID, role.ID)
		message = fmt.Sprintf("✅ Took %s from %s.", role.Mention(), target.Mention())
	default:
		return nil, common.NewUserError(dispatch.MsgUnknownCommand, "unknown role subcommand "+req.Subcommand)
	}

	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return nil, common.NewNotFoundError("❌ That member or role no longer exists.", err)
		}
		return nil, common.NewDeliveryError(
			fmt.Sprintf("❌ Could not update roles. Check the bot's permissions and that its role is above %s.", role.Mention()), err)
	}

	f.audit(req, "role "+req.Subcommand, target.ID, role.ID)
	return dispatch.Text(message, false), nil
}

// target returns the target option, rejecting self-targeting
func (f *Feature) target(req *dispatch.Request, action string) (entities.User, error) {
	target, ok := req.Options.User("target")
	if !ok {
		return entities.User{}, common.NewUserError("❌ Choose a member.", action+" without target")
	}
	if target.ID == req.User.ID {
		return entities.User{}, common.NewUserError(fmt.Sprintf("❌ You cannot %s yourself.", action), "self-targeted "+action)
	}
	return target, nil
}

func (f *Feature) audit(req *dispatch.Request, action, targetID, detail string) {
	log.WithFields(log.Fields{
		"action":       action,
		"moderator_id": req.User.ID,
		"target_id":    targetID,
		"guild_id":     req.GuildID,
		"detail":       detail,
	}).Info("Moderation action")
}

func remoteFailure(action string, target entities.User, err error) error {
	return common.NewDeliveryError(fmt.Sprintf("❌ Could not %s %s. Check the bot's permissions.", action, target.Mention()), err)
}

func reasonOf(options dispatch.Options) string {
	if reason, ok := options.String("reason"); ok && strings.TrimSpace(reason) != "" {
		return reason
	}
	return defaultReason
}

func muteTypeOf(options dispatch.Options) string {
	switch value, _ := options.String("type"); value {
	case MuteVoice, MuteText:
		return value
	default:
		return MuteAll
	}
}

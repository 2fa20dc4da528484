package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"inncoin/bot/dispatch"
	"inncoin/domain/entities"
	"inncoin/domain/interfaces"

	"github.com/bwmarrin/discordgo"
)

// membersPageSize is the largest page the member list endpoint returns
const membersPageSize = 1000

// ticketPermissions is what a visible member or role may do in a ticket channel
const ticketPermissions = discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionReadMessageHistory

// Platform adapts a discordgo session to the dispatch transport and the
// guild and moderation capabilities of the domain services
type Platform struct {
	session *discordgo.Session
}

var (
	_ dispatch.Transport      = (*Platform)(nil)
	_ interfaces.GuildGateway = (*Platform)(nil)
	_ interfaces.Moderator    = (*Platform)(nil)
)

// NewPlatform wraps a session
func NewPlatform(session *discordgo.Session) *Platform {
	return &Platform{session: session}
}

func interactionOf(event *dispatch.Event) (*discordgo.Interaction, error) {
	interaction, ok := event.Raw.(*discordgo.Interaction)
	if !ok || interaction == nil {
		return nil, fmt.Errorf("event %s carries no interaction", event.ID)
	}
	return interaction, nil
}

func flagsOf(ephemeral bool) discordgo.MessageFlags {
	if ephemeral {
		return discordgo.MessageFlagsEphemeral
	}
	return 0
}

// Transport

func (p *Platform) SendReply(ctx context.Context, event *dispatch.Event, reply *dispatch.Reply) error {
	interaction, err := interactionOf(event)
	if err != nil {
		return err
	}
	return p.session.InteractionRespond(interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    reply.Content,
			Embeds:     reply.Embeds,
			Components: reply.Components,
			Flags:      flagsOf(reply.Ephemeral),
		},
	}, discordgo.WithContext(ctx))
}

func (p *Platform) DeferReply(ctx context.Context, event *dispatch.Event, ephemeral bool) error {
	interaction, err := interactionOf(event)
	if err != nil {
		return err
	}
	return p.session.InteractionRespond(interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: flagsOf(ephemeral),
		},
	}, discordgo.WithContext(ctx))
}

func (p *Platform) EditReply(ctx context.Context, event *dispatch.Event, reply *dispatch.Reply) error {
	interaction, err := interactionOf(event)
	if err != nil {
		return err
	}
	content := reply.Content
	embeds := reply.Embeds
	components := reply.Components
	_, err = p.session.InteractionResponseEdit(interaction, &discordgo.WebhookEdit{
		Content:    &content,
		Embeds:     &embeds,
		Components: &components,
	}, discordgo.WithContext(ctx))
	return err
}

func (p *Platform) FollowUp(ctx context.Context, event *dispatch.Event, reply *dispatch.Reply) error {
	interaction, err := interactionOf(event)
	if err != nil {
		return err
	}
	_, err = p.session.FollowupMessageCreate(interaction, true, &discordgo.WebhookParams{
		Content:    reply.Content,
		Embeds:     reply.Embeds,
		Components: reply.Components,
		Flags:      flagsOf(reply.Ephemeral),
	}, discordgo.WithContext(ctx))
	return err
}

func (p *Platform) SendToChannel(ctx context.Context, channelID string, reply *dispatch.Reply) error {
	_, err := p.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content:    reply.Content,
		Embeds:     reply.Embeds,
		Components: reply.Components,
	}, discordgo.WithContext(ctx))
	return err
}

func (p *Platform) SendDirect(ctx context.Context, userID string, reply *dispatch.Reply) error {
	channel, err := p.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to open DM channel: %w", err)
	}
	return p.SendToChannel(ctx, channel.ID, reply)
}

func (p *Platform) Latency() time.Duration {
	return p.session.HeartbeatLatency()
}

// GuildGateway

func (p *Platform) BotUserID() string {
	if p.session.State == nil || p.session.State.User == nil {
		return ""
	}
	return p.session.State.User.ID
}

func (p *Platform) ResolveRole(ctx context.Context, guildID, roleID string) (*entities.Role, error) {
	if role, err := p.session.State.Role(guildID, roleID); err == nil {
		return toRole(role), nil
	}

	roles, err := p.session.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, translateRESTError(err)
	}
	for _, role := range roles {
		if role.ID == roleID {
			return toRole(role), nil
		}
	}
	return nil, fmt.Errorf("role %s: %w", roleID, entities.ErrNotFound)
}

func (p *Platform) ResolveMember(ctx context.Context, guildID, userID string) (*entities.Member, error) {
	if member, err := p.session.State.Member(guildID, userID); err == nil {
		return toMember(guildID, member), nil
	}

	member, err := p.session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, translateRESTError(err)
	}
	return toMember(guildID, member), nil
}

func (p *Platform) MembersWithRole(ctx context.Context, guildID, roleID string) ([]*entities.Member, error) {
	var (
		holders []*entities.Member
		after   string
	)
	for {
		page, err := p.session.GuildMembers(guildID, after, membersPageSize, discordgo.WithContext(ctx))
		if err != nil {
			return nil, translateRESTError(err)
		}
		for _, member := range page {
			converted := toMember(guildID, member)
			if converted.HasRole(roleID) {
				holders = append(holders, converted)
			}
		}
		if len(page) < membersPageSize {
			return holders, nil
		}
		after = page[len(page)-1].User.ID
	}
}

func (p *Platform) AddRoleToMember(ctx context.Context, guildID, userID, roleID string) error {
	return translateRESTError(p.session.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithContext(ctx)))
}

func (p *Platform) RemoveRoleFromMember(ctx context.Context, guildID, userID, roleID string) error {
	return translateRESTError(p.session.GuildMemberRoleRemove(guildID, userID, roleID, discordgo.WithContext(ctx)))
}

func (p *Platform) GuildChannels(ctx context.Context, guildID string) ([]*entities.Channel, error) {
	channels, err := p.session.GuildChannels(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, translateRESTError(err)
	}
	out := make([]*entities.Channel, 0, len(channels))
	for _, channel := range channels {
		out = append(out, toChannel(channel))
	}
	return out, nil
}

func (p *Platform) CreatePrivateChannel(ctx context.Context, guildID, parentID, name string, rules []entities.VisibilityRule) (*entities.Channel, error) {
	overwrites := make([]*discordgo.PermissionOverwrite, 0, len(rules))
	for _, rule := range rules {
		overwrite := &discordgo.PermissionOverwrite{
			ID:   rule.TargetID,
			Type: discordgo.PermissionOverwriteTypeRole,
		}
		if rule.Target == entities.OverwriteMember {
			overwrite.Type = discordgo.PermissionOverwriteTypeMember
		}
		if rule.Visible {
			overwrite.Allow = ticketPermissions
		} else {
			overwrite.Deny = discordgo.PermissionViewChannel
		}
		overwrites = append(overwrites, overwrite)
	}

	channel, err := p.session.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name:                 name,
		Type:                 discordgo.ChannelTypeGuildText,
		ParentID:             parentID,
		PermissionOverwrites: overwrites,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return nil, translateRESTError(err)
	}
	return toChannel(channel), nil
}

func (p *Platform) DeleteChannel(ctx context.Context, channelID, reason string) error {
	_, err := p.session.ChannelDelete(channelID, discordgo.WithContext(ctx), discordgo.WithAuditLogReason(reason))
	return translateRESTError(err)
}

// Moderator

func (p *Platform) BanMember(ctx context.Context, guildID, userID, reason string) error {
	return translateRESTError(p.session.GuildBanCreateWithReason(guildID, userID, reason, 0, discordgo.WithContext(ctx)))
}

func (p *Platform) UnbanUser(ctx context.Context, guildID, userID, reason string) error {
	return translateRESTError(p.session.GuildBanDelete(guildID, userID, discordgo.WithContext(ctx), discordgo.WithAuditLogReason(reason)))
}

func (p *Platform) KickMember(ctx context.Context, guildID, userID, reason string) error {
	return translateRESTError(p.session.GuildMemberDeleteWithReason(guildID, userID, reason, discordgo.WithContext(ctx)))
}

func (p *Platform) TimeoutMember(ctx context.Context, guildID, userID string, until *time.Time, reason string) error {
	return translateRESTError(p.session.GuildMemberTimeout(guildID, userID, until, discordgo.WithContext(ctx), discordgo.WithAuditLogReason(reason)))
}

func (p *Platform) SetVoiceMute(ctx context.Context, guildID, userID string, muted bool) error {
	return translateRESTError(p.session.GuildMemberMute(guildID, userID, muted, discordgo.WithContext(ctx)))
}

func (p *Platform) InVoice(guildID, userID string) bool {
	state, err := p.session.State.VoiceState(guildID, userID)
	return err == nil && state.ChannelID != ""
}

// translateRESTError marks 404 responses as entities.ErrNotFound
func translateRESTError(err error) error {
	if err == nil {
		return nil
	}
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %v", entities.ErrNotFound, err)
	}
	return err
}

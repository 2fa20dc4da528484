package dispatch

import (
	"context"
	"time"

	"inncoin/domain/entities"

	"github.com/bwmarrin/discordgo"
)

// Reply is an outbound message payload
type Reply struct {
	Content    string
	Embeds     []*discordgo.MessageEmbed
	Components []discordgo.MessageComponent
	Ephemeral  bool
}

// Text builds a plain text reply
func Text(content string, ephemeral bool) *Reply {
	return &Reply{Content: content, Ephemeral: ephemeral}
}

// Embed builds a reply carrying a single embed
func Embed(embed *discordgo.MessageEmbed, ephemeral bool) *Reply {
	return &Reply{Embeds: []*discordgo.MessageEmbed{embed}, Ephemeral: ephemeral}
}

// Transport delivers replies. Every method may fail with a delivery error.
type Transport interface {
	// SendReply answers the event directly
	SendReply(ctx context.Context, event *Event, reply *Reply) error

	// DeferReply acknowledges the event; the answer follows through EditReply
	DeferReply(ctx context.Context, event *Event, ephemeral bool) error

	// EditReply replaces the deferred or sent answer
	EditReply(ctx context.Context, event *Event, reply *Reply) error

	// FollowUp sends an additional message after the answer
	FollowUp(ctx context.Context, event *Event, reply *Reply) error

	// SendToChannel posts a message to a channel
	SendToChannel(ctx context.Context, channelID string, reply *Reply) error

	// SendDirect sends a direct message to a user
	SendDirect(ctx context.Context, userID string, reply *Reply) error

	// Latency returns the gateway heartbeat latency
	Latency() time.Duration
}

// Authorizer checks member permissions
type Authorizer interface {
	MemberHasPermission(member *entities.Member, permission int64) bool
}

// PermissionAuthorizer checks the permission bitset the platform attached to the member
type PermissionAuthorizer struct{}

func (PermissionAuthorizer) MemberHasPermission(member *entities.Member, permission int64) bool {
	if member == nil {
		return false
	}
	if member.Permissions&discordgo.PermissionAdministrator != 0 {
		return true
	}
	return member.Permissions&permission == permission
}

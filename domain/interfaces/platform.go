package interfaces

import (
	"context"
	"time"

	"inncoin/domain/entities"
)

// GuildGateway is the remote guild capability the state engine depends on.
// Every method is a fallible network call. Lookups return an error wrapping
// entities.ErrNotFound when the object no longer exists.
type GuildGateway interface {
	// BotUserID returns the identity the process acts as
	BotUserID() string

	// ResolveRole looks up a role in a guild
	ResolveRole(ctx context.Context, guildID, roleID string) (*entities.Role, error)

	// ResolveMember looks up a guild member
	ResolveMember(ctx context.Context, guildID, userID string) (*entities.Member, error)

	// MembersWithRole returns every member currently holding roleID
	MembersWithRole(ctx context.Context, guildID, roleID string) ([]*entities.Member, error)

	// AddRoleToMember grants a role
	AddRoleToMember(ctx context.Context, guildID, userID, roleID string) error

	// RemoveRoleFromMember revokes a role
	RemoveRoleFromMember(ctx context.Context, guildID, userID, roleID string) error

	// GuildChannels lists the channels of a guild
	GuildChannels(ctx context.Context, guildID string) ([]*entities.Channel, error)

	// CreatePrivateChannel creates a text channel under parentID with the given overwrites
	CreatePrivateChannel(ctx context.Context, guildID, parentID, name string, rules []entities.VisibilityRule) (*entities.Channel, error)

	// DeleteChannel removes a channel
	DeleteChannel(ctx context.Context, channelID, reason string) error
}

// Moderator is the remote moderation capability
type Moderator interface {
	BanMember(ctx context.Context, guildID, userID, reason string) error
	UnbanUser(ctx context.Context, guildID, userID, reason string) error
	KickMember(ctx context.Context, guildID, userID, reason string) error

	// TimeoutMember suspends messaging until the given time; nil lifts the timeout
	TimeoutMember(ctx context.Context, guildID, userID string, until *time.Time, reason string) error

	// SetVoiceMute server-mutes or unmutes a member connected to voice
	SetVoiceMute(ctx context.Context, guildID, userID string, muted bool) error

	// InVoice reports whether the member is connected to a voice channel
	InVoice(guildID, userID string) bool
}

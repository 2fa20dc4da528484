package moderation

import (
	"inncoin/bot/dispatch"
	"inncoin/domain/interfaces"

	"github.com/bwmarrin/discordgo"
)

// Mute types accepted by /mute and /unmute
const (
	MuteVoice = "voice"
	MuteText  = "text"
	MuteAll   = "all"
)

// maxTimeoutMinutes is the longest timeout the platform accepts (28 days)
const maxTimeoutMinutes = 28 * 24 * 60

// Feature provides ban, kick, mute and role management commands
type Feature struct {
	moderator interfaces.Moderator
	gateway   interfaces.GuildGateway
	scheduler interfaces.Scheduler
	clock     interfaces.Clock
}

// New creates a new moderation feature
func New(moderator interfaces.Moderator, gateway interfaces.GuildGateway, scheduler interfaces.Scheduler, clock interfaces.Clock) *Feature {
	return &Feature{
		moderator: moderator,
		gateway:   gateway,
		scheduler: scheduler,
		clock:     clock,
	}
}

// Register adds the moderation commands to the registry
func (f *Feature) Register(registry *dispatch.Registry) error {
	minMinutes := 1.0
	maxMinutes := float64(maxTimeoutMinutes)

	commands := []*dispatch.Command{
		{
			Name:        "ban",
			Description: "Ban a member from the server",
			Options:     []*discordgo.ApplicationCommandOption{targetOption("Member to ban"), reasonOption()},
			Permission:  discordgo.PermissionBanMembers,
			GuildOnly:   true,
			Scope:       dispatch.ScopeGlobal,
			Handler:     f.handleBan,
		},
		{
			Name:        "kick",
			Description: "Kick a member from the server",
			Options:     []*discordgo.ApplicationCommandOption{targetOption("Member to kick"), reasonOption()},
			Permission:  discordgo.PermissionKickMembers,
			GuildOnly:   true,
			Scope:       dispatch.ScopeGlobal,
			Handler:     f.handleKick,
		},
		{
			Name:        "mute",
			Description: "Mute a member for a number of minutes",
			Options: []*discordgo.ApplicationCommandOption{
				targetOption("Member to mute"),
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "minutes",
					Description: "Duration of the mute",
					Required:    true,
					MinValue:    &minMinutes,
					MaxValue:    maxMinutes,
				},
				muteTypeOption(),
				reasonOption(),
			},
			Permission: discordgo.PermissionModerateMembers,
			GuildOnly:  true,
			Scope:      dispatch.ScopeGlobal,
			Handler:    f.handleMute,
		},
		{
			Name:        "unmute",
			Description: "Lift a member's mute",
			Options:     []*discordgo.ApplicationCommandOption{targetOption("Member to unmute"), muteTypeOption()},
			Permission:  discordgo.PermissionModerateMembers,
			GuildOnly:   true,
			Scope:       dispatch.ScopeGlobal,
			Handler:     f.handleUnmute,
		},
		{
			Name:        "unban",
			Description: "Lift a ban",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "user_id",
					Description: "ID of the banned user",
					Required:    true,
				},
				reasonOption(),
			},
			Permission: discordgo.PermissionBanMembers,
			GuildOnly:  true,
			Scope:      dispatch.ScopeGlobal,
			Handler:    f.handleUnban,
		},
		{
			Name:        "role",
			Description: "Give or take a role",
			Options: []*discordgo.ApplicationCommandOption{
				roleSubcommand("add", "Give a role to a member"),
				roleSubcommand("remove", "Take a role from a member"),
			},
			Permission: discordgo.PermissionManageRoles,
			GuildOnly:  true,
			Scope:      dispatch.ScopeGlobal,
			Handler:    f.handleRole,
		},
	}
	for _, cmd := range commands {
		if err := registry.AddCommand(cmd); err != nil {
			return err
		}
	}
	return nil
}

func targetOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "target",
		Description: description,
		Required:    true,
	}
}

func reasonOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "reason",
		Description: "Reason recorded in the audit log",
	}
}

func muteTypeOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "type",
		Description: "What to mute (defaults to all)",
		Choices: []*discordgo.ApplicationCommandOptionChoice{
			{Name: "Voice", Value: MuteVoice},
			{Name: "Text", Value: MuteText},
			{Name: "All", Value: MuteAll},
		},
	}
}

func roleSubcommand(name, description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommand,
		Name:        name,
		Description: description,
		Options: []*discordgo.ApplicationCommandOption{
			targetOption("Member"),
			{
				Type:        discordgo.ApplicationCommandOptionRole,
				Name:        "role",
				Description: "Role",
				Required:    true,
			},
		},
	}
}

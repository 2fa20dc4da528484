package bot

import (
	"inncoin/bot/dispatch"
	"inncoin/domain/entities"

	"github.com/bwmarrin/discordgo"
)

// interactionEvent converts a gateway interaction into a dispatch event.
// It returns nil for interaction types the bot does not handle.
func interactionEvent(i *discordgo.Interaction) *dispatch.Event {
	event := &dispatch.Event{
		ID:        i.ID,
		GuildID:   i.GuildID,
		ChannelID: i.ChannelID,
		Raw:       i,
	}
	switch {
	case i.Member != nil && i.Member.User != nil:
		event.User = toUser(i.Member.User)
		event.Member = toMember(i.GuildID, i.Member)
	case i.User != nil:
		event.User = toUser(i.User)
	}

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		data := i.ApplicationCommandData()
		event.Kind = dispatch.KindCommand
		event.Command = data.Name
		options := data.Options
		// Subcommands carry their own options one level down.
		if len(options) == 1 && (options[0].Type == discordgo.ApplicationCommandOptionSubCommand ||
			options[0].Type == discordgo.ApplicationCommandOptionSubCommandGroup) {
			event.Subcommand = options[0].Name
			options = options[0].Options
		}
		event.Options = convertOptions(options, data.Resolved)
	case discordgo.InteractionMessageComponent:
		event.Kind = dispatch.KindActivation
		event.CustomID = i.MessageComponentData().CustomID
	default:
		return nil
	}
	return event
}

// messageEvent converts a created message into a passive dispatch event
func messageEvent(m *discordgo.MessageCreate) *dispatch.Event {
	if m.Author == nil {
		return nil
	}
	event := &dispatch.Event{
		Kind:      dispatch.KindMessage,
		ID:        m.ID,
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		User:      toUser(m.Author),
		Content:   m.Content,
		Raw:       m.Message,
	}
	if m.GuildID != "" && m.Member != nil {
		member := toMember(m.GuildID, m.Member)
		member.User = event.User
		event.Member = member
	}
	return event
}

func convertOptions(options []*discordgo.ApplicationCommandInteractionDataOption, resolved *discordgo.ApplicationCommandInteractionDataResolved) dispatch.Options {
	out := make(dispatch.Options, len(options))
	for _, option := range options {
		switch option.Type {
		case discordgo.ApplicationCommandOptionInteger:
			out[option.Name] = option.IntValue()
		case discordgo.ApplicationCommandOptionNumber:
			out[option.Name] = option.FloatValue()
		case discordgo.ApplicationCommandOptionString:
			out[option.Name] = option.StringValue()
		case discordgo.ApplicationCommandOptionBoolean:
			out[option.Name] = option.BoolValue()
		case discordgo.ApplicationCommandOptionUser:
			id, _ := option.Value.(string)
			user := entities.User{ID: id}
			if resolved != nil {
				if resolvedUser, ok := resolved.Users[id]; ok {
					user = toUser(resolvedUser)
				}
			}
			out[option.Name] = user
		case discordgo.ApplicationCommandOptionRole:
			id, _ := option.Value.(string)
			role := entities.Role{ID: id}
			if resolved != nil {
				if resolvedRole, ok := resolved.Roles[id]; ok {
					role = *toRole(resolvedRole)
				}
			}
			out[option.Name] = role
		case discordgo.ApplicationCommandOptionChannel:
			id, _ := option.Value.(string)
			channel := entities.Channel{ID: id}
			if resolved != nil {
				if resolvedChannel, ok := resolved.Channels[id]; ok {
					channel = *toChannel(resolvedChannel)
				}
			}
			out[option.Name] = channel
		}
	}
	return out
}

func toUser(user *discordgo.User) entities.User {
	return entities.User{
		ID:       user.ID,
		Username: user.Username,
		Bot:      user.Bot,
	}
}

func toMember(guildID string, member *discordgo.Member) *entities.Member {
	converted := &entities.Member{
		GuildID:     guildID,
		Nick:        member.Nick,
		RoleIDs:     member.Roles,
		Permissions: member.Permissions,
	}
	if member.User != nil {
		converted.User = toUser(member.User)
	}
	return converted
}

func toRole(role *discordgo.Role) *entities.Role {
	return &entities.Role{ID: role.ID, Name: role.Name}
}

func toChannel(channel *discordgo.Channel) *entities.Channel {
	return &entities.Channel{
		ID:       channel.ID,
		GuildID:  channel.GuildID,
		Name:     channel.Name,
		ParentID: channel.ParentID,
	}
}

package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"inncoin/domain/entities"
	"inncoin/domain/events"
	"inncoin/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

const deleteTimeout = 10 * time.Second

var ticketNameStrip = regexp.MustCompile(`[^a-z0-9-]`)

// TicketChannelName derives the ticket channel name for a user
func TicketChannelName(user entities.User) string {
	name := ticketNameStrip.ReplaceAllString(strings.ToLower(user.Username), "")
	if name == "" {
		name = user.ID
	}
	return "ticket-" + name
}

type ticketService struct {
	panels         *PanelRegistry
	gateway        interfaces.GuildGateway
	scheduler      interfaces.Scheduler
	clock          interfaces.Clock
	eventPublisher interfaces.EventPublisher
	closeDelay     time.Duration
}

// NewTicketService creates a ticket service deleting closed channels after closeDelay
func NewTicketService(panels *PanelRegistry, gateway interfaces.GuildGateway, scheduler interfaces.Scheduler, clock interfaces.Clock, eventPublisher interfaces.EventPublisher, closeDelay time.Duration) interfaces.TicketService {
	return &ticketService{
		panels:         panels,
		gateway:        gateway,
		scheduler:      scheduler,
		clock:          clock,
		eventPublisher: eventPublisher,
		closeDelay:     closeDelay,
	}
}

func (s *ticketService) CreatePanel(ctx context.Context, guildID, categoryID string, roleIDs []string) (*entities.Panel, error) {
	for _, roleID := range roleIDs {
		if _, err := s.gateway.ResolveRole(ctx, guildID, roleID); err != nil {
			if errors.Is(err, entities.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrRoleGone, roleID)
			}
			return nil, fmt.Errorf("failed to resolve role %s: %w", roleID, err)
		}
	}

	panel, err := s.panels.CreateTicketPanel(categoryID, roleIDs, s.clock.Now())
	if err != nil {
		return nil, err
	}

	s.publish(events.PanelCreatedEvent{PanelID: panel.ID, Kind: panel.Kind})
	return panel, nil
}

func (s *ticketService) Open(ctx context.Context, panelID string, member *entities.Member) (*entities.TicketOutcome, error) {
	panel, ok := s.panels.Get(panelID)
	if !ok || panel.Kind != entities.PanelTicket {
		return nil, fmt.Errorf("%w: %s", ErrPanelGone, panelID)
	}

	name := TicketChannelName(member.User)
	channels, err := s.gateway.GuildChannels(ctx, member.GuildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}
	for _, channel := range channels {
		if channel.ParentID == panel.CategoryID && channel.Name == name {
			return &entities.TicketOutcome{Channel: channel, Created: false, RoleIDs: panel.RoleIDs}, nil
		}
	}

	rules := []entities.VisibilityRule{
		// The @everyone role shares the guild id.
		{TargetID: member.GuildID, Target: entities.OverwriteRole, Visible: false},
		{TargetID: member.User.ID, Target: entities.OverwriteMember, Visible: true},
		{TargetID: s.gateway.BotUserID(), Target: entities.OverwriteMember, Visible: true},
	}
	for _, roleID := range panel.RoleIDs {
		rules = append(rules, entities.VisibilityRule{TargetID: roleID, Target: entities.OverwriteRole, Visible: true})
	}

	channel, err := s.gateway.CreatePrivateChannel(ctx, member.GuildID, panel.CategoryID, name, rules)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticket channel: %w", err)
	}

	log.WithFields(log.Fields{
		"panelID":   panel.ID,
		"channelID": channel.ID,
		"userID":    member.User.ID,
	}).Info("Ticket opened")
	s.publish(events.TicketOpenedEvent{
		PanelID:   panel.ID,
		GuildID:   member.GuildID,
		ChannelID: channel.ID,
		UserID:    member.User.ID,
	})

	return &entities.TicketOutcome{Channel: channel, Created: true, RoleIDs: panel.RoleIDs}, nil
}

func (s *ticketService) Close(ctx context.Context, channelID, closedBy string) (time.Duration, error) {
	if channelID == "" {
		return 0, fmt.Errorf("%w: no channel", ErrPanelGone)
	}

	s.scheduler.AfterFunc(s.closeDelay, func() {
		deleteCtx, cancel := context.WithTimeout(context.Background(), deleteTimeout)
		defer cancel()

		if err := s.gateway.DeleteChannel(deleteCtx, channelID, "ticket closed"); err != nil {
			log.WithError(err).WithField("channelID", channelID).Error("Failed to delete ticket channel")
			return
		}
		log.WithField("channelID", channelID).Info("Ticket channel deleted")
	})

	s.publish(events.TicketClosedEvent{ChannelID: channelID, ClosedBy: closedBy})
	return s.closeDelay, nil
}

func (s *ticketService) publish(event events.Event) {
	if err := s.eventPublisher.Publish(event); err != nil {
		log.WithError(err).WithField("eventType", event.Type()).Error("Failed to publish event")
	}
}

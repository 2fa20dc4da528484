package services

import (
	"context"
	"errors"
	"fmt"

	"inncoin/domain/entities"
	"inncoin/domain/events"
	"inncoin/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

type rolePanelService struct {
	panels         *PanelRegistry
	gateway        interfaces.GuildGateway
	clock          interfaces.Clock
	eventPublisher interfaces.EventPublisher
}

// NewRolePanelService creates a new role panel service
func NewRolePanelService(panels *PanelRegistry, gateway interfaces.GuildGateway, clock interfaces.Clock, eventPublisher interfaces.EventPublisher) interfaces.RolePanelService {
	return &rolePanelService{
		panels:         panels,
		gateway:        gateway,
		clock:          clock,
		eventPublisher: eventPublisher,
	}
}

func (s *rolePanelService) CreatePanel(ctx context.Context, guildID string, roleIDs []string) (*entities.Panel, error) {
	if len(roleIDs) < 1 || len(roleIDs) > entities.MaxRoleSelectRoles {
		return nil, fmt.Errorf("%w: role panels take 1 to %d roles, got %d", ErrInvalidPanel, entities.MaxRoleSelectRoles, len(roleIDs))
	}

	options := make([]entities.RoleOption, 0, len(roleIDs))
	for _, roleID := range roleIDs {
		role, err := s.gateway.ResolveRole(ctx, guildID, roleID)
		if err != nil {
			if errors.Is(err, entities.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrRoleGone, roleID)
			}
			return nil, fmt.Errorf("failed to resolve role %s: %w", roleID, err)
		}
		options = append(options, entities.RoleOption{RoleID: role.ID, Label: role.Name})
	}

	panel, err := s.panels.CreateRoleSelectPanel(options, s.clock.Now())
	if err != nil {
		return nil, err
	}

	if err := s.eventPublisher.Publish(events.PanelCreatedEvent{PanelID: panel.ID, Kind: panel.Kind}); err != nil {
		log.WithError(err).Error("Failed to publish panel created event")
	}
	return panel, nil
}

func (s *rolePanelService) Toggle(ctx context.Context, panelID string, index int, member *entities.Member) (*entities.ToggleResult, error) {
	panel, ok := s.panels.Get(panelID)
	if !ok || panel.Kind != entities.PanelRoleSelect {
		return nil, fmt.Errorf("%w: %s", ErrPanelGone, panelID)
	}
	option, ok := panel.Option(index)
	if !ok {
		return nil, fmt.Errorf("%w: panel %s has no option %d", ErrRoleGone, panelID, index)
	}

	role, err := s.gateway.ResolveRole(ctx, member.GuildID, option.RoleID)
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrRoleGone, option.RoleID)
		}
		return nil, fmt.Errorf("failed to resolve role %s: %w", option.RoleID, err)
	}

	if member.HasRole(role.ID) {
		if err := s.gateway.RemoveRoleFromMember(ctx, member.GuildID, member.User.ID, role.ID); err != nil {
			return nil, fmt.Errorf("failed to remove role %s: %w", role.ID, err)
		}
		return &entities.ToggleResult{Role: role, Added: false}, nil
	}

	if err := s.gateway.AddRoleToMember(ctx, member.GuildID, member.User.ID, role.ID); err != nil {
		return nil, fmt.Errorf("failed to add role %s: %w", role.ID, err)
	}
	return &entities.ToggleResult{Role: role, Added: true}, nil
}

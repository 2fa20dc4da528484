package testhelpers

import (
	"context"
	"time"

	"inncoin/domain/entities"
	"inncoin/domain/events"

	"github.com/stretchr/testify/mock"
)

// MockGuildGateway is a mock implementation of GuildGateway
type MockGuildGateway struct {
	mock.Mock
}

func (m *MockGuildGateway) BotUserID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockGuildGateway) ResolveRole(ctx context.Context, guildID, roleID string) (*entities.Role, error) {
	args := m.Called(ctx, guildID, roleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Role), args.Error(1)
}

func (m *MockGuildGateway) ResolveMember(ctx context.Context, guildID, userID string) (*entities.Member, error) {
	args := m.Called(ctx, guildID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Member), args.Error(1)
}

func (m *MockGuildGateway) MembersWithRole(ctx context.Context, guildID, roleID string) ([]*entities.Member, error) {
	args := m.Called(ctx, guildID, roleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Member), args.Error(1)
}

func (m *MockGuildGateway) AddRoleToMember(ctx context.Context, guildID, userID, roleID string) error {
	args := m.Called(ctx, guildID, userID, roleID)
	return args.Error(0)
}

func (m *MockGuildGateway) RemoveRoleFromMember(ctx context.Context, guildID, userID, roleID string) error {
	args := m.Called(ctx, guildID, userID, roleID)
	return args.Error(0)
}

func (m *MockGuildGateway) GuildChannels(ctx context.Context, guildID string) ([]*entities.Channel, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Channel), args.Error(1)
}

func (m *MockGuildGateway) CreatePrivateChannel(ctx context.Context, guildID, parentID, name string, rules []entities.VisibilityRule) (*entities.Channel, error) {
	args := m.Called(ctx, guildID, parentID, name, rules)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Channel), args.Error(1)
}

func (m *MockGuildGateway) DeleteChannel(ctx context.Context, channelID, reason string) error {
	args := m.Called(ctx, channelID, reason)
	return args.Error(0)
}

// MockModerator is a mock implementation of Moderator
type MockModerator struct {
	mock.Mock
}

func (m *MockModerator) BanMember(ctx context.Context, guildID, userID, reason string) error {
	args := m.Called(ctx, guildID, userID, reason)
	return args.Error(0)
}

func (m *MockModerator) UnbanUser(ctx context.Context, guildID, userID, reason string) error {
	args := m.Called(ctx, guildID, userID, reason)
	return args.Error(0)
}

func (m *MockModerator) KickMember(ctx context.Context, guildID, userID, reason string) error {
	args := m.Called(ctx, guildID, userID, reason)
	return args.Error(0)
}

func (m *MockModerator) TimeoutMember(ctx context.Context, guildID, userID string, until *time.Time, reason string) error {
	args := m.Called(ctx, guildID, userID, until, reason)
	return args.Error(0)
}

func (m *MockModerator) SetVoiceMute(ctx context.Context, guildID, userID string, muted bool) error {
	args := m.Called(ctx, guildID, userID, muted)
	return args.Error(0)
}

func (m *MockModerator) InVoice(guildID, userID string) bool {
	args := m.Called(guildID, userID)
	return args.Bool(0)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// NewPermissiveEventPublisher returns a publisher mock accepting any event
func NewPermissiveEventPublisher() *MockEventPublisher {
	publisher := new(MockEventPublisher)
	publisher.On("Publish", mock.Anything).Return(nil)
	return publisher
}

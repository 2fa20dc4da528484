// Package dispatchtest provides test doubles for the dispatch package
package dispatchtest

import (
	"context"
	"time"

	"inncoin/bot/dispatch"
	"inncoin/domain/entities"

	"github.com/stretchr/testify/mock"
)

// MockPlatform is a mock implementation of dispatch.Transport and dispatch.Authorizer
type MockPlatform struct {
	mock.Mock
}

func (m *MockPlatform) SendReply(ctx context.Context, event *dispatch.Event, reply *dispatch.Reply) error {
	args := m.Called(ctx, event, reply)
	return args.Error(0)
}

func (m *MockPlatform) DeferReply(ctx context.Context, event *dispatch.Event, ephemeral bool) error {
	args := m.Called(ctx, event, ephemeral)
	return args.Error(0)
}

func (m *MockPlatform) EditReply(ctx context.Context, event *dispatch.Event, reply *dispatch.Reply) error {
	args := m.Called(ctx, event, reply)
	return args.Error(0)
}

func (m *MockPlatform) FollowUp(ctx context.Context, event *dispatch.Event, reply *dispatch.Reply) error {
	args := m.Called(ctx, event, reply)
	return args.Error(0)
}

func (m *MockPlatform) SendToChannel(ctx context.Context, channelID string, reply *dispatch.Reply) error {
	args := m.Called(ctx, channelID, reply)
	return args.Error(0)
}

func (m *MockPlatform) SendDirect(ctx context.Context, userID string, reply *dispatch.Reply) error {
	args := m.Called(ctx, userID, reply)
	return args.Error(0)
}

func (m *MockPlatform) Latency() time.Duration {
	args := m.Called()
	return args.Get(0).(time.Duration)
}

func (m *MockPlatform) MemberHasPermission(member *entities.Member, permission int64) bool {
	args := m.Called(member, permission)
	return args.Bool(0)
}

// ReplyContaining matches a reply whose content equals text
func ReplyContaining(text string) any {
	return mock.MatchedBy(func(reply *dispatch.Reply) bool {
		return reply != nil && reply.Content == text
	})
}

// CaptureReplies records every reply sent through SendReply, EditReply and FollowUp
func (m *MockPlatform) CaptureReplies() *[]*dispatch.Reply {
	var replies []*dispatch.Reply
	capture := func(args mock.Arguments) {
		replies = append(replies, args.Get(2).(*dispatch.Reply))
	}
	m.On("SendReply", mock.Anything, mock.Anything, mock.Anything).Run(capture).Return(nil).Maybe()
	m.On("EditReply", mock.Anything, mock.Anything, mock.Anything).Run(capture).Return(nil).Maybe()
	m.On("FollowUp", mock.Anything, mock.Anything, mock.Anything).Run(capture).Return(nil).Maybe()
	return &replies
}

// CommandEvent builds a guild command event invoked by member
func CommandEvent(name string, member *entities.Member, options dispatch.Options) *dispatch.Event {
	event := &dispatch.Event{
		Kind:      dispatch.KindCommand,
		ID:        "interaction-" + name,
		ChannelID: "channel-1",
		Command:   name,
		Options:   options,
	}
	if member != nil {
		event.GuildID = member.GuildID
		event.User = member.User
		event.Member = member
	}
	return event
}

// ActivationEvent builds a guild activation event
func ActivationEvent(customID string, member *entities.Member) *dispatch.Event {
	event := &dispatch.Event{
		Kind:      dispatch.KindActivation,
		ID:        "interaction-" + customID,
		ChannelID: "channel-1",
		CustomID:  customID,
	}
	if member != nil {
		event.GuildID = member.GuildID
		event.User = member.User
		event.Member = member
	}
	return event
}

package interfaces

import (
	"context"
	"time"

	"inncoin/domain/entities"
)

// EconomyService defines the currency operations
type EconomyService interface {
	// Balance returns the current balance of a user (0 when unknown)
	Balance(userID string) int64

	// Gamble stakes an amount and pays back stake * multiplier
	Gamble(ctx context.Context, userID string, stake int64) (*entities.GambleResult, error)

	// Work credits a random wage once per cooldown window
	Work(ctx context.Context, userID string) (*entities.WorkResult, error)

	// Rob attempts to steal a share of the target's balance
	Rob(ctx context.Context, robberID string, target entities.User) (*entities.RobResult, error)

	// Give transfers amount from the giver to every recipient
	Give(ctx context.Context, giverID string, amount int64, recipients []entities.User) (*entities.TransferResult, error)

	// AdjustMany applies delta to every user without a balance check
	AdjustMany(ctx context.Context, userIDs []string, delta int64) (*entities.AdjustmentResult, error)

	// ConfigureChannelReward sets the passive reward range for a channel
	ConfigureChannelReward(channelID string, reward entities.RewardRange) error

	// RewardChat credits the passive reward for a message, if the channel has one
	RewardChat(ctx context.Context, userID, channelID string) (int64, bool)
}

// AuthService defines the role verification flow
type AuthService interface {
	// Start issues a challenge gating roleID for the member
	Start(ctx context.Context, member *entities.Member, roleID string) (*entities.Challenge, *entities.Role, error)

	// Abandon discards a challenge that could not be delivered
	Abandon(challenge *entities.Challenge)

	// Submit checks an answer and grants the role when it is correct
	Submit(ctx context.Context, userID string, answer int64) (*entities.VerificationResult, error)

	// Pick submits a multiple-choice answer pressed by presserID on a control
	// bound to ownerID and the challenge with the given nonce
	Pick(ctx context.Context, presserID, ownerID, nonce string, value int64) (*entities.VerificationResult, error)

	// Variant returns the challenge variant new challenges use
	Variant() entities.ChallengeVariant
}

// TicketService defines ticket panels and ticket channels
type TicketService interface {
	// CreatePanel stores a ticket panel for a category and its staff roles
	CreatePanel(ctx context.Context, guildID, categoryID string, roleIDs []string) (*entities.Panel, error)

	// Open creates the member's ticket channel or returns the existing one
	Open(ctx context.Context, panelID string, member *entities.Member) (*entities.TicketOutcome, error)

	// Close schedules deletion of a ticket channel and returns the delay
	Close(ctx context.Context, channelID, closedBy string) (time.Duration, error)
}

// RolePanelService defines self-service role panels
type RolePanelService interface {
	// CreatePanel stores a role-select panel for up to five roles
	CreatePanel(ctx context.Context, guildID string, roleIDs []string) (*entities.Panel, error)

	// Toggle adds or removes the role at index of the panel for the member
	Toggle(ctx context.Context, panelID string, index int, member *entities.Member) (*entities.ToggleResult, error)
}

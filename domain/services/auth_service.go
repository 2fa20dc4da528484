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

type authService struct {
	challenges     *ChallengeRegistry
	gateway        interfaces.GuildGateway
	clock          interfaces.Clock
	eventPublisher interfaces.EventPublisher
	variant        entities.ChallengeVariant
}

// NewAuthService creates a verification service issuing challenges of variant
func NewAuthService(challenges *ChallengeRegistry, gateway interfaces.GuildGateway, clock interfaces.Clock, eventPublisher interfaces.EventPublisher, variant entities.ChallengeVariant) interfaces.AuthService {
	return &authService{
		challenges:     challenges,
		gateway:        gateway,
		clock:          clock,
		eventPublisher: eventPublisher,
		variant:        variant,
	}
}

func (s *authService) Variant() entities.ChallengeVariant {
	return s.variant
}

func (s *authService) Start(ctx context.Context, member *entities.Member, roleID string) (*entities.Challenge, *entities.Role, error) {
	role, err := s.gateway.ResolveRole(ctx, member.GuildID, roleID)
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: %s", ErrRoleGone, roleID)
		}
		return nil, nil, fmt.Errorf("failed to resolve role %s: %w", roleID, err)
	}
	if member.HasRole(role.ID) {
		return nil, role, ErrAlreadyVerified
	}

	challenge := s.challenges.Issue(member.User.ID, member.GuildID, role.ID, s.variant, s.clock.Now())

	log.WithFields(log.Fields{
		"userID":  member.User.ID,
		"guildID": member.GuildID,
		"roleID":  role.ID,
		"variant": s.variant,
	}).Debug("Challenge issued")
	s.publish(events.ChallengeIssuedEvent{
		UserID:  member.User.ID,
		GuildID: member.GuildID,
		RoleID:  role.ID,
		Variant: s.variant,
	})

	return challenge, role, nil
}

func (s *authService) Abandon(challenge *entities.Challenge) {
	if s.challenges.Discard(challenge) {
		log.WithField("userID", challenge.UserID).Debug("Undeliverable challenge discarded")
	}
}

func (s *authService) Submit(ctx context.Context, userID string, answer int64) (*entities.VerificationResult, error) {
	outcome, challenge := s.challenges.AttemptAnswer(userID, answer, s.clock.Now())
	return s.resolve(ctx, userID, outcome, challenge)
}

func (s *authService) Pick(ctx context.Context, presserID, ownerID, nonce string, value int64) (*entities.VerificationResult, error) {
	if presserID != ownerID {
		return nil, ErrForeignActivation
	}
	outcome, challenge := s.challenges.AttemptChoice(presserID, nonce, value, s.clock.Now())
	return s.resolve(ctx, presserID, outcome, challenge)
}

// resolve grants the role for a correct answer and publishes the verdict
func (s *authService) resolve(ctx context.Context, userID string, outcome entities.AnswerOutcome, challenge *entities.Challenge) (*entities.VerificationResult, error) {
	result := &entities.VerificationResult{Outcome: outcome}
	if outcome != entities.OutcomeCorrect {
		s.publishResolved(userID, challenge, outcome, false)
		return result, nil
	}

	if err := s.gateway.AddRoleToMember(ctx, challenge.GuildID, userID, challenge.RoleID); err != nil {
		s.publishResolved(userID, challenge, outcome, false)
		return result, fmt.Errorf("%w: %v", ErrRoleGrantFailed, err)
	}

	role, err := s.gateway.ResolveRole(ctx, challenge.GuildID, challenge.RoleID)
	if err != nil {
		log.WithError(err).WithField("roleID", challenge.RoleID).Warn("Granted role could not be resolved for display")
		role = &entities.Role{ID: challenge.RoleID}
	}
	result.Role = role

	s.publishResolved(userID, challenge, outcome, true)
	return result, nil
}

func (s *authService) publishResolved(userID string, challenge *entities.Challenge, outcome entities.AnswerOutcome, granted bool) {
	event := events.ChallengeResolvedEvent{
		UserID:  userID,
		Outcome: outcome.String(),
		Granted: granted,
	}
	if challenge != nil {
		event.GuildID = challenge.GuildID
	}
	s.publish(event)
}

func (s *authService) publish(event events.Event) {
	if err := s.eventPublisher.Publish(event); err != nil {
		log.WithError(err).WithField("eventType", event.Type()).Error("Failed to publish event")
	}
}

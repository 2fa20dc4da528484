package services

import (
	"context"
	"fmt"
	"math"

	"inncoin/domain/entities"
	"inncoin/domain/events"
	"inncoin/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// Game constants
const (
	GambleSuccessChance = 0.125
	GambleHighMin       = 2.0
	GambleHighMax       = 2.5
	GambleLowMin        = 0.005
	GambleLowMax        = 0.4

	WorkMinWage = 1000
	WorkMaxWage = 1500

	RobSuccessChance = 0.125
	RobStealMin      = 0.50
	RobStealMax      = 0.65
	RobPenaltyMin    = 0.30
	RobPenaltyMax    = 0.45
)

type economyService struct {
	ledger         *Ledger
	cooldowns      *CooldownTracker
	rewards        *RewardConfigStore
	clock          interfaces.Clock
	rng            interfaces.RandomSource
	eventPublisher interfaces.EventPublisher
	locks          *keyedMutex
}

// NewEconomyService creates a new economy service over the given stores
func NewEconomyService(ledger *Ledger, cooldowns *CooldownTracker, rewards *RewardConfigStore, clock interfaces.Clock, rng interfaces.RandomSource, eventPublisher interfaces.EventPublisher) interfaces.EconomyService {
	return &economyService{
		ledger:         ledger,
		cooldowns:      cooldowns,
		rewards:        rewards,
		clock:          clock,
		rng:            rng,
		eventPublisher: eventPublisher,
		locks:          newKeyedMutex(),
	}
}

func (s *economyService) Balance(userID string) int64 {
	return s.ledger.Balance(userID)
}

func (s *economyService) Gamble(ctx context.Context, userID string, stake int64) (*entities.GambleResult, error) {
	if stake <= 0 {
		return nil, ErrInvalidAmount
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	balance := s.ledger.Balance(userID)
	if stake > balance {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientBalance, balance, stake)
	}

	s.adjust(userID, -stake, entities.TransactionTypeGambleStake)

	highBand := s.rng.Float64() < GambleSuccessChance
	var multiplier float64
	if highBand {
		multiplier = s.rng.Uniform(GambleHighMin, GambleHighMax)
	} else {
		multiplier = s.rng.Uniform(GambleLowMin, GambleLowMax)
	}
	payout := int64(math.Floor(float64(stake) * multiplier))

	newBalance := s.ledger.Balance(userID)
	if payout > 0 {
		newBalance = s.adjust(userID, payout, entities.TransactionTypeGamblePayout)
	}

	return &entities.GambleResult{
		Stake:      stake,
		Multiplier: multiplier,
		Payout:     payout,
		NewBalance: newBalance,
		HighBand:   highBand,
	}, nil
}

func (s *economyService) Work(ctx context.Context, userID string) (*entities.WorkResult, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	now := s.clock.Now()
	if remaining := s.cooldowns.TimeRemaining(userID, entities.ActionWork, now); remaining > 0 {
		return nil, &CooldownError{Kind: entities.ActionWork, Remaining: remaining}
	}

	earned := s.rng.IntRange(WorkMinWage, WorkMaxWage)
	s.cooldowns.RecordAttempt(userID, entities.ActionWork, now)
	newBalance := s.adjust(userID, earned, entities.TransactionTypeWork)

	return &entities.WorkResult{Earned: earned, NewBalance: newBalance}, nil
}

func (s *economyService) Rob(ctx context.Context, robberID string, target entities.User) (*entities.RobResult, error) {
	if target.ID == robberID {
		return nil, ErrSelfTarget
	}
	if target.Bot {
		return nil, ErrBotTarget
	}

	unlock := s.locks.Lock(robberID, target.ID)
	defer unlock()

	now := s.clock.Now()
	if remaining := s.cooldowns.TimeRemaining(robberID, entities.ActionRob, now); remaining > 0 {
		return nil, &CooldownError{Kind: entities.ActionRob, Remaining: remaining}
	}

	targetBalance := s.ledger.Balance(target.ID)
	if targetBalance <= 0 {
		return nil, ErrTargetBroke
	}

	s.cooldowns.RecordAttempt(robberID, entities.ActionRob, now)

	result := &entities.RobResult{}
	if s.rng.Float64() < RobSuccessChance {
		result.Success = true
		result.Fraction = s.rng.Uniform(RobStealMin, RobStealMax)
		result.Amount = int64(math.Floor(float64(targetBalance) * result.Fraction))
		result.TargetBalance = s.adjust(target.ID, -result.Amount, entities.TransactionTypeRobLoss)
		result.RobberBalance = s.adjust(robberID, result.Amount, entities.TransactionTypeRobGain)
	} else {
		robberBalance := s.ledger.Balance(robberID)
		result.Fraction = s.rng.Uniform(RobPenaltyMin, RobPenaltyMax)
		result.Amount = int64(math.Floor(float64(robberBalance) * result.Fraction))
		result.RobberBalance = s.adjust(robberID, -result.Amount, entities.TransactionTypeRobPenalty)
		result.TargetBalance = targetBalance
	}

	log.WithFields(log.Fields{
		"robber":  robberID,
		"target":  target.ID,
		"success": result.Success,
		"amount":  result.Amount,
	}).Debug("Robbery resolved")

	return result, nil
}

func (s *economyService) Give(ctx context.Context, giverID string, amount int64, recipients []entities.User) (*entities.TransferResult, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if len(recipients) == 0 {
		return nil, ErrNoRecipients
	}

	keys := []string{giverID}
	for _, recipient := range recipients {
		if recipient.ID == giverID {
			return nil, ErrSelfTarget
		}
		if recipient.Bot {
			return nil, ErrBotTarget
		}
		keys = append(keys, recipient.ID)
	}

	unlock := s.locks.Lock(keys...)
	defer unlock()

	count := int64(len(recipients))
	balance := s.ledger.Balance(giverID)
	if amount > math.MaxInt64/count || amount*count > balance {
		return nil, fmt.Errorf("%w: have %d, need %d x %d", ErrInsufficientBalance, balance, amount, count)
	}
	total := amount * count

	result := &entities.TransferResult{
		Amount:            amount,
		RecipientCount:    len(recipients),
		TotalCost:         total,
		RecipientBalances: make(map[string]int64, len(recipients)),
	}
	result.GiverBalance = s.adjust(giverID, -total, entities.TransactionTypeTransferOut)
	for _, recipient := range recipients {
		result.RecipientBalances[recipient.ID] = s.adjust(recipient.ID, amount, entities.TransactionTypeTransferIn)
	}

	return result, nil
}

func (s *economyService) AdjustMany(ctx context.Context, userIDs []string, delta int64) (*entities.AdjustmentResult, error) {
	if delta == 0 {
		return nil, ErrInvalidAmount
	}
	users := dedupe(userIDs)
	if len(users) == 0 {
		return nil, ErrNoRecipients
	}

	transactionType := entities.TransactionTypeAdminGrant
	if delta < 0 {
		transactionType = entities.TransactionTypeAdminRevoke
	}

	unlock := s.locks.Lock(users...)
	defer unlock()

	result := &entities.AdjustmentResult{
		Delta:    delta,
		Affected: len(users),
		Balances: make(map[string]int64, len(users)),
	}
	for _, userID := range users {
		result.Balances[userID] = s.adjust(userID, delta, transactionType)
	}
	return result, nil
}

func (s *economyService) ConfigureChannelReward(channelID string, reward entities.RewardRange) error {
	if err := s.rewards.Set(channelID, reward); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	log.WithFields(log.Fields{
		"channelID": channelID,
		"min":       reward.Min,
		"max":       reward.Max,
	}).Info("Channel reward configured")
	return nil
}

func (s *economyService) RewardChat(ctx context.Context, userID, channelID string) (int64, bool) {
	reward, ok := s.rewards.Get(channelID)
	if !ok {
		return 0, false
	}

	amount := s.rng.IntRange(reward.Min, reward.Max)
	if amount > 0 {
		unlock := s.locks.Lock(userID)
		s.adjust(userID, amount, entities.TransactionTypeChatReward)
		unlock()
	}
	return amount, true
}

// adjust applies delta and publishes the resulting balance change
func (s *economyService) adjust(userID string, delta int64, transactionType entities.TransactionType) int64 {
	before, after := s.ledger.Adjust(userID, delta)

	event := events.BalanceChangeEvent{
		UserID:          userID,
		OldBalance:      before,
		NewBalance:      after,
		ChangeAmount:    after - before,
		TransactionType: transactionType,
	}
	log.WithFields(log.Fields{
		"userID":          event.UserID,
		"oldBalance":      event.OldBalance,
		"newBalance":      event.NewBalance,
		"transactionType": event.TransactionType,
		"changeAmount":    event.ChangeAmount,
	}).Debug("Publishing BalanceChangeEvent")
	if err := s.eventPublisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish balance change event")
	}

	return after
}

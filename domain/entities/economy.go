package entities

import (
	"fmt"
	"time"
)

// ActionKind identifies a rate-limited economy action
type ActionKind string

const (
	ActionWork ActionKind = "work"
	ActionRob  ActionKind = "rob"
)

// Cooldown returns the minimum time between two invocations of the action
func (k ActionKind) Cooldown() time.Duration {
	switch k {
	case ActionWork:
		return 2 * time.Hour
	case ActionRob:
		return 3 * time.Hour
	default:
		return 0
	}
}

// RewardRange is the passive chat reward configured for a channel
type RewardRange struct {
	Min int64
	Max int64
}

// Validate checks that 0 <= Min <= Max
func (r RewardRange) Validate() error {
	if r.Min < 0 || r.Max < 0 {
		return fmt.Errorf("reward bounds must not be negative (min=%d, max=%d)", r.Min, r.Max)
	}
	if r.Min > r.Max {
		return fmt.Errorf("reward minimum %d exceeds maximum %d", r.Min, r.Max)
	}
	return nil
}

// GambleResult contains the outcome of a gamble
type GambleResult struct {
	Stake      int64
	Multiplier float64
	Payout     int64
	NewBalance int64
	// HighBand reports whether the probability draw selected the high multiplier band.
	HighBand bool
}

// Net returns payout minus stake
func (r *GambleResult) Net() int64 {
	return r.Payout - r.Stake
}

// Won is derived from the payout alone, not from the band that was drawn.
func (r *GambleResult) Won() bool {
	return r.Payout > r.Stake
}

// WorkResult contains the outcome of a work shift
type WorkResult struct {
	Earned     int64
	NewBalance int64
}

// RobResult contains the outcome of a robbery attempt
type RobResult struct {
	Success bool
	// Fraction is the stolen share on success or the penalty share on failure.
	Fraction      float64
	Amount        int64
	RobberBalance int64
	TargetBalance int64
}

// TransferResult contains the outcome of a give from one user to many
type TransferResult struct {
	Amount         int64
	RecipientCount int
	TotalCost      int64
	GiverBalance   int64
	// RecipientBalances holds the balance of each recipient after the transfer
	RecipientBalances map[string]int64
}

// AdjustmentResult contains the outcome of an administrative bulk adjustment
type AdjustmentResult struct {
	Delta    int64
	Affected int
	// Balances holds the resulting balance per user
	Balances map[string]int64
}

package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"inncoin/domain/entities"
	"inncoin/domain/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestEconomyService_Gamble_HighBandScenario(t *testing.T) {
	f := NewEconomyFixture()
	ctx := context.Background()
	f.Ledger.Adjust(TestUser1ID, 1000)
	f.Random.QueueFloat64(0.0).QueueUniform(2.3)

	result, err := f.Service.Gamble(ctx, TestUser1ID, 1000)

	require.NoError(t, err)
	assert.True(t, result.HighBand)
	assert.Equal(t, int64(2300), result.Payout)
	assert.Equal(t, int64(1300), result.Net())
	assert.Equal(t, int64(2300), result.NewBalance)
	assert.True(t, result.Won())
	assert.Equal(t, int64(2300), f.Ledger.Balance(TestUser1ID))

	f.Publisher.AssertCalled(t, "Publish", events.BalanceChangeEvent{
		UserID:          TestUser1ID,
		OldBalance:      1000,
		NewBalance:      0,
		ChangeAmount:    -1000,
		TransactionType: entities.TransactionTypeGambleStake,
	})
	f.Publisher.AssertCalled(t, "Publish", events.BalanceChangeEvent{
		UserID:          TestUser1ID,
		OldBalance:      0,
		NewBalance:      2300,
		ChangeAmount:    2300,
		TransactionType: entities.TransactionTypeGamblePayout,
	})
}

func TestEconomyService_Gamble_LowBand(t *testing.T) {
	f := NewEconomyFixture()
	f.Ledger.Adjust(TestUser1ID, 1000)
	f.Random.QueueFloat64(0.5).QueueUniform(0.25)

	result, err := f.Service.Gamble(context.Background(), TestUser1ID, 400)

	require.NoError(t, err)
	assert.False(t, result.HighBand)
	assert.Equal(t, int64(100), result.Payout)
	assert.Equal(t, int64(-300), result.Net())
	assert.False(t, result.Won())
	assert.Equal(t, int64(700), f.Ledger.Balance(TestUser1ID))
}

// The win label comes from payout versus stake and ignores the band draw.
func TestGambleResult_WinLabelIgnoresBand(t *testing.T) {
	lowBandWin := entities.GambleResult{Stake: 100, Payout: 101, HighBand: false}
	highBandLoss := entities.GambleResult{Stake: 100, Payout: 100, HighBand: true}

	assert.True(t, lowBandWin.Won())
	assert.False(t, highBandLoss.Won())
}

func TestEconomyService_Gamble_Validation(t *testing.T) {
	f := NewEconomyFixture()
	ctx := context.Background()
	f.Ledger.Adjust(TestUser1ID, 1000)

	_, err := f.Service.Gamble(ctx, TestUser1ID, 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = f.Service.Gamble(ctx, TestUser1ID, 1001)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Equal(t, int64(1000), f.Ledger.Balance(TestUser1ID))
}

func TestEconomyService_Work(t *testing.T) {
	f := NewEconomyFixture()
	ctx := context.Background()
	f.Random.QueueInt(1200, 1500)

	result, err := f.Service.Work(ctx, TestUser1ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1200), result.Earned)
	assert.Equal(t, int64(1200), result.NewBalance)

	f.Clock.Advance(90 * time.Minute)
	_, err = f.Service.Work(ctx, TestUser1ID)
	var cooldownErr *CooldownError
	require.True(t, errors.As(err, &cooldownErr))
	assert.Equal(t, entities.ActionWork, cooldownErr.Kind)
	assert.Equal(t, 30*time.Minute, cooldownErr.Remaining)

	f.Clock.Advance(30 * time.Minute)
	result, err = f.Service.Work(ctx, TestUser1ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2700), result.NewBalance)
}

func TestEconomyService_Rob_BrokeTargetKeepsCooldown(t *testing.T) {
	f := NewEconomyFixture()
	ctx := context.Background()
	f.Ledger.Adjust(TestUser1ID, 1000)
	f.Ledger.Adjust(TestUser3ID, 1000)

	_, err := f.Service.Rob(ctx, TestUser1ID, entities.User{ID: TestUser2ID})
	assert.ErrorIs(t, err, ErrTargetBroke)
	assert.Equal(t, time.Duration(0), f.Cooldowns.TimeRemaining(TestUser1ID, entities.ActionRob, f.Clock.Now()))

	f.Random.QueueFloat64(0.9).QueueUniform(0.375)
	result, err := f.Service.Rob(ctx, TestUser1ID, entities.User{ID: TestUser3ID})
	require.NoError(t, err)
	assert.False(t, result.Success)
}

func TestEconomyService_Rob_Success(t *testing.T) {
	f := NewEconomyFixture()
	f.Ledger.Adjust(TestUser1ID, 200)
	f.Ledger.Adjust(TestUser2ID, 1000)
	f.Random.QueueFloat64(0.0).QueueUniform(0.55)

	result, err := f.Service.Rob(context.Background(), TestUser1ID, entities.User{ID: TestUser2ID})

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, int64(550), result.Amount)
	assert.Equal(t, int64(450), result.TargetBalance)
	assert.Equal(t, int64(750), result.RobberBalance)
	assert.Equal(t, int64(450), f.Ledger.Balance(TestUser2ID))
	assert.Equal(t, int64(750), f.Ledger.Balance(TestUser1ID))
	assert.Equal(t, 3*time.Hour, f.Cooldowns.TimeRemaining(TestUser1ID, entities.ActionRob, f.Clock.Now()))
}

func TestEconomyService_Rob_FailurePaysPenalty(t *testing.T) {
	f := NewEconomyFixture()
	f.Ledger.Adjust(TestUser1ID, 1000)
	f.Ledger.Adjust(TestUser2ID, 1000)
	f.Random.QueueFloat64(0.5).QueueUniform(0.375)

	result, err := f.Service.Rob(context.Background(), TestUser1ID, entities.User{ID: TestUser2ID})

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, int64(375), result.Amount)
	assert.Equal(t, int64(625), f.Ledger.Balance(TestUser1ID))
	assert.Equal(t, int64(1000), f.Ledger.Balance(TestUser2ID))
	assert.Equal(t, 3*time.Hour, f.Cooldowns.TimeRemaining(TestUser1ID, entities.ActionRob, f.Clock.Now()))
}

func TestEconomyService_Rob_InvalidTargets(t *testing.T) {
	f := NewEconomyFixture()
	ctx := context.Background()
	f.Ledger.Adjust(TestUser2ID, 1000)

	_, err := f.Service.Rob(ctx, TestUser1ID, entities.User{ID: TestUser1ID})
	assert.ErrorIs(t, err, ErrSelfTarget)

	_, err = f.Service.Rob(ctx, TestUser1ID, entities.User{ID: TestUser2ID, Bot: true})
	assert.ErrorIs(t, err, ErrBotTarget)

	assert.Equal(t, time.Duration(0), f.Cooldowns.TimeRemaining(TestUser1ID, entities.ActionRob, f.Clock.Now()))
}

func TestEconomyService_Give(t *testing.T) {
	recipients := []entities.User{{ID: TestUser2ID}, {ID: TestUser3ID}}

	t.Run("total cost above balance is rejected", func(t *testing.T) {
		f := NewEconomyFixture()
		f.Ledger.Adjust(TestUser1ID, 100)

		_, err := f.Service.Give(context.Background(), TestUser1ID, 60, recipients)

		assert.ErrorIs(t, err, ErrInsufficientBalance)
		assert.Equal(t, int64(100), f.Ledger.Balance(TestUser1ID))
		assert.Equal(t, int64(0), f.Ledger.Balance(TestUser2ID))
		f.Publisher.AssertNotCalled(t, "Publish", mock.Anything)
	})

	t.Run("every recipient is credited", func(t *testing.T) {
		f := NewEconomyFixture()
		f.Ledger.Adjust(TestUser1ID, 500)

		result, err := f.Service.Give(context.Background(), TestUser1ID, 100, recipients)

		require.NoError(t, err)
		assert.Equal(t, int64(200), result.TotalCost)
		assert.Equal(t, int64(300), result.GiverBalance)
		assert.Equal(t, map[string]int64{TestUser2ID: 100, TestUser3ID: 100}, result.RecipientBalances)
	})

	t.Run("invalid recipients", func(t *testing.T) {
		f := NewEconomyFixture()
		f.Ledger.Adjust(TestUser1ID, 500)
		ctx := context.Background()

		_, err := f.Service.Give(ctx, TestUser1ID, 10, nil)
		assert.ErrorIs(t, err, ErrNoRecipients)

		_, err = f.Service.Give(ctx, TestUser1ID, 10, []entities.User{{ID: TestUser1ID}})
		assert.ErrorIs(t, err, ErrSelfTarget)

		_, err = f.Service.Give(ctx, TestUser1ID, 10, []entities.User{{ID: TestUser2ID, Bot: true}})
		assert.ErrorIs(t, err, ErrBotTarget)

		_, err = f.Service.Give(ctx, TestUser1ID, -5, recipients)
		assert.ErrorIs(t, err, ErrInvalidAmount)
		assert.Equal(t, int64(500), f.Ledger.Balance(TestUser1ID))
	})
}

func TestEconomyService_AdjustMany(t *testing.T) {
	f := NewEconomyFixture()
	ctx := context.Background()
	f.Ledger.Adjust(TestUser1ID, 50)

	result, err := f.Service.AdjustMany(ctx, []string{TestUser1ID, TestUser2ID, TestUser1ID}, -100)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Affected)
	assert.Equal(t, int64(0), result.Balances[TestUser1ID])
	assert.Equal(t, int64(0), result.Balances[TestUser2ID])

	result, err = f.Service.AdjustMany(ctx, []string{TestUser2ID}, 250)
	require.NoError(t, err)
	assert.Equal(t, int64(250), result.Balances[TestUser2ID])

	_, err = f.Service.AdjustMany(ctx, nil, 10)
	assert.ErrorIs(t, err, ErrNoRecipients)
	_, err = f.Service.AdjustMany(ctx, []string{TestUser2ID}, 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestEconomyService_RewardChat(t *testing.T) {
	f := NewEconomyFixture()
	ctx := context.Background()

	_, ok := f.Service.RewardChat(ctx, TestUser1ID, "chan")
	assert.False(t, ok)

	require.NoError(t, f.Service.ConfigureChannelReward("chan", entities.RewardRange{Min: 5, Max: 10}))
	assert.ErrorIs(t, f.Service.ConfigureChannelReward("chan", entities.RewardRange{Min: 10, Max: 5}), ErrInvalidAmount)

	f.Random.QueueInt(7)
	amount, ok := f.Service.RewardChat(ctx, TestUser1ID, "chan")
	assert.True(t, ok)
	assert.Equal(t, int64(7), amount)
	assert.Equal(t, int64(7), f.Service.Balance(TestUser1ID))
}

func TestEconomyService_ConcurrentGamblesNeverOverspend(t *testing.T) {
	f := NewEconomyFixture()
	f.Ledger.Adjust(TestUser1ID, 1000)
	// Every draw lands in the low band so balances only shrink.
	for i := 0; i < 20; i++ {
		f.Random.QueueFloat64(0.9).QueueUniform(0.0)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.Service.Gamble(context.Background(), TestUser1ID, 100); err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, accepted)
	assert.Equal(t, int64(0), f.Ledger.Balance(TestUser1ID))
}

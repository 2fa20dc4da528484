package services

import (
	"math"
	"sync"
	"testing"
	"time"

	"inncoin/domain/entities"
	"inncoin/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_NeverNegative(t *testing.T) {
	ledger := NewLedger()

	deltas := []int64{500, -200, -1000, 0, 50, -49, -2, 10000, math.MinInt64 + 1, 7}
	for _, delta := range deltas {
		_, after := ledger.Adjust(TestUser1ID, delta)
		assert.GreaterOrEqual(t, after, int64(0), "balance went negative after delta %d", delta)
		assert.Equal(t, after, ledger.Balance(TestUser1ID))
	}
	assert.Equal(t, int64(7), ledger.Balance(TestUser1ID))
}

func TestLedger_UnknownUserIsZero(t *testing.T) {
	ledger := NewLedger()
	assert.Equal(t, int64(0), ledger.Balance("nobody"))
	assert.Equal(t, 0, ledger.Accounts())
}

func TestLedger_DebitClampsToZero(t *testing.T) {
	ledger := NewLedger()
	ledger.Adjust(TestUser1ID, 100)

	before, after := ledger.Adjust(TestUser1ID, -250)

	assert.Equal(t, int64(100), before)
	assert.Equal(t, int64(0), after)
}

func TestLedger_CreditSaturates(t *testing.T) {
	ledger := NewLedger()
	ledger.Adjust(TestUser1ID, math.MaxInt64-5)

	_, after := ledger.Adjust(TestUser1ID, 100)

	assert.Equal(t, int64(math.MaxInt64), after)
}

func TestLedger_ConcurrentAdjust(t *testing.T) {
	ledger := NewLedger()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ledger.Adjust(TestUser1ID, 10)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1000), ledger.Balance(TestUser1ID))
}

func TestCooldownTracker(t *testing.T) {
	tracker := NewCooldownTracker()

	t.Run("unseen user has no wait", func(t *testing.T) {
		assert.Equal(t, time.Duration(0), tracker.TimeRemaining(TestUser1ID, entities.ActionWork, TestEpoch))
		assert.Equal(t, time.Duration(0), tracker.TimeRemaining(TestUser1ID, entities.ActionRob, TestEpoch))
	})

	t.Run("remaining shrinks with time", func(t *testing.T) {
		tracker.RecordAttempt(TestUser2ID, entities.ActionWork, TestEpoch)

		assert.Equal(t, 2*time.Hour, tracker.TimeRemaining(TestUser2ID, entities.ActionWork, TestEpoch))
		assert.Equal(t, 30*time.Minute, tracker.TimeRemaining(TestUser2ID, entities.ActionWork, TestEpoch.Add(90*time.Minute)))
		assert.Equal(t, time.Duration(0), tracker.TimeRemaining(TestUser2ID, entities.ActionWork, TestEpoch.Add(2*time.Hour)))
	})

	t.Run("kinds are independent", func(t *testing.T) {
		tracker.RecordAttempt(TestUser3ID, entities.ActionRob, TestEpoch)

		assert.Equal(t, 3*time.Hour, tracker.TimeRemaining(TestUser3ID, entities.ActionRob, TestEpoch))
		assert.Equal(t, time.Duration(0), tracker.TimeRemaining(TestUser3ID, entities.ActionWork, TestEpoch))
	})
}

func TestRewardConfigStore(t *testing.T) {
	store := NewRewardConfigStore()

	_, ok := store.Get("chan")
	assert.False(t, ok)

	require.NoError(t, store.Set("chan", entities.RewardRange{Min: 5, Max: 10}))
	reward, ok := store.Get("chan")
	require.True(t, ok)
	assert.Equal(t, entities.RewardRange{Min: 5, Max: 10}, reward)

	assert.Error(t, store.Set("chan", entities.RewardRange{Min: 10, Max: 5}))
	assert.Error(t, store.Set("chan", entities.RewardRange{Min: -1, Max: 5}))

	reward, _ = store.Get("chan")
	assert.Equal(t, entities.RewardRange{Min: 5, Max: 10}, reward, "invalid ranges must not overwrite")
	assert.Equal(t, 1, store.Count())
}

func TestChallengeRegistry(t *testing.T) {
	ttl := 3 * time.Minute

	t.Run("new challenge replaces the old one", func(t *testing.T) {
		rng := testhelpers.NewScriptedRandom().QueueInt(10, 31, 20, 40)
		registry := NewChallengeRegistry(ttl, rng)

		first := registry.Issue(TestUser1ID, TestGuildID, TestRoleID, entities.ChallengeDirectMessage, TestEpoch)
		second := registry.Issue(TestUser1ID, TestGuildID, TestRoleID, entities.ChallengeDirectMessage, TestEpoch)
		require.Equal(t, int64(41), first.Answer)
		require.Equal(t, int64(60), second.Answer)

		outcome, _ := registry.AttemptAnswer(TestUser1ID, first.Answer, TestEpoch)
		assert.Equal(t, entities.OutcomeIncorrect, outcome)

		outcome, _ = registry.AttemptAnswer(TestUser1ID, second.Answer, TestEpoch)
		assert.Equal(t, entities.OutcomeCorrect, outcome)
	})

	t.Run("pick from a replaced challenge does not match", func(t *testing.T) {
		rng := testhelpers.NewScriptedRandom().QueueInt(3, 4, 10, 11, 12, 13, 2, 5, 10, 11, 12, 13)
		registry := NewChallengeRegistry(ttl, rng)

		first := registry.Issue(TestUser1ID, TestGuildID, TestRoleID, entities.ChallengeMultipleChoice, TestEpoch)
		second := registry.Issue(TestUser1ID, TestGuildID, TestRoleID, entities.ChallengeMultipleChoice, TestEpoch)
		require.Equal(t, first.Answer, second.Answer)
		require.NotEqual(t, first.Nonce, second.Nonce)

		outcome, got := registry.AttemptChoice(TestUser1ID, first.Nonce, first.Answer, TestEpoch)
		assert.Equal(t, entities.OutcomeNoSuchChallenge, outcome)
		assert.Nil(t, got)
		assert.Equal(t, 1, registry.Live(TestEpoch))

		outcome, _ = registry.AttemptChoice(TestUser1ID, "", second.Answer, TestEpoch)
		assert.Equal(t, entities.OutcomeNoSuchChallenge, outcome)

		outcome, _ = registry.AttemptChoice(TestUser1ID, second.Nonce, second.Answer, TestEpoch)
		assert.Equal(t, entities.OutcomeCorrect, outcome)
	})

	t.Run("expired then gone", func(t *testing.T) {
		registry := NewChallengeRegistry(ttl, testhelpers.NewScriptedRandom())
		challenge := registry.Issue(TestUser1ID, TestGuildID, TestRoleID, entities.ChallengeDirectMessage, TestEpoch)

		later := TestEpoch.Add(ttl + time.Second)
		outcome, _ := registry.AttemptAnswer(TestUser1ID, challenge.Answer, later)
		assert.Equal(t, entities.OutcomeExpired, outcome)

		outcome, _ = registry.AttemptAnswer(TestUser1ID, challenge.Answer, later)
		assert.Equal(t, entities.OutcomeNoSuchChallenge, outcome)
	})

	t.Run("exactly at ttl is still live", func(t *testing.T) {
		registry := NewChallengeRegistry(ttl, testhelpers.NewScriptedRandom())
		challenge := registry.Issue(TestUser1ID, TestGuildID, TestRoleID, entities.ChallengeDirectMessage, TestEpoch)

		outcome, _ := registry.AttemptAnswer(TestUser1ID, challenge.Answer, TestEpoch.Add(ttl))
		assert.Equal(t, entities.OutcomeCorrect, outcome)
	})

	t.Run("correct answer is single use", func(t *testing.T) {
		registry := NewChallengeRegistry(ttl, testhelpers.NewScriptedRandom())
		challenge := registry.Issue(TestUser1ID, TestGuildID, TestRoleID, entities.ChallengeDirectMessage, TestEpoch)

		outcome, got := registry.AttemptAnswer(TestUser1ID, challenge.Answer, TestEpoch)
		assert.Equal(t, entities.OutcomeCorrect, outcome)
		assert.Equal(t, TestRoleID, got.RoleID)

		outcome, got = registry.AttemptAnswer(TestUser1ID, challenge.Answer, TestEpoch)
		assert.Equal(t, entities.OutcomeNoSuchChallenge, outcome)
		assert.Nil(t, got)
	})

	t.Run("incorrect answer keeps the challenge", func(t *testing.T) {
		registry := NewChallengeRegistry(ttl, testhelpers.NewScriptedRandom())
		challenge := registry.Issue(TestUser1ID, TestGuildID, TestRoleID, entities.ChallengeDirectMessage, TestEpoch)

		outcome, _ := registry.AttemptAnswer(TestUser1ID, challenge.Answer+1, TestEpoch)
		assert.Equal(t, entities.OutcomeIncorrect, outcome)
		assert.Equal(t, 1, registry.Live(TestEpoch))

		outcome, _ = registry.AttemptAnswer(TestUser1ID, challenge.Answer, TestEpoch)
		assert.Equal(t, entities.OutcomeCorrect, outcome)
	})

	t.Run("direct message operands stay in range", func(t *testing.T) {
		registry := NewChallengeRegistry(ttl, MathRandom{})
		for i := 0; i < 200; i++ {
			challenge := registry.Issue(TestUser1ID, TestGuildID, TestRoleID, entities.ChallengeDirectMessage, TestEpoch)
			assert.GreaterOrEqual(t, challenge.Operands[0], int64(10))
			assert.LessOrEqual(t, challenge.Operands[0], int64(30))
			assert.GreaterOrEqual(t, challenge.Operands[1], int64(31))
			assert.LessOrEqual(t, challenge.Operands[1], int64(60))
			assert.Equal(t, challenge.Operands[0]+challenge.Operands[1], challenge.Answer)
		}
	})

	t.Run("multiple choice offers five distinct candidates", func(t *testing.T) {
		registry := NewChallengeRegistry(ttl, MathRandom{})
		for i := 0; i < 200; i++ {
			challenge := registry.Issue(TestUser1ID, TestGuildID, TestRoleID, entities.ChallengeMultipleChoice, TestEpoch)
			require.Len(t, challenge.Choices, entities.ChoiceCount)
			assert.Contains(t, challenge.Choices, challenge.Answer)

			seen := map[int64]bool{}
			for _, choice := range challenge.Choices {
				assert.False(t, seen[choice], "duplicate candidate %d", choice)
				seen[choice] = true
			}
		}
	})

	t.Run("discard only removes the same challenge", func(t *testing.T) {
		registry := NewChallengeRegistry(ttl, testhelpers.NewScriptedRandom())
		old := registry.Issue(TestUser1ID, TestGuildID, TestRoleID, entities.ChallengeDirectMessage, TestEpoch)
		current := registry.Issue(TestUser1ID, TestGuildID, TestRoleID, entities.ChallengeDirectMessage, TestEpoch)

		assert.False(t, registry.Discard(old))
		assert.Equal(t, 1, registry.Live(TestEpoch))
		assert.True(t, registry.Discard(current))
		assert.Equal(t, 0, registry.Live(TestEpoch))
	})
}

func TestPanelRegistry(t *testing.T) {
	t.Run("ticket panel bounds", func(t *testing.T) {
		registry := NewPanelRegistry(nil, "")

		_, err := registry.CreateTicketPanel(TestCategoryID, nil, TestEpoch)
		assert.ErrorIs(t, err, ErrInvalidPanel)

		_, err = registry.CreateTicketPanel(TestCategoryID, []string{"1", "2", "3", "4", "5"}, TestEpoch)
		assert.ErrorIs(t, err, ErrInvalidPanel)

		panel, err := registry.CreateTicketPanel(TestCategoryID, []string{"1", "2"}, TestEpoch)
		require.NoError(t, err)
		assert.Len(t, panel.ID, panelIDLength)
		assert.Equal(t, []string{"1", "2"}, panel.RoleIDs)

		got, ok := registry.Get(panel.ID)
		require.True(t, ok)
		assert.Same(t, panel, got)
	})

	t.Run("role panel rejects six roles", func(t *testing.T) {
		registry := NewPanelRegistry(nil, "")
		options := make([]entities.RoleOption, 6)
		for i := range options {
			options[i] = entities.RoleOption{RoleID: string(rune('a' + i))}
		}

		_, err := registry.CreateRoleSelectPanel(options, TestEpoch)
		assert.ErrorIs(t, err, ErrInvalidPanel)
		assert.Equal(t, 0, registry.Count())
	})

	t.Run("role panel assigns palette symbols", func(t *testing.T) {
		registry := NewPanelRegistry([]string{"A", "B"}, "Z")
		panel, err := registry.CreateRoleSelectPanel([]entities.RoleOption{
			{RoleID: "r1"}, {RoleID: "r2"}, {RoleID: "r3"},
		}, TestEpoch)
		require.NoError(t, err)

		assert.Equal(t, "A", panel.Options[0].Symbol)
		assert.Equal(t, "B", panel.Options[1].Symbol)
		assert.Equal(t, "Z", panel.Options[2].Symbol)

		_, ok := panel.Option(3)
		assert.False(t, ok)
		_, ok = panel.Option(-1)
		assert.False(t, ok)
	})

	t.Run("colliding ids are regenerated", func(t *testing.T) {
		registry := NewPanelRegistry(nil, "")
		ids := []string{"dup", "dup", "fresh"}
		registry.newID = func() string {
			id := ids[0]
			ids = ids[1:]
			return id
		}

		first, err := registry.CreateTicketPanel(TestCategoryID, []string{"1"}, TestEpoch)
		require.NoError(t, err)
		second, err := registry.CreateTicketPanel(TestCategoryID, []string{"1"}, TestEpoch)
		require.NoError(t, err)

		assert.Equal(t, "dup", first.ID)
		assert.Equal(t, "fresh", second.ID)
		assert.Equal(t, 2, registry.Count())
	})
}

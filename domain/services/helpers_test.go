package services

import (
	"time"

	"inncoin/domain/entities"
	"inncoin/domain/interfaces"
	"inncoin/domain/testhelpers"
)

// Test constants for consistent test data
const (
	TestGuildID    = "555555555"
	TestCategoryID = "444444444"
	TestRoleID     = "333333333"
	TestBotID      = "999999999"
	TestUser1ID    = "100"
	TestUser2ID    = "200"
	TestUser3ID    = "300"
)

// TestEpoch is the frozen instant test clocks start at
var TestEpoch = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// EconomyFixture bundles an economy service with its stores and fakes
type EconomyFixture struct {
	Service   interfaces.EconomyService
	Ledger    *Ledger
	Cooldowns *CooldownTracker
	Rewards   *RewardConfigStore
	Clock     *testhelpers.FixedClock
	Random    *testhelpers.ScriptedRandom
	Publisher *testhelpers.MockEventPublisher
}

// NewEconomyFixture creates an economy service over empty stores
func NewEconomyFixture() *EconomyFixture {
	f := &EconomyFixture{
		Ledger:    NewLedger(),
		Cooldowns: NewCooldownTracker(),
		Rewards:   NewRewardConfigStore(),
		Clock:     testhelpers.NewFixedClock(TestEpoch),
		Random:    testhelpers.NewScriptedRandom(),
		Publisher: testhelpers.NewPermissiveEventPublisher(),
	}
	f.Service = NewEconomyService(f.Ledger, f.Cooldowns, f.Rewards, f.Clock, f.Random, f.Publisher)
	return f
}

// newTestMember builds a guild member snapshot
func newTestMember(userID, username string, roleIDs ...string) *entities.Member {
	return &entities.Member{
		User:    entities.User{ID: userID, Username: username},
		GuildID: TestGuildID,
		RoleIDs: roleIDs,
	}
}

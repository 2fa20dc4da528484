package economy_test

import (
	"context"
	"testing"
	"time"

	"inncoin/bot/common"
	"inncoin/bot/dispatch"
	"inncoin/bot/dispatch/dispatchtest"
	"inncoin/bot/features/economy"
	"inncoin/domain/entities"
	"inncoin/domain/services"
	"inncoin/domain/testhelpers"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testGuildID = "guild-1"

var (
	alice = entities.User{ID: "100", Username: "alice"}
	bob   = entities.User{ID: "200", Username: "bob"}
	carol = entities.User{ID: "300", Username: "carol"}
	robot = entities.User{ID: "900", Username: "robot", Bot: true}
)

type harness struct {
	dispatcher *dispatch.Dispatcher
	platform   *dispatchtest.MockPlatform
	gateway    *testhelpers.MockGuildGateway
	ledger     *services.Ledger
	clock      *testhelpers.FixedClock
	random     *testhelpers.ScriptedRandom
	replies    *[]*dispatch.Reply
}

func newHarness(t *testing.T) *harness {
	h := &harness{
		platform: new(dispatchtest.MockPlatform),
		gateway:  new(testhelpers.MockGuildGateway),
		ledger:   services.NewLedger(),
		clock:    testhelpers.NewFixedClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)),
		random:   testhelpers.NewScriptedRandom(),
	}
	service := services.NewEconomyService(h.ledger, services.NewCooldownTracker(), services.NewRewardConfigStore(),
		h.clock, h.random, testhelpers.NewPermissiveEventPublisher())

	registry := dispatch.NewRegistry()
	require.NoError(t, economy.New(service, h.gateway).Register(registry))
	h.dispatcher = dispatch.NewDispatcher(registry, h.platform, dispatch.PermissionAuthorizer{})
	h.replies = h.platform.CaptureReplies()
	return h
}

func member(user entities.User, permissions int64) *entities.Member {
	return &entities.Member{User: user, GuildID: testGuildID, Permissions: permissions}
}

func (h *harness) run(name string, invoker *entities.Member, options dispatch.Options) []*dispatch.Reply {
	start := len(*h.replies)
	h.dispatcher.Dispatch(context.Background(), dispatchtest.CommandEvent(name, invoker, options))
	return (*h.replies)[start:]
}

func TestGambling_HighBandWin(t *testing.T) {
	h := newHarness(t)
	h.ledger.Adjust(alice.ID, 1000)
	h.random.QueueFloat64(0.05).QueueUniform(2.3)

	replies := h.run("gambling", member(alice, 0), dispatch.Options{"amount": int64(1000)})

	require.Len(t, replies, 1)
	require.Len(t, replies[0].Embeds, 1)
	embed := replies[0].Embeds[0]
	assert.Equal(t, common.ColorSuccess, embed.Color)
	assert.Equal(t, "+1,300 InnCoin", embed.Fields[2].Value)
	assert.Equal(t, "2,300 InnCoin", embed.Fields[3].Value)
	assert.False(t, replies[0].Ephemeral)
	assert.Equal(t, int64(2300), h.ledger.Balance(alice.ID))
}

func TestGambling_LowBandLoss(t *testing.T) {
	h := newHarness(t)
	h.ledger.Adjust(alice.ID, 1000)
	h.random.QueueFloat64(0.9).QueueUniform(0.25)

	replies := h.run("gambling", member(alice, 0), dispatch.Options{"amount": int64(400)})

	require.Len(t, replies, 1)
	embed := replies[0].Embeds[0]
	assert.Equal(t, common.ColorDanger, embed.Color)
	assert.Equal(t, "x0.250", embed.Fields[1].Value)
	assert.Equal(t, int64(700), h.ledger.Balance(alice.ID))
}

func TestGambling_InsufficientBalance(t *testing.T) {
	h := newHarness(t)
	h.ledger.Adjust(alice.ID, 100)

	replies := h.run("gambling", member(alice, 0), dispatch.Options{"amount": int64(500)})

	require.Len(t, replies, 1)
	assert.Equal(t, "❌ Insufficient balance. You have 100 InnCoin.", replies[0].Content)
	assert.True(t, replies[0].Ephemeral)
	assert.Equal(t, int64(100), h.ledger.Balance(alice.ID))
}

func TestMoney_DefaultsToInvoker(t *testing.T) {
	h := newHarness(t)
	h.ledger.Adjust(alice.ID, 1234)

	replies := h.run("money", member(alice, 0), nil)

	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Embeds[0].Description, "1,234 InnCoin")
	assert.Contains(t, replies[0].Embeds[0].Description, alice.Mention())
}

func TestLoad_IsEphemeral(t *testing.T) {
	h := newHarness(t)

	replies := h.run("load", member(alice, 0), nil)

	require.Len(t, replies, 1)
	assert.True(t, replies[0].Ephemeral)
	assert.Contains(t, replies[0].Embeds[0].Description, "0 InnCoin")
}

func TestWork_Cooldown(t *testing.T) {
	h := newHarness(t)
	h.random.QueueInt(1200)

	replies := h.run("work", member(alice, 0), nil)
	require.Len(t, replies, 1)
	assert.Equal(t, int64(1200), h.ledger.Balance(alice.ID))

	replies = h.run("work", member(alice, 0), nil)
	require.Len(t, replies, 1)
	assert.Equal(t, "⏳ You are still tired. You can work again in 120 minutes.", replies[0].Content)

	h.clock.Advance(119*time.Minute + 30*time.Second)
	replies = h.run("work", member(alice, 0), nil)
	require.Len(t, replies, 1)
	assert.Equal(t, "⏳ You are still tired. You can work again in 1 minute.", replies[0].Content)
	assert.Equal(t, int64(1200), h.ledger.Balance(alice.ID))
}

func TestRob(t *testing.T) {
	t.Run("broke target does not arm the cooldown", func(t *testing.T) {
		h := newHarness(t)
		h.ledger.Adjust(carol.ID, 1000)
		h.random.QueueFloat64(0.01).QueueUniform(0.55)

		replies := h.run("rob", member(alice, 0), dispatch.Options{"target": bob})
		require.Len(t, replies, 1)
		assert.Equal(t, "❌ That member has no InnCoin to steal.", replies[0].Content)

		replies = h.run("rob", member(alice, 0), dispatch.Options{"target": carol})
		require.Len(t, replies, 1)
		require.Len(t, replies[0].Embeds, 1)
		assert.Equal(t, int64(550), h.ledger.Balance(alice.ID))
		assert.Equal(t, int64(450), h.ledger.Balance(carol.ID))
	})

	t.Run("second attempt is on cooldown", func(t *testing.T) {
		h := newHarness(t)
		h.ledger.Adjust(alice.ID, 1000)
		h.ledger.Adjust(bob.ID, 1000)
		h.random.QueueFloat64(0.9).QueueUniform(0.375)

		replies := h.run("rob", member(alice, 0), dispatch.Options{"target": bob})
		require.Len(t, replies, 1)
		assert.Equal(t, common.ColorDanger, replies[0].Embeds[0].Color)
		assert.Equal(t, int64(625), h.ledger.Balance(alice.ID))

		h.clock.Advance(time.Hour)
		replies = h.run("rob", member(alice, 0), dispatch.Options{"target": bob})
		require.Len(t, replies, 1)
		assert.Equal(t, "⏳ You need to lie low. You can rob again in 2h 0m.", replies[0].Content)
	})

	t.Run("self target", func(t *testing.T) {
		h := newHarness(t)

		replies := h.run("rob", member(alice, 0), dispatch.Options{"target": alice})
		require.Len(t, replies, 1)
		assert.Equal(t, "❌ You cannot target yourself.", replies[0].Content)
	})
}

func TestGiveMoney_RoleExcludesBotsAndGiver(t *testing.T) {
	h := newHarness(t)
	h.ledger.Adjust(alice.ID, 100)
	role := entities.Role{ID: "role-1", Name: "regulars"}
	h.gateway.On("MembersWithRole", mock.Anything, testGuildID, role.ID).Return([]*entities.Member{
		member(alice, 0), member(bob, 0), member(robot, 0), member(carol, 0),
	}, nil)
	h.platform.On("DeferReply", mock.Anything, mock.Anything, false).Return(nil)

	replies := h.run("give-money", member(alice, 0), dispatch.Options{"amount": int64(30), "role": role})

	require.Len(t, replies, 1)
	h.platform.AssertCalled(t, "EditReply", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, int64(40), h.ledger.Balance(alice.ID))
	assert.Equal(t, int64(30), h.ledger.Balance(bob.ID))
	assert.Equal(t, int64(30), h.ledger.Balance(carol.ID))
	assert.Equal(t, int64(0), h.ledger.Balance(robot.ID))
}

func TestGiveMoney_RejectedBeforeAnyMutation(t *testing.T) {
	h := newHarness(t)
	h.ledger.Adjust(alice.ID, 100)
	role := entities.Role{ID: "role-1", Name: "regulars"}
	h.gateway.On("MembersWithRole", mock.Anything, testGuildID, role.ID).Return([]*entities.Member{
		member(bob, 0), member(carol, 0),
	}, nil)
	h.platform.On("DeferReply", mock.Anything, mock.Anything, false).Return(nil)

	replies := h.run("give-money", member(alice, 0), dispatch.Options{"amount": int64(60), "role": role})

	require.Len(t, replies, 1)
	assert.Equal(t, "❌ Insufficient balance. You have 100 InnCoin.", replies[0].Content)
	assert.Equal(t, int64(100), h.ledger.Balance(alice.ID))
	assert.Equal(t, int64(0), h.ledger.Balance(bob.ID))
	assert.Equal(t, int64(0), h.ledger.Balance(carol.ID))
}

func TestGiveMoney_EmptyRole(t *testing.T) {
	h := newHarness(t)
	h.ledger.Adjust(alice.ID, 100)
	role := entities.Role{ID: "role-1", Name: "bots"}
	h.gateway.On("MembersWithRole", mock.Anything, testGuildID, role.ID).Return([]*entities.Member{
		member(robot, 0), member(alice, 0),
	}, nil)
	h.platform.On("DeferReply", mock.Anything, mock.Anything, false).Return(nil)

	replies := h.run("give-money", member(alice, 0), dispatch.Options{"amount": int64(10), "role": role})

	require.Len(t, replies, 1)
	assert.Equal(t, "❌ Nobody eligible holds <@&role-1>.", replies[0].Content)
	assert.Equal(t, int64(100), h.ledger.Balance(alice.ID))
}

func TestGiveMoney_RequiresRecipient(t *testing.T) {
	h := newHarness(t)

	replies := h.run("give-money", member(alice, 0), dispatch.Options{"amount": int64(10)})

	require.Len(t, replies, 1)
	assert.Equal(t, "❌ Choose a member or a role.", replies[0].Content)
}

func TestAddMoney_RequiresAdministrator(t *testing.T) {
	h := newHarness(t)

	replies := h.run("add-money", member(alice, 0), dispatch.Options{"amount": int64(10), "user": bob})

	require.Len(t, replies, 1)
	assert.Equal(t, dispatch.MsgPermissionDenied, replies[0].Content)
	assert.Equal(t, int64(0), h.ledger.Balance(bob.ID))
}

func TestAdjustMoney(t *testing.T) {
	admin := member(alice, discordgo.PermissionAdministrator)

	t.Run("add to role holders", func(t *testing.T) {
		h := newHarness(t)
		role := entities.Role{ID: "role-1", Name: "regulars"}
		h.gateway.On("MembersWithRole", mock.Anything, testGuildID, role.ID).Return([]*entities.Member{
			member(alice, 0), member(bob, 0), member(robot, 0),
		}, nil)
		h.platform.On("DeferReply", mock.Anything, mock.Anything, false).Return(nil)

		replies := h.run("add-money", admin, dispatch.Options{"amount": int64(250), "role": role})

		require.Len(t, replies, 1)
		assert.Contains(t, replies[0].Embeds[0].Description, "(2 members)")
		assert.Equal(t, int64(250), h.ledger.Balance(alice.ID))
		assert.Equal(t, int64(250), h.ledger.Balance(bob.ID))
		assert.Equal(t, int64(0), h.ledger.Balance(robot.ID))
	})

	t.Run("remove clamps at zero", func(t *testing.T) {
		h := newHarness(t)
		h.ledger.Adjust(bob.ID, 150)

		replies := h.run("remove-money", admin, dispatch.Options{"amount": int64(200), "user": bob})

		require.Len(t, replies, 1)
		assert.Contains(t, replies[0].Embeds[0].Description, "Removed 200 InnCoin from <@200>")
		assert.Equal(t, int64(0), h.ledger.Balance(bob.ID))
	})

	t.Run("bot user rejected", func(t *testing.T) {
		h := newHarness(t)

		replies := h.run("add-money", admin, dispatch.Options{"amount": int64(200), "user": robot})

		require.Len(t, replies, 1)
		assert.Equal(t, "❌ Bots do not hold InnCoin.", replies[0].Content)
	})
}

func TestChannelMoney_AndPassiveReward(t *testing.T) {
	h := newHarness(t)
	admin := member(alice, discordgo.PermissionAdministrator)
	channel := entities.Channel{ID: "chat-1", GuildID: testGuildID, Name: "general"}

	replies := h.run("channel-money", admin, dispatch.Options{"channel": channel, "min": int64(10), "max": int64(5)})
	require.Len(t, replies, 1)
	assert.Equal(t, "❌ The minimum must not exceed the maximum and neither may be negative.", replies[0].Content)

	replies = h.run("channel-money", admin, dispatch.Options{"channel": channel, "min": int64(5), "max": int64(10)})
	require.Len(t, replies, 1)
	assert.True(t, replies[0].Ephemeral)

	h.random.QueueInt(7)
	message := func(user entities.User, channelID string) *dispatch.Event {
		return &dispatch.Event{
			Kind:      dispatch.KindMessage,
			GuildID:   testGuildID,
			ChannelID: channelID,
			User:      user,
			Member:    member(user, 0),
			Content:   "hello",
		}
	}

	h.dispatcher.Dispatch(context.Background(), message(bob, "chat-1"))
	h.dispatcher.Dispatch(context.Background(), message(bob, "elsewhere"))
	h.dispatcher.Dispatch(context.Background(), message(robot, "chat-1"))

	assert.Equal(t, int64(7), h.ledger.Balance(bob.ID))
	assert.Equal(t, int64(0), h.ledger.Balance(robot.ID))
}

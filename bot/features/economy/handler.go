package economy

import (
	"context"
	"errors"
	"fmt"

	"inncoin/bot/common"
	"inncoin/bot/dispatch"
	"inncoin/domain/entities"
	"inncoin/domain/services"

	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleGambling(ctx context.Context, req *dispatch.Request) (*dispatch.Reply, error) {
	amount, _ := req.Options.Int("amount")

	result, err := f.economy.Gamble(ctx, req.User.ID, amount)
	if err != nil {
		return nil, f.translate(req.User.ID, err)
	}

	return dispatch.Embed(buildGambleEmbed(req.Member.DisplayName(), result), false), nil
}

func (f *Feature) handleMoney(ctx context.Context, req *dispatch.Request) (*dispatch.Reply, error) {
	target, ok := req.Options.User("user")
	if !ok {
		target = req.User
	}
	return dispatch.Embed(buildBalanceEmbed(target, f.economy.Balance(target.ID)), false), nil
}

func (f *Feature) handleLoad(ctx context.Context, req *dispatch.Request) (*dispatch.Reply, error) {
	return dispatch.Embed(buildBalanceEmbed(req.User, f.economy.Balance(req.User.ID)), true), nil
}

func (f *Feature) handleWork(ctx context.Context, req *dispatch.Request) (*dispatch.Reply, error) {
	result, err := f.economy.Work(ctx, req.User.ID)
	if err != nil {
		return nil, f.translate(req.User.ID, err)
	}
	return dispatch.Embed(buildWorkEmbed(req.Member.DisplayName(), result), false), nil
}

func (f *Feature) handleRob(ctx context.Context, req *dispatch.Request) (*dispatch.Reply, error) {
	target, ok := req.Options.User("target")
	if !ok {
		return nil, common.NewUserError("❌ Choose a member to rob.", "rob without target")
	}

	result, err := f.economy.Rob(ctx, req.User.ID, target)
	if err != nil {
		return nil, f.translate(req.User.ID, err)
	}
	return dispatch.Embed(buildRobEmbed(req.User, target, result), false), nil
}

func (f *Feature) handleGiveMoney(ctx context.Context, req *dispatch.Request) (*dispatch.Reply, error) {
	amount, _ := req.Options.Int("amount")

	recipients, label, err := f.resolveRecipients(ctx, req, true)
	if err != nil {
		return nil, err
	}

	result, err := f.economy.Give(ctx, req.User.ID, amount, recipients)
	if err != nil {
		return nil, f.translate(req.User.ID, err)
	}

	log.WithFields(log.Fields{
		"giver_id":   req.User.ID,
		"amount":     amount,
		"recipients": result.RecipientCount,
	}).Info("InnCoin given")

	return dispatch.Embed(buildTransferEmbed(req.User, label, result), false), nil
}

func (f *Feature) handleAddMoney(ctx context.Context, req *dispatch.Request) (*dispatch.Reply, error) {
	return f.adjustMoney(ctx, req, 1)
}

func (f *Feature) handleRemoveMoney(ctx context.Context, req *dispatch.Request) (*dispatch.Reply, error) {
	return f.adjustMoney(ctx, req, -1)
}

func (f *Feature) adjustMoney(ctx context.Context, req *dispatch.Request, sign int64) (*dispatch.Reply, error) {
	amount, _ := req.Options.Int("amount")
	if amount <= 0 {
		return nil, f.translate(req.User.ID, services.ErrInvalidAmount)
	}

	recipients, label, err := f.resolveRecipients(ctx, req, false)
	if err != nil {
		return nil, err
	}

	userIDs := make([]string, 0, len(recipients))
	for _, user := range recipients {
		userIDs = append(userIDs, user.ID)
	}

	result, err := f.economy.AdjustMany(ctx, userIDs, sign*amount)
	if err != nil {
		return nil, f.translate(req.User.ID, err)
	}

	log.WithFields(log.Fields{
		"admin_id": req.User.ID,
		"delta":    result.Delta,
		"affected": result.Affected,
	}).Info("InnCoin adjusted by administrator")

	return dispatch.Embed(buildAdjustmentEmbed(label, result), false), nil
}

func (f *Feature) handleChannelMoney(ctx context.Context, req *dispatch.Request) (*dispatch.Reply, error) {
	channel, ok := req.Options.Channel("channel")
	if !ok {
		return nil, common.NewUserError("❌ Choose a channel.", "channel-money without channel")
	}
	minReward, _ := req.Options.Int("min")
	maxReward, _ := req.Options.Int("max")

	reward := entities.RewardRange{Min: minReward, Max: maxReward}
	if err := f.economy.ConfigureChannelReward(channel.ID, reward); err != nil {
		if errors.Is(err, services.ErrInvalidAmount) {
			return nil, common.NewUserError("❌ The minimum must not exceed the maximum and neither may be negative.", err.Error())
		}
		return nil, common.NewSystemError(err, "failed to configure channel reward")
	}

	return dispatch.Embed(buildChannelRewardEmbed(channel, reward), true), nil
}

func (f *Feature) handleMessage(ctx context.Context, event *dispatch.Event) {
	earned, ok := f.economy.RewardChat(ctx, event.User.ID, event.ChannelID)
	if !ok {
		return
	}
	log.WithFields(log.Fields{
		"user_id":    event.User.ID,
		"channel_id": event.ChannelID,
		"earned":     earned,
	}).Debug("Chat reward credited")
}

// resolveRecipients returns the single user option or the non-bot holders of
// the role option, along with a mention describing them. The role lookup is a
// remote call, so the request is deferred first.
func (f *Feature) resolveRecipients(ctx context.Context, req *dispatch.Request, excludeInvoker bool) ([]entities.User, string, error) {
	if user, ok := req.Options.User("user"); ok {
		if user.Bot {
			return nil, "", f.translate(req.User.ID, services.ErrBotTarget)
		}
		return []entities.User{user}, user.Mention(), nil
	}

	role, ok := req.Options.Role("role")
	if !ok {
		return nil, "", common.NewUserError("❌ Choose a member or a role.", "no recipient option given")
	}

	if err := req.Defer(ctx, false); err != nil {
		return nil, "", common.NewDeliveryError("❌ Could not reach Discord. Please try again.", err)
	}

	members, err := f.gateway.MembersWithRole(ctx, req.GuildID, role.ID)
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return nil, "", common.NewNotFoundError("❌ That role no longer exists.", err)
		}
		return nil, "", common.NewDeliveryError("❌ Could not load the members of that role.", err)
	}

	var recipients []entities.User
	for _, member := range members {
		if member.User.Bot {
			continue
		}
		if excludeInvoker && member.User.ID == req.User.ID {
			continue
		}
		recipients = append(recipients, member.User)
	}
	if len(recipients) == 0 {
		return nil, "", common.NewNotFoundError(fmt.Sprintf("❌ Nobody eligible holds %s.", role.Mention()), services.ErrNoRecipients)
	}

	return recipients, role.Mention(), nil
}

// translate maps economy service errors onto user-facing bot errors
func (f *Feature) translate(userID string, err error) error {
	var cooldown *services.CooldownError
	switch {
	case errors.As(err, &cooldown):
		return common.NewUserError(cooldownMessage(cooldown), err.Error())
	case errors.Is(err, services.ErrInsufficientBalance):
		return common.NewUserError(
			fmt.Sprintf("❌ Insufficient balance. You have %s.", common.FormatCoins(f.economy.Balance(userID))),
			err.Error(),
		)
	case errors.Is(err, services.ErrInvalidAmount):
		return common.NewUserError("❌ The amount must be a positive number.", err.Error())
	case errors.Is(err, services.ErrSelfTarget):
		return common.NewUserError("❌ You cannot target yourself.", err.Error())
	case errors.Is(err, services.ErrBotTarget):
		return common.NewUserError("❌ Bots do not hold InnCoin.", err.Error())
	case errors.Is(err, services.ErrTargetBroke):
		return common.NewUserError("❌ That member has no InnCoin to steal.", err.Error())
	case errors.Is(err, services.ErrNoRecipients):
		return common.NewNotFoundError("❌ There is nobody to pay.", err)
	default:
		return common.NewSystemError(err, "economy operation failed")
	}
}

func cooldownMessage(cooldown *services.CooldownError) string {
	switch cooldown.Kind {
	case entities.ActionWork:
		return fmt.Sprintf("⏳ You are still tired. You can work again in %s.", common.FormatMinutesCeil(cooldown.Remaining))
	case entities.ActionRob:
		return fmt.Sprintf("⏳ You need to lie low. You can rob again in %s.", common.FormatHoursMinutes(cooldown.Remaining))
	default:
		return fmt.Sprintf("⏳ Try again in %s.", common.FormatDuration(cooldown.Remaining))
	}
}

package auth

import (
	"context"
	"errors"
	"fmt"

	"inncoin/bot/common"
	"inncoin/bot/dispatch"
	"inncoin/domain/entities"
	"inncoin/domain/services"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const (
	msgNoChallenge   = "❌ You have no pending verification. Press the verify button first."
	msgExpired       = "⌛ Your code expired. Press the verify button to get a new one."
	msgIncorrect     = "❌ That answer is wrong. Try again."
	msgGrantFailed   = "❌ Your answer was correct, but the role could not be granted. Please contact an admin."
	msgPanelInvalid  = "❌ This verification panel is no longer valid. Ask an admin to recreate it."
	msgDirectBlocked = "❌ I could not send you a direct message. Allow DMs from server members and try again."
	msgForeignPick   = "❌ This challenge belongs to someone else."
)

func (f *Feature) handleAuthPanel(ctx context.Context, req *dispatch.Request) (*dispatch.Reply, error) {
	role, ok := req.Options.Role("role")
	if !ok {
		return nil, common.NewUserError("❌ Choose the role to grant.", "auth-panel without role")
	}

	panel := &dispatch.Reply{
		Embeds:     []*discordgo.MessageEmbed{buildPanelEmbed(role)},
		Components: buildPanelComponents(role.ID),
	}

	if err := req.Transport.SendToChannel(ctx, req.ChannelID, panel); err != nil {
		return nil, common.NewDeliveryError("❌ Could not post the panel here. Check the bot's permissions in this channel.", err)
	}

	log.WithFields(log.Fields{
		"guild_id":   req.GuildID,
		"channel_id": req.ChannelID,
		"role_id":    role.ID,
	}).Info("Auth panel posted")

	return dispatch.Text(fmt.Sprintf("✅ Verification panel for %s posted.", role.Mention()), true), nil
}

func (f *Feature) handleAuth(ctx context.Context, req *dispatch.Request) (*dispatch.Reply, error) {
	code, ok := req.Options.Int("code")
	if !ok {
		return nil, common.NewUserError("❌ Enter the code you received.", "auth without code")
	}

	result, err := f.auth.Submit(ctx, req.User.ID, code)
	return verificationReply(result, err)
}

func (f *Feature) handleStart(ctx context.Context, req *dispatch.Request, activation dispatch.Activation) (*dispatch.Reply, error) {
	start := activation.(dispatch.AuthStart)
	if !req.InGuild() {
		return nil, common.NewUserError(dispatch.MsgGuildOnly, "auth start outside a guild")
	}

	challenge, role, err := f.auth.Start(ctx, req.Member, start.RoleID)
	switch {
	case errors.Is(err, services.ErrAlreadyVerified):
		return dispatch.Text(fmt.Sprintf("✅ You already have %s.", role.Mention()), true), nil
	case errors.Is(err, services.ErrRoleGone):
		return nil, common.NewNotFoundError(msgPanelInvalid, err)
	case err != nil:
		return nil, common.NewSystemError(err, "failed to start verification")
	}

	if challenge.Variant == entities.ChallengeMultipleChoice {
		return &dispatch.Reply{
			Embeds:     buildChoiceEmbeds(challenge, role, f.ttl),
			Components: buildChoiceComponents(challenge),
			Ephemeral:  true,
		}, nil
	}

	dm := &dispatch.Reply{Embeds: buildDirectEmbeds(challenge, role, f.ttl)}
	if err := req.Transport.SendDirect(ctx, req.User.ID, dm); err != nil {
		f.auth.Abandon(challenge)
		return nil, common.NewDeliveryError(msgDirectBlocked, err)
	}

	return dispatch.Text("📬 Check your direct messages for the puzzle.", true), nil
}

func (f *Feature) handlePick(ctx context.Context, req *dispatch.Request, activation dispatch.Activation) (*dispatch.Reply, error) {
	pick := activation.(dispatch.AuthPick)

	result, err := f.auth.Pick(ctx, req.User.ID, pick.UserID, pick.Nonce, pick.Value)
	if errors.Is(err, services.ErrForeignActivation) {
		return nil, common.NewAuthorizationError(msgForeignPick)
	}
	return verificationReply(result, err)
}

// verificationReply turns an answer attempt into the reply shown to the user
func verificationReply(result *entities.VerificationResult, err error) (*dispatch.Reply, error) {
	if errors.Is(err, services.ErrRoleGrantFailed) {
		return nil, common.NewDeliveryError(msgGrantFailed, err)
	}
	if err != nil {
		return nil, common.NewSystemError(err, "failed to check answer")
	}

	switch result.Outcome {
	case entities.OutcomeCorrect:
		return dispatch.Text(fmt.Sprintf("✅ Verified! You now have the **%s** role.", roleName(result.Role)), true), nil
	case entities.OutcomeIncorrect:
		return nil, common.NewUserError(msgIncorrect, "incorrect answer")
	case entities.OutcomeExpired:
		return nil, common.NewNotFoundError(msgExpired, nil)
	default:
		return nil, common.NewNotFoundError(msgNoChallenge, nil)
	}
}

func roleName(role *entities.Role) string {
	if role == nil || role.Name == "" {
		return "verified"
	}
	return role.Name
}

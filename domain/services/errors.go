package services

import (
	"errors"
	"fmt"
	"time"

	"inncoin/domain/entities"
)

var (
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrSelfTarget          = errors.New("cannot target yourself")
	ErrBotTarget           = errors.New("cannot target a bot")
	ErrTargetBroke         = errors.New("target has no balance")
	ErrNoRecipients        = errors.New("no eligible recipients")
	ErrPanelGone           = errors.New("panel no longer exists")
	ErrRoleGone            = errors.New("role no longer exists")
	ErrInvalidPanel        = errors.New("invalid panel definition")
	ErrAlreadyVerified     = errors.New("member already holds the role")
	ErrRoleGrantFailed     = errors.New("role grant failed")
	ErrForeignActivation   = errors.New("control belongs to another user")
)

// CooldownError is returned when a rate-limited action is attempted too early
type CooldownError struct {
	Kind      entities.ActionKind
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("%s on cooldown for %s", e.Kind, e.Remaining.Round(time.Second))
}

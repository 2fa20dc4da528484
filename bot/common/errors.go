package common

import (
	"errors"
	"fmt"
)

// GenericFailureMessage is shown for any failure that is not a BotError
const GenericFailureMessage = "❌ Something went wrong. Please try again later."

// ErrorKind classifies a BotError
type ErrorKind int

const (
	KindValidation ErrorKind = iota
	KindAuthorization
	KindNotFound
	KindDelivery
	KindUnexpected
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindDelivery:
		return "delivery"
	default:
		return "unexpected"
	}
}

// BotError represents a structured error with user-facing and internal messages
type BotError struct {
	Kind        ErrorKind
	UserMessage string // Message shown to Discord user
	LogMessage  string // Internal message for logging
	Ephemeral   bool   // Whether the error message should be ephemeral
	Err         error  // Underlying error
	Context     any    // Additional context for logging
}

// Error implements the error interface
func (e *BotError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.LogMessage, e.Err)
	}
	return e.LogMessage
}

// Unwrap returns the underlying error
func (e *BotError) Unwrap() error {
	return e.Err
}

// NewUserError creates an error for user-caused issues (validation, insufficient funds, etc)
func NewUserError(userMessage string, logMessage string) *BotError {
	return &BotError{
		Kind:        KindValidation,
		UserMessage: userMessage,
		LogMessage:  logMessage,
		Ephemeral:   true,
	}
}

// NewAuthorizationError creates an error for a missing permission
func NewAuthorizationError(userMessage string) *BotError {
	return &BotError{
		Kind:        KindAuthorization,
		UserMessage: userMessage,
		LogMessage:  "permission denied",
		Ephemeral:   true,
	}
}

// NewNotFoundError creates an error for a panel, challenge, role or member that no longer exists
func NewNotFoundError(userMessage string, err error) *BotError {
	return &BotError{
		Kind:        KindNotFound,
		UserMessage: userMessage,
		LogMessage:  "referenced object not found",
		Ephemeral:   true,
		Err:         err,
	}
}

// NewDeliveryError creates an error for a failed remote call
func NewDeliveryError(userMessage string, err error) *BotError {
	return &BotError{
		Kind:        KindDelivery,
		UserMessage: userMessage,
		LogMessage:  "remote call failed",
		Ephemeral:   true,
		Err:         err,
	}
}

// NewSystemError creates an error for system issues (unexpected state, etc)
func NewSystemError(err error, logMessage string) *BotError {
	return &BotError{
		Kind:        KindUnexpected,
		UserMessage: GenericFailureMessage,
		LogMessage:  logMessage,
		Ephemeral:   true,
		Err:         err,
	}
}

// AsBotError extracts a BotError from an error chain
func AsBotError(err error) (*BotError, bool) {
	var botErr *BotError
	if errors.As(err, &botErr) {
		return botErr, true
	}
	return nil, false
}

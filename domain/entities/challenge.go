package entities

import (
	"fmt"
	"time"
)

// ChallengeVariant selects how a challenge is presented and answered
type ChallengeVariant string

const (
	// ChallengeDirectMessage sends the puzzle by DM and expects the answer through /auth.
	ChallengeDirectMessage ChallengeVariant = "dm"
	// ChallengeMultipleChoice shows the puzzle with five candidate buttons.
	ChallengeMultipleChoice ChallengeVariant = "choice"
)

// ChoiceCount is the number of candidates offered by a multiple-choice challenge
const ChoiceCount = 5

// Challenge is a short-lived arithmetic puzzle gating a role grant
type Challenge struct {
	UserID   string
	GuildID  string
	RoleID   string
	Variant  ChallengeVariant
	// Nonce distinguishes successive challenges of the same user.
	Nonce    string
	Operands [2]int64
	Answer   int64
	// Choices is set for multiple-choice challenges only (shuffled, includes Answer).
	Choices  []int64
	IssuedAt time.Time
}

// Expression renders the puzzle shown to the user
func (c *Challenge) Expression() string {
	return fmt.Sprintf("%d + %d", c.Operands[0], c.Operands[1])
}

// ExpiredAt reports whether the challenge has outlived ttl at now
func (c *Challenge) ExpiredAt(now time.Time, ttl time.Duration) bool {
	return now.Sub(c.IssuedAt) > ttl
}

// AnswerOutcome is the verdict of an answer attempt
type AnswerOutcome int

const (
	OutcomeNoSuchChallenge AnswerOutcome = iota
	OutcomeExpired
	OutcomeIncorrect
	OutcomeCorrect
)

func (o AnswerOutcome) String() string {
	switch o {
	case OutcomeNoSuchChallenge:
		return "no_such_challenge"
	case OutcomeExpired:
		return "expired"
	case OutcomeIncorrect:
		return "incorrect"
	case OutcomeCorrect:
		return "correct"
	default:
		return "unknown"
	}
}

// VerificationResult is returned by a completed answer attempt
type VerificationResult struct {
	Outcome AnswerOutcome
	// Role is resolved only when Outcome is OutcomeCorrect and the grant succeeded.
	Role *Role
}

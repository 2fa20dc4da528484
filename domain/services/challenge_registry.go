package services

import (
	"strconv"
	"sync"
	"time"

	"inncoin/domain/entities"
	"inncoin/domain/interfaces"
)

// Operand ranges per challenge variant
const (
	dmFirstMin       = 10
	dmFirstMax       = 30
	dmSecondMin      = 31
	dmSecondMax      = 60
	choiceOperandMin = 1
	choiceOperandMax = 10
	distractorMin    = 2
	distractorMax    = 40
)

// ChallengeRegistry holds at most one live challenge per user. Expired
// challenges are removed lazily when they are next accessed.
type ChallengeRegistry struct {
	mu         sync.Mutex
	ttl        time.Duration
	rng        interfaces.RandomSource
	issued     uint64
	challenges map[string]*entities.Challenge
}

// NewChallengeRegistry creates an empty registry
func NewChallengeRegistry(ttl time.Duration, rng interfaces.RandomSource) *ChallengeRegistry {
	return &ChallengeRegistry{
		ttl:        ttl,
		rng:        rng,
		challenges: make(map[string]*entities.Challenge),
	}
}

// TTL returns the challenge time-to-live
func (r *ChallengeRegistry) TTL() time.Duration {
	return r.ttl
}

// Issue generates a challenge for userID, replacing any existing one.
// The returned challenge must not be modified.
func (r *ChallengeRegistry) Issue(userID, guildID, roleID string, variant entities.ChallengeVariant, now time.Time) *entities.Challenge {
	challenge := &entities.Challenge{
		UserID:   userID,
		GuildID:  guildID,
		RoleID:   roleID,
		Variant:  variant,
		IssuedAt: now,
	}

	switch variant {
	case entities.ChallengeMultipleChoice:
		challenge.Operands = [2]int64{
			r.rng.IntRange(choiceOperandMin, choiceOperandMax),
			r.rng.IntRange(choiceOperandMin, choiceOperandMax),
		}
		challenge.Answer = challenge.Operands[0] + challenge.Operands[1]
		challenge.Choices = r.candidates(challenge.Answer)
	default:
		challenge.Operands = [2]int64{
			r.rng.IntRange(dmFirstMin, dmFirstMax),
			r.rng.IntRange(dmSecondMin, dmSecondMax),
		}
		challenge.Answer = challenge.Operands[0] + challenge.Operands[1]
	}

	r.mu.Lock()
	r.issued++
	challenge.Nonce = strconv.FormatUint(r.issued, 36)
	r.challenges[userID] = challenge
	r.mu.Unlock()

	return challenge
}

// candidates returns the answer plus distinct distractors in shuffled order
func (r *ChallengeRegistry) candidates(answer int64) []int64 {
	seen := map[int64]bool{answer: true}
	choices := []int64{answer}
	for len(choices) < entities.ChoiceCount {
		v := r.rng.IntRange(distractorMin, distractorMax)
		if seen[v] {
			continue
		}
		seen[v] = true
		choices = append(choices, v)
	}
	r.rng.Shuffle(len(choices), func(i, j int) {
		choices[i], choices[j] = choices[j], choices[i]
	})
	return choices
}

// AttemptAnswer checks answer against the live challenge of userID. Correct
// and expired challenges are removed; an incorrect answer leaves the
// challenge in place for another try. The challenge is returned for every
// outcome except OutcomeNoSuchChallenge.
func (r *ChallengeRegistry) AttemptAnswer(userID string, answer int64, now time.Time) (entities.AnswerOutcome, *entities.Challenge) {
	return r.attempt(userID, "", answer, now)
}

// AttemptChoice is AttemptAnswer for a candidate picked from the challenge
// identified by nonce. A pick from a replaced challenge reports
// OutcomeNoSuchChallenge and leaves the live challenge untouched.
func (r *ChallengeRegistry) AttemptChoice(userID, nonce string, answer int64, now time.Time) (entities.AnswerOutcome, *entities.Challenge) {
	if nonce == "" {
		return entities.OutcomeNoSuchChallenge, nil
	}
	return r.attempt(userID, nonce, answer, now)
}

func (r *ChallengeRegistry) attempt(userID, nonce string, answer int64, now time.Time) (entities.AnswerOutcome, *entities.Challenge) {
	r.mu.Lock()
	defer r.mu.Unlock()

	challenge, ok := r.challenges[userID]
	if !ok {
		return entities.OutcomeNoSuchChallenge, nil
	}
	if nonce != "" && challenge.Nonce != nonce {
		return entities.OutcomeNoSuchChallenge, nil
	}
	if challenge.ExpiredAt(now, r.ttl) {
		delete(r.challenges, userID)
		return entities.OutcomeExpired, challenge
	}
	if challenge.Answer != answer {
		return entities.OutcomeIncorrect, challenge
	}
	delete(r.challenges, userID)
	return entities.OutcomeCorrect, challenge
}

// Discard removes challenge if it is still the live challenge of its user
func (r *ChallengeRegistry) Discard(challenge *entities.Challenge) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.challenges[challenge.UserID] != challenge {
		return false
	}
	delete(r.challenges, challenge.UserID)
	return true
}

// Live returns the number of stored challenges that have not expired at now
func (r *ChallengeRegistry) Live(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, challenge := range r.challenges {
		if !challenge.ExpiredAt(now, r.ttl) {
			count++
		}
	}
	return count
}

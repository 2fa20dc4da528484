package services

import (
	"math"
	"sync"
)

// Ledger holds integer balances keyed by user id. Unknown users have a
// balance of 0 and no balance is ever negative.
type Ledger struct {
	mu       sync.RWMutex
	balances map[string]int64
}

// NewLedger creates an empty ledger
func NewLedger() *Ledger {
	return &Ledger{balances: make(map[string]int64)}
}

// Balance returns the current balance of userID
func (l *Ledger) Balance(userID string) int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balances[userID]
}

// Adjust adds delta to the balance, clamping the result to [0, MaxInt64].
// It returns the balance before and after the change.
func (l *Ledger) Adjust(userID string, delta int64) (before, after int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	before = l.balances[userID]
	switch {
	case delta > 0 && before > math.MaxInt64-delta:
		after = math.MaxInt64
	case before+delta < 0:
		after = 0
	default:
		after = before + delta
	}
	l.balances[userID] = after
	return before, after
}

// Accounts returns the number of users the ledger has seen
func (l *Ledger) Accounts() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.balances)
}

package services

import (
	"sync"
	"time"

	"inncoin/domain/entities"
)

type cooldownKey struct {
	userID string
	kind   entities.ActionKind
}

// CooldownTracker remembers the last attempt of each rate-limited action
type CooldownTracker struct {
	mu       sync.Mutex
	lastSeen map[cooldownKey]time.Time
}

// NewCooldownTracker creates an empty tracker
func NewCooldownTracker() *CooldownTracker {
	return &CooldownTracker{lastSeen: make(map[cooldownKey]time.Time)}
}

// TimeRemaining returns how long userID must wait before kind is permitted again
func (c *CooldownTracker) TimeRemaining(userID string, kind entities.ActionKind, now time.Time) time.Duration {
	c.mu.Lock()
	last, ok := c.lastSeen[cooldownKey{userID, kind}]
	c.mu.Unlock()

	if !ok {
		return 0
	}
	remaining := kind.Cooldown() - now.Sub(last)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// RecordAttempt marks kind as attempted by userID at now
func (c *CooldownTracker) RecordAttempt(userID string, kind entities.ActionKind, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastSeen[cooldownKey{userID, kind}] = now
}

package services

import (
	"sync"

	"inncoin/domain/entities"
)

// RewardConfigStore maps channel ids to their passive reward range
type RewardConfigStore struct {
	mu     sync.RWMutex
	ranges map[string]entities.RewardRange
}

// NewRewardConfigStore creates an empty store
func NewRewardConfigStore() *RewardConfigStore {
	return &RewardConfigStore{ranges: make(map[string]entities.RewardRange)}
}

// Set validates and stores the range, replacing any previous one
func (s *RewardConfigStore) Set(channelID string, reward entities.RewardRange) error {
	if err := reward.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ranges[channelID] = reward
	return nil
}

// Get returns the range configured for channelID
func (s *RewardConfigStore) Get(channelID string) (entities.RewardRange, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reward, ok := s.ranges[channelID]
	return reward, ok
}

// Count returns the number of configured channels
func (s *RewardConfigStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ranges)
}

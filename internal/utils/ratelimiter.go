package utils

import (
	"fmt"
	"sync"
	"time"

	config "github.com/paintmcp/paintd/config"
)

// SlidingWindowRateLimiter bounds the number of synthetic input events
// the engine may inject per time window. A runaway client cannot flood
// the desktop with events faster than the window allows.
type SlidingWindowRateLimiter struct {
	cfg         *config.RateLimitConfig
	actionTimes []time.Time
	mu          sync.Mutex
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(cfg config.RateLimitConfig) *SlidingWindowRateLimiter {
	return &SlidingWindowRateLimiter{
		cfg:         &cfg,
		actionTimes: make([]time.Time, 0),
	}
}

// CheckAndRecord checks if the action is within rate limits and records it
// Returns an error if the rate limit is exceeded
func (rl *SlidingWindowRateLimiter) CheckAndRecord(action string) error {
	if !rl.cfg.Enabled {
		return nil
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-time.Duration(rl.cfg.WindowSeconds) * time.Second)

	validActions := make([]time.Time, 0)
	for _, t := range rl.actionTimes {
		if t.After(windowStart) {
			validActions = append(validActions, t)
		}
	}
	rl.actionTimes = validActions

	if len(rl.actionTimes) >= rl.cfg.MaxActionsPerWindow {
		return fmt.Errorf("rate limit exceeded for %s: maximum %d actions per %d seconds (current: %d actions in window)",
			action, rl.cfg.MaxActionsPerWindow, rl.cfg.WindowSeconds, len(rl.actionTimes))
	}

	rl.actionTimes = append(rl.actionTimes, now)
	return nil
}

// GetCurrentCount returns the number of actions in the current window
func (rl *SlidingWindowRateLimiter) GetCurrentCount() int {
	if !rl.cfg.Enabled {
		return 0
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-time.Duration(rl.cfg.WindowSeconds) * time.Second)

	count := 0
	for _, t := range rl.actionTimes {
		if t.After(windowStart) {
			count++
		}
	}

	return count
}

// Reset clears all recorded actions
func (rl *SlidingWindowRateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.actionTimes = make([]time.Time, 0)
}

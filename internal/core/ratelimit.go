package core

import (
	"sync"
	"time"
)

// FrameKind selects the token cost of a rate-limit check.
type FrameKind int

const (
	// FrameMessage is a chat message frame.
	FrameMessage FrameKind = iota
	// FrameTyping is a typing-presence frame. Cheaper than a message so the
	// indicator can update between messages without draining the bucket.
	FrameTyping
)

// LimiterConfig holds token-bucket parameters shared by all connections.
type LimiterConfig struct {
	Capacity     float64
	RefillPerSec float64
	CostMessage  float64
	CostTyping   float64
}

// DefaultLimiterConfig returns the production defaults.
func DefaultLimiterConfig() LimiterConfig {
	return LimiterConfig{
		Capacity:     20,
		RefillPerSec: 5,
		CostMessage:  1,
		CostTyping:   0.2,
	}
}

// Limiter is a per-connection token bucket. A denied frame is rejected for
// that instant; nothing is queued.
type Limiter struct {
	mu     sync.Mutex
	cfg    LimiterConfig
	tokens float64
	last   time.Time
	now    func() time.Time
}

// NewLimiter constructs a limiter with a full bucket.
func NewLimiter(cfg LimiterConfig) *Limiter {
	return &Limiter{
		cfg:    cfg,
		tokens: cfg.Capacity,
		now:    time.Now,
	}
}

// SetClock replaces the limiter's time source. Intended for tests driving
// simulated time.
func (l *Limiter) SetClock(now func() time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
	l.last = time.Time{}
}

// Allow refills the bucket for the elapsed wall time and tries to spend the
// cost of the given frame kind. Tokens are left untouched on denial.
func (l *Limiter) Allow(kind FrameKind) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if l.last.IsZero() {
		l.last = now
	}
	elapsed := now.Sub(l.last).Seconds()
	if elapsed < 0 {
		// Clock went backwards; never drain the bucket for it.
		elapsed = 0
	}
	l.tokens = min(l.cfg.Capacity, l.tokens+elapsed*l.cfg.RefillPerSec)
	l.last = now

	cost := l.cfg.CostMessage
	if kind == FrameTyping {
		cost = l.cfg.CostTyping
	}
	if l.tokens < cost {
		return false
	}
	l.tokens -= cost
	return true
}

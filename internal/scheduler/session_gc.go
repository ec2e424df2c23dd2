package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/navbar/internal/logger"
)

// Sweeper removes sessions idle for longer than ttl.
type Sweeper interface {
	Sweep(ttl time.Duration) int
}

// SweepCounter records how many sessions were removed.
type SweepCounter interface {
	Add(float64)
}

// SessionGC periodically forgets idle in-memory sessions. Redis sessions
// expire through their key TTL and need no collector.
type SessionGC struct {
	sweeper  Sweeper
	swept    SweepCounter
	logger   logger.Logger
	interval time.Duration
	ttl      time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewSessionGC creates a new session garbage collector
func NewSessionGC(
	sweeper Sweeper,
	swept SweepCounter,
	log logger.Logger,
	interval time.Duration,
	ttl time.Duration,
) *SessionGC {
	return &SessionGC{
		sweeper:  sweeper,
		swept:    swept,
		logger:   log,
		interval: interval,
		ttl:      ttl,
		stopCh:   make(chan struct{}),
	}
}

// Run sweeps on every tick until ctx is done or Stop is called.
func (gc *SessionGC) Run(ctx context.Context) error {
	ticker := time.NewTicker(gc.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			gc.Collect()
		case <-gc.stopCh:
			return nil
		case <-ctx.Done():
			return nil
		}
	}
}

// Stop stops the garbage collector
func (gc *SessionGC) Stop() {
	gc.stopOnce.Do(func() { close(gc.stopCh) })
}

// Collect runs one sweep and returns the number of removed sessions.
func (gc *SessionGC) Collect() int {
	removed := gc.sweeper.Sweep(gc.ttl)
	if gc.swept != nil {
		gc.swept.Add(float64(removed))
	}

	if removed > 0 {
		gc.logger.Info("garbage collected idle sessions",
			logger.Int("sessions_deleted", removed),
			logger.Duration("idle_for", gc.ttl))
	} else {
		gc.logger.Debug("no sessions to garbage collect")
	}
	return removed
}

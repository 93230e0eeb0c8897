package engine

import (
	"context"
	"errors"
	"sync"
	"time"
)

// claimWatchdog is the optional server-side safety net spec.md §4.D and §9
// describe: the source only relies on clients submitting a null claim on
// expiry, so a disconnected claimant can wedge a window forever. Grounded on
// runtime/game/engines/mahjong/turn_manager.go's PlayerTicker — one
// context.WithTimeout per armed window, distinguishing a timeout
// (DeadlineExceeded) from a legitimate stop (Canceled).
type claimWatchdog struct {
	mu     sync.Mutex
	cancel context.CancelFunc
}

// Arm starts a timer for duration (the caller folds the grace period into
// it). If it fires before Disarm is
// called, onTimeout runs in its own goroutine. Arming again before the
// previous timer is disarmed cancels the previous one first.
func (w *claimWatchdog) Arm(duration time.Duration, onTimeout func()) {
	w.mu.Lock()
	if w.cancel != nil {
		w.cancel()
	}
	ctx, cancel := context.WithTimeout(context.Background(), duration)
	w.cancel = cancel
	w.mu.Unlock()

	go func() {
		<-ctx.Done()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			onTimeout()
		}
	}()
}

// Disarm cancels any running timer; safe to call when none is armed.
func (w *claimWatchdog) Disarm() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
}

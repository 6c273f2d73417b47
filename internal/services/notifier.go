package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/serenity-glow/storefront/internal/platform/schedule"
)

var (
	errNotifierSchedulerRequired = errors.New("notifier: scheduler is required")
)

const defaultToastDuration = 3 * time.Second

// NotifierDeps wires the hide scheduler for the toast notifier.
type NotifierDeps struct {
	Scheduler schedule.Scheduler
	Duration  time.Duration
	Logger    func(context.Context, string, map[string]any)
}

type toastNotifier struct {
	scheduler schedule.Scheduler
	duration  time.Duration
	logger    func(context.Context, string, map[string]any)

	mu      sync.Mutex
	message string
	visible bool
}

// NewNotifier constructs the singleton toast notifier.
func NewNotifier(deps NotifierDeps) (Notifier, error) {
	if deps.Scheduler == nil {
		return nil, errNotifierSchedulerRequired
	}

	duration := deps.Duration
	if duration <= 0 {
		duration = defaultToastDuration
	}

	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}

	return &toastNotifier{
		scheduler: deps.Scheduler,
		duration:  duration,
		logger:    logger,
	}, nil
}

// Notify replaces the toast message, shows it, and schedules the hide.
// Overlapping notifications do not cancel earlier hide timers; every timer
// performs the same hide, so the toast disappears when the first one fires.
func (n *toastNotifier) Notify(ctx context.Context, message string) {
	n.mu.Lock()
	n.message = message
	n.visible = true
	n.mu.Unlock()

	n.scheduler.AfterFunc(n.duration, func() {
		n.mu.Lock()
		n.visible = false
		n.mu.Unlock()
	})

	n.logger(ctx, "toast.shown", map[string]any{
		"message": message,
	})
}

// Current reports the toast message and visibility.
func (n *toastNotifier) Current() Toast {
	n.mu.Lock()
	defer n.mu.Unlock()
	return Toast{Message: n.message, Visible: n.visible}
}

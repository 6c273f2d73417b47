package services

import (
	"context"
	"testing"
	"time"

	"github.com/serenity-glow/storefront/internal/platform/schedule"
)

func TestNewNotifierRequiresScheduler(t *testing.T) {
	if _, err := NewNotifier(NotifierDeps{}); err == nil {
		t.Fatal("expected error for missing scheduler")
	}
}

func TestNotifyShowsThenHides(t *testing.T) {
	scheduler := schedule.NewManualScheduler(fixedClock())
	notifier, err := NewNotifier(NotifierDeps{Scheduler: scheduler})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	notifier.Notify(context.Background(), "Facial added to cart!")

	toast := notifier.Current()
	if !toast.Visible || toast.Message != "Facial added to cart!" {
		t.Fatalf("unexpected toast %+v", toast)
	}

	scheduler.Advance(2999 * time.Millisecond)
	if toast := notifier.Current(); !toast.Visible {
		t.Fatal("toast hidden early")
	}
	scheduler.Advance(time.Millisecond)
	if toast := notifier.Current(); toast.Visible {
		t.Fatal("expected toast hidden at +3s")
	}
	if toast := notifier.Current(); toast.Message != "Facial added to cart!" {
		t.Fatalf("expected message retained after hide, got %q", toast.Message)
	}
}

func TestOverlappingNotifyHidesAtFirstDeadline(t *testing.T) {
	scheduler := schedule.NewManualScheduler(fixedClock())
	notifier, err := NewNotifier(NotifierDeps{Scheduler: scheduler})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()

	notifier.Notify(ctx, "Facial added to cart!")
	scheduler.Advance(2 * time.Second)
	notifier.Notify(ctx, "Massage added to cart!")

	if toast := notifier.Current(); toast.Message != "Massage added to cart!" {
		t.Fatalf("expected replaced message, got %q", toast.Message)
	}

	// First timer fires one second later and hides the second message too.
	scheduler.Advance(time.Second)
	if toast := notifier.Current(); toast.Visible {
		t.Fatal("expected first timer to hide the replacement toast")
	}
	if scheduler.Pending() != 1 {
		t.Fatalf("expected second timer still pending, got %d", scheduler.Pending())
	}

	scheduler.Advance(2 * time.Second)
	if toast := notifier.Current(); toast.Visible {
		t.Fatal("expected toast to stay hidden")
	}
}

func TestNotifierCustomDuration(t *testing.T) {
	scheduler := schedule.NewManualScheduler(fixedClock())
	notifier, err := NewNotifier(NotifierDeps{Scheduler: scheduler, Duration: time.Second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	notifier.Notify(context.Background(), "hi")
	scheduler.Advance(time.Second)
	if toast := notifier.Current(); toast.Visible {
		t.Fatal("expected toast hidden at custom duration")
	}
}

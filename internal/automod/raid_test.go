package automod

import (
	"context"
	"testing"
	"time"

	"warden-automod/internal/storage"

	"go.uber.org/zap"
)

func TestRaidWatcherKicksOnBurst(t *testing.T) {
	settings := enabledSettings()
	settings.Raid = storage.RaidConfig{Enabled: true, JoinThreshold: 3, WindowSeconds: 10, Action: storage.ActionKick}
	fx := newFixture(settings, nil)

	watcher := NewRaidWatcher(fx.config, fx.engine, zap.NewNop())
	watcher.WithClock(fakeClock{now: time.Unix(0, 0)})
	ctx := context.Background()

	if watcher.HandleJoin(ctx, "g1", "u1") {
		t.Fatalf("first join should pass")
	}
	if watcher.HandleJoin(ctx, "g1", "u2") {
		t.Fatalf("second join should pass")
	}
	if !watcher.HandleJoin(ctx, "g1", "u3") {
		t.Fatalf("third join should tip the threshold")
	}
	if len(fx.platform.kicks) != 1 || fx.platform.kicks[0] != "u3" {
		t.Fatalf("expected the tipping member kicked, got %v", fx.platform.kicks)
	}
	if len(fx.log.entries) != 1 || fx.log.entries[0].RuleType != storage.RuleRaid {
		t.Fatalf("expected one raid log entry")
	}
}

func TestRaidWatcherDisabled(t *testing.T) {
	fx := newFixture(enabledSettings(), nil)
	watcher := NewRaidWatcher(fx.config, fx.engine, zap.NewNop())
	watcher.WithClock(fakeClock{now: time.Unix(0, 0)})

	for i := 0; i < 20; i++ {
		if watcher.HandleJoin(context.Background(), "g1", "u1") {
			t.Fatalf("disabled raid protection must not act")
		}
	}
}

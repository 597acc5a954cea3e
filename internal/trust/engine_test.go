package trust

import (
	"context"
	"testing"
	"time"

	"warden-automod/internal/storage"
)

type fakeClock struct{ now time.Time }

func (f fakeClock) Now() time.Time { return f.now }

type fakeStore struct {
	scores     map[string]int
	violations map[string]int
	history    map[string][]storage.TrustHistoryEntry
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		scores:     make(map[string]int),
		violations: make(map[string]int),
		history:    make(map[string][]storage.TrustHistoryEntry),
	}
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func (f *fakeStore) GetOrCreateTrust(ctx context.Context, guildID, userID string, accountAgeDays int) (storage.TrustScore, error) {
	key := guildID + ":" + userID
	if _, ok := f.scores[key]; !ok {
		f.scores[key] = storage.InitialTrustScore(accountAgeDays)
	}
	return storage.TrustScore{GuildID: guildID, UserID: userID, Score: f.scores[key]}, nil
}

func (f *fakeStore) ApplyTrustDelta(ctx context.Context, guildID, userID string, delta int, reason string) (bool, error) {
	key := guildID + ":" + userID
	if _, ok := f.scores[key]; !ok {
		return false, nil
	}
	f.scores[key] = clamp(f.scores[key] + delta)
	f.history[key] = append(f.history[key], storage.TrustHistoryEntry{Change: delta, Reason: reason})
	return true, nil
}

func (f *fakeStore) IncrementViolations(ctx context.Context, guildID, userID string) error {
	key := guildID + ":" + userID
	f.scores[key] = clamp(f.scores[key] - 5)
	f.violations[key]++
	return nil
}

func TestInitialScoreByAccountAge(t *testing.T) {
	cases := []struct {
		days int
		want int
	}{
		{0, 30}, {6, 30}, {7, 50}, {29, 50}, {30, 70}, {179, 70}, {180, 100}, {2000, 100},
	}
	for _, tc := range cases {
		if got := storage.InitialTrustScore(tc.days); got != tc.want {
			t.Fatalf("age %d: expected %d, got %d", tc.days, tc.want, got)
		}
	}
}

func TestPunishAppliesBothDeltas(t *testing.T) {
	store := newFakeStore()
	engine := NewEngine(store)
	ctx := context.Background()

	if _, err := engine.Ensure(ctx, "g1", "u1", 365); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if err := engine.Punish(ctx, "g1", "u1", storage.ActionWarn, "blacklisted word"); err != nil {
		t.Fatalf("punish: %v", err)
	}

	// -5 for the warn plus the unconditional -5 violation increment.
	if score := store.scores["g1:u1"]; score != 90 {
		t.Fatalf("expected 90, got %d", score)
	}
	if count := store.violations["g1:u1"]; count != 1 {
		t.Fatalf("expected 1 violation, got %d", count)
	}
}

func TestScoreNeverLeavesRange(t *testing.T) {
	store := newFakeStore()
	engine := NewEngine(store)
	ctx := context.Background()

	_, _ = engine.Ensure(ctx, "g1", "u1", 3)
	for i := 0; i < 10; i++ {
		if err := engine.Punish(ctx, "g1", "u1", storage.ActionBan, "repeat"); err != nil {
			t.Fatalf("punish: %v", err)
		}
	}
	if score := store.scores["g1:u1"]; score != 0 {
		t.Fatalf("expected clamp at 0, got %d", score)
	}

	for i := 0; i < 30; i++ {
		if _, err := engine.Reward(ctx, "g1", "u1", 10, "pardon"); err != nil {
			t.Fatalf("reward: %v", err)
		}
	}
	if score := store.scores["g1:u1"]; score != 100 {
		t.Fatalf("expected clamp at 100, got %d", score)
	}
}

func TestActionDeltas(t *testing.T) {
	cases := map[storage.Action]int{
		storage.ActionDelete: -2,
		storage.ActionWarn:   -5,
		storage.ActionMute:   -10,
		storage.ActionKick:   -20,
		storage.ActionBan:    -30,
	}
	for action, want := range cases {
		if got := ActionDelta(action); got != want {
			t.Fatalf("action %s: expected %d, got %d", action, want, got)
		}
	}
}

func TestAccountAgeDays(t *testing.T) {
	engine := NewEngine(newFakeStore())
	engine.WithClock(fakeClock{now: time.Unix(0, 0).Add(10 * 24 * time.Hour)})

	if days := engine.AccountAgeDays(time.Unix(0, 0)); days != 10 {
		t.Fatalf("expected 10, got %d", days)
	}
	if days := engine.AccountAgeDays(time.Unix(0, 0).Add(20 * 24 * time.Hour)); days != 0 {
		t.Fatalf("future creation should clamp to 0, got %d", days)
	}
}

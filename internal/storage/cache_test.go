package storage

import (
	"context"
	"testing"
)

type fakeSource struct {
	settingsCalls int
	rulesCalls    int
	settings      GuildSettings
	rules         []Rule
}

func (f *fakeSource) GetGuildSettings(ctx context.Context, guildID string) (GuildSettings, error) {
	f.settingsCalls++
	return f.settings, nil
}

func (f *fakeSource) GuildRules(ctx context.Context, guildID string, ruleType RuleType, enabledOnly bool) ([]Rule, error) {
	f.rulesCalls++
	return f.rules, nil
}

func TestCacheHitsAfterFirstLoad(t *testing.T) {
	source := &fakeSource{settings: DefaultGuildSettings("g1")}
	cache := NewCache(source)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := cache.Settings(ctx, "g1"); err != nil {
			t.Fatalf("settings: %v", err)
		}
		if _, err := cache.Rules(ctx, "g1"); err != nil {
			t.Fatalf("rules: %v", err)
		}
	}
	if source.settingsCalls != 1 || source.rulesCalls != 1 {
		t.Fatalf("expected single backend load, got %d/%d", source.settingsCalls, source.rulesCalls)
	}
}

func TestCacheInvalidatePerGuild(t *testing.T) {
	source := &fakeSource{settings: DefaultGuildSettings("g1")}
	cache := NewCache(source)
	ctx := context.Background()

	_, _ = cache.Settings(ctx, "g1")
	_, _ = cache.Settings(ctx, "g2")
	cache.Invalidate("g1")

	_, _ = cache.Settings(ctx, "g1")
	_, _ = cache.Settings(ctx, "g2")
	if source.settingsCalls != 3 {
		t.Fatalf("expected reload only for the invalidated guild, got %d", source.settingsCalls)
	}
}

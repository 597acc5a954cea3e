package storage

import (
	"context"
	"sync"
)

type cacheSource interface {
	GetGuildSettings(ctx context.Context, guildID string) (GuildSettings, error)
	GuildRules(ctx context.Context, guildID string, ruleType RuleType, enabledOnly bool) ([]Rule, error)
}

// Cache holds per-guild settings and enabled rules, dropped on every mutation
// through Invalidate. It is an injected service, not a package global, so
// tests get isolated instances.
type Cache struct {
	mu       sync.Mutex
	source   cacheSource
	settings map[string]GuildSettings
	rules    map[string][]Rule
}

func NewCache(source cacheSource) *Cache {
	return &Cache{
		source:   source,
		settings: make(map[string]GuildSettings),
		rules:    make(map[string][]Rule),
	}
}

func (c *Cache) Settings(ctx context.Context, guildID string) (GuildSettings, error) {
	c.mu.Lock()
	cached, ok := c.settings[guildID]
	c.mu.Unlock()
	if ok {
		return cached, nil
	}

	settings, err := c.source.GetGuildSettings(ctx, guildID)
	if err != nil {
		return GuildSettings{}, err
	}

	c.mu.Lock()
	c.settings[guildID] = settings
	c.mu.Unlock()
	return settings, nil
}

// Rules returns the guild's enabled rules.
func (c *Cache) Rules(ctx context.Context, guildID string) ([]Rule, error) {
	c.mu.Lock()
	cached, ok := c.rules[guildID]
	c.mu.Unlock()
	if ok {
		return cached, nil
	}

	rules, err := c.source.GuildRules(ctx, guildID, "", true)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.rules[guildID] = rules
	c.mu.Unlock()
	return rules, nil
}

func (c *Cache) Invalidate(guildID string) {
	c.mu.Lock()
	delete(c.settings, guildID)
	delete(c.rules, guildID)
	c.mu.Unlock()
}

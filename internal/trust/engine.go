// Package trust maintains the persisted [0,100] reputation score per
// (guild,user). The score is created lazily on first moderation contact with
// an initial value stepped by account age, and only ever moves through
// clamped deltas.
package trust

import (
	"context"
	"time"

	"warden-automod/internal/storage"
)

// Deltas applied per enforcement action, on top of the unconditional
// violation increment (-5, violations+1) the store applies separately.
var actionDeltas = map[storage.Action]int{
	storage.ActionDelete: -2,
	storage.ActionWarn:   -5,
	storage.ActionMute:   -10,
	storage.ActionKick:   -20,
	storage.ActionBan:    -30,
}

func ActionDelta(action storage.Action) int {
	return actionDeltas[action]
}

type Store interface {
	GetOrCreateTrust(ctx context.Context, guildID, userID string, accountAgeDays int) (storage.TrustScore, error)
	ApplyTrustDelta(ctx context.Context, guildID, userID string, delta int, reason string) (bool, error)
	IncrementViolations(ctx context.Context, guildID, userID string) error
}

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

type Engine struct {
	store Store
	clock Clock
}

func NewEngine(store Store) *Engine {
	return &Engine{store: store, clock: realClock{}}
}

func (e *Engine) WithClock(clock Clock) {
	e.clock = clock
}

func (e *Engine) Ensure(ctx context.Context, guildID, userID string, accountAgeDays int) (storage.TrustScore, error) {
	return e.store.GetOrCreateTrust(ctx, guildID, userID, accountAgeDays)
}

// Punish applies the action-specific delta plus the compound violation
// increment. Both always apply, so every enforcement costs at least -7.
func (e *Engine) Punish(ctx context.Context, guildID, userID string, action storage.Action, reason string) error {
	if _, err := e.store.ApplyTrustDelta(ctx, guildID, userID, ActionDelta(action), reason); err != nil {
		return err
	}
	return e.store.IncrementViolations(ctx, guildID, userID)
}

// Reward raises the score, e.g. from a moderator pardon.
func (e *Engine) Reward(ctx context.Context, guildID, userID string, delta int, reason string) (bool, error) {
	if delta < 0 {
		delta = -delta
	}
	return e.store.ApplyTrustDelta(ctx, guildID, userID, delta, reason)
}

// AccountAgeDays derives the age bucket input from an account creation time.
func (e *Engine) AccountAgeDays(createdAt time.Time) int {
	days := int(e.clock.Now().Sub(createdAt).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

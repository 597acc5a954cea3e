package automod

import (
	"context"
	"fmt"
	"time"

	"warden-automod/internal/checks"
	"warden-automod/internal/storage"

	"go.uber.org/zap"
)

// RaidWatcher tracks member joins per guild and applies the configured raid
// action to members joining during a burst.
type RaidWatcher struct {
	config ConfigSource
	engine *Engine
	joins  *checks.RateWindow
	logger *zap.Logger
	clock  Clock
}

func NewRaidWatcher(source ConfigSource, engine *Engine, logger *zap.Logger) *RaidWatcher {
	return &RaidWatcher{
		config: source,
		engine: engine,
		joins:  checks.NewRateWindow(),
		logger: logger,
		clock:  realClock{},
	}
}

func (w *RaidWatcher) WithClock(clock Clock) {
	w.clock = clock
}

// HandleJoin returns true when the join tipped the guild over its raid
// threshold; the joining member then receives the configured action.
func (w *RaidWatcher) HandleJoin(ctx context.Context, guildID, userID string) bool {
	settings, err := w.config.Settings(ctx, guildID)
	if err != nil {
		w.logger.Error("settings load failed", zap.String("guild_id", guildID), zap.Error(err))
		return false
	}
	if !settings.Raid.Enabled {
		return false
	}

	window := time.Duration(settings.Raid.WindowSeconds) * time.Second
	count := w.joins.Add(guildID, userID, w.clock.Now(), window)
	if count < settings.Raid.JoinThreshold {
		return false
	}

	reason := fmt.Sprintf("raid burst: %d joins within %ds", count, settings.Raid.WindowSeconds)
	action := settings.Raid.Action

	var outcome Outcome
	switch action {
	case storage.ActionBan:
		outcome = classify(w.engine.platform.Ban(guildID, userID, reason))
	default:
		outcome = classify(w.engine.platform.Kick(guildID, userID, reason))
		action = storage.ActionKick
	}
	if outcome == OutcomePermissionDenied {
		w.logger.Warn("raid action lacked permissions", zap.String("guild_id", guildID), zap.String("user_id", userID))
	}

	if _, err := w.engine.violations.LogViolation(ctx, storage.Violation{
		GuildID:     guildID,
		UserID:      userID,
		ModeratorID: w.engine.moderatorID(),
		Action:      storage.LogAction(action),
		RuleType:    storage.RuleRaid,
		Reason:      reason,
		CreatedAt:   w.clock.Now(),
	}); err != nil {
		w.logger.Error("raid violation log failed", zap.String("guild_id", guildID), zap.Error(err))
	}
	return true
}

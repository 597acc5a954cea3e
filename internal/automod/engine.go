// Package automod runs the per-message moderation pipeline: ignore gates,
// whitelist checks, ordered rule evaluation, action selection (static or
// progressive), action execution, trust-score update and violation logging.
package automod

import (
	"context"
	"sync"
	"time"

	"warden-automod/internal/checks"
	"warden-automod/internal/storage"
	"warden-automod/internal/trust"

	"go.uber.org/zap"
)

const excerptLimit = 100

// ConfigSource provides cached guild settings and enabled rules.
type ConfigSource interface {
	Settings(ctx context.Context, guildID string) (storage.GuildSettings, error)
	Rules(ctx context.Context, guildID string) ([]storage.Rule, error)
}

// ViolationLog is the append-only enforcement record.
type ViolationLog interface {
	LogViolation(ctx context.Context, entry storage.Violation) (storage.Violation, error)
	RecentViolations(ctx context.Context, guildID, userID string, window time.Duration) ([]storage.Violation, error)
}

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

type Config struct {
	BotUserID          string
	DefaultMuteSeconds int
	PenaltyWindow      time.Duration
}

type Engine struct {
	cfg        Config
	config     ConfigSource
	trust      *trust.Engine
	violations ViolationLog
	platform   Platform
	registry   *checks.Registry
	logger     *zap.Logger
	clock      Clock
	dispatch   map[storage.Action]actionHandler

	mu        sync.RWMutex
	botUserID string
}

func NewEngine(cfg Config, source ConfigSource, trustEngine *trust.Engine, violations ViolationLog, platform Platform, registry *checks.Registry, logger *zap.Logger) *Engine {
	if cfg.DefaultMuteSeconds <= 0 {
		cfg.DefaultMuteSeconds = 300
	}
	if cfg.PenaltyWindow <= 0 {
		cfg.PenaltyWindow = 60 * time.Minute
	}
	engine := &Engine{
		cfg:        cfg,
		config:     source,
		trust:      trustEngine,
		violations: violations,
		platform:   platform,
		registry:   registry,
		logger:     logger,
		clock:      realClock{},
		botUserID:  cfg.BotUserID,
	}
	engine.dispatch = engine.handlers()
	return engine
}

func (e *Engine) WithClock(clock Clock) {
	e.clock = clock
}

// SetBotUserID records the identity written as moderator on automated
// enforcement entries, once the gateway session knows it. The gateway
// delivers events on separate goroutines, so access is guarded.
func (e *Engine) SetBotUserID(id string) {
	e.mu.Lock()
	e.botUserID = id
	e.mu.Unlock()
}

func (e *Engine) moderatorID() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.botUserID
}

// Result reports what the pipeline did with one message.
type Result struct {
	Triggered bool
	RuleType  storage.RuleType
	Action    storage.Action
	Reason    string
	Outcome   Outcome
	Persisted bool
	Entry     storage.Violation
	Settings  storage.GuildSettings
}

// HandleMessage runs the full pipeline. It never returns an error: every
// failure is logged and terminal for this message only.
func (e *Engine) HandleMessage(ctx context.Context, msg checks.Message) Result {
	if msg.IsBot || msg.IsWebhook || msg.GuildID == "" {
		return Result{}
	}

	settings, err := e.config.Settings(ctx, msg.GuildID)
	if err != nil {
		e.logger.Error("settings load failed", zap.String("guild_id", msg.GuildID), zap.Error(err))
		return Result{}
	}
	if !settings.Enabled || containsString(settings.IgnoredChannels, msg.ChannelID) {
		return Result{Settings: settings}
	}

	// Immune roles and elevated permissions exempt from ALL rules.
	if intersects(msg.AuthorRoles, settings.ImmuneRoles) {
		return Result{Settings: settings}
	}
	if elevated, err := e.platform.IsElevated(msg.GuildID, msg.ChannelID, msg.UserID); err == nil && elevated {
		return Result{Settings: settings}
	}

	rules, err := e.config.Rules(ctx, msg.GuildID)
	if err != nil {
		e.logger.Error("rules load failed", zap.String("guild_id", msg.GuildID), zap.Error(err))
		return Result{Settings: settings}
	}

	byType := make(map[storage.RuleType][]storage.Rule, len(rules))
	for _, rule := range rules {
		byType[rule.RuleType] = append(byType[rule.RuleType], rule)
	}

	now := e.clock.Now()
	for _, check := range e.registry.Ordered() {
		for _, rule := range byType[check.Type()] {
			if intersects(msg.AuthorRoles, rule.WhitelistRoles) {
				continue
			}
			triggered, reason := check.Evaluate(msg, rule, now)
			if !triggered {
				continue
			}
			result := e.enforce(ctx, msg, settings, rule, reason)
			result.Settings = settings
			return result
		}
	}
	return Result{Settings: settings}
}

// enforce selects the action (ladder or static) and executes it. The ladder
// decides from the recent-violation count alone, independent of which rule
// triggered; the reason keeps naming the triggering rule.
func (e *Engine) enforce(ctx context.Context, msg checks.Message, settings storage.GuildSettings, rule storage.Rule, reason string) Result {
	action := rule.Action
	if settings.ProgressivePenalties {
		recent, err := e.violations.RecentViolations(ctx, msg.GuildID, msg.UserID, e.cfg.PenaltyWindow)
		if err != nil {
			e.logger.Warn("recent violations lookup failed", zap.String("guild_id", msg.GuildID), zap.Error(err))
		} else {
			action = Escalate(len(recent))
		}
	}

	duration := time.Duration(rule.DurationSeconds) * time.Second
	if duration <= 0 {
		duration = time.Duration(e.cfg.DefaultMuteSeconds) * time.Second
	}

	// The offending message is removed for every action kind, best effort.
	if err := e.platform.DeleteMessage(msg.ChannelID, msg.MessageID); err != nil {
		outcome := classify(err)
		if outcome == OutcomeFailed {
			e.logger.Warn("message delete failed", zap.String("message_id", msg.MessageID), zap.Error(err))
		}
	}

	t := target{
		guildID:   msg.GuildID,
		channelID: msg.ChannelID,
		userID:    msg.UserID,
		reason:    reason,
		duration:  duration,
		dmUser:    settings.DMUsers,
		dmText:    rule.CustomMessage,
	}
	handler, ok := e.dispatch[action]
	if !ok {
		// Malformed stored actions degrade to the delete already performed.
		handler = e.dispatch[storage.ActionDelete]
		action = storage.ActionDelete
	}
	outcome := handler(ctx, t)
	if outcome == OutcomePermissionDenied {
		e.logger.Warn("action lacked permissions",
			zap.String("guild_id", msg.GuildID),
			zap.String("user_id", msg.UserID),
			zap.String("action", string(action)))
	}

	persisted := true
	if _, err := e.trust.Ensure(ctx, msg.GuildID, msg.UserID, msg.AccountAgeDays); err != nil {
		persisted = false
		e.logger.Error("trust ensure failed", zap.String("user_id", msg.UserID), zap.Error(err))
	} else if err := e.trust.Punish(ctx, msg.GuildID, msg.UserID, action, reason); err != nil {
		persisted = false
		e.logger.Error("trust update failed", zap.String("user_id", msg.UserID), zap.Error(err))
	}

	entry := storage.Violation{
		GuildID:        msg.GuildID,
		UserID:         msg.UserID,
		ModeratorID:    e.moderatorID(),
		Action:         storage.LogAction(action),
		RuleType:       rule.RuleType,
		Reason:         reason,
		MessageExcerpt: excerpt(msg.Content),
		ChannelID:      msg.ChannelID,
		CreatedAt:      e.clock.Now(),
	}
	if action == storage.ActionMute {
		entry.DurationSeconds = int(duration.Seconds())
	}
	logged, err := e.violations.LogViolation(ctx, entry)
	if err != nil {
		persisted = false
		e.logger.Error("violation log failed", zap.String("user_id", msg.UserID), zap.Error(err))
	} else {
		entry = logged
	}

	return Result{
		Triggered: true,
		RuleType:  rule.RuleType,
		Action:    action,
		Reason:    reason,
		Outcome:   outcome,
		Persisted: persisted,
		Entry:     entry,
	}
}

func excerpt(content string) string {
	runes := []rune(content)
	if len(runes) <= excerptLimit {
		return content
	}
	return string(runes[:excerptLimit])
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

func intersects(a, b []string) bool {
	for _, item := range a {
		if containsString(b, item) {
			return true
		}
	}
	return false
}

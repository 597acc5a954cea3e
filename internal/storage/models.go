package storage

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RuleType string

const (
	RuleSpam      RuleType = "spam"
	RuleRateLimit RuleType = "rate_limit"
	RuleLinks     RuleType = "links"
	RuleInvites   RuleType = "invites"
	RuleMentions  RuleType = "mentions"
	RuleCaps      RuleType = "caps"
	RuleEmojis    RuleType = "emojis"
	RuleBlacklist RuleType = "blacklist"

	// RuleRaid only appears in violation log entries written by the raid
	// watcher; it is not a configurable rule type.
	RuleRaid RuleType = "raid"
)

// RuleTypes is the fixed evaluation order across rule types. The first
// triggering rule wins; later types are never evaluated for that message.
var RuleTypes = []RuleType{
	RuleSpam,
	RuleRateLimit,
	RuleLinks,
	RuleInvites,
	RuleMentions,
	RuleCaps,
	RuleEmojis,
	RuleBlacklist,
}

func ValidRuleType(t RuleType) bool {
	for _, known := range RuleTypes {
		if t == known {
			return true
		}
	}
	return false
}

type Action string

const (
	ActionDelete Action = "delete"
	ActionWarn   Action = "warn"
	ActionMute   Action = "mute"
	ActionKick   Action = "kick"
	ActionBan    Action = "ban"
)

func ValidAction(a Action) bool {
	switch a {
	case ActionDelete, ActionWarn, ActionMute, ActionKick, ActionBan:
		return true
	}
	return false
}

// LogAction is the past-tense form recorded in violation log entries.
func LogAction(a Action) string {
	switch a {
	case ActionDelete:
		return "message_deleted"
	case ActionWarn:
		return "user_warned"
	case ActionMute:
		return "user_muted"
	case ActionKick:
		return "user_kicked"
	case ActionBan:
		return "user_banned"
	}
	return string(a)
}

// RuleParams holds the type-specific parameter bundle. Only the fields
// matching the rule's type are meaningful; the rest stay at their zero value
// and are omitted from the stored document.
type RuleParams struct {
	DuplicateCount int      `bson:"duplicate_count,omitempty"`
	TimeWindow     int      `bson:"time_window,omitempty"`
	MessagesCount  int      `bson:"messages_count,omitempty"`
	BlockAllLinks  bool     `bson:"block_all_links,omitempty"`
	Whitelist      []string `bson:"whitelist,omitempty"`
	MaxMentions    int      `bson:"max_mentions,omitempty"`
	IncludeRoles   bool     `bson:"include_roles,omitempty"`
	MinLength      int      `bson:"min_length,omitempty"`
	Percentage     int      `bson:"percentage,omitempty"`
	MaxEmojis      int      `bson:"max_emojis,omitempty"`
	Words          []string `bson:"words,omitempty"`
	CaseSensitive  bool     `bson:"case_sensitive,omitempty"`
}

type Rule struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	GuildID         string             `bson:"guild_id"`
	RuleType        RuleType           `bson:"rule_type"`
	Action          Action             `bson:"action"`
	Enabled         bool               `bson:"enabled"`
	Params          RuleParams         `bson:"params"`
	WhitelistRoles  []string           `bson:"whitelist_roles,omitempty"`
	CustomMessage   string             `bson:"custom_message,omitempty"`
	DurationSeconds int                `bson:"duration_seconds,omitempty"`
	CreatedAt       time.Time          `bson:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at"`
}

type TrustHistoryEntry struct {
	Change int       `bson:"change"`
	Reason string    `bson:"reason"`
	At     time.Time `bson:"at"`
}

type TrustScore struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty"`
	GuildID         string              `bson:"guild_id"`
	UserID          string              `bson:"user_id"`
	Score           int                 `bson:"score"`
	AccountAgeDays  int                 `bson:"account_age_days"`
	ViolationsCount int                 `bson:"violations_count"`
	LastViolation   *time.Time          `bson:"last_violation,omitempty"`
	History         []TrustHistoryEntry `bson:"history,omitempty"`
	CreatedAt       time.Time           `bson:"created_at"`
}

type Violation struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	GuildID         string             `bson:"guild_id"`
	UserID          string             `bson:"user_id"`
	ModeratorID     string             `bson:"moderator_id"`
	Action          string             `bson:"action"`
	RuleType        RuleType           `bson:"rule_type"`
	Reason          string             `bson:"reason"`
	MessageExcerpt  string             `bson:"message_excerpt,omitempty"`
	ChannelID       string             `bson:"channel_id,omitempty"`
	DurationSeconds int                `bson:"duration_seconds,omitempty"`
	CreatedAt       time.Time          `bson:"created_at"`
}

type RaidConfig struct {
	Enabled       bool   `bson:"enabled"`
	JoinThreshold int    `bson:"join_threshold"`
	WindowSeconds int    `bson:"window_seconds"`
	Action        Action `bson:"action"`
}

type GuildSettings struct {
	GuildID              string     `bson:"guild_id"`
	Enabled              bool       `bson:"enabled"`
	LogChannelID         string     `bson:"log_channel_id,omitempty"`
	DMUsers              bool       `bson:"dm_users"`
	ProgressivePenalties bool       `bson:"progressive_penalties"`
	ImmuneRoles          []string   `bson:"immune_roles,omitempty"`
	IgnoredChannels      []string   `bson:"ignored_channels,omitempty"`
	Raid                 RaidConfig `bson:"raid"`
}

func DefaultGuildSettings(guildID string) GuildSettings {
	return GuildSettings{
		GuildID:              guildID,
		Enabled:              true,
		DMUsers:              true,
		ProgressivePenalties: false,
		Raid: RaidConfig{
			Enabled:       false,
			JoinThreshold: 8,
			WindowSeconds: 10,
			Action:        ActionKick,
		},
	}
}

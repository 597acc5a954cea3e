// Package checks holds the per-rule-type message evaluators. Each evaluator
// is a predicate over one message plus the rule's parameter bundle; spam and
// rate_limit additionally keep bounded per-(guild,user) window state.
package checks

import (
	"time"

	"warden-automod/internal/storage"
)

// Message is the evaluator view of one inbound chat message.
type Message struct {
	GuildID        string
	ChannelID      string
	MessageID      string
	UserID         string
	Content        string
	MentionUsers   int
	MentionRoles   int
	AuthorRoles    []string
	AccountAgeDays int
	IsBot          bool
	IsWebhook      bool
}

// Check evaluates one rule against one message. The returned reason is only
// meaningful when triggered is true.
type Check interface {
	Type() storage.RuleType
	Evaluate(msg Message, rule storage.Rule, now time.Time) (triggered bool, reason string)
}

// Registry holds the evaluators in fixed order: spam, rate_limit, links,
// invites, mentions, caps, emojis, blacklist. The first triggering rule wins.
type Registry struct {
	checks []Check
}

func NewRegistry() *Registry {
	return &Registry{checks: []Check{
		NewSpam(),
		NewRateLimit(),
		Links{},
		Invites{},
		Mentions{},
		Caps{},
		Emojis{},
		Blacklist{},
	}}
}

func (r *Registry) Ordered() []Check {
	return r.checks
}

func windowKey(msg Message) string {
	return msg.GuildID + ":" + msg.UserID
}

package checks

import (
	"fmt"
	"time"

	"warden-automod/internal/storage"
)

type Mentions struct{}

func (Mentions) Type() storage.RuleType { return storage.RuleMentions }

func (Mentions) Evaluate(msg Message, rule storage.Rule, now time.Time) (bool, string) {
	count := msg.MentionUsers
	if rule.Params.IncludeRoles {
		count += msg.MentionRoles
	}
	if count < rule.Params.MaxMentions {
		return false, ""
	}
	return true, fmt.Sprintf("%d mentions (limit %d)", count, rule.Params.MaxMentions)
}

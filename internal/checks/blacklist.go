package checks

import (
	"strings"
	"time"

	"warden-automod/internal/storage"
)

type Blacklist struct{}

func (Blacklist) Type() storage.RuleType { return storage.RuleBlacklist }

// Substring match against the configured word list; the first match triggers.
func (Blacklist) Evaluate(msg Message, rule storage.Rule, now time.Time) (bool, string) {
	content := msg.Content
	if !rule.Params.CaseSensitive {
		content = strings.ToLower(content)
	}
	for _, word := range rule.Params.Words {
		if word == "" {
			continue
		}
		needle := word
		if !rule.Params.CaseSensitive {
			needle = strings.ToLower(word)
		}
		if strings.Contains(content, needle) {
			return true, "blacklisted word: " + word
		}
	}
	return false, ""
}

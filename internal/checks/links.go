package checks

import (
	"strings"
	"time"

	"warden-automod/internal/storage"
)

type Links struct{}

func (Links) Type() storage.RuleType { return storage.RuleLinks }

func (Links) Evaluate(msg Message, rule storage.Rule, now time.Time) (bool, string) {
	urls := ExtractURLs(msg.Content)
	if len(urls) == 0 {
		return false, ""
	}

	if rule.Params.BlockAllLinks && len(rule.Params.Whitelist) > 0 {
		for _, raw := range urls {
			if !whitelisted(raw, rule.Params.Whitelist) {
				return true, "link not on whitelist: " + raw
			}
		}
		return false, ""
	}
	return true, "link detected: " + urls[0]
}

func whitelisted(raw string, whitelist []string) bool {
	domain := NormalizeDomain(raw)
	for _, entry := range whitelist {
		if strings.Contains(raw, entry) || domain == NormalizeDomain(entry) {
			return true
		}
	}
	return false
}

package checks

import (
	"fmt"
	"time"

	"warden-automod/internal/storage"
)

type RateLimit struct {
	window *RateWindow
}

func NewRateLimit() *RateLimit {
	return &RateLimit{window: NewRateWindow()}
}

func (RateLimit) Type() storage.RuleType { return storage.RuleRateLimit }

func (r *RateLimit) Evaluate(msg Message, rule storage.Rule, now time.Time) (bool, string) {
	window := time.Duration(rule.Params.TimeWindow) * time.Second
	count := r.window.Add(windowKey(msg), msg.MessageID, now, window)
	if count < rule.Params.MessagesCount {
		return false, ""
	}
	return true, fmt.Sprintf("%d messages within %ds", count, rule.Params.TimeWindow)
}

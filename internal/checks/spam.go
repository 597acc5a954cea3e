package checks

import (
	"fmt"
	"strings"
	"time"

	"warden-automod/internal/storage"
)

type Spam struct {
	window *FingerprintWindow
}

func NewSpam() *Spam {
	return &Spam{window: NewFingerprintWindow()}
}

func (Spam) Type() storage.RuleType { return storage.RuleSpam }

func (s *Spam) Evaluate(msg Message, rule storage.Rule, now time.Time) (bool, string) {
	if msg.Content == "" {
		return false, ""
	}

	normalized := strings.ToLower(strings.TrimSpace(msg.Content))
	window := time.Duration(rule.Params.TimeWindow) * time.Second
	count := s.window.Add(windowKey(msg), msg.MessageID, Digest(normalized), now, window)
	if count < rule.Params.DuplicateCount {
		return false, ""
	}
	return true, fmt.Sprintf("%d identical messages within %ds", count, rule.Params.TimeWindow)
}

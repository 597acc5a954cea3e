package checks

import (
	"fmt"
	"regexp"
	"time"
	"unicode"

	"warden-automod/internal/storage"
)

var mentionTokenRegex = regexp.MustCompile(`<(?:@[!&]?|#)\d+>`)

type Caps struct{}

func (Caps) Type() storage.RuleType { return storage.RuleCaps }

// Evaluate computes the share of alphabetic characters that are uppercase,
// after stripping URLs and mention tokens. Triggers at-or-above the
// configured percentage.
func (Caps) Evaluate(msg Message, rule storage.Rule, now time.Time) (bool, string) {
	if len([]rune(msg.Content)) < rule.Params.MinLength {
		return false, ""
	}

	stripped := urlRegex.ReplaceAllString(msg.Content, "")
	stripped = mentionTokenRegex.ReplaceAllString(stripped, "")

	letters, uppers := 0, 0
	for _, r := range stripped {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.IsUpper(r) {
			uppers++
		}
	}
	if letters == 0 {
		return false, ""
	}

	percentage := uppers * 100 / letters
	if percentage < rule.Params.Percentage {
		return false, ""
	}
	return true, fmt.Sprintf("%d%% uppercase (limit %d%%)", percentage, rule.Params.Percentage)
}

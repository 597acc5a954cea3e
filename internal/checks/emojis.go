package checks

import (
	"fmt"
	"regexp"
	"time"

	"warden-automod/internal/storage"
)

var (
	customEmojiRegex  = regexp.MustCompile(`<a?:\w+:\d+>`)
	unicodeEmojiRegex = regexp.MustCompile(`[\x{1F300}-\x{1FAFF}]|[\x{2600}-\x{27BF}]|[\x{1F1E6}-\x{1F1FF}]`)
)

type Emojis struct{}

func (Emojis) Type() storage.RuleType { return storage.RuleEmojis }

func (Emojis) Evaluate(msg Message, rule storage.Rule, now time.Time) (bool, string) {
	count := len(customEmojiRegex.FindAllString(msg.Content, -1))
	count += len(unicodeEmojiRegex.FindAllString(msg.Content, -1))
	if count < rule.Params.MaxEmojis {
		return false, ""
	}
	return true, fmt.Sprintf("%d emojis (limit %d)", count, rule.Params.MaxEmojis)
}

package checks

import (
	"testing"
	"time"

	"warden-automod/internal/storage"
)

func TestEmojisCountsCustomAndUnicode(t *testing.T) {
	check := Emojis{}
	rule := storage.Rule{
		RuleType: storage.RuleEmojis,
		Params:   storage.RuleParams{MaxEmojis: 3},
	}
	now := time.Unix(0, 0)

	if triggered, _ := check.Evaluate(Message{Content: "ok <:pog:123> 😀"}, rule, now); triggered {
		t.Fatalf("two emojis should not trigger at limit 3")
	}
	if triggered, _ := check.Evaluate(Message{Content: "<:a:1> <a:b:2> 😀"}, rule, now); !triggered {
		t.Fatalf("three emojis should trigger at limit 3")
	}
}

package checks

import (
	"testing"
	"time"

	"warden-automod/internal/storage"
)

func capsRule(minLength, percentage int) storage.Rule {
	return storage.Rule{
		RuleType: storage.RuleCaps,
		Params:   storage.RuleParams{MinLength: minLength, Percentage: percentage},
	}
}

func TestCapsBoundaryIsInclusive(t *testing.T) {
	check := Caps{}
	now := time.Unix(0, 0)

	// 7 of 10 letters uppercase: exactly 70%.
	msg := Message{Content: "AAAAAAAbcd"}
	if triggered, _ := check.Evaluate(msg, capsRule(5, 70), now); !triggered {
		t.Fatalf("exactly the threshold should trigger")
	}
	// 6 of 10: 60%.
	msg.Content = "AAAAAAbcde"
	if triggered, _ := check.Evaluate(msg, capsRule(5, 70), now); triggered {
		t.Fatalf("below the threshold should not trigger")
	}
}

func TestCapsSkipsShortMessages(t *testing.T) {
	check := Caps{}
	msg := Message{Content: "ABCD"}
	if triggered, _ := check.Evaluate(msg, capsRule(10, 70), time.Unix(0, 0)); triggered {
		t.Fatalf("messages under min_length should be ignored")
	}
}

func TestCapsStripsURLsAndMentions(t *testing.T) {
	check := Caps{}
	msg := Message{Content: "hello there <@123456> https://EXAMPLE.COM/ABCDEF ok"}
	if triggered, _ := check.Evaluate(msg, capsRule(10, 50), time.Unix(0, 0)); triggered {
		t.Fatalf("uppercase inside URLs and mentions should not count")
	}
}

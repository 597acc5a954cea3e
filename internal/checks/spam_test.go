package checks

import (
	"testing"
	"time"

	"warden-automod/internal/storage"
)

func spamRule() storage.Rule {
	return storage.Rule{
		RuleType: storage.RuleSpam,
		Params:   storage.RuleParams{DuplicateCount: 3, TimeWindow: 10},
	}
}

func TestSpamTriggersOnThirdDuplicate(t *testing.T) {
	check := NewSpam()
	rule := spamRule()
	now := time.Unix(0, 0)

	msg := Message{GuildID: "g1", UserID: "u1", MessageID: "m1", Content: "Buy Now"}
	if triggered, _ := check.Evaluate(msg, rule, now); triggered {
		t.Fatalf("first message should not trigger")
	}
	// Same content modulo case and whitespace counts as a duplicate.
	msg.MessageID = "m2"
	msg.Content = " buy now "
	if triggered, _ := check.Evaluate(msg, rule, now.Add(2*time.Second)); triggered {
		t.Fatalf("second message should not trigger")
	}
	msg.MessageID = "m3"
	msg.Content = "BUY NOW"
	triggered, reason := check.Evaluate(msg, rule, now.Add(4*time.Second))
	if !triggered {
		t.Fatalf("third duplicate should trigger")
	}
	if reason == "" {
		t.Fatalf("expected a reason")
	}

	msg.MessageID = "m4"
	msg.Content = "something else"
	if triggered, _ := check.Evaluate(msg, rule, now.Add(5*time.Second)); triggered {
		t.Fatalf("distinct message should not trigger")
	}
}

func TestSpamCountsMessagesNotEvaluations(t *testing.T) {
	check := NewSpam()
	first := spamRule()
	second := spamRule()
	now := time.Unix(0, 0)

	// Two rules of the same type evaluate every message; a message must still
	// count once toward the duplicate threshold.
	msg := Message{GuildID: "g1", UserID: "u1", MessageID: "m1", Content: "hello"}
	check.Evaluate(msg, first, now)
	check.Evaluate(msg, second, now)
	msg.MessageID = "m2"
	if triggered, _ := check.Evaluate(msg, first, now.Add(time.Second)); triggered {
		t.Fatalf("two messages must not reach duplicate_count=3")
	}
	if triggered, _ := check.Evaluate(msg, second, now.Add(time.Second)); triggered {
		t.Fatalf("second rule must not see an inflated count")
	}
	msg.MessageID = "m3"
	if triggered, _ := check.Evaluate(msg, first, now.Add(2*time.Second)); !triggered {
		t.Fatalf("third message should trigger")
	}
}

func TestSpamWindowExpires(t *testing.T) {
	check := NewSpam()
	rule := spamRule()
	now := time.Unix(0, 0)

	msg := Message{GuildID: "g1", UserID: "u1", MessageID: "m1", Content: "hello"}
	check.Evaluate(msg, rule, now)
	msg.MessageID = "m2"
	check.Evaluate(msg, rule, now.Add(2*time.Second))
	msg.MessageID = "m3"
	if triggered, _ := check.Evaluate(msg, rule, now.Add(30*time.Second)); triggered {
		t.Fatalf("duplicates outside the window should not trigger")
	}
}

func TestSpamIsolatedPerUser(t *testing.T) {
	check := NewSpam()
	rule := spamRule()
	now := time.Unix(0, 0)

	first := Message{GuildID: "g1", UserID: "u1", MessageID: "m1", Content: "same"}
	check.Evaluate(first, rule, now)
	first.MessageID = "m2"
	check.Evaluate(first, rule, now)
	second := Message{GuildID: "g1", UserID: "u2", MessageID: "m3", Content: "same"}
	if triggered, _ := check.Evaluate(second, rule, now); triggered {
		t.Fatalf("another user's history should not count")
	}
}

package checks

import (
	"testing"
	"time"

	"warden-automod/internal/storage"
)

func TestLinksBlockAll(t *testing.T) {
	check := Links{}
	rule := storage.Rule{
		RuleType: storage.RuleLinks,
		Params:   storage.RuleParams{BlockAllLinks: true},
	}
	now := time.Unix(0, 0)

	if triggered, _ := check.Evaluate(Message{Content: "no links here"}, rule, now); triggered {
		t.Fatalf("no URL should not trigger")
	}
	if triggered, _ := check.Evaluate(Message{Content: "see https://example.com/page"}, rule, now); !triggered {
		t.Fatalf("any URL should trigger without a whitelist")
	}
}

func TestLinksWhitelist(t *testing.T) {
	check := Links{}
	rule := storage.Rule{
		RuleType: storage.RuleLinks,
		Params:   storage.RuleParams{BlockAllLinks: true, Whitelist: []string{"example.com"}},
	}
	now := time.Unix(0, 0)

	if triggered, _ := check.Evaluate(Message{Content: "https://example.com/ok"}, rule, now); triggered {
		t.Fatalf("whitelisted domain should pass")
	}
	triggered, reason := check.Evaluate(Message{Content: "https://evil.test/x"}, rule, now)
	if !triggered {
		t.Fatalf("non-whitelisted URL should trigger")
	}
	if reason == "" {
		t.Fatalf("expected a reason")
	}
}

func TestInvites(t *testing.T) {
	check := Invites{}
	rule := storage.Rule{RuleType: storage.RuleInvites}
	now := time.Unix(0, 0)

	cases := []struct {
		content string
		want    bool
	}{
		{"join https://discord.gg/abc123", true},
		{"https://discord.com/invite/xyz", true},
		{"https://discordapp.com/invite/xyz", true},
		{"plain message", false},
		{"https://example.com/invite/xyz", false},
	}
	for _, tc := range cases {
		if triggered, _ := check.Evaluate(Message{Content: tc.content}, rule, now); triggered != tc.want {
			t.Fatalf("content %q: expected %t", tc.content, tc.want)
		}
	}
}

func TestNormalizeDomain(t *testing.T) {
	if got := NormalizeDomain("https://EXAMPLE.com/Path"); got != "example.com" {
		t.Fatalf("expected example.com, got %q", got)
	}
	if got := NormalizeDomain("bücher.de"); got != "xn--bcher-kva.de" {
		t.Fatalf("expected punycode form, got %q", got)
	}
}

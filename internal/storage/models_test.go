package storage

import "testing"

func TestDefaultParamsByType(t *testing.T) {
	spam := defaultParams(RuleSpam, RuleParams{})
	if spam.DuplicateCount != 3 || spam.TimeWindow != 10 {
		t.Fatalf("unexpected spam defaults: %+v", spam)
	}

	rate := defaultParams(RuleRateLimit, RuleParams{MessagesCount: 8})
	if rate.MessagesCount != 8 || rate.TimeWindow != 5 {
		t.Fatalf("provided values must win over defaults: %+v", rate)
	}

	caps := defaultParams(RuleCaps, RuleParams{})
	if caps.MinLength != 10 || caps.Percentage != 70 {
		t.Fatalf("unexpected caps defaults: %+v", caps)
	}

	links := defaultParams(RuleLinks, RuleParams{})
	if !links.BlockAllLinks {
		t.Fatalf("links should default to block_all_links")
	}
	links = defaultParams(RuleLinks, RuleParams{BlockAllLinks: false, Whitelist: []string{"example.com"}})
	if !links.BlockAllLinks || len(links.Whitelist) != 1 {
		t.Fatalf("block_all_links is forced on and must keep the whitelist: %+v", links)
	}
}

func TestLogActionNames(t *testing.T) {
	cases := map[Action]string{
		ActionDelete: "message_deleted",
		ActionWarn:   "user_warned",
		ActionMute:   "user_muted",
		ActionKick:   "user_kicked",
		ActionBan:    "user_banned",
	}
	for action, want := range cases {
		if got := LogAction(action); got != want {
			t.Fatalf("action %s: expected %s, got %s", action, want, got)
		}
	}
}

func TestValidEnums(t *testing.T) {
	if !ValidRuleType(RuleBlacklist) || ValidRuleType("bogus") {
		t.Fatalf("rule type validation broken")
	}
	// Raid is a log-only type, never configurable as a rule.
	if ValidRuleType(RuleRaid) {
		t.Fatalf("raid must not be configurable")
	}
	if !ValidAction(ActionMute) || ValidAction("obliterate") {
		t.Fatalf("action validation broken")
	}
}

package automod

import (
	"testing"

	"warden-automod/internal/storage"
)

func TestEscalationLadder(t *testing.T) {
	cases := []struct {
		recent int
		want   storage.Action
	}{
		{0, storage.ActionDelete},
		{2, storage.ActionDelete},
		{3, storage.ActionWarn},
		{4, storage.ActionWarn},
		{5, storage.ActionMute},
		{6, storage.ActionMute},
		{7, storage.ActionKick},
		{8, storage.ActionKick},
		{9, storage.ActionBan},
		{50, storage.ActionBan},
	}
	for _, tc := range cases {
		if got := Escalate(tc.recent); got != tc.want {
			t.Fatalf("recent %d: expected %s, got %s", tc.recent, tc.want, got)
		}
	}
}

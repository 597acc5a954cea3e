package checks

import (
	"regexp"
	"time"

	"warden-automod/internal/storage"
)

var inviteRegex = regexp.MustCompile(`(?i)(?:discord\.gg|discord(?:app)?\.com/invite)/[a-zA-Z0-9-]+`)

type Invites struct{}

func (Invites) Type() storage.RuleType { return storage.RuleInvites }

// Any invite link triggers; there is no threshold.
func (Invites) Evaluate(msg Message, rule storage.Rule, now time.Time) (bool, string) {
	match := inviteRegex.FindString(msg.Content)
	if match == "" {
		return false, ""
	}
	return true, "invite link detected: " + match
}

package automod

import "warden-automod/internal/storage"

// Escalate maps the recent-violation count onto the progressive-penalty
// ladder. When enabled, its output overrides the rule's configured action
// entirely; the logged reason still names the rule that triggered.
func Escalate(recentViolations int) storage.Action {
	switch {
	case recentViolations <= 2:
		return storage.ActionDelete
	case recentViolations <= 4:
		return storage.ActionWarn
	case recentViolations <= 6:
		return storage.ActionMute
	case recentViolations <= 8:
		return storage.ActionKick
	default:
		return storage.ActionBan
	}
}

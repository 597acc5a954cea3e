package automod

import (
	"context"
	"errors"
	"fmt"
	"time"

	"warden-automod/internal/storage"
)

// Platform errors the pipeline swallows. The discordgo adapter maps REST
// failures onto these; fakes return them directly.
var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotFound         = errors.New("not found")
)

// Platform is the chat-platform surface the engine needs. Every call may fail
// with a permission-denied or not-found condition that must never crash the
// message-processing path.
type Platform interface {
	IsElevated(guildID, channelID, userID string) (bool, error)
	DeleteMessage(channelID, messageID string) error
	Timeout(guildID, userID string, until time.Time) error
	Kick(guildID, userID, reason string) error
	Ban(guildID, userID, reason string) error
	DM(userID, content string) error
}

type Outcome int

const (
	OutcomeApplied Outcome = iota
	OutcomePermissionDenied
	OutcomeNotFound
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomePermissionDenied:
		return "permission_denied"
	case OutcomeNotFound:
		return "not_found"
	default:
		return "failed"
	}
}

func classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeApplied
	case errors.Is(err, ErrPermissionDenied):
		return OutcomePermissionDenied
	case errors.Is(err, ErrNotFound):
		return OutcomeNotFound
	default:
		return OutcomeFailed
	}
}

// target carries everything an action handler needs, uniformly.
type target struct {
	guildID   string
	channelID string
	userID    string
	reason    string
	duration  time.Duration
	dmUser    bool
	dmText    string
}

type actionHandler func(ctx context.Context, t target) Outcome

// handlers builds the dispatch table mapping action kinds onto their
// platform effects. Delete has no extra effect beyond the message removal
// every action already performs.
func (e *Engine) handlers() map[storage.Action]actionHandler {
	return map[storage.Action]actionHandler{
		storage.ActionDelete: func(ctx context.Context, t target) Outcome {
			return OutcomeApplied
		},
		storage.ActionWarn: func(ctx context.Context, t target) Outcome {
			e.maybeDM(t)
			return OutcomeApplied
		},
		storage.ActionMute: func(ctx context.Context, t target) Outcome {
			until := e.clock.Now().Add(t.duration)
			outcome := classify(e.platform.Timeout(t.guildID, t.userID, until))
			if outcome == OutcomeApplied {
				e.maybeDM(t)
			}
			return outcome
		},
		storage.ActionKick: func(ctx context.Context, t target) Outcome {
			return classify(e.platform.Kick(t.guildID, t.userID, t.reason))
		},
		storage.ActionBan: func(ctx context.Context, t target) Outcome {
			return classify(e.platform.Ban(t.guildID, t.userID, t.reason))
		},
	}
}

func (e *Engine) maybeDM(t target) {
	if !t.dmUser {
		return
	}
	text := t.dmText
	if text == "" {
		text = fmt.Sprintf("Your message was moderated: %s", t.reason)
	}
	// DM failures (closed DMs, blocked bot) are not worth an outcome.
	_ = e.platform.DM(t.userID, text)
}

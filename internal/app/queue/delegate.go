package queue

import (
	"time"

	"github.com/hibiki-audio/tonearm/internal/app/engine"
)

// Delegate receives the controller's lifecycle events. Exactly one
// callback fires per cause. The controller holds a non-owning reference:
// the delegate's lifetime is the caller's responsibility and it may be
// replaced or cleared at any time.
type Delegate interface {
	// StateChanged reports a playback state transition.
	StateChanged(state engine.State)
	// TrackSwitched reports that playback moved to a different track,
	// with the position the previous track had reached. fromID is empty
	// when nothing was playing before.
	TrackSwitched(fromID string, position time.Duration, toID string)
	// QueueExhausted reports that the last queued track finished.
	QueueExhausted(lastID string, position time.Duration)
	// PlaybackFailed reports a playback failure. Fired on every
	// occurrence, regardless of retry outcome.
	PlaybackFailed(err error)
}

// switched carries a pending TrackSwitched callback out of the locked
// sections.
type switched struct {
	fromID   string
	position time.Duration
	toID     string
}

// Package engine provides the playback engine: a state machine that owns
// the renderer instance and reconciles asynchronous signals (network
// status, renderer observations, timers, user gestures) into one
// consistent playback state.
package engine

// State represents the playback state. Exactly one is active at a time.
type State int

const (
	StateStopped              State = iota // Nothing rendering, nothing pending
	StateBuffering                         // Renderer created, waiting for ready-to-play
	StatePlaying                           // Renderer advancing at the configured rate
	StatePaused                            // Renderer alive with rate 0
	StateWaitingForConnection              // Remote track pending, network unreachable
	StateFailed                            // Current item failed; a new play recovers
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateBuffering:
		return "buffering"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateWaitingForConnection:
		return "waiting_for_connection"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IsTransient reports whether the state resolves on its own given time
// and external signals.
func (s State) IsTransient() bool {
	return s == StateBuffering || s == StateWaitingForConnection
}

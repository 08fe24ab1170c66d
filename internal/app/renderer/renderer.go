// Package renderer defines the contract the playback engine requires from
// an underlying media renderer. The renderer is an opaque capability:
// "render this URL", "report position/duration/buffered range", "emit
// rate/error/time events". Codec and transport internals are not modeled.
package renderer

import "time"

// EventType represents a renderer event type.
type EventType int

const (
	EventReadyToPlay        EventType = iota // Enough buffered to start per the buffering strategy
	EventRateChanged                         // Playback rate changed
	EventTimeUpdated                         // Playback position advanced
	EventLoadedRangeChanged                  // Buffered range grew
	EventStalled                             // Playback stalled while loading (interruption)
	EventItemFinished                        // Item played to the end
	EventError                               // Terminal rendering error
)

// String returns the string representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventReadyToPlay:
		return "ready_to_play"
	case EventRateChanged:
		return "rate_changed"
	case EventTimeUpdated:
		return "time_updated"
	case EventLoadedRangeChanged:
		return "loaded_range_changed"
	case EventStalled:
		return "stalled"
	case EventItemFinished:
		return "item_finished"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is a renderer observation delivered on the event channel.
type Event struct {
	Type     EventType
	Rate     float64       // For EventRateChanged
	Position time.Duration // For EventTimeUpdated
	Loaded   time.Duration // For EventLoadedRangeChanged
	Err      error         // For EventError
}

// Renderer is a live rendering session bound to a single source.
// A renderer is created via a Factory, owned and mutated exclusively by the
// playback engine, and discarded on track change.
type Renderer interface {
	// SetRate sets the playback rate. 0 pauses, 1 is normal speed.
	SetRate(rate float64)
	// Rate returns the current playback rate.
	Rate() float64
	// SeekTo moves the playback position.
	SeekTo(position time.Duration)
	// Position returns the current playback position.
	Position() time.Duration
	// Duration returns the item duration, 0 if not yet known.
	Duration() time.Duration
	// BufferedPosition returns the end of the buffered range.
	BufferedPosition() time.Duration
	// SetVolume sets the output volume in [0, 1].
	SetVolume(volume float64)
	// Events returns the observation channel. No events are delivered
	// after Close returns.
	Events() <-chan Event
	// Close tears the renderer down and releases its resources.
	Close()
}

// Factory constructs renderers from playable URLs.
type Factory interface {
	New(source string, strategy BufferingStrategy) (Renderer, error)
}

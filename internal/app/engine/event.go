package engine

import "time"

// EventType represents an internal engine event type. All producers emit
// this single tagged type onto one channel, consumed serially by the state
// machine; there is no per-producer dispatch.
type EventType int

const (
	EventNetworkChanged     EventType = iota // Reachability transition (Reachable)
	EventRendererReady                       // Renderer buffered enough to start
	EventRendererRate                        // Renderer rate changed (Rate)
	EventRendererError                       // Terminal renderer error (Err)
	EventTimeUpdated                         // Playback position advanced (Position)
	EventLoadedRange                         // Buffered range grew (Position)
	EventInterruption                        // Stall while loading, counted for quality
	EventTrackFinished                       // Current item played to the end
	EventSeekTick                            // Periodic seek gesture delta (Delta)
	EventRetryTick                           // Retry timer fired
	EventQualityAdjust                       // Interruption budget exceeded, relax buffering
	EventBackgroundExpired                   // OS revoked the background execution window
	EventConnectionTimeout                   // No reachability within the allowed connection-loss time
)

// String returns the string representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventNetworkChanged:
		return "network_changed"
	case EventRendererReady:
		return "renderer_ready"
	case EventRendererRate:
		return "renderer_rate"
	case EventRendererError:
		return "renderer_error"
	case EventTimeUpdated:
		return "time_updated"
	case EventLoadedRange:
		return "loaded_range"
	case EventInterruption:
		return "interruption"
	case EventTrackFinished:
		return "track_finished"
	case EventSeekTick:
		return "seek_tick"
	case EventRetryTick:
		return "retry_tick"
	case EventQualityAdjust:
		return "quality_adjust"
	case EventBackgroundExpired:
		return "background_expired"
	case EventConnectionTimeout:
		return "connection_timeout"
	default:
		return "unknown"
	}
}

// Event is an internal engine event with variant payloads.
type Event struct {
	Type      EventType
	Reachable bool          // For EventNetworkChanged
	Rate      float64       // For EventRendererRate
	Position  time.Duration // For EventTimeUpdated / EventLoadedRange
	Delta     time.Duration // For EventSeekTick
	Err       error         // For EventRendererError
}

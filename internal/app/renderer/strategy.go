package renderer

import "github.com/cockroachdb/errors"

// BufferingStrategy controls how aggressively a renderer pre-buffers
// before reporting ready-to-play.
type BufferingStrategy int

const (
	// StrategyDefault leaves the decision to the renderer.
	StrategyDefault BufferingStrategy = iota
	// StrategyPlayWhenPreferredBufferFull waits for the preferred buffer
	// duration to fill before starting.
	StrategyPlayWhenPreferredBufferFull
	// StrategyPlayWhenBufferNotEmpty starts as soon as any data is buffered.
	StrategyPlayWhenBufferNotEmpty
)

// String returns the string representation of the strategy.
func (s BufferingStrategy) String() string {
	switch s {
	case StrategyDefault:
		return "default"
	case StrategyPlayWhenPreferredBufferFull:
		return "play_when_preferred_buffer_duration_full"
	case StrategyPlayWhenBufferNotEmpty:
		return "play_when_buffer_not_empty"
	default:
		return "unknown"
	}
}

// Relaxed returns the next less demanding strategy, used when repeated
// interruptions suggest the connection cannot sustain the current one.
// The most relaxed strategy returns itself.
func (s BufferingStrategy) Relaxed() BufferingStrategy {
	switch s {
	case StrategyPlayWhenPreferredBufferFull:
		return StrategyDefault
	case StrategyDefault:
		return StrategyPlayWhenBufferNotEmpty
	default:
		return StrategyPlayWhenBufferNotEmpty
	}
}

// ParseStrategy parses a strategy name as used in configuration files.
func ParseStrategy(name string) (BufferingStrategy, error) {
	switch name {
	case "default", "":
		return StrategyDefault, nil
	case "play_when_preferred_buffer_duration_full":
		return StrategyPlayWhenPreferredBufferFull, nil
	case "play_when_buffer_not_empty":
		return StrategyPlayWhenBufferNotEmpty, nil
	default:
		return StrategyDefault, errors.Newf("unknown buffering strategy: %q", name)
	}
}

package engine

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/mitchellh/mapstructure"
)

// SeekingMode selects how forward/backward seek gestures are applied.
type SeekingMode int

const (
	// SeekModeMultiplyRate multiplies the renderer rate while the gesture
	// is held.
	SeekModeMultiplyRate SeekingMode = iota
	// SeekModeChangeTimeEvery applies a fixed position delta on a periodic
	// tick while the gesture is held.
	SeekModeChangeTimeEvery
)

// SeekDirection is the direction of a seek gesture.
type SeekDirection int

const (
	SeekForward  SeekDirection = 1
	SeekBackward SeekDirection = -1
)

// SeekingBehavior is the closed variant describing seek-gesture handling.
type SeekingBehavior struct {
	Mode SeekingMode

	// For SeekModeMultiplyRate
	RateFactor float64

	// For SeekModeChangeTimeEvery
	Interval time.Duration
	Delta    time.Duration
}

// DefaultSeekingBehavior doubles the rate while seeking.
func DefaultSeekingBehavior() SeekingBehavior {
	return SeekingBehavior{Mode: SeekModeMultiplyRate, RateFactor: 2}
}

// multiplyRateSettings is the settings shape for SeekModeMultiplyRate.
type multiplyRateSettings struct {
	Factor float64 `mapstructure:"factor"`
}

// changeTimeSettings is the settings shape for SeekModeChangeTimeEvery.
type changeTimeSettings struct {
	IntervalMs int `mapstructure:"interval_ms"`
	DeltaMs    int `mapstructure:"delta_ms"`
}

// SeekingBehaviorFromSettings builds a SeekingBehavior from a configured
// mode name and its free-form settings map.
func SeekingBehaviorFromSettings(mode string, settings map[string]any) (SeekingBehavior, error) {
	switch mode {
	case "multiply_rate", "":
		s := multiplyRateSettings{Factor: 2}
		if err := mapstructure.Decode(settings, &s); err != nil {
			return SeekingBehavior{}, errors.Wrap(err, "failed to decode multiply_rate settings")
		}
		if s.Factor <= 1 {
			return SeekingBehavior{}, errors.Newf("multiply_rate factor must be > 1, got %v", s.Factor)
		}
		return SeekingBehavior{Mode: SeekModeMultiplyRate, RateFactor: s.Factor}, nil

	case "change_time":
		s := changeTimeSettings{IntervalMs: 500, DeltaMs: 10000}
		if err := mapstructure.Decode(settings, &s); err != nil {
			return SeekingBehavior{}, errors.Wrap(err, "failed to decode change_time settings")
		}
		if s.IntervalMs <= 0 || s.DeltaMs <= 0 {
			return SeekingBehavior{}, errors.New("change_time interval_ms and delta_ms must be positive")
		}
		return SeekingBehavior{
			Mode:     SeekModeChangeTimeEvery,
			Interval: time.Duration(s.IntervalMs) * time.Millisecond,
			Delta:    time.Duration(s.DeltaMs) * time.Millisecond,
		}, nil

	default:
		return SeekingBehavior{}, errors.Newf("unknown seeking behavior: %q", mode)
	}
}

package renderer

import (
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
)

const simEventBuffer = 16

// SimConfig configures the simulated renderer.
type SimConfig struct {
	BufferDelay     time.Duration // Base delay before ready-to-play
	TickInterval    time.Duration // Interval between time updates
	DefaultDuration time.Duration // Item duration when the source encodes none
	StallEveryTicks int           // Emit a stall every N ticks (0 disables)
	FailSubstring   string        // Sources containing this fail at load (empty disables)
}

// SimFactory builds simulated renderers. It backs the demo CLI and serves
// as an integration fixture: timing behavior is driven entirely by timers,
// the way a real renderer delivers its observations.
type SimFactory struct {
	cfg SimConfig
}

// NewSimFactory creates a factory with the given configuration.
// Zero fields fall back to usable demo values.
func NewSimFactory(cfg SimConfig) *SimFactory {
	if cfg.BufferDelay <= 0 {
		cfg.BufferDelay = 200 * time.Millisecond
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = 100 * time.Millisecond
	}
	if cfg.DefaultDuration <= 0 {
		cfg.DefaultDuration = 30 * time.Second
	}
	return &SimFactory{cfg: cfg}
}

// New constructs a simulated renderer for the source.
func (f *SimFactory) New(source string, strategy BufferingStrategy) (Renderer, error) {
	if source == "" {
		return nil, errors.New("renderer source is empty")
	}
	if f.cfg.FailSubstring != "" && strings.Contains(source, f.cfg.FailSubstring) {
		return nil, errors.Newf("cannot open source: %s", source)
	}

	s := &Sim{
		cfg:      f.cfg,
		source:   source,
		duration: f.cfg.DefaultDuration,
		events:   make(chan Event, simEventBuffer),
		done:     make(chan struct{}),
	}
	go s.run(readyDelay(f.cfg.BufferDelay, strategy))
	return s, nil
}

// readyDelay scales the base buffering delay by the strategy: a relaxed
// strategy reports ready sooner, an aggressive one waits longer.
func readyDelay(base time.Duration, strategy BufferingStrategy) time.Duration {
	switch strategy {
	case StrategyPlayWhenBufferNotEmpty:
		return base / 4
	case StrategyPlayWhenPreferredBufferFull:
		return base * 2
	default:
		return base
	}
}

// Sim is a timer-driven simulated renderer.
type Sim struct {
	mu        sync.Mutex
	cfg       SimConfig
	source    string
	rate      float64
	position  time.Duration
	duration  time.Duration
	buffered  time.Duration
	finished  bool
	events    chan Event
	done      chan struct{}
	closeOnce sync.Once
}

// run emits ready-to-play after the buffering delay, then advances the
// position on every tick while the rate is non-zero.
func (s *Sim) run(ready time.Duration) {
	select {
	case <-s.done:
		return
	case <-time.After(ready):
	}

	s.mu.Lock()
	s.buffered = minDuration(s.duration, s.position+10*time.Second)
	s.mu.Unlock()
	s.emit(Event{Type: EventReadyToPlay})

	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	ticks := 0
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			if ev, ok := s.tick(&ticks); ok {
				s.emit(ev)
				if ev.Type == EventItemFinished {
					return
				}
			}
		}
	}
}

// tick advances simulated playback by one interval.
func (s *Sim) tick(ticks *int) (Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rate == 0 || s.finished {
		return Event{}, false
	}

	*ticks++
	if s.cfg.StallEveryTicks > 0 && *ticks%s.cfg.StallEveryTicks == 0 {
		return Event{Type: EventStalled}, true
	}

	s.position += time.Duration(float64(s.cfg.TickInterval) * s.rate)
	if s.buffered < s.position+5*time.Second {
		s.buffered = minDuration(s.duration, s.position+5*time.Second)
	}
	if s.position >= s.duration {
		s.position = s.duration
		s.finished = true
		s.rate = 0
		return Event{Type: EventItemFinished}, true
	}
	return Event{Type: EventTimeUpdated, Position: s.position}, true
}

// emit sends without blocking; a slow consumer drops observations.
func (s *Sim) emit(e Event) {
	select {
	case s.events <- e:
	case <-s.done:
	default:
	}
}

// SetRate sets the playback rate.
func (s *Sim) SetRate(rate float64) {
	s.mu.Lock()
	changed := s.rate != rate
	s.rate = rate
	s.mu.Unlock()

	if changed {
		s.emit(Event{Type: EventRateChanged, Rate: rate})
	}
}

// Rate returns the current playback rate.
func (s *Sim) Rate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rate
}

// SeekTo moves the playback position, clamped to the item bounds.
func (s *Sim) SeekTo(position time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if position < 0 {
		position = 0
	}
	if position > s.duration {
		position = s.duration
	}
	s.position = position
}

// Position returns the current playback position.
func (s *Sim) Position() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position
}

// Duration returns the simulated item duration.
func (s *Sim) Duration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.duration
}

// BufferedPosition returns the end of the simulated buffered range.
func (s *Sim) BufferedPosition() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buffered
}

// SetVolume is accepted and ignored; the sim produces no audio.
func (s *Sim) SetVolume(volume float64) {}

// Events returns the observation channel.
func (s *Sim) Events() <-chan Event {
	return s.events
}

// Close stops the simulation.
func (s *Sim) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}

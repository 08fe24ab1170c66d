package engine

import (
	"sync"
	"time"
)

// SeekEventProducer emits periodic position deltas while a seek gesture is
// held. Only one gesture can be active at a time: a second Start while
// running is a no-op, so a new gesture requires Stop first.
type SeekEventProducer struct {
	mu       sync.Mutex
	events   chan<- Event
	interval time.Duration
	delta    time.Duration
	stop     chan struct{}
}

// NewSeekEventProducer creates a stopped seek producer.
func NewSeekEventProducer(events chan<- Event) *SeekEventProducer {
	return &SeekEventProducer{events: events}
}

// Configure sets the tick interval and per-tick delta for the next gesture.
// Has no effect on a gesture already in progress.
func (p *SeekEventProducer) Configure(interval, delta time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.interval = interval
	p.delta = delta
}

// Start begins emitting seek ticks.
func (p *SeekEventProducer) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stop != nil || p.interval <= 0 {
		return
	}
	stop := make(chan struct{})
	p.stop = stop
	delta := p.delta

	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				emitEvent(p.events, Event{Type: EventSeekTick, Delta: delta})
			}
		}
	}()
}

// Stop ends the gesture.
func (p *SeekEventProducer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stop == nil {
		return
	}
	close(p.stop)
	p.stop = nil
}

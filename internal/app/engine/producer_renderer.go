package engine

import (
	"sync"

	"github.com/hibiki-audio/tonearm/internal/app/renderer"
)

// PlayerEventProducer translates renderer rate, readiness, stall and error
// observations into engine events. The engine feeds it from the renderer
// observation pump; while stopped, observations are discarded.
type PlayerEventProducer struct {
	mu      sync.Mutex
	started bool
	events  chan<- Event
}

// NewPlayerEventProducer creates a stopped player producer.
func NewPlayerEventProducer(events chan<- Event) *PlayerEventProducer {
	return &PlayerEventProducer{events: events}
}

// Start enables translation.
func (p *PlayerEventProducer) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.started = true
}

// Stop disables translation.
func (p *PlayerEventProducer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.started = false
}

// handle translates one renderer observation.
func (p *PlayerEventProducer) handle(ev renderer.Event) {
	p.mu.Lock()
	started := p.started
	p.mu.Unlock()
	if !started {
		return
	}

	switch ev.Type {
	case renderer.EventReadyToPlay:
		emitEvent(p.events, Event{Type: EventRendererReady})
	case renderer.EventRateChanged:
		emitEvent(p.events, Event{Type: EventRendererRate, Rate: ev.Rate})
	case renderer.EventTimeUpdated:
		emitEvent(p.events, Event{Type: EventTimeUpdated, Position: ev.Position})
	case renderer.EventStalled:
		emitEvent(p.events, Event{Type: EventInterruption})
	case renderer.EventError:
		emitEvent(p.events, Event{Type: EventRendererError, Err: ev.Err})
	}
}

// TrackEventProducer translates item-level renderer observations
// (item finished, loaded range) into engine events.
type TrackEventProducer struct {
	mu      sync.Mutex
	started bool
	events  chan<- Event
}

// NewTrackEventProducer creates a stopped track producer.
func NewTrackEventProducer(events chan<- Event) *TrackEventProducer {
	return &TrackEventProducer{events: events}
}

// Start enables translation.
func (p *TrackEventProducer) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.started = true
}

// Stop disables translation.
func (p *TrackEventProducer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.started = false
}

// handle translates one renderer observation.
func (p *TrackEventProducer) handle(ev renderer.Event) {
	p.mu.Lock()
	started := p.started
	p.mu.Unlock()
	if !started {
		return
	}

	switch ev.Type {
	case renderer.EventItemFinished:
		emitEvent(p.events, Event{Type: EventTrackFinished})
	case renderer.EventLoadedRangeChanged:
		emitEvent(p.events, Event{Type: EventLoadedRange, Position: ev.Loaded})
	}
}

package engine

import (
	"sync"
	"time"
)

// QualityAdjustmentEventProducer counts interruptions within a sliding
// window and emits a quality tick when the count reaches the threshold.
// The count covers only interruptions since quality was last reset: the
// producer resets itself on emission, and the engine calls Reset on
// explicit stop and on sustained playback.
type QualityAdjustmentEventProducer struct {
	mu        sync.Mutex
	events    chan<- Event
	window    time.Duration
	threshold int

	started     bool
	count       int
	windowStart time.Time
	now         func() time.Time
}

// NewQualityAdjustmentEventProducer creates a stopped quality producer.
func NewQualityAdjustmentEventProducer(window time.Duration, threshold int, events chan<- Event) *QualityAdjustmentEventProducer {
	return &QualityAdjustmentEventProducer{
		events:    events,
		window:    window,
		threshold: threshold,
		now:       time.Now,
	}
}

// Start enables interruption counting.
func (p *QualityAdjustmentEventProducer) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.started = true
}

// Stop disables counting without clearing the window.
func (p *QualityAdjustmentEventProducer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.started = false
}

// Reset clears the interruption window.
func (p *QualityAdjustmentEventProducer) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count = 0
	p.windowStart = time.Time{}
}

// RecordInterruption registers one interruption. When the threshold is
// reached within the window, a quality tick is emitted and the window
// resets.
func (p *QualityAdjustmentEventProducer) RecordInterruption() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started || p.threshold <= 0 {
		return
	}

	now := p.now()
	if p.windowStart.IsZero() || now.Sub(p.windowStart) > p.window {
		p.windowStart = now
		p.count = 0
	}
	p.count++

	if p.count >= p.threshold {
		p.count = 0
		p.windowStart = time.Time{}
		emitEvent(p.events, Event{Type: EventQualityAdjust})
	}
}

// Interruptions returns the current windowed count.
func (p *QualityAdjustmentEventProducer) Interruptions() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.count
}

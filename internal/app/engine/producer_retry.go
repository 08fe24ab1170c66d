package engine

import (
	"sync"
	"time"
)

// RetryEventProducer emits a retry tick every retry timeout while running.
// The engine starts it when a failure is retryable and stops it when the
// track changes, playback recovers or the budget is exhausted.
type RetryEventProducer struct {
	mu      sync.Mutex
	events  chan<- Event
	timeout time.Duration
	stop    chan struct{}
}

// NewRetryEventProducer creates a stopped retry producer.
func NewRetryEventProducer(timeout time.Duration, events chan<- Event) *RetryEventProducer {
	return &RetryEventProducer{
		events:  events,
		timeout: timeout,
	}
}

// Start begins emitting retry ticks.
func (p *RetryEventProducer) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stop != nil || p.timeout <= 0 {
		return
	}
	stop := make(chan struct{})
	p.stop = stop

	go func() {
		ticker := time.NewTicker(p.timeout)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				emitEvent(p.events, Event{Type: EventRetryTick})
			}
		}
	}()
}

// Stop cancels pending ticks.
func (p *RetryEventProducer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stop == nil {
		return
	}
	close(p.stop)
	p.stop = nil
}

package engine

import (
	"sync"

	"github.com/hibiki-audio/tonearm/internal/infra/netmon"
)

// NetworkEventProducer forwards reachability transitions from a monitor
// into the engine event channel.
type NetworkEventProducer struct {
	mu      sync.Mutex
	monitor netmon.Monitor
	events  chan<- Event
	sub     <-chan bool
	stop    chan struct{}
}

// NewNetworkEventProducer creates a producer over the given monitor.
func NewNetworkEventProducer(monitor netmon.Monitor, events chan<- Event) *NetworkEventProducer {
	return &NetworkEventProducer{
		monitor: monitor,
		events:  events,
	}
}

// Start begins forwarding reachability transitions.
func (p *NetworkEventProducer) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stop != nil {
		return
	}
	sub := p.monitor.Subscribe()
	stop := make(chan struct{})
	p.sub = sub
	p.stop = stop

	go func() {
		for {
			select {
			case <-stop:
				return
			case reachable, ok := <-sub:
				if !ok {
					return
				}
				emitEvent(p.events, Event{Type: EventNetworkChanged, Reachable: reachable})
			}
		}
	}()
}

// Stop ends forwarding.
func (p *NetworkEventProducer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stop == nil {
		return
	}
	close(p.stop)
	p.monitor.Unsubscribe(p.sub)
	p.stop = nil
	p.sub = nil
}

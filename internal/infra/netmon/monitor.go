// Package netmon reports network reachability to interested subscribers.
package netmon

import "sync"

// Monitor exposes the current reachability status and a subscription
// channel that receives a value on every transition.
type Monitor interface {
	// Reachable returns the last observed reachability status.
	Reachable() bool
	// Subscribe registers a channel receiving reachability transitions.
	Subscribe() <-chan bool
	// Unsubscribe removes a previously subscribed channel.
	Unsubscribe(ch <-chan bool)
}

const subscriberBuffer = 4

// broadcaster implements the subscription half of a Monitor.
type broadcaster struct {
	mu        sync.Mutex
	reachable bool
	subs      map[<-chan bool]chan bool
}

func newBroadcaster(reachable bool) *broadcaster {
	return &broadcaster{
		reachable: reachable,
		subs:      make(map[<-chan bool]chan bool),
	}
}

func (b *broadcaster) Reachable() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.reachable
}

func (b *broadcaster) Subscribe() <-chan bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan bool, subscriberBuffer)
	b.subs[ch] = ch
	return ch
}

func (b *broadcaster) Unsubscribe(ch <-chan bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.subs, ch)
}

// set updates the status and broadcasts on change.
// Returns whether a transition occurred.
func (b *broadcaster) set(reachable bool) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.reachable == reachable {
		return false
	}
	b.reachable = reachable
	for _, ch := range b.subs {
		select {
		case ch <- reachable:
		default:
			// Slow subscriber, drop rather than block the monitor
		}
	}
	return true
}

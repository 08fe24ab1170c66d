package engine

import (
	zlog "github.com/rs/zerolog/log"
)

// EventProducer is a source of engine events that can be started and
// stopped. Both calls are idempotent: starting a started producer or
// stopping a stopped one is a no-op. Every producer emits into the
// engine's single tagged-event channel.
type EventProducer interface {
	Start()
	Stop()
}

// emitEvent sends without blocking. The engine consumes its event channel
// continuously; a full buffer means the engine is wedged and dropping is
// preferable to deadlocking a timer goroutine.
func emitEvent(events chan<- Event, e Event) {
	select {
	case events <- e:
	default:
		zlog.Warn().Msgf("engine: event buffer full, dropping %s", e.Type)
	}
}

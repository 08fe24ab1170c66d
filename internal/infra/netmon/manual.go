package netmon

// Manual is a monitor whose status is set by the caller. It backs tests
// and fully-local deployments where no probing is wanted.
type Manual struct {
	*broadcaster
}

// NewManual creates a manual monitor with an initial status.
func NewManual(reachable bool) *Manual {
	return &Manual{broadcaster: newBroadcaster(reachable)}
}

// SetReachable updates the status, broadcasting to subscribers on change.
func (m *Manual) SetReachable(reachable bool) {
	m.set(reachable)
}

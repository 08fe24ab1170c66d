package engine

// NotificationType represents an outbound engine notification type.
type NotificationType int

const (
	NotificationStateChanged  NotificationType = iota // State transition (From, To)
	NotificationTrackFinished                         // Current item finished, caller decides what follows
	NotificationFailed                                // Playback failed (Err); emitted on every occurrence
)

// String returns the string representation of the notification type.
func (n NotificationType) String() string {
	switch n {
	case NotificationStateChanged:
		return "state_changed"
	case NotificationTrackFinished:
		return "track_finished"
	case NotificationFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Notification is the engine's outbound event, consumed by the queue
// controller. Exactly one notification is emitted per cause.
type Notification struct {
	Type NotificationType
	From State // For NotificationStateChanged
	To   State // For NotificationStateChanged
	Err  error // For NotificationFailed
}

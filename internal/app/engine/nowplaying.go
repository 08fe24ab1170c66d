package engine

import "time"

// NowPlayingInfo is the snapshot handed to the now-playing surface.
type NowPlayingInfo struct {
	TrackID  string
	Title    string
	Artist   string
	State    State
	Position time.Duration
	Duration time.Duration
	Rate     float64
}

// NowPlayingUpdater receives a refresh on every state, track and rate
// change. The engine only invokes it; rendering the metadata is the
// collaborator's concern. Clear is called on shutdown and reset.
type NowPlayingUpdater interface {
	Update(info NowPlayingInfo)
	Clear()
}

// NoopNowPlayingUpdater discards all updates.
type NoopNowPlayingUpdater struct{}

func (NoopNowPlayingUpdater) Update(info NowPlayingInfo) {}
func (NoopNowPlayingUpdater) Clear()                     {}

// Package queue provides the queue controller: it owns the ordered track
// queue and the current index, translates high-level intents into engine
// calls, and forwards engine lifecycle events to an external delegate
// using stable track identifiers.
package queue

import (
	"context"
	"sync"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/hibiki-audio/tonearm/internal/app/engine"
	"github.com/hibiki-audio/tonearm/internal/domain/track"
)

// Controller owns the queue. The engine only ever sees one track at a
// time; all queue and index math happens here.
type Controller struct {
	mu sync.Mutex

	engine       *engine.Engine
	tracks       []track.Track
	currentIndex int

	delegate Delegate

	artwork     *track.ArtworkCache
	fetcher     track.ArtworkFetcher
	fetchCancel context.CancelFunc

	done      chan struct{}
	closeOnce sync.Once
}

// NewController creates a controller over the given engine and starts
// consuming its notifications.
func NewController(eng *engine.Engine) *Controller {
	c := &Controller{
		engine:  eng,
		artwork: track.NewArtworkCache(),
		done:    make(chan struct{}),
	}
	go c.watch()
	return c
}

// SetDelegate installs the delegate. A nil delegate silences callbacks.
func (c *Controller) SetDelegate(d Delegate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.delegate = d
}

// SetArtworkFetcher installs the artwork fetch collaborator.
func (c *Controller) SetArtworkFetcher(f track.ArtworkFetcher) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetcher = f
}

// Artwork returns the artwork side table.
func (c *Controller) Artwork() *track.ArtworkCache {
	return c.artwork
}

// AddTracks appends tracks to the queue.
func (c *Controller) AddTracks(tracks ...track.Track) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tracks = append(c.tracks, tracks...)
}

// AddTracksBefore inserts tracks before the first track whose id matches
// beforeID. When no track matches, the tracks are appended; this is the
// documented fallback, not an error.
func (c *Controller) AddTracksBefore(beforeID string, tracks ...track.Track) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOfLocked(beforeID)
	if idx < 0 {
		c.tracks = append(c.tracks, tracks...)
		return
	}

	tail := make([]track.Track, len(c.tracks[idx:]))
	copy(tail, c.tracks[idx:])
	c.tracks = append(c.tracks[:idx], append(tracks, tail...)...)

	if idx <= c.currentIndex {
		c.currentIndex += len(tracks)
	}
}

// RemoveTracks removes all tracks whose id is in ids. Index adjustments
// are computed against the pre-mutation queue, then the queue is
// filtered. If the current track is removed, playback advances to the
// next remaining track at the same logical position, or stops when none
// remains at or after it.
func (c *Controller) RemoveTracks(ids ...string) {
	removed := make(map[string]bool, len(ids))
	for _, id := range ids {
		removed[id] = true
	}

	c.mu.Lock()

	currentRemoved := c.currentIndex < len(c.tracks) && removed[c.tracks[c.currentIndex].ID]
	currentID := ""
	if c.currentIndex < len(c.tracks) {
		currentID = c.tracks[c.currentIndex].ID
	}

	// Adjust using original indices before filtering
	newIndex := 0
	for i := 0; i < c.currentIndex && i < len(c.tracks); i++ {
		if !removed[c.tracks[i].ID] {
			newIndex++
		}
	}
	successor := -1
	if currentRemoved {
		for i := c.currentIndex; i < len(c.tracks); i++ {
			if !removed[c.tracks[i].ID] {
				successor = i
				break
			}
		}
	}
	originalCount := len(c.tracks)

	filtered := c.tracks[:0]
	for _, t := range c.tracks {
		if !removed[t.ID] {
			filtered = append(filtered, t)
		}
	}
	c.tracks = filtered
	c.artwork.Invalidate(ids...)

	if !currentRemoved {
		c.currentIndex = newIndex
		c.mu.Unlock()
		return
	}

	c.cancelArtworkFetchLocked()

	if successor >= 0 {
		position := c.engine.Progression()
		toID := c.startAtLocked(newIndex)
		c.mu.Unlock()
		c.notifySwitched(switched{fromID: currentID, position: position, toID: toID})
		return
	}

	// Nothing remains at or after the removed current track
	c.currentIndex = originalCount
	c.mu.Unlock()
	c.engine.Stop()
}

// SkipToTrack jumps to the first track whose id matches and plays it.
// Unknown ids are a silent no-op.
func (c *Controller) SkipToTrack(id string) {
	c.mu.Lock()

	idx := c.indexOfLocked(id)
	if idx < 0 {
		c.mu.Unlock()
		zlog.Debug().Msgf("queue: skip to unknown track ignored: id=%s", id)
		return
	}
	sw := c.switchToLocked(idx)
	c.mu.Unlock()
	c.notifySwitched(sw)
}

// PlayNext advances to the next track. Returns whether a move occurred;
// when there is no next track, playback pauses.
func (c *Controller) PlayNext() bool {
	c.mu.Lock()

	if c.currentIndex+1 >= len(c.tracks) {
		c.mu.Unlock()
		c.engine.Pause()
		return false
	}
	sw := c.switchToLocked(c.currentIndex + 1)
	c.mu.Unlock()
	c.notifySwitched(sw)
	return true
}

// PlayPrevious steps back to the previous track. Returns whether a move
// occurred; when there is no previous track, playback stops.
func (c *Controller) PlayPrevious() bool {
	c.mu.Lock()

	prev := c.currentIndex - 1
	if prev < 0 || prev >= len(c.tracks) {
		c.mu.Unlock()
		c.engine.Stop()
		return false
	}
	sw := c.switchToLocked(prev)
	c.mu.Unlock()
	c.notifySwitched(sw)
	return true
}

// Play starts or resumes playback of the current track.
func (c *Controller) Play() {
	c.mu.Lock()

	if c.currentIndex >= len(c.tracks) {
		c.mu.Unlock()
		zlog.Debug().Msg("queue: play ignored, no current track")
		return
	}
	sw := c.switchToLocked(c.currentIndex)
	c.mu.Unlock()
	c.notifySwitched(sw)
}

// Pause pauses playback.
func (c *Controller) Pause() {
	c.engine.Pause()
}

// Stop stops playback.
func (c *Controller) Stop() {
	c.engine.Stop()
}

// Seek moves the playback position within the current track.
func (c *Controller) Seek(position time.Duration) {
	c.engine.Seek(position)
}

// Reset clears the queue, resets the index and stops playback. Used on
// full session teardown.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.cancelArtworkFetchLocked()
	c.tracks = nil
	c.currentIndex = 0
	c.artwork.Clear()
	c.mu.Unlock()

	c.engine.Stop()
}

// Close resets the controller and shuts the engine down.
func (c *Controller) Close() {
	c.Reset()
	c.closeOnce.Do(func() {
		close(c.done)
	})
	c.engine.Shutdown()
}

// CurrentTrack returns the current track, if any.
func (c *Controller) CurrentTrack() (track.Track, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.currentIndex >= len(c.tracks) {
		return track.Track{}, false
	}
	return c.tracks[c.currentIndex], true
}

// Tracks returns a copy of the queue.
func (c *Controller) Tracks() []track.Track {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]track.Track, len(c.tracks))
	copy(out, c.tracks)
	return out
}

// CurrentIndex returns the current queue index.
func (c *Controller) CurrentIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentIndex
}

// State returns the engine state.
func (c *Controller) State() engine.State {
	return c.engine.State()
}

// BufferedPosition returns the end of the buffered range.
func (c *Controller) BufferedPosition() time.Duration {
	return c.engine.BufferedPosition()
}

// CurrentTrackDuration returns the current track duration.
func (c *Controller) CurrentTrackDuration() time.Duration {
	return c.engine.Duration()
}

// CurrentTrackProgression returns the current playback position.
func (c *Controller) CurrentTrackProgression() time.Duration {
	return c.engine.Progression()
}

// indexOfLocked returns the index of the first track with the given id,
// -1 when absent.
func (c *Controller) indexOfLocked(id string) int {
	for i, t := range c.tracks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// switchToLocked moves the index and starts playback of the track there.
// Returns the pending TrackSwitched callback, which the caller delivers
// after releasing the lock.
func (c *Controller) switchToLocked(idx int) switched {
	fromID := ""
	if c.currentIndex < len(c.tracks) {
		fromID = c.tracks[c.currentIndex].ID
	}
	position := c.engine.Progression()

	toID := c.startAtLocked(idx)
	return switched{fromID: fromID, position: position, toID: toID}
}

// startAtLocked moves the index and starts playback there, returning the
// started track's id. Used when the caller captures the from-side itself.
func (c *Controller) startAtLocked(idx int) string {
	c.currentIndex = idx
	t := c.tracks[idx]
	if err := c.engine.Play(t); err != nil {
		zlog.Warn().Msgf("queue: play rejected: id=%s err=%v", t.ID, err)
	}
	c.startArtworkFetchLocked(t)
	return t.ID
}

// notifySwitched delivers a TrackSwitched callback when the track
// actually changed. Must be called without the lock held.
func (c *Controller) notifySwitched(sw switched) {
	if sw.toID == "" || sw.toID == sw.fromID {
		return
	}
	if d := c.getDelegate(); d != nil {
		d.TrackSwitched(sw.fromID, sw.position, sw.toID)
	}
}

func (c *Controller) getDelegate() Delegate {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.delegate
}

// startArtworkFetchLocked begins resolving artwork for the track,
// cancelling any fetch still in flight for a previous track. Completions
// for tracks that are no longer current are discarded.
func (c *Controller) startArtworkFetchLocked(t track.Track) {
	c.cancelArtworkFetchLocked()

	if c.fetcher == nil || t.ArtworkURL == "" {
		return
	}
	if _, ok := c.artwork.Get(t.ID); ok {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.fetchCancel = cancel

	go func() {
		data, err := c.fetcher.Fetch(ctx, t)
		if err != nil {
			zlog.Debug().Msgf("queue: artwork fetch failed: id=%s err=%v", t.ID, err)
			return
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		// Guard against a stale completion for a track that moved on
		if c.currentIndex >= len(c.tracks) || c.tracks[c.currentIndex].ID != t.ID {
			return
		}
		c.artwork.Put(t.ID, data)
	}()
}

func (c *Controller) cancelArtworkFetchLocked() {
	if c.fetchCancel != nil {
		c.fetchCancel()
		c.fetchCancel = nil
	}
}

// watch consumes engine notifications and translates them into delegate
// callbacks and queue decisions.
func (c *Controller) watch() {
	for {
		select {
		case <-c.done:
			return
		case <-c.engine.Done():
			return
		case n := <-c.engine.Notifications():
			c.handleNotification(n)
		}
	}
}

func (c *Controller) handleNotification(n engine.Notification) {
	switch n.Type {
	case engine.NotificationStateChanged:
		if d := c.getDelegate(); d != nil {
			d.StateChanged(n.To)
		}
	case engine.NotificationFailed:
		if d := c.getDelegate(); d != nil {
			d.PlaybackFailed(n.Err)
		}
	case engine.NotificationTrackFinished:
		c.handleTrackFinished()
	}
}

// handleTrackFinished advances the queue, or reports exhaustion when the
// finished track was the last one.
func (c *Controller) handleTrackFinished() {
	c.mu.Lock()

	lastID := ""
	if c.currentIndex < len(c.tracks) {
		lastID = c.tracks[c.currentIndex].ID
	}
	position := c.engine.Progression()

	if c.currentIndex+1 < len(c.tracks) {
		sw := c.switchToLocked(c.currentIndex + 1)
		c.mu.Unlock()
		c.notifySwitched(sw)
		return
	}

	c.currentIndex = len(c.tracks)
	c.mu.Unlock()

	c.engine.Stop()
	if d := c.getDelegate(); d != nil {
		d.QueueExhausted(lastID, position)
	}
}

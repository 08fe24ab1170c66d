package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hibiki-audio/tonearm/internal/app/engine"
	"github.com/hibiki-audio/tonearm/internal/app/renderer"
	"github.com/hibiki-audio/tonearm/internal/domain/track"
	"github.com/hibiki-audio/tonearm/internal/infra/netmon"
)

// recordingDelegate captures every callback with its arguments.
type recordingDelegate struct {
	mu        sync.Mutex
	states    []engine.State
	switches  []switched
	exhausted []string
	failures  []error
}

func (d *recordingDelegate) StateChanged(state engine.State) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.states = append(d.states, state)
}

func (d *recordingDelegate) TrackSwitched(fromID string, position time.Duration, toID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.switches = append(d.switches, switched{fromID: fromID, position: position, toID: toID})
}

func (d *recordingDelegate) QueueExhausted(lastID string, position time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.exhausted = append(d.exhausted, lastID)
}

func (d *recordingDelegate) PlaybackFailed(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failures = append(d.failures, err)
}

func (d *recordingDelegate) lastSwitch() (switched, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.switches) == 0 {
		return switched{}, false
	}
	return d.switches[len(d.switches)-1], true
}

func (d *recordingDelegate) exhaustedIDs() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.exhausted))
	copy(out, d.exhausted)
	return out
}

// fakeFetcher serves artwork from a map.
type fakeFetcher struct {
	mu   sync.Mutex
	art  map[string][]byte
	errs map[string]error
}

func (f *fakeFetcher) Fetch(ctx context.Context, t track.Track) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errs[t.ID]; err != nil {
		return nil, err
	}
	return f.art[t.ID], nil
}

func testEngineConfig() engine.Config {
	cfg := engine.DefaultConfig()
	cfg.Retry = engine.RetryPolicy{MaximumRetryCount: 0, RetryTimeout: 10 * time.Millisecond}
	return cfg
}

// newTestController builds a controller over a sim-backed engine. Long
// durations keep tracks from finishing on their own.
func newTestController(t *testing.T) (*Controller, *recordingDelegate) {
	t.Helper()
	return newTestControllerWithSim(t, renderer.SimConfig{
		BufferDelay:     5 * time.Millisecond,
		TickInterval:    5 * time.Millisecond,
		DefaultDuration: time.Hour,
	})
}

func newTestControllerWithSim(t *testing.T, sim renderer.SimConfig) (*Controller, *recordingDelegate) {
	t.Helper()
	eng := engine.New(testEngineConfig(), renderer.NewSimFactory(sim), netmon.NewManual(true))
	c := NewController(eng)
	d := &recordingDelegate{}
	c.SetDelegate(d)
	t.Cleanup(c.Close)
	return c, d
}

func queuedTracks(ids ...string) []track.Track {
	out := make([]track.Track, len(ids))
	for i, id := range ids {
		out[i] = track.New(id, "https://cdn.example.com/"+id+".mp3")
	}
	return out
}

func waitEngineState(t *testing.T, c *Controller, s engine.State) {
	t.Helper()
	require.Eventually(t, func() bool { return c.State() == s },
		2*time.Second, time.Millisecond, "expected state %s, got %s", s, c.State())
}

func TestController_AddTracksAppends(t *testing.T) {
	c, _ := newTestController(t)

	c.AddTracks(queuedTracks("a", "b")...)
	c.AddTracks(queuedTracks("c")...)

	tracks := c.Tracks()
	require.Len(t, tracks, 3)
	assert.Equal(t, "a", tracks[0].ID)
	assert.Equal(t, "c", tracks[2].ID)
	assert.Equal(t, 0, c.CurrentIndex())
}

func TestController_PlayStartsCurrentTrack(t *testing.T) {
	c, _ := newTestController(t)
	c.AddTracks(queuedTracks("a", "b")...)

	c.Play()
	waitEngineState(t, c, engine.StatePlaying)

	cur, ok := c.CurrentTrack()
	require.True(t, ok)
	assert.Equal(t, "a", cur.ID)
}

func TestController_PlayOnEmptyQueueIsNoop(t *testing.T) {
	c, _ := newTestController(t)
	c.Play()
	assert.Equal(t, engine.StateStopped, c.State())
}

func TestController_PlayNextAdvances(t *testing.T) {
	c, d := newTestController(t)
	c.AddTracks(queuedTracks("a", "b")...)
	c.Play()
	waitEngineState(t, c, engine.StatePlaying)

	require.True(t, c.PlayNext())
	assert.Equal(t, 1, c.CurrentIndex())

	sw, ok := d.lastSwitch()
	require.True(t, ok)
	assert.Equal(t, "a", sw.fromID)
	assert.Equal(t, "b", sw.toID)
}

func TestController_PlayNextAtEndPauses(t *testing.T) {
	c, _ := newTestController(t)
	c.AddTracks(queuedTracks("a")...)
	c.Play()
	waitEngineState(t, c, engine.StatePlaying)

	assert.False(t, c.PlayNext())
	assert.Equal(t, 0, c.CurrentIndex(), "index must not move past the end")
	waitEngineState(t, c, engine.StatePaused)
}

func TestController_PlayPreviousSteps(t *testing.T) {
	c, _ := newTestController(t)
	c.AddTracks(queuedTracks("a", "b")...)
	c.Play()
	waitEngineState(t, c, engine.StatePlaying)
	require.True(t, c.PlayNext())

	require.True(t, c.PlayPrevious())
	assert.Equal(t, 0, c.CurrentIndex())
}

func TestController_PlayPreviousAtStartStops(t *testing.T) {
	c, _ := newTestController(t)
	c.AddTracks(queuedTracks("a", "b")...)
	c.Play()
	waitEngineState(t, c, engine.StatePlaying)

	assert.False(t, c.PlayPrevious())
	assert.Equal(t, 0, c.CurrentIndex())
	waitEngineState(t, c, engine.StateStopped)
}

func TestController_SkipToTrack(t *testing.T) {
	c, d := newTestController(t)
	c.AddTracks(queuedTracks("a", "b", "c")...)
	c.Play()
	waitEngineState(t, c, engine.StatePlaying)

	c.SkipToTrack("c")
	assert.Equal(t, 2, c.CurrentIndex())
	sw, ok := d.lastSwitch()
	require.True(t, ok)
	assert.Equal(t, "c", sw.toID)
}

func TestController_SkipToUnknownTrackIsNoop(t *testing.T) {
	c, _ := newTestController(t)
	c.AddTracks(queuedTracks("a", "b")...)
	c.Play()
	waitEngineState(t, c, engine.StatePlaying)

	c.SkipToTrack("nope")
	assert.Equal(t, 0, c.CurrentIndex())
	cur, _ := c.CurrentTrack()
	assert.Equal(t, "a", cur.ID)
}

func TestController_SkipToDuplicateIDUsesFirstOccurrence(t *testing.T) {
	c, _ := newTestController(t)
	tracks := queuedTracks("a", "b", "a")
	c.AddTracks(tracks...)

	c.SkipToTrack("a")
	assert.Equal(t, 0, c.CurrentIndex())
}

func TestController_AddTracksBeforeShiftsCurrentIndex(t *testing.T) {
	c, _ := newTestController(t)
	c.AddTracks(queuedTracks("a", "b")...)
	c.Play()
	waitEngineState(t, c, engine.StatePlaying)
	require.True(t, c.PlayNext()) // now on b, index 1

	c.AddTracksBefore("b", queuedTracks("x", "y")...)

	tracks := c.Tracks()
	require.Len(t, tracks, 4)
	assert.Equal(t, []string{"a", "x", "y", "b"},
		[]string{tracks[0].ID, tracks[1].ID, tracks[2].ID, tracks[3].ID})
	assert.Equal(t, 3, c.CurrentIndex())
	cur, _ := c.CurrentTrack()
	assert.Equal(t, "b", cur.ID, "current track must not change on insert")
}

func TestController_AddTracksBeforeUnknownAppends(t *testing.T) {
	c, _ := newTestController(t)
	c.AddTracks(queuedTracks("a")...)

	c.AddTracksBefore("nope", queuedTracks("x")...)

	tracks := c.Tracks()
	require.Len(t, tracks, 2)
	assert.Equal(t, "x", tracks[1].ID)
}

func TestController_RemoveTracksBeforeCurrentAdjustsIndex(t *testing.T) {
	c, _ := newTestController(t)
	c.AddTracks(queuedTracks("a", "b", "c")...)
	c.Play()
	waitEngineState(t, c, engine.StatePlaying)
	require.True(t, c.PlayNext())
	require.True(t, c.PlayNext()) // now on c, index 2

	c.RemoveTracks("a")

	assert.Equal(t, 1, c.CurrentIndex())
	cur, _ := c.CurrentTrack()
	assert.Equal(t, "c", cur.ID)
}

func TestController_RemoveCurrentTrackAdvancesToSuccessor(t *testing.T) {
	c, d := newTestController(t)
	c.AddTracks(queuedTracks("a", "b", "c")...)
	c.Play()
	waitEngineState(t, c, engine.StatePlaying)

	c.RemoveTracks("a")

	assert.Equal(t, 0, c.CurrentIndex())
	cur, ok := c.CurrentTrack()
	require.True(t, ok)
	assert.Equal(t, "b", cur.ID)
	require.Eventually(t, func() bool {
		sw, ok := d.lastSwitch()
		return ok && sw.toID == "b"
	}, 2*time.Second, time.Millisecond)
}

func TestController_RemoveLastCurrentTrackStops(t *testing.T) {
	c, _ := newTestController(t)
	c.AddTracks(queuedTracks("a", "b")...)
	c.Play()
	waitEngineState(t, c, engine.StatePlaying)
	require.True(t, c.PlayNext()) // now on b, index 1

	c.RemoveTracks("b")

	// The index lands one past the pre-removal queue
	assert.Equal(t, 2, c.CurrentIndex())
	_, ok := c.CurrentTrack()
	assert.False(t, ok)
	waitEngineState(t, c, engine.StateStopped)
	require.Len(t, c.Tracks(), 1)
}

func TestController_RemoveSeveralIncludingCurrent(t *testing.T) {
	c, _ := newTestController(t)
	c.AddTracks(queuedTracks("a", "b", "c", "d")...)
	c.Play()
	waitEngineState(t, c, engine.StatePlaying)
	require.True(t, c.PlayNext()) // now on b

	c.RemoveTracks("a", "b", "c")

	require.Len(t, c.Tracks(), 1)
	assert.Equal(t, 0, c.CurrentIndex())
	cur, ok := c.CurrentTrack()
	require.True(t, ok)
	assert.Equal(t, "d", cur.ID)
}

func TestController_RemoveUnknownIDsIsNoop(t *testing.T) {
	c, _ := newTestController(t)
	c.AddTracks(queuedTracks("a", "b")...)

	c.RemoveTracks("nope", "also-nope")
	assert.Len(t, c.Tracks(), 2)
	assert.Equal(t, 0, c.CurrentIndex())
}

func TestController_FinishedTrackAdvancesQueue(t *testing.T) {
	c, d := newTestControllerWithSim(t, renderer.SimConfig{
		BufferDelay:     5 * time.Millisecond,
		TickInterval:    5 * time.Millisecond,
		DefaultDuration: 40 * time.Millisecond,
	})
	c.AddTracks(queuedTracks("a", "b")...)
	c.Play()

	// a finishes and b starts without intervention
	require.Eventually(t, func() bool {
		sw, ok := d.lastSwitch()
		return ok && sw.fromID == "a" && sw.toID == "b"
	}, 2*time.Second, time.Millisecond)

	// b finishes and the queue reports exhaustion
	require.Eventually(t, func() bool {
		ids := d.exhaustedIDs()
		return len(ids) == 1 && ids[0] == "b"
	}, 2*time.Second, time.Millisecond)

	waitEngineState(t, c, engine.StateStopped)
	assert.Equal(t, 2, c.CurrentIndex())
	_, ok := c.CurrentTrack()
	assert.False(t, ok)
}

func TestController_ResetClearsQueueAndStops(t *testing.T) {
	c, _ := newTestController(t)
	c.AddTracks(queuedTracks("a", "b")...)
	c.Play()
	waitEngineState(t, c, engine.StatePlaying)

	c.Reset()

	assert.Len(t, c.Tracks(), 0)
	assert.Equal(t, 0, c.CurrentIndex())
	waitEngineState(t, c, engine.StateStopped)
	assert.Equal(t, 0, c.Artwork().Len())
}

func TestController_StateChangesReachDelegate(t *testing.T) {
	c, d := newTestController(t)
	c.AddTracks(queuedTracks("a")...)
	c.Play()
	waitEngineState(t, c, engine.StatePlaying)

	require.Eventually(t, func() bool {
		d.mu.Lock()
		defer d.mu.Unlock()
		for _, s := range d.states {
			if s == engine.StatePlaying {
				return true
			}
		}
		return false
	}, 2*time.Second, time.Millisecond)
}

func TestController_ArtworkFetchedForCurrentTrack(t *testing.T) {
	c, _ := newTestController(t)
	fetcher := &fakeFetcher{art: map[string][]byte{"a": {0xFF, 0xD8}}}
	c.SetArtworkFetcher(fetcher)

	tr := track.New("a", "https://cdn.example.com/a.mp3")
	tr.ArtworkURL = "https://img.example.com/a.jpg"
	c.AddTracks(tr)
	c.Play()

	require.Eventually(t, func() bool {
		data, ok := c.Artwork().Get("a")
		return ok && len(data) == 2
	}, 2*time.Second, time.Millisecond)
}

func TestController_ArtworkInvalidatedOnRemove(t *testing.T) {
	c, _ := newTestController(t)
	c.AddTracks(queuedTracks("a", "b")...)
	c.Artwork().Put("b", []byte{1})

	c.RemoveTracks("b")
	_, ok := c.Artwork().Get("b")
	assert.False(t, ok)
}

func TestController_TracksReturnsCopy(t *testing.T) {
	c, _ := newTestController(t)
	c.AddTracks(queuedTracks("a", "b")...)

	tracks := c.Tracks()
	tracks[0].ID = "mutated"

	fresh := c.Tracks()
	assert.Equal(t, "a", fresh[0].ID)
}

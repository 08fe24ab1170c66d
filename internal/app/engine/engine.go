package engine

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/hibiki-audio/tonearm/internal/app/renderer"
	"github.com/hibiki-audio/tonearm/internal/domain/track"
	"github.com/hibiki-audio/tonearm/internal/infra/netmon"
)

// Errors
var (
	ErrNoTrack  = errors.New("no track loaded")
	ErrShutdown = errors.New("engine is shut down")
)

const (
	eventBuffer        = 64
	notificationBuffer = 32
)

// RetryPolicy bounds automatic reconnection attempts.
type RetryPolicy struct {
	MaximumRetryCount int
	RetryTimeout      time.Duration
}

// QualityAdjustmentPolicy bounds automatic downgrade of the buffering
// strategy.
type QualityAdjustmentPolicy struct {
	TimeWindow                 time.Duration
	InterruptionCountThreshold int
}

// Config holds engine configuration.
type Config struct {
	Retry                      RetryPolicy
	Quality                    QualityAdjustmentPolicy
	AdjustQualityAutomatically bool
	MaximumConnectionLossTime  time.Duration
	ResumeAfterConnectionLoss  bool
	BufferingStrategy          renderer.BufferingStrategy
	SeekingBehavior            SeekingBehavior
	Volume                     float64
	Rate                       float64
}

// DefaultConfig returns a config with usable defaults.
func DefaultConfig() Config {
	return Config{
		Retry:                      RetryPolicy{MaximumRetryCount: 3, RetryTimeout: time.Second},
		Quality:                    QualityAdjustmentPolicy{TimeWindow: 30 * time.Second, InterruptionCountThreshold: 5},
		AdjustQualityAutomatically: true,
		MaximumConnectionLossTime:  60 * time.Second,
		ResumeAfterConnectionLoss:  true,
		BufferingStrategy:          renderer.StrategyDefault,
		SeekingBehavior:            DefaultSeekingBehavior(),
		Volume:                     1,
		Rate:                       1,
	}
}

// Engine is the playback engine. It owns the renderer instance, the
// current track reference, volume/rate, the buffering strategy and the
// master state. All producer events funnel through one channel consumed
// serially; commands serialize on the engine mutex with that consumer, so
// state transitions never interleave.
type Engine struct {
	mu sync.Mutex

	cfg     Config
	factory renderer.Factory
	monitor netmon.Monitor

	bgTask     BackgroundTaskHandler
	nowPlaying NowPlayingUpdater

	// Current item
	renderer       renderer.Renderer
	rendererDone   chan struct{}
	current        *track.Track
	state          State
	err            error
	intendedState  State // Remembered across a connection loss
	pauseRequested bool
	resumePosition time.Duration
	retryCount     int
	strategy       renderer.BufferingStrategy
	volume         float64
	rate           float64
	seekRateHeld   bool

	// Background task pairing
	bgActive bool

	// Connection loss timer
	lossTimerCancel func()

	// Producers
	networkProducer *NetworkEventProducer
	playerProducer  *PlayerEventProducer
	trackProducer   *TrackEventProducer
	seekProducer    *SeekEventProducer
	retryProducer   *RetryEventProducer
	qualityProducer *QualityAdjustmentEventProducer

	events        chan Event
	notifications chan Notification

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates an engine. The monitor is consulted at play time and watched
// while a session is live; the factory constructs one renderer per track.
func New(cfg Config, factory renderer.Factory, monitor netmon.Monitor) *Engine {
	ctx, cancel := context.WithCancel(context.Background())

	e := &Engine{
		cfg:           cfg,
		factory:       factory,
		monitor:       monitor,
		bgTask:        NoopBackgroundTaskHandler{},
		nowPlaying:    NoopNowPlayingUpdater{},
		state:         StateStopped,
		strategy:      cfg.BufferingStrategy,
		volume:        cfg.Volume,
		rate:          cfg.Rate,
		events:        make(chan Event, eventBuffer),
		notifications: make(chan Notification, notificationBuffer),
		ctx:           ctx,
		cancel:        cancel,
	}
	if e.rate <= 0 {
		e.rate = 1
	}

	e.networkProducer = NewNetworkEventProducer(monitor, e.events)
	e.playerProducer = NewPlayerEventProducer(e.events)
	e.trackProducer = NewTrackEventProducer(e.events)
	e.seekProducer = NewSeekEventProducer(e.events)
	e.retryProducer = NewRetryEventProducer(cfg.Retry.RetryTimeout, e.events)
	e.qualityProducer = NewQualityAdjustmentEventProducer(
		cfg.Quality.TimeWindow, cfg.Quality.InterruptionCountThreshold, e.events)

	go e.run()
	return e
}

// SetBackgroundTaskHandler installs the background-execution contract.
// Must be called before the first Play.
func (e *Engine) SetBackgroundTaskHandler(h BackgroundTaskHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if h != nil {
		e.bgTask = h
	}
}

// SetNowPlayingUpdater installs the now-playing surface.
// Must be called before the first Play.
func (e *Engine) SetNowPlayingUpdater(u NowPlayingUpdater) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if u != nil {
		e.nowPlaying = u
	}
}

// Notifications returns the outbound notification channel.
func (e *Engine) Notifications() <-chan Notification {
	return e.notifications
}

// Done is closed when the engine shuts down.
func (e *Engine) Done() <-chan struct{} {
	return e.ctx.Done()
}

// run consumes producer events serially.
func (e *Engine) run() {
	for {
		select {
		case <-e.ctx.Done():
			return
		case ev := <-e.events:
			e.handleEvent(ev)
		}
	}
}

// Play starts playback of the given track. If the track is already
// current and paused, playback resumes without recreating the renderer;
// playing the current track out of the failed state recreates the
// renderer at the saved position. Otherwise any existing renderer is
// torn down and a new one is created from the start.
func (e *Engine) Play(t track.Track) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.usableLocked(); err != nil {
		return err
	}

	if e.current != nil && e.current.ID == t.ID {
		if e.renderer != nil {
			switch e.state {
			case StatePaused:
				e.resumeLocked()
				return nil
			case StatePlaying, StateBuffering:
				return nil
			}
		} else if e.state == StateFailed {
			e.playLocked(t, e.resumePosition)
			return nil
		}
	}
	e.playLocked(t, 0)
	return nil
}

// playLocked switches the current track and begins loading at the given
// position. Must be called with the lock held.
func (e *Engine) playLocked(t track.Track, at time.Duration) {
	e.cancelRetryLocked()
	e.cancelLossTimerLocked()
	e.seekProducer.Stop()
	e.qualityProducer.Reset()

	if e.renderer != nil {
		e.teardownRendererLocked(false)
	}

	tt := t
	e.current = &tt
	e.err = nil
	e.pauseRequested = false
	e.resumePosition = at
	e.retryCount = 0
	e.strategy = e.cfg.BufferingStrategy
	e.networkProducer.Start()

	if t.Local || e.monitor.Reachable() {
		e.setStateLocked(StateBuffering)
		e.createRendererLocked(at)
		return
	}

	zlog.Info().Msgf("engine: network unreachable, deferring renderer creation: track=%s", t.ID)
	e.intendedState = StatePlaying
	e.setStateLocked(StateWaitingForConnection)
	e.startLossTimerLocked()
}

// Pause pauses playback. While buffering, the pause is remembered and
// applied when the renderer reports ready.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case StatePlaying:
		if e.renderer == nil {
			// Item just finished, nothing to pause
			return
		}
		e.renderer.SetRate(0)
		e.setStateLocked(StatePaused)
	case StateBuffering:
		e.pauseRequested = true
	case StateWaitingForConnection:
		e.intendedState = StatePaused
	default:
		zlog.Debug().Msgf("engine: pause ignored in state %s", e.state)
	}
}

// Resume resumes paused playback without recreating the renderer.
func (e *Engine) Resume() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.usableLocked(); err != nil {
		return err
	}
	if e.current == nil {
		return ErrNoTrack
	}
	if e.state != StatePaused {
		zlog.Debug().Msgf("engine: resume ignored in state %s", e.state)
		return nil
	}
	if e.renderer == nil {
		// Paused across a connection loss, renderer must be rebuilt
		t := *e.current
		e.playLocked(t, e.resumePosition)
		return nil
	}
	e.resumeLocked()
	return nil
}

// usableLocked rejects commands once the engine has shut down.
func (e *Engine) usableLocked() error {
	select {
	case <-e.ctx.Done():
		return ErrShutdown
	default:
		return nil
	}
}

func (e *Engine) resumeLocked() {
	e.renderer.SetRate(e.rate)
	e.setStateLocked(StatePlaying)
}

// Stop stops playback completely. The current track is kept so an
// explicit Play can recover it.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
}

func (e *Engine) stopLocked() {
	e.cancelRetryLocked()
	e.cancelLossTimerLocked()
	e.seekProducer.Stop()
	e.networkProducer.Stop()
	e.qualityProducer.Reset()
	e.pauseRequested = false

	if e.renderer != nil {
		e.teardownRendererLocked(true)
	}
	e.setStateLocked(StateStopped)
}

// Seek moves the playback position. No state transition occurs.
func (e *Engine) Seek(position time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.renderer == nil {
		zlog.Debug().Msg("engine: seek ignored, no renderer")
		return
	}
	e.renderer.SeekTo(position)
	e.resumePosition = position
	e.updateNowPlayingLocked()
}

// BeginSeeking starts a seek gesture in the given direction, applying the
// configured seeking behavior. A gesture already in progress wins; only
// one can be active at a time.
func (e *Engine) BeginSeeking(direction SeekDirection) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.cfg.SeekingBehavior.Mode {
	case SeekModeMultiplyRate:
		if e.renderer == nil || e.state != StatePlaying || e.seekRateHeld {
			return
		}
		factor := e.cfg.SeekingBehavior.RateFactor
		if direction == SeekBackward {
			factor = -factor
		}
		e.renderer.SetRate(e.rate * factor)
		e.seekRateHeld = true
	case SeekModeChangeTimeEvery:
		delta := e.cfg.SeekingBehavior.Delta
		if direction == SeekBackward {
			delta = -delta
		}
		e.seekProducer.Configure(e.cfg.SeekingBehavior.Interval, delta)
		e.seekProducer.Start()
	}
}

// EndSeeking ends the active seek gesture.
func (e *Engine) EndSeeking() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.seekProducer.Stop()
	if e.seekRateHeld {
		e.seekRateHeld = false
		if e.renderer != nil && e.state == StatePlaying {
			e.renderer.SetRate(e.rate)
		}
	}
}

// SetVolume sets the output volume.
func (e *Engine) SetVolume(volume float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.volume = volume
	if e.renderer != nil {
		e.renderer.SetVolume(volume)
	}
}

// SetRate sets the nominal playback rate.
func (e *Engine) SetRate(rate float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if rate <= 0 {
		return
	}
	e.rate = rate
	if e.renderer != nil && e.state == StatePlaying && !e.seekRateHeld {
		e.renderer.SetRate(rate)
	}
	e.updateNowPlayingLocked()
}

// SetBufferingStrategy sets the strategy used for subsequent loads.
func (e *Engine) SetBufferingStrategy(s renderer.BufferingStrategy) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cfg.BufferingStrategy = s
	e.strategy = s
}

// SetSeekingBehavior sets the behavior applied to subsequent seek
// gestures.
func (e *Engine) SetSeekingBehavior(b SeekingBehavior) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg.SeekingBehavior = b
}

// State returns the current playback state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Err returns the error carried by the failed state, nil otherwise.
func (e *Engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// CurrentTrack returns a copy of the current track.
func (e *Engine) CurrentTrack() (track.Track, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.current == nil {
		return track.Track{}, false
	}
	return *e.current, true
}

// Progression returns the current playback position. Without a live
// renderer it reports the position captured before teardown, so a retry
// resumes where playback left off.
func (e *Engine) Progression() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.renderer != nil {
		return e.renderer.Position()
	}
	return e.resumePosition
}

// Duration returns the current track duration, falling back to the
// track's hint when the renderer does not know yet.
func (e *Engine) Duration() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.renderer != nil {
		if d := e.renderer.Duration(); d > 0 {
			return d
		}
	}
	if e.current != nil {
		return e.current.Duration
	}
	return 0
}

// BufferedPosition returns the end of the buffered range.
func (e *Engine) BufferedPosition() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.renderer == nil {
		return 0
	}
	return e.renderer.BufferedPosition()
}

// BufferingStrategy returns the strategy in effect for the current load.
func (e *Engine) BufferingStrategy() renderer.BufferingStrategy {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.strategy
}

// Shutdown stops playback, releases the renderer and the background-task
// handle on all paths, and clears the now-playing surface. The engine is
// unusable afterwards.
func (e *Engine) Shutdown() {
	e.mu.Lock()
	e.stopLocked()
	e.nowPlaying.Clear()
	e.current = nil
	e.mu.Unlock()

	e.cancel()
}

// handleEvent applies one producer event to the state machine.
func (e *Engine) handleEvent(ev Event) {
	e.mu.Lock()
	defer e.mu.Unlock()

	zlog.Debug().Msgf("engine: event=%s state=%s", ev.Type, e.state)

	switch ev.Type {
	case EventRendererReady:
		e.handleRendererReadyLocked()
	case EventRendererRate:
		e.handleRendererRateLocked(ev.Rate)
	case EventRendererError:
		e.failLocked(ev.Err)
	case EventTimeUpdated:
		e.resumePosition = ev.Position
	case EventLoadedRange:
		// Bookkeeping only; queried via BufferedPosition
	case EventInterruption:
		e.handleInterruptionLocked()
	case EventTrackFinished:
		e.handleTrackFinishedLocked()
	case EventNetworkChanged:
		e.handleNetworkChangedLocked(ev.Reachable)
	case EventSeekTick:
		e.handleSeekTickLocked(ev.Delta)
	case EventRetryTick:
		e.handleRetryTickLocked()
	case EventQualityAdjust:
		e.handleQualityAdjustLocked()
	case EventConnectionTimeout:
		e.handleConnectionTimeoutLocked()
	case EventBackgroundExpired:
		zlog.Warn().Msg("engine: background execution window expired, stopping")
		e.stopLocked()
	}
}

func (e *Engine) handleRendererReadyLocked() {
	if e.state != StateBuffering || e.renderer == nil {
		return
	}
	if e.pauseRequested {
		e.pauseRequested = false
		e.setStateLocked(StatePaused)
		return
	}
	e.renderer.SetRate(e.rate)
	e.setStateLocked(StatePlaying)
}

func (e *Engine) handleRendererRateLocked(rate float64) {
	// A renderer that starts advancing on its own resolves buffering
	if rate > 0 && e.state == StateBuffering && !e.pauseRequested {
		e.setStateLocked(StatePlaying)
	}
	e.updateNowPlayingLocked()
}

func (e *Engine) handleInterruptionLocked() {
	switch e.state {
	case StatePlaying:
		e.setStateLocked(StateBuffering)
	case StateBuffering:
	default:
		return
	}
	if e.cfg.AdjustQualityAutomatically {
		e.qualityProducer.RecordInterruption()
	}
}

func (e *Engine) handleTrackFinishedLocked() {
	if e.current == nil {
		return
	}
	// The caller decides whether to advance or stop; the renderer is
	// released here so the decision starts from a clean slate. The final
	// position is captured so the finish can be reported against it.
	if e.renderer != nil {
		e.teardownRendererLocked(true)
	}
	e.notifyLocked(Notification{Type: NotificationTrackFinished})
}

func (e *Engine) handleNetworkChangedLocked(reachable bool) {
	if reachable {
		if e.state != StateWaitingForConnection || e.current == nil {
			return
		}
		zlog.Info().Msgf("engine: network recovered, resuming load: track=%s", e.current.ID)
		e.cancelLossTimerLocked()
		e.pauseRequested = e.intendedState == StatePaused
		e.setStateLocked(StateBuffering)
		e.createRendererLocked(e.resumePosition)
		return
	}

	if e.current == nil || e.current.Local {
		return
	}
	switch e.state {
	case StatePlaying, StateBuffering:
		if !e.cfg.ResumeAfterConnectionLoss {
			zlog.Info().Msg("engine: network lost, resume disabled, stopping")
			e.stopLocked()
			return
		}
		zlog.Info().Msgf("engine: network lost, waiting for connection: track=%s", e.current.ID)
		if e.state == StateBuffering && e.pauseRequested {
			e.intendedState = StatePaused
		} else {
			e.intendedState = StatePlaying
		}
		e.teardownRendererLocked(true)
		e.setStateLocked(StateWaitingForConnection)
		e.startLossTimerLocked()
	}
}

func (e *Engine) handleSeekTickLocked(delta time.Duration) {
	if e.renderer == nil {
		return
	}
	position := e.renderer.Position() + delta
	if position < 0 {
		position = 0
	}
	if d := e.renderer.Duration(); d > 0 && position > d {
		position = d
	}
	e.renderer.SeekTo(position)
	e.resumePosition = position
	e.updateNowPlayingLocked()
}

func (e *Engine) handleRetryTickLocked() {
	if e.state != StateFailed || e.current == nil {
		e.cancelRetryLocked()
		return
	}
	if e.retryCount >= e.cfg.Retry.MaximumRetryCount {
		zlog.Warn().Msgf("engine: retry budget exhausted after %d attempts: track=%s",
			e.retryCount, e.current.ID)
		e.stopLocked()
		return
	}
	e.retryCount++
	zlog.Info().Msgf("engine: retrying playback: attempt=%d track=%s position=%v",
		e.retryCount, e.current.ID, e.resumePosition)
	e.setStateLocked(StateBuffering)
	e.createRendererLocked(e.resumePosition)
}

func (e *Engine) handleQualityAdjustLocked() {
	relaxed := e.strategy.Relaxed()
	if relaxed == e.strategy {
		return
	}
	zlog.Info().Msgf("engine: relaxing buffering strategy: %s -> %s", e.strategy, relaxed)
	e.strategy = relaxed
	if e.state == StateBuffering && e.current != nil {
		// Restart the load with the relaxed strategy; stays buffering
		e.teardownRendererLocked(true)
		e.createRendererLocked(e.resumePosition)
	}
}

func (e *Engine) handleConnectionTimeoutLocked() {
	if e.state != StateWaitingForConnection {
		return
	}
	zlog.Warn().Msg("engine: no reachability within the allowed connection-loss time, stopping")
	e.stopLocked()
}

// createRendererLocked builds a renderer for the current track and starts
// the renderer-bound producers. Must be called with the lock held and the
// state already set to buffering.
func (e *Engine) createRendererLocked(at time.Duration) {
	if e.current == nil {
		return
	}
	r, err := e.factory.New(e.current.Source, e.strategy)
	if err != nil {
		e.failLocked(errors.Wrap(err, "failed to create renderer"))
		return
	}

	e.renderer = r
	r.SetVolume(e.volume)
	if at > 0 {
		r.SeekTo(at)
	}

	done := make(chan struct{})
	e.rendererDone = done
	go e.pump(r, done)

	e.playerProducer.Start()
	e.trackProducer.Start()
	e.qualityProducer.Start()
}

// pump routes renderer observations to the translating producers.
func (e *Engine) pump(r renderer.Renderer, done chan struct{}) {
	for {
		select {
		case <-done:
			return
		case ev, ok := <-r.Events():
			if !ok {
				return
			}
			e.playerProducer.handle(ev)
			e.trackProducer.handle(ev)
		}
	}
}

// teardownRendererLocked discards the renderer, optionally capturing the
// playback position first so a later retry can seek back. The rate is
// forced to zero before the discard.
func (e *Engine) teardownRendererLocked(capturePosition bool) {
	e.playerProducer.Stop()
	e.trackProducer.Stop()
	e.qualityProducer.Stop()

	if e.renderer == nil {
		return
	}
	if capturePosition {
		e.resumePosition = e.renderer.Position()
	}
	e.renderer.SetRate(0)
	close(e.rendererDone)
	e.rendererDone = nil
	e.renderer.Close()
	e.renderer = nil
}

// setStateLocked performs a state transition, maintaining background-task
// pairing and emitting exactly one state-changed notification.
func (e *Engine) setStateLocked(to State) {
	from := e.state
	if from == to {
		return
	}
	e.state = to

	switch to {
	case StateBuffering, StateWaitingForConnection:
		e.acquireBackgroundTaskLocked()
	default:
		e.releaseBackgroundTaskLocked()
	}
	if to == StatePlaying {
		// Sustained playback resets the retry and interruption budgets
		e.retryCount = 0
		e.cancelRetryLocked()
		e.qualityProducer.Reset()
	}
	if to != StateFailed {
		e.err = nil
	}

	zlog.Debug().Msgf("engine: state %s -> %s", from, to)
	e.notifyLocked(Notification{Type: NotificationStateChanged, From: from, To: to})
	e.updateNowPlayingLocked()
}

// failLocked records a terminal renderer error: the state moves to failed,
// one failure notification is emitted, and a retry is scheduled while the
// budget allows.
func (e *Engine) failLocked(err error) {
	zlog.Error().Msgf("engine: playback failed: %v", err)

	if e.renderer != nil {
		e.teardownRendererLocked(true)
	}
	e.err = err
	e.setStateLocked(StateFailed)
	e.notifyLocked(Notification{Type: NotificationFailed, Err: err})

	if e.retryCount < e.cfg.Retry.MaximumRetryCount {
		e.retryProducer.Start()
	}
}

func (e *Engine) cancelRetryLocked() {
	e.retryProducer.Stop()
}

func (e *Engine) acquireBackgroundTaskLocked() {
	if e.bgActive {
		return
	}
	e.bgActive = true
	e.bgTask.Begin(func() {
		emitEvent(e.events, Event{Type: EventBackgroundExpired})
	})
}

func (e *Engine) releaseBackgroundTaskLocked() {
	if !e.bgActive {
		return
	}
	e.bgActive = false
	e.bgTask.End()
}

// startLossTimerLocked arms the connection-loss deadline.
func (e *Engine) startLossTimerLocked() {
	e.cancelLossTimerLocked()
	if e.cfg.MaximumConnectionLossTime <= 0 {
		return
	}

	ctx, cancel := context.WithCancel(e.ctx)
	e.lossTimerCancel = cancel
	go func() {
		timer := time.NewTimer(e.cfg.MaximumConnectionLossTime)
		defer timer.Stop()
		select {
		case <-ctx.Done():
		case <-timer.C:
			emitEvent(e.events, Event{Type: EventConnectionTimeout})
		}
	}()
}

func (e *Engine) cancelLossTimerLocked() {
	if e.lossTimerCancel != nil {
		e.lossTimerCancel()
		e.lossTimerCancel = nil
	}
}

// notifyLocked sends a notification without blocking.
func (e *Engine) notifyLocked(n Notification) {
	select {
	case e.notifications <- n:
	case <-e.ctx.Done():
	default:
		zlog.Warn().Msgf("engine: notification buffer full, dropping %s", n.Type)
	}
}

// updateNowPlayingLocked pushes a refresh to the now-playing surface.
func (e *Engine) updateNowPlayingLocked() {
	if e.current == nil {
		e.nowPlaying.Clear()
		return
	}
	info := NowPlayingInfo{
		TrackID:  e.current.ID,
		Title:    e.current.Title,
		Artist:   e.current.Artist,
		State:    e.state,
		Position: e.resumePosition,
		Duration: e.current.Duration,
		Rate:     e.rate,
	}
	if e.renderer != nil {
		info.Position = e.renderer.Position()
		if d := e.renderer.Duration(); d > 0 {
			info.Duration = d
		}
	}
	e.nowPlaying.Update(info)
}

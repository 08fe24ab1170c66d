package renderer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func simFactory(t *testing.T, cfg SimConfig) *SimFactory {
	t.Helper()
	if cfg.BufferDelay == 0 {
		cfg.BufferDelay = 10 * time.Millisecond
	}
	if cfg.TickInterval == 0 {
		cfg.TickInterval = 5 * time.Millisecond
	}
	if cfg.DefaultDuration == 0 {
		cfg.DefaultDuration = time.Second
	}
	return NewSimFactory(cfg)
}

func waitForEvent(t *testing.T, r Renderer, et EventType) Event {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-r.Events():
			if ev.Type == et {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s", et)
		}
	}
}

func TestSim_EmptySourceFails(t *testing.T) {
	f := simFactory(t, SimConfig{})
	_, err := f.New("", StrategyDefault)
	require.Error(t, err)
}

func TestSim_FailSubstring(t *testing.T) {
	f := simFactory(t, SimConfig{FailSubstring: "broken"})

	_, err := f.New("https://cdn.example.com/broken.mp3", StrategyDefault)
	require.Error(t, err)

	r, err := f.New("https://cdn.example.com/fine.mp3", StrategyDefault)
	require.NoError(t, err)
	r.Close()
}

func TestSim_ReadyThenPlays(t *testing.T) {
	f := simFactory(t, SimConfig{})
	r, err := f.New("https://cdn.example.com/a.mp3", StrategyDefault)
	require.NoError(t, err)
	defer r.Close()

	waitForEvent(t, r, EventReadyToPlay)
	assert.Equal(t, time.Duration(0), r.Position())

	r.SetRate(1)
	waitForEvent(t, r, EventRateChanged)
	ev := waitForEvent(t, r, EventTimeUpdated)
	assert.Greater(t, ev.Position, time.Duration(0))
	assert.Greater(t, r.BufferedPosition(), time.Duration(0))
}

func TestSim_PositionFrozenWhilePaused(t *testing.T) {
	f := simFactory(t, SimConfig{})
	r, err := f.New("https://cdn.example.com/a.mp3", StrategyDefault)
	require.NoError(t, err)
	defer r.Close()

	waitForEvent(t, r, EventReadyToPlay)
	r.SetRate(1)
	waitForEvent(t, r, EventTimeUpdated)

	r.SetRate(0)
	pos := r.Position()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, pos, r.Position())
}

func TestSim_FinishesAtDuration(t *testing.T) {
	f := simFactory(t, SimConfig{DefaultDuration: 30 * time.Millisecond})
	r, err := f.New("https://cdn.example.com/a.mp3", StrategyDefault)
	require.NoError(t, err)
	defer r.Close()

	waitForEvent(t, r, EventReadyToPlay)
	r.SetRate(1)
	waitForEvent(t, r, EventItemFinished)

	assert.Equal(t, r.Duration(), r.Position())
	assert.Equal(t, float64(0), r.Rate())
}

func TestSim_StallsPeriodically(t *testing.T) {
	f := simFactory(t, SimConfig{StallEveryTicks: 3})
	r, err := f.New("https://cdn.example.com/a.mp3", StrategyDefault)
	require.NoError(t, err)
	defer r.Close()

	waitForEvent(t, r, EventReadyToPlay)
	r.SetRate(1)
	waitForEvent(t, r, EventStalled)
}

func TestSim_SeekClampsToBounds(t *testing.T) {
	f := simFactory(t, SimConfig{DefaultDuration: time.Second})
	r, err := f.New("https://cdn.example.com/a.mp3", StrategyDefault)
	require.NoError(t, err)
	defer r.Close()

	r.SeekTo(-time.Second)
	assert.Equal(t, time.Duration(0), r.Position())

	r.SeekTo(time.Hour)
	assert.Equal(t, time.Second, r.Position())

	r.SeekTo(300 * time.Millisecond)
	assert.Equal(t, 300*time.Millisecond, r.Position())
}

func TestSim_CloseIsIdempotent(t *testing.T) {
	f := simFactory(t, SimConfig{})
	r, err := f.New("https://cdn.example.com/a.mp3", StrategyDefault)
	require.NoError(t, err)

	r.Close()
	r.Close()
	// SetRate after close must not panic
	r.SetRate(1)
}

func TestReadyDelay_ScalesWithStrategy(t *testing.T) {
	base := 100 * time.Millisecond
	assert.Equal(t, base, readyDelay(base, StrategyDefault))
	assert.Less(t, readyDelay(base, StrategyPlayWhenBufferNotEmpty), base)
	assert.Greater(t, readyDelay(base, StrategyPlayWhenPreferredBufferFull), base)
}

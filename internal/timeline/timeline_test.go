package timeline

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTimer(t *testing.T, start, end float64, mode LoopMode) *Timer {
	t.Helper()
	timer, err := New(start, end, mode)
	require.NoError(t, err)
	return timer
}

func TestClampTimeKeepsOutsideValuesInRange(t *testing.T) {
	const start, end = 1.0, 3.0
	outside := []float64{-100, -3.5, 0, 0.999, 3.001, 4, 5, 7.25, 42}

	for _, mode := range []LoopMode{Wrap, Reverse} {
		for _, v := range outside {
			got, _ := clampTime(v, start, end, mode)
			assert.GreaterOrEqual(t, got, start, "%s %v", mode, v)
			assert.LessOrEqual(t, got, end, "%s %v", mode, v)
		}
	}
	for _, v := range outside {
		got, rate := clampTime(v, start, end, NoLoop)
		assert.Equal(t, v, got)
		assert.Zero(t, rate)
	}
}

func TestClampTimeSingleCrossing(t *testing.T) {
	tests := []struct {
		name     string
		mode     LoopMode
		in       float64
		want     float64
		wantRate float64
	}{
		{"wrap past end", Wrap, 10.5, 0.5, 0},
		{"wrap before start", Wrap, -0.5, 0, 0},
		{"reverse past end", Reverse, 10.5, 9.5, -1},
		{"reverse before start", Reverse, -0.5, 0.5, 1},
		{"inside untouched", Reverse, 5, 5, 0},
		{"no loop past end", NoLoop, 12, 12, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rate := clampTime(tt.in, 0, 10, tt.mode)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.Equal(t, tt.wantRate, rate)
		})
	}
}

func TestTickStartsPlaybackOnlyWhenAnimationDriven(t *testing.T) {
	timer := Default()
	assert.Equal(t, Ambivalent, timer.State())

	timer.Tick(0.5, false)
	assert.Equal(t, Ambivalent, timer.State())
	assert.InDelta(t, 0.5, timer.T(), 1e-9)

	timer.Tick(0.25, true)
	assert.Equal(t, Playing, timer.State())
	assert.InDelta(t, 0.75, timer.T(), 1e-9)
}

func TestTickIgnoresNonFiniteDelta(t *testing.T) {
	for _, mode := range []LoopMode{NoLoop, Wrap, Reverse} {
		timer := newTimer(t, 0, 1, mode)
		timer.Tick(0.25, true)
		for _, delta := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
			timer.Tick(delta, true)
			assert.InDelta(t, 0.25, timer.T(), 1e-9, "%s %v", mode, delta)
		}
		timer.Tick(0.1, true)
		assert.InDelta(t, 0.35, timer.T(), 1e-9, "%s", mode)
		assert.Equal(t, 1.0, timer.Rate())
	}
}

func TestNoLoopRunsPastEnd(t *testing.T) {
	timer := newTimer(t, 0, 1, NoLoop)
	for range 30 {
		timer.Tick(0.1, true)
	}
	assert.InDelta(t, 3.0, timer.T(), 1e-9)
	assert.Equal(t, Playing, timer.State())
}

func TestWrapLoops(t *testing.T) {
	timer := newTimer(t, 0, 1, Wrap)
	timer.Tick(0.75, true)
	timer.Tick(0.5, true)
	assert.InDelta(t, 0.25, timer.T(), 1e-9)
	assert.Equal(t, 1.0, timer.Rate())
}

func TestReverseOscillates(t *testing.T) {
	const start, end, delta = 0.0, 1.0, 0.15
	timer := newTimer(t, start, end, Reverse)

	// Run forward until the first bounce off the end.
	prev := timer.T()
	for timer.Rate() > 0 {
		timer.Tick(delta, true)
		if timer.Rate() > 0 {
			assert.Greater(t, timer.T(), prev)
		}
		prev = timer.T()
	}

	// Strictly decreasing until the bounce off the start.
	for {
		timer.Tick(delta, true)
		if timer.Rate() > 0 {
			break
		}
		assert.Less(t, timer.T(), prev)
		prev = timer.T()
	}

	// And strictly increasing again.
	prev = timer.T()
	for range 3 {
		timer.Tick(delta, true)
		assert.Greater(t, timer.T(), prev)
		prev = timer.T()
	}
	assert.GreaterOrEqual(t, timer.T(), start)
	assert.LessOrEqual(t, timer.T(), end)
}

func TestStop(t *testing.T) {
	for _, setup := range []func(*Timer){
		func(*Timer) {},
		func(tm *Timer) { tm.PlayPause() },
		func(tm *Timer) { tm.Tick(1.9, true) },
		func(tm *Timer) { tm.Tick(2.5, true); tm.PlayPause() },
	} {
		timer := newTimer(t, 0.5, 2, Reverse)
		setup(timer)
		timer.Stop()
		assert.Equal(t, 0.5, timer.T())
		assert.Equal(t, Paused, timer.State())
		assert.Equal(t, 1.0, timer.Rate())
	}
}

func TestPlayPause(t *testing.T) {
	timer := Default()
	timer.PlayPause()
	assert.Equal(t, Playing, timer.State())
	timer.PlayPause()
	assert.Equal(t, Paused, timer.State())
	timer.PlayPause()
	assert.Equal(t, Playing, timer.State())

	timer.Stop()
	timer.Tick(0.1, true)
	assert.Equal(t, Paused, timer.State(), "ambivalent is never re-entered")
}

func TestUpdateLoopReclampsAndResetsRate(t *testing.T) {
	timer := newTimer(t, 0, 10, Reverse)
	timer.Tick(10.5, true)
	assert.Equal(t, -1.0, timer.Rate())

	// Shrinking the loop under the current time bounces it again.
	require.NoError(t, timer.UpdateLoop(0, 9, Reverse))
	assert.InDelta(t, 8.5, timer.T(), 1e-9)
	assert.Equal(t, -1.0, timer.Rate())

	require.NoError(t, timer.UpdateLoop(0, 9, Wrap))
	assert.Equal(t, 1.0, timer.Rate())

	require.NoError(t, timer.UpdateLoop(0, 4, Wrap))
	assert.InDelta(t, 0.5, timer.T(), 1e-9)
}

func TestConfigErrors(t *testing.T) {
	_, err := ParseLoopMode("bounce")
	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "bounce", cfgErr.Value)

	mode, err := ParseLoopMode("reverse")
	require.NoError(t, err)
	assert.Equal(t, Reverse, mode)

	_, err = New(0, 1, LoopMode("ping-pong"))
	assert.True(t, errors.As(err, &cfgErr))

	timer := Default()
	err = timer.UpdateLoop(2, 1, Wrap)
	assert.True(t, errors.As(err, &cfgErr))
	start, end, loopMode := timer.Loop()
	assert.Equal(t, float64(DefaultLoopStart), start)
	assert.Equal(t, float64(DefaultLoopEnd), end)
	assert.Equal(t, NoLoop, loopMode)
}

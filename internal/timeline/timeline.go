// Package timeline owns the preview clock: the current time, the playback
// state and the loop boundaries it is clamped against.
package timeline

import (
	"fmt"
	"math"
)

type State int

const (
	// Ambivalent is the initial state: nothing has started or stopped
	// playback yet. It is never re-entered.
	Ambivalent State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Ambivalent:
		return "ambivalent"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

type LoopMode string

const (
	NoLoop  LoopMode = "no-loop"
	Wrap    LoopMode = "wrap"
	Reverse LoopMode = "reverse"
)

func (m LoopMode) Valid() bool {
	switch m {
	case NoLoop, Wrap, Reverse:
		return true
	}
	return false
}

func ParseLoopMode(s string) (LoopMode, error) {
	m := LoopMode(s)
	if !m.Valid() {
		return "", &ConfigError{Field: "loop mode", Value: s}
	}
	return m, nil
}

// ConfigError reports a loop configuration rejected at the API boundary.
type ConfigError struct {
	Field string
	Value string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}

const (
	DefaultLoopStart = 0
	DefaultLoopEnd   = 2 * math.Pi
)

type Timer struct {
	t     float64
	state State
	// rate is the direction time advances in; only Reverse loops ever
	// make it negative.
	rate float64

	loopStart float64
	loopEnd   float64
	loopMode  LoopMode
}

func New(loopStart, loopEnd float64, mode LoopMode) (*Timer, error) {
	timer := &Timer{state: Ambivalent, rate: 1}
	if err := timer.UpdateLoop(loopStart, loopEnd, mode); err != nil {
		return nil, err
	}
	return timer, nil
}

// Default returns a timer looping over one full turn with NoLoop.
func Default() *Timer {
	return &Timer{
		state:     Ambivalent,
		rate:      1,
		loopStart: DefaultLoopStart,
		loopEnd:   DefaultLoopEnd,
		loopMode:  NoLoop,
	}
}

func (t *Timer) T() float64 {
	return t.t
}

func (t *Timer) State() State {
	return t.state
}

func (t *Timer) Rate() float64 {
	return t.rate
}

func (t *Timer) Loop() (start, end float64, mode LoopMode) {
	return t.loopStart, t.loopEnd, t.loopMode
}

// Tick advances time by delta seconds. The first animation-driven tick moves
// an Ambivalent timer to Playing; manual scrubs leave the state alone. A
// non-finite delta is ignored.
func (t *Timer) Tick(delta float64, isAnimationDriven bool) {
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return
	}
	if isAnimationDriven && t.state == Ambivalent {
		t.state = Playing
	}
	next, rate := clampTime(t.t+t.rate*delta, t.loopStart, t.loopEnd, t.loopMode)
	if rate != 0 {
		t.rate = rate
	}
	t.t = next
}

// PlayPause toggles between Playing and Paused. An Ambivalent timer starts
// playing.
func (t *Timer) PlayPause() {
	if t.state == Playing {
		t.state = Paused
	} else {
		t.state = Playing
	}
}

func (t *Timer) Stop() {
	t.t = t.loopStart
	t.state = Paused
	t.rate = 1
}

// UpdateLoop installs new loop boundaries and re-clamps the current time
// against them, which may itself flip the direction under Reverse.
func (t *Timer) UpdateLoop(loopStart, loopEnd float64, mode LoopMode) error {
	if !mode.Valid() {
		return &ConfigError{Field: "loop mode", Value: string(mode)}
	}
	if loopEnd < loopStart {
		return &ConfigError{Field: "loop range", Value: fmt.Sprintf("[%g, %g]", loopStart, loopEnd)}
	}

	t.loopStart, t.loopEnd, t.loopMode = loopStart, loopEnd, mode
	if mode != Reverse {
		t.rate = 1
	}
	next, rate := clampTime(t.t, loopStart, loopEnd, mode)
	if rate != 0 {
		t.rate = rate
	}
	t.t = next
	return nil
}

// clampTime applies the loop policy to t. The returned rate is 0 when the
// direction is unchanged. Overshoots longer than the loop fold back into
// range instead of escaping it.
func clampTime(t, loopStart, loopEnd float64, mode LoopMode) (float64, float64) {
	span := loopEnd - loopStart
	var rate float64

	if t > loopEnd {
		switch mode {
		case Wrap:
			switch over := t - loopEnd; {
			case span <= 0:
				t = loopStart
			case over <= span:
				t = loopStart + over
			default:
				t = loopStart + math.Mod(over, span)
			}
		case Reverse:
			t, rate = reflect(t-loopEnd, span, loopEnd, -1)
		}
	} else if t < loopStart {
		switch mode {
		case Wrap:
			t = loopStart
		case Reverse:
			t, rate = reflect(loopStart-t, span, loopStart, 1)
		}
	}
	return t, rate
}

// reflect bounces an overshoot of over past the boundary at edge back into
// the loop. dir is the direction pointing into the loop from edge.
func reflect(over, span, edge, dir float64) (float64, float64) {
	if span <= 0 {
		return edge, dir
	}
	folded := math.Mod(over, 2*span)
	if folded <= span {
		return edge + dir*folded, dir
	}
	return edge + dir*(2*span-folded), -dir
}

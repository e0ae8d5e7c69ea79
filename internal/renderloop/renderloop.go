// Package renderloop coalesces redraw requests into at most one callback per
// display refresh.
package renderloop

import (
	"time"
)

// Refresher runs fn once, at the next display refresh, passing a monotonic
// timestamp. It is the only scheduling primitive the loop needs.
type Refresher interface {
	RequestFrame(fn func(now time.Duration))
}

// Loop is not safe for concurrent use; Schedule and the frame callback run on
// the render thread.
type Loop struct {
	refresher Refresher
	frame     func(elapsed float64)

	scheduled bool
	then      time.Duration
	hasThen   bool
}

// New returns a loop that calls frame with the seconds elapsed since the
// previous frame, or 0 when the previous refresh did not draw.
func New(refresher Refresher, frame func(elapsed float64)) *Loop {
	return &Loop{refresher: refresher, frame: frame}
}

// Schedule requests a frame. Calls made while a frame is pending are no-ops.
func (l *Loop) Schedule() {
	if l.scheduled {
		return
	}
	l.scheduled = true
	l.refresher.RequestFrame(l.run)
}

func (l *Loop) Pending() bool {
	return l.scheduled
}

func (l *Loop) run(now time.Duration) {
	l.scheduled = false
	var elapsed float64
	if l.hasThen {
		elapsed = (now - l.then).Seconds()
	}

	l.frame(elapsed)

	// Keep the anchor only for back-to-back frames so an idle gap never
	// shows up as one huge step.
	if l.scheduled {
		l.then = now
		l.hasThen = true
	} else {
		l.hasThen = false
	}
}

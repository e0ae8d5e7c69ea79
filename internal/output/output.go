// Package output is the user-facing text channel: shader diagnostics and
// compile timings, as opposed to the diagnostic log.
package output

import (
	"fmt"
	"io"
	"sync"

	"github.com/muesli/termenv"
)

// Target receives every printed line in addition to the console.
type Target func(text string, isErr bool)

type Channel struct {
	mu     sync.Mutex
	stdout *termenv.Output
	stderr *termenv.Output
	target Target
}

func New(stdout, stderr io.Writer) *Channel {
	return &Channel{
		stdout: termenv.NewOutput(stdout),
		stderr: termenv.NewOutput(stderr),
	}
}

func (c *Channel) SetTarget(target Target) {
	c.mu.Lock()
	c.target = target
	c.mu.Unlock()
}

func (c *Channel) Print(text string, isErr bool) {
	c.mu.Lock()
	if isErr {
		styled := c.stderr.String(text).Foreground(c.stderr.Color("1"))
		fmt.Fprintln(c.stderr, styled)
	} else {
		fmt.Fprintln(c.stdout, text)
	}
	target := c.target
	c.mu.Unlock()

	if target != nil {
		target(text, isErr)
	}
}

func (c *Channel) Printf(format string, args ...any) {
	c.Print(fmt.Sprintf(format, args...), false)
}

func (c *Channel) Error(err error) {
	c.Print(err.Error(), true)
}

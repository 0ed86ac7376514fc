// Package heartbeat prints an alternating spinner character to the
// terminal so the user can see the poll loop is alive.
package heartbeat

import (
	"fmt"
	"io"
)

var chars = [...]string{"-", "\\", "|", "/"}

type Heartbeat struct {
	w io.Writer
	// next glyph to print
	current int
	// whether a glyph is on screen and must be erased before the next print
	flushOutput bool
}

func New(w io.Writer) *Heartbeat {
	return &Heartbeat{w: w}
}

// PrintOutput erases the previous glyph and prints the next one.
func (h *Heartbeat) PrintOutput() {
	h.Erase()
	fmt.Fprint(h.w, chars[h.current])
	h.current = (h.current + 1) % len(chars)
}

// Erase backspaces over the previous glyph. The very first call after
// construction or DontFlush only arms the flag: there is nothing to erase
// yet, or a console line has already overwritten the glyph.
func (h *Heartbeat) Erase() {
	if h.flushOutput {
		fmt.Fprint(h.w, "\b")
	} else {
		h.flushOutput = true
	}
}

// DontFlush marks the glyph as already gone, so the next print does not
// eat a character belonging to an interleaved console line.
func (h *Heartbeat) DontFlush() {
	h.flushOutput = false
}

// CleanUp backspaces three times to leave the cursor clean on shutdown.
func (h *Heartbeat) CleanUp() {
	for i := 0; i < 3; i++ {
		fmt.Fprint(h.w, "\b")
	}
	h.flushOutput = false
}

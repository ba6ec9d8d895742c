package tui

import (
	"io"
	"sync"
)

// Output is the program's terminal writer. Frames from the renderer and
// escape sequences written by commands go through one lock, so a command
// never lands in the middle of a frame.
type Output struct {
	mu sync.Mutex
	w  io.Writer
}

// NewOutput wraps w, usually os.Stdout
func NewOutput(w io.Writer) *Output {
	return &Output{w: w}
}

// Write writes p in one locked call
func (o *Output) Write(p []byte) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.w.Write(p)
}

// Read reads from the underlying terminal when it is readable
func (o *Output) Read(p []byte) (int, error) {
	if r, ok := o.w.(io.Reader); ok {
		return r.Read(p)
	}
	return 0, io.EOF
}

// Close leaves the terminal open
func (o *Output) Close() error { return nil }

// Fd exposes the terminal's descriptor so the program can size the window
// and set raw mode
func (o *Output) Fd() uintptr {
	if f, ok := o.w.(interface{ Fd() uintptr }); ok {
		return f.Fd()
	}
	return ^uintptr(0)
}

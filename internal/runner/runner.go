// Package runner spawns a single subprocess and settles it into an Outcome:
// captured output, exit status, and the flags describing why it stopped.
package runner

import (
	"bytes"
	"sync"
	"time"
)

// Spec describes one subprocess invocation.
type Spec struct {
	Path string   // executable to run (resolved via PATH when not absolute)
	Args []string // arguments, not including the executable name
	Dir  string   // working directory; empty means inherit

	// Stdin is fed to the child and the stream is closed afterwards.
	// When empty the child reads EOF immediately.
	Stdin string

	// Timeout is the wall-clock limit from spawn to exit. <= 0 disables it.
	Timeout time.Duration

	// OutputLimit is the byte allowance shared by stdout and stderr
	// combined. <= 0 disables it.
	OutputLimit int
}

// Outcome is the settled state of one invocation. Exactly one Outcome is
// produced per Run call, on every path.
type Outcome struct {
	// ExitCode is the process exit status, or -1 if the process was
	// terminated by a signal or never started.
	ExitCode int

	// Signal is the name of the terminating signal ("SIGKILL", "SIGSEGV",
	// ...) when the process died from one, empty otherwise.
	Signal string

	Stdout string
	Stderr string

	// Duration is wall-clock time from the spawn attempt to settlement.
	Duration time.Duration

	// TimedOut is set when the wall-clock limit initiated the kill.
	TimedOut bool

	// Truncated is set when the output allowance was exceeded; captured
	// output is cut to the allowance.
	Truncated bool

	// SpawnError is non-nil only when the process never started. No other
	// field except Duration is meaningful then.
	SpawnError error
}

// budget is the byte allowance shared by both stream writers. kill is invoked
// by whichever limit trips first; killing an already-dead process group is
// harmless.
type budget struct {
	mu        sync.Mutex
	remaining int
	unlimited bool
	exhausted bool
	truncated bool
	timedOut  bool
	kill      func()
}

// markTimeout records a timer-initiated kill. A timer that fires after
// truncation already stopped the process does not flip the flag: the
// truncation is what ended the run.
func (b *budget) markTimeout() {
	b.mu.Lock()
	if !b.truncated {
		b.timedOut = true
	}
	b.mu.Unlock()
	b.kill()
}

func (b *budget) flags() (timedOut, truncated bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.timedOut, b.truncated
}

// cappedWriter buffers one stream while charging the shared budget. The
// first chunk that would exceed the allowance is cut to what remains; every
// later chunk is swallowed whole so the pipes stay drained until the kill
// lands. Write never reports an error to the copier.
type cappedWriter struct {
	b   *budget
	buf bytes.Buffer
}

func (w *cappedWriter) Write(p []byte) (int, error) {
	w.b.mu.Lock()

	if w.b.unlimited {
		w.buf.Write(p)
		w.b.mu.Unlock()
		return len(p), nil
	}
	if w.b.exhausted {
		w.b.mu.Unlock()
		return len(p), nil
	}
	if len(p) <= w.b.remaining {
		w.b.remaining -= len(p)
		w.buf.Write(p)
		w.b.mu.Unlock()
		return len(p), nil
	}

	w.buf.Write(p[:w.b.remaining])
	w.b.remaining = 0
	w.b.exhausted = true
	w.b.truncated = true
	w.b.mu.Unlock()

	w.b.kill()
	return len(p), nil
}

func (w *cappedWriter) String() string { return w.buf.String() }

//go:build !windows
// +build !windows

package runner

import (
	"context"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// drainGrace is how long Wait may keep draining the stream pipes once the
// direct child has been reaped.
const drainGrace = time.Second

// Run spawns the process described by spec and blocks until it has settled.
// Failures are reported through the Outcome, never as a panic or a partial
// result; no goroutine started here outlives the call.
func Run(ctx context.Context, spec Spec) Outcome {
	cmd := exec.Command(spec.Path, spec.Args...)
	cmd.Dir = spec.Dir
	// New process group so the kill reaches children too
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	// A descendant that leaves the group (setsid) survives the kill and can
	// hold the pipe write ends open; drainGrace stops Wait from blocking on
	// it once the direct child is gone.
	cmd.WaitDelay = drainGrace

	if spec.Stdin != "" {
		cmd.Stdin = strings.NewReader(spec.Stdin)
	}

	b := &budget{
		remaining: spec.OutputLimit,
		unlimited: spec.OutputLimit <= 0,
	}
	// The kill closure must exist before Start: the stream copiers can charge
	// the budget as soon as the child is running. Process is nil only until
	// Start succeeds, and no caller of kill exists before that.
	b.kill = func() {
		if p := cmd.Process; p != nil {
			// Negative pid addresses the whole group
			_ = unix.Kill(-p.Pid, unix.SIGKILL)
		}
	}
	stdout := &cappedWriter{b: b}
	stderr := &cappedWriter{b: b}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return Outcome{
			ExitCode:   -1,
			Duration:   time.Since(start),
			SpawnError: err,
		}
	}

	var timer *time.Timer
	if spec.Timeout > 0 {
		timer = time.AfterFunc(spec.Timeout, b.markTimeout)
		defer timer.Stop()
	}

	// Kill the group if the caller gives up before the process does.
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			b.kill()
		case <-done:
		}
	}()

	// Wait's error is not decoded: an *exec.ExitError is redundant with
	// ProcessState, and ErrWaitDelay only means the drain was cut short
	// after the child had already been reaped.
	_ = cmd.Wait()
	close(done)

	out := Outcome{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}
	out.TimedOut, out.Truncated = b.flags()

	out.ExitCode = -1
	if ps := cmd.ProcessState; ps != nil {
		out.ExitCode = ps.ExitCode()
		if ws, ok := ps.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			out.Signal = unix.SignalName(ws.Signal())
		}
	}

	return out
}

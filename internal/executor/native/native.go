// Package native compiles and runs submitted C programs with the host
// toolchain. Each invocation gets a private workspace and two sequential
// bounded phases, compile then run; every failure mode settles into the
// RunResult failure variant rather than escaping as an error.
package native

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rs/xid"

	"github.com/mkhalal/c-playground/internal/config"
	"github.com/mkhalal/c-playground/internal/executor"
	"github.com/mkhalal/c-playground/internal/runner"
	"github.com/mkhalal/c-playground/internal/workspace"
)

// Executor implements the executor.Executor interface with the host C
// toolchain. It holds no per-invocation state and is safe for concurrent use.
type Executor struct {
	cfg    config.Config
	logger *slog.Logger
}

var _ executor.Executor = (*Executor)(nil)

// New creates an Executor bound to the given limits.
func New(cfg config.Config, logger *slog.Logger) *Executor {
	return &Executor{cfg: cfg, logger: logger}
}

// Compilers returns the toolchain candidates in the order Execute tries
// them. The health endpoint uses it to report availability.
func (e *Executor) Compilers() []string {
	return candidateCompilers(e.cfg.Compiler)
}

// Execute compiles and runs the submitted program. The returned error is
// always nil: platform problems (missing toolchain, workspace failures) are
// reported through the RunResult like every other failure, so callers have a
// single outcome path.
func (e *Executor) Execute(ctx context.Context, req executor.Request) (*executor.RunResult, error) {
	start := time.Now()
	log := e.logger.With(slog.String("invocation", xid.New().String()))

	ws, err := workspace.New(req.Code)
	if err != nil {
		log.Error("workspace setup failed", slog.String("error", err.Error()))
		return executor.Failure(executor.ErrorPlatform, "could not prepare a build workspace"), nil
	}
	// The workspace must disappear on every path out of this function
	defer func() {
		if err := ws.Remove(); err != nil {
			log.Error("workspace cleanup failed",
				slog.String("dir", ws.Dir()),
				slog.String("error", err.Error()))
		}
	}()

	comp := e.compile(ctx, log, ws)
	if comp.failed != nil {
		log.Info("compilation rejected",
			slog.String("errorType", string(comp.failed.ErrorType)),
			slog.Duration("elapsed", time.Since(start)))
		return comp.failed, nil
	}

	run := runner.Run(ctx, runner.Spec{
		Path:        ws.BinaryPath(),
		Dir:         ws.Dir(),
		Stdin:       req.Input,
		Timeout:     e.cfg.RunTimeout,
		OutputLimit: e.cfg.MaxOutputBytes,
	})

	res := e.classifyRun(run, req.Input != "", comp.duration)
	if res.Success {
		log.Info("execution finished",
			slog.String("compiler", comp.compiler),
			slog.Duration("compile", comp.duration),
			slog.Duration("run", run.Duration))
	} else {
		log.Info("execution failed",
			slog.String("compiler", comp.compiler),
			slog.String("errorType", string(res.ErrorType)),
			slog.Duration("run", run.Duration))
	}
	return res, nil
}

// formatSeconds renders a duration the way callers display it, seconds with
// two decimals.
func formatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.2fs", d.Seconds())
}

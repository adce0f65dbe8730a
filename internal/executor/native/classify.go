package native

import (
	"fmt"
	"strings"
	"time"

	"github.com/mkhalal/c-playground/internal/executor"
	"github.com/mkhalal/c-playground/internal/runner"
)

// classifyRun maps the run-phase outcome onto the public result. First match
// wins: spawn failure, timeout, truncation, abnormal exit, then success.
func (e *Executor) classifyRun(out runner.Outcome, hasInput bool, compileTime time.Duration) *executor.RunResult {
	switch {
	case out.SpawnError != nil:
		return executor.Failure(executor.ErrorPlatform, "the compiled program could not be started")

	case out.TimedOut:
		res := executor.Failure(executor.ErrorRunTimeout,
			fmt.Sprintf("the program did not finish within %s", formatSeconds(e.cfg.RunTimeout)))
		res.Details = joinDiagnostics(out.Stderr, out.Stdout)
		return res

	case out.Truncated:
		res := executor.Failure(executor.ErrorOutputLimit,
			fmt.Sprintf("the program produced more than %d bytes of output", e.cfg.MaxOutputBytes))
		res.Details = joinDiagnostics(out.Stderr, out.Stdout)
		if out.ExitCode >= 0 {
			res.ExitCode = intPtr(out.ExitCode)
		}
		return res

	case out.ExitCode != 0 || out.Signal != "":
		res := executor.Failure(executor.ErrorRuntime, runtimeSummary(out))
		res.Details = joinDiagnostics(out.Stderr, out.Stdout)
		if out.ExitCode >= 0 {
			res.ExitCode = intPtr(out.ExitCode)
		}
		return res

	default:
		return &executor.RunResult{
			Success: true,
			Data: &executor.RunData{
				Output:      out.Stdout,
				CompileTime: formatSeconds(compileTime),
				RunTime:     formatSeconds(out.Duration),
				TotalTime:   formatSeconds(compileTime + out.Duration),
				HasInput:    hasInput,
				ExitCode:    0,
			},
		}
	}
}

// runtimeSummary turns a signal name and the lower-cased diagnostics into a
// human cause. The marker order mirrors how often students hit each one.
func runtimeSummary(out runner.Outcome) string {
	text := strings.ToLower(joinDiagnostics(out.Stderr, out.Stdout))

	switch {
	case out.Signal == "SIGSEGV" || strings.Contains(text, "segmentation fault"):
		return "segmentation fault: the program accessed memory it does not own"
	case out.Signal == "SIGABRT" || strings.Contains(text, "abort"):
		return "abnormal termination: the program aborted or failed an assertion"
	case out.Signal == "SIGFPE" || strings.Contains(text, "floating point exception"):
		return "floating point exception: check for division by zero or invalid numeric operations"
	case out.Signal != "":
		return fmt.Sprintf("the program was terminated by signal %s", out.Signal)
	default:
		return fmt.Sprintf("the program exited with status %d, check your logic and array bounds", out.ExitCode)
	}
}

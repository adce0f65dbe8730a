package native

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mkhalal/c-playground/internal/executor"
	"github.com/mkhalal/c-playground/internal/runner"
	"github.com/mkhalal/c-playground/internal/workspace"
)

// defaultCandidates are the toolchains tried, in order, when no override is
// configured.
var defaultCandidates = []string{"gcc", "clang"}

// compileFlags: the language standard is pinned, optimizations stay off so
// diagnostics map cleanly to source lines, warnings on.
var compileFlags = []string{"-std=c11", "-O0", "-Wall"}

// diagRe matches one compiler error line, e.g.
//
//	main.c:3:5: error: expected ';' before 'return'
//	main.c:1:10: fatal error: missing.h: No such file or directory
//
// Warnings deliberately do not match.
var diagRe = regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(workspace.SourceFile) + `:(\d+):(\d+):\s+(?:fatal\s+)?error:\s+(.*)$`)

// compileOutcome is what the compile stage hands to the run stage: either a
// settled failure result, or the compiler that succeeded and how long it took.
type compileOutcome struct {
	failed   *executor.RunResult
	compiler string
	duration time.Duration
}

// compile tries each candidate compiler until one spawns, then classifies its
// outcome. It only ever settles the invocation on failure; on success the
// binary sits at ws.BinaryPath() ready to run.
func (e *Executor) compile(ctx context.Context, log *slog.Logger, ws *workspace.Workspace) compileOutcome {
	candidates := candidateCompilers(e.cfg.Compiler)
	args := append(append([]string{}, compileFlags...), "-o", workspace.BinaryFile, workspace.SourceFile)

	var out runner.Outcome
	chosen := ""
	for _, name := range candidates {
		out = runner.Run(ctx, runner.Spec{
			Path:        name,
			Args:        args,
			Dir:         ws.Dir(),
			Timeout:     e.cfg.CompileTimeout,
			OutputLimit: e.cfg.MaxOutputBytes,
		})
		if out.SpawnError == nil {
			chosen = name
			break
		}
		if errors.Is(out.SpawnError, exec.ErrNotFound) {
			log.Debug("compiler not installed", slog.String("compiler", name))
			continue
		}
		// Present but unable to start: nothing a later candidate would fix
		log.Error("compiler failed to start",
			slog.String("compiler", name),
			slog.String("error", out.SpawnError.Error()))
		return compileOutcome{failed: executor.Failure(executor.ErrorPlatform,
			fmt.Sprintf("the compiler %s could not be started", name))}
	}

	if chosen == "" {
		log.Error("no usable toolchain", slog.String("tried", strings.Join(candidates, ", ")))
		return compileOutcome{failed: executor.Failure(executor.ErrorPlatform,
			fmt.Sprintf("no usable C compiler found (tried %s)", strings.Join(candidates, ", ")))}
	}

	if out.TimedOut {
		res := executor.Failure(executor.ErrorCompileTimeout,
			fmt.Sprintf("compilation did not finish within %s", formatSeconds(e.cfg.CompileTimeout)))
		res.Details = joinDiagnostics(out.Stderr, out.Stdout)
		return compileOutcome{failed: res}
	}

	if out.ExitCode != 0 {
		lines, first := parseDiagnostics(out.Stderr)
		msg := "compilation failed"
		if first != "" {
			msg = first
		}
		res := executor.Failure(executor.ErrorCompile, msg)
		res.ErrorLines = lines
		res.FirstError = first
		res.Details = joinDiagnostics(out.Stderr, out.Stdout)
		if out.ExitCode >= 0 {
			res.ExitCode = intPtr(out.ExitCode)
		}
		return compileOutcome{failed: res}
	}

	return compileOutcome{compiler: chosen, duration: out.Duration}
}

// candidateCompilers places the operator override, when set, ahead of the
// defaults and drops duplicates while preserving order.
func candidateCompilers(override string) []string {
	names := make([]string, 0, len(defaultCandidates)+1)
	if override != "" {
		names = append(names, override)
	}
	names = append(names, defaultCandidates...)

	seen := make(map[string]struct{}, len(names))
	unique := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		unique = append(unique, n)
	}
	return unique
}

// parseDiagnostics extracts the error line numbers, deduplicated and sorted
// ascending, and the first error message from compiler output.
func parseDiagnostics(diagnostics string) ([]int, string) {
	matches := diagRe.FindAllStringSubmatch(diagnostics, -1)
	if len(matches) == 0 {
		return nil, ""
	}

	first := strings.TrimSpace(matches[0][3])
	seen := make(map[int]struct{}, len(matches))
	lines := make([]int, 0, len(matches))
	for _, m := range matches {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		lines = append(lines, n)
	}
	sort.Ints(lines)
	return lines, first
}

// joinDiagnostics builds the raw details text: stderr first, then stdout,
// both trimmed, separated by one blank line when both are present.
func joinDiagnostics(stderr, stdout string) string {
	se := strings.TrimSpace(stderr)
	so := strings.TrimSpace(stdout)
	switch {
	case se == "":
		return so
	case so == "":
		return se
	default:
		return se + "\n\n" + so
	}
}

func intPtr(n int) *int { return &n }

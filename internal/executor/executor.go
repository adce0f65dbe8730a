package executor

import (
	"context"
)

// Request represents a request to compile and run a C program.
type Request struct {
	Code  string `json:"code"`
	Input string `json:"input,omitempty"`
}

// ErrorType identifies what went wrong with an execution. The values are
// stable machine-readable identifiers; human wording lives in Message.
type ErrorType string

const (
	ErrorPlatform       ErrorType = "platform_error"
	ErrorCompileTimeout ErrorType = "compile_timeout"
	ErrorCompile        ErrorType = "compile_error"
	ErrorRunTimeout     ErrorType = "run_timeout"
	ErrorOutputLimit    ErrorType = "output_limit_exceeded"
	ErrorRuntime        ErrorType = "runtime_error"
)

// RunData is the payload of a successful execution.
type RunData struct {
	Output      string `json:"output"`
	CompileTime string `json:"compileTime"`
	RunTime     string `json:"runTime"`
	TotalTime   string `json:"totalTime"`
	HasInput    bool   `json:"hasInput"`
	ExitCode    int    `json:"exitCode"`
}

// RunResult is the single envelope every execution resolves to, success or
// not. Success and the error fields are mutually exclusive: when Success is
// true only Data is set; otherwise ErrorType and Message are always present
// and the remaining fields are filled in where they apply.
type RunResult struct {
	Success bool     `json:"success"`
	Data    *RunData `json:"data,omitempty"`

	ErrorType ErrorType `json:"errorType,omitempty"`
	Message   string    `json:"message,omitempty"`

	// ErrorLines lists source lines with compiler errors, ascending and
	// deduplicated. Compile failures only.
	ErrorLines []int  `json:"errorLines,omitempty"`
	FirstError string `json:"firstError,omitempty"`

	// Details carries the raw diagnostics: trimmed stderr, then trimmed
	// stdout, joined by a blank line when both are present.
	Details string `json:"details,omitempty"`

	// ExitCode is set when the process ran far enough to produce one.
	ExitCode *int `json:"exitCode,omitempty"`
}

// Executor is the core interface for turning submitted source code into a
// settled RunResult. Implementations must be safe for concurrent use.
type Executor interface {
	Execute(ctx context.Context, req Request) (*RunResult, error)
}

// Failure builds the failure variant of a RunResult.
func Failure(et ErrorType, message string) *RunResult {
	return &RunResult{ErrorType: et, Message: message}
}

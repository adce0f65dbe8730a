// Package review defines the contract for the assessment component that
// turns a completed run into pedagogical feedback. Implementations live
// outside this service; the execution core's RunResult is passed through to
// them unmodified.
package review

import (
	"context"

	"github.com/mkhalal/c-playground/internal/executor"
)

// Mode selects what kind of feedback the engine should produce.
type Mode string

const (
	ModeSyntax Mode = "syntax"
	ModeStyle  Mode = "style"
	ModeLogic  Mode = "logic"
)

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeSyntax, ModeStyle, ModeLogic:
		return true
	}
	return false
}

// Request is everything the engine needs to assess one submission.
type Request struct {
	Code   string              `json:"code"`
	Mode   Mode                `json:"mode"`
	Result *executor.RunResult `json:"runResult"`
}

// Review is the structured feedback for one submission.
type Review struct {
	Status      string   `json:"status"`
	Summary     string   `json:"summary"`
	Details     []string `json:"details"`
	Suggestions []string `json:"suggestions"`
	Questions   []string `json:"questions"`
}

// Response bundles the feedback with the knowledge-point candidates the
// engine judged weak, for the profile sync downstream.
type Response struct {
	Review         Review   `json:"review"`
	WeakCandidates []string `json:"weakCandidates"`
}

// Engine assesses submissions. Implementations must honor ctx cancellation.
type Engine interface {
	Review(ctx context.Context, req Request) (*Response, error)
}

// Package profile defines the contract for the learner-mastery
// synchronization component. A sync settles into a partial-failure report
// rather than an error: callers log what could not be applied and move on.
package profile

import (
	"context"

	"github.com/mkhalal/c-playground/internal/executor"
)

// SyncRequest carries one review outcome into a learner's mastery record.
type SyncRequest struct {
	UserID        string              `json:"userId"`
	Mode          string              `json:"mode"`
	RoundID       string              `json:"roundId,omitempty"`
	ReviewSummary string              `json:"reviewSummary"`
	Result        *executor.RunResult `json:"runResult"`
	Candidates    []string            `json:"candidates"`
}

// SyncReport tallies what happened to each candidate. Errors lists the
// candidates that could not be applied; their presence does not make the
// sync itself a failure.
type SyncReport struct {
	Added   int      `json:"added"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

// Syncer pushes review outcomes into learner profiles.
type Syncer interface {
	Sync(ctx context.Context, req SyncRequest) (*SyncReport, error)
}

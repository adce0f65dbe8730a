package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mkhalal/c-playground/internal/apperror"
	"github.com/mkhalal/c-playground/internal/auth"
	"github.com/mkhalal/c-playground/internal/executor"
	"github.com/mkhalal/c-playground/internal/profile"
	"github.com/mkhalal/c-playground/internal/review"
)

// ReviewHandler runs a submission and forwards the outcome to the review
// engine for feedback.
//
// FLOW:
//  1. Compile and run the code (same core as /api/execute)
//  2. Hand code + run outcome to the review engine
//  3. If the caller is logged in, push the findings to the profile syncer
//
// The profile push is best-effort: a failed or partial sync is logged and
// the review is still returned to the caller.
type ReviewHandler struct {
	exec     executor.Executor
	engine   review.Engine
	profiles profile.Syncer
	logger   *slog.Logger
}

// NewReviewHandler creates a ReviewHandler. The profile syncer may be nil,
// in which case review results are never pushed anywhere.
func NewReviewHandler(
	exec executor.Executor,
	engine review.Engine,
	profiles profile.Syncer,
	logger *slog.Logger,
) *ReviewHandler {
	return &ReviewHandler{
		exec:     exec,
		engine:   engine,
		profiles: profiles,
		logger:   logger,
	}
}

// reviewRequest is the JSON body for POST /api/review.
type reviewRequest struct {
	Code    string      `json:"code"`
	Mode    review.Mode `json:"mode"`
	Input   string      `json:"input,omitempty"`
	RoundID string      `json:"roundId,omitempty"`
}

// reviewResponse is the JSON body returned on success.
type reviewResponse struct {
	Review         review.Review       `json:"review"`
	WeakCandidates []string            `json:"weakCandidates,omitempty"`
	RunResult      *executor.RunResult `json:"runResult"`
}

// HandleReview processes a review request.
//
// HTTP: POST /api/review
// Auth: Optional — anonymous callers get a review, logged-in callers also
// get their learning profile updated.
func (h *ReviewHandler) HandleReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid review request body", slog.String("error", err.Error()))
		writeError(w, apperror.ValidationFailed("body", "request body must be valid JSON"))
		return
	}

	if req.Code == "" {
		writeError(w, apperror.ValidationFailed("code", "code must not be empty"))
		return
	}
	if !req.Mode.Valid() {
		writeError(w, apperror.ValidationFailed("mode", "mode must be one of syntax, style, logic"))
		return
	}

	result, err := h.exec.Execute(r.Context(), executor.Request{Code: req.Code, Input: req.Input})
	if err != nil {
		h.logger.Error("code execution failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	resp, err := h.engine.Review(r.Context(), review.Request{
		Code:   req.Code,
		Mode:   req.Mode,
		Result: result,
	})
	if err != nil {
		h.logger.Error("review engine call failed",
			slog.String("mode", string(req.Mode)),
			slog.String("error", err.Error()),
		)
		writeError(w, apperror.Upstream("review"))
		return
	}

	h.syncProfile(r, &req, resp, result)

	writeJSON(w, http.StatusOK, reviewResponse{
		Review:         resp.Review,
		WeakCandidates: resp.WeakCandidates,
		RunResult:      result,
	})
}

// syncProfile pushes the review outcome to the profile syncer when the
// caller is authenticated and a syncer is wired. Failures are logged,
// never returned: the review itself already succeeded.
func (h *ReviewHandler) syncProfile(r *http.Request, req *reviewRequest, resp *review.Response, result *executor.RunResult) {
	if h.profiles == nil {
		return
	}
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		return
	}

	report, err := h.profiles.Sync(r.Context(), profile.SyncRequest{
		UserID:        userID,
		Mode:          string(req.Mode),
		RoundID:       req.RoundID,
		ReviewSummary: resp.Review.Summary,
		Result:        result,
		Candidates:    resp.WeakCandidates,
	})
	if err != nil {
		h.logger.Warn("profile sync failed",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return
	}

	if len(report.Errors) > 0 {
		h.logger.Warn("profile sync completed with errors",
			slog.String("userID", userID),
			slog.Int("added", report.Added),
			slog.Int("updated", report.Updated),
			slog.Int("skipped", report.Skipped),
			slog.Int("errors", len(report.Errors)),
		)
		return
	}

	h.logger.Info("profile synced",
		slog.String("userID", userID),
		slog.Int("added", report.Added),
		slog.Int("updated", report.Updated),
		slog.Int("skipped", report.Skipped),
	)
}

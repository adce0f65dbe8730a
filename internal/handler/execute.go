package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mkhalal/c-playground/internal/apperror"
	"github.com/mkhalal/c-playground/internal/executor"
)

// ExecuteHandler handles C code execution requests.
type ExecuteHandler struct {
	exec   executor.Executor
	logger *slog.Logger
}

// NewExecuteHandler creates a new ExecuteHandler.
func NewExecuteHandler(exec executor.Executor, logger *slog.Logger) *ExecuteHandler {
	return &ExecuteHandler{
		exec:   exec,
		logger: logger,
	}
}

// HandleExecute processes an incoming C code execution request.
//
// HTTP: POST /api/execute
//
// The response is 200 for BOTH successful and failed program runs: a
// compile error or a timeout is a normal outcome, described inside the
// RunResult body. Non-200 statuses are reserved for malformed requests
// and service-level failures.
func (h *ExecuteHandler) HandleExecute(w http.ResponseWriter, r *http.Request) {
	var req executor.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid execution request body", slog.String("error", err.Error()))
		writeError(w, apperror.ValidationFailed("body", "request body must be valid JSON"))
		return
	}

	if req.Code == "" {
		writeError(w, apperror.ValidationFailed("code", "code must not be empty"))
		return
	}

	result, err := h.exec.Execute(r.Context(), req)
	if err != nil {
		h.logger.Error("code execution failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

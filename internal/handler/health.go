package handler

import (
	"net/http"
	"os/exec"
)

// HealthHandler reports service liveness and whether a usable C toolchain
// is installed. Orchestrators can alert on "degraded" before users hit
// platform errors.
type HealthHandler struct {
	compilers []string
}

// NewHealthHandler creates a HealthHandler probing the given compiler
// names, in order.
func NewHealthHandler(compilers []string) *HealthHandler {
	return &HealthHandler{compilers: compilers}
}

type healthResponse struct {
	Status    string          `json:"status"`
	Compilers map[string]bool `json:"compilers"`
}

// HandleHealth reports whether the service can accept work.
//
// HTTP: GET /healthz
//
// 200 "ok" when at least one candidate compiler resolves on PATH,
// 503 "degraded" when none do. The per-compiler map shows which
// candidates are installed.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:    "degraded",
		Compilers: make(map[string]bool, len(h.compilers)),
	}

	status := http.StatusServiceUnavailable
	for _, name := range h.compilers {
		_, err := exec.LookPath(name)
		resp.Compilers[name] = err == nil
		if err == nil {
			resp.Status = "ok"
			status = http.StatusOK
		}
	}

	writeJSON(w, status, resp)
}

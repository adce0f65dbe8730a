package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkhalal/c-playground/internal/handler"
)

func TestHealthHandler_HandleHealth(t *testing.T) {
	t.Run("ok when a candidate resolves", func(t *testing.T) {
		// "sh" stands in for a compiler; LookPath treats both the same way
		h := handler.NewHealthHandler([]string{"sh", "no-such-compiler-zzz"})

		rr := httptest.NewRecorder()
		h.HandleHealth(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		require.Equal(t, http.StatusOK, rr.Code)

		var resp struct {
			Status    string          `json:"status"`
			Compilers map[string]bool `json:"compilers"`
		}
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, "ok", resp.Status)
		assert.True(t, resp.Compilers["sh"])
		assert.False(t, resp.Compilers["no-such-compiler-zzz"])
	})

	t.Run("degraded when nothing resolves", func(t *testing.T) {
		h := handler.NewHealthHandler([]string{"no-such-compiler-zzz"})

		rr := httptest.NewRecorder()
		h.HandleHealth(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		var resp struct {
			Status string `json:"status"`
		}
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.Equal(t, "degraded", resp.Status)
	})
}

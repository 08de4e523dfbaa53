package shared

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/taskflow-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithSuccess(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	env := Envelope{"message": "done", "count": 2}
	RespondWithSuccess(w, req, http.StatusCreated, env)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "done", body["message"])
	assert.Equal(t, float64(2), body["count"])
	assert.NotContains(t, env, "success", "caller's envelope must not be mutated")
}

func TestRespondWithJSONEncodingError(t *testing.T) {
	log, logBuf := logger.GetTestLogger(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(logger.WithLogger(req.Context(), log))
	w := httptest.NewRecorder()

	RespondWithJSON(w, req, http.StatusOK, map[string]any{"bad": make(chan int)})

	assert.Equal(t, http.StatusOK, w.Code)
	logger.AssertLogContains(t, logBuf, "failed to encode JSON response")
}

func TestRespondWithError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithTraceID(req.Context(), "test-trace-id"))
	w := httptest.NewRecorder()

	RespondWithError(w, req, http.StatusBadRequest, "Invalid request")

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Invalid request", body["error"])
	assert.Equal(t, "test-trace-id", body["trace_id"])
}

func TestRespondWithErrorAndLog(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		err           error
		elevate       bool
		expectedLevel string
	}{
		{"server error", http.StatusInternalServerError, errors.New("database connection failed"), false, "ERROR"},
		{"client error", http.StatusBadRequest, errors.New("invalid input"), false, "DEBUG"},
		{"elevated client error", http.StatusUnauthorized, errors.New("bad token"), true, "WARN"},
		{"rate limited", http.StatusTooManyRequests, errors.New("slow down"), false, "WARN"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			log, logBuf := logger.GetTestLogger(t)
			req := httptest.NewRequest(http.MethodGet, "/api/v1/task", nil)
			ctx := logger.WithLogger(WithTraceID(req.Context(), "trace-1"), log)
			req = req.WithContext(ctx)
			w := httptest.NewRecorder()

			var opts []ResponseOption
			if tc.elevate {
				opts = append(opts, WithElevatedLogLevel())
			}
			RespondWithErrorAndLog(w, req, tc.status, "Safe message", tc.err, opts...)

			assert.Equal(t, tc.status, w.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "Safe message", resp.Error)
			assert.False(t, resp.Success)
			assert.NotContains(t, w.Body.String(), tc.err.Error(), "raw errors never reach the client")

			entries, err := logBuf.GetLogEntries()
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, tc.expectedLevel, entries[0]["level"])
			assert.Equal(t, "trace-1", entries[0]["trace_id"])
			assert.Equal(t, "*errors.errorString", entries[0]["error_type"])
		})
	}
}

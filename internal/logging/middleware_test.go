package logging

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/require"
)

func TestRequestLogger_AttachesLoggerAndLogsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: "debug", Format: "json", Output: &buf})

	var fromCtx *Logger
	h := middleware.RequestID(RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = GetLoggerFromContext(r.Context())
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not found"}`))
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/catalogs/x", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, fromCtx)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var completed map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &completed))
	require.Equal(t, "request completed", completed["msg"])
	require.Equal(t, "WARN", completed["level"])
	require.Equal(t, float64(http.StatusNotFound), completed["status"])
	require.Equal(t, "/catalogs/x", completed["path"])
	require.Equal(t, float64(len(`{"error":"not found"}`)), completed["bytes"])
	require.NotEmpty(t, completed["request_id"])
	require.Equal(t, completed["request_id"], rec.Header().Get(RequestIDHeader))
}

func TestRequestLogger_GeneratesRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: "info", Format: "json", Output: &buf})

	h := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	require.Len(t, entry["request_id"], 26)
	require.Equal(t, entry["request_id"], rec.Header().Get(RequestIDHeader))
	require.Equal(t, "INFO", entry["level"])
	require.Equal(t, float64(http.StatusOK), entry["status"])
}

func TestGetLoggerFromContext_Fallback(t *testing.T) {
	require.NotNil(t, GetLoggerFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context()))
}

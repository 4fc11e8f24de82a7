package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	chiMid "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"finitefield.org/hanko-storefront/internal/logging"
)

func TestRequestInfoStoresPath(t *testing.T) {
	t.Parallel()

	var got string
	h := RequestInfo(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = RequestPath(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/policies/refund-policy?x=1", nil))
	assert.Equal(t, "/policies/refund-policy", got)
}

func TestRequestPathDefaultsToRoot(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "/", RequestPath(req.Context()))
}

func TestLoggerEmitsEntryWithStatus(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	var fromCtx *zap.Logger
	h := chiMid.RequestID(Logger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = logging.FromContext(r.Context())
		assert.NotEmpty(t, chiMid.GetReqID(r.Context()))
		w.WriteHeader(http.StatusNotFound)
	})))

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.1, 203.0.113.9")
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, fromCtx)
	entries := logs.All()
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, zapcore.WarnLevel, e.Level)
	fields := e.ContextMap()
	assert.Equal(t, int64(http.StatusNotFound), fields["status"])
	assert.Equal(t, "/missing", fields["path"])
	assert.Equal(t, "203.0.113.9", fields["remote_ip"])
	assert.NotEmpty(t, fields["request_id"])
}

func TestStatusWriterFlushes(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	sw := &statusWriter{ResponseWriter: rec, status: http.StatusOK}
	_, _ = sw.Write([]byte("partial"))
	sw.Flush()
	assert.True(t, rec.Flushed)
}

func TestAssetsETag(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.css"), []byte("body{}"), 0o600))
	h := http.StripPrefix("/assets", Assets(dir))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/app.css", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	et := rec.Header().Get("ETag")
	require.NotEmpty(t, et)
	assert.Equal(t, "body{}", rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/assets/app.css", nil)
	req.Header.Set("If-None-Match", et)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotModified, rec.Code)
}

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFooterCounters(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	f := NewFooter(reg)
	f.Links.Increment("internal")
	f.Links.Increment("internal")
	f.Links.Increment("external")
	f.Skipped.Increment("no_url")
	f.Failures.Increment()

	links := f.Links.(*Counter)
	assert.Equal(t, 2.0, testutil.ToFloat64(links.vec.WithLabelValues("internal")))
	assert.Equal(t, 1.0, testutil.ToFloat64(links.vec.WithLabelValues("external")))

	rec := httptest.NewRecorder()
	HandlerForRegistry(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), `storefront_footer_items_skipped_total{reason="no_url"} 1`)
	assert.Contains(t, string(body), `storefront_footer_resolve_failures_total 1`)
}

func TestNopFooter(t *testing.T) {
	t.Parallel()

	f := NopFooter()
	assert.NotPanics(t, func() {
		f.Links.Increment("internal")
		f.Failures.Increment()
	})
}

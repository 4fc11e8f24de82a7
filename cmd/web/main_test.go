package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"finitefield.org/hanko-storefront/internal/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	policies := filepath.Join(dir, "policies")
	require.NoError(t, os.MkdirAll(policies, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(policies, "refund-policy.md"),
		[]byte("---\ntitle: Refund Policy\nsummary: How returns work\nupdated_at: 2025-01-12\n---\nReturns within **30 days**.\n"), 0o600))
	return config.Config{
		ShopName:          "Hanko Field",
		PublicStoreDomain: "hanko-field.myshopify.com",
		PrimaryDomainURL:  "https://www.hanko-field.jp",
		StorefrontTimeout: time.Second,
		FooterMenuHandle:  "footer",
		UseFallbackMenu:   true,
		ContentDir:        dir,
	}
}

// newTestRouter builds the router the way serve() does.
func newTestRouter(t *testing.T, cfg config.Config) http.Handler {
	t.Helper()
	s, err := newServer(cfg, zap.NewNop())
	require.NoError(t, err)
	return s.routes()
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func parseHTML(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rec.Body.String()))
	require.NoError(t, err)
	return doc
}

func TestHealthzOK(t *testing.T) {
	t.Parallel()

	rec := get(t, newTestRouter(t, testConfig(t)), "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", strings.TrimSpace(rec.Body.String()))
}

func TestHomeRendersFallbackFooter(t *testing.T) {
	t.Parallel()

	rec := get(t, newTestRouter(t, testConfig(t)), "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	doc := parseHTML(t, rec)
	links := doc.Find("footer.footer nav.footer-menu a")
	require.Equal(t, 4, links.Length())
	assert.Equal(t, "/policies/privacy-policy", links.First().AttrOr("href", ""))
	assert.Equal(t, 0, doc.Find(`footer a[aria-current="page"]`).Length())
}

func TestPolicyPageMarksActiveFooterLink(t *testing.T) {
	t.Parallel()

	rec := get(t, newTestRouter(t, testConfig(t)), "/policies/refund-policy")
	require.Equal(t, http.StatusOK, rec.Code)

	doc := parseHTML(t, rec)
	assert.Equal(t, "Refund Policy | Hanko Field", doc.Find("title").Text())
	assert.Equal(t, "30 days", doc.Find("article.policy strong").Text())
	assert.Equal(t, "How returns work", doc.Find("article.policy .policy-summary").Text())
	assert.Equal(t, "2025-01-12", doc.Find("article.policy time").AttrOr("datetime", ""))
	assert.Equal(t, "How returns work", doc.Find(`meta[name="description"]`).AttrOr("content", ""), "summary stands in for a missing SEO description")

	active := doc.Find(`footer a[aria-current="page"]`)
	require.Equal(t, 1, active.Length())
	assert.Equal(t, "/policies/refund-policy", active.AttrOr("href", ""))
}

func TestPolicyNotFound(t *testing.T) {
	t.Parallel()

	rec := get(t, newTestRouter(t, testConfig(t)), "/policies/unknown")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMenuFileWithFallbackDisabled(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.UseFallbackMenu = false
	cfg.FooterMenuFile = filepath.Join(t.TempDir(), "footer.yaml")
	require.NoError(t, os.WriteFile(cfg.FooterMenuFile, []byte(`id: local
items:
  - id: a
    title: Refunds
    url: https://hanko-field.myshopify.com/policies/refund-policy
  - id: b
    title: Journal
    url: https://journal.example.com/
  - id: c
    title: Blog
`), 0o600))

	doc := parseHTML(t, get(t, newTestRouter(t, cfg), "/"))
	links := doc.Find("footer nav a")
	require.Equal(t, 2, links.Length())
	assert.Equal(t, "/policies/refund-policy", links.Eq(0).AttrOr("href", ""))
	assert.Equal(t, "_blank", links.Eq(1).AttrOr("target", ""))
	assert.Equal(t, "noopener noreferrer", links.Eq(1).AttrOr("rel", ""))
}

func TestFooterFailureKeepsPage(t *testing.T) {
	t.Parallel()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query string `json:"query"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if strings.Contains(req.Query, "Footer") {
			http.Error(w, "menu service unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"shop":{"name":"Hanko Field","primaryDomain":{"url":"https://www.hanko-field.jp"}}}}`))
	}))
	t.Cleanup(api.Close)

	cfg := testConfig(t)
	cfg.StorefrontEndpoint = api.URL
	h := newTestRouter(t, cfg)

	rec := get(t, h, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<footer class="footer"></footer></body></html>`)
	assert.Contains(t, rec.Body.String(), `<main class="main">`)

	metricsRec := get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, metricsRec.Code)
	assert.Contains(t, metricsRec.Body.String(), "storefront_footer_resolve_failures_total 1")
}

func TestHeaderFailureIsServerError(t *testing.T) {
	t.Parallel()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	t.Cleanup(api.Close)

	cfg := testConfig(t)
	cfg.StorefrontEndpoint = api.URL
	rec := get(t, newTestRouter(t, cfg), "/")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMetricsCountRenderedLinks(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t, testConfig(t))
	require.Equal(t, http.StatusOK, get(t, h, "/").Code)

	rec := get(t, h, "/metrics")
	assert.Contains(t, rec.Body.String(), `storefront_footer_links_rendered_total{kind="internal"} 4`)
}

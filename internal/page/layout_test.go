package page

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"finitefield.org/hanko-storefront/internal/cms"
	"finitefield.org/hanko-storefront/internal/logging"
)

func failing(err error) templ.Component {
	return templ.ComponentFunc(func(context.Context, io.Writer) error { return err })
}

func static(html string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, html)
		return err
	})
}

func TestDocumentOrder(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := Document(Layout{
		Title:       "Refund <Policy>",
		Description: "Returns & refunds",
		ShopName:    "Hanko Field",
		Main:        Home("Hanko Field"),
		Footer:      static(`<footer class="footer"><nav class="footer-menu"></nav></footer>`),
	}).Render(context.Background(), &buf)
	require.NoError(t, err)

	body := buf.String()
	assert.True(t, strings.HasPrefix(body, "<!doctype html>"))
	assert.Less(t, strings.Index(body, "</main>"), strings.Index(body, "<footer"))

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, "Refund <Policy>", doc.Find("title").Text())
	assert.Equal(t, "ja", doc.Find("html").AttrOr("lang", ""))
	assert.Equal(t, "Returns & refunds", doc.Find(`meta[name="description"]`).AttrOr("content", ""))
	assert.Equal(t, 1, doc.Find("body > footer.footer > nav.footer-menu").Length())
}

func TestBoundaryRendersEmptyFooterOnError(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.ErrorLevel)
	ctx := logging.WithLogger(context.Background(), zap.New(core))

	var buf bytes.Buffer
	err := Document(Layout{
		ShopName: "Hanko Field",
		Main:     Home("Hanko Field"),
		Footer:   failing(errors.New("storefront down")),
	}).Render(ctx, &buf)
	require.NoError(t, err, "a failing footer must not fail the page")
	assert.Contains(t, buf.String(), EmptyFooter+"</body></html>")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "page: footer failed", logs.All()[0].Message)
}

func TestBoundaryReturnsContextErrors(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	err := Boundary(failing(context.Canceled)).Render(ctx, &buf)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, buf.String())
}

func TestPolicyBody(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Policy(cms.Page{Title: "Shipping", BodyHTML: "<p>Ships in <strong>3 days</strong></p>"}).Render(context.Background(), &buf))
	assert.Equal(t, `<article class="policy"><h1>Shipping</h1><p>Ships in <strong>3 days</strong></p></article>`, buf.String())
}

func TestPolicySummaryAndUpdatedDate(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Policy(cms.Page{
		Title:     "Refunds",
		Summary:   "How returns work",
		UpdatedAt: time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC),
		BodyHTML:  "<p>Within 30 days.</p>",
	}).Render(context.Background(), &buf))

	assert.Equal(t, `<article class="policy"><h1>Refunds</h1>`+
		`<p class="policy-summary">How returns work</p>`+
		`<p class="policy-updated">Last updated <time datetime="2025-01-12">2025-01-12</time></p>`+
		`<p>Within 30 days.</p></article>`, buf.String())
}

func TestDocumentOmitsEmptyDescription(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Document(Layout{Lang: "en", Title: "Home", ShopName: "Hanko Field"}).Render(context.Background(), &buf))

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(buf.String()))
	require.NoError(t, err)
	assert.Equal(t, "en", doc.Find("html").AttrOr("lang", ""))
	assert.Equal(t, 0, doc.Find(`meta[name="description"]`).Length())
	assert.Equal(t, 0, doc.Find("footer").Length())
	assert.Contains(t, buf.String(), `<main class="main"></main></body></html>`)
}

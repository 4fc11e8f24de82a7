// Package footer renders the storefront footer navigation.
package footer

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"go.uber.org/zap"

	"finitefield.org/hanko-storefront/internal/deferred"
	"finitefield.org/hanko-storefront/internal/links"
	"finitefield.org/hanko-storefront/internal/logging"
	"finitefield.org/hanko-storefront/internal/menu"
	"finitefield.org/hanko-storefront/internal/metrics"
	"finitefield.org/hanko-storefront/internal/middleware"
	"finitefield.org/hanko-storefront/internal/storefront"
)

// Options configures a Renderer.
type Options struct {
	// UseFallbackMenu renders the static fallback menu even when the storefront
	// returned one of its own.
	UseFallbackMenu bool
	// PublicStoreDomain is the store hostname treated as internal.
	PublicStoreDomain string
	Metrics           metrics.Footer
}

// Renderer builds footer components.
type Renderer struct {
	opts Options
}

// New returns a Renderer. Missing metrics are replaced by no-ops.
func New(opts Options) *Renderer {
	nop := metrics.NopFooter()
	if opts.Metrics.Links == nil {
		opts.Metrics.Links = nop.Links
	}
	if opts.Metrics.Skipped == nil {
		opts.Metrics.Skipped = nop.Skipped
	}
	if opts.Metrics.Failures == nil {
		opts.Metrics.Failures = nop.Failures
	}
	return &Renderer{opts: opts}
}

// Footer waits for the footer query and renders the <footer> element. Output
// written so far is flushed before blocking. A failed query is returned as the
// render error and nothing is written for the footer.
func (r *Renderer) Footer(query *deferred.Value[*storefront.FooterQuery], header storefront.HeaderQuery) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		select {
		case <-query.Done():
		default:
			if err := templ.Flush().Render(ctx, w); err != nil {
				return err
			}
		}
		res, err := query.Wait(ctx)
		if err != nil {
			r.opts.Metrics.Failures.Increment()
			return fmt.Errorf("footer: resolve menu: %w", err)
		}

		var nav templ.Component
		if primary := header.PrimaryDomainURL(); res != nil && res.Menu != nil && primary != "" {
			nav = r.Menu(r.selectMenu(res.Menu), primary)
		}
		return container(nav).Render(ctx, w)
	})
}

func (r *Renderer) selectMenu(resolved *menu.Menu) menu.Menu {
	if r.opts.UseFallbackMenu || resolved.Empty() {
		return menu.FallbackMenu()
	}
	return *resolved
}

// Menu renders the footer navigation for m.
func (r *Renderer) Menu(m menu.Menu, primaryDomainURL string) templ.Component {
	domains := links.Domains{
		PublicStoreDomain: r.opts.PublicStoreDomain,
		PrimaryDomainURL:  primaryDomainURL,
	}
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return navigation(r.entries(ctx, m, domains)).Render(ctx, w)
	})
}

// entries classifies the items of m. Items without a URL or with a malformed
// own-store URL are dropped. Pending state only exists while a client
// navigation is in flight, so server output is always idle.
func (r *Renderer) entries(ctx context.Context, m menu.Menu, domains links.Domains) []entry {
	current := middleware.RequestPath(ctx)
	out := make([]entry, 0, len(m.Items))
	for i, item := range m.Items {
		if item.URL == "" {
			r.opts.Metrics.Skipped.Increment("no_url")
			continue
		}
		link, err := links.Classify(item.URL, domains)
		if err != nil {
			r.opts.Metrics.Skipped.Increment("malformed_url")
			logging.FromContext(ctx).Warn("footer: skipping menu item",
				zap.String("item_id", item.ID),
				zap.String("url", item.URL),
				zap.Error(err),
			)
			continue
		}
		e := entry{Key: item.ID, Href: link.Href, Title: item.Title, External: link.External}
		if e.Key == "" {
			e.Key = fmt.Sprintf("item-%d", i)
		}
		if link.External {
			r.opts.Metrics.Links.Increment("external")
		} else {
			r.opts.Metrics.Links.Increment("internal")
			e.Active = links.IsActive(link.Href, current)
			e.Style = LinkStyle(e.Active, false).String()
		}
		out = append(out, e)
	}
	return out
}

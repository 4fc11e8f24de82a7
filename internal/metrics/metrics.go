package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// IncrementalCounter counts events partitioned by label values.
type IncrementalCounter interface {
	Increment(val ...string)
}

// Counter is a labelled prometheus counter.
type Counter struct {
	Name string
	Help string

	vec *prometheus.CounterVec
}

func (c *Counter) Increment(val ...string) {
	c.vec.WithLabelValues(val...).Inc()
}

// NewCounterWithRegistry registers a counter vector on reg.
func NewCounterWithRegistry(reg prometheus.Registerer, name, help string, labels ...string) *Counter {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      name,
		Help:      help,
	}, labels)

	reg.MustRegister(counter)

	return &Counter{
		Name: name,
		Help: help,
		vec:  counter,
	}
}

// Footer groups the counters updated while rendering the page footer.
type Footer struct {
	// Links counts rendered links by kind ("internal" or "external").
	Links IncrementalCounter
	// Skipped counts menu items left out by reason ("no_url" or "malformed_url").
	Skipped IncrementalCounter
	// Failures counts footer queries that failed to resolve.
	Failures IncrementalCounter
}

// NewFooter registers the footer counters on reg.
func NewFooter(reg prometheus.Registerer) Footer {
	return Footer{
		Links:    NewCounterWithRegistry(reg, "footer_links_rendered_total", "Footer links rendered, by kind.", "kind"),
		Skipped:  NewCounterWithRegistry(reg, "footer_items_skipped_total", "Footer menu items not rendered, by reason.", "reason"),
		Failures: NewCounterWithRegistry(reg, "footer_resolve_failures_total", "Footer menu queries that failed to resolve."),
	}
}

type nopCounter struct{}

func (nopCounter) Increment(...string) {}

// NopFooter discards every observation.
func NopFooter() Footer {
	return Footer{Links: nopCounter{}, Skipped: nopCounter{}, Failures: nopCounter{}}
}

// HandlerForRegistry serves the metrics gathered by reg.
func HandlerForRegistry(reg prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

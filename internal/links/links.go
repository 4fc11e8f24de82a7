// Package links decides how a footer menu destination is reached: inside the
// storefront with client-side navigation, or as an external page.
package links

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// hostedSuffix marks storefront URLs served from the platform's own hostnames.
const hostedSuffix = "myshopify.com"

// ErrMalformedURL is returned when a URL that points at the store cannot be parsed
// as an absolute URL.
var ErrMalformedURL = errors.New("links: malformed absolute url")

// Domains identifies the storefront's own hostnames.
type Domains struct {
	// PublicStoreDomain is the configured store hostname, e.g. "store.myshopify.com".
	PublicStoreDomain string
	// PrimaryDomainURL is the absolute primary domain URL, e.g. "https://hanko.example".
	PrimaryDomainURL string
}

// Link is the classified destination of a menu item.
type Link struct {
	Href     string
	External bool
}

// ReferencesOwnStore reports whether rawURL mentions one of the store's domains.
// The checks are plain substring containment, so a foreign URL carrying the
// domain in its path or query also matches.
func ReferencesOwnStore(rawURL string, d Domains) bool {
	if strings.Contains(rawURL, hostedSuffix) {
		return true
	}
	if d.PublicStoreDomain != "" && strings.Contains(rawURL, d.PublicStoreDomain) {
		return true
	}
	if d.PrimaryDomainURL != "" && strings.Contains(rawURL, d.PrimaryDomainURL) {
		return true
	}
	return false
}

// Classify resolves the final href for rawURL. URLs on the store's own domains are
// reduced to their path; anything whose href does not start with "/" is external.
func Classify(rawURL string, d Domains) (Link, error) {
	href := rawURL
	if ReferencesOwnStore(rawURL, d) {
		p, err := pathOf(rawURL)
		if err != nil {
			return Link{}, err
		}
		href = p
	}
	return Link{Href: href, External: !strings.HasPrefix(href, "/")}, nil
}

func pathOf(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedURL, err)
	}
	if u.Scheme == "" || (u.Host == "" && u.Opaque == "") {
		return "", fmt.Errorf("%w: %q", ErrMalformedURL, rawURL)
	}
	// opaque URLs such as mailto: carry their "path" without a leading slash
	if u.Opaque != "" {
		return u.Opaque, nil
	}
	p := u.ResolveReference(&url.URL{}).EscapedPath()
	if p == "" {
		p = "/"
	}
	return p, nil
}

// IsActive reports whether href names exactly the page at currentPath. Query and
// fragment are ignored, comparison is case-insensitive and there is no prefix
// matching: "/policies" is not active on "/policies/refund-policy".
func IsActive(href, currentPath string) bool {
	target := trimPath(href)
	if target == "" {
		return false
	}
	return strings.EqualFold(target, trimPath(currentPath))
}

func trimPath(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			return "/"
		}
	}
	return p
}

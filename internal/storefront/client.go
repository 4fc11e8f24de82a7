package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"finitefield.org/hanko-storefront/internal/menu"
)

const (
	defaultTimeout = 5 * time.Second
	tokenHeader    = "X-Shopify-Storefront-Access-Token"
)

const headerQuery = `query Header { shop { name primaryDomain { url } } }`

const footerQuery = `query Footer($footerMenuHandle: String!) {
  menu(handle: $footerMenuHandle) {
    id
    items { id resourceId tags title type url items { id resourceId tags title type url } }
  }
}`

// HeaderQuery carries the shop fields the layout needs synchronously.
type HeaderQuery struct {
	Shop Shop `json:"shop"`
}

// Shop describes the storefront.
type Shop struct {
	Name          string         `json:"name"`
	PrimaryDomain *PrimaryDomain `json:"primaryDomain"`
}

// PrimaryDomain is the canonical storefront domain.
type PrimaryDomain struct {
	URL string `json:"url"`
}

// PrimaryDomainURL returns the primary domain URL or "" when none is configured.
func (h HeaderQuery) PrimaryDomainURL() string {
	if h.Shop.PrimaryDomain == nil {
		return ""
	}
	return strings.TrimSpace(h.Shop.PrimaryDomain.URL)
}

// FooterQuery is the footer menu lookup result. Menu is nil when the handle is unknown.
type FooterQuery struct {
	Menu *menu.Menu `json:"menu"`
}

// ErrGraphQL wraps errors reported in a GraphQL response body.
var ErrGraphQL = errors.New("storefront: graphql error")

// Options configures a Client.
type Options struct {
	Endpoint string
	Token    string
	Timeout  time.Duration
	// Static answers queries when Endpoint is empty.
	Static Static
}

// Client queries the storefront content API. Without an endpoint it serves Static data.
type Client struct {
	endpoint string
	token    string
	http     *http.Client
	static   Static
}

// NewClient builds a client from opts.
func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		endpoint: strings.TrimSpace(opts.Endpoint),
		token:    strings.TrimSpace(opts.Token),
		http:     &http.Client{Timeout: timeout},
		static:   opts.Static,
	}
}

// Header fetches shop information for the page header.
func (c *Client) Header(ctx context.Context) (HeaderQuery, error) {
	if c == nil || c.endpoint == "" {
		return c.staticData().header(), nil
	}
	var out HeaderQuery
	if err := c.do(ctx, headerQuery, nil, &out); err != nil {
		return HeaderQuery{}, err
	}
	return out, nil
}

// Footer fetches the footer menu with the given handle. The result is nil when the
// API answers with an empty data object.
func (c *Client) Footer(ctx context.Context, handle string) (*FooterQuery, error) {
	if c == nil || c.endpoint == "" {
		return c.staticData().footer(), nil
	}
	var out *FooterQuery
	vars := map[string]any{"footerMenuHandle": handle}
	if err := c.do(ctx, footerQuery, vars, &out); err != nil {
		return nil, err
	}
	if out != nil && out.Menu != nil {
		m := menu.Normalize(*out.Menu)
		out.Menu = &m
	}
	return out, nil
}

func (c *Client) staticData() Static {
	if c == nil {
		return Static{}
	}
	return c.static
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (c *Client) do(ctx context.Context, query string, vars map[string]any, out any) error {
	payload, err := json.Marshal(graphQLRequest{Query: query, Variables: vars})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set(tokenHeader, c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("storefront: request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("storefront: status %d: %s", resp.StatusCode, drainError(resp.Body))
	}

	var body graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("storefront: decode response: %w", err)
	}
	if len(body.Errors) > 0 {
		msgs := make([]string, 0, len(body.Errors))
		for _, e := range body.Errors {
			msgs = append(msgs, e.Message)
		}
		return fmt.Errorf("%w: %s", ErrGraphQL, strings.Join(msgs, "; "))
	}
	if len(body.Data) == 0 {
		return nil
	}
	return json.Unmarshal(body.Data, out)
}

func drainError(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 512))
	return strings.TrimSpace(string(b))
}

package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finitefield.org/hanko-storefront/internal/menu"
)

func newAPI(t *testing.T, handler func(req graphQLRequest) (int, string)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "secret", r.Header.Get(tokenHeader))
		var req graphQLRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		status, body := handler(req)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHeaderQuery(t *testing.T) {
	t.Parallel()

	srv := newAPI(t, func(req graphQLRequest) (int, string) {
		assert.Contains(t, req.Query, "primaryDomain")
		return http.StatusOK, `{"data":{"shop":{"name":"Hanko Field","primaryDomain":{"url":"https://www.hanko-field.jp"}}}}`
	})
	c := NewClient(Options{Endpoint: srv.URL, Token: "secret"})

	h, err := c.Header(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Hanko Field", h.Shop.Name)
	assert.Equal(t, "https://www.hanko-field.jp", h.PrimaryDomainURL())
}

func TestFooterQueryNormalizesMenu(t *testing.T) {
	t.Parallel()

	srv := newAPI(t, func(req graphQLRequest) (int, string) {
		assert.Equal(t, "footer", req.Variables["footerMenuHandle"])
		return http.StatusOK, `{"data":{"menu":{"id":"m","items":[
			{"id":"1","title":"<i>Privacy</i>","url":"/policies/privacy-policy","type":"SHOP_POLICY","tags":[],"items":[]},
			{"id":"1","title":"Again","url":"/again","type":"HTTP","tags":[],"items":[]}
		]}}}`
	})
	c := NewClient(Options{Endpoint: srv.URL, Token: "secret"})

	f, err := c.Footer(context.Background(), "footer")
	require.NoError(t, err)
	require.NotNil(t, f)
	require.NotNil(t, f.Menu)
	require.Len(t, f.Menu.Items, 1)
	assert.Equal(t, "Privacy", f.Menu.Items[0].Title)
}

func TestFooterQueryUnknownHandle(t *testing.T) {
	t.Parallel()

	srv := newAPI(t, func(graphQLRequest) (int, string) {
		return http.StatusOK, `{"data":{"menu":null}}`
	})
	c := NewClient(Options{Endpoint: srv.URL, Token: "secret"})

	f, err := c.Footer(context.Background(), "nope")
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Nil(t, f.Menu)
}

func TestQueryErrors(t *testing.T) {
	t.Parallel()

	srv := newAPI(t, func(req graphQLRequest) (int, string) {
		if strings.Contains(req.Query, "Header") {
			return http.StatusBadGateway, "upstream down"
		}
		return http.StatusOK, `{"errors":[{"message":"throttled"}]}`
	})
	c := NewClient(Options{Endpoint: srv.URL, Token: "secret"})

	_, err := c.Header(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "upstream down")

	_, err = c.Footer(context.Background(), "footer")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrGraphQL))
	assert.Contains(t, err.Error(), "throttled")
}

func TestStaticClient(t *testing.T) {
	t.Parallel()

	fallback := menu.FallbackMenu()
	c := NewClient(Options{Static: Static{
		ShopName:         "Hanko Field",
		PrimaryDomainURL: "https://www.hanko-field.jp",
		FooterMenu:       &fallback,
	}})

	h, err := c.Header(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://www.hanko-field.jp", h.PrimaryDomainURL())

	f, err := c.Footer(context.Background(), "footer")
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Len(t, f.Menu.Items, 4)

	empty := NewClient(Options{})
	h, err = empty.Header(context.Background())
	require.NoError(t, err)
	assert.Empty(t, h.PrimaryDomainURL())
	f, err = empty.Footer(context.Background(), "footer")
	require.NoError(t, err)
	assert.Nil(t, f)
}

package location

import (
	"crypto/tls"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	u, err := url.Parse("https://example.com:8443/blog/hello%20world?page=2&page=3&tag=go#intro")
	require.NoError(t, err)

	loc := New(u, RouteParams{"slug": "hello world"})

	assert.Equal(t, "example.com", loc.Hostname)
	assert.Equal(t, "/blog/hello%20world", loc.Pathname)
	assert.Equal(t, "?page=2&page=3&tag=go", loc.Search)
	assert.Equal(t, "#intro", loc.Hash)
	assert.Equal(t, map[string]string{"page": "2", "tag": "go"}, loc.Query)
	assert.Equal(t, "hello world", loc.Params.Get("slug"))
	assert.Equal(t, u.String(), loc.Href)
}

func TestNewNil(t *testing.T) {
	loc := New(nil, nil)
	assert.Equal(t, "/", loc.Pathname)
	assert.NotNil(t, loc.Params)
	assert.NotNil(t, loc.Query)
}

func TestNewCopiesParams(t *testing.T) {
	params := RouteParams{"id": "1"}
	loc := New(&url.URL{Path: "/x"}, params)
	params["id"] = "2"
	assert.Equal(t, "1", loc.Params["id"])
}

func TestFromRequest(t *testing.T) {
	t.Run("plain http", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/docs/a?x=1", nil)
		r.Host = "site.test"
		loc := FromRequest(r, nil)
		assert.Equal(t, "http://site.test/docs/a?x=1", loc.Href)
		assert.Equal(t, "site.test", loc.Hostname)
		assert.Equal(t, "1", loc.Query["x"])
	})

	t.Run("forwarded proto", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.Host = "site.test"
		r.Header.Set("X-Forwarded-Proto", "HTTPS, http")
		assert.Equal(t, "https://site.test/", FromRequest(r, nil).Href)
	})

	t.Run("tls", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.Host = "site.test"
		r.TLS = &tls.ConnectionState{}
		assert.Equal(t, "https", RequestURL(r).Scheme)
	})
}

func TestRouteParamsNil(t *testing.T) {
	var p RouteParams
	assert.Equal(t, "", p.Get("x"))
	assert.Empty(t, p.Clone())
	assert.NotNil(t, p.Clone())
}

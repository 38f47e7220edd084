package endpoint

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vango-dev/city/pkg/location"
)

func TestParseMethod(t *testing.T) {
	for _, m := range Methods {
		got, err := ParseMethod(strings.ToLower(string(m)))
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	_, err := ParseMethod("BREW")
	assert.ErrorIs(t, err, ErrUnknownMethod)
}

func TestNormalizeRedirectDefaultsTo307(t *testing.T) {
	res := Normalize(&Response{Redirect: "/login"})
	assert.Equal(t, http.StatusTemporaryRedirect, res.Status)
	assert.Equal(t, "/login", res.Headers.Get("Location"))
}

func TestNormalizeRedirectKeepsExplicitStatus(t *testing.T) {
	res := Normalize(&Response{Redirect: "/new", Status: http.StatusMovedPermanently})
	assert.Equal(t, http.StatusMovedPermanently, res.Status)
	assert.Equal(t, "/new", res.Headers.Get("Location"))
}

func TestNormalizeDefaults(t *testing.T) {
	res := Normalize(&Response{Body: map[string]int{"n": 1}})
	assert.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, DefaultContentType, res.Headers.Get("Content-Type"))
	assert.Equal(t, map[string]int{"n": 1}, res.Body)

	empty := Normalize(nil)
	assert.NotNil(t, empty.Headers)
	assert.Equal(t, http.StatusOK, empty.Status)
	assert.Nil(t, empty.Body)
}

func TestNormalizeDropsEmptyHeaders(t *testing.T) {
	res := Normalize(&Response{Headers: map[string]string{
		"x-keep":        "1",
		"x-unset":       "",
		"content-type":  "text/plain",
		"Cache-Control": "no-store",
	}})
	assert.Equal(t, "1", res.Headers.Get("X-Keep"))
	_, present := res.Headers["X-Unset"]
	assert.False(t, present)
	assert.Equal(t, "text/plain", res.Headers.Get("Content-Type"))
	assert.Equal(t, "no-store", res.Headers.Get("Cache-Control"))
}

type stringer struct{}

func (stringer) String() string { return "stringer" }

func TestEncode(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        any
		want        string
	}{
		{"json map", "", map[string]string{"a": "b"}, `{"a":"b"}`},
		{"json string", "application/json", "hi", `"hi"`},
		{"raw bytes under json", "", []byte(`{"pre":1}`), `{"pre":1}`},
		{"text string", "text/plain", "hello", "hello"},
		{"text stringer", "text/html", stringer{}, "stringer"},
		{"text number", "text/plain", 42, "42"},
		{"nil body", "", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.contentType != "" {
				headers["Content-Type"] = tt.contentType
			}
			data, err := Normalize(&Response{Body: tt.body, Headers: headers}).Encode()
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))
		})
	}
}

func TestWriteTo(t *testing.T) {
	t.Run("writes status headers and body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		res := Normalize(&Response{Status: 201, Body: []string{"x"}, Headers: map[string]string{"X-A": "1"}})
		require.NoError(t, res.WriteTo(rec, MethodPost))
		assert.Equal(t, 201, rec.Code)
		assert.Equal(t, "1", rec.Header().Get("X-A"))
		assert.JSONEq(t, `["x"]`, rec.Body.String())
	})

	t.Run("omits body for HEAD", func(t *testing.T) {
		rec := httptest.NewRecorder()
		require.NoError(t, Normalize(&Response{Body: "x"}).WriteTo(rec, MethodHead))
		assert.Equal(t, 200, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("omits body for 204", func(t *testing.T) {
		rec := httptest.NewRecorder()
		require.NoError(t, Normalize(&Response{Status: 204, Body: "x"}).WriteTo(rec, MethodGet))
		assert.Empty(t, rec.Body.String())
	})

	t.Run("streams readers", func(t *testing.T) {
		rec := httptest.NewRecorder()
		res := Normalize(&Response{Body: strings.NewReader("stream"), Headers: map[string]string{"Content-Type": "text/plain"}})
		require.NoError(t, res.WriteTo(rec, MethodGet))
		assert.Equal(t, "stream", rec.Body.String())
	})
}

func TestModuleHandler(t *testing.T) {
	get := func(*RequestEvent) (*Response, error) { return &Response{Body: "get"}, nil }
	catchAll := func(*RequestEvent) (*Response, error) { return &Response{Body: "any"}, nil }

	m := &Module{OnGet: get}
	assert.NotNil(t, m.Handler(MethodGet))
	assert.NotNil(t, m.Handler(MethodHead), "HEAD falls back to GET")
	assert.Nil(t, m.Handler(MethodPost))
	assert.Equal(t, []Method{MethodGet, MethodHead}, m.Methods())

	m.OnRequest = catchAll
	assert.Len(t, m.Methods(), len(Methods))
	res, err := m.Handler(MethodTrace)(nil)
	require.NoError(t, err)
	assert.Equal(t, "any", res.Body)

	var nilModule *Module
	assert.Nil(t, nilModule.Handler(MethodGet))
	assert.True(t, nilModule.Empty())
	assert.False(t, m.Empty())
}

func newEvent(method string) *RequestEvent {
	r := httptest.NewRequest(method, "/x", nil)
	return NewRequestEvent(r, location.RouteParams{"id": "7"}, "/x")
}

func TestDispatchLeafResponse(t *testing.T) {
	layout := &Module{OnRequest: func(*RequestEvent) (*Response, error) {
		return &Response{Headers: map[string]string{"X-Layout": "yes", "Content-Type": "text/plain"}}, nil
	}}
	leaf := &Module{OnGet: func(ev *RequestEvent) (*Response, error) {
		return &Response{Body: ev.Params.Get("id")}, nil
	}}

	ev := newEvent("GET")
	res, err := Dispatch(ev, []*Module{layout, leaf}, DispatchOptions{})
	require.NoError(t, err)
	assert.Equal(t, "7", res.Body)
	assert.Equal(t, "yes", res.Headers.Get("X-Layout"))
	assert.Equal(t, DefaultContentType, res.Headers.Get("Content-Type"), "leaf headers win")
	assert.Same(t, res, ev.Response())
	assert.Equal(t, 200, ev.Status())
}

func TestDispatchLayoutRedirectShortCircuits(t *testing.T) {
	called := false
	layout := &Module{OnGet: func(*RequestEvent) (*Response, error) {
		return &Response{Redirect: "/login"}, nil
	}}
	leaf := &Module{OnGet: func(*RequestEvent) (*Response, error) {
		called = true
		return nil, nil
	}}

	res, err := Dispatch(newEvent("GET"), []*Module{layout, leaf}, DispatchOptions{})
	require.NoError(t, err)
	assert.False(t, called)
	assert.Equal(t, 307, res.Status)
	assert.Equal(t, "/login", res.Headers.Get("Location"))
}

func TestDispatchLayoutErrorStatusShortCircuits(t *testing.T) {
	layout := &Module{OnRequest: func(*RequestEvent) (*Response, error) {
		return &Response{Status: 401, Body: "denied"}, nil
	}}
	res, err := Dispatch(newEvent("POST"), []*Module{layout, {OnPost: func(*RequestEvent) (*Response, error) {
		t.Fatal("leaf must not run")
		return nil, nil
	}}}, DispatchOptions{})
	require.NoError(t, err)
	assert.Equal(t, 401, res.Status)
}

func TestDispatchMethodNotAllowed(t *testing.T) {
	leaf := &Module{OnGet: func(*RequestEvent) (*Response, error) { return nil, nil }}

	_, err := Dispatch(newEvent("DELETE"), []*Module{leaf}, DispatchOptions{})
	require.ErrorIs(t, err, ErrMethodNotAllowed)

	var mna *MethodNotAllowedError
	require.True(t, errors.As(err, &mna))
	assert.Equal(t, "GET, HEAD", mna.AllowHeader())
	assert.Equal(t, http.StatusMethodNotAllowed, StatusOf(err))
}

func TestDispatchPageWithoutHandler(t *testing.T) {
	res, err := Dispatch(newEvent("GET"), []*Module{{}}, DispatchOptions{Page: true})
	require.NoError(t, err)
	assert.Equal(t, 200, res.Status)
	assert.Nil(t, res.Body)

	_, err = Dispatch(newEvent("POST"), []*Module{{}}, DispatchOptions{Page: true})
	var mna *MethodNotAllowedError
	require.ErrorAs(t, err, &mna)
	assert.Equal(t, []Method{MethodGet, MethodHead}, mna.Allow)
}

func TestDispatchHandlerError(t *testing.T) {
	boom := errors.New("boom")
	leaf := &Module{OnGet: func(*RequestEvent) (*Response, error) { return nil, boom }}
	_, err := Dispatch(newEvent("GET"), []*Module{leaf}, DispatchOptions{})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 500, StatusOf(err))

	_, err = Dispatch(newEvent("GET"), []*Module{{OnGet: func(*RequestEvent) (*Response, error) {
		return nil, fmt.Errorf("wrapped: %w", NotFound(""))
	}}}, DispatchOptions{})
	assert.Equal(t, 404, StatusOf(err))
}

func TestRequestEventID(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("X-Request-ID", "abc")
	assert.Equal(t, "abc", NewRequestEvent(r, nil, "/").ID)

	ev := NewRequestEvent(httptest.NewRequest("GET", "/", nil), nil, "/")
	assert.Len(t, ev.ID, 36)
	assert.Equal(t, 0, ev.Status())

	ev.SetValue("k", 1)
	assert.Equal(t, 1, ev.Value("k"))
	assert.Nil(t, ev.Value("missing"))
}

func TestDispatchUnencodableBody(t *testing.T) {
	chain := []*Module{{
		OnGet: func(ev *RequestEvent) (*Response, error) {
			return &Response{Body: map[string]any{"ch": make(chan int)}}, nil
		},
	}}
	ev := NewRequestEvent(httptest.NewRequest(http.MethodGet, "/x", nil), nil, "/x")

	out, err := Dispatch(ev, chain, DispatchOptions{})
	assert.Nil(t, out)
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, StatusOf(err))
	assert.Nil(t, ev.Response())

	// Text bodies always encode.
	assert.NoError(t, Normalize(&Response{Body: 42, Headers: map[string]string{"Content-Type": "text/plain"}}).Check())
}

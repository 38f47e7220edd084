package city

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vango-dev/city/pkg/content"
	"github.com/vango-dev/city/pkg/endpoint"
	"github.com/vango-dev/city/pkg/router"
)

func TestMux(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("# metrics"))
	})

	var sawRealIP string
	capture := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sawRealIP = r.RemoteAddr
			next.ServeHTTP(w, r)
		})
	}

	mux := Mux(New(testRouter(t)), MuxOptions{Metrics: metrics, Use: []func(http.Handler) http.Handler{capture}})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, "# metrics", rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/api/items", nil)
	req.Header.Set("X-Real-IP", "203.0.113.7")
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "203.0.113.7", sawRealIP)
}

func TestMuxRecoversPanics(t *testing.T) {
	panicky := router.StaticEndpoint(&endpoint.Module{
		OnGet: func(ev *endpoint.RequestEvent) (*endpoint.Response, error) {
			panic("handler bug")
		},
	})
	plan, err := router.NewPlan([]router.Route{
		router.Must(router.NewEndpointRoute("/panic", panicky)),
		router.Must(router.NewPageRoute("/", router.Static(&content.PageModule{}))),
	})
	assert.NoError(t, err)

	mux := Mux(New(router.New(plan)), MuxOptions{})
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code, "without Metrics, /metrics reaches the handler")
}

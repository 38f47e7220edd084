package city

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/vango-dev/city/pkg/content"
	"github.com/vango-dev/city/pkg/endpoint"
	"github.com/vango-dev/city/pkg/head"
	"github.com/vango-dev/city/pkg/routepath"
	"github.com/vango-dev/city/pkg/router"
)

// DefaultMaxBodyBytes bounds request bodies when no limit is configured.
const DefaultMaxBodyBytes int64 = 1_000_000

// Handler serves the routes of a Router over HTTP.
//
// A request goes through these steps: path canonicalization, route
// matching, the trailing slash policy for pages, module loading, endpoint
// dispatch through the middleware chain and finally either the normalized
// endpoint response or a rendered page.
//
//	plan, _ := router.Bind(m, registry)
//	h := city.New(router.New(plan),
//	    city.WithLogger(logger),
//	    city.WithMiddleware(middleware.Prometheus()),
//	)
//	http.ListenAndServe(":8080", h)
type Handler struct {
	router     *router.Router
	renderer   Renderer
	logger     *slog.Logger
	middleware []Middleware
	maxBody    int64
	notFound   http.Handler
}

// Option configures a Handler.
type Option func(*Handler)

// WithRenderer sets the page renderer. The default is JSONRenderer.
func WithRenderer(r Renderer) Option {
	return func(h *Handler) { h.renderer = r }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) { h.logger = l }
}

// WithMiddleware appends middleware around endpoint dispatch.
func WithMiddleware(mw ...Middleware) Option {
	return func(h *Handler) { h.middleware = append(h.middleware, mw...) }
}

// WithMaxBodyBytes limits request bodies. Zero or less disables the limit.
func WithMaxBodyBytes(n int64) Option {
	return func(h *Handler) { h.maxBody = n }
}

// WithNotFound sets the handler for paths no route matches.
func WithNotFound(nf http.Handler) Option {
	return func(h *Handler) { h.notFound = nf }
}

// New creates a Handler for r.
func New(r *router.Router, opts ...Option) *Handler {
	h := &Handler{
		router:   r,
		renderer: JSONRenderer{},
		logger:   slog.Default(),
		maxBody:  DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	if h.renderer == nil {
		h.renderer = JSONRenderer{}
	}
	if h.notFound == nil {
		h.notFound = http.HandlerFunc(notFound)
	}
	return h
}

// MaxBodyBytes returns the request body limit, or 0 or less when there is
// none.
func (h *Handler) MaxBodyBytes() int64 {
	return h.maxBody
}

// Router returns the router the handler serves.
func (h *Handler) Router() *router.Router {
	return h.router
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.EscapedPath()
	canon, err := routepath.CanonicalizePath(raw)
	if err != nil {
		h.logger.Debug("rejected path", "path", raw, "error", err)
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	match, ok := h.router.Match(canon.Path)
	if !ok {
		h.notFound.ServeHTTP(w, r)
		return
	}

	page := match.Route.Type() == router.RouteTypePage
	if page && (r.Method == http.MethodGet || r.Method == http.MethodHead) {
		want, _ := routepath.ApplyTrailingSlash(canon.Path, h.router.Plan().TrailingSlash)
		if want != raw {
			redirect(w, r, want)
			return
		}
	}

	if h.maxBody > 0 && r.Body != nil {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	}

	ev := endpoint.NewRequestEvent(r, match.Params, match.Route.Path())
	logger := h.logger.With(
		"request_id", ev.ID,
		"method", r.Method,
		"path", canon.Path,
		"route", match.Route.Path(),
	)

	loaded, pageContent, err := h.load(ev, match, page)
	if err != nil {
		logger.Error("route load failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}

	var out *endpoint.Normalized
	err = Compose(ev, h.middleware, func() error {
		var derr error
		out, derr = endpoint.Dispatch(ev, loaded.Endpoints, endpoint.DispatchOptions{Page: page})
		return derr
	})
	if err != nil {
		h.writeDispatchError(w, r, logger, err)
		return
	}
	if out == nil {
		// Middleware ended the chain without a response.
		w.WriteHeader(http.StatusNoContent)
		return
	}
	logger.Debug("request dispatched", "status", out.Status)

	switch {
	case !page, out.Status >= 300:
		h.write(w, r, out, ev.Method(), logger)
	case out.Status == http.StatusOK && acceptsJSON(r):
		h.write(w, r, asJSON(out), ev.Method(), logger)
	default:
		h.render(w, r, ev, pageContent, out, logger)
	}
}

func (h *Handler) load(ev *endpoint.RequestEvent, match *router.MatchedRoute, page bool) (*router.LoadedRoute, *router.LoadedContent, error) {
	var (
		loaded *router.LoadedRoute
		lc     *router.LoadedContent
		err    error
	)
	if page {
		lc, err = h.router.LoadContent(ev.Context(), match)
		if err == nil {
			loaded = &lc.LoadedRoute
		}
	} else {
		loaded, err = h.router.Load(ev.Context(), match)
	}

	for _, m := range h.middleware {
		if o, ok := m.(LoadObserver); ok {
			o.ObserveLoad(ev, err)
		}
	}
	return loaded, lc, err
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, ev *endpoint.RequestEvent, lc *router.LoadedContent, out *endpoint.Normalized, logger *slog.Logger) {
	loc := ev.Location()
	pc := &PageContext{
		UserContext: UserContext{
			Route:    loc,
			Request:  RequestInfo{Method: ev.Method()},
			Response: out,
		},
		ID:      ev.ID,
		State:   lc.State(),
		Menu:    lc.Menu,
		Page:    lc.Page,
		Modules: lc.Modules,
	}
	pc.Head = head.Resolve(head.Props{RouteLocation: loc, Data: out.Body}, content.Heads(lc.Modules)...)

	if err := h.renderer.Render(w, r, pc); err != nil {
		logger.Error("render failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, "render error")
	}
}

func (h *Handler) write(w http.ResponseWriter, r *http.Request, out *endpoint.Normalized, method endpoint.Method, logger *slog.Logger) {
	if err := out.Check(); err != nil {
		logger.Error("response encoding failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, "response encoding failed")
		return
	}
	if err := out.WriteTo(w, method); err != nil {
		logger.Error("response write failed", "error", err)
	}
}

func (h *Handler) writeDispatchError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var notAllowed *endpoint.MethodNotAllowedError
	if errors.As(err, &notAllowed) {
		w.Header().Set("Allow", notAllowed.AllowHeader())
		writeError(w, r, http.StatusMethodNotAllowed, err.Error())
		return
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, r, http.StatusRequestEntityTooLarge, http.StatusText(http.StatusRequestEntityTooLarge))
		return
	}

	status := endpoint.StatusOf(err)
	message := http.StatusText(status)
	var httpErr *endpoint.HTTPError
	if errors.As(err, &httpErr) && httpErr.Message != "" {
		message = httpErr.Message
	}
	if status >= 500 {
		logger.Error("handler failed", "status", status, "error", err)
	} else {
		logger.Debug("handler returned error", "status", status, "error", err)
	}
	writeError(w, r, status, message)
}

type errorBody struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	w.Header().Set("Content-Type", endpoint.DefaultContentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	json.NewEncoder(w).Encode(errorBody{Error: message, Status: status})
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusNotFound, http.StatusText(http.StatusNotFound))
}

// redirect sends a permanent redirect to path, keeping the query string.
func redirect(w http.ResponseWriter, r *http.Request, path string) {
	target := path
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	w.Header().Set("Location", target)
	w.WriteHeader(http.StatusPermanentRedirect)
}

// acceptsJSON reports whether the client asked for JSON data instead of a
// rendered page.
func acceptsJSON(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mt, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err == nil && mt == "application/json" {
			return true
		}
	}
	return false
}

// asJSON returns out with a JSON content type.
func asJSON(out *endpoint.Normalized) *endpoint.Normalized {
	if out.IsJSON() {
		return out
	}
	cp := *out
	cp.Headers = out.Headers.Clone()
	cp.Headers.Set("Content-Type", endpoint.DefaultContentType)
	return &cp
}

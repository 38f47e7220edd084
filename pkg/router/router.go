package router

import (
	"context"
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	cityerrors "github.com/vango-dev/city/internal/errors"
	"github.com/vango-dev/city/pkg/content"
	"github.com/vango-dev/city/pkg/endpoint"
	"github.com/vango-dev/city/pkg/location"
	"github.com/vango-dev/city/pkg/routepath"
)

// DefaultCacheSize is the default number of pathnames whose match result
// is cached.
const DefaultCacheSize = 512

// Router matches request paths against a Plan and loads the matched modules.
// It is safe for concurrent use.
type Router struct {
	plan      *Plan
	cache     *lru.Cache[string, cachedMatch]
	cacheSize int
	logger    *slog.Logger
}

type cachedMatch struct {
	index  int // -1 when nothing matched
	params location.RouteParams
}

// Option configures a Router.
type Option func(*options)

type options struct {
	cacheSize int
	logger    *slog.Logger
}

// WithCacheSize sets the match cache size. Zero or less disables the cache.
func WithCacheSize(n int) Option {
	return func(o *options) { o.cacheSize = n }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New returns a router for plan.
func New(plan *Plan, opts ...Option) *Router {
	o := options{cacheSize: DefaultCacheSize}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	r := &Router{plan: plan, logger: o.logger}
	if o.cacheSize > 0 {
		r.cacheSize = o.cacheSize
		// lru.New only fails for non-positive sizes.
		r.cache, _ = lru.New[string, cachedMatch](o.cacheSize)
	}
	return r
}

// CacheSize returns the match cache size, or 0 when caching is disabled.
func (r *Router) CacheSize() int {
	return r.cacheSize
}

// Plan returns the router's plan.
func (r *Router) Plan() *Plan {
	return r.plan
}

// MatchedRoute is the result of Match.
type MatchedRoute struct {
	Route    Route
	Params   location.RouteParams
	Pathname string
}

// Match returns the first route of the plan whose pattern matches pathname.
// pathname should be canonical (see routepath.CanonicalizePath) and still
// percent-encoded; captured params are decoded. A route whose captured value
// fails to decode is skipped.
func (r *Router) Match(pathname string) (*MatchedRoute, bool) {
	if r.cache != nil {
		if c, ok := r.cache.Get(pathname); ok {
			if c.index < 0 {
				return nil, false
			}
			return &MatchedRoute{
				Route:    r.plan.Routes[c.index],
				Params:   c.params.Clone(),
				Pathname: pathname,
			}, true
		}
	}

	index, params := r.match(pathname)
	if r.cache != nil {
		r.cache.Add(pathname, cachedMatch{index: index, params: params})
	}
	if index < 0 {
		r.logger.Debug("no route matched", "path", pathname)
		return nil, false
	}

	route := r.plan.Routes[index]
	r.logger.Debug("route matched", "path", pathname, "route", route.Path())
	return &MatchedRoute{Route: route, Params: params.Clone(), Pathname: pathname}, true
}

func (r *Router) match(pathname string) (int, location.RouteParams) {
routes:
	for i, route := range r.plan.Routes {
		loc := route.Pattern().FindStringSubmatchIndex(pathname)
		if loc == nil {
			continue
		}
		names := route.ParamNames()
		catchAll := route.catchAll()
		params := make(location.RouteParams, len(names))
		for g, name := range names {
			start, end := loc[2*(g+1)], loc[2*(g+1)+1]
			if start < 0 {
				params[name] = ""
				continue
			}
			value, err := routepath.DecodeSegment(pathname[start:end], g < len(catchAll) && catchAll[g])
			if err != nil {
				continue routes
			}
			params[name] = value
		}
		return i, params
	}
	return -1, nil
}

// LoadedRoute is a matched route whose modules have been resolved.
type LoadedRoute struct {
	Route    Route
	Params   location.RouteParams
	Pathname string

	// Menu is the plan menu for Pathname, or nil.
	Menu *content.Menu

	// Endpoints holds the request handlers of every module, root layout first.
	Endpoints []*endpoint.Module
}

// Leaf returns the route module's handlers.
func (l *LoadedRoute) Leaf() *endpoint.Module {
	if len(l.Endpoints) == 0 {
		return nil
	}
	return l.Endpoints[len(l.Endpoints)-1]
}

// LoadedContent is a loaded page route.
type LoadedContent struct {
	LoadedRoute

	// Modules are the layouts followed by the page.
	Modules []content.Module

	// Page is the last module.
	Page *content.PageModule
}

// State returns the content state of the page.
func (c *LoadedContent) State() content.State {
	return content.NewState(c.Modules)
}

// Load resolves every loader of m concurrently. Module order is preserved.
func (r *Router) Load(ctx context.Context, m *MatchedRoute) (*LoadedRoute, error) {
	loaded, _, err := r.load(ctx, m)
	return loaded, err
}

// LoadContent is like Load but requires a page route whose last module is a
// *content.PageModule.
func (r *Router) LoadContent(ctx context.Context, m *MatchedRoute) (*LoadedContent, error) {
	if _, ok := m.Route.(*PageRoute); !ok {
		return nil, cityerrors.New("E211").
			WithDetailf("%s is an endpoint route", m.Route.Path()).
			Wrap(ErrNotPage)
	}
	loaded, modules, err := r.load(ctx, m)
	if err != nil {
		return nil, err
	}

	var page *content.PageModule
	if n := len(modules); n > 0 {
		page, _ = modules[n-1].(*content.PageModule)
	}
	if page == nil {
		return nil, cityerrors.New("E211").
			WithDetailf("last module of %s is not a page", m.Route.Path()).
			Wrap(ErrNotPage)
	}
	return &LoadedContent{LoadedRoute: *loaded, Modules: modules, Page: page}, nil
}

func (r *Router) load(ctx context.Context, m *MatchedRoute) (*LoadedRoute, []content.Module, error) {
	loaded := &LoadedRoute{
		Route:    m.Route,
		Params:   m.Params,
		Pathname: m.Pathname,
		Menu:     r.plan.Menu(m.Pathname),
	}

	switch route := m.Route.(type) {
	case *PageRoute:
		modules, err := loadAll(ctx, route.Path(), route.loaders)
		if err != nil {
			return nil, nil, err
		}
		for i, mod := range modules {
			if mod == nil {
				return nil, nil, nilModuleError(route.Path(), i)
			}
		}
		loaded.Endpoints = content.Endpoints(modules)
		return loaded, modules, nil

	case *EndpointRoute:
		modules, err := loadAll(ctx, route.Path(), route.loaders)
		if err != nil {
			return nil, nil, err
		}
		for i, mod := range modules {
			if mod == nil {
				return nil, nil, nilModuleError(route.Path(), i)
			}
		}
		loaded.Endpoints = modules
		return loaded, nil, nil
	}

	return nil, nil, cityerrors.New("E208").
		WithDetailf("unsupported route %T", m.Route).
		Wrap(ErrInvalidRouteType)
}

func loadAll[T any, L ~func(context.Context) (T, error)](ctx context.Context, path string, loaders []L) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]T, len(loaders))
	g, gctx := errgroup.WithContext(ctx)
	for i, load := range loaders {
		g.Go(func() error {
			mod, err := load(gctx)
			if err != nil {
				return cityerrors.New("E210").
					WithDetailf("%s: module %d", path, i).
					Wrap(fmt.Errorf("%w: %w", ErrModuleLoad, err))
			}
			out[i] = mod
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func nilModuleError(path string, i int) error {
	return cityerrors.New("E210").
		WithDetailf("%s: module %d resolved to nil", path, i).
		Wrap(ErrModuleLoad)
}

package router

import (
	"context"
	"regexp"
	"slices"

	cityerrors "github.com/vango-dev/city/internal/errors"
	"github.com/vango-dev/city/pkg/content"
	"github.com/vango-dev/city/pkg/endpoint"
)

// RouteType tags a route as a page or an endpoint.
type RouteType string

const (
	// RouteTypePage is the zero value: the route renders a page.
	RouteTypePage RouteType = ""

	// RouteTypeEndpoint marks a route that only handles requests.
	RouteTypeEndpoint RouteType = "endpoint"
)

func (t RouteType) String() string {
	if t == RouteTypePage {
		return "page"
	}
	return string(t)
}

// Loader resolves a module on demand. It is either a ContentLoader or an
// EndpointLoader.
type Loader interface {
	loaderType() RouteType
}

// ContentLoader resolves a page or layout module.
type ContentLoader func(ctx context.Context) (content.Module, error)

func (ContentLoader) loaderType() RouteType { return RouteTypePage }

// EndpointLoader resolves an endpoint module.
type EndpointLoader func(ctx context.Context) (*endpoint.Module, error)

func (EndpointLoader) loaderType() RouteType { return RouteTypeEndpoint }

// Static returns a loader that always resolves to m.
func Static(m content.Module) ContentLoader {
	return func(context.Context) (content.Module, error) { return m, nil }
}

// StaticEndpoint returns a loader that always resolves to m.
func StaticEndpoint(m *endpoint.Module) EndpointLoader {
	return func(context.Context) (*endpoint.Module, error) { return m, nil }
}

// Route is one entry of a Plan: a *PageRoute or an *EndpointRoute.
// Routes are immutable.
type Route interface {
	// Path is the route path in bracket notation, or the pattern source
	// for routes built from a regular expression.
	Path() string
	Pattern() *regexp.Regexp
	ParamNames() []string
	Type() RouteType

	catchAll() []bool
}

type routeBase struct {
	path       string
	pattern    *regexp.Regexp
	paramNames []string
	catchAlls  []bool
}

func (r *routeBase) Path() string            { return r.path }
func (r *routeBase) Pattern() *regexp.Regexp { return r.pattern }
func (r *routeBase) ParamNames() []string    { return slices.Clone(r.paramNames) }
func (r *routeBase) catchAll() []bool        { return r.catchAlls }

// PageRoute is a route whose modules are layouts followed by a page.
type PageRoute struct {
	routeBase
	loaders []ContentLoader
}

// Type returns RouteTypePage.
func (r *PageRoute) Type() RouteType { return RouteTypePage }

// Loaders returns the route's loaders, root layout first.
func (r *PageRoute) Loaders() []ContentLoader { return slices.Clone(r.loaders) }

// EndpointRoute is a route whose last module is an endpoint.
type EndpointRoute struct {
	routeBase
	loaders []EndpointLoader
}

// Type returns RouteTypeEndpoint.
func (r *EndpointRoute) Type() RouteType { return RouteTypeEndpoint }

// Loaders returns the route's loaders, root layout first.
func (r *EndpointRoute) Loaders() []EndpointLoader { return slices.Clone(r.loaders) }

// NewPageRoute compiles path and returns a page route.
func NewPageRoute(path string, loaders ...ContentLoader) (*PageRoute, error) {
	base, err := compiledBase(path)
	if err != nil {
		return nil, err
	}
	return &PageRoute{routeBase: base, loaders: slices.Clone(loaders)}, nil
}

// NewEndpointRoute compiles path and returns an endpoint route.
func NewEndpointRoute(path string, loaders ...EndpointLoader) (*EndpointRoute, error) {
	base, err := compiledBase(path)
	if err != nil {
		return nil, err
	}
	return &EndpointRoute{routeBase: base, loaders: slices.Clone(loaders)}, nil
}

// NewPageRouteRegexp returns a page route for a hand-written pattern.
// names must hold one entry per capture group of re.
func NewPageRouteRegexp(re *regexp.Regexp, names []string, loaders ...ContentLoader) (*PageRoute, error) {
	base, err := regexpBase(re, names)
	if err != nil {
		return nil, err
	}
	return &PageRoute{routeBase: base, loaders: slices.Clone(loaders)}, nil
}

// NewEndpointRouteRegexp returns an endpoint route for a hand-written pattern.
func NewEndpointRouteRegexp(re *regexp.Regexp, names []string, loaders ...EndpointLoader) (*EndpointRoute, error) {
	base, err := regexpBase(re, names)
	if err != nil {
		return nil, err
	}
	return &EndpointRoute{routeBase: base, loaders: slices.Clone(loaders)}, nil
}

// Must panics if err is non-nil. It is meant for statically known routes.
func Must[R Route](r R, err error) R {
	if err != nil {
		panic(err)
	}
	return r
}

func compiledBase(path string) (routeBase, error) {
	p, err := CompilePattern(path)
	if err != nil {
		return routeBase{}, err
	}
	return routeBase{
		path:       path,
		pattern:    p.Regexp,
		paramNames: p.Names,
		catchAlls:  p.CatchAll,
	}, nil
}

func regexpBase(re *regexp.Regexp, names []string) (routeBase, error) {
	if re == nil {
		return routeBase{}, cityerrors.New("E213").WithDetail("nil pattern").Wrap(ErrInvalidPattern)
	}
	if len(names) != re.NumSubexp() {
		return routeBase{}, cityerrors.New("E202").
			WithDetailf("%s has %d capture groups but %d param names", re, re.NumSubexp(), len(names)).
			Wrap(ErrParamCountMismatch)
	}
	return routeBase{
		path:       re.String(),
		pattern:    re,
		paramNames: slices.Clone(names),
		catchAlls:  catchAllGroups(re),
	}, nil
}

// RouteData is the positional form of a route: a pattern, its loaders,
// the param names of its capture groups and an optional type tag.
type RouteData struct {
	Pattern    *regexp.Regexp
	Loaders    []Loader
	ParamNames []string
	RouteType  RouteType
}

// Build validates d and returns the corresponding Route. RouteType must be
// empty or RouteTypeEndpoint, and every loader must be of the matching kind.
func (d RouteData) Build() (Route, error) {
	switch d.RouteType {
	case RouteTypePage:
		loaders := make([]ContentLoader, len(d.Loaders))
		for i, l := range d.Loaders {
			cl, ok := l.(ContentLoader)
			if !ok {
				return nil, loaderKindError(d, i, l)
			}
			loaders[i] = cl
		}
		return NewPageRouteRegexp(d.Pattern, d.ParamNames, loaders...)

	case RouteTypeEndpoint:
		loaders := make([]EndpointLoader, len(d.Loaders))
		for i, l := range d.Loaders {
			el, ok := l.(EndpointLoader)
			if !ok {
				return nil, loaderKindError(d, i, l)
			}
			loaders[i] = el
		}
		return NewEndpointRouteRegexp(d.Pattern, d.ParamNames, loaders...)
	}

	return nil, cityerrors.New("E208").
		WithDetailf("route type %q", string(d.RouteType)).
		WithSuggestion(`Leave RouteType empty for pages or use RouteTypeEndpoint`).
		Wrap(ErrInvalidRouteType)
}

func loaderKindError(d RouteData, i int, l Loader) error {
	got := "nil"
	if l != nil {
		got = l.loaderType().String()
	}
	return cityerrors.New("E209").
		WithDetailf("%s route %s: loader %d is a %s loader", d.RouteType, d.Pattern, i, got).
		Wrap(ErrLoaderKind)
}

package router

import (
	"context"
	"regexp"
	"sort"
	"sync"

	cityerrors "github.com/vango-dev/city/internal/errors"
	"github.com/vango-dev/city/pkg/content"
	"github.com/vango-dev/city/pkg/endpoint"
	"github.com/vango-dev/city/pkg/manifest"
)

// Registry maps module IDs from a manifest to loaders. Registered loaders
// are memoized with Lazy, so a layout shared by many routes loads once.
// It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	content   map[string]ContentLoader
	endpoints map[string]EndpointLoader
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		content:   make(map[string]ContentLoader),
		endpoints: make(map[string]EndpointLoader),
	}
}

// Content registers a page or layout module loader.
func (r *Registry) Content(id string, l ContentLoader) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.content[id] = LazyContent(l)
	return r
}

// Endpoint registers an endpoint module loader.
func (r *Registry) Endpoint(id string, l EndpointLoader) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.endpoints[id] = LazyEndpoint(l)
	return r
}

// IDs returns the registered module IDs, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.content)+len(r.endpoints))
	for id := range r.content {
		ids = append(ids, id)
	}
	for id := range r.endpoints {
		if _, dup := r.content[id]; !dup {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func (r *Registry) contentLoader(id string) (ContentLoader, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.content[id]
	return l, ok
}

// endpointLoader returns the endpoint loader for id. A content module
// registered under id serves as an endpoint through its handlers, which is
// how layouts take part in endpoint routes.
func (r *Registry) endpointLoader(id string) (EndpointLoader, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if l, ok := r.endpoints[id]; ok {
		return l, true
	}
	if cl, ok := r.content[id]; ok {
		return func(ctx context.Context) (*endpoint.Module, error) {
			m, err := cl(ctx)
			if err != nil || m == nil {
				return nil, err
			}
			return m.Endpoint(), nil
		}, true
	}
	return nil, false
}

// Bind builds a Plan from a manifest, resolving module IDs through reg.
// Routes keep manifest order. Every referenced module must be registered.
func Bind(m *manifest.Manifest, reg *Registry) (*Plan, error) {
	routes := make([]Route, 0, len(m.Routes))
	for _, mr := range m.Routes {
		if mr.Type != "" && mr.Type != manifest.TypeEndpoint {
			return nil, cityerrors.New("E208").
				WithDetailf("%s: route type %q", mr.Path, mr.Type).
				WithSuggestion(`Leave type empty for pages or use "` + manifest.TypeEndpoint + `"`).
				Wrap(ErrInvalidRouteType)
		}

		re, err := regexp.Compile(mr.Pattern)
		if err != nil {
			return nil, cityerrors.New("E213").
				WithDetailf("%s: %s", mr.Path, err).
				Wrap(ErrInvalidPattern)
		}

		var route Route
		if mr.IsEndpoint() {
			loaders := make([]EndpointLoader, len(mr.Modules))
			for i, id := range mr.Modules {
				l, ok := reg.endpointLoader(id)
				if !ok {
					return nil, unknownModule(mr, id)
				}
				loaders[i] = l
			}
			route, err = bindRoute(mr, re, func(base routeBase) Route {
				return &EndpointRoute{routeBase: base, loaders: loaders}
			})
		} else {
			loaders := make([]ContentLoader, len(mr.Modules))
			for i, id := range mr.Modules {
				l, ok := reg.contentLoader(id)
				if !ok {
					return nil, unknownModule(mr, id)
				}
				loaders[i] = l
			}
			route, err = bindRoute(mr, re, func(base routeBase) Route {
				return &PageRoute{routeBase: base, loaders: loaders}
			})
		}
		if err != nil {
			return nil, err
		}
		routes = append(routes, route)
	}

	return NewPlan(routes, WithMenus(m.Menus), WithTrailingSlash(m.TrailingSlash))
}

func bindRoute(mr manifest.Route, re *regexp.Regexp, build func(routeBase) Route) (Route, error) {
	base, err := regexpBase(re, mr.ParamNames)
	if err != nil {
		return nil, err
	}
	if mr.Path != "" {
		base.path = mr.Path
		if p, err := CompilePattern(mr.Path); err == nil && p.Regexp.String() == re.String() {
			base.catchAlls = p.CatchAll
		}
	}
	return build(base), nil
}

func unknownModule(mr manifest.Route, id string) error {
	return cityerrors.New("E212").
		WithDetailf("%s references %q", mr.Path, id).
		WithSuggestion("Register the module with Registry.Content or Registry.Endpoint").
		Wrap(ErrUnknownModule)
}

// Placeholders returns a registry with an empty module for every ID in m:
// page modules for page route leaves, layout modules for layouts and empty
// endpoint modules for endpoint leaves. It is used to match against a
// manifest without loading application code.
func Placeholders(m *manifest.Manifest) *Registry {
	reg := NewRegistry()
	for _, mr := range m.Routes {
		for i, id := range mr.Modules {
			leaf := i == len(mr.Modules)-1
			switch {
			case leaf && mr.IsEndpoint():
				reg.Endpoint(id, StaticEndpoint(&endpoint.Module{}))
			case leaf:
				reg.Content(id, Static(&content.PageModule{}))
			default:
				if _, ok := reg.contentLoader(id); !ok {
					reg.Content(id, Static(&content.LayoutModule{}))
				}
			}
		}
	}
	return reg
}

package router

import (
	"strings"

	cityerrors "github.com/vango-dev/city/internal/errors"
	"github.com/vango-dev/city/pkg/content"
)

// Plan is the bound route table of an application. It must not be
// modified after NewPlan returns.
type Plan struct {
	// Routes in match order.
	Routes []Route

	// Menus maps a path prefix ("/docs/") to the menu shown below it.
	Menus map[string]*content.Menu

	// TrailingSlash makes page URLs canonical with a trailing slash.
	TrailingSlash bool
}

// PlanOption configures a Plan.
type PlanOption func(*Plan)

// WithMenus sets the plan's menus. Keys are normalized to end in "/".
func WithMenus(menus map[string]*content.Menu) PlanOption {
	return func(p *Plan) {
		for prefix, m := range menus {
			p.Menus[menuKey(prefix)] = m
		}
	}
}

// WithTrailingSlash sets the trailing slash policy of page routes.
func WithTrailingSlash(enabled bool) PlanOption {
	return func(p *Plan) { p.TrailingSlash = enabled }
}

// NewPlan returns a plan for routes, kept in the given order. It fails with
// ErrDuplicatePattern if two routes share a pattern.
func NewPlan(routes []Route, opts ...PlanOption) (*Plan, error) {
	seen := make(map[string]string, len(routes))
	for _, r := range routes {
		if r == nil {
			return nil, cityerrors.New("E213").WithDetail("nil route").Wrap(ErrInvalidPattern)
		}
		src := r.Pattern().String()
		if prev, dup := seen[src]; dup {
			return nil, cityerrors.New("E201").
				WithDetailf("%s and %s both compile to %s", prev, r.Path(), src).
				Wrap(ErrDuplicatePattern)
		}
		seen[src] = r.Path()
	}

	p := &Plan{
		Routes: append([]Route(nil), routes...),
		Menus:  make(map[string]*content.Menu),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Menu returns the menu whose prefix is the longest match for pathname.
func (p *Plan) Menu(pathname string) *content.Menu {
	target := menuKey(pathname)
	var (
		best    *content.Menu
		bestLen = -1
	)
	for prefix, m := range p.Menus {
		if len(prefix) > bestLen && strings.HasPrefix(target, prefix) {
			best, bestLen = m, len(prefix)
		}
	}
	return best
}

func menuKey(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	return path
}

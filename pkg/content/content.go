// Package content defines the page and layout modules a route resolves to,
// together with the navigation data (breadcrumbs, headings, menus) they carry.
package content

import (
	"github.com/vango-dev/city/pkg/endpoint"
	"github.com/vango-dev/city/pkg/head"
)

// Breadcrumb is one entry of a page's breadcrumb trail.
type Breadcrumb struct {
	Text string `json:"text"`
	Href string `json:"href,omitempty"`
}

// Heading is a heading found in a page's content.
type Heading struct {
	Text  string `json:"text"`
	ID    string `json:"id"`
	Level int    `json:"level"`
}

// Module is a loaded page or layout.
type Module interface {
	// Endpoint returns the request handlers declared by the module.
	Endpoint() *endpoint.Module

	// DocumentHead returns the module's head, or nil.
	DocumentHead() head.Head

	// Component returns the renderable default export.
	Component() any
}

// PageModule is the leaf module of a page route.
type PageModule struct {
	endpoint.Module

	Default     any
	Breadcrumbs []Breadcrumb
	Head        head.Head
	Headings    []Heading
}

func (p *PageModule) Endpoint() *endpoint.Module { return &p.Module }
func (p *PageModule) DocumentHead() head.Head    { return p.Head }
func (p *PageModule) Component() any             { return p.Default }

// LayoutModule wraps the pages below it.
type LayoutModule struct {
	endpoint.Module

	Default any
	Head    head.Head
}

func (l *LayoutModule) Endpoint() *endpoint.Module { return &l.Module }
func (l *LayoutModule) DocumentHead() head.Head    { return l.Head }
func (l *LayoutModule) Component() any             { return l.Default }

// State is the content state of a loaded page route.
type State struct {
	Breadcrumbs []Breadcrumb `json:"breadcrumbs,omitempty"`
	Headings    []Heading    `json:"headings,omitempty"`
	Modules     []Module     `json:"-"`
}

// NewState builds the state for modules ordered root layout first, page last.
// Breadcrumbs and headings come from the page module.
func NewState(modules []Module) State {
	st := State{Modules: modules}
	if len(modules) == 0 {
		return st
	}
	if page, ok := modules[len(modules)-1].(*PageModule); ok {
		st.Breadcrumbs = page.Breadcrumbs
		st.Headings = page.Headings
	}
	return st
}

// Heads returns the document heads of modules in order.
func Heads(modules []Module) []head.Head {
	out := make([]head.Head, 0, len(modules))
	for _, m := range modules {
		if h := m.DocumentHead(); h != nil {
			out = append(out, h)
		}
	}
	return out
}

// Endpoints returns the endpoint part of each module in order.
func Endpoints(modules []Module) []*endpoint.Module {
	out := make([]*endpoint.Module, len(modules))
	for i, m := range modules {
		out[i] = m.Endpoint()
	}
	return out
}

package city

import (
	"encoding/json"
	"net/http"

	"github.com/vango-dev/city/pkg/content"
	"github.com/vango-dev/city/pkg/endpoint"
	"github.com/vango-dev/city/pkg/head"
	"github.com/vango-dev/city/pkg/location"
)

// RequestInfo is the request part of a UserContext.
type RequestInfo struct {
	Method endpoint.Method `json:"method"`
}

// UserContext is the per-request context handed to renderers.
type UserContext struct {
	Route   location.RouteLocation `json:"route"`
	Request RequestInfo            `json:"request"`

	// Response is nil until dispatch completes.
	Response *endpoint.Normalized `json:"response,omitempty"`
}

// PageContext is everything a Renderer needs to produce a page.
type PageContext struct {
	UserContext

	ID    string              `json:"id"`
	State content.State       `json:"state"`
	Head  head.Resolved       `json:"head"`
	Menu  *content.Menu       `json:"menu,omitempty"`
	Page  *content.PageModule `json:"-"`

	// Modules are the layouts followed by the page.
	Modules []content.Module `json:"-"`
}

// Data returns the body produced by the route's handlers.
func (pc *PageContext) Data() any {
	if pc.Response == nil {
		return nil
	}
	return pc.Response.Body
}

// Renderer writes a page. Response headers and status are in
// pc.Response; the renderer decides the body format.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, pc *PageContext) error
}

// RendererFunc is a function adapter for Renderer.
type RendererFunc func(w http.ResponseWriter, r *http.Request, pc *PageContext) error

// Render implements Renderer.
func (f RendererFunc) Render(w http.ResponseWriter, r *http.Request, pc *PageContext) error {
	return f(w, r, pc)
}

// JSONRenderer writes the page data as a JSON document. It is the default
// renderer; applications serving HTML supply their own.
type JSONRenderer struct{}

type pageDocument struct {
	Route       location.RouteLocation `json:"route"`
	Head        head.Resolved          `json:"head"`
	Data        any                    `json:"data"`
	Breadcrumbs []content.Breadcrumb   `json:"breadcrumbs,omitempty"`
	Headings    []content.Heading      `json:"headings,omitempty"`
	Menu        *content.Menu          `json:"menu,omitempty"`
}

// Render implements Renderer.
func (JSONRenderer) Render(w http.ResponseWriter, r *http.Request, pc *PageContext) error {
	doc := pageDocument{
		Route:       pc.Route,
		Head:        pc.Head,
		Data:        pc.Data(),
		Breadcrumbs: pc.State.Breadcrumbs,
		Headings:    pc.State.Headings,
		Menu:        pc.Menu,
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	status := http.StatusOK
	if pc.Response != nil {
		status = pc.Response.Status
		for name, values := range pc.Response.Headers {
			w.Header()[name] = append([]string(nil), values...)
		}
	}
	w.Header().Set("Content-Type", endpoint.DefaultContentType)
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return nil
	}
	_, err = w.Write(payload)
	return err
}

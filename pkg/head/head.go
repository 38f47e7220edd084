// Package head models the document head (title, meta, links and styles)
// attached to a rendered page, and resolves it across a layout chain.
//
// A module declares its head either statically or as a function of the
// request:
//
//	var Head = head.StaticHead{Title: "Docs"}
//
//	var Head = head.ComputedHead(func(p head.Props) head.Resolved {
//	    h := p.Head
//	    h.Title = p.Head.Title + " | " + p.Params.Get("slug")
//	    return h
//	})
package head

import "github.com/vango-dev/city/pkg/location"

// Meta is a <meta> element.
type Meta struct {
	Content   string `json:"content,omitempty"`
	HTTPEquiv string `json:"httpEquiv,omitempty"`
	Name      string `json:"name,omitempty"`
	Property  string `json:"property,omitempty"`
	Key       string `json:"key,omitempty"`
}

// Link is a <link> element.
type Link struct {
	As             string `json:"as,omitempty"`
	CrossOrigin    string `json:"crossorigin,omitempty"`
	Disabled       bool   `json:"disabled,omitempty"`
	Href           string `json:"href,omitempty"`
	HrefLang       string `json:"hreflang,omitempty"`
	ID             string `json:"id,omitempty"`
	ImageSizes     string `json:"imagesizes,omitempty"`
	ImageSrcSet    string `json:"imagesrcset,omitempty"`
	Integrity      string `json:"integrity,omitempty"`
	Media          string `json:"media,omitempty"`
	Prefetch       string `json:"prefetch,omitempty"`
	ReferrerPolicy string `json:"referrerpolicy,omitempty"`
	Rel            string `json:"rel,omitempty"`
	Sizes          string `json:"sizes,omitempty"`
	Title          string `json:"title,omitempty"`
	Type           string `json:"type,omitempty"`
	Key            string `json:"key,omitempty"`
}

// Style is an inline <style> element.
type Style struct {
	Style string            `json:"style"`
	Props map[string]string `json:"props,omitempty"`
	Key   string            `json:"key,omitempty"`
}

// Resolved is the fully computed document head.
type Resolved struct {
	Title  string  `json:"title,omitempty"`
	Meta   []Meta  `json:"meta,omitempty"`
	Links  []Link  `json:"links,omitempty"`
	Styles []Style `json:"styles,omitempty"`
}

// Normalize returns a copy with non-nil slices.
func (r Resolved) Normalize() Resolved {
	out := Resolved{
		Title:  r.Title,
		Meta:   append(make([]Meta, 0, len(r.Meta)), r.Meta...),
		Links:  append(make([]Link, 0, len(r.Links)), r.Links...),
		Styles: append(make([]Style, 0, len(r.Styles)), r.Styles...),
	}
	return out
}

// Dedupe drops entries whose non-empty Key is repeated later in the same
// list, so the entry closest to the page wins.
func (r Resolved) Dedupe() Resolved {
	r.Meta = dedupe(r.Meta, func(m Meta) string { return m.Key })
	r.Links = dedupe(r.Links, func(l Link) string { return l.Key })
	r.Styles = dedupe(r.Styles, func(s Style) string { return s.Key })
	return r
}

func dedupe[T any](items []T, key func(T) string) []T {
	if len(items) < 2 {
		return items
	}
	last := make(map[string]int, len(items))
	for i, item := range items {
		if k := key(item); k != "" {
			last[k] = i
		}
	}
	out := items[:0:0]
	for i, item := range items {
		if k := key(item); k != "" && last[k] != i {
			continue
		}
		out = append(out, item)
	}
	return out
}

// Props is passed to a ComputedHead.
type Props struct {
	location.RouteLocation

	// Data is the body returned by the route's endpoint handler, if any.
	Data any

	// Head is the head resolved so far. Its slices are never nil.
	Head Resolved
}

// Head is either a StaticHead or a ComputedHead.
type Head interface {
	resolve(props Props) Resolved
}

// StaticHead is a head declared as plain data. It is merged into the
// accumulated head: a non-empty title replaces the current title and the
// meta, links and styles are appended.
type StaticHead Resolved

func (s StaticHead) resolve(props Props) Resolved {
	out := props.Head
	if s.Title != "" {
		out.Title = s.Title
	}
	out.Meta = append(out.Meta, s.Meta...)
	out.Links = append(out.Links, s.Links...)
	out.Styles = append(out.Styles, s.Styles...)
	return out
}

// ComputedHead derives the head from the request. Its result replaces the
// accumulated head.
type ComputedHead func(props Props) Resolved

func (c ComputedHead) resolve(props Props) Resolved {
	if c == nil {
		return props.Head
	}
	return c(props)
}

// Resolve folds heads in order (root layout first, page last).
// Nil heads are skipped.
func Resolve(props Props, heads ...Head) Resolved {
	acc := props.Head.Normalize()
	for _, h := range heads {
		if h == nil {
			continue
		}
		props.Head = acc
		acc = h.resolve(props).Normalize()
	}
	return acc.Dedupe()
}

package content

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Menu is a navigation tree.
type Menu struct {
	Text  string  `json:"text"`
	Href  string  `json:"href,omitempty"`
	Items []*Menu `json:"items,omitempty"`
}

// ParseMenu decodes a JSON menu tree.
func ParseMenu(data []byte) (*Menu, error) {
	var m Menu
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing menu: %w", err)
	}
	if m.Text == "" && len(m.Items) == 0 {
		return nil, fmt.Errorf("parsing menu: empty menu")
	}
	return &m, nil
}

// Walk visits m and its descendants depth-first. depth is 0 for m.
// Returning false from fn stops the walk.
func (m *Menu) Walk(fn func(item *Menu, depth int) bool) {
	m.walk(fn, 0)
}

func (m *Menu) walk(fn func(*Menu, int) bool, depth int) bool {
	if m == nil {
		return true
	}
	if !fn(m, depth) {
		return false
	}
	for _, item := range m.Items {
		if !item.walk(fn, depth+1) {
			return false
		}
	}
	return true
}

// Find returns the first entry whose Href equals href, ignoring a trailing
// slash on either side.
func (m *Menu) Find(href string) *Menu {
	want := strings.TrimSuffix(href, "/")
	var found *Menu
	m.Walk(func(item *Menu, _ int) bool {
		if item.Href != "" && strings.TrimSuffix(item.Href, "/") == want {
			found = item
			return false
		}
		return true
	})
	return found
}

// Breadcrumbs returns the trail of entries leading to href, excluding the
// root when it has no Href.
func (m *Menu) Breadcrumbs(href string) []Breadcrumb {
	target := m.Find(href)
	if target == nil {
		return nil
	}
	var path []*Menu
	var trail func(node *Menu) bool
	trail = func(node *Menu) bool {
		path = append(path, node)
		if node == target {
			return true
		}
		for _, item := range node.Items {
			if trail(item) {
				return true
			}
		}
		path = path[:len(path)-1]
		return false
	}
	trail(m)

	var out []Breadcrumb
	for _, node := range path {
		if node == m && node.Href == "" {
			continue
		}
		out = append(out, Breadcrumb{Text: node.Text, Href: node.Href})
	}
	return out
}

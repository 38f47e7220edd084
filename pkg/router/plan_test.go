package router

import (
	"errors"
	"testing"

	cityerrors "github.com/vango-dev/city/internal/errors"
	"github.com/vango-dev/city/pkg/content"
)

func TestNewPlanDuplicatePattern(t *testing.T) {
	a := Must(NewPageRoute("/blog/[id]"))
	b := Must(NewPageRoute("/blog/[slug]"))

	_, err := NewPlan([]Route{a, b})
	if !errors.Is(err, ErrDuplicatePattern) {
		t.Fatalf("error = %v, want ErrDuplicatePattern", err)
	}
	if cityerrors.Code(err) != "E201" {
		t.Errorf("code = %q, want E201", cityerrors.Code(err))
	}
}

func TestNewPlanKeepsOrder(t *testing.T) {
	routes := []Route{
		Must(NewPageRoute("/[slug]")),
		Must(NewPageRoute("/about")),
	}
	p, err := NewPlan(routes, WithTrailingSlash(true))
	if err != nil {
		t.Fatal(err)
	}
	if p.Routes[0].Path() != "/[slug]" || p.Routes[1].Path() != "/about" {
		t.Errorf("routes reordered: %s, %s", p.Routes[0].Path(), p.Routes[1].Path())
	}
	if !p.TrailingSlash {
		t.Error("TrailingSlash should be set")
	}

	routes[0] = nil
	if p.Routes[0] == nil {
		t.Error("plan should not alias the input slice")
	}
}

func TestNewPlanNilRoute(t *testing.T) {
	if _, err := NewPlan([]Route{nil}); !errors.Is(err, ErrInvalidPattern) {
		t.Errorf("error = %v, want ErrInvalidPattern", err)
	}
}

func TestPlanMenu(t *testing.T) {
	root := &content.Menu{Text: "Site"}
	docs := &content.Menu{Text: "Docs"}
	api := &content.Menu{Text: "API"}

	p, err := NewPlan(nil, WithMenus(map[string]*content.Menu{
		"/":          root,
		"/docs":      docs,
		"/docs/api/": api,
	}))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		path string
		want *content.Menu
	}{
		{"/", root},
		{"/about", root},
		{"/docs", docs},
		{"/docs/", docs},
		{"/docs/intro", docs},
		{"/docs/api", api},
		{"/docs/api/reference", api},
		{"/docsx", root},
	}
	for _, tt := range tests {
		if got := p.Menu(tt.path); got != tt.want {
			t.Errorf("Menu(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}

	empty, _ := NewPlan(nil)
	if empty.Menu("/docs") != nil {
		t.Error("Menu() without menus should be nil")
	}
}

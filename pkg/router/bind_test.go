package router

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	cityerrors "github.com/vango-dev/city/internal/errors"
	"github.com/vango-dev/city/pkg/content"
	"github.com/vango-dev/city/pkg/endpoint"
	"github.com/vango-dev/city/pkg/manifest"
)

func testManifest() *manifest.Manifest {
	m := manifest.New()
	m.TrailingSlash = true
	m.Routes = []manifest.Route{
		{Path: "/blog/[slug]", Pattern: `^/blog/([^/]+?)/?$`, ParamNames: []string{"slug"}, Modules: []string{"layout", "blog/[slug]"}},
		{Path: "/api/health", Pattern: `^/api/health/?$`, Type: manifest.TypeEndpoint, Modules: []string{"layout", "api/health"}},
		{Path: "/files/[...path]", Pattern: `^/files(?:/(.*?))?/?$`, ParamNames: []string{"path"}, Modules: []string{"files/[...path]"}},
	}
	m.Menus = map[string]*content.Menu{"/blog": {Text: "Blog"}}
	return m
}

func TestBind(t *testing.T) {
	var layoutLoads atomic.Int32
	onGet := func(ev *endpoint.RequestEvent) (*endpoint.Response, error) { return nil, nil }

	reg := NewRegistry().
		Content("layout", func(context.Context) (content.Module, error) {
			layoutLoads.Add(1)
			return &content.LayoutModule{Module: endpoint.Module{OnRequest: onGet}}, nil
		}).
		Content("blog/[slug]", Static(&content.PageModule{Default: "post"})).
		Content("files/[...path]", Static(&content.PageModule{})).
		Endpoint("api/health", StaticEndpoint(&endpoint.Module{OnGet: onGet}))

	plan, err := Bind(testManifest(), reg)
	if err != nil {
		t.Fatalf("Bind error: %v", err)
	}

	if len(plan.Routes) != 3 {
		t.Fatalf("routes = %d, want 3", len(plan.Routes))
	}
	if !plan.TrailingSlash {
		t.Error("TrailingSlash not carried over")
	}
	if plan.Menu("/blog/x") == nil {
		t.Error("menu not carried over")
	}
	if plan.Routes[1].Type() != RouteTypeEndpoint {
		t.Errorf("route 1 type = %q", plan.Routes[1].Type())
	}
	if plan.Routes[0].Path() != "/blog/[slug]" {
		t.Errorf("Path() = %q", plan.Routes[0].Path())
	}

	r := New(plan)
	ctx := context.Background()

	m, _ := r.Match("/blog/hello")
	if _, err := r.LoadContent(ctx, m); err != nil {
		t.Fatalf("LoadContent error: %v", err)
	}

	m, _ = r.Match("/api/health")
	loaded, err := r.Load(ctx, m)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(loaded.Endpoints) != 2 || loaded.Endpoints[0].OnRequest == nil {
		t.Error("layout handlers should be part of the endpoint chain")
	}

	if got := layoutLoads.Load(); got != 1 {
		t.Errorf("shared layout loaded %d times, want 1", got)
	}

	m, ok := r.Match("/files/a%2Fb/c")
	if !ok || m.Params["path"] != "a/b/c" {
		t.Errorf("catch-all param = %v", m)
	}
}

func TestBindErrors(t *testing.T) {
	reg := NewRegistry().Content("layout", Static(&content.LayoutModule{}))

	_, err := Bind(testManifest(), reg)
	if !errors.Is(err, ErrUnknownModule) || cityerrors.Code(err) != "E212" {
		t.Errorf("error = %v, want E212", err)
	}

	bad := manifest.New()
	bad.Routes = []manifest.Route{{Path: "/x", Pattern: `^/x(`, Modules: nil}}
	if _, err := Bind(bad, reg); cityerrors.Code(err) != "E213" {
		t.Errorf("bad pattern code = %q, want E213", cityerrors.Code(err))
	}

	typo := manifest.New()
	typo.Routes = []manifest.Route{{Path: "/x", Pattern: `^/x/?$`, Type: "endpoin", Modules: []string{"layout"}}}
	if _, err := Bind(typo, reg); !errors.Is(err, ErrInvalidRouteType) || cityerrors.Code(err) != "E208" {
		t.Errorf("unknown type error = %v, want E208", err)
	}

	mismatch := manifest.New()
	mismatch.Routes = []manifest.Route{{Path: "/x/[id]", Pattern: `^/x/([^/]+?)/?$`}}
	if _, err := Bind(mismatch, reg); !errors.Is(err, ErrParamCountMismatch) {
		t.Errorf("mismatch error = %v", err)
	}
}

func TestPlaceholders(t *testing.T) {
	m := testManifest()
	reg := Placeholders(m)

	want := []string{"api/health", "blog/[slug]", "files/[...path]", "layout"}
	got := reg.IDs()
	if len(got) != len(want) {
		t.Fatalf("IDs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("IDs()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	plan, err := Bind(m, reg)
	if err != nil {
		t.Fatalf("Bind(placeholders) error: %v", err)
	}
	r := New(plan)
	match, _ := r.Match("/blog/x")
	if _, err := r.LoadContent(context.Background(), match); err != nil {
		t.Errorf("LoadContent error: %v", err)
	}
}

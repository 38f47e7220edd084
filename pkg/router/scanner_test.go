package router

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	cityerrors "github.com/vango-dev/city/internal/errors"
	"github.com/vango-dev/city/pkg/manifest"
)

// writeTree creates files under a temp routes directory.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, src := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(src), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

const (
	pageSrc     = "package routes\n\nfunc Page() any { return nil }\n"
	layoutSrc   = "package routes\n\nfunc Layout() any { return nil }\n"
	endpointSrc = "package api\n\nfunc OnGet() {}\n\nvar OnPost = func() {}\n"
)

func TestConvertSegment(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"about", "about"},
		{"[id]", "[id]"},
		{"[...slug]", "[...slug]"},
		{"_id_", "[id]"},
		{"_user_id_", "[user_id]"},
		{"_slug___", "[...slug]"},
		{"_helpers", "_helpers"},
	}

	for _, tt := range tests {
		if got := convertSegment(tt.name); got != tt.want {
			t.Errorf("convertSegment(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestDirURL(t *testing.T) {
	tests := []struct {
		dir  string
		want string
	}{
		{".", "/"},
		{"blog", "/blog"},
		{"users/_id_/posts", "/users/[id]/posts"},
		{"docs/[...path]", "/docs/[...path]"},
	}

	for _, tt := range tests {
		if got := dirURL(tt.dir); got != tt.want {
			t.Errorf("dirURL(%q) = %q, want %q", tt.dir, got, tt.want)
		}
	}
}

func TestScannerScan(t *testing.T) {
	root := writeTree(t, map[string]string{
		"index.go":              pageSrc,
		"layout.go":             layoutSrc,
		"about.go":              "package routes\n\nvar Page = struct{}{}\n\nvar Head = struct{}{}\n",
		"blog/layout.go":        layoutSrc,
		"blog/index.go":         pageSrc,
		"blog/[slug].go":        "package blog\n\nfunc Page() any { return nil }\n\nfunc OnGet() {}\n\nvar Breadcrumbs = 1\n",
		"blog/menu.json":        `{"text": "Blog", "items": [{"text": "Latest", "href": "/blog/latest"}]}`,
		"blog/helpers.go":       "package blog\n\nfunc format() string { return \"\" }\n",
		"blog/slug_test.go":     "package blog\n",
		"users/_id_/index.go":   pageSrc,
		"docs/[...path].go":     pageSrc,
		"api/health.go":         endpointSrc,
		"_components/button.go": pageSrc,
		".hidden/index.go":      pageSrc,
		"README.md":             "# routes",
	})

	m, err := NewScanner(root).Scan()
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}

	var paths []string
	for _, r := range m.Routes {
		paths = append(paths, r.Path)
	}
	wantPaths := []string{
		"/api/health",
		"/blog/[slug]",
		"/users/[id]",
		"/about",
		"/blog",
		"/",
		"/docs/[...path]",
	}
	if !reflect.DeepEqual(paths, wantPaths) {
		t.Errorf("paths = %v\nwant    %v", paths, wantPaths)
	}

	slug, _ := m.Find("/blog/[slug]")
	if !reflect.DeepEqual(slug.Modules, []string{"layout", "blog/layout", "blog/[slug]"}) {
		t.Errorf("blog/[slug] modules = %v", slug.Modules)
	}
	if !reflect.DeepEqual(slug.Methods, []string{"OnGet"}) {
		t.Errorf("blog/[slug] methods = %v", slug.Methods)
	}
	if slug.IsEndpoint() {
		t.Error("a file with Page and OnGet is a page route")
	}
	if !reflect.DeepEqual(slug.ParamNames, []string{"slug"}) {
		t.Errorf("ParamNames = %v", slug.ParamNames)
	}

	health, _ := m.Find("/api/health")
	if !health.IsEndpoint() {
		t.Error("/api/health should be an endpoint route")
	}
	if !reflect.DeepEqual(health.Methods, []string{"OnGet", "OnPost"}) {
		t.Errorf("health methods = %v", health.Methods)
	}
	if !reflect.DeepEqual(health.Modules, []string{"layout", "api/health"}) {
		t.Errorf("health modules = %v", health.Modules)
	}

	users, _ := m.Find("/users/[id]")
	if users.File != "users/_id_/index.go" || users.Pattern != `^/users/([^/]+?)/?$` {
		t.Errorf("users route = %+v", users)
	}

	if menu := m.Menus["/blog/"]; menu == nil || menu.Text != "Blog" {
		t.Errorf("blog menu = %v", m.Menus)
	}
	if m.Version != manifest.Version {
		t.Errorf("Version = %d", m.Version)
	}
}

func TestScannerTrailingSlashOption(t *testing.T) {
	root := writeTree(t, map[string]string{"index.go": pageSrc})

	m, err := NewScanner(root).ScanWithOptions(ScanOptions{TrailingSlash: true})
	if err != nil {
		t.Fatal(err)
	}
	if !m.TrailingSlash {
		t.Error("TrailingSlash should be recorded")
	}
}

func TestScannerErrors(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		code  string
	}{
		{
			name:  "duplicate route",
			files: map[string]string{"blog/[id].go": pageSrc, "blog/_slug_.go": pageSrc},
			code:  "E201",
		},
		{
			name:  "head without page",
			files: map[string]string{"api.go": "package routes\n\nvar Head = 1\n\nfunc OnGet() {}\n"},
			code:  "E206",
		},
		{
			name:  "orphan layout",
			files: map[string]string{"index.go": pageSrc, "admin/layout.go": layoutSrc},
			code:  "E207",
		},
		{
			name:  "catch-all not last",
			files: map[string]string{"[...path]/edit.go": pageSrc},
			code:  "E204",
		},
		{
			name:  "bad menu",
			files: map[string]string{"index.go": pageSrc, "menu.json": "{}"},
			code:  "E214",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewScanner(writeTree(t, tt.files)).Scan()
			if err == nil {
				t.Fatal("expected error")
			}
			var ce *cityerrors.CityError
			if !errors.As(err, &ce) {
				t.Fatalf("error %T does not contain a CityError: %v", err, err)
			}
			if ce.Code != tt.code {
				t.Errorf("code = %q, want %q (%v)", ce.Code, tt.code, err)
			}
		})
	}
}

func TestScannerParseError(t *testing.T) {
	root := writeTree(t, map[string]string{"index.go": "package routes\n\nfunc Page( {\n"})
	if _, err := NewScanner(root).Scan(); err == nil {
		t.Error("expected parse error")
	}
}

func TestScannerWithoutValidation(t *testing.T) {
	root := writeTree(t, map[string]string{"index.go": pageSrc, "admin/layout.go": layoutSrc})
	m, err := NewScanner(root).ScanWithOptions(ScanOptions{})
	if err != nil {
		t.Fatalf("unvalidated scan error: %v", err)
	}
	if len(m.Routes) != 1 {
		t.Errorf("routes = %d, want 1", len(m.Routes))
	}
}

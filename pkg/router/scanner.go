package router

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	cityerrors "github.com/vango-dev/city/internal/errors"
	"github.com/vango-dev/city/pkg/content"
	"github.com/vango-dev/city/pkg/manifest"
)

// Handler declarations recognized in route files, in endpoint.Module order.
var handlerNames = []string{"OnGet", "OnPost", "OnPut", "OnPatch", "OnDelete", "OnHead", "OnOptions", "OnRequest"}

// Special file names.
const (
	indexFile  = "index.go"
	layoutFile = "layout.go"
	menuFile   = "menu.json"
)

// ScannedRoute is a route file discovered by the scanner.
type ScannedRoute struct {
	// Path is the route path in bracket notation (e.g., "/blog/[slug]").
	Path string

	// File is the source file, relative to the routes directory.
	File string

	// ModuleID identifies the module in a Registry.
	ModuleID string

	// Layouts are the module IDs of the enclosing layouts, root first.
	Layouts []string

	// Pattern is the compiled Path.
	Pattern *Pattern

	HasPage        bool
	HasHead        bool
	HasBreadcrumbs bool
	HasHeadings    bool

	// Methods lists declared handlers (OnGet, ..., OnRequest).
	Methods []string

	// dir is the directory of File, "." for the root.
	dir string
}

// Type returns the route type implied by the file's declarations.
func (r *ScannedRoute) Type() RouteType {
	if !r.HasPage && len(r.Methods) > 0 {
		return RouteTypeEndpoint
	}
	return RouteTypePage
}

// ScannedLayout is a layout.go file discovered by the scanner.
type ScannedLayout struct {
	// Path is the URL path of the layout's directory.
	Path string

	// File is the source file, relative to the routes directory.
	File string

	// ModuleID identifies the module in a Registry.
	ModuleID string

	HasHead bool
	Methods []string

	dir string
}

// Scanner scans a routes directory and builds a manifest.
type Scanner struct {
	rootDir string
}

// NewScanner creates a new route scanner.
func NewScanner(rootDir string) *Scanner {
	return &Scanner{rootDir: rootDir}
}

// ScanOptions configures scanning behavior.
type ScanOptions struct {
	// Validate enables route validation (duplicates, metadata without a page, orphan layouts).
	Validate bool

	// Sort orders routes by specificity. Without it routes keep walk order.
	Sort bool

	// TrailingSlash is recorded in the manifest.
	TrailingSlash bool
}

// Scan reads all route files and returns the validated, sorted manifest.
func (s *Scanner) Scan() (*manifest.Manifest, error) {
	return s.ScanWithOptions(ScanOptions{Validate: true, Sort: true})
}

// ScanWithOptions reads all route files with configurable validation and sorting.
func (s *Scanner) ScanWithOptions(opts ScanOptions) (*manifest.Manifest, error) {
	routes, layouts, menus, err := s.ScanFiles()
	if err != nil {
		return nil, err
	}

	if opts.Validate {
		if err := NewValidator(routes, layouts).Validate(); err != nil {
			return nil, err
		}
	}
	if opts.Sort {
		sort.SliceStable(routes, func(i, j int) bool {
			return moreSpecific(routes[i].Path, routes[j].Path)
		})
	}

	m := manifest.New()
	m.TrailingSlash = opts.TrailingSlash
	m.Menus = menus
	for _, r := range routes {
		entry := manifest.Route{
			Path:       r.Path,
			Pattern:    r.Pattern.Regexp.String(),
			ParamNames: r.Pattern.Names,
			Modules:    append(append([]string(nil), r.Layouts...), r.ModuleID),
			Methods:    r.Methods,
			File:       r.File,
		}
		if r.Type() == RouteTypeEndpoint {
			entry.Type = manifest.TypeEndpoint
		}
		m.Routes = append(m.Routes, entry)
	}
	return m, nil
}

// ScanFiles walks the routes directory and returns the route files, layouts
// and menus it finds, without validation or sorting. Routes carry their
// layout chains.
func (s *Scanner) ScanFiles() ([]ScannedRoute, []ScannedLayout, map[string]*content.Menu, error) {
	var (
		routes  []ScannedRoute
		layouts []ScannedLayout
		menus   = make(map[string]*content.Menu)
	)

	err := filepath.WalkDir(s.rootDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(s.rootDir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && skipName(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		name := d.Name()
		dir := path.Dir(rel)

		if name == menuFile {
			menu, err := s.scanMenu(p, rel)
			if err != nil {
				return err
			}
			menus[menuKey(dirURL(dir))] = menu
			return nil
		}

		if !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			return nil
		}
		base := strings.TrimSuffix(name, ".go")
		if name != layoutFile && name != indexFile && skipName(base) {
			return nil
		}

		decls, err := scanDecls(p)
		if err != nil {
			return fmt.Errorf("scanning %s: %w", p, err)
		}
		moduleID := strings.TrimSuffix(rel, ".go")

		if name == layoutFile {
			layouts = append(layouts, ScannedLayout{
				Path:     dirURL(dir),
				File:     rel,
				ModuleID: moduleID,
				HasHead:  decls.head,
				Methods:  decls.methods,
				dir:      dir,
			})
			return nil
		}

		if !decls.page && !decls.head && !decls.breadcrumbs && !decls.headings && len(decls.methods) == 0 {
			// Helper file with no route declarations.
			return nil
		}

		urlPath := dirURL(dir)
		if name != indexFile {
			urlPath = path.Join(urlPath, convertSegment(base))
		}

		pattern, err := CompilePattern(urlPath)
		if err != nil {
			if ce, ok := err.(*cityerrors.CityError); ok {
				ce.WithLocation(p, 1, 0)
			}
			return err
		}

		routes = append(routes, ScannedRoute{
			Path:           urlPath,
			File:           rel,
			ModuleID:       moduleID,
			Pattern:        pattern,
			HasPage:        decls.page,
			HasHead:        decls.head,
			HasBreadcrumbs: decls.breadcrumbs,
			HasHeadings:    decls.headings,
			Methods:        decls.methods,
			dir:            dir,
		})
		return nil
	})
	if err != nil {
		return nil, nil, nil, err
	}

	sort.SliceStable(layouts, func(i, j int) bool {
		return depth(layouts[i].dir) < depth(layouts[j].dir)
	})
	for i := range routes {
		for _, l := range layouts {
			if inDir(routes[i].dir, l.dir) {
				routes[i].Layouts = append(routes[i].Layouts, l.ModuleID)
			}
		}
	}

	return routes, layouts, menus, nil
}

func (s *Scanner) scanMenu(p, rel string) (*content.Menu, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	menu, err := content.ParseMenu(data)
	if err != nil {
		return nil, cityerrors.New("E214").
			WithDetail(rel).
			WithLocation(p, 1, 0).
			Wrap(fmt.Errorf("%w: %w", ErrInvalidMenu, err))
	}
	return menu, nil
}

type fileDecls struct {
	page, head, breadcrumbs, headings bool
	methods                           []string
}

// scanDecls parses a Go file and records its exported route declarations.
// Both functions and variables count: "func Page" and "var Page = ...".
func scanDecls(p string) (fileDecls, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, p, nil, parser.SkipObjectResolution)
	if err != nil {
		return fileDecls{}, err
	}

	names := make(map[string]bool)
	for _, decl := range f.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Recv == nil && d.Name.IsExported() {
				names[d.Name.Name] = true
			}
		case *ast.GenDecl:
			if d.Tok != token.VAR {
				continue
			}
			for _, spec := range d.Specs {
				vs, ok := spec.(*ast.ValueSpec)
				if !ok {
					continue
				}
				for _, ident := range vs.Names {
					if ident.IsExported() {
						names[ident.Name] = true
					}
				}
			}
		}
	}

	decls := fileDecls{
		page:        names["Page"],
		head:        names["Head"],
		breadcrumbs: names["Breadcrumbs"],
		headings:    names["Headings"],
	}
	for _, h := range handlerNames {
		if names[h] {
			decls.methods = append(decls.methods, h)
		}
	}
	return decls, nil
}

var (
	underscoreCatchAll = regexp.MustCompile(`^_(\w+?)___$`)
	underscoreParam    = regexp.MustCompile(`^_(\w+)_$`)
)

// convertSegment converts a file or directory name to a route path segment.
// Bracket names are kept; the Go-friendly forms _id_ and _slug___ become
// [id] and [...slug].
func convertSegment(name string) string {
	if m := underscoreCatchAll.FindStringSubmatch(name); m != nil {
		return "[..." + m[1] + "]"
	}
	if m := underscoreParam.FindStringSubmatch(name); m != nil {
		return "[" + m[1] + "]"
	}
	return name
}

// skipName reports whether a file or directory is private to the routes
// tree: dot files and "_" names that are not params.
func skipName(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	return strings.HasPrefix(name, "_") && convertSegment(name) == name
}

// dirURL converts a slash-separated directory, relative to the routes
// directory, to its URL path.
func dirURL(dir string) string {
	if dir == "." || dir == "" {
		return "/"
	}
	segs := strings.Split(dir, "/")
	for i, s := range segs {
		segs[i] = convertSegment(s)
	}
	return "/" + strings.Join(segs, "/")
}

func depth(dir string) int {
	if dir == "." {
		return 0
	}
	return strings.Count(dir, "/") + 1
}

// inDir reports whether dir is ancestor or equal to child.
func inDir(child, dir string) bool {
	return dir == "." || child == dir || strings.HasPrefix(child, dir+"/")
}

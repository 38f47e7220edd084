// Package manifest defines the serialized route table produced by scanning a
// routes directory, and the stores it is kept in.
//
// A manifest is written at build time (see the city routes command) and
// bound to module loaders at startup:
//
//	store, err := manifest.Open(ctx, "s3://my-bucket/city.manifest.json")
//	m, err := store.Load(ctx)
//	plan, err := router.Bind(m, registry)
package manifest

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/vango-dev/city/internal/errors"
	"github.com/vango-dev/city/pkg/content"
)

// Version is the manifest format version written by this package.
const Version = 1

// TypeEndpoint marks endpoint routes. Page routes leave Type empty.
const TypeEndpoint = "endpoint"

var (
	// ErrUnsupportedVersion is returned when decoding a manifest of another version.
	ErrUnsupportedVersion = stderrors.New("unsupported manifest version")

	// ErrNotFound is returned by stores when no manifest exists at the location.
	ErrNotFound = stderrors.New("manifest not found")
)

// Manifest is the serialized route table.
type Manifest struct {
	Version       int                      `json:"version"`
	GeneratedAt   time.Time                `json:"generatedAt"`
	TrailingSlash bool                     `json:"trailingSlash,omitempty"`
	Routes        []Route                  `json:"routes"`
	Menus         map[string]*content.Menu `json:"menus,omitempty"`
}

// Route is one entry of the route table, in match order.
type Route struct {
	// Path is the route path in bracket notation (e.g., "/blog/[slug]").
	Path string `json:"path"`

	// Pattern is the regular expression matched against request paths.
	Pattern string `json:"pattern"`

	// Type is empty for page routes and TypeEndpoint for endpoint routes.
	Type string `json:"type,omitempty"`

	// ParamNames names the pattern's capture groups in order.
	ParamNames []string `json:"paramNames,omitempty"`

	// Modules lists module IDs from the root layout to the route module.
	Modules []string `json:"modules"`

	// Methods lists the handlers the route module declares (e.g., "OnGet").
	Methods []string `json:"methods,omitempty"`

	// File is the route module's source file, relative to the routes directory.
	File string `json:"file,omitempty"`
}

// IsEndpoint reports whether r is an endpoint route.
func (r Route) IsEndpoint() bool {
	return r.Type == TypeEndpoint
}

// New returns an empty manifest of the current version.
func New() *Manifest {
	return &Manifest{
		Version:     Version,
		GeneratedAt: time.Now().UTC(),
		Routes:      []Route{},
	}
}

// Encode returns the indented JSON form of m, ending in a newline. A zero
// Version is written as the current Version; m is not modified.
func Encode(m *Manifest) ([]byte, error) {
	out := *m
	if out.Version == 0 {
		out.Version = Version
	}
	data, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return nil, errors.New("E221").Wrap(err)
	}
	return append(data, '\n'), nil
}

// Decode parses a manifest and checks its version.
func Decode(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.New("E221").WithDetail(err.Error()).Wrap(err)
	}
	if m.Version != Version {
		return nil, errors.New("E220").
			WithDetailf("got version %d, want %d", m.Version, Version).
			WithSuggestion("Regenerate the manifest with 'city routes --out'").
			Wrap(ErrUnsupportedVersion)
	}
	if m.Routes == nil {
		m.Routes = []Route{}
	}
	return &m, nil
}

// Find returns the route with the given path.
func (m *Manifest) Find(path string) (Route, bool) {
	for _, r := range m.Routes {
		if r.Path == path {
			return r, true
		}
	}
	return Route{}, false
}

// ModuleIDs returns every module ID referenced by the manifest, in first-use order.
func (m *Manifest) ModuleIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, r := range m.Routes {
		for _, id := range r.Modules {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}

func (r Route) String() string {
	kind := "page"
	if r.IsEndpoint() {
		kind = "endpoint"
	}
	return fmt.Sprintf("%s %s (%s)", kind, r.Path, r.Pattern)
}

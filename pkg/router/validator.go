package router

import (
	"fmt"
	"sort"
	"strings"

	cityerrors "github.com/vango-dev/city/internal/errors"
)

// Validator checks scanned routes for conflicts.
type Validator struct {
	routes  []ScannedRoute
	layouts []ScannedLayout
	errors  []*cityerrors.CityError
}

// MultiValidationError wraps every problem found by a Validator.
type MultiValidationError struct {
	Errors []*cityerrors.CityError
}

func (e *MultiValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d route validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (e *MultiValidationError) Unwrap() []error {
	out := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		out[i] = err
	}
	return out
}

// NewValidator creates a new route validator.
func NewValidator(routes []ScannedRoute, layouts []ScannedLayout) *Validator {
	return &Validator{routes: routes, layouts: layouts}
}

// Validate returns nil if the routes are valid, or a *MultiValidationError.
func (v *Validator) Validate() error {
	v.errors = nil

	v.validateDuplicateRoutes()
	v.validatePageMetadata()
	v.validateLayouts()

	if len(v.errors) > 0 {
		return &MultiValidationError{Errors: v.errors}
	}
	return nil
}

// validateDuplicateRoutes reports files whose paths compile to the same
// pattern, e.g. blog/[id].go and blog/_slug_.go.
func (v *Validator) validateDuplicateRoutes() {
	byPattern := make(map[string][]ScannedRoute)
	var order []string
	for _, r := range v.routes {
		key := r.Pattern.Regexp.String()
		if _, ok := byPattern[key]; !ok {
			order = append(order, key)
		}
		byPattern[key] = append(byPattern[key], r)
	}

	for _, key := range order {
		routes := byPattern[key]
		if len(routes) <= 1 {
			continue
		}
		files := make([]string, len(routes))
		for i, r := range routes {
			files[i] = r.File + " → " + r.Path
		}
		v.errors = append(v.errors, cityerrors.New("E201").
			WithDetail(strings.Join(files, ", ")).
			WithSuggestion("Remove or rename one of the files").
			Wrap(ErrDuplicatePattern))
	}
}

// validatePageMetadata reports files that declare page metadata without
// a Page.
func (v *Validator) validatePageMetadata() {
	for _, r := range v.routes {
		if r.HasPage || !(r.HasHead || r.HasBreadcrumbs || r.HasHeadings) {
			continue
		}
		v.errors = append(v.errors, cityerrors.New("E206").
			WithDetail(r.File).
			WithSuggestion("Declare Page, or move Head, Breadcrumbs and Headings to a page file"))
	}
}

// validateLayouts reports layouts with no route at or below their directory.
func (v *Validator) validateLayouts() {
	for _, l := range v.layouts {
		used := false
		for _, r := range v.routes {
			if inDir(r.dir, l.dir) {
				used = true
				break
			}
		}
		if !used {
			v.errors = append(v.errors, cityerrors.New("E207").
				WithDetail(l.File).
				WithSuggestion("Add a route below "+l.Path+" or delete the layout"))
		}
	}
}

// SortBySpecificity orders routes so that first-wins matching picks the most
// specific route:
//
//  1. Routes without a catch-all before catch-all routes
//  2. More segments before fewer
//  3. Per segment, left to right: static before mixed ("post-[id]") before param
//
// Ties keep their input order.
func SortBySpecificity(routes []Route) {
	sort.SliceStable(routes, func(i, j int) bool {
		return moreSpecific(routes[i].Path(), routes[j].Path())
	})
}

// Segment kinds, most specific first.
const (
	segCatchAll = iota
	segParam
	segMixed
	segStatic
)

func segmentKind(seg string) int {
	if _, ok := catchAllName(seg); ok {
		return segCatchAll
	}
	if strings.HasPrefix(seg, ":") {
		return segParam
	}
	open := strings.IndexByte(seg, '[')
	if open < 0 {
		return segStatic
	}
	if open == 0 && strings.IndexByte(seg, ']') == len(seg)-1 {
		return segParam
	}
	return segMixed
}

func hasCatchAll(segs []string) bool {
	return len(segs) > 0 && segmentKind(segs[len(segs)-1]) == segCatchAll
}

// moreSpecific reports whether route path a should be matched before b.
func moreSpecific(a, b string) bool {
	sa, sb := splitSegments(a), splitSegments(b)
	if ca, cb := hasCatchAll(sa), hasCatchAll(sb); ca != cb {
		return cb
	}
	if len(sa) != len(sb) {
		return len(sa) > len(sb)
	}
	for i := range sa {
		ka, kb := segmentKind(sa[i]), segmentKind(sb[i])
		if ka != kb {
			return ka > kb
		}
	}
	return false
}

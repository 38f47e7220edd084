package router

import (
	"errors"
	"strings"
	"testing"
)

func scanned(path, file string) ScannedRoute {
	return ScannedRoute{
		Path:    path,
		File:    file,
		Pattern: MustCompilePattern(path),
		HasPage: true,
		dir:     fileDir(file),
	}
}

func fileDir(file string) string {
	if i := strings.LastIndexByte(file, '/'); i >= 0 {
		return file[:i]
	}
	return "."
}

func TestValidatorValid(t *testing.T) {
	routes := []ScannedRoute{
		scanned("/", "index.go"),
		scanned("/blog/[slug]", "blog/[slug].go"),
	}
	layouts := []ScannedLayout{{Path: "/blog", File: "blog/layout.go", dir: "blog"}}

	if err := NewValidator(routes, layouts).Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestValidatorCollectsAllErrors(t *testing.T) {
	meta := scanned("/feed", "feed.go")
	meta.HasPage = false
	meta.HasHeadings = true
	meta.Methods = []string{"OnGet"}

	routes := []ScannedRoute{
		scanned("/users/[id]", "users/[id].go"),
		scanned("/users/[name]", "users/_name_.go"),
		meta,
	}
	layouts := []ScannedLayout{{Path: "/admin", File: "admin/layout.go", dir: "admin"}}

	err := NewValidator(routes, layouts).Validate()
	var multi *MultiValidationError
	if !errors.As(err, &multi) {
		t.Fatalf("error = %T, want *MultiValidationError", err)
	}

	var codes []string
	for _, e := range multi.Errors {
		codes = append(codes, e.Code)
	}
	if strings.Join(codes, ",") != "E201,E206,E207" {
		t.Errorf("codes = %v, want [E201 E206 E207]", codes)
	}
	if !errors.Is(err, ErrDuplicatePattern) {
		t.Error("errors.Is should see ErrDuplicatePattern through MultiValidationError")
	}
	if !strings.HasPrefix(err.Error(), "3 route validation errors:") {
		t.Errorf("Error() = %q", err.Error())
	}
	if !strings.Contains(multi.Errors[0].Detail, "users/_name_.go → /users/[name]") {
		t.Errorf("duplicate detail = %q", multi.Errors[0].Detail)
	}
}

func TestScannedRouteType(t *testing.T) {
	r := ScannedRoute{Methods: []string{"OnPost"}}
	if r.Type() != RouteTypeEndpoint {
		t.Errorf("handlers only: Type() = %q", r.Type())
	}
	r.HasPage = true
	if r.Type() != RouteTypePage {
		t.Errorf("with Page: Type() = %q", r.Type())
	}
}

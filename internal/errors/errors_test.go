package errors

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "route error",
			code:    "E201",
			wantMsg: "Duplicate route pattern",
			wantCat: CategoryRoute,
		},
		{
			name:    "manifest error",
			code:    "E220",
			wantMsg: "Unsupported manifest version",
			wantCat: CategoryManifest,
		},
		{
			name:    "config error",
			code:    "E120",
			wantMsg: "Invalid configuration file",
			wantCat: CategoryConfig,
		},
		{
			name:    "unknown error code",
			code:    "E999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryRoute, "route %q not found", "/x")
	if err.Message != `route "/x" not found` {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Category != CategoryRoute {
		t.Errorf("Category = %q, want %q", err.Category, CategoryRoute)
	}
}

func TestCityError_Error(t *testing.T) {
	err := New("E201")
	if got, want := err.Error(), "E201: Duplicate route pattern"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	err.WithDetail("/blog")
	if got, want := err.Error(), "E201: Duplicate route pattern (/blog)"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	plain := &CityError{Message: "test error"}
	if plain.Error() != "test error" {
		t.Errorf("Error() = %q, want %q", plain.Error(), "test error")
	}
}

func TestCityError_WithLocation(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "index.go")
	content := "package blog\n\nfunc Page() {}\n\nfunc OnGet() {}\n"
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	err := New("E206").WithLocation(tmpFile, 3, 6)

	if err.Location == nil {
		t.Fatal("Location is nil")
	}
	if err.Location.Line != 3 || err.Location.Column != 6 {
		t.Errorf("Location = %v", err.Location)
	}
	if len(err.Context) == 0 {
		t.Error("Context should not be empty")
	}
}

func TestCityError_WrapAndIs(t *testing.T) {
	sentinel := stderrors.New("duplicate")
	err := New("E201").Wrap(sentinel)

	if !stderrors.Is(err, sentinel) {
		t.Error("errors.Is should find the wrapped sentinel")
	}
	if err.Unwrap() != sentinel {
		t.Error("Unwrap() should return wrapped error")
	}

	outer := fmt.Errorf("building plan: %w", err)
	if Code(outer) != "E201" {
		t.Errorf("Code() = %q, want E201", Code(outer))
	}
	if Code(sentinel) != "" {
		t.Error("Code() of a plain error should be empty")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E160") != nil {
		t.Error("FromError(nil, ...) should return nil")
	}

	ce := New("E201")
	if FromError(ce, "E160") != ce {
		t.Error("FromError should return CityError as-is")
	}
	if FromError(fmt.Errorf("scan: %w", ce), "E160") != ce {
		t.Error("FromError should find a wrapped CityError")
	}

	stdErr := stderrors.New("boom")
	result := FromError(stdErr, "E160")
	if result.Wrapped != stdErr || result.Code != "E160" {
		t.Error("Standard error should be wrapped with the given code")
	}
}

func TestLocation_String(t *testing.T) {
	tests := []struct {
		name string
		loc  *Location
		want string
	}{
		{"nil location", nil, ""},
		{"with column", &Location{File: "test.go", Line: 10, Column: 5}, "test.go:10:5"},
		{"without column", &Location{File: "test.go", Line: 10}, "test.go:10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.loc.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("E202").
		WithLocation("app/routes/blog/[slug].go", 1, 0).
		WithSuggestion("Name every capture group").
		Wrap(stderrors.New("3 names, 2 groups"))

	formatted := err.Format()

	for _, want := range []string{
		"ERROR E202: Route parameter count mismatch",
		"app/routes/blog/[slug].go:1",
		"parameter names differs",
		"Cause: 3 names, 2 groups",
		"Hint: Name every capture group",
		"Learn more: https://city.vango.dev/errors/E202",
	} {
		if !strings.Contains(formatted, want) {
			t.Errorf("Format() missing %q:\n%s", want, formatted)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	err := New("E201").WithLocation("routes.go", 10, 5)
	want := "routes.go:10:5: E201: Duplicate route pattern"
	if got := err.FormatCompact(); got != want {
		t.Errorf("FormatCompact() = %q, want %q", got, want)
	}
}

func TestFormatJSON(t *testing.T) {
	err := New("E220").WithDetail(`version "9"`).WithLocation("m.json", 1, 1)
	out := err.FormatJSON()

	for _, want := range []string{
		`"code":"E220"`,
		`"category":"manifest"`,
		`"message":"Unsupported manifest version"`,
		`"detail":"version \"9\""`,
		`"location":{"file":"m.json","line":1,"column":1}`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatJSON() missing %s: %s", want, out)
		}
	}
}

func TestRegistryCodesAreConsistent(t *testing.T) {
	for _, code := range GetAllCodes() {
		tmpl, _ := GetTemplate(code)
		if tmpl.Message == "" || tmpl.Detail == "" {
			t.Errorf("%s: empty message or detail", code)
		}
		if !strings.HasSuffix(tmpl.DocURL, "/"+code) {
			t.Errorf("%s: DocURL %q does not end with the code", code, tmpl.DocURL)
		}
	}
}

func TestWrapText(t *testing.T) {
	got := wrapText("short text", 100)
	if len(got) != 1 || got[0] != "short text" {
		t.Errorf("wrapText short text: got %v", got)
	}

	got = wrapText("this is a longer text that should be wrapped", 20)
	if len(got) != 3 {
		t.Errorf("wrapText long text: expected 3 lines, got %d: %v", len(got), got)
	}

	if got = wrapText("", 10); len(got) != 0 {
		t.Errorf("wrapText empty: expected empty, got %v", got)
	}
}

func TestFprintError(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var b strings.Builder
	FprintError(&b, stderrors.New("plain"))
	if !strings.Contains(b.String(), "ERROR: plain") {
		t.Errorf("FprintError plain = %q", b.String())
	}

	b.Reset()
	FprintError(&b, New("E162"))
	if !strings.Contains(b.String(), "E162: Manifest not found") {
		t.Errorf("FprintError coded = %q", b.String())
	}
}

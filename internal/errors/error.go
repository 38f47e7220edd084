package errors

import (
	"bufio"
	"fmt"
	"os"
)

// Category represents the type of error.
type Category string

const (
	CategoryRuntime  Category = "runtime"
	CategoryRoute    Category = "route"
	CategoryManifest Category = "manifest"
	CategoryConfig   Category = "config"
	CategoryCLI      Category = "cli"
)

// Location represents a source code location.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// CityError is a structured error with a code, source location and hints.
type CityError struct {
	// Code is a unique error identifier (e.g., "E201").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of this occurrence.
	Detail string

	// Location is the source location the error refers to, if any.
	Location *Location

	// Context contains surrounding source lines.
	Context []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *CityError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *CityError) Unwrap() error {
	return e.Wrapped
}

// WithLocation adds source location to the error.
func (e *CityError) WithLocation(file string, line, column int) *CityError {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context = readContextLines(file, line, 5)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *CityError) WithSuggestion(s string) *CityError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *CityError) WithDetail(d string) *CityError {
	e.Detail = d
	return e
}

// WithDetailf adds a formatted detail to the error.
func (e *CityError) WithDetailf(format string, args ...any) *CityError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// Wrap wraps another error.
func (e *CityError) Wrap(err error) *CityError {
	e.Wrapped = err
	return e
}

// readContextLines reads lines around the specified line number from a file.
func readContextLines(filename string, targetLine, contextSize int) []string {
	file, err := os.Open(filename)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	lineNum := 0
	startLine := targetLine - contextSize/2
	endLine := targetLine + contextSize/2

	for scanner.Scan() {
		lineNum++
		if lineNum >= startLine && lineNum <= endLine {
			lines = append(lines, scanner.Text())
		}
		if lineNum > endLine {
			break
		}
	}

	return lines
}

// New creates a CityError from a registered error code.
func New(code string) *CityError {
	template, ok := registry[code]
	if !ok {
		return &CityError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &CityError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new CityError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *CityError {
	return &CityError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError returns the first CityError in err's chain, or wraps err in a
// new CityError with code.
func FromError(err error, code string) *CityError {
	if err == nil {
		return nil
	}
	for e := err; e != nil; {
		if ce, ok := e.(*CityError); ok {
			return ce
		}
		u, ok := e.(interface{ Unwrap() error })
		if !ok {
			break
		}
		e = u.Unwrap()
	}
	return New(code).Wrap(err)
}

// Code returns the code of the first CityError in err's chain, or "".
func Code(err error) string {
	for err != nil {
		if ce, ok := err.(*CityError); ok {
			return ce.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}

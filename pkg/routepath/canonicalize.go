// Package routepath canonicalizes request paths before route matching.
package routepath

import (
	"errors"
	"net/url"
	"strings"
)

// Result is the outcome of CanonicalizePath.
type Result struct {
	// Path is the canonical path, without query string or trailing slash.
	Path string

	// Query is the raw query string, without the leading "?".
	Query string

	// TrailingSlash reports whether the input path ended in "/" (root excluded).
	TrailingSlash bool

	// Changed reports whether Path differs from the input path.
	Changed bool
}

// Path canonicalization errors.
var (
	ErrBackslashInPath       = errors.New("path contains backslash")
	ErrNullByteInPath        = errors.New("path contains null byte")
	ErrInvalidPercentEscape  = errors.New("invalid percent escape sequence")
	ErrPathEscapesRoot       = errors.New("path escapes root via ..")
	ErrEncodedSlashInSegment = errors.New("encoded slash (%2F) in non-catch-all segment")
)

// CanonicalizePath normalizes a request path for matching.
//
// Repeated slashes collapse, "." segments are dropped and ".." segments
// pop their parent. The trailing slash is removed (root excepted) and
// recorded in Result.TrailingSlash so callers can apply a slash policy.
//
// Backslashes, NUL bytes, malformed percent escapes and ".." above the
// root are rejected. A query string is split off and left untouched.
func CanonicalizePath(input string) (Result, error) {
	if input == "" {
		return Result{Path: "/", Changed: true}, nil
	}

	raw, query, _ := strings.Cut(input, "?")

	if strings.Contains(raw, "\\") {
		return Result{}, ErrBackslashInPath
	}
	if strings.Contains(raw, "\x00") || strings.Contains(strings.ToUpper(raw), "%00") {
		return Result{}, ErrNullByteInPath
	}
	if strings.Contains(raw, "%") {
		if err := validatePercentEscapes(raw); err != nil {
			return Result{}, err
		}
	}

	segments := make([]string, 0, strings.Count(raw, "/"))
	for _, seg := range strings.Split(raw, "/") {
		switch seg {
		case "", ".":
		case "..":
			if len(segments) == 0 {
				return Result{}, ErrPathEscapesRoot
			}
			segments = segments[:len(segments)-1]
		default:
			segments = append(segments, seg)
		}
	}

	path := "/" + strings.Join(segments, "/")
	return Result{
		Path:          path,
		Query:         query,
		TrailingSlash: len(raw) > 1 && strings.HasSuffix(raw, "/"),
		Changed:       path != raw,
	}, nil
}

// ApplyTrailingSlash returns path in the form dictated by the trailing
// slash policy and whether that differs from path. The root path and paths
// whose last segment looks like a file name ("/feed.xml") never get a
// trailing slash.
func ApplyTrailingSlash(path string, want bool) (string, bool) {
	if path == "" {
		return "/", true
	}
	if path == "/" {
		return path, false
	}

	bare := strings.TrimRight(path, "/")
	if bare == "" {
		return "/", true
	}

	canonical := bare
	if want && !HasFileExtension(bare) {
		canonical = bare + "/"
	}
	return canonical, canonical != path
}

// HasFileExtension reports whether the last segment of path contains a dot
// after its first character.
func HasFileExtension(path string) bool {
	last := path[strings.LastIndexByte(path, '/')+1:]
	return strings.LastIndexByte(last, '.') > 0
}

// validatePercentEscapes checks that every "%" starts a %XX hex escape.
func validatePercentEscapes(path string) error {
	for i := 0; i < len(path); i++ {
		if path[i] != '%' {
			continue
		}
		if i+2 >= len(path) || !isHexDigit(path[i+1]) || !isHexDigit(path[i+2]) {
			return ErrInvalidPercentEscape
		}
		i += 2
	}
	return nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// DecodeSegment unescapes a captured route parameter. Only catch-all
// parameters may decode to a value containing "/".
func DecodeSegment(segment string, isCatchAll bool) (string, error) {
	decoded, err := url.PathUnescape(segment)
	if err != nil {
		return "", ErrInvalidPercentEscape
	}
	if !isCatchAll && strings.Contains(decoded, "/") {
		return "", ErrEncodedSlashInSegment
	}
	return decoded, nil
}

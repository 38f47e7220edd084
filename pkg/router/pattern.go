package router

import (
	"fmt"
	"regexp"
	"regexp/syntax"
	"strings"

	cityerrors "github.com/vango-dev/city/internal/errors"
)

// Pattern is a compiled route path.
type Pattern struct {
	// Regexp matches canonical request paths.
	Regexp *regexp.Regexp

	// Names holds one param name per capture group.
	Names []string

	// CatchAll reports, per capture group, whether the value may contain "/".
	CatchAll []bool
}

// CompilePattern compiles a route path such as "/blog/[slug]" or
// "/docs/[...path]".
//
// Static text is matched literally. [name] (or a whole ":name" segment)
// captures one non-empty segment. [...name] (or "*name") captures the rest
// of the path, "/" included, and may be empty; it must be the last segment.
// Params may share a segment with static text ("post-[id].json").
// A trailing slash on the request path is always accepted.
func CompilePattern(path string) (*Pattern, error) {
	if !strings.HasPrefix(path, "/") {
		return nil, patternError("E213", ErrInvalidPattern, path, "route paths start with /")
	}

	var (
		b    strings.Builder
		p    = &Pattern{}
		seen = make(map[string]bool)
	)
	addParam := func(name string, catchAll bool) error {
		if name == "" {
			return patternError("E203", ErrEmptyParamName, path, "")
		}
		if seen[name] {
			return patternError("E205", ErrDuplicateParam, path, name)
		}
		seen[name] = true
		p.Names = append(p.Names, name)
		p.CatchAll = append(p.CatchAll, catchAll)
		return nil
	}

	segments := splitSegments(path)
	b.WriteString("^")
	for i, seg := range segments {
		if name, ok := catchAllName(seg); ok {
			if i != len(segments)-1 {
				return nil, patternError("E204", ErrCatchAllNotLast, path, seg)
			}
			if err := addParam(name, true); err != nil {
				return nil, err
			}
			b.WriteString(`(?:/(.*?))?`)
			continue
		}

		b.WriteString("/")
		if strings.HasPrefix(seg, ":") {
			if err := addParam(seg[1:], false); err != nil {
				return nil, err
			}
			b.WriteString(`([^/]+?)`)
			continue
		}

		rest := seg
		for rest != "" {
			open := strings.IndexByte(rest, '[')
			if open < 0 {
				if strings.IndexByte(rest, ']') >= 0 {
					return nil, patternError("E213", ErrInvalidPattern, path, "unbalanced ] in "+seg)
				}
				b.WriteString(regexp.QuoteMeta(rest))
				break
			}
			end := strings.IndexByte(rest[open:], ']')
			if end < 0 || strings.IndexByte(rest[:open], ']') >= 0 {
				return nil, patternError("E213", ErrInvalidPattern, path, "unbalanced [ in "+seg)
			}
			name := rest[open+1 : open+end]
			if strings.HasPrefix(name, "...") {
				return nil, patternError("E213", ErrInvalidPattern, path, "catch-all must fill its segment: "+seg)
			}
			b.WriteString(regexp.QuoteMeta(rest[:open]))
			if err := addParam(name, false); err != nil {
				return nil, err
			}
			b.WriteString(`([^/]+?)`)
			rest = rest[open+end+1:]
		}
	}

	if len(segments) == 0 {
		b.WriteString("/$")
	} else {
		b.WriteString("/?$")
	}

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, patternError("E213", ErrInvalidPattern, path, err.Error())
	}
	p.Regexp = re
	return p, nil
}

// MustCompilePattern is like CompilePattern but panics on error.
func MustCompilePattern(path string) *Pattern {
	p, err := CompilePattern(path)
	if err != nil {
		panic(err)
	}
	return p
}

func splitSegments(path string) []string {
	var out []string
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

func catchAllName(seg string) (string, bool) {
	if strings.HasPrefix(seg, "[...") && strings.HasSuffix(seg, "]") && strings.Count(seg, "[") == 1 {
		return seg[4 : len(seg)-1], true
	}
	if strings.HasPrefix(seg, "*") {
		return seg[1:], true
	}
	return "", false
}

func patternError(code string, sentinel error, path, detail string) error {
	ce := cityerrors.New(code).Wrap(sentinel)
	if detail != "" {
		return ce.WithDetailf("%s: %s", path, detail)
	}
	return ce.WithDetail(path)
}

// catchAllGroups reports, per capture group of re, whether the group can
// match a "/".
func catchAllGroups(re *regexp.Regexp) []bool {
	out := make([]bool, re.NumSubexp())
	tree, err := syntax.Parse(re.String(), syntax.Perl)
	if err != nil {
		return out
	}
	var walk func(n *syntax.Regexp)
	walk = func(n *syntax.Regexp) {
		if n.Op == syntax.OpCapture && n.Cap > 0 && n.Cap <= len(out) {
			out[n.Cap-1] = matchesSlash(n)
		}
		for _, sub := range n.Sub {
			walk(sub)
		}
	}
	walk(tree)
	return out
}

func matchesSlash(n *syntax.Regexp) bool {
	switch n.Op {
	case syntax.OpAnyChar, syntax.OpAnyCharNotNL:
		return true
	case syntax.OpLiteral:
		for _, r := range n.Rune {
			if r == '/' {
				return true
			}
		}
	case syntax.OpCharClass:
		for i := 0; i+1 < len(n.Rune); i += 2 {
			if n.Rune[i] <= '/' && '/' <= n.Rune[i+1] {
				return true
			}
		}
	}
	for _, sub := range n.Sub {
		if matchesSlash(sub) {
			return true
		}
	}
	return false
}

func (p *Pattern) String() string {
	return fmt.Sprintf("%s %v", p.Regexp, p.Names)
}

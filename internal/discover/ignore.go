package discover

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// Matcher tests repository-relative paths against ignore patterns.
//
// A pattern is one of:
//   - a bare name ("node_modules"), matching any path segment exactly
//   - a directory prefix ending in "/" ("generated/"), matching everything below it
//   - a leading-star suffix ("*.min.js"), matching the end of the path
//   - any other glob ("vendor/**", "**/dist/**", "src/*.gen.ts") where "**"
//     crosses directories and "*" does not
type Matcher struct {
	segments map[string]bool
	prefixes []string
	suffixes []string
	globs    []glob.Glob
}

// NewMatcher compiles patterns. Blank patterns are ignored.
func NewMatcher(patterns []string) (*Matcher, error) {
	m := &Matcher{segments: map[string]bool{}}
	for _, raw := range patterns {
		p := strings.TrimPrefix(strings.TrimSpace(raw), "./")
		if p == "" {
			continue
		}
		switch {
		case strings.HasSuffix(p, "/") && !hasMeta(p):
			m.prefixes = append(m.prefixes, p)
		case !strings.Contains(p, "/") && !hasMeta(p):
			m.segments[p] = true
		case strings.HasPrefix(p, "*") && !strings.HasPrefix(p, "**") && !hasMeta(p[1:]) && !strings.Contains(p, "/"):
			m.suffixes = append(m.suffixes, p[1:])
		default:
			if err := m.addGlob(p); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func (m *Matcher) addGlob(p string) error {
	g, err := glob.Compile(p, '/')
	if err != nil {
		return fmt.Errorf("invalid ignore pattern %q: %w", p, err)
	}
	m.globs = append(m.globs, g)
	// "**/x" also matches x at the root.
	if rest, ok := strings.CutPrefix(p, "**/"); ok {
		g, err := glob.Compile(rest, '/')
		if err != nil {
			return fmt.Errorf("invalid ignore pattern %q: %w", p, err)
		}
		m.globs = append(m.globs, g)
	}
	return nil
}

func hasMeta(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}

// Match reports whether path is ignored. A nil Matcher ignores nothing.
func (m *Matcher) Match(path string) bool {
	if m == nil {
		return false
	}
	path = strings.TrimPrefix(path, "./")
	if len(m.segments) > 0 {
		for _, seg := range strings.Split(path, "/") {
			if m.segments[seg] {
				return true
			}
		}
	}
	for _, p := range m.prefixes {
		if strings.HasPrefix(path, p) || strings.Contains(path, "/"+p) {
			return true
		}
	}
	for _, s := range m.suffixes {
		if strings.HasSuffix(path, s) {
			return true
		}
	}
	for _, g := range m.globs {
		if g.Match(path) {
			return true
		}
	}
	return false
}

// Empty reports whether the matcher has no patterns.
func (m *Matcher) Empty() bool {
	return m == nil || (len(m.segments) == 0 && len(m.prefixes) == 0 && len(m.suffixes) == 0 && len(m.globs) == 0)
}

package redact

import (
	"regexp"

	"github.com/dshills/vigil/internal/discover"
)

// Placeholder replaces masked text.
const Placeholder = "[REDACTED]"

// secretPattern masks the named group "v" when present, else the whole match.
type secretPattern struct {
	re *regexp.Regexp
}

var secretPatterns = []secretPattern{
	// key/secret/token/password assignments keep the name and mask the value
	{regexp.MustCompile(`(?i)(?:api[_-]?key|apikey|api[_-]?secret)\s*[:=]\s*["']?(?P<v>[A-Za-z0-9/+=_-]{20,})`)},
	{regexp.MustCompile(`(?i)aws[_-]?secret[_-]?access[_-]?key\s*[:=]\s*["']?(?P<v>[A-Za-z0-9/+=]{40})`)},
	{regexp.MustCompile(`(?i)(?:secret|token|password|passwd|pwd|credential)\w*\s*[:=]\s*["'](?P<v>[^"']{8,})["']`)},
	{regexp.MustCompile(`(?i)Bearer\s+(?P<v>[A-Za-z0-9._-]{20,})`)},
	{regexp.MustCompile(`(?i)(?:postgres|postgresql|mysql|mongodb(?:\+srv)?|redis|amqp)://[^:/\s]+:(?P<v>[^@\s]+)@`)},
	{regexp.MustCompile(`AKIA[0-9A-Z]{16}`)},
	{regexp.MustCompile(`eyJ[A-Za-z0-9_-]{10,}\.eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}`)},
	{regexp.MustCompile(`-----BEGIN\s+(?:RSA\s+|EC\s+|OPENSSH\s+)?PRIVATE KEY-----`)},
	{regexp.MustCompile(`gh[pousr]_[A-Za-z0-9_]{36,}`)},
	{regexp.MustCompile(`xox[bporas]-[A-Za-z0-9-]{10,}`)},
	{regexp.MustCompile(`sk_live_[A-Za-z0-9]{16,}`)},
	{regexp.MustCompile(`sk-ant-[A-Za-z0-9_-]{20,}`)},
	{regexp.MustCompile(`sk-[A-Za-z0-9]{20,}`)},
	{regexp.MustCompile(`(?i)(?:key|secret|token)\s*[:=]\s*["']?(?P<v>[0-9a-f]{32,})`)},
}

func (p secretPattern) mask(text string) string {
	group := p.re.SubexpIndex("v")
	matches := p.re.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text
	}
	out := make([]byte, 0, len(text))
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if group > 0 && m[2*group] >= 0 {
			start, end = m[2*group], m[2*group+1]
		}
		out = append(out, text[last:start]...)
		out = append(out, Placeholder...)
		last = end
	}
	out = append(out, text[last:]...)
	return string(out)
}

// Secrets replaces detected secret values in text with [REDACTED].
func Secrets(text string) string {
	for _, p := range secretPatterns {
		text = p.mask(text)
	}
	return text
}

// Masker masks secrets in report text and hides whole files whose path
// matches one of its patterns.
type Masker struct {
	paths *discover.Matcher
}

// NewMasker compiles the path patterns.
func NewMasker(pathPatterns []string) (*Masker, error) {
	m, err := discover.NewMatcher(pathPatterns)
	if err != nil {
		return nil, err
	}
	return &Masker{paths: m}, nil
}

// ShouldRedactPath reports whether path matches a redaction pattern.
func (m *Masker) ShouldRedactPath(path string) bool {
	return m != nil && m.paths.Match(path)
}

// Content masks text belonging to path. Empty text stays empty.
func (m *Masker) Content(path, text string) string {
	if text == "" {
		return text
	}
	if m.ShouldRedactPath(path) {
		return Placeholder
	}
	return Secrets(text)
}

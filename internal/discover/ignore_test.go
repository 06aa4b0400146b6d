package discover

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcher(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"node_modules", "node_modules/a/index.js", true},
		{"node_modules", "web/node_modules/a.js", true},
		{"node_modules", "node_modules_extra/a.js", false},
		{"generated/", "generated/a.go", true},
		{"generated/", "pkg/generated/a.go", true},
		{"generated/", "generatedx/a.go", false},
		{"*.min.js", "static/app.min.js", true},
		{"*.min.js", "static/app.js", false},
		{"vendor/**", "vendor/lib/a.go", true},
		{"vendor/**", "pkg/vendor/a.go", false},
		{"**/dist/**", "dist/bundle.js", true},
		{"**/dist/**", "web/dist/bundle.js", true},
		{"**/dist/**", "distant/a.js", false},
		{"src/*.gen.ts", "src/api.gen.ts", true},
		{"src/*.gen.ts", "src/nested/api.gen.ts", false},
		{"**/*_test.go", "a_test.go", true},
		{"**/*_test.go", "pkg/x/a_test.go", true},
		{"./build/", "build/out.js", true},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.path, func(t *testing.T) {
			m, err := NewMatcher([]string{tt.pattern})
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Match(tt.path))
		})
	}
}

func TestMatcher_EmptyAndNil(t *testing.T) {
	var nilM *Matcher
	assert.False(t, nilM.Match("a.go"))
	assert.True(t, nilM.Empty())

	m, err := NewMatcher([]string{"", "  "})
	require.NoError(t, err)
	assert.True(t, m.Empty())
	assert.False(t, m.Match("a.go"))
}

func TestMatcher_InvalidGlob(t *testing.T) {
	_, err := NewMatcher([]string{"src/[a.go"})
	assert.Error(t, err)
}

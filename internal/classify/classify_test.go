package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		path string
		want  FileClassification
	}{
		{"main.go", FileClassification{Language: Go}},
		{"src/app.TS", FileClassification{Language: TypeScript}},
		{"web/App.tsx", FileClassification{Language: TypeScript}},
		{"lib/x.py", FileClassification{Language: Python}},
		{"contracts/Token.sol", FileClassification{Language: Solidity, Chain: "evm", IsSmartContract: true}},
		{"README", FileClassification{Language: Unknown}},
		{"notes.md", FileClassification{Language: Unknown}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.path))
		})
	}
}

func TestSourceExtensions(t *testing.T) {
	exts := SourceExtensions()
	assert.Contains(t, exts, "go")
	assert.Contains(t, exts, "sol")
	assert.NotContains(t, exts, "md")
	assert.IsNonDecreasing(t, exts)
	assert.True(t, IsSource("a/b/c.rs"))
	assert.False(t, IsSource("image.png"))
}

func TestIsTestFile(t *testing.T) {
	yes := []string{
		"src/__tests__/x.test.ts",
		"pkg/foo_test.go",
		"tests/test_api.py",
		"app/models/user_spec.rb",
		"web/button.spec.jsx",
		"test_utils.py",
		"internal/scan/testdata/a.js",
	}
	no := []string{"src/index.ts", "pkg/contest.go", "latest/app.py", "testing.go"}
	for _, p := range yes {
		assert.True(t, IsTestFile(p), p)
	}
	for _, p := range no {
		assert.False(t, IsTestFile(p), p)
	}
}

func TestPathPredicates(t *testing.T) {
	assert.True(t, IsDocFile("README.md"))
	assert.True(t, IsDocFile("docs/guide/setup.js"))
	assert.True(t, IsDocFile("examples/basic/main.go"))
	assert.False(t, IsDocFile("src/docs.go"))

	assert.True(t, IsConfigFile("config/app.yaml"))
	assert.True(t, IsConfigFile(".env.local"))
	assert.True(t, IsConfigFile("jest.config.js"))
	assert.False(t, IsConfigFile("src/config.ts"))

	assert.True(t, IsMarkupFile("components/Card.tsx"))
	assert.True(t, IsMarkupFile("index.html"))
	assert.False(t, IsMarkupFile("server.ts"))

	assert.True(t, IsBuildTooling("scripts/release.js"))
	assert.True(t, IsBuildTooling(".github/actions/run.js"))
	assert.True(t, IsBuildTooling("webpack.config.js"))
	assert.True(t, IsBuildTooling("Makefile"))
	assert.False(t, IsBuildTooling("src/exec.ts"))
}

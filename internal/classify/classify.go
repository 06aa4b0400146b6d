package classify

import (
	"path"
	"sort"
	"strings"
)

// Language is a source language tag.
type Language string

const (
	Unknown    Language = "unknown"
	Go         Language = "go"
	JavaScript Language = "javascript"
	TypeScript Language = "typescript"
	Python     Language = "python"
	Ruby       Language = "ruby"
	Java       Language = "java"
	Kotlin     Language = "kotlin"
	CSharp     Language = "csharp"
	PHP        Language = "php"
	Rust       Language = "rust"
	C          Language = "c"
	Cpp        Language = "cpp"
	Swift      Language = "swift"
	Scala      Language = "scala"
	Shell      Language = "shell"
	SQL        Language = "sql"
	Solidity   Language = "solidity"
	Vue        Language = "vue"
	Svelte     Language = "svelte"
	HTML       Language = "html"
)

// FileClassification describes a file for rule selection.
type FileClassification struct {
	Language        Language `json:"language"`
	Chain           string   `json:"chain,omitempty"`
	IsSmartContract bool     `json:"isSmartContract"`
}

var extLanguages = map[string]Language{
	"go":     Go,
	"js":     JavaScript,
	"jsx":    JavaScript,
	"mjs":    JavaScript,
	"cjs":    JavaScript,
	"ts":     TypeScript,
	"tsx":    TypeScript,
	"mts":    TypeScript,
	"cts":    TypeScript,
	"py":     Python,
	"rb":     Ruby,
	"java":   Java,
	"kt":     Kotlin,
	"kts":    Kotlin,
	"cs":     CSharp,
	"php":    PHP,
	"rs":     Rust,
	"c":      C,
	"h":      C,
	"cc":     Cpp,
	"cpp":    Cpp,
	"cxx":    Cpp,
	"hpp":    Cpp,
	"swift":  Swift,
	"scala":  Scala,
	"sh":     Shell,
	"bash":   Shell,
	"zsh":    Shell,
	"sql":    SQL,
	"sol":    Solidity,
	"vue":    Vue,
	"svelte": Svelte,
	"html":   HTML,
	"htm":    HTML,
}

// chainExtensions tags sub-ecosystems with their own rule subset.
var chainExtensions = map[string]string{
	"sol": "evm",
}

// Ext returns the lower-cased extension of p without the leading dot.
func Ext(p string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(p), "."))
}

// Classify maps a path to its classification.
func Classify(p string) FileClassification {
	ext := Ext(p)
	c := FileClassification{Language: Unknown}
	if lang, ok := extLanguages[ext]; ok {
		c.Language = lang
	}
	if chain, ok := chainExtensions[ext]; ok {
		c.Chain = chain
		c.IsSmartContract = true
	}
	return c
}

// IsSource reports whether p has a recognized source extension.
func IsSource(p string) bool {
	_, ok := extLanguages[Ext(p)]
	return ok
}

// SourceExtensions returns the recognized extensions, sorted.
func SourceExtensions() []string {
	exts := make([]string, 0, len(extLanguages))
	for ext := range extLanguages {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

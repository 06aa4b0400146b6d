package scan

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/vigil/internal/finding"
	"github.com/dshills/vigil/internal/rules"
)

var cleaningSet = rules.MustRuleSet(rules.Cleaning())

func longFunction(bodyLines int) string {
	var b strings.Builder
	b.WriteString("function big() {\n")
	for i := 0; i < bodyLines; i++ {
		fmt.Fprintf(&b, "  x += compute(%d);\n", i)
	}
	b.WriteString("}\n")
	return b.String()
}

func TestClean_FunctionTooLong(t *testing.T) {
	fs := ScanFile("src/big.js", longFunction(60), cleaningSet, nil)
	require.Equal(t, []string{rules.RuleFunctionTooLong}, ids(fs))
	assert.Equal(t, 1, fs[0].StartLine)
	assert.Equal(t, 62, fs[0].EndLine)
	assert.Equal(t, finding.CategoryCodeCleaning, fs[0].Category)
	assert.Contains(t, fs[0].Description, "(62 lines, limit 50)")

	assert.Empty(t, ScanFile("src/small.js", longFunction(10), cleaningSet, nil))
}

func TestClean_FunctionTooLongPython(t *testing.T) {
	var b strings.Builder
	b.WriteString("def big():\n")
	for i := 0; i < 55; i++ {
		fmt.Fprintf(&b, "    x%d = %d\n", i, i)
	}
	b.WriteString("\nprint(big())\n")

	fs := ScanFile("app/big.py", b.String(), cleaningSet, nil)
	require.Equal(t, []string{rules.RuleFunctionTooLong}, ids(fs))
	assert.Equal(t, 1, fs[0].StartLine)
	assert.Equal(t, 56, fs[0].EndLine)
}

func TestClean_Complexity(t *testing.T) {
	var b strings.Builder
	b.WriteString("function branchy(a) {\n")
	for i := 0; i < 11; i++ {
		fmt.Fprintf(&b, "  if (a === %d) { return %d; }\n", i, i)
	}
	b.WriteString("  return 0;\n}\n")

	fs := ScanFile("src/branchy.js", b.String(), cleaningSet, nil)
	require.Equal(t, []string{rules.RuleComplexity}, ids(fs))
	assert.Equal(t, 1, fs[0].StartLine)
	assert.Equal(t, 14, fs[0].EndLine)
	assert.Contains(t, fs[0].Description, "complexity 12")
}

func TestClean_FileTooLong(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 501; i++ {
		fmt.Fprintf(&b, "const v%d = %d;\n", i, i)
	}
	fs := ScanFile("src/long.js", b.String(), cleaningSet, nil)
	require.Equal(t, []string{rules.RuleFileTooLong}, ids(fs))
	assert.Equal(t, 1, fs[0].StartLine)
	assert.Equal(t, 501, fs[0].EndLine)
	assert.Empty(t, fs[0].CodeSnippet)
}

const dupBody = `  const total = items.reduce((s, i) => s + i.price, 0);
  const tax = total * rate;
  const shipping = computeShipping(order);
  const discount = applyCoupon(order.coupon);
  const grand = total + tax + shipping - discount;
  return formatCurrency(grand);
`

func TestClean_DuplicateCode(t *testing.T) {
	content := "function a() {\n" + dupBody + "}\nfunction b() {\n" + dupBody + "}\n"
	fs := ScanFile("src/dup.js", content, cleaningSet, nil)
	require.Equal(t, []string{rules.RuleDuplicateCode}, ids(fs))
	assert.Equal(t, 10, fs[0].StartLine)
	assert.Equal(t, 15, fs[0].EndLine)
	assert.Contains(t, fs[0].Description, "first seen at line 2")
}

func mixedQuoteFile() string {
	var b strings.Builder
	for i := 0; i < 8; i++ {
		fmt.Fprintf(&b, "const a%d = \"x\";\n", i)
	}
	for i := 0; i < 4; i++ {
		fmt.Fprintf(&b, "const b%d = 'y';\n", i)
	}
	return b.String()
}

func TestClean_MixedQuotes(t *testing.T) {
	fs := ScanFile("src/q.js", mixedQuoteFile(), cleaningSet, nil)
	require.Equal(t, []string{rules.RuleMixedQuoteStyle}, ids(fs))
	assert.Equal(t, 9, fs[0].StartLine)
	assert.Equal(t, finding.SeverityInfo, fs[0].Severity)

	later := ScanFile("src/q.js", mixedQuoteFile(), cleaningSet, finding.LineRanges{"src/q.js": {{Start: 10, End: 12}}})
	require.Len(t, later, 1)
	assert.Equal(t, 10, later[0].StartLine)

	outside := ScanFile("src/q.js", mixedQuoteFile(), cleaningSet, finding.LineRanges{"src/q.js": {{Start: 1, End: 3}}})
	assert.Empty(t, outside)

	// Go is not a language the quote heuristic runs on.
	assert.Empty(t, ScanFile("q.go", mixedQuoteFile(), cleaningSet, nil))
}

func TestClean_RespectsRanges(t *testing.T) {
	content := longFunction(60)
	inside := ScanFile("src/big.js", content, cleaningSet, finding.LineRanges{"src/big.js": {{Start: 30, End: 30}}})
	assert.Len(t, inside, 1)
	outside := ScanFile("src/big.js", content, cleaningSet, finding.LineRanges{"src/big.js": {{Start: 70, End: 80}}})
	assert.Empty(t, outside)
}

func TestClean_SkippedWhenDisabledOrNotCode(t *testing.T) {
	content := longFunction(60)
	assert.Empty(t, ScanFile("src/big.js", content, rules.Builtin(false), nil))
	assert.Empty(t, ScanFile("docs/big.js", content, cleaningSet, nil))
	assert.Empty(t, ScanFile("config/big.json", content, cleaningSet, nil))

	inTest := ScanFile("src/big.test.js", content, cleaningSet, nil)
	require.Len(t, inTest, 1)
	assert.Equal(t, finding.SeverityInfo, inTest[0].Severity)
}

func TestStripStringsAndComments(t *testing.T) {
	assert.Equal(t, `x = "" + ''; `, stripStringsAndComments(`x = "{" + '}'; // {`))
	assert.Equal(t, "a(`", stripStringsAndComments("a(`${b} }"))
}

func TestComplexity(t *testing.T) {
	body := []string{
		"if (a && b) {",
		"} else if (c || d) {",
		`  log("if while for");`,
		"  x = y ? 1 : 2;",
		"}",
	}
	assert.Equal(t, 6, complexity(body))
}

func TestLineIndexSpan(t *testing.T) {
	content := "ab\ncd\nef\n"
	idx := buildLineIndex(content)
	s, e := idx.span(0, 2)
	assert.Equal(t, []int{1, 1}, []int{s, e})
	s, e = idx.span(0, 3)
	assert.Equal(t, []int{1, 1}, []int{s, e}, "trailing newline stays on its line")
	s, e = idx.span(1, 5)
	assert.Equal(t, []int{1, 2}, []int{s, e})
	s, e = idx.span(6, 6)
	assert.Equal(t, []int{3, 3}, []int{s, e})
}

func TestSnippet(t *testing.T) {
	lines := []string{"a", "b", "c", "d", "e", "f", "g"}
	assert.Equal(t, "a\nb\nc\nd\ne", snippet(lines, 1, 7))
	assert.Equal(t, "", snippet(lines, 9, 9))
	assert.Len(t, snippet([]string{strings.Repeat("x", 400)}, 1, 1), maxSnippet+3)
}

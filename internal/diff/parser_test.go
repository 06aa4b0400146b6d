package diff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/vigil/internal/finding"
)

func TestParse_SimpleModification(t *testing.T) {
	raw := "diff --git a/f.ts b/f.ts\n--- a/f.ts\n+++ b/f.ts\n@@ -1,2 +1,3 @@\n const x = 1;\n+const y = 2;\n const z = 3;\n"
	parsed := Parse(raw)

	require.Len(t, parsed.Files, 1)
	f := parsed.Files[0]
	assert.Equal(t, "f.ts", f.Path)
	assert.Equal(t, "f.ts", f.OldPath)
	assert.Equal(t, StatusModified, f.Status)

	require.Len(t, f.Hunks, 1)
	h := f.Hunks[0]
	assert.Equal(t, 1, h.OldStart)
	assert.Equal(t, 2, h.OldLines)
	assert.Equal(t, 1, h.NewStart)
	assert.Equal(t, 3, h.NewLines)
	assert.Equal(t, []DiffChange{
		{Type: ChangeContext, Content: "const x = 1;", LineNumber: 1},
		{Type: ChangeAdd, Content: "const y = 2;", LineNumber: 2},
		{Type: ChangeContext, Content: "const z = 3;", LineNumber: 3},
	}, h.Changes)
}

func TestParse_Empty(t *testing.T) {
	assert.Empty(t, Parse("").Files)
	assert.Empty(t, Parse("not a diff at all\njust text\n").Files)
}

func TestParse_StatusDerivation(t *testing.T) {
	raw := `diff --git a/new.go b/new.go
new file mode 100644
index 0000000..e69de29
--- /dev/null
+++ b/new.go
@@ -0,0 +1,2 @@
+package main
+
diff --git a/old.go b/old.go
deleted file mode 100644
index e69de29..0000000
--- a/old.go
+++ /dev/null
@@ -1 +0,0 @@
-package main
diff --git a/a.go b/b.go
similarity index 100%
rename from a.go
rename to b.go
diff --git a/script.sh b/script.sh
old mode 100644
new mode 100755
`
	parsed := Parse(raw)
	require.Len(t, parsed.Files, 4)

	assert.Equal(t, StatusAdded, parsed.Files[0].Status)
	assert.Equal(t, "new.go", parsed.Files[0].Path)
	require.Len(t, parsed.Files[0].Hunks, 1)
	assert.Equal(t, []DiffChange{
		{Type: ChangeAdd, Content: "package main", LineNumber: 1},
		{Type: ChangeAdd, Content: "", LineNumber: 2},
	}, parsed.Files[0].Hunks[0].Changes)

	assert.Equal(t, StatusDeleted, parsed.Files[1].Status)
	assert.Equal(t, "old.go", parsed.Files[1].Path)
	require.Len(t, parsed.Files[1].Hunks, 1)
	assert.Equal(t, 1, parsed.Files[1].Hunks[0].OldLines, "missing count defaults to 1")
	assert.Equal(t, ChangeDelete, parsed.Files[1].Hunks[0].Changes[0].Type)
	assert.Equal(t, 1, parsed.Files[1].Hunks[0].Changes[0].LineNumber)

	assert.Equal(t, StatusRenamed, parsed.Files[2].Status)
	assert.Equal(t, "a.go", parsed.Files[2].OldPath)
	assert.Equal(t, "b.go", parsed.Files[2].Path)
	assert.Empty(t, parsed.Files[2].Hunks, "pure rename has no hunks")

	assert.Equal(t, StatusModified, parsed.Files[3].Status)
	assert.Empty(t, parsed.Files[3].Hunks)
}

func TestParse_RenameWithChanges(t *testing.T) {
	raw := `diff --git a/lib/old.js b/lib/new.js
similarity index 90%
rename from lib/old.js
rename to lib/new.js
index 111..222 100644
--- a/lib/old.js
+++ b/lib/new.js
@@ -3,2 +3,2 @@ function main() {
-  return 1;
+  return 2;
 }
`
	parsed := Parse(raw)
	require.Len(t, parsed.Files, 1)
	f := parsed.Files[0]
	assert.Equal(t, StatusRenamed, f.Status)
	assert.Equal(t, "lib/old.js", f.OldPath)
	assert.Equal(t, "lib/new.js", f.Path)
	require.Len(t, f.Hunks, 1)
	assert.Equal(t, "function main() {", f.Hunks[0].Section)
	assert.Equal(t, []DiffChange{
		{Type: ChangeDelete, Content: "  return 1;", LineNumber: 3},
		{Type: ChangeAdd, Content: "  return 2;", LineNumber: 3},
		{Type: ChangeContext, Content: "}", LineNumber: 4},
	}, f.Hunks[0].Changes)
}

func TestParse_NoNewlineMarker(t *testing.T) {
	raw := `diff --git a/x.txt b/x.txt
--- a/x.txt
+++ b/x.txt
@@ -1 +1 @@
-old
\ No newline at end of file
+new
\ No newline at end of file
`
	parsed := Parse(raw)
	require.Len(t, parsed.Files, 1)
	changes := parsed.Files[0].Hunks[0].Changes
	require.Len(t, changes, 2)
	assert.Equal(t, ChangeDelete, changes[0].Type)
	assert.Equal(t, 1, changes[0].LineNumber)
	assert.Equal(t, ChangeAdd, changes[1].Type)
	assert.Equal(t, 1, changes[1].LineNumber)
}

func TestParse_MultipleHunksAndZeroChangeHunk(t *testing.T) {
	raw := `diff --git a/m.go b/m.go
--- a/m.go
+++ b/m.go
@@ -10,0 +11,0 @@
@@ -1,2 +1,3 @@
 a
+b
 c
`
	parsed := Parse(raw)
	require.Len(t, parsed.Files, 1)
	hunks := parsed.Files[0].Hunks
	require.Len(t, hunks, 2)
	assert.Equal(t, 1, hunks[0].NewStart, "hunks sorted by newStart")
	assert.Equal(t, 11, hunks[1].NewStart)
	assert.Empty(t, hunks[1].Changes)
}

func TestParse_RecoversFromGarbage(t *testing.T) {
	raw := `random preamble
diff --git a/one.go b/one.go
--- a/one.go
+++ b/one.go
@@ -1 +1,2 @@
 x
+y
this line ends the hunk
@@ not a real header
diff --git a/two.go b/two.go
--- a/two.go
+++ b/two.go
@@ -5,1 +5,1 @@
-p
+q
`
	parsed := Parse(raw)
	require.Len(t, parsed.Files, 2)
	assert.Len(t, parsed.Files[0].Hunks[0].Changes, 2)
	assert.Equal(t, "two.go", parsed.Files[1].Path)
	assert.Len(t, parsed.Files[1].Hunks[0].Changes, 2)
}

func TestParse_DeletedLineLookingLikeHeader(t *testing.T) {
	raw := `diff --git a/q.sql b/q.sql
--- a/q.sql
+++ b/q.sql
@@ -1,2 +1,1 @@
--- a comment in sql
 SELECT 1;
`
	parsed := Parse(raw)
	require.Len(t, parsed.Files, 1)
	changes := parsed.Files[0].Hunks[0].Changes
	require.Len(t, changes, 2)
	assert.Equal(t, ChangeDelete, changes[0].Type)
	assert.Equal(t, "-- a comment in sql", changes[0].Content)
}

func TestParse_PlainUnifiedDiff(t *testing.T) {
	raw := "--- a/p.py\t2024-01-01 00:00:00\n+++ b/p.py\t2024-01-02 00:00:00\n@@ -1 +1,2 @@\n import os\n+import sys\n"
	parsed := Parse(raw)
	require.Len(t, parsed.Files, 1)
	assert.Equal(t, "p.py", parsed.Files[0].Path)
	assert.Equal(t, StatusModified, parsed.Files[0].Status)
}

// Every +/-/space line of a well-formed diff shows up exactly once, in order,
// with line numbers that never decrease within a hunk per change type.
func TestParse_RoundTripStructure(t *testing.T) {
	raw := `diff --git a/a.go b/a.go
--- a/a.go
+++ b/a.go
@@ -1,4 +1,5 @@
 one
-two
+TWO
+two-and-a-half
 three
 four
@@ -20,3 +21,2 @@ func x() {
 twenty
-twenty-one
 twenty-two
`
	var body []string
	for _, l := range strings.Split(raw, "\n") {
		if l == "" || strings.HasPrefix(l, "diff ") || strings.HasPrefix(l, "--- ") ||
			strings.HasPrefix(l, "+++ ") || strings.HasPrefix(l, "@@") {
			continue
		}
		body = append(body, l)
	}

	parsed := Parse(raw)
	var got []string
	for _, h := range parsed.Files[0].Hunks {
		lastNew, lastOld := 0, 0
		for _, c := range h.Changes {
			prefix := map[ChangeType]string{ChangeAdd: "+", ChangeDelete: "-", ChangeContext: " "}[c.Type]
			got = append(got, prefix+c.Content)
			if c.Type == ChangeDelete {
				assert.GreaterOrEqual(t, c.LineNumber, lastOld)
				lastOld = c.LineNumber
			} else {
				assert.GreaterOrEqual(t, c.LineNumber, lastNew)
				lastNew = c.LineNumber
			}
		}
	}
	assert.Equal(t, body, got)
}

func TestChangedLineRanges(t *testing.T) {
	raw := `diff --git a/a.go b/a.go
--- a/a.go
+++ b/a.go
@@ -1,2 +1,5 @@
 one
+two
+three
 four
+five
diff --git a/gone.go b/gone.go
deleted file mode 100644
--- a/gone.go
+++ /dev/null
@@ -1 +0,0 @@
-bye
diff --git a/trim.go b/trim.go
--- a/trim.go
+++ b/trim.go
@@ -1,2 +1,1 @@
-drop
 keep
`
	parsed := Parse(raw)
	lr := ChangedLineRanges(parsed.Files)

	assert.Equal(t, []finding.LineRange{{Start: 2, End: 3}, {Start: 5, End: 5}}, lr["a.go"])
	_, hasDeleted := lr["gone.go"]
	assert.False(t, hasDeleted)
	spans, ok := lr["trim.go"]
	assert.True(t, ok)
	assert.Empty(t, spans)

	assert.Equal(t, []string{"a.go", "trim.go"}, ChangedPaths(parsed.Files))
}

func TestChangedLineRanges_NormalizesHunkSpans(t *testing.T) {
	raw := `diff --git a/b.go b/b.go
--- a/b.go
+++ b/b.go
@@ -9,1 +9,3 @@
 nine
+ten
+eleven
@@ -1,1 +1,3 @@
 one
+two
+three
diff --git a/c.go b/c.go
--- a/c.go
+++ b/c.go
@@ -1,1 +1,3 @@
 one
+two
+three
@@ -1,1 +2,2 @@
 two
+three
`
	lr := ChangedLineRanges(Parse(raw).Files)
	assert.Equal(t, []finding.LineRange{{Start: 2, End: 3}, {Start: 10, End: 11}}, lr["b.go"])
	assert.Equal(t, []finding.LineRange{{Start: 2, End: 3}}, lr["c.go"])
}

func TestNewContent_PreservesLineNumbers(t *testing.T) {
	raw := `diff --git a/s.js b/s.js
--- a/s.js
+++ b/s.js
@@ -4,2 +4,3 @@
 const a = 1;
+eval(input);
 const b = 2;
`
	f := Parse(raw).Files[0]
	lines := strings.Split(f.NewContent(), "\n")
	require.GreaterOrEqual(t, len(lines), 6)
	assert.Equal(t, "", lines[0])
	assert.Equal(t, "const a = 1;", lines[3])
	assert.Equal(t, "eval(input);", lines[4])
	assert.Equal(t, "const b = 2;", lines[5])
}

func TestRender_RoundTrips(t *testing.T) {
	raw := "diff --git a/f.ts b/f.ts\n--- a/f.ts\n+++ b/f.ts\n@@ -1,2 +1,3 @@\n const x = 1;\n+const y = 2;\n const z = 3;\n"
	f := Parse(raw).Files[0]
	assert.Equal(t, "@@ -1,2 +1,3 @@\n const x = 1;\n+const y = 2;\n const z = 3;\n", f.Render())
}

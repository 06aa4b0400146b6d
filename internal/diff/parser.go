package diff

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	fileHeaderRe = regexp.MustCompile(`^diff --git a/(.+) b/(.+)$`)
	hunkHeaderRe = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@ ?(.*)$`)
)

const devNull = "/dev/null"

// Parse parses a unified diff. It never fails: unrecognized lines are
// skipped and a malformed hunk header ends the current hunk.
func Parse(raw string) ParsedDiff {
	p := &parser{lines: splitLines(raw)}
	return ParsedDiff{Files: p.parseFiles()}
}

type parser struct {
	lines []string
	pos   int
}

func splitLines(raw string) []string {
	if raw == "" {
		return nil
	}
	lines := strings.Split(raw, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

func (p *parser) peek(offset int) (string, bool) {
	i := p.pos + offset
	if i < 0 || i >= len(p.lines) {
		return "", false
	}
	return p.lines[i], true
}

// atFileStart reports whether the cursor sits on a file header: either a
// "diff --git" line or a bare "---"/"+++" pair.
func (p *parser) atFileStart() bool {
	line, ok := p.peek(0)
	if !ok {
		return false
	}
	if strings.HasPrefix(line, "diff --git ") {
		return true
	}
	if strings.HasPrefix(line, "--- ") {
		next, ok := p.peek(1)
		return ok && strings.HasPrefix(next, "+++ ")
	}
	return false
}

func (p *parser) parseFiles() []DiffFile {
	var files []DiffFile
	for p.pos < len(p.lines) {
		if !p.atFileStart() {
			p.pos++
			continue
		}
		files = append(files, p.parseFile())
	}
	return files
}

type fileHeader struct {
	renamed bool
	added   bool
	deleted bool
}

func (p *parser) parseFile() DiffFile {
	var file DiffFile
	var hdr fileHeader

	line := p.lines[p.pos]
	if m := fileHeaderRe.FindStringSubmatch(line); m != nil {
		file.OldPath = m[1]
		file.Path = m[2]
		p.pos++
		p.parseExtendedHeaders(&file, &hdr)
	}

	if line, ok := p.peek(0); ok && strings.HasPrefix(line, "--- ") {
		if next, ok := p.peek(1); ok && strings.HasPrefix(next, "+++ ") {
			oldName := parsePathField(line[4:])
			newName := parsePathField(next[4:])
			if oldName == devNull {
				hdr.added = true
			} else if file.OldPath == "" || !hdr.renamed {
				file.OldPath = oldName
			}
			if newName == devNull {
				hdr.deleted = true
			} else if file.Path == "" || !hdr.renamed {
				file.Path = newName
			}
			p.pos += 2
		}
	}
	if file.Path == "" {
		file.Path = file.OldPath
	}
	if file.OldPath == "" {
		file.OldPath = file.Path
	}

	for p.pos < len(p.lines) {
		if p.atFileStart() {
			break
		}
		m := hunkHeaderRe.FindStringSubmatch(p.lines[p.pos])
		if m == nil {
			p.pos++
			continue
		}
		p.pos++
		file.Hunks = append(file.Hunks, p.parseHunk(m))
	}
	sort.SliceStable(file.Hunks, func(i, j int) bool {
		return file.Hunks[i].NewStart < file.Hunks[j].NewStart
	})

	file.Status = deriveStatus(file, hdr)
	return file
}

func (p *parser) parseExtendedHeaders(file *DiffFile, hdr *fileHeader) {
	for p.pos < len(p.lines) {
		line := p.lines[p.pos]
		switch {
		case strings.HasPrefix(line, "diff --git "),
			strings.HasPrefix(line, "--- "),
			strings.HasPrefix(line, "@@ "):
			return
		case strings.HasPrefix(line, "rename from "):
			file.OldPath = strings.TrimPrefix(line, "rename from ")
			hdr.renamed = true
		case strings.HasPrefix(line, "rename to "):
			file.Path = strings.TrimPrefix(line, "rename to ")
			hdr.renamed = true
		case strings.HasPrefix(line, "new file mode"):
			hdr.added = true
		case strings.HasPrefix(line, "deleted file mode"):
			hdr.deleted = true
		case strings.HasPrefix(line, "Binary files ") || strings.HasPrefix(line, "GIT binary patch"):
			file.Binary = true
		}
		p.pos++
	}
}

func deriveStatus(file DiffFile, hdr fileHeader) FileStatus {
	switch {
	case hdr.renamed || file.OldPath != file.Path:
		return StatusRenamed
	case hdr.added:
		return StatusAdded
	case hdr.deleted:
		return StatusDeleted
	default:
		return StatusModified
	}
}

// parsePathField strips the a/ or b/ prefix and any trailing tab-separated
// timestamp from a ---/+++ value.
func parsePathField(s string) string {
	if i := strings.IndexByte(s, '\t'); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	if s == devNull {
		return devNull
	}
	if strings.HasPrefix(s, "a/") || strings.HasPrefix(s, "b/") {
		return s[2:]
	}
	return s
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func (p *parser) parseHunk(m []string) DiffHunk {
	h := DiffHunk{
		OldStart: atoiDefault(m[1], 0),
		OldLines: atoiDefault(m[2], 1),
		NewStart: atoiDefault(m[3], 0),
		NewLines: atoiDefault(m[4], 1),
		Section:  strings.TrimSpace(m[5]),
	}

	oldNum, newNum := h.OldStart, h.NewStart
	seenOld, seenNew := 0, 0
	complete := func() bool { return seenOld >= h.OldLines && seenNew >= h.NewLines }

	for p.pos < len(p.lines) {
		line := p.lines[p.pos]
		if strings.HasPrefix(line, "@@ ") || strings.HasPrefix(line, "diff --git ") {
			return h
		}
		if strings.HasPrefix(line, `\`) {
			p.pos++
			continue
		}
		if complete() && p.atFileStart() {
			return h
		}
		if line == "" {
			// Some tools strip the single space from empty context lines.
			if complete() {
				return h
			}
			line = " "
		}

		switch line[0] {
		case '+':
			h.Changes = append(h.Changes, DiffChange{Type: ChangeAdd, Content: line[1:], LineNumber: newNum})
			newNum++
			seenNew++
		case '-':
			h.Changes = append(h.Changes, DiffChange{Type: ChangeDelete, Content: line[1:], LineNumber: oldNum})
			oldNum++
			seenOld++
		case ' ':
			h.Changes = append(h.Changes, DiffChange{Type: ChangeContext, Content: line[1:], LineNumber: newNum})
			oldNum++
			newNum++
			seenOld++
			seenNew++
		default:
			return h
		}
		p.pos++
	}
	return h
}

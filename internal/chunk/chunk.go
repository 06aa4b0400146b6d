package chunk

import (
	"strings"

	"github.com/dshills/vigil/internal/classify"
	"github.com/dshills/vigil/internal/diff"
)

const (
	// CharsPerToken is the fixed divisor used to estimate token cost.
	CharsPerToken = 4
	// FileOverhead is added per file for path headers and separators.
	FileOverhead = 16
	// DefaultMaxTokens applies when the caller passes a non-positive budget.
	DefaultMaxTokens = 8000
)

// ChunkFile is the content of one file (or part of one) inside a chunk.
type ChunkFile struct {
	Path           string                      `json:"path"`
	Content        string                      `json:"content"`
	Classification classify.FileClassification `json:"classification"`
}

// DiffChunk is a group of files whose estimated cost fits a token budget.
type DiffChunk struct {
	Files           []ChunkFile `json:"files"`
	EstimatedTokens int         `json:"estimatedTokens"`
}

// EstimateTokens returns ceil(len(s)/CharsPerToken).
func EstimateTokens(s string) int {
	return (len(s) + CharsPerToken - 1) / CharsPerToken
}

func fileCost(content string) int {
	return EstimateTokens(content) + FileOverhead
}

// SplitIntoChunks packs files into chunks of at most maxTokens estimated
// tokens. A single hunk larger than the budget is emitted alone rather than
// dropped, so every input file appears in at least one chunk.
func SplitIntoChunks(files []diff.DiffFile, maxTokens int) []DiffChunk {
	if len(files) == 0 {
		return nil
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	var chunks []DiffChunk
	var current DiffChunk

	flush := func() {
		if len(current.Files) == 0 {
			return
		}
		chunks = append(chunks, current)
		current = DiffChunk{}
	}

	for _, f := range files {
		content := f.Render()
		cost := fileCost(content)

		if cost > maxTokens {
			flush()
			chunks = append(chunks, splitFile(f, maxTokens)...)
			continue
		}

		if current.EstimatedTokens+cost > maxTokens {
			flush()
		}
		current.Files = append(current.Files, ChunkFile{
			Path:           f.Path,
			Content:        content,
			Classification: classify.Classify(f.Path),
		})
		current.EstimatedTokens += cost
	}
	flush()

	return chunks
}

// splitFile packs the hunks of one oversized file greedily, one file part
// per chunk.
func splitFile(f diff.DiffFile, maxTokens int) []DiffChunk {
	class := classify.Classify(f.Path)
	if len(f.Hunks) <= 1 {
		content := f.Render()
		return []DiffChunk{{
			Files:           []ChunkFile{{Path: f.Path, Content: content, Classification: class}},
			EstimatedTokens: fileCost(content),
		}}
	}

	var chunks []DiffChunk
	var b strings.Builder

	flush := func() {
		if b.Len() == 0 {
			return
		}
		content := b.String()
		chunks = append(chunks, DiffChunk{
			Files:           []ChunkFile{{Path: f.Path, Content: content, Classification: class}},
			EstimatedTokens: fileCost(content),
		})
		b.Reset()
	}

	for _, h := range f.Hunks {
		text := h.Render()
		if b.Len() > 0 && fileCost(b.String()+text) > maxTokens {
			flush()
		}
		b.WriteString(text)
	}
	flush()

	return chunks
}

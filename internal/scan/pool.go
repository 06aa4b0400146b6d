package scan

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/dshills/vigil/internal/finding"
	"github.com/dshills/vigil/internal/rules"
)

// DefaultWorkers caps concurrent file scans when Scanner.Workers is unset.
const DefaultWorkers = 8

// Source returns the content of a repository-relative path.
type Source func(path string) (string, error)

// DiskSource reads files under root.
func DiskSource(root string) Source {
	return func(path string) (string, error) {
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(path)))
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}

// FallbackSource tries each source in order and returns the first success.
func FallbackSource(sources ...Source) Source {
	return func(path string) (string, error) {
		err := fmt.Errorf("no source for %s", path)
		for _, src := range sources {
			var content string
			if content, err = src(path); err == nil {
				return content, nil
			}
		}
		return "", err
	}
}

// Stats summarizes a ScanFiles run.
type Stats struct {
	Files      int
	Skipped    int
	Suppressed map[string]int
}

// Scanner runs the rule engine over many files with a bounded worker pool.
type Scanner struct {
	Rules   *rules.RuleSet
	Workers int
}

// ScanFiles scans every path read from src. Files that cannot be read are
// skipped. Findings are returned in input file order regardless of which
// worker produced them. A cancelled context stops workers from taking new
// files and is reported as the error.
func (s *Scanner) ScanFiles(ctx context.Context, paths []string, src Source, ranges finding.LineRanges) ([]finding.StaticFinding, Stats, error) {
	workers := s.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	workers = min(workers, max(1, len(paths)))

	results := make([]*FileResult, len(paths))
	queue := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range queue {
				content, err := src(paths[i])
				if err != nil {
					slog.Debug("skipping unreadable file", "path", paths[i], "error", err)
					continue
				}
				res := scanFile(paths[i], content, s.Rules, ranges)
				results[i] = &res
			}
		}()
	}

feed:
	for i := range paths {
		select {
		case <-ctx.Done():
			break feed
		case queue <- i:
		}
	}
	close(queue)
	wg.Wait()

	stats := Stats{Suppressed: map[string]int{}}
	var all []finding.StaticFinding
	for _, res := range results {
		if res == nil {
			stats.Skipped++
			continue
		}
		stats.Files++
		all = append(all, res.Findings...)
		for name, n := range res.Suppressed {
			stats.Suppressed[name] += n
		}
	}
	return all, stats, ctx.Err()
}

// Package scan evaluates a rule set against file content.
//
// ScanFile runs three phases over one file:
//
//   - Per-line: every applicable line rule is tested against each line.
//     Matches pass through an ordered false-positive filter pipeline (see
//     [Filters]) before they are reported.
//   - Multiline: rules with a whole-file pattern are matched against the
//     full content and mapped back to line spans.
//   - Cleaning: when the rule set carries code-cleaning rules, file-level
//     heuristics report long files and functions, high complexity,
//     duplicated blocks and mixed quote styles.
//
// A line-range filter, when supplied, restricts every phase to spans that
// overlap changed lines. Findings in test files are downgraded to info.
//
// ScanFile is pure and safe for concurrent use on different files.
// [Scanner] fans a file list out over a bounded worker pool.
package scan

// Package diff parses unified diff text, as produced by git, into files,
// hunks and per-line changes.
//
// Parsing is best effort: lines that cannot be attributed to a file or hunk
// are skipped and parsing continues with the next recognizable header, so a
// corrupt section never hides the rest of the patch.
//
// Helpers derive the changed-line ranges used to scope rule matches to added
// code, and rebuild a line-number-preserving view of a file's new side when
// the file itself is not available on disk.
package diff

// Package finding defines StaticFinding, the atomic result produced by every
// analyzer, together with the severity scale, the changed-line-range filter
// used for diff-scoped review, and the deduplication step that merges
// overlapping results from different analyzers.
package finding

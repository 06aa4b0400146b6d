// Package chunk partitions changed files into token-budgeted groups for
// consumers with a bounded context size.
//
// Token cost is estimated from character count alone. Files are packed in
// input order; a file too large for the budget is split at hunk boundaries
// and never shares a chunk with other files.
package chunk

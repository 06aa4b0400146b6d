// Package discover enumerates the scannable files of a repository.
//
// Inside a git work tree the file list comes from git (tracked plus
// untracked-but-not-ignored); elsewhere the tree is walked with common build
// and dependency directories pruned. Both paths go through the same filters:
// recognized source extension, non-empty and within the size budget, not
// binary, not matched by an ignore pattern. When more files survive than the
// budget allows, files under priority directories are kept first.
package discover

// Package gitctx shells out to git for the inputs of a scan.
//
// It returns unified diff text for the unstaged, staged, commit and range
// modes, probes whether a directory is a work tree, and lists tracked plus
// untracked-but-not-ignored files for repository discovery. Every call takes
// a context so a stuck git process is killed with the run.
package gitctx

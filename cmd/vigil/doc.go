// Vigil is a diff-aware static analysis CLI.
//
// It scans unstaged, staged, commit, range, raw-diff and whole-repository
// inputs with built-in pattern rules and optional external analyzers
// (gosec, bandit, eslint, semgrep), scores the result and emits findings
// with deterministic exit codes suitable for CI gating and git hooks.
//
// Usage:
//
//	vigil scan unstaged                 # scan working tree changes
//	vigil scan staged                   # scan staged changes
//	vigil scan commit <sha>             # scan a specific commit
//	vigil scan range origin/main..HEAD  # scan a revision range
//	vigil scan diff change.patch        # scan a unified diff (or stdin)
//	vigil scan repo .                   # scan every source file
//	vigil chunk --max-tokens 4000       # split a diff into token-bounded chunks
//	vigil rules list                    # list the active pattern rules
//	vigil hook install                  # run vigil from a pre-commit hook
package main

// Package review runs a complete scan and assembles the report.
//
// An Engine is built once from the user configuration and the project's
// .vigil.toml: it owns the rule set, the ignore matcher, the analyzer list
// and the secret masker. RunDiff scans the files a unified diff touches and
// keeps only findings on added lines; RunRepo discovers every source file
// under a directory and reports everything.
//
// Report findings drop the producing tool and confidence, carry a stable ID
// and CWE/OWASP references, and have secret values masked in snippets. The
// score and summary are computed over all findings before the maxFindings
// cut is applied to the list.
package review

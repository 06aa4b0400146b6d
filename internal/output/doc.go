// Package output formats scan reports for display or machine consumption.
//
// Four formats are supported:
//   - text: terminal output with severity colors (default)
//   - json: the full structured report
//   - markdown: PR-comment-friendly with a collapsible section per severity
//   - sarif: SARIF v2.1.0 for code-scanning upload
//
// Use [GetWriter] to obtain a [Writer] for a format string, or
// [WriteReport] to write to a file path or stdout.
package output

// Package rules defines pattern rules and the immutable rule sets the scan
// engine evaluates.
//
// A rule matches either single lines (Pattern) or whole file content
// (Multiline). Its severity, category and confidence are fixed attributes.
// Rules are gated by file extension and, for sub-ecosystems such as smart
// contracts, by classification chain.
//
// Rule sets are constructed explicitly and passed to the engine at call
// time; there is no process-wide registry. NewRuleSet validates every rule
// and rejects duplicate IDs, which indicate a defect in the rule table
// rather than a runtime condition.
//
// Code-cleaning rules carry no matcher. Their presence in a set enables the
// engine's file-level heuristics, and the rule supplies the metadata for the
// findings those heuristics report.
package rules

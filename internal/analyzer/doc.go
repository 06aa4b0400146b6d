// Package analyzer runs the rule engine and external static-analysis tools
// concurrently over a change set and merges their findings.
//
// Every tool sits behind the Analyzer interface. The Orchestrator checks
// availability and relevance, runs each analyzer under its own timeout, and
// deduplicates the combined output once all of them have finished. One
// analyzer failing or timing out never affects the others.
package analyzer

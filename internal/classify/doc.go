// Package classify maps file paths to a language and, for a few
// extensions, a sub-ecosystem chain whose rules differ from the general pool.
//
// Classification is purely extension based and performs no I/O. The package
// also carries the path predicates (test, doc, config, markup, build tooling)
// the rule engine uses to suppress false positives.
package classify

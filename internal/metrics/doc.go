// Package metrics holds the Prometheus instruments recorded during a run.
//
// Instruments live in a private registry owned by a Recorder rather than the
// global default registry, so tests and repeated runs in one process do not
// collide. A CLI run writes the registry to a node-exporter textfile when
// --metrics-file is given.
package metrics

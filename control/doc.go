// Package control
// Author: momentics <momentics@gmail.com>
//
// Configuration, runtime metrics and debug introspection for record pools.
//
// Provides concurrent-safe state handling primitives including:
//   - YAML pool profiles with validation and snapshot reads
//   - Reload listeners for configuration changes
//   - Pool stats publishing into a metrics registry
//   - State export, debug hooks, and probe registration
//
// The pools themselves are single-threaded; this package only ever stores
// copied stats, so a scraper may read it concurrently with the pool owner.
package control

// Package control
// Author: momentics <momentics@gmail.com>
//
// Configuration, runtime metrics and debug introspection around owning rings.
//
// Provides:
//   - Config loading through viper (file, RING_* environment, bound flags)
//   - Prometheus export of ring status snapshots
//   - Logger construction for the configured level
//   - Named debug probes, including ring status probes
package control

// Package observe provides observability primitives for reactor threads.
//
// It is a pure instrumentation library: no polling, no scheduling, no I/O
// beyond exporter setup. Consumers wire the observer into a reactor so that
// each worker poll is traced, measured, and logged.
package observe

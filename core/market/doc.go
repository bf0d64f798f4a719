// Package market implements the merit-order auction core: timeline
// alignment of input series, fuel cost conversion, the merit-order ladder
// and the hourly clearing engine.
//
// The engine is pure: inputs are validated once, never mutated, and a run
// is a deterministic batch computation over the whole horizon. All I/O
// (workbooks, CSV, HTTP, sinks) lives outside this package.
package market

// Package snow simulates a field of falling particles.
//
// A Field owns the particles for one viewport size. An Overlay wraps the
// field for a host: it recreates the field on resize and runs update ticks
// on a single worker goroutine while the host draws from its own loop.
package snow

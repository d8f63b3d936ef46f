// Public domain.

//go:build !cspice

package spice

var registry = NewRegistry()

// Default returns the process-wide kernel pool.
func Default() Pool {
	return registry
}

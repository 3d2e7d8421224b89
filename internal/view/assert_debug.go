//go:build debug

package view

import "fmt"

// assertRange panics when v lies outside [lo, hi]. Only compiled into
// builds tagged debug.
func assertRange(where string, v, lo, hi float64) {
	if v < lo || v > hi {
		panic(fmt.Sprintf("%s: %v out of range [%v, %v]", where, v, lo, hi))
	}
}

// Package units defines the dimensioned scalar types used throughout
// OPOSSUM. Length, Angle, and Energy are plain float64 under the hood (SI:
// meters, radians, joules) but are given distinct named types so that a
// function signature like Propagate(length Length) cannot be accidentally
// called with a unitless ratio or an Angle. Raw float64 is reserved for
// genuinely unitless quantities (direction cosines, refractive indices,
// transmission factors).
package units

import "math"

// Length is a distance in meters.
type Length float64

// Angle is a plane angle in radians.
type Angle float64

// Energy is a radiometric energy in joules.
type Energy float64

// Finite reports whether f is neither NaN nor +-Inf.
func Finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// FiniteLength reports whether l holds a finite value.
func FiniteLength(l Length) bool { return Finite(float64(l)) }

// FiniteAngle reports whether a holds a finite value.
func FiniteAngle(a Angle) bool { return Finite(float64(a)) }

// FiniteEnergy reports whether e holds a finite value.
func FiniteEnergy(e Energy) bool { return Finite(float64(e)) }

// Package refractive implements RefractiveIndexModel, the external
// interface a Lens/CylindricLens/Wedge queries for its glass's index at a
// given wavelength: a constant, a Sellmeier dispersion formula, or a
// look-up table.
package refractive

import (
	"math"
	"sort"

	"github.com/opossum-optics/opossum/operror"
	"github.com/opossum-optics/opossum/units"
)

// Model is the closed RefractiveIndexModel sum type.
type Model interface {
	// At returns the refractive index at the given wavelength; always >= 1.
	At(wavelength units.Length) (float64, error)
}

// Const is a wavelength-independent index.
type Const struct {
	n float64
}

// NewConst builds a Const model. n must be >= 1.
func NewConst(n float64) (Model, error) {
	if n < 1 || math.IsNaN(n) {
		return nil, operror.InvalidArgument("refractive index", n)
	}
	return Const{n: n}, nil
}

func (c Const) At(units.Length) (float64, error) { return c.n, nil }

// Sellmeier implements the three-term Sellmeier dispersion formula:
// n(λ)^2 = 1 + sum_i B_i*λ^2/(λ^2 - C_i), λ in micrometers.
type Sellmeier struct {
	b [3]float64
	c [3]float64
}

// NewSellmeier builds a Sellmeier model from its three B and three C
// coefficients (C in µm^2).
func NewSellmeier(b, c [3]float64) Model {
	return Sellmeier{b: b, c: c}
}

func (s Sellmeier) At(wavelength units.Length) (float64, error) {
	if !units.FiniteLength(wavelength) || wavelength <= 0 {
		return 0, operror.InvalidArgument("wavelength", wavelength)
	}
	lambdaUm := float64(wavelength) * 1e6 // meters -> micrometers
	lambda2 := lambdaUm * lambdaUm

	nSq := 1.0
	for i := 0; i < 3; i++ {
		denom := lambda2 - s.c[i]
		if denom == 0 {
			return 0, operror.InvalidArgument("wavelength at Sellmeier pole", wavelength)
		}
		nSq += s.b[i] * lambda2 / denom
	}
	if nSq < 1 {
		return 0, operror.InvalidArgument("Sellmeier result", nSq)
	}
	return math.Sqrt(nSq), nil
}

// Table is a look-up table of (wavelength, index) pairs in ascending
// wavelength order, linearly interpolated between neighbors and clamped at
// the ends.
type Table struct {
	wavelengths []units.Length
	indices     []float64
}

// NewTable builds a Table model. wavelengths must be strictly ascending and
// indices must all be >= 1; the two slices must be the same non-zero length.
func NewTable(wavelengths []units.Length, indices []float64) (Model, error) {
	if len(wavelengths) == 0 || len(wavelengths) != len(indices) {
		return nil, operror.InvalidArgument("refractive index table", "length mismatch or empty")
	}
	for i, n := range indices {
		if n < 1 {
			return nil, operror.InvalidArgument("refractive index table entry", n)
		}
		if i > 0 && wavelengths[i] <= wavelengths[i-1] {
			return nil, operror.InvalidArgument("refractive index table wavelengths", "not strictly ascending")
		}
	}
	return Table{wavelengths: append([]units.Length(nil), wavelengths...), indices: append([]float64(nil), indices...)}, nil
}

func (t Table) At(wavelength units.Length) (float64, error) {
	if !units.FiniteLength(wavelength) {
		return 0, operror.InvalidArgument("wavelength", wavelength)
	}
	n := len(t.wavelengths)
	if wavelength <= t.wavelengths[0] {
		return t.indices[0], nil
	}
	if wavelength >= t.wavelengths[n-1] {
		return t.indices[n-1], nil
	}
	i := sort.Search(n, func(i int) bool { return t.wavelengths[i] >= wavelength })
	lo, hi := i-1, i
	span := float64(t.wavelengths[hi] - t.wavelengths[lo])
	frac := float64(wavelength-t.wavelengths[lo]) / span
	return t.indices[lo] + frac*(t.indices[hi]-t.indices[lo]), nil
}

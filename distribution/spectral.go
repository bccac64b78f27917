package distribution

import (
	"github.com/opossum-optics/opossum/operror"
	"github.com/opossum-optics/opossum/units"
)

// SpectralDistribution samples count wavelengths for a Source's emitted
// rays.
type SpectralDistribution interface {
	Sample(count int) ([]units.Length, error)
}

// Monochromatic emits count copies of a single fixed wavelength.
type Monochromatic struct {
	wavelength units.Length
}

// NewMonochromatic builds a Monochromatic distribution; wavelength must be
// finite and positive.
func NewMonochromatic(wavelength units.Length) (Monochromatic, error) {
	if !units.FiniteLength(wavelength) || wavelength <= 0 {
		return Monochromatic{}, operror.InvalidArgument("monochromatic wavelength", wavelength)
	}
	return Monochromatic{wavelength: wavelength}, nil
}

func (d Monochromatic) Sample(count int) ([]units.Length, error) {
	if count < 0 {
		return nil, operror.InvalidArgument("spectral sample count", count)
	}
	out := make([]units.Length, count)
	for i := range out {
		out[i] = d.wavelength
	}
	return out, nil
}

// UniformSpectral samples count wavelengths evenly spaced across [lo, hi].
type UniformSpectral struct {
	lo, hi units.Length
}

// NewUniformSpectral builds a UniformSpectral distribution; requires
// 0 < lo < hi, both finite.
func NewUniformSpectral(lo, hi units.Length) (UniformSpectral, error) {
	if !units.FiniteLength(lo) || !units.FiniteLength(hi) || lo <= 0 || hi <= lo {
		return UniformSpectral{}, operror.InvalidArgument("uniform spectral range", [2]units.Length{lo, hi})
	}
	return UniformSpectral{lo: lo, hi: hi}, nil
}

func (d UniformSpectral) Sample(count int) ([]units.Length, error) {
	if count < 0 {
		return nil, operror.InvalidArgument("spectral sample count", count)
	}
	out := make([]units.Length, count)
	if count == 1 {
		out[0] = (d.lo + d.hi) / 2
		return out, nil
	}
	for i := range out {
		frac := float64(i) / float64(count-1)
		out[i] = units.Length(float64(d.lo) + frac*(float64(d.hi)-float64(d.lo)))
	}
	return out, nil
}

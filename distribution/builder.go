package distribution

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/opossum-optics/opossum/operror"
	"github.com/opossum-optics/opossum/ray"
	"github.com/opossum-optics/opossum/spectrum"
	"github.com/opossum-optics/opossum/units"
)

// RayDataBuilder combines a position, an energy, and a spectral
// distribution into a Rays bundle: each of the count sampled positions,
// energies, and wavelengths is zipped into one ray, propagating along
// +Z from the source's local origin through the ambient medium. It is an
// opaque, single-use source constructor per §6 ("RayDataBuilder::build()
// -> Rays"); build it once per Source.
type RayDataBuilder struct {
	count           int
	positions       PositionDistribution
	energies        EnergyDistribution
	spectral        SpectralDistribution
	refractiveIndex float64
}

// NewRayDataBuilder builds a RayDataBuilder sampling count rays from the
// three given distributions, propagating through a medium of the given
// refractive index (>= 1).
func NewRayDataBuilder(count int, positions PositionDistribution, energies EnergyDistribution, spectral SpectralDistribution, refractiveIndex float64) (*RayDataBuilder, error) {
	if count < 0 {
		return nil, operror.InvalidArgument("ray data builder count", count)
	}
	if refractiveIndex < 1 {
		return nil, operror.InvalidArgument("ray data builder refractive index", refractiveIndex)
	}
	return &RayDataBuilder{
		count:           count,
		positions:       positions,
		energies:        energies,
		spectral:        spectral,
		refractiveIndex: refractiveIndex,
	}, nil
}

// Build samples all three distributions and zips them into a fresh Rays
// bundle, one ray per sampled triple. Position and energy/spectral
// distributions with a fixed output shape (e.g. Grid2D) determine the
// actual ray count; callers should construct energies/spectral with a
// matching count.
func (b *RayDataBuilder) Build() (*ray.Rays, error) {
	positions, err := b.positions.Sample(b.count)
	if err != nil {
		return nil, err
	}
	energies, err := b.energies.Sample(len(positions))
	if err != nil {
		return nil, err
	}
	wavelengths, err := b.spectral.Sample(len(positions))
	if err != nil {
		return nil, err
	}
	if len(energies) != len(positions) || len(wavelengths) != len(positions) {
		return nil, operror.InvalidArgument("ray data builder sample counts", [3]int{len(positions), len(energies), len(wavelengths)})
	}

	rb := ray.NewRays()
	for i, p := range positions {
		r, err := ray.New(r3.Vec{X: float64(p.X), Y: float64(p.Y)}, r3.Vec{Z: 1}, wavelengths[i], energies[i], b.refractiveIndex)
		if err != nil {
			return nil, err
		}
		rb.Add(r)
	}
	return rb, nil
}

// EnergyDataBuilder combines a spectral and an energy distribution into a
// Spectrum: each sampled (wavelength, energy) pair is deposited as a
// single peak on a fresh Spectrum spanning [lo, hi] at the given
// resolution. An opaque, single-use source constructor per §6
// ("EnergyDataBuilder::build() -> Spectrum").
type EnergyDataBuilder struct {
	count              int
	lo, hi, resolution units.Length
	energies           EnergyDistribution
	spectral           SpectralDistribution
}

// NewEnergyDataBuilder builds an EnergyDataBuilder sampling count peaks
// from energies/spectral and depositing them onto a Spectrum spanning
// [lo, hi] at resolution.
func NewEnergyDataBuilder(count int, lo, hi, resolution units.Length, energies EnergyDistribution, spectral SpectralDistribution) (*EnergyDataBuilder, error) {
	if count < 0 {
		return nil, operror.InvalidArgument("energy data builder count", count)
	}
	return &EnergyDataBuilder{
		count:      count,
		lo:         lo,
		hi:         hi,
		resolution: resolution,
		energies:   energies,
		spectral:   spectral,
	}, nil
}

// Build samples the energy and spectral distributions and deposits each
// pair as a single peak on a fresh Spectrum.
func (b *EnergyDataBuilder) Build() (*spectrum.Spectrum, error) {
	wavelengths, err := b.spectral.Sample(b.count)
	if err != nil {
		return nil, err
	}
	energies, err := b.energies.Sample(len(wavelengths))
	if err != nil {
		return nil, err
	}
	if len(energies) != len(wavelengths) {
		return nil, operror.InvalidArgument("energy data builder sample counts", [2]int{len(wavelengths), len(energies)})
	}

	s, err := spectrum.New(b.lo, b.hi, b.resolution)
	if err != nil {
		return nil, err
	}
	for i, wl := range wavelengths {
		if err := s.AddSinglePeak(wl, energies[i]); err != nil {
			return nil, err
		}
	}
	return s, nil
}

package distribution

import (
	"math"

	"github.com/opossum-optics/opossum/operror"
	"github.com/opossum-optics/opossum/units"
)

// EnergyDistribution samples count per-ray energies for a Source.
type EnergyDistribution interface {
	Sample(count int) ([]units.Energy, error)
}

// UniformEnergy splits a fixed total energy equally across every sampled
// ray.
type UniformEnergy struct {
	total units.Energy
}

// NewUniformEnergy builds a UniformEnergy distribution; total must be
// finite and non-negative.
func NewUniformEnergy(total units.Energy) (UniformEnergy, error) {
	if !units.FiniteEnergy(total) || total < 0 {
		return UniformEnergy{}, operror.InvalidArgument("uniform energy total", total)
	}
	return UniformEnergy{total: total}, nil
}

func (d UniformEnergy) Sample(count int) ([]units.Energy, error) {
	if count < 0 {
		return nil, operror.InvalidArgument("energy sample count", count)
	}
	out := make([]units.Energy, count)
	if count == 0 {
		return out, nil
	}
	each := d.total / units.Energy(count)
	for i := range out {
		out[i] = each
	}
	return out, nil
}

// GaussianEnergy weights samples by a Gaussian envelope in position index
// (ring or grid index i, used together with a matching PositionDistribution
// of the same count) so that the combined Rays bundle's radial energy
// profile approximates a Gaussian beam, then rescales the result so the
// total equals the configured total energy.
type GaussianEnergy struct {
	total units.Energy
	sigma float64
}

// NewGaussianEnergy builds a GaussianEnergy distribution; total must be
// finite and non-negative, sigma finite and positive.
func NewGaussianEnergy(total units.Energy, sigma float64) (GaussianEnergy, error) {
	if !units.FiniteEnergy(total) || total < 0 {
		return GaussianEnergy{}, operror.InvalidArgument("gaussian energy total", total)
	}
	if !units.Finite(sigma) || sigma <= 0 {
		return GaussianEnergy{}, operror.InvalidArgument("gaussian energy sigma", sigma)
	}
	return GaussianEnergy{total: total, sigma: sigma}, nil
}

func (d GaussianEnergy) Sample(count int) ([]units.Energy, error) {
	if count < 0 {
		return nil, operror.InvalidArgument("energy sample count", count)
	}
	out := make([]units.Energy, count)
	if count == 0 {
		return out, nil
	}
	weights := make([]float64, count)
	var sum float64
	for i := range weights {
		x := float64(i) / float64(count)
		w := math.Exp(-0.5 * (x / d.sigma) * (x / d.sigma))
		weights[i] = w
		sum += w
	}
	for i, w := range weights {
		out[i] = units.Energy(w / sum * float64(d.total))
	}
	return out, nil
}

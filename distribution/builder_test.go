package distribution_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opossum-optics/opossum/aperture"
	"github.com/opossum-optics/opossum/distribution"
)

func TestRayDataBuilder_BuildsOneRayPerSample(t *testing.T) {
	positions, err := distribution.NewHexapolarDisk(2e-3)
	require.NoError(t, err)
	energies, err := distribution.NewUniformEnergy(6)
	require.NoError(t, err)
	spectral, err := distribution.NewMonochromatic(550e-9)
	require.NoError(t, err)

	b, err := distribution.NewRayDataBuilder(1, positions, energies, spectral, 1.0)
	require.NoError(t, err)

	rays, err := b.Build()
	require.NoError(t, err)
	require.Equal(t, 7, rays.Len())

	var total float64
	for _, r := range rays.Rays() {
		assert.Equal(t, 550e-9, float64(r.Wavelength))
		assert.True(t, r.Valid)
		total += float64(r.Energy)
	}
	assert.InDelta(t, 6, total, 1e-9)
}

func TestRayDataBuilder_RejectsSubunityRefractiveIndex(t *testing.T) {
	positions := distribution.NewSinglePoint(aperture.Point2{})
	energies, err := distribution.NewUniformEnergy(1)
	require.NoError(t, err)
	spectral, err := distribution.NewMonochromatic(550e-9)
	require.NoError(t, err)

	_, err = distribution.NewRayDataBuilder(1, positions, energies, spectral, 0.5)
	assert.Error(t, err)
}

func TestEnergyDataBuilder_DepositsSamplesOntoSpectrum(t *testing.T) {
	energies, err := distribution.NewUniformEnergy(10)
	require.NoError(t, err)
	spectral, err := distribution.NewUniformSpectral(500e-9, 600e-9)
	require.NoError(t, err)

	b, err := distribution.NewEnergyDataBuilder(5, 490e-9, 610e-9, 1e-9, energies, spectral)
	require.NoError(t, err)

	s, err := b.Build()
	require.NoError(t, err)
	assert.InDelta(t, 10, float64(s.TotalEnergy()), 1e-3)
}

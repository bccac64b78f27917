package distribution_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opossum-optics/opossum/distribution"
)

func TestMonochromatic_RepeatsSingleWavelength(t *testing.T) {
	d, err := distribution.NewMonochromatic(550e-9)
	require.NoError(t, err)

	out, err := d.Sample(3)
	require.NoError(t, err)
	require.Len(t, out, 3)
	for _, wl := range out {
		assert.Equal(t, 550e-9, float64(wl))
	}
}

func TestMonochromatic_RejectsNonPositiveWavelength(t *testing.T) {
	_, err := distribution.NewMonochromatic(0)
	assert.Error(t, err)
}

func TestUniformSpectral_SpansRangeEvenly(t *testing.T) {
	d, err := distribution.NewUniformSpectral(500e-9, 600e-9)
	require.NoError(t, err)

	out, err := d.Sample(5)
	require.NoError(t, err)
	require.Len(t, out, 5)
	assert.InDelta(t, 500e-9, float64(out[0]), 1e-15)
	assert.InDelta(t, 600e-9, float64(out[4]), 1e-15)
	assert.InDelta(t, 550e-9, float64(out[2]), 1e-15)
}

func TestUniformSpectral_SingleSampleReturnsMidpoint(t *testing.T) {
	d, err := distribution.NewUniformSpectral(500e-9, 600e-9)
	require.NoError(t, err)

	out, err := d.Sample(1)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.InDelta(t, 550e-9, float64(out[0]), 1e-15)
}

func TestUniformSpectral_RejectsInvertedRange(t *testing.T) {
	_, err := distribution.NewUniformSpectral(600e-9, 500e-9)
	assert.Error(t, err)
}

package node_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/opossum-optics/opossum/light"
	"github.com/opossum-optics/opossum/node"
	"github.com/opossum-optics/opossum/ray"
)

func TestNewParaxialSurface_RejectsZeroFocalLength(t *testing.T) {
	res := newTestResources(t)
	_, err := node.NewParaxialSurface("p", res, 0, nil, nil)
	assert.Error(t, err)
}

func TestParaxialSurfaceAnalyze_FocusesOffAxisRayTowardAxis(t *testing.T) {
	res := newTestResources(t)
	lens, err := node.NewParaxialSurface("lens", res, 0.100, nil, nil)
	require.NoError(t, err)

	r, err := ray.New(r3.Vec{X: 0.005}, r3.Vec{Z: 1}, 550e-9, 1, 1)
	require.NoError(t, err)
	bundle := ray.NewRays(r)
	payload, err := light.NewGeometric(bundle)
	require.NoError(t, err)

	out, err := lens.Analyze(node.LightResult{"input": payload}, node.NewRayTraceAnalyzer(node.DefaultRayTraceConfig()))
	require.NoError(t, err)
	outBundle, ok := out["output"].AsGeometric()
	require.True(t, ok)
	require.Equal(t, 1, outBundle.Len())

	outRay := outBundle.Rays()[0]
	// RefractParaxial subtracts x/f from the (unnormalized) transverse
	// slope: a ray entering parallel to the axis at height h=5mm through a
	// f=100mm lens picks up Dir.X -= h/f = -0.05.
	assert.InDelta(t, -0.05, outRay.Dir.X, 1e-9)
	assert.InDelta(t, 1.0, outRay.Dir.Z, 1e-9)
}

func TestParaxialSurfaceAnalyze_EnergyModePassesSpectrumThrough(t *testing.T) {
	res := newTestResources(t)
	lens, err := node.NewParaxialSurface("lens", res, 0.100, nil, nil)
	require.NoError(t, err)

	s, err := spectrumOf(t)
	require.NoError(t, err)
	payload, err := light.NewEnergy(s)
	require.NoError(t, err)

	out, err := lens.Analyze(node.LightResult{"input": payload}, node.NewEnergyAnalyzer())
	require.NoError(t, err)
	assert.Equal(t, payload, out["output"])
}

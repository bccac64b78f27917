package node_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/opossum-optics/opossum/light"
	"github.com/opossum-optics/opossum/node"
	"github.com/opossum-optics/opossum/nodeattr"
	"github.com/opossum-optics/opossum/oplog"
	"github.com/opossum-optics/opossum/ray"
	"github.com/opossum-optics/opossum/refractive"
	"github.com/opossum-optics/opossum/spectrum"
	"github.com/opossum-optics/opossum/units"
)

func spectrumOf(t *testing.T) (*spectrum.Spectrum, error) {
	t.Helper()
	s, err := spectrum.New(500e-9, 600e-9, 1e-9)
	if err != nil {
		return nil, err
	}
	if err := s.AddSinglePeak(550e-9, 1); err != nil {
		return nil, err
	}
	return s, nil
}

func newTestResources(t *testing.T) *nodeattr.SceneryResources {
	t.Helper()
	res, err := nodeattr.NewSceneryResources(1.0, oplog.Nop())
	require.NoError(t, err)
	return res
}

func TestLensAnalyze_FlatFlatDoublesOpticalPathInGlass(t *testing.T) {
	res := newTestResources(t)
	idx, err := refractive.NewConst(2.0)
	require.NoError(t, err)
	lens, err := node.NewLens("window", res, units.Length(math.Inf(1)), units.Length(math.Inf(-1)), 0.010, idx)
	require.NoError(t, err)

	r, err := ray.New(r3.Vec{Z: -0.005}, r3.Vec{Z: 1}, 1000e-9, 1, 1)
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

	assert.InDelta(t, 1.0, outRay.RefractiveIndex, 1e-12)
	assert.InDelta(t, 1.0, outRay.Dir.Z, 1e-9)
	assert.InDelta(t, 0.0, outRay.Dir.X, 1e-9)
	// 5mm in ambient, then the thickness is traversed twice over in optical
	// path (10mm physical * n=2.0 = 20mm), for 25mm total.
	assert.InDelta(t, 0.025, float64(outRay.PathLength), 1e-9)
}

func TestLensAnalyze_BiconvexNeutralLensPreservesAxialDirection(t *testing.T) {
	res := newTestResources(t)
	idx, err := refractive.NewConst(1.0)
	require.NoError(t, err)
	lens, err := node.NewLens("neutral", res, 0.100, -0.100, 0.010, idx)
	require.NoError(t, err)

	var rays []*ray.Ray
	for i := 0; i < 19; i++ {
		x := 0.001 * float64(i%7-3)
		r, err := ray.New(r3.Vec{X: x, Z: -0.020}, r3.Vec{Z: 1}, 550e-9, 1, 1)
		require.NoError(t, err)
		rays = append(rays, r)
	}
	bundle := ray.NewRays(rays...)
	payload, err := light.NewGeometric(bundle)
	require.NoError(t, err)

	out, err := lens.Analyze(node.LightResult{"input": payload}, node.NewRayTraceAnalyzer(node.DefaultRayTraceConfig()))
	require.NoError(t, err)
	outBundle, ok := out["output"].AsGeometric()
	require.True(t, ok)
	for _, r := range outBundle.Rays() {
		assert.InDelta(t, 1.0, r.Dir.Z, 1e-9)
	}
}

func TestLensAnalyze_EnergyModePassesSpectrumThrough(t *testing.T) {
	res := newTestResources(t)
	idx, err := refractive.NewConst(1.5)
	require.NoError(t, err)
	lens, err := node.NewLens("l", res, 0.050, units.Length(math.Inf(-1)), 0.005, idx)
	require.NoError(t, err)

	spec, err := spectrumOf(t)
	require.NoError(t, err)
	payload, err := light.NewEnergy(spec)
	require.NoError(t, err)

	out, err := lens.Analyze(node.LightResult{"input": payload}, node.NewEnergyAnalyzer())
	require.NoError(t, err)
	outSpec, ok := out["output"].AsEnergy()
	require.True(t, ok)
	assert.Equal(t, spec, outSpec)
}

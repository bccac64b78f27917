package ray_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/opossum-optics/opossum/aperture"
	"github.com/opossum-optics/opossum/isometry"
	"github.com/opossum-optics/opossum/ray"
	"github.com/opossum-optics/opossum/units"
)

func newTestRay(t *testing.T, energy units.Energy) *ray.Ray {
	t.Helper()
	r, err := ray.New(r3.Vec{}, r3.Vec{Z: 1}, 500, energy, 1)
	require.NoError(t, err)
	return r
}

func TestRays_TotalEnergySumsValidOnly(t *testing.T) {
	bundle := ray.NewRays(newTestRay(t, 1), newTestRay(t, 2), newTestRay(t, 3))
	bundle.Rays()[1].Invalidate()

	assert.InDelta(t, 4, float64(bundle.TotalEnergy()), 1e-9)
}

func TestRays_InvalidateByThreshold(t *testing.T) {
	bundle := ray.NewRays(newTestRay(t, 0.1), newTestRay(t, 5))
	bundle.InvalidateByThreshold(1)

	assert.False(t, bundle.Rays()[0].Valid)
	assert.True(t, bundle.Rays()[1].Valid)
}

func TestRays_PruneInvalidDropsInvalidated(t *testing.T) {
	bundle := ray.NewRays(newTestRay(t, 0.1), newTestRay(t, 5))
	bundle.InvalidateByThreshold(1)
	bundle.PruneInvalid()

	assert.Equal(t, 1, bundle.Len())
}

func TestMerge_ConcatenatesAndSkipsNil(t *testing.T) {
	a := ray.NewRays(newTestRay(t, 1))
	b := ray.NewRays(newTestRay(t, 2), newTestRay(t, 3))

	merged := ray.Merge(a, nil, b)
	assert.Equal(t, 3, merged.Len())
}

func TestRays_SplitConservesTotalEnergy(t *testing.T) {
	bundle := ray.NewRays(newTestRay(t, 10), newTestRay(t, 20))
	cfg, err := ray.NewRatioSplit(0.3)
	require.NoError(t, err)

	before := bundle.TotalEnergy()
	reflected, err := bundle.Split(cfg)
	require.NoError(t, err)

	after := bundle.TotalEnergy() + reflected.TotalEnergy()
	assert.InDelta(t, float64(before), float64(after), 1e-9)
}

func TestGetRaysPositionHistory_IncludesCurrentPosition(t *testing.T) {
	r := newTestRay(t, 1)
	require.NoError(t, r.Propagate(5))
	bundle := ray.NewRays(r)

	history := bundle.GetRaysPositionHistory()
	require.Len(t, history, 1)
	paths, ok := history[500]
	require.True(t, ok)
	require.Len(t, paths, 1)
	assert.Len(t, paths[0], 2)
	assert.Equal(t, r3.Vec{Z: 5}, paths[0][1])
}

func TestGetRaysPositionHistory_GroupsByExactWavelength(t *testing.T) {
	a, err := ray.New(r3.Vec{}, r3.Vec{Z: 1}, 500e-9, 1, 1)
	require.NoError(t, err)
	b, err := ray.New(r3.Vec{}, r3.Vec{Z: 1}, 500e-9, 1, 1)
	require.NoError(t, err)
	c, err := ray.New(r3.Vec{}, r3.Vec{Z: 1}, 600e-9, 1, 1)
	require.NoError(t, err)
	bundle := ray.NewRays(a, b, c)

	history := bundle.GetRaysPositionHistory()
	require.Len(t, history, 2)
	assert.Len(t, history[500e-9], 2)
	assert.Len(t, history[600e-9], 1)
}

func TestRays_ApodizeReportsWhetherAnyRayWasZeroed(t *testing.T) {
	ap, err := aperture.NewBinaryCircle(1e-3, aperture.Point2{}, aperture.Hole)
	require.NoError(t, err)

	inside := newTestRay(t, 1)
	bundle := ray.NewRays(inside)
	zeroed := bundle.Apodize(ap, isometry.Identity())
	assert.False(t, zeroed)
	assert.Equal(t, 1.0, float64(bundle.Rays()[0].Energy))

	outside, err := ray.New(r3.Vec{X: 1}, r3.Vec{Z: 1}, 500, 1, 1)
	require.NoError(t, err)
	bundle = ray.NewRays(outside)
	zeroed = bundle.Apodize(ap, isometry.Identity())
	assert.True(t, zeroed)
	assert.Equal(t, 0.0, float64(bundle.Rays()[0].Energy))
}

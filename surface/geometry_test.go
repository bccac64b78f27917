package surface_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/opossum-optics/opossum/surface"
	"github.com/opossum-optics/opossum/units"
)

func TestPlaneIntersect_FindsForwardIntersection(t *testing.T) {
	plane := surface.NewPlane()
	point, normal, ok := plane.Intersect(r3.Vec{Z: -5}, r3.Vec{Z: 1})
	require.True(t, ok)
	assert.InDelta(t, 0, point.Z, 1e-12)
	assert.InDelta(t, -1, normal.Z, 1e-12)
}

func TestPlaneIntersect_RejectsBackwardIntersection(t *testing.T) {
	plane := surface.NewPlane()
	_, _, ok := plane.Intersect(r3.Vec{Z: 5}, r3.Vec{Z: 1})
	assert.False(t, ok)
}

func TestPlaneIntersect_RejectsParallelRay(t *testing.T) {
	plane := surface.NewPlane()
	_, _, ok := plane.Intersect(r3.Vec{Z: 1}, r3.Vec{X: 1})
	assert.False(t, ok)
}

func TestNewSphere_RejectsZeroAndNaN(t *testing.T) {
	_, err := surface.NewSphere(0)
	assert.Error(t, err)
	_, err = surface.NewSphere(units.Length(math.NaN()))
	assert.Error(t, err)
}

func TestNewSphere_InfiniteRadiusDegeneratesToPlane(t *testing.T) {
	shape, err := surface.NewSphere(units.Length(math.Inf(1)))
	require.NoError(t, err)
	point, normal, ok := shape.Intersect(r3.Vec{Z: -1}, r3.Vec{Z: 1})
	require.True(t, ok)
	assert.InDelta(t, 0, point.Z, 1e-12)
	assert.InDelta(t, -1, normal.Z, 1e-12)
}

func TestSphereIntersect_FindsNearestForwardPoint(t *testing.T) {
	shape, err := surface.NewSphere(0.1)
	require.NoError(t, err)
	point, _, ok := shape.Intersect(r3.Vec{Z: -1}, r3.Vec{Z: 1})
	require.True(t, ok)
	assert.InDelta(t, 0, point.Z, 1e-9)
}

func TestNewCylinder_RejectsZeroAxis(t *testing.T) {
	_, err := surface.NewCylinder(0.1, r3.Vec{})
	assert.Error(t, err)
}

func TestNewCylinder_InfiniteRadiusDegeneratesToPlane(t *testing.T) {
	shape, err := surface.NewCylinder(units.Length(math.Inf(-1)), r3.Vec{Y: 1})
	require.NoError(t, err)
	_, _, ok := shape.Intersect(r3.Vec{Z: -1}, r3.Vec{Z: 1})
	assert.True(t, ok)
}

func TestCylinderIntersect_FindsForwardPoint(t *testing.T) {
	shape, err := surface.NewCylinder(0.05, r3.Vec{Y: 1})
	require.NoError(t, err)
	point, _, ok := shape.Intersect(r3.Vec{Z: -1}, r3.Vec{Z: 1})
	require.True(t, ok)
	assert.InDelta(t, 0, point.Z, 1e-9)
}

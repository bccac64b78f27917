package surface_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opossum-optics/opossum/isometry"
	"github.com/opossum-optics/opossum/surface"
	"github.com/opossum-optics/opossum/units"
)

func TestNew_RejectsNegativeLIDT(t *testing.T) {
	plane := surface.NewPlane()
	_, err := surface.New[int](plane, isometry.Identity(), nil, nil, -1)
	assert.Error(t, err)
}

func TestNew_DefaultsApertureAndCoatingWhenNil(t *testing.T) {
	plane := surface.NewPlane()
	s, err := surface.New[int](plane, isometry.Identity(), nil, nil, 0)
	require.NoError(t, err)
	require.NotNil(t, s.Aperture())
	assert.IsType(t, surface.IdealAR{}, s.Coating())
}

func TestOpticSurface_HitMapAccumulatesAndResetClears(t *testing.T) {
	plane := surface.NewPlane()
	s, err := surface.New[int](plane, isometry.Identity(), nil, nil, 10)
	require.NoError(t, err)

	s.RecordHit(surface.HitRecord{Energy: 0.5, Wavelength: 500e-9})
	s.RecordHit(surface.HitRecord{Energy: 0.25, Wavelength: 500e-9})
	assert.Len(t, s.HitMap(), 2)
	assert.Greater(t, s.Fluence(), 0.0)

	s.ResetData()
	assert.Len(t, s.HitMap(), 0)
	assert.Equal(t, 0.0, s.Fluence())
}

func TestOpticSurface_CachesAreDirectionalAndDrainClears(t *testing.T) {
	plane := surface.NewPlane()
	s, err := surface.New[int](plane, isometry.Identity(), nil, nil, 0)
	require.NoError(t, err)

	s.AppendCache(false, 1, 2)
	s.AppendCache(true, 9)
	assert.Equal(t, []int{1, 2}, s.CachedRays(false))
	assert.Equal(t, []int{9}, s.CachedRays(true))

	drained := s.DrainCache(false)
	assert.Equal(t, []int{1, 2}, drained)
	assert.Len(t, s.CachedRays(false), 0)
	assert.Equal(t, []int{9}, s.CachedRays(true))
}

func TestOpticSurface_SetAnchorReplacesAnchor(t *testing.T) {
	plane := surface.NewPlane()
	s, err := surface.New[int](plane, isometry.Identity(), nil, nil, 0)
	require.NoError(t, err)

	newAnchor := isometry.NewAlongZ(units.Length(0.01))
	s.SetAnchor(newAnchor)
	assert.Equal(t, newAnchor, s.Anchor())
}

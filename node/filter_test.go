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

func TestIdealFilterAnalyze_EnergyModeScalesSpectrumByConstant(t *testing.T) {
	res := newTestResources(t)
	f, err := ray.NewConstantFilter(0.5)
	require.NoError(t, err)
	filter := node.NewIdealFilter("f", res, f)

	s, err := spectrumOf(t)
	require.NoError(t, err)
	payload, err := light.NewEnergy(s)
	require.NoError(t, err)

	out, err := filter.Analyze(node.LightResult{"input": payload}, node.NewEnergyAnalyzer())
	require.NoError(t, err)
	outSpec, ok := out["output"].AsEnergy()
	require.True(t, ok)
	assert.InDelta(t, 0.5, float64(outSpec.TotalEnergy()), 1e-9)
}

func TestIdealFilterAnalyze_RayModeAttenuatesAndCanDropBelowThreshold(t *testing.T) {
	res := newTestResources(t)
	f, err := ray.NewConstantFilter(0.1)
	require.NoError(t, err)
	filter := node.NewIdealFilter("f", res, f)

	r, err := ray.New(r3.Vec{}, r3.Vec{Z: 1}, 550e-9, 1.0, 1)
	require.NoError(t, err)
	bundle := ray.NewRays(r)
	payload, err := light.NewGeometric(bundle)
	require.NoError(t, err)

	cfg := node.DefaultRayTraceConfig()
	cfg.MinEnergyPerRay = 0.5
	out, err := filter.Analyze(node.LightResult{"input": payload}, node.NewRayTraceAnalyzer(cfg))
	require.NoError(t, err)
	outBundle, ok := out["output"].AsGeometric()
	require.True(t, ok)
	assert.Equal(t, 0, outBundle.Len())
}

func TestIdealFilterAnalyze_MissingInputErrors(t *testing.T) {
	res := newTestResources(t)
	f, err := ray.NewConstantFilter(1.0)
	require.NoError(t, err)
	filter := node.NewIdealFilter("f", res, f)

	_, err = filter.Analyze(node.LightResult{}, node.NewEnergyAnalyzer())
	assert.Error(t, err)
}

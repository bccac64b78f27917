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

func TestDummyAnalyze_PassesPayloadThroughUnchanged(t *testing.T) {
	res := newTestResources(t)
	d := node.NewDummy("d", res)

	s, err := spectrumOf(t)
	require.NoError(t, err)
	payload, err := light.NewEnergy(s)
	require.NoError(t, err)

	out, err := d.Analyze(node.LightResult{"input": payload}, node.NewEnergyAnalyzer())
	require.NoError(t, err)
	assert.Equal(t, payload, out["output"])
}

func TestDummyAnalyze_MissingInputErrors(t *testing.T) {
	res := newTestResources(t)
	d := node.NewDummy("d", res)

	_, err := d.Analyze(node.LightResult{}, node.NewEnergyAnalyzer())
	assert.Error(t, err)
}

func TestDummyCalcNodePosition_PassesChiefRayThroughUnchanged(t *testing.T) {
	res := newTestResources(t)
	d := node.NewDummy("d", res)

	chief, err := ray.New(r3.Vec{X: 1, Y: 2, Z: 3}, r3.Vec{Z: 1}, 550e-9, 1, 1)
	require.NoError(t, err)

	out, err := d.CalcNodePosition(chief, node.NewEnergyAnalyzer())
	require.NoError(t, err)
	assert.Equal(t, chief.Pos, out.Pos)
	assert.Equal(t, chief.Dir, out.Dir)
}

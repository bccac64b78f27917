package ograph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/opossum-optics/opossum/node"
	"github.com/opossum-optics/opossum/nodeattr"
	"github.com/opossum-optics/opossum/ograph"
	"github.com/opossum-optics/opossum/ray"
)

// buildInnerGraph wires a single Dummy with its ports mapped to "in"/"out",
// the minimal nested graph a NodeGroup can wrap.
func buildInnerGraph(t *testing.T, res *nodeattr.SceneryResources) *ograph.OpticGraph {
	t.Helper()
	inner := ograph.New()
	d := node.NewDummy("inner-dummy", res)
	_, err := inner.AddNode(d)
	require.NoError(t, err)
	require.NoError(t, inner.MapPort(d.Attr().UUID, nodeattr.Input, "input", "in"))
	require.NoError(t, inner.MapPort(d.Attr().UUID, nodeattr.Output, "output", "out"))
	return inner
}

func TestNodeGroup_DelegatesAnalyzeToInnerGraph(t *testing.T) {
	res := newTestResources(t)
	inner := buildInnerGraph(t, res)
	group := node.NewNodeGroup("group", res, inner)

	ports := group.Ports()
	assert.Contains(t, ports, "in")
	assert.Contains(t, ports, "out")

	payload := energyPayload(t, 1.0)
	out, err := group.Analyze(node.LightResult{"in": payload}, node.NewEnergyAnalyzer())
	require.NoError(t, err)
	outPayload, ok := out["out"]
	require.True(t, ok)
	s, ok := outPayload.AsEnergy()
	require.True(t, ok)
	assert.InDelta(t, 1.0, float64(s.TotalEnergy()), 1e-9)
}

func TestNodeGroup_CalcNodePositionDelegatesToInnerGraph(t *testing.T) {
	res := newTestResources(t)
	inner := buildInnerGraph(t, res)
	group := node.NewNodeGroup("group", res, inner)

	chief, err := ray.New(r3.Vec{}, r3.Vec{Z: 1}, 550e-9, 1, 1)
	require.NoError(t, err)
	out, err := group.CalcNodePosition(chief, node.NewRayTraceAnalyzer(node.DefaultRayTraceConfig()))
	require.NoError(t, err)
	require.NotNil(t, out)
}

func TestNodeReference_AnalyzeDelegatesToReferent(t *testing.T) {
	res := newTestResources(t)
	g := ograph.New()
	d := node.NewDummy("d", res)
	idD, err := g.AddNode(d)
	require.NoError(t, err)

	ref := node.NewNodeReference("ref", res, idD, g)
	payload := energyPayload(t, 1.0)
	out, err := ref.Analyze(node.LightResult{"input": payload}, node.NewEnergyAnalyzer())
	require.NoError(t, err)
	assert.Equal(t, payload, out["output"])
}

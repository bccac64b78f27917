package ograph_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/opossum-optics/opossum/light"
	"github.com/opossum-optics/opossum/node"
	"github.com/opossum-optics/opossum/nodeattr"
	"github.com/opossum-optics/opossum/ograph"
	"github.com/opossum-optics/opossum/oplog"
	"github.com/opossum-optics/opossum/ray"
	"github.com/opossum-optics/opossum/report"
	"github.com/opossum-optics/opossum/spectrum"
)

func newTestResources(t *testing.T) *nodeattr.SceneryResources {
	t.Helper()
	res, err := nodeattr.NewSceneryResources(1, oplog.Nop())
	require.NoError(t, err)
	return res
}

func energyPayload(t *testing.T, peak float64) light.Data {
	t.Helper()
	s, err := spectrum.New(1000e-9, 1100e-9, 1e-9)
	require.NoError(t, err)
	require.NoError(t, s.AddSinglePeak(1053e-9, peak))
	d, err := light.NewEnergy(s)
	require.NoError(t, err)
	return d
}

func TestConnectNodes_RejectsCycle(t *testing.T) {
	res := newTestResources(t)
	g := ograph.New()
	a := node.NewDummy("a", res)
	b := node.NewDummy("b", res)
	idA, err := g.AddNode(a)
	require.NoError(t, err)
	idB, err := g.AddNode(b)
	require.NoError(t, err)

	require.NoError(t, g.ConnectNodes(idA, "output", idB, "input", 0.1))
	err = g.ConnectNodes(idB, "output", idA, "input", 0.1)
	assert.Error(t, err)
}

func TestConnectNodes_RejectsDoubleBindingOfSamePort(t *testing.T) {
	res := newTestResources(t)
	g := ograph.New()
	a := node.NewDummy("a", res)
	b := node.NewDummy("b", res)
	c := node.NewDummy("c", res)
	idA, _ := g.AddNode(a)
	idB, _ := g.AddNode(b)
	idC, _ := g.AddNode(c)

	require.NoError(t, g.ConnectNodes(idA, "output", idB, "input", 0.1))
	err := g.ConnectNodes(idC, "output", idB, "input", 0.1)
	assert.Error(t, err)
}

func TestDeleteNode_CascadesToReferences(t *testing.T) {
	res := newTestResources(t)
	g := ograph.New()
	a := node.NewDummy("a", res)
	idA, err := g.AddNode(a)
	require.NoError(t, err)

	ref := node.NewNodeReference("ref-to-a", res, idA, g)
	idRef, err := g.AddNode(ref)
	require.NoError(t, err)

	deleted, err := g.DeleteNode(idA)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{idA.String(), idRef.String()}, idsToStrings(deleted))

	_, ok := g.Node(idRef)
	assert.False(t, ok)
}

func idsToStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func TestTopologicalSort_OrdersUpstreamBeforeDownstream(t *testing.T) {
	res := newTestResources(t)
	g := ograph.New()
	a := node.NewDummy("a", res)
	b := node.NewDummy("b", res)
	c := node.NewDummy("c", res)
	idA, _ := g.AddNode(a)
	idB, _ := g.AddNode(b)
	idC, _ := g.AddNode(c)
	require.NoError(t, g.ConnectNodes(idA, "output", idB, "input", 0.1))
	require.NoError(t, g.ConnectNodes(idB, "output", idC, "input", 0.1))

	order, err := g.TopologicalSort()
	require.NoError(t, err)
	pos := map[string]int{}
	for i, id := range order {
		pos[id.String()] = i
	}
	assert.Less(t, pos[idA.String()], pos[idB.String()])
	assert.Less(t, pos[idB.String()], pos[idC.String()])
}

func TestMapPort_RejectsDuplicateExternalName(t *testing.T) {
	res := newTestResources(t)
	g := ograph.New()
	a := node.NewDummy("a", res)
	b := node.NewDummy("b", res)
	idA, _ := g.AddNode(a)
	idB, _ := g.AddNode(b)

	require.NoError(t, g.MapPort(idA, nodeattr.Input, "input", "in"))
	err := g.MapPort(idB, nodeattr.Input, "input", "in")
	assert.Error(t, err)
}

func TestAnalyze_FlowsThroughChainOfDummiesToExternalOutput(t *testing.T) {
	res := newTestResources(t)
	g := ograph.New()
	a := node.NewDummy("a", res)
	b := node.NewDummy("b", res)
	idA, _ := g.AddNode(a)
	idB, _ := g.AddNode(b)
	require.NoError(t, g.ConnectNodes(idA, "output", idB, "input", 0.1))
	require.NoError(t, g.MapPort(idA, nodeattr.Input, "input", "in"))
	require.NoError(t, g.MapPort(idB, nodeattr.Output, "output", "out"))

	payload := energyPayload(t, 1.0)
	out, err := g.Analyze(node.LightResult{"in": payload}, node.NewEnergyAnalyzer(), oplog.Nop())
	require.NoError(t, err)

	outPayload, ok := out["out"]
	require.True(t, ok)
	s, ok := outPayload.AsEnergy()
	require.True(t, ok)
	assert.InDelta(t, 1.0, float64(s.TotalEnergy()), 1e-9)
}

func TestNodeReport_SurfacesMeterTotalAfterAnalyze(t *testing.T) {
	res := newTestResources(t)
	g := ograph.New()
	src := node.NewDummy("src", res)
	meter := node.NewEnergyMeter("meter", res)
	idSrc, _ := g.AddNode(src)
	idMeter, _ := g.AddNode(meter)
	require.NoError(t, g.ConnectNodes(idSrc, "output", idMeter, "input", 0))
	require.NoError(t, g.MapPort(idSrc, nodeattr.Input, "input", "in"))
	require.NoError(t, g.MapPort(idMeter, nodeattr.Output, "output", "out"))

	payload := energyPayload(t, 1.0)
	_, err := g.Analyze(node.LightResult{"in": payload}, node.NewEnergyAnalyzer(), oplog.Nop())
	require.NoError(t, err)

	rep, ok := g.NodeReport(idMeter)
	require.True(t, ok)
	total, ok := rep.Field("total_energy")
	require.True(t, ok)
	assert.InDelta(t, 1.0, total.(float64), 1e-9)

	_, ok = g.NodeReport(uuid.New())
	assert.False(t, ok)
}

func TestAnalyze_PropagatesGeometricPayloadAcrossEdgeDistance(t *testing.T) {
	res := newTestResources(t)
	g := ograph.New()

	r, err := ray.New(r3.Vec{}, r3.Vec{Z: 1}, 550e-9, 1, 1)
	require.NoError(t, err)
	rb := ray.NewRays(r)
	payload, err := light.NewGeometric(rb)
	require.NoError(t, err)

	src, err := node.NewSource("src", res, payload)
	require.NoError(t, err)
	dummy := node.NewDummy("dummy", res)
	idSrc, _ := g.AddNode(src)
	idDummy, _ := g.AddNode(dummy)
	require.NoError(t, g.ConnectNodes(idSrc, "output", idDummy, "input", 0.05))
	require.NoError(t, g.MapPort(idDummy, nodeattr.Output, "output", "out"))

	out, err := g.Analyze(node.LightResult{}, node.NewRayTraceAnalyzer(node.DefaultRayTraceConfig()), oplog.Nop())
	require.NoError(t, err)
	outRays, ok := out["out"].AsGeometric()
	require.True(t, ok)
	require.Equal(t, 1, outRays.Len())
	assert.InDelta(t, 0.05, outRays.Rays()[0].Pos.Z, 1e-12)
}

func TestOpticGraph_StringReportsNodeAndEdgeCounts(t *testing.T) {
	res := newTestResources(t)
	g := ograph.New()
	a := node.NewDummy("a", res)
	b := node.NewDummy("b", res)
	idA, _ := g.AddNode(a)
	idB, _ := g.AddNode(b)
	require.NoError(t, g.ConnectNodes(idA, "output", idB, "input", 0))

	s := g.String()
	assert.Contains(t, s, "nodes=2")
	assert.Contains(t, s, "edges=1")
}

func TestOpticGraph_EdgesExcludesPayload(t *testing.T) {
	res := newTestResources(t)
	g := ograph.New()
	a := node.NewDummy("a", res)
	b := node.NewDummy("b", res)
	idA, _ := g.AddNode(a)
	idB, _ := g.AddNode(b)
	require.NoError(t, g.ConnectNodes(idA, "output", idB, "input", 0.02))

	edges := g.Edges()
	require.Len(t, edges, 1)
	assert.Equal(t, idA, edges[0].SrcNode)
	assert.Equal(t, idB, edges[0].DstNode)
	assert.InDelta(t, 0.02, float64(edges[0].Distance), 1e-12)
}

func TestOpticGraph_SnapshotDTORoundTripsNodesAndEdges(t *testing.T) {
	res := newTestResources(t)
	g := ograph.New()
	a := node.NewDummy("a", res)
	b := node.NewDummy("b", res)
	idA, _ := g.AddNode(a)
	idB, _ := g.AddNode(b)
	require.NoError(t, g.ConnectNodes(idA, "output", idB, "input", 0.01))

	dto := g.SnapshotDTO()
	assert.Equal(t, report.CurrentVersion, dto.Version)
	assert.True(t, report.CheckVersion(dto))
	assert.Len(t, dto.Nodes, 2)
	require.Len(t, dto.Edges, 1)
	assert.Equal(t, idA, dto.Edges[0].SrcNode)
	assert.Equal(t, idB, dto.Edges[0].DstNode)
}

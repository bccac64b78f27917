// Package ograph implements OpticGraph: a directed multigraph of
// node.OpticNode values identified by UUID, with port-name edges,
// topological ordering, and external port mapping for nesting a graph
// inside a node.NodeGroup.
//
// Mutation (AddNode/DeleteNode/ConnectNodes/DisconnectNodes/MapPort) is
// guarded by a pair of RWMutexes in the style of the graph primitives this
// package is grounded on: one for the node catalog, one for edges and
// adjacency, so reads never block behind unrelated writes.
package ograph

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/opossum-optics/opossum/light"
	"github.com/opossum-optics/opossum/nodeattr"
	"github.com/opossum-optics/opossum/node"
	"github.com/opossum-optics/opossum/operror"
	"github.com/opossum-optics/opossum/report"
	"github.com/opossum-optics/opossum/units"
)

// portKey identifies a single named port on a single node.
type portKey struct {
	node uuid.UUID
	port string
}

// Edge connects an output port on one node to an input port on another.
// Its unexported payload/hasPayload fields are populated during analysis and cleared by
// ResetData; they never persist.
type Edge struct {
	SrcNode, DstNode uuid.UUID
	SrcPort, DstPort string
	Distance         units.Length

	payload    light.Data
	hasPayload bool
}

// referencer is satisfied by node.NodeReference[R]; used internally so
// DeleteNode can find every reference pointing at a node being removed
// without ograph importing a concrete instantiation of that generic.
type referencer interface {
	Referent() uuid.UUID
}

// OpticGraph is a directed multigraph of OpticNodes. Node identity is the
// node's own UUID (generated once at node construction); edge identity is
// (src node, src port) -> (dst node, dst port).
type OpticGraph struct {
	muNodes sync.RWMutex
	muEdge  sync.RWMutex

	nodes map[uuid.UUID]node.OpticNode

	outEdges  map[portKey]*Edge
	inEdges   map[portKey]*Edge
	adjacency map[uuid.UUID]map[uuid.UUID]int // node -> successor -> parallel edge count

	inverted bool

	externalInputs  map[string]portKey
	externalOutputs map[string]portKey
}

// New builds an empty, non-inverted OpticGraph.
func New() *OpticGraph {
	return &OpticGraph{
		nodes:           make(map[uuid.UUID]node.OpticNode),
		outEdges:        make(map[portKey]*Edge),
		inEdges:         make(map[portKey]*Edge),
		adjacency:       make(map[uuid.UUID]map[uuid.UUID]int),
		externalInputs:  make(map[string]portKey),
		externalOutputs: make(map[string]portKey),
	}
}

// SetInverted marks the graph as running its reverse/ghost-focus analysis
// pass. Once inverted, ConnectNodes is rejected (per spec, a connection
// mutation on an inverted graph always fails).
func (g *OpticGraph) SetInverted(inverted bool) { g.inverted = inverted }

// Inverted reports the graph-level inversion flag.
func (g *OpticGraph) Inverted() bool { return g.inverted }

// AddNode registers n under its own NodeAttr UUID and returns that UUID.
func (g *OpticGraph) AddNode(n node.OpticNode) (uuid.UUID, error) {
	id := n.Attr().UUID
	g.muNodes.Lock()
	defer g.muNodes.Unlock()
	if _, exists := g.nodes[id]; exists {
		return uuid.Nil, operror.Graph("node " + id.String() + " already added")
	}
	g.nodes[id] = n
	return id, nil
}

// Node looks up a node by UUID.
func (g *OpticGraph) Node(id uuid.UUID) (node.OpticNode, bool) {
	g.muNodes.RLock()
	defer g.muNodes.RUnlock()
	n, ok := g.nodes[id]
	return n, ok
}

// Resolve implements node.NodeResolver, letting a NodeReference stored in
// this graph look up its referent by UUID at analysis time.
func (g *OpticGraph) Resolve(id uuid.UUID) (node.OpticNode, bool) { return g.Node(id) }

// Nodes returns every node currently in the graph, in no particular order.
func (g *OpticGraph) Nodes() []node.OpticNode {
	g.muNodes.RLock()
	defer g.muNodes.RUnlock()
	out := make([]node.OpticNode, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	return out
}

// DeleteNode removes id and every edge touching it, plus every
// NodeReference in the graph that pointed at id (transitively, if deleting
// one reference exposes another reference pointing at it). Returns the
// full list of deleted UUIDs (id first).
func (g *OpticGraph) DeleteNode(id uuid.UUID) ([]uuid.UUID, error) {
	g.muNodes.Lock()
	defer g.muNodes.Unlock()
	if _, ok := g.nodes[id]; !ok {
		return nil, operror.Graph("delete_node: unknown node " + id.String())
	}

	deleted := []uuid.UUID{}
	pending := []uuid.UUID{id}
	removed := make(map[uuid.UUID]bool)
	for len(pending) > 0 {
		cur := pending[0]
		pending = pending[1:]
		if removed[cur] {
			continue
		}
		removed[cur] = true
		deleted = append(deleted, cur)

		g.removeEdgesTouching(cur)
		delete(g.nodes, cur)

		for otherID, other := range g.nodes {
			if removed[otherID] {
				continue
			}
			if ref, ok := other.(referencer); ok && ref.Referent() == cur {
				pending = append(pending, otherID)
			}
		}
	}
	return deleted, nil
}

// removeEdgesTouching drops every edge with id as either endpoint, and the
// external port mappings bound to any of those ports. Caller holds muNodes.
func (g *OpticGraph) removeEdgesTouching(id uuid.UUID) {
	g.muEdge.Lock()
	defer g.muEdge.Unlock()
	for key, e := range g.outEdges {
		if e.SrcNode == id || e.DstNode == id {
			g.unlinkEdgeLocked(key, portKey{node: e.DstNode, port: e.DstPort})
		}
	}
	for name, key := range g.externalInputs {
		if key.node == id {
			delete(g.externalInputs, name)
		}
	}
	for name, key := range g.externalOutputs {
		if key.node == id {
			delete(g.externalOutputs, name)
		}
	}
}

// unlinkEdgeLocked removes the edge stored under outKey (and its mirrored
// inKey entry) from outEdges/inEdges/adjacency. Caller holds muEdge.
func (g *OpticGraph) unlinkEdgeLocked(outKey, inKey portKey) {
	e, ok := g.outEdges[outKey]
	if !ok {
		return
	}
	delete(g.outEdges, outKey)
	delete(g.inEdges, inKey)
	if succs, ok := g.adjacency[e.SrcNode]; ok {
		succs[e.DstNode]--
		if succs[e.DstNode] <= 0 {
			delete(succs, e.DstNode)
		}
	}
}

// hasPath reports whether a directed node-level path from src to dst
// already exists, used by ConnectNodes to reject edges that would close a
// cycle before they are added.
func (g *OpticGraph) hasPath(src, dst uuid.UUID) bool {
	if src == dst {
		return true
	}
	visited := make(map[uuid.UUID]bool)
	stack := []uuid.UUID{src}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[cur] {
			continue
		}
		visited[cur] = true
		if cur == dst {
			return true
		}
		for next := range g.adjacency[cur] {
			if !visited[next] {
				stack = append(stack, next)
			}
		}
	}
	return false
}

// ConnectNodes binds srcNode's srcPort (an output) to dstNode's dstPort (an
// input) across a propagation gap of distance. Fails if either node is
// missing, either port is unknown or of the wrong direction, either port is
// already bound, the new edge would create a directed cycle, or the graph
// is marked inverted.
func (g *OpticGraph) ConnectNodes(srcNode uuid.UUID, srcPort string, dstNode uuid.UUID, dstPort string, distance units.Length) error {
	if g.inverted {
		return operror.Graph("connect_nodes: graph is inverted")
	}

	g.muNodes.RLock()
	src, ok := g.nodes[srcNode]
	if !ok {
		g.muNodes.RUnlock()
		return operror.Graph("connect_nodes: unknown node " + srcNode.String())
	}
	dst, ok := g.nodes[dstNode]
	if !ok {
		g.muNodes.RUnlock()
		return operror.Graph("connect_nodes: unknown node " + dstNode.String())
	}
	srcP, ok := src.Ports()[srcPort]
	if !ok || srcP.Type != nodeattr.Output {
		g.muNodes.RUnlock()
		return operror.Port(src.Attr().Name, srcPort, "not a declared output port")
	}
	dstP, ok := dst.Ports()[dstPort]
	if !ok || dstP.Type != nodeattr.Input {
		g.muNodes.RUnlock()
		return operror.Port(dst.Attr().Name, dstPort, "not a declared input port")
	}
	g.muNodes.RUnlock()

	g.muEdge.Lock()
	defer g.muEdge.Unlock()

	outKey := portKey{node: srcNode, port: srcPort}
	inKey := portKey{node: dstNode, port: dstPort}
	if _, bound := g.outEdges[outKey]; bound {
		return operror.Port(src.Attr().Name, srcPort, "output port already has an outgoing edge")
	}
	if _, bound := g.inEdges[inKey]; bound {
		return operror.Port(dst.Attr().Name, dstPort, "input port already has an incoming edge")
	}
	if g.hasPath(dstNode, srcNode) {
		return operror.Graph("connect_nodes: would create a directed cycle")
	}

	e := &Edge{SrcNode: srcNode, SrcPort: srcPort, DstNode: dstNode, DstPort: dstPort, Distance: distance}
	g.outEdges[outKey] = e
	g.inEdges[inKey] = e
	if g.adjacency[srcNode] == nil {
		g.adjacency[srcNode] = make(map[uuid.UUID]int)
	}
	g.adjacency[srcNode][dstNode]++
	return nil
}

// DisconnectNodes removes the outgoing edge bound at (srcNode, srcPort), if
// any.
func (g *OpticGraph) DisconnectNodes(srcNode uuid.UUID, srcPort string) error {
	g.muEdge.Lock()
	defer g.muEdge.Unlock()
	outKey := portKey{node: srcNode, port: srcPort}
	e, ok := g.outEdges[outKey]
	if !ok {
		return operror.Port(srcNode.String(), srcPort, "no outgoing edge to disconnect")
	}
	g.unlinkEdgeLocked(outKey, portKey{node: e.DstNode, port: e.DstPort})
	return nil
}

// MapPort exposes the internal (node, internalName) port under externalName
// at the graph boundary. Fails if externalName is already taken (within its
// own Input/Output map), the internal port doesn't exist or is of the wrong
// type, or the internal port is already connected internally.
func (g *OpticGraph) MapPort(id uuid.UUID, portType nodeattr.PortType, internalName, externalName string) error {
	g.muNodes.RLock()
	n, ok := g.nodes[id]
	if !ok {
		g.muNodes.RUnlock()
		return operror.Graph("map_port: unknown node " + id.String())
	}
	p, ok := n.Ports()[internalName]
	if !ok || p.Type != portType {
		g.muNodes.RUnlock()
		return operror.Port(n.Attr().Name, internalName, "no such port of the requested type")
	}
	g.muNodes.RUnlock()

	g.muEdge.Lock()
	defer g.muEdge.Unlock()

	key := portKey{node: id, port: internalName}
	switch portType {
	case nodeattr.Input:
		if _, taken := g.externalInputs[externalName]; taken {
			return operror.Port(n.Attr().Name, internalName, "external input name "+externalName+" already taken")
		}
		if _, bound := g.inEdges[key]; bound {
			return operror.Port(n.Attr().Name, internalName, "port already connected internally")
		}
		g.externalInputs[externalName] = key
	case nodeattr.Output:
		if _, taken := g.externalOutputs[externalName]; taken {
			return operror.Port(n.Attr().Name, internalName, "external output name "+externalName+" already taken")
		}
		if _, bound := g.outEdges[key]; bound {
			return operror.Port(n.Attr().Name, internalName, "port already connected internally")
		}
		g.externalOutputs[externalName] = key
	}
	return nil
}

// ExternalPorts implements node.AnalyzableGraph: the union of every
// map_port'd port, keyed by its external name.
func (g *OpticGraph) ExternalPorts() map[string]nodeattr.Port {
	g.muEdge.RLock()
	defer g.muEdge.RUnlock()
	out := make(map[string]nodeattr.Port, len(g.externalInputs)+len(g.externalOutputs))
	for name := range g.externalInputs {
		out[name] = nodeattr.Port{Name: name, Type: nodeattr.Input}
	}
	for name := range g.externalOutputs {
		out[name] = nodeattr.Port{Name: name, Type: nodeattr.Output}
	}
	return out
}

// ResetData clears every edge's cached light payload, the graph-level
// equivalent of a node's reset_data.
func (g *OpticGraph) ResetData() {
	g.muEdge.Lock()
	defer g.muEdge.Unlock()
	for _, e := range g.outEdges {
		e.payload = light.Data{}
		e.hasPayload = false
	}
}

// NodeReport returns the named node's report.NodeReport, computed purely
// from its current in-memory state (§6: "node_report(uuid) -> Option<NodeReport>").
// A node that does not implement report.Reporter still gets an identity-only
// report; ok is false only when id names no node in this graph.
func (g *OpticGraph) NodeReport(id uuid.UUID) (report.NodeReport, bool) {
	g.muNodes.RLock()
	n, ok := g.nodes[id]
	g.muNodes.RUnlock()
	if !ok {
		return report.NodeReport{}, false
	}
	if reporter, ok := n.(report.Reporter); ok {
		return reporter.Report(), true
	}
	return report.New(n.Attr().UUID, n.Attr().Name, n.Attr().NodeType), true
}

// SnapshotDTO builds a report.GraphDTO capturing every node's NodeAttrDTO
// and every edge, tagged with report.CurrentVersion. It holds no reference
// to live node/edge state, so it is a standalone value an external
// persistence layer can serialize however it likes ("file I/O for scenery
// persistence" itself stays out of scope here).
func (g *OpticGraph) SnapshotDTO() report.GraphDTO {
	g.muNodes.RLock()
	nodes := make([]report.NodeAttrDTO, 0, len(g.nodes))
	for _, n := range g.nodes {
		nodes = append(nodes, report.NewNodeAttrDTO(n.Attr()))
	}
	g.muNodes.RUnlock()

	edges := g.Edges()
	edgeDTOs := make([]report.EdgeDTO, 0, len(edges))
	for _, e := range edges {
		edgeDTOs = append(edgeDTOs, report.EdgeDTO{
			SrcNode: e.SrcNode, SrcPort: e.SrcPort,
			DstNode: e.DstNode, DstPort: e.DstPort,
			Distance: e.Distance,
		})
	}

	return report.GraphDTO{
		Version:  report.CurrentVersion,
		Inverted: g.Inverted(),
		Nodes:    nodes,
		Edges:    edgeDTOs,
	}
}

// Edges returns every edge currently connecting two nodes in g. The
// returned Edges never carry their cached light payload (payload/hasPayload
// are unexported); callers that need a persistable view use this directly.
func (g *OpticGraph) Edges() []Edge {
	g.muEdge.RLock()
	defer g.muEdge.RUnlock()
	out := make([]Edge, 0, len(g.outEdges))
	for _, e := range g.outEdges {
		out = append(out, Edge{
			SrcNode: e.SrcNode, SrcPort: e.SrcPort,
			DstNode: e.DstNode, DstPort: e.DstPort,
			Distance: e.Distance,
		})
	}
	return out
}

// String renders a short human-readable summary of g's node and edge
// counts and external ports, for logging and debugging. It is not a
// dot/SVG diagram, which is out of scope.
func (g *OpticGraph) String() string {
	g.muNodes.RLock()
	nodeCount := len(g.nodes)
	g.muNodes.RUnlock()

	g.muEdge.RLock()
	edgeCount := len(g.outEdges)
	extIn, extOut := len(g.externalInputs), len(g.externalOutputs)
	g.muEdge.RUnlock()

	return fmt.Sprintf("OpticGraph{nodes=%d, edges=%d, external_inputs=%d, external_outputs=%d, inverted=%t}",
		nodeCount, edgeCount, extIn, extOut, g.inverted)
}

package ograph

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/opossum-optics/opossum/light"
	"github.com/opossum-optics/opossum/node"
	"github.com/opossum-optics/opossum/nodeattr"
	"github.com/opossum-optics/opossum/operror"
	"github.com/opossum-optics/opossum/oplog"
	"github.com/opossum-optics/opossum/ray"
	"github.com/opossum-optics/opossum/units"
)

// nodeIncoming accumulates the per-port light payloads feeding a single
// node for one analysis pass.
type nodeIncoming map[uuid.UUID]node.LightResult

func addIncoming(acc nodeIncoming, id uuid.UUID, port string, payload light.Data) {
	m, ok := acc[id]
	if !ok {
		m = make(node.LightResult)
		acc[id] = m
	}
	m[port] = payload
}

// propagateAcrossEdge advances a Geometric payload's rays by an edge's
// distance before the destination node sees them, mirroring what
// RunNodePositionPass already does for the single chief ray. Nodes that
// intersect an actual Shape (Lens, Wedge) recompute the true
// intersection point themselves regardless of how far Pos currently trails
// it, so this adds no error there; nodes with no surface of their own
// (ParaxialSurface, the detectors) read Pos directly and rely on this step
// having already placed it at their plane. Energy-kind payloads have no
// transverse position and pass through untouched; zero distance is a no-op.
func propagateAcrossEdge(payload light.Data, distance units.Length) (light.Data, error) {
	if distance == 0 || payload.Kind() != light.Geometric {
		return payload, nil
	}
	rb, ok := payload.AsGeometric()
	if !ok {
		return payload, nil
	}
	advanced := ray.NewRays()
	for _, r := range rb.Rays() {
		cp := r.Clone()
		if cp.Valid {
			if err := cp.Propagate(distance); err != nil {
				return light.Data{}, err
			}
		}
		advanced.Add(cp)
	}
	advanced.SetNodeOrigin(rb.NodeOrigin())
	return light.NewGeometric(advanced)
}

// runPass drives one topologically-ordered sweep over the graph: every
// node is analyzed once, its declared input ports are filled from incoming
// edges (or the externally-supplied inputs, for roots), and its outputs
// are fanned onto outgoing edges and captured for externally mapped
// output ports. runPass does not read the graph-level inversion flag: it
// always walks edges source-to-destination, and each node's Ports() report
// is queried as-is (effectivePorts already reflects that node's own
// Inverted flag). See DESIGN.md.
func (g *OpticGraph) runPass(inputs node.LightResult, analyzer node.AnalyzerType, logger zerolog.Logger) (node.LightResult, error) {
	order, err := g.TopologicalSort()
	if err != nil {
		return nil, err
	}

	g.muNodes.RLock()
	nodesByID := make(map[uuid.UUID]node.OpticNode, len(order))
	for _, id := range order {
		if n, ok := g.nodes[id]; ok {
			nodesByID[id] = n
		}
	}
	g.muNodes.RUnlock()

	g.muEdge.Lock()
	defer g.muEdge.Unlock()

	incoming := make(nodeIncoming, len(order))
	for extName, key := range g.externalInputs {
		if payload, ok := inputs[extName]; ok {
			addIncoming(incoming, key.node, key.port, payload)
		}
	}

	outputsByPort := make(map[portKey]light.Data)

	for _, id := range order {
		n, ok := nodesByID[id]
		if !ok {
			continue
		}
		in := incoming[id]
		if in == nil {
			in = node.LightResult{}
		}
		for port := range in {
			if _, declared := n.Ports()[port]; !declared {
				oplog.Warnf(logger, n.Attr().Name, n.Attr().NodeType,
					"incoming payload at undeclared input port %q discarded", port)
			}
		}

		out, err := n.Analyze(in, analyzer)
		if err != nil {
			return nil, operror.AtNode(n.Attr().Name, n.Attr().NodeType, err)
		}
		if len(out) == 0 {
			for _, p := range n.Ports() {
				if p.Type == nodeattr.Output {
					oplog.Warnf(logger, n.Attr().Name, n.Attr().NodeType,
						"declared outputs but analysis returned an empty result")
					break
				}
			}
		}

		for port, payload := range out {
			key := portKey{node: id, port: port}
			outputsByPort[key] = payload
			if e, ok := g.outEdges[key]; ok {
				forwarded, err := propagateAcrossEdge(payload, e.Distance)
				if err != nil {
					return nil, operror.AtNode(n.Attr().Name, n.Attr().NodeType, err)
				}
				e.payload = forwarded
				e.hasPayload = true
				addIncoming(incoming, e.DstNode, e.DstPort, forwarded)
			}
		}
	}

	result := make(node.LightResult, len(g.externalOutputs))
	for extName, key := range g.externalOutputs {
		if payload, ok := outputsByPort[key]; ok {
			result[extName] = payload
		}
	}
	return result, nil
}

// AnalyzeWithInputs implements node.AnalyzableGraph for use by
// node.NodeGroup: it runs exactly one forward analysis sweep using
// oplog.Nop() for warnings (a nested group has no SceneryResources of
// its own to log through; Analyze below is the entry point that does).
func (g *OpticGraph) AnalyzeWithInputs(inputs node.LightResult, analyzer node.AnalyzerType) (node.LightResult, error) {
	return g.runPass(inputs, analyzer, oplog.Nop())
}

// Analyze is the top-level entry point for a standalone (non-nested)
// graph: it resets edge payloads, runs the analysis sweep, and logs
// warnings through logger.
func (g *OpticGraph) Analyze(inputs node.LightResult, analyzer node.AnalyzerType, logger zerolog.Logger) (node.LightResult, error) {
	g.ResetData()
	return g.runPass(inputs, analyzer, logger)
}

// RunNodePositionPass implements node.AnalyzableGraph: it walks the graph
// in topological order, propagating a single chief ray across edges by
// their distance and calling each node's own CalcNodePosition, and returns
// the chief ray produced by the last node visited (the graph's terminal
// node in topological order) as this graph's own outgoing chief ray, for
// a caller that nests this graph inside a NodeGroup.
func (g *OpticGraph) RunNodePositionPass(incoming *ray.Ray, analyzer node.AnalyzerType) (*ray.Ray, error) {
	order, err := g.TopologicalSort()
	if err != nil {
		return nil, err
	}

	g.muEdge.RLock()
	inEdges := make(map[uuid.UUID]*Edge, len(order))
	for _, e := range g.inEdges {
		inEdges[e.DstNode] = e
	}
	g.muEdge.RUnlock()

	chiefByNode := make(map[uuid.UUID]*ray.Ray, len(order))
	var last *ray.Ray
	for _, id := range order {
		n, ok := g.Node(id)
		if !ok {
			continue
		}
		in := incoming
		if e, ok := inEdges[id]; ok {
			if upstream, ok := chiefByNode[e.SrcNode]; ok && upstream != nil {
				in = upstream.Clone()
				if err := in.Propagate(e.Distance); err != nil {
					return nil, err
				}
			}
		}
		out, err := n.CalcNodePosition(in, analyzer)
		if err != nil {
			return nil, operror.AtNode(n.Attr().Name, n.Attr().NodeType, err)
		}
		chiefByNode[id] = out
		last = out
	}
	return last, nil
}

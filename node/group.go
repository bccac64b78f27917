package node

import (
	"github.com/google/uuid"

	"github.com/opossum-optics/opossum/nodeattr"
	"github.com/opossum-optics/opossum/operror"
	"github.com/opossum-optics/opossum/ray"
)

// AnalyzableGraph is the minimal surface NodeGroup needs from an optical
// graph: enough to run the graph's own node-position and analysis passes
// against a restricted external port mapping, without node importing
// ograph. Mirrors surface.OpticSurface[RB any]'s generics trick for the
// same reason: ograph needs to store OpticNode values, so the dependency
// can only run one way.
type AnalyzableGraph interface {
	// AnalyzeWithInputs runs the inner graph's forward/inverse analysis pass
	// given payloads for its externally mapped input ports, under analyzer,
	// and returns payloads for its externally mapped output ports.
	AnalyzeWithInputs(inputs LightResult, analyzer AnalyzerType) (LightResult, error)

	// ExternalPorts returns the graph's externally mapped ports (the result
	// of every map_port call against this graph).
	ExternalPorts() map[string]nodeattr.Port

	// RunNodePositionPass propagates a chief ray through the inner graph's
	// own node-position pass, starting from incoming (nil if the group's
	// own position pass hasn't been reached, meaning the inner graph owns
	// its own source).
	RunNodePositionPass(incoming *ray.Ray, analyzer AnalyzerType) (*ray.Ray, error)
}

// NodeGroup wraps an inner graph G as a single OpticNode: its ports are the
// inner graph's externally mapped ports, and Analyze/CalcNodePosition both
// delegate into the inner graph's own procedures.
type NodeGroup[G AnalyzableGraph] struct {
	attr  *nodeattr.NodeAttr
	inner G
}

// NewNodeGroup wraps inner as a NodeGroup node, exposing inner's externally
// mapped ports as this node's own.
func NewNodeGroup[G AnalyzableGraph](name string, resources *nodeattr.SceneryResources, inner G) *NodeGroup[G] {
	attr := nodeattr.New(name, "NodeGroup", resources)
	for portName, port := range inner.ExternalPorts() {
		attr.AddPort(portName, port.Type)
	}
	return &NodeGroup[G]{attr: attr, inner: inner}
}

func (g *NodeGroup[G]) Attr() *nodeattr.NodeAttr { return g.attr }

func (g *NodeGroup[G]) Ports() map[string]nodeattr.Port { return effectivePorts(g.attr) }

func (g *NodeGroup[G]) Analyze(incoming LightResult, analyzer AnalyzerType) (LightResult, error) {
	out, err := g.inner.AnalyzeWithInputs(incoming, analyzer)
	if err != nil {
		return nil, operror.Analysis("node group " + g.attr.Name + ": " + err.Error())
	}
	return out, nil
}

func (g *NodeGroup[G]) CalcNodePosition(incoming *ray.Ray, analyzer AnalyzerType) (*ray.Ray, error) {
	iso, err := isometryFromChiefRay(incoming)
	if err != nil {
		return nil, err
	}
	g.attr.SetBaseIsometry(iso)
	return g.inner.RunNodePositionPass(incoming, analyzer)
}

// NodeResolver is the minimal surface NodeReference needs to look up its
// referent by UUID at analysis time, again avoiding node importing ograph.
type NodeResolver interface {
	// Resolve looks up the OpticNode with the given UUID.
	Resolve(id uuid.UUID) (OpticNode, bool)
}

// NodeReference stands in for another node in the graph, looked up by UUID
// at analysis time rather than held by owning pointer (per spec §9,
// "store the referent's UUID, not an owning handle, and resolve by
// lookup"). Its Inverted flag is always the referent's.
type NodeReference[R NodeResolver] struct {
	attr     *nodeattr.NodeAttr
	referent uuid.UUID
	resolver R
}

// NewNodeReference builds a NodeReference to referent, resolved through
// resolver at analysis time.
func NewNodeReference[R NodeResolver](name string, resources *nodeattr.SceneryResources, referent uuid.UUID, resolver R) *NodeReference[R] {
	attr := nodeattr.New(name, "NodeReference", resources)
	return &NodeReference[R]{attr: attr, referent: referent, resolver: resolver}
}

// Referent returns the UUID of the node this reference aliases, so a graph
// can find every reference pointing at a node it is about to delete.
func (n *NodeReference[R]) Referent() uuid.UUID { return n.referent }

func (n *NodeReference[R]) resolve() (OpticNode, error) {
	target, ok := n.resolver.Resolve(n.referent)
	if !ok {
		return nil, operror.Graph("node reference " + n.attr.Name + " points at a missing node")
	}
	return target, nil
}

func (n *NodeReference[R]) Attr() *nodeattr.NodeAttr { return n.attr }

func (n *NodeReference[R]) Ports() map[string]nodeattr.Port {
	target, err := n.resolve()
	if err != nil {
		return nil
	}
	n.attr.Inverted = target.Attr().Inverted
	return target.Ports()
}

func (n *NodeReference[R]) Analyze(incoming LightResult, analyzer AnalyzerType) (LightResult, error) {
	target, err := n.resolve()
	if err != nil {
		return nil, err
	}
	return target.Analyze(incoming, analyzer)
}

func (n *NodeReference[R]) CalcNodePosition(incoming *ray.Ray, analyzer AnalyzerType) (*ray.Ray, error) {
	target, err := n.resolve()
	if err != nil {
		return nil, err
	}
	return target.CalcNodePosition(incoming, analyzer)
}

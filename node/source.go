package node

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/opossum-optics/opossum/isometry"
	"github.com/opossum-optics/opossum/light"
	"github.com/opossum-optics/opossum/nodeattr"
	"github.com/opossum-optics/opossum/operror"
	"github.com/opossum-optics/opossum/ray"
)

// Source emits a fixed, pre-built light payload (spectrum or ray bundle)
// from its single output port. It cannot be inverted.
type Source struct {
	attr    *nodeattr.NodeAttr
	payload light.Data
}

// NewSource builds a Source emitting payload, which must be Energy or
// Geometric (a Source never emits a GhostFocus payload).
func NewSource(name string, resources *nodeattr.SceneryResources, payload light.Data) (*Source, error) {
	if payload.Kind() == light.GhostFocus {
		return nil, operror.InvalidArgument("source payload kind", payload.Kind())
	}
	attr := nodeattr.New(name, "Source", resources)
	attr.AddPort("output", nodeattr.Output)
	return &Source{attr: attr, payload: payload}, nil
}

func (s *Source) Attr() *nodeattr.NodeAttr { return s.attr }

func (s *Source) Ports() map[string]nodeattr.Port { return effectivePorts(s.attr) }

// SetInverted always fails for a Source: a source node cannot be inverted.
func (s *Source) SetInverted(inverted bool) error {
	if inverted {
		return operror.Graph("source node cannot be inverted")
	}
	return nil
}

func (s *Source) Analyze(LightResult, AnalyzerType) (LightResult, error) {
	return LightResult{"output": s.payload}, nil
}

// CalcNodePosition resets the node's base isometry to identity and
// originates the chief ray at the world origin traveling along +Z; the
// node's alignment isometry does not move it.
func (s *Source) CalcNodePosition(_ *ray.Ray, _ AnalyzerType) (*ray.Ray, error) {
	s.attr.SetBaseIsometry(isometry.Identity())
	return ray.New(r3.Vec{}, r3.Vec{Z: 1}, 500, 1, 1)
}

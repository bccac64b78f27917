package node

import (
	"github.com/opossum-optics/opossum/nodeattr"
	"github.com/opossum-optics/opossum/ray"
)

// Dummy has one input and one output; it transfers its payload unchanged.
// Useful as a placeholder or a bend point in a scenery graph.
type Dummy struct {
	attr *nodeattr.NodeAttr
}

// NewDummy builds a Dummy node.
func NewDummy(name string, resources *nodeattr.SceneryResources) *Dummy {
	attr := nodeattr.New(name, "Dummy", resources)
	attr.AddPort("input", nodeattr.Input)
	attr.AddPort("output", nodeattr.Output)
	return &Dummy{attr: attr}
}

func (d *Dummy) Attr() *nodeattr.NodeAttr { return d.attr }

func (d *Dummy) Ports() map[string]nodeattr.Port { return effectivePorts(d.attr) }

func (d *Dummy) Analyze(incoming LightResult, _ AnalyzerType) (LightResult, error) {
	in, err := requireInput(incoming, "input")
	if err != nil {
		return nil, err
	}
	return LightResult{"output": in}, nil
}

func (d *Dummy) CalcNodePosition(incoming *ray.Ray, _ AnalyzerType) (*ray.Ray, error) {
	out, err := defaultCalcNodePosition(d.attr, incoming)
	if err != nil {
		return nil, err
	}
	return out, nil
}

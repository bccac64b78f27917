package node

import (
	"github.com/opossum-optics/opossum/light"
	"github.com/opossum-optics/opossum/nodeattr"
	"github.com/opossum-optics/opossum/operror"
	"github.com/opossum-optics/opossum/ray"
)

// IdealFilter attenuates energy by a constant or wavelength-dependent
// transmission. In energy mode it multiplies the spectrum directly; in ray
// mode it applies the same filter ray-by-ray and then, under a RayTrace
// analyzer, invalidates and prunes rays below the energy threshold. It has
// no aperture of its own, so no apodization is applied.
type IdealFilter struct {
	attr   *nodeattr.NodeAttr
	filter ray.Filter
}

// NewIdealFilter builds an IdealFilter node.
func NewIdealFilter(name string, resources *nodeattr.SceneryResources, filter ray.Filter) *IdealFilter {
	attr := nodeattr.New(name, "IdealFilter", resources)
	attr.AddPort("input", nodeattr.Input)
	attr.AddPort("output", nodeattr.Output)
	return &IdealFilter{attr: attr, filter: filter}
}

func (f *IdealFilter) Attr() *nodeattr.NodeAttr { return f.attr }

func (f *IdealFilter) Ports() map[string]nodeattr.Port { return effectivePorts(f.attr) }

func (f *IdealFilter) Analyze(incoming LightResult, analyzer AnalyzerType) (LightResult, error) {
	in, err := requireInput(incoming, "input")
	if err != nil {
		return nil, err
	}

	switch in.Kind() {
	case light.Energy:
		spec, _ := in.AsEnergy()
		out, err := applySpectrumFilter(spec, f.filter)
		if err != nil {
			return nil, err
		}
		d, err := light.NewEnergy(out)
		if err != nil {
			return nil, err
		}
		return LightResult{"output": d}, nil

	case light.Geometric:
		rb, _ := in.AsGeometric()
		if err := rb.ApplyFilter(f.filter); err != nil {
			return nil, err
		}
		if cfg, ok := analyzer.RayTraceConfig(); ok {
			rb.InvalidateByThreshold(cfg.MinEnergyPerRay)
			rb.PruneInvalid()
		}
		d, err := light.NewGeometric(rb)
		if err != nil {
			return nil, err
		}
		return LightResult{"output": d}, nil

	default:
		return nil, operror.Analysis("IdealFilter does not support GhostFocus payloads directly")
	}
}

func (f *IdealFilter) CalcNodePosition(incoming *ray.Ray, _ AnalyzerType) (*ray.Ray, error) {
	return defaultCalcNodePosition(f.attr, incoming)
}

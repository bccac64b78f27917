package node

import (
	"github.com/opossum-optics/opossum/aperture"
	"github.com/opossum-optics/opossum/light"
	"github.com/opossum-optics/opossum/nodeattr"
	"github.com/opossum-optics/opossum/operror"
	"github.com/opossum-optics/opossum/oplog"
	"github.com/opossum-optics/opossum/ray"
	"github.com/opossum-optics/opossum/units"
)

// ParaxialSurface models a thin lens under the paraxial approximation: one
// input, one output, apodized on both sides of a single refract_paraxial
// call.
type ParaxialSurface struct {
	attr        *nodeattr.NodeAttr
	focalLength float64
	inputAp     aperture.Aperture
	outputAp    aperture.Aperture
}

// NewParaxialSurface builds a ParaxialSurface of the given focal length
// (must be finite and non-zero). inputAp/outputAp default to aperture.None
// when nil.
func NewParaxialSurface(name string, resources *nodeattr.SceneryResources, focalLength float64, inputAp, outputAp aperture.Aperture) (*ParaxialSurface, error) {
	if !units.Finite(focalLength) || focalLength == 0 {
		return nil, operror.InvalidArgument("focal length", focalLength)
	}
	if inputAp == nil {
		inputAp = aperture.NewNone()
	}
	if outputAp == nil {
		outputAp = aperture.NewNone()
	}
	attr := nodeattr.New(name, "ParaxialSurface", resources)
	attr.AddPort("input", nodeattr.Input)
	attr.AddPort("output", nodeattr.Output)
	attr.SetProperty("focal_length", focalLength)
	return &ParaxialSurface{attr: attr, focalLength: focalLength, inputAp: inputAp, outputAp: outputAp}, nil
}

func (p *ParaxialSurface) Attr() *nodeattr.NodeAttr { return p.attr }

func (p *ParaxialSurface) Ports() map[string]nodeattr.Port { return effectivePorts(p.attr) }

func (p *ParaxialSurface) Analyze(incoming LightResult, analyzer AnalyzerType) (LightResult, error) {
	in, err := requireInput(incoming, "input")
	if err != nil {
		return nil, err
	}
	if in.Kind() != light.Geometric {
		// Energy mode has no transverse structure to refract against; pass
		// the spectrum straight through.
		return LightResult{"output": in}, nil
	}
	rb, err := requireRaysPayload(in)
	if err != nil {
		return nil, err
	}

	iso := p.attr.EffectiveIsometry()
	if rb.Apodize(p.inputAp, iso) {
		oplog.Warnf(p.attr.Resources.Logger, p.attr.Name, p.attr.NodeType, "apodization occurred at input")
	}
	for _, r := range rb.Rays() {
		if !r.Valid {
			continue
		}
		if err := r.RefractParaxial(units.Length(p.focalLength)); err != nil {
			return nil, err
		}
	}
	if rb.Apodize(p.outputAp, iso) {
		oplog.Warnf(p.attr.Resources.Logger, p.attr.Name, p.attr.NodeType, "apodization occurred at output")
	}

	if cfg, ok := analyzer.RayTraceConfig(); ok {
		rb.InvalidateByThreshold(cfg.MinEnergyPerRay)
		rb.PruneInvalid()
	}

	out, err := light.NewGeometric(rb)
	if err != nil {
		return nil, err
	}
	return LightResult{"output": out}, nil
}

func (p *ParaxialSurface) CalcNodePosition(incoming *ray.Ray, _ AnalyzerType) (*ray.Ray, error) {
	return defaultCalcNodePosition(p.attr, incoming)
}

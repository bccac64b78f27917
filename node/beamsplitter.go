package node

import (
	"github.com/opossum-optics/opossum/isometry"
	"github.com/opossum-optics/opossum/light"
	"github.com/opossum-optics/opossum/nodeattr"
	"github.com/opossum-optics/opossum/operror"
	"github.com/opossum-optics/opossum/oplog"
	"github.com/opossum-optics/opossum/ray"
	"github.com/opossum-optics/opossum/spectrum"
	"github.com/opossum-optics/opossum/surface"
)

const (
	portInput1 = "input1"
	portInput2 = "input2"
	portOutTR  = "out1_trans1_refl2"
	portOutRT  = "out2_trans2_refl1"
)

// BeamSplitter has two inputs and two outputs, each output a cross-combine
// of the transmitted share of one input and the reflected share of the
// other, per a single SplittingConfig shared by both inputs.
type BeamSplitter struct {
	attr  *nodeattr.NodeAttr
	plane *surface.OpticSurface[*ray.Rays]
	cfg   ray.SplittingConfig
}

// NewBeamSplitter builds a BeamSplitter.
func NewBeamSplitter(name string, resources *nodeattr.SceneryResources, cfg ray.SplittingConfig) (*BeamSplitter, error) {
	plane, err := surface.New[*ray.Rays](surface.NewPlane(), isometry.Identity(), nil, nil, 0)
	if err != nil {
		return nil, err
	}
	attr := nodeattr.New(name, "BeamSplitter", resources)
	attr.AddPort(portInput1, nodeattr.Input)
	attr.AddPort(portInput2, nodeattr.Input)
	attr.AddPort(portOutTR, nodeattr.Output)
	attr.AddPort(portOutRT, nodeattr.Output)
	return &BeamSplitter{attr: attr, plane: plane, cfg: cfg}, nil
}

func (b *BeamSplitter) Attr() *nodeattr.NodeAttr { return b.attr }

func (b *BeamSplitter) Ports() map[string]nodeattr.Port { return effectivePorts(b.attr) }

// entryExitPorts resolves which port names currently act as the two entries
// and two exits: a straight mapping normally, swapped when the node is
// mounted inverted (the same uniform Input/Output-flip effectivePorts uses
// everywhere else, rather than a BeamSplitter-specific renaming scheme).
func (b *BeamSplitter) entryExitPorts() (in1, in2, out1, out2 string) {
	if b.attr.Inverted {
		return portOutTR, portOutRT, portInput1, portInput2
	}
	return portInput1, portInput2, portOutTR, portOutRT
}

func (b *BeamSplitter) splitSpectrum(s *spectrum.Spectrum) (transmitted, reflected *spectrum.Spectrum, err error) {
	switch b.cfg.Kind() {
	case ray.SplitRatio:
		r := b.cfg.Ratio()
		transmitted, err = s.ScaleVertical(r)
		if err != nil {
			return nil, nil, err
		}
		reflected, err = s.ScaleVertical(1 - r)
		return transmitted, reflected, err
	case ray.SplitSpectrum:
		return s.SplitBySpectrum(b.cfg.Spectrum())
	default:
		return nil, nil, operror.InvalidArgument("split kind", b.cfg.Kind())
	}
}

func (b *BeamSplitter) Analyze(incoming LightResult, analyzer AnalyzerType) (LightResult, error) {
	in1Port, in2Port, out1Port, out2Port := b.entryExitPorts()

	d1, err := requireInput(incoming, in1Port)
	if err != nil {
		return nil, err
	}
	d2, err := requireInput(incoming, in2Port)
	if err != nil {
		return nil, err
	}
	if d1.Kind() != d2.Kind() {
		return nil, operror.Analysis("BeamSplitter inputs carry mismatched light kinds")
	}

	if d1.Kind() == light.Energy {
		s1, _ := d1.AsEnergy()
		s2, _ := d2.AsEnergy()
		t1, r1, err := b.splitSpectrum(s1)
		if err != nil {
			return nil, err
		}
		t2, r2, err := b.splitSpectrum(s2)
		if err != nil {
			return nil, err
		}
		merged1, err := spectrum.MergeSpectra(t1, r2)
		if err != nil {
			return nil, err
		}
		merged2, err := spectrum.MergeSpectra(t2, r1)
		if err != nil {
			return nil, err
		}
		out1, err := light.NewEnergy(merged1)
		if err != nil {
			return nil, err
		}
		out2, err := light.NewEnergy(merged2)
		if err != nil {
			return nil, err
		}
		return LightResult{out1Port: out1, out2Port: out2}, nil
	}

	if d1.Kind() != light.Geometric {
		return nil, operror.Analysis("BeamSplitter does not support GhostFocus payloads directly")
	}

	rb1, _ := d1.AsGeometric()
	rb2, _ := d2.AsGeometric()

	iso := b.plane.Anchor().Append(b.attr.EffectiveIsometry())
	zeroed := rb1.Apodize(b.plane.Aperture(), iso)
	zeroed = rb2.Apodize(b.plane.Aperture(), iso) || zeroed

	split1, err := rb1.Split(b.cfg)
	if err != nil {
		return nil, err
	}
	split2, err := rb2.Split(b.cfg)
	if err != nil {
		return nil, err
	}

	merged1 := ray.Merge(rb1, split2)
	merged2 := ray.Merge(rb2, split1)
	zeroed = merged1.Apodize(b.plane.Aperture(), iso) || zeroed
	zeroed = merged2.Apodize(b.plane.Aperture(), iso) || zeroed
	if zeroed {
		oplog.Warnf(b.attr.Resources.Logger, b.attr.Name, b.attr.NodeType, "apodization occurred")
	}

	if cfg, ok := analyzer.RayTraceConfig(); ok {
		merged1.InvalidateByThreshold(cfg.MinEnergyPerRay)
		merged1.PruneInvalid()
		merged2.InvalidateByThreshold(cfg.MinEnergyPerRay)
		merged2.PruneInvalid()
	}

	out1, err := light.NewGeometric(merged1)
	if err != nil {
		return nil, err
	}
	out2, err := light.NewGeometric(merged2)
	if err != nil {
		return nil, err
	}
	return LightResult{out1Port: out1, out2Port: out2}, nil
}

func (b *BeamSplitter) CalcNodePosition(incoming *ray.Ray, _ AnalyzerType) (*ray.Ray, error) {
	return defaultCalcNodePosition(b.attr, incoming)
}

package node

import (
	"github.com/opossum-optics/opossum/isometry"
	"github.com/opossum-optics/opossum/light"
	"github.com/opossum-optics/opossum/nodeattr"
	"github.com/opossum-optics/opossum/operror"
	"github.com/opossum-optics/opossum/oplog"
	"github.com/opossum-optics/opossum/ray"
	"github.com/opossum-optics/opossum/refractive"
	"github.com/opossum-optics/opossum/surface"
	"github.com/opossum-optics/opossum/units"
)

// Wedge is a two-plane window tilted by wedge_angle about the local X axis;
// unlike Lens it keeps no ghost-focus caches (a pure window has no
// resonant-cavity behavior worth modeling in the basic engine).
type Wedge struct {
	attr        *nodeattr.NodeAttr
	front, rear *surface.OpticSurface[*ray.Rays]
	thickness   units.Length
	index       refractive.Model
}

// NewWedge builds a Wedge. thickness must be finite and strictly positive;
// angle must be in (-90deg, 90deg].
func NewWedge(name string, resources *nodeattr.SceneryResources, thickness units.Length, angle units.Angle, index refractive.Model) (*Wedge, error) {
	if !units.FiniteLength(thickness) || thickness <= 0 {
		return nil, operror.InvalidArgument("center thickness", thickness)
	}
	const halfPi = 1.5707963267948966
	if !units.FiniteAngle(angle) || angle <= -halfPi || angle > halfPi {
		return nil, operror.InvalidArgument("wedge angle", angle)
	}
	if index == nil {
		return nil, operror.InvalidArgument("refractive index model", index)
	}

	front, err := surface.New[*ray.Rays](surface.NewPlane(), isometry.Identity(), nil, nil, 0)
	if err != nil {
		return nil, err
	}
	// Spec: rear anchor = new_along_z(thickness) ∘ rotate_x(angle), i.e.
	// rotate_x applied first, then translate — rotate_x(angle).Append(new_along_z(thickness)).
	rearAnchor := isometry.RotateX(angle).Append(isometry.NewAlongZ(thickness))
	rear, err := surface.New[*ray.Rays](surface.NewPlane(), rearAnchor, nil, nil, 0)
	if err != nil {
		return nil, err
	}

	attr := nodeattr.New(name, "Wedge", resources)
	attr.AddPort("input", nodeattr.Input)
	attr.AddPort("output", nodeattr.Output)
	attr.SetProperty("center_thickness", float64(thickness))
	attr.SetProperty("wedge_angle", float64(angle))
	return &Wedge{attr: attr, front: front, rear: rear, thickness: thickness, index: index}, nil
}

func (w *Wedge) Attr() *nodeattr.NodeAttr { return w.attr }

func (w *Wedge) Ports() map[string]nodeattr.Port { return effectivePorts(w.attr) }

func (w *Wedge) ambientIndex() float64 {
	if w.attr.Resources != nil {
		return w.attr.Resources.AmbientRefractiveIndex
	}
	return 1
}

func (w *Wedge) Analyze(incoming LightResult, analyzer AnalyzerType) (LightResult, error) {
	reverse := w.attr.Inverted
	entryPort, exitPort := "input", "output"
	if reverse {
		entryPort, exitPort = "output", "input"
	}

	in, err := requireInput(incoming, entryPort)
	if err != nil {
		return nil, err
	}
	if in.Kind() != light.Geometric {
		return LightResult{exitPort: in}, nil
	}
	rb, err := requireRaysPayload(in)
	if err != nil {
		return nil, err
	}

	iso := w.attr.EffectiveIsometry()
	frontIso := w.front.Anchor().Append(iso)
	rearIso := w.rear.Anchor().Append(iso)
	ambient := w.ambientIndex()
	ambientAt := func(units.Length) (float64, error) { return ambient, nil }

	first, firstIso, firstIndex := w.front, frontIso, w.index.At
	second, secondIso, secondIndex := w.rear, rearIso, ambientAt
	if reverse {
		first, firstIso, firstIndex = w.rear, rearIso, w.index.At
		second, secondIso, secondIndex = w.front, frontIso, ambientAt
	}

	// A pure window keeps no ghost-focus cache: reflected descendants are
	// discarded rather than appended to a surface cache.
	zeroed := rb.Apodize(first.Aperture(), firstIso)
	if _, err := refractRayByRay(rb, first, firstIso, firstIndex); err != nil {
		return nil, err
	}
	if _, err := refractRayByRay(rb, second, secondIso, secondIndex); err != nil {
		return nil, err
	}
	zeroed = rb.Apodize(second.Aperture(), secondIso) || zeroed
	if zeroed {
		oplog.Warnf(w.attr.Resources.Logger, w.attr.Name, w.attr.NodeType, "apodization occurred")
	}

	if cfg, ok := analyzer.RayTraceConfig(); ok {
		rb.InvalidateByThreshold(cfg.MinEnergyPerRay)
		rb.PruneInvalid()
	}

	out, err := light.NewGeometric(rb)
	if err != nil {
		return nil, err
	}
	return LightResult{exitPort: out}, nil
}

// CalcNodePosition places the wedge at the chief ray's pose and advances the
// chief ray forward by its center thickness.
func (w *Wedge) CalcNodePosition(incoming *ray.Ray, _ AnalyzerType) (*ray.Ray, error) {
	iso, err := isometryFromChiefRay(incoming)
	if err != nil {
		return nil, err
	}
	w.attr.SetBaseIsometry(iso)
	if incoming == nil {
		return nil, nil
	}
	out := incoming.Clone()
	if err := out.Propagate(w.thickness); err != nil {
		return nil, err
	}
	return out, nil
}

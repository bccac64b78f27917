package node

import (
	"gonum.org/v1/gonum/spatial/r3"

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

// Lens is a real two-surface refractive element: a front and a rear surface
// center_thickness apart along the node's local +Z axis, each spherical or
// planar, sharing a dispersive index model. CylindricLens is the same
// element built with cylindrical surfaces instead.
type Lens struct {
	attr        *nodeattr.NodeAttr
	front, rear *surface.OpticSurface[*ray.Rays]
	thickness   units.Length
	index       refractive.Model
}

func buildLensSurface(curvature units.Length, axis *r3.Vec, anchor isometry.Isometry) (*surface.OpticSurface[*ray.Rays], error) {
	var shape surface.Shape
	var err error
	if axis != nil {
		shape, err = surface.NewCylinder(curvature, *axis)
	} else {
		shape, err = surface.NewSphere(curvature)
	}
	if err != nil {
		return nil, err
	}
	return surface.New[*ray.Rays](shape, anchor, nil, nil, 0)
}

func newLens(name, nodeType string, resources *nodeattr.SceneryResources, frontCurvature, rearCurvature, thickness units.Length, index refractive.Model, axis *r3.Vec) (*Lens, error) {
	if !units.FiniteLength(thickness) || thickness <= 0 {
		return nil, operror.InvalidArgument("center thickness", thickness)
	}
	if index == nil {
		return nil, operror.InvalidArgument("refractive index model", index)
	}
	front, err := buildLensSurface(frontCurvature, axis, isometry.Identity())
	if err != nil {
		return nil, err
	}
	rear, err := buildLensSurface(rearCurvature, axis, isometry.NewAlongZ(thickness))
	if err != nil {
		return nil, err
	}
	attr := nodeattr.New(name, nodeType, resources)
	attr.AddPort("input", nodeattr.Input)
	attr.AddPort("output", nodeattr.Output)
	attr.SetProperty("front_curvature", float64(frontCurvature))
	attr.SetProperty("rear_curvature", float64(rearCurvature))
	attr.SetProperty("center_thickness", float64(thickness))
	return &Lens{attr: attr, front: front, rear: rear, thickness: thickness, index: index}, nil
}

// NewLens builds a spherical/planar Lens. frontCurvature and rearCurvature
// are surface radii (0 and NaN rejected, +-Inf meaning Plane, per
// surface.NewSphere); thickness must be finite and strictly positive.
func NewLens(name string, resources *nodeattr.SceneryResources, frontCurvature, rearCurvature, thickness units.Length, index refractive.Model) (*Lens, error) {
	return newLens(name, "Lens", resources, frontCurvature, rearCurvature, thickness, index, nil)
}

// NewCylindricLens builds a Lens whose surfaces are cylinders aligned along
// the local Y axis.
func NewCylindricLens(name string, resources *nodeattr.SceneryResources, frontCurvature, rearCurvature, thickness units.Length, index refractive.Model) (*Lens, error) {
	axis := r3.Vec{Y: 1}
	return newLens(name, "CylindricLens", resources, frontCurvature, rearCurvature, thickness, index, &axis)
}

func (l *Lens) Attr() *nodeattr.NodeAttr { return l.attr }

func (l *Lens) Ports() map[string]nodeattr.Port { return effectivePorts(l.attr) }

func (l *Lens) ambientIndex() float64 {
	if l.attr.Resources != nil {
		return l.attr.Resources.AmbientRefractiveIndex
	}
	return 1
}

// pass refracts rb against surf ray-by-ray, appends the reflected
// descendants to the capture side of surf's cache, drains the opposite
// side's cache (bundles left over from a prior pass traveling the same way
// as rb is now) and merges them into the continuing flow.
func (l *Lens) pass(rb *ray.Rays, surf *surface.OpticSurface[*ray.Rays], iso isometry.Isometry, indexFn func(units.Length) (float64, error), backwardCapture bool) (*ray.Rays, error) {
	reflected, err := refractRayByRay(rb, surf, iso, indexFn)
	if err != nil {
		return nil, err
	}
	surf.AppendCache(backwardCapture, reflected)
	cached := surf.DrainCache(!backwardCapture)
	return ray.Merge(append([]*ray.Rays{rb}, cached...)...), nil
}

// Analyze runs the two-surface refraction pipeline front-to-rear, or
// rear-to-front with capture/drain cache roles swapped when the node is
// mounted inverted.
func (l *Lens) Analyze(incoming LightResult, analyzer AnalyzerType) (LightResult, error) {
	reverse := l.attr.Inverted
	entryPort, exitPort := "input", "output"
	if reverse {
		entryPort, exitPort = "output", "input"
	}

	in, err := requireInput(incoming, entryPort)
	if err != nil {
		return nil, err
	}
	if in.Kind() != light.Geometric {
		// No transverse structure to refract against in energy mode; the
		// lens is transparent to a bare spectrum.
		return LightResult{exitPort: in}, nil
	}
	rb, err := requireRaysPayload(in)
	if err != nil {
		return nil, err
	}

	iso := l.attr.EffectiveIsometry()
	frontIso := l.front.Anchor().Append(iso)
	rearIso := l.rear.Anchor().Append(iso)
	ambient := l.ambientIndex()
	ambientAt := func(units.Length) (float64, error) { return ambient, nil }

	first, firstIso, firstIndex := l.front, frontIso, l.index.At
	second, secondIso, secondIndex := l.rear, rearIso, ambientAt
	if reverse {
		first, firstIso, firstIndex = l.rear, rearIso, l.index.At
		second, secondIso, secondIndex = l.front, frontIso, ambientAt
	}

	if rb.Apodize(first.Aperture(), firstIso) {
		oplog.Warnf(l.attr.Resources.Logger, l.attr.Name, l.attr.NodeType, "apodization occurred at front surface")
	}
	flow, err := l.pass(rb, first, firstIso, firstIndex, !reverse)
	if err != nil {
		return nil, err
	}
	flow, err = l.pass(flow, second, secondIso, secondIndex, !reverse)
	if err != nil {
		return nil, err
	}
	if flow.Apodize(second.Aperture(), secondIso) {
		oplog.Warnf(l.attr.Resources.Logger, l.attr.Name, l.attr.NodeType, "apodization occurred at rear surface")
	}

	if cfg, ok := analyzer.RayTraceConfig(); ok {
		flow.InvalidateByThreshold(cfg.MinEnergyPerRay)
		flow.PruneInvalid()
	}

	out, err := light.NewGeometric(flow)
	if err != nil {
		return nil, err
	}
	return LightResult{exitPort: out}, nil
}

// CalcNodePosition places the lens at the chief ray's pose and advances the
// chief ray forward by the lens's center thickness, since the ray exits the
// rear surface, not the front.
func (l *Lens) CalcNodePosition(incoming *ray.Ray, _ AnalyzerType) (*ray.Ray, error) {
	iso, err := isometryFromChiefRay(incoming)
	if err != nil {
		return nil, err
	}
	l.attr.SetBaseIsometry(iso)
	if incoming == nil {
		return nil, nil
	}
	out := incoming.Clone()
	if err := out.Propagate(l.thickness); err != nil {
		return nil, err
	}
	return out, nil
}

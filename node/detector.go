package node

import (
	"github.com/opossum-optics/opossum/isometry"
	"github.com/opossum-optics/opossum/light"
	"github.com/opossum-optics/opossum/nodeattr"
	"github.com/opossum-optics/opossum/oplog"
	"github.com/opossum-optics/opossum/ray"
	"github.com/opossum-optics/opossum/report"
	"github.com/opossum-optics/opossum/surface"
)

// DetectorKind distinguishes the four detector node types. They share one
// implementation; the kind only changes the node's reported type name and,
// downstream, which report fields a node_report call surfaces.
type DetectorKind int

const (
	RayPropagationVisualizer DetectorKind = iota
	SpotDiagram
	WaveFront
	FluenceDetector
)

func (k DetectorKind) String() string {
	switch k {
	case RayPropagationVisualizer:
		return "RayPropagationVisualizer"
	case SpotDiagram:
		return "SpotDiagram"
	case WaveFront:
		return "WaveFront"
	case FluenceDetector:
		return "FluenceDetector"
	default:
		return "Detector"
	}
}

// Detector is a single-surface node that records whatever light passes
// through it (hit-map on its surface, plus its own last-seen light-data
// cache for reporting) and forwards the bundle unchanged.
type Detector struct {
	attr     *nodeattr.NodeAttr
	kind     DetectorKind
	surf     *surface.OpticSurface[*ray.Rays]
	lastSeen light.Data
}

func newDetector(name string, resources *nodeattr.SceneryResources, kind DetectorKind) (*Detector, error) {
	surf, err := surface.New[*ray.Rays](surface.NewPlane(), isometry.Identity(), nil, nil, 0)
	if err != nil {
		return nil, err
	}
	attr := nodeattr.New(name, kind.String(), resources)
	attr.AddPort("input", nodeattr.Input)
	attr.AddPort("output", nodeattr.Output)
	return &Detector{attr: attr, kind: kind, surf: surf}, nil
}

// NewRayPropagationVisualizer builds a detector that records every ray's
// full position history for downstream plotting.
func NewRayPropagationVisualizer(name string, resources *nodeattr.SceneryResources) (*Detector, error) {
	return newDetector(name, resources, RayPropagationVisualizer)
}

// NewSpotDiagram builds a detector that records transverse hit positions.
func NewSpotDiagram(name string, resources *nodeattr.SceneryResources) (*Detector, error) {
	return newDetector(name, resources, SpotDiagram)
}

// NewWaveFront builds a detector that records ray data for wavefront
// reconstruction.
func NewWaveFront(name string, resources *nodeattr.SceneryResources) (*Detector, error) {
	return newDetector(name, resources, WaveFront)
}

// NewFluenceDetector builds a detector that records hits for fluence
// estimation against its LIDT.
func NewFluenceDetector(name string, resources *nodeattr.SceneryResources) (*Detector, error) {
	return newDetector(name, resources, FluenceDetector)
}

func (d *Detector) Attr() *nodeattr.NodeAttr { return d.attr }

func (d *Detector) Ports() map[string]nodeattr.Port { return effectivePorts(d.attr) }

// Kind reports which of the four detector variants this is.
func (d *Detector) Kind() DetectorKind { return d.kind }

// Surface returns the detector's recording surface, whose HitMap accumulates
// across every ray-trace pass until ResetData is called.
func (d *Detector) Surface() *surface.OpticSurface[*ray.Rays] { return d.surf }

// LastSeen returns the light payload recorded on the most recent Analyze
// call, for report generation.
func (d *Detector) LastSeen() light.Data { return d.lastSeen }

func (d *Detector) Analyze(incoming LightResult, analyzer AnalyzerType) (LightResult, error) {
	in, err := requireInput(incoming, "input")
	if err != nil {
		return nil, err
	}
	d.lastSeen = in

	if in.Kind() != light.Geometric {
		return LightResult{"output": in}, nil
	}
	rb, err := requireRaysPayload(in)
	if err != nil {
		return nil, err
	}

	iso := d.surf.Anchor().Append(d.attr.EffectiveIsometry())
	if rb.Apodize(d.surf.Aperture(), iso) {
		oplog.Warnf(d.attr.Resources.Logger, d.attr.Name, d.attr.NodeType, "apodization occurred")
	}
	for _, r := range rb.Rays() {
		if !r.Valid {
			continue
		}
		local := iso.InverseTransformPoint(r.Pos)
		d.surf.RecordHit(surface.HitRecord{Point: local, Energy: r.Energy, Wavelength: r.Wavelength})
	}

	out, err := light.NewGeometric(rb)
	if err != nil {
		return nil, err
	}
	return LightResult{"output": out}, nil
}

func (d *Detector) CalcNodePosition(incoming *ray.Ray, _ AnalyzerType) (*ray.Ray, error) {
	return defaultCalcNodePosition(d.attr, incoming)
}

// Report surfaces the detector's kind, accumulated hit count, and fluence
// estimate; a FluenceDetector additionally reports against its LIDT.
func (d *Detector) Report() report.NodeReport {
	r := report.New(d.attr.UUID, d.attr.Name, d.attr.NodeType)
	r.Set("kind", d.kind.String())
	r.Set("hit_count", len(d.surf.HitMap()))
	r.Set("fluence", d.surf.Fluence())
	if d.kind == FluenceDetector {
		r.Set("lidt", d.surf.LIDT())
	}
	return r
}

// Package node implements OpticNode and its variants: Source, Dummy,
// EnergyMeter, Spectrometer, IdealFilter, ParaxialSurface, Lens,
// CylindricLens, Wedge, BeamSplitter, NodeGroup, NodeReference, and the
// four detectors. Every variant shares NodeAttr (package nodeattr) and
// communicates through LightResult, a light payload keyed by port name.
package node

import (
	"math"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/opossum-optics/opossum/isometry"
	"github.com/opossum-optics/opossum/light"
	"github.com/opossum-optics/opossum/nodeattr"
	"github.com/opossum-optics/opossum/operror"
	"github.com/opossum-optics/opossum/ray"
	"github.com/opossum-optics/opossum/spectrum"
	"github.com/opossum-optics/opossum/surface"
	"github.com/opossum-optics/opossum/units"
)

// LightResult is a light payload keyed by port name, the shape every
// Analyze call both receives (inputs) and returns (outputs).
type LightResult map[string]light.Data

// AnalyzerKind discriminates the three closed AnalyzerType variants.
type AnalyzerKind int

const (
	AnalyzerEnergy AnalyzerKind = iota
	AnalyzerRayTrace
	AnalyzerGhostFocus
)

// RayTraceConfig bounds a ray-trace pass: rays below MinEnergyPerRay are
// invalidated, and MaxBounces/MaxRefractions are defensive ceilings against
// runaway ghost paths.
type RayTraceConfig struct {
	MinEnergyPerRay units.Energy
	MaxBounces      int
	MaxRefractions  int
}

// DefaultRayTraceConfig returns (1 pJ, 1000, 1000), the spec's defaults.
func DefaultRayTraceConfig() RayTraceConfig {
	return RayTraceConfig{MinEnergyPerRay: 1e-12, MaxBounces: 1000, MaxRefractions: 1000}
}

// GhostFocusConfig bounds a ghost-focus multi-pass analysis.
type GhostFocusConfig struct {
	MaxPasses int
}

// DefaultGhostFocusConfig returns a two-pass (there-and-back) default.
func DefaultGhostFocusConfig() GhostFocusConfig {
	return GhostFocusConfig{MaxPasses: 2}
}

// AnalyzerType is the closed sum type selecting which of the three analysis
// modes a pass runs under.
type AnalyzerType struct {
	kind       AnalyzerKind
	rayTrace   RayTraceConfig
	ghostFocus GhostFocusConfig
}

// NewEnergyAnalyzer selects energy (spectrum) analysis.
func NewEnergyAnalyzer() AnalyzerType { return AnalyzerType{kind: AnalyzerEnergy} }

// NewRayTraceAnalyzer selects geometric ray-trace analysis under cfg.
func NewRayTraceAnalyzer(cfg RayTraceConfig) AnalyzerType {
	return AnalyzerType{kind: AnalyzerRayTrace, rayTrace: cfg}
}

// NewGhostFocusAnalyzer selects multi-pass ghost-focus analysis under cfg.
func NewGhostFocusAnalyzer(cfg GhostFocusConfig) AnalyzerType {
	return AnalyzerType{kind: AnalyzerGhostFocus, ghostFocus: cfg}
}

// Kind reports which analyzer variant this is.
func (a AnalyzerType) Kind() AnalyzerKind { return a.kind }

// RayTraceConfig returns the embedded config and true iff Kind()==AnalyzerRayTrace.
func (a AnalyzerType) RayTraceConfig() (RayTraceConfig, bool) {
	return a.rayTrace, a.kind == AnalyzerRayTrace
}

// GhostFocusConfig returns the embedded config and true iff Kind()==AnalyzerGhostFocus.
func (a AnalyzerType) GhostFocusConfig() (GhostFocusConfig, bool) {
	return a.ghostFocus, a.kind == AnalyzerGhostFocus
}

// OpticNode is the interface every node variant realizes.
type OpticNode interface {
	// Attr returns the node's shared state (name, UUID, ports, isometries,
	// LIDT, property bag).
	Attr() *nodeattr.NodeAttr

	// Ports returns this node's ports as seen from outside, with Input/
	// Output swapped when the node's own Inverted flag is set.
	Ports() map[string]nodeattr.Port

	// Analyze consumes incoming per-port light payloads and produces
	// outgoing ones, under the given analyzer mode.
	Analyze(incoming LightResult, analyzer AnalyzerType) (LightResult, error)

	// CalcNodePosition advances the single chief ray used by the
	// node-position pass, and as a side effect sets this node's base
	// isometry. incoming is nil for a Source (the pass originates there).
	CalcNodePosition(incoming *ray.Ray, analyzer AnalyzerType) (*ray.Ray, error)
}

// effectivePorts flips every port's Input/Output classification when attr
// is marked Inverted, implementing "inverted nodes present outputs as
// inputs and vice versa" while leaving port names untouched.
func effectivePorts(attr *nodeattr.NodeAttr) map[string]nodeattr.Port {
	raw := attr.Ports()
	if !attr.Inverted {
		return raw
	}
	out := make(map[string]nodeattr.Port, len(raw))
	for name, p := range raw {
		flipped := p
		if p.Type == nodeattr.Input {
			flipped.Type = nodeattr.Output
		} else {
			flipped.Type = nodeattr.Input
		}
		out[name] = flipped
	}
	return out
}

// isometryFromChiefRay builds a world-placement isometry whose local +Z
// axis is the chief ray's direction and whose origin is the chief ray's
// current position, resolving the local Y axis against a fixed up vector
// (switched to +X when the chief ray travels along +Y or -Y, to avoid
// NewLookAt's collinear-up precondition).
func isometryFromChiefRay(chief *ray.Ray) (isometry.Isometry, error) {
	if chief == nil {
		return isometry.Identity(), nil
	}
	up := r3.Vec{Y: 1}
	if math.Abs(r3.Dot(r3.Unit(chief.Dir), up)) > 0.999 {
		up = r3.Vec{X: 1}
	}
	return isometry.NewLookAt(chief.Pos, r3.Add(chief.Pos, chief.Dir), up)
}

// defaultCalcNodePosition is the node-position-pass behavior shared by
// every variant that doesn't displace the chief ray internally (Dummy,
// meters, detectors, IdealFilter, ParaxialSurface, BeamSplitter): place the
// node's base isometry at the chief ray's current pose and hand the same
// ray on unchanged.
func defaultCalcNodePosition(attr *nodeattr.NodeAttr, incoming *ray.Ray) (*ray.Ray, error) {
	iso, err := isometryFromChiefRay(incoming)
	if err != nil {
		return nil, err
	}
	attr.SetBaseIsometry(iso)
	if incoming == nil {
		return nil, nil
	}
	return incoming.Clone(), nil
}

// requireInput looks up a required input port's payload, returning an
// AnalysisError if absent.
func requireInput(incoming LightResult, port string) (light.Data, error) {
	d, ok := incoming[port]
	if !ok {
		return light.Data{}, operror.Analysis("missing incoming data at port " + port)
	}
	return d, nil
}

// requireSpectrumPayload extracts the Energy-kind spectrum from d or fails
// with AnalysisError.
func requireSpectrumPayload(d light.Data) (*spectrum.Spectrum, error) {
	s, ok := d.AsEnergy()
	if !ok {
		return nil, operror.Analysis("expected spectrum payload, found " + d.Kind().String())
	}
	return s, nil
}

// requireRaysPayload extracts the Geometric-kind ray bundle from d or fails
// with AnalysisError.
func requireRaysPayload(d light.Data) (*ray.Rays, error) {
	rb, ok := d.AsGeometric()
	if !ok {
		return nil, operror.Analysis("expected ray-bundle payload, found " + d.Kind().String())
	}
	return rb, nil
}

func newUUID() uuid.UUID { return uuid.New() }

// refractRayByRay refracts every valid ray in rb against surf, resolving
// each ray's own n2 from indexFn(ray.Wavelength) rather than a single
// bundle-wide index — the one place a real surface's dispersion actually
// matters, since ray.Rays.RefractOnSurface only takes a single scalar n2.
// It returns the bundle of reflected descendants (misses contribute
// nothing); rb is mutated in place as the continuing/transmitted bundle.
func refractRayByRay(rb *ray.Rays, surf *surface.OpticSurface[*ray.Rays], iso isometry.Isometry, indexFn func(units.Length) (float64, error)) (*ray.Rays, error) {
	reflected := ray.NewRays()
	for _, r := range rb.Rays() {
		if !r.Valid {
			continue
		}
		n2, err := indexFn(r.Wavelength)
		if err != nil {
			return nil, err
		}
		refl, hit, err := r.RefractOnSurface(surf, iso, n2)
		if err != nil {
			return nil, operror.Analysis(err.Error())
		}
		if hit && refl != nil {
			reflected.Add(refl)
		}
	}
	return reflected, nil
}

// applySpectrumFilter multiplies spec by f's transmission: a constant
// filter scales it vertically, a spectral filter resamples f's spectrum
// onto spec's grid and multiplies pointwise (spectrum.Filter).
func applySpectrumFilter(spec *spectrum.Spectrum, f ray.Filter) (*spectrum.Spectrum, error) {
	switch f.Kind() {
	case ray.FilterConstant:
		return spec.ScaleVertical(f.Constant())
	case ray.FilterSpectrum:
		return spec.Filter(f.Spectrum())
	default:
		return nil, operror.InvalidArgument("filter kind", f.Kind())
	}
}

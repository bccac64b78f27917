// Package light defines LightData, the closed tagged union carried on graph
// edges and passed between node inputs and outputs: either an energy
// spectrum, a bundle of traced rays, or a list of bundles (ghost-focus
// multi-pass analysis).
package light

import (
	"github.com/opossum-optics/opossum/operror"
	"github.com/opossum-optics/opossum/ray"
	"github.com/opossum-optics/opossum/spectrum"
)

// Kind discriminates the three closed LightData variants.
type Kind int

const (
	Energy Kind = iota
	Geometric
	GhostFocus
)

func (k Kind) String() string {
	switch k {
	case Energy:
		return "Energy"
	case Geometric:
		return "Geometric"
	case GhostFocus:
		return "GhostFocus"
	default:
		return "Unknown"
	}
}

// Data is the LightData tagged union. The zero value is invalid; build one
// with NewEnergy, NewGeometric, or NewGhostFocus.
type Data struct {
	kind       Kind
	spectrum   *spectrum.Spectrum
	rays       *ray.Rays
	ghostFocus []*ray.Rays
}

// NewEnergy wraps a spectrum as an Energy-kind payload.
func NewEnergy(s *spectrum.Spectrum) (Data, error) {
	if s == nil {
		return Data{}, operror.InvalidArgument("light spectrum", s)
	}
	return Data{kind: Energy, spectrum: s}, nil
}

// NewGeometric wraps a ray bundle as a Geometric-kind payload.
func NewGeometric(rb *ray.Rays) (Data, error) {
	if rb == nil {
		return Data{}, operror.InvalidArgument("light rays", rb)
	}
	return Data{kind: Geometric, rays: rb}, nil
}

// NewGhostFocus wraps a list of bundles as a GhostFocus-kind payload.
func NewGhostFocus(bundles []*ray.Rays) (Data, error) {
	if bundles == nil {
		return Data{}, operror.InvalidArgument("light ghost-focus bundles", bundles)
	}
	return Data{kind: GhostFocus, ghostFocus: bundles}, nil
}

// Kind returns which variant this payload holds.
func (d Data) Kind() Kind { return d.kind }

// AsEnergy returns the wrapped spectrum and true iff Kind()==Energy.
func (d Data) AsEnergy() (*spectrum.Spectrum, bool) {
	return d.spectrum, d.kind == Energy
}

// AsGeometric returns the wrapped bundle and true iff Kind()==Geometric.
func (d Data) AsGeometric() (*ray.Rays, bool) {
	return d.rays, d.kind == Geometric
}

// AsGhostFocus returns the wrapped bundle list and true iff
// Kind()==GhostFocus.
func (d Data) AsGhostFocus() ([]*ray.Rays, bool) {
	return d.ghostFocus, d.kind == GhostFocus
}

// TotalEnergy reduces any variant to a single energy figure: the spectrum's
// integral for Energy, the bundle's summed ray energy for Geometric, and the
// sum across bundles for GhostFocus.
func (d Data) TotalEnergy() float64 {
	switch d.kind {
	case Energy:
		return float64(d.spectrum.TotalEnergy())
	case Geometric:
		return float64(d.rays.TotalEnergy())
	case GhostFocus:
		var total float64
		for _, b := range d.ghostFocus {
			total += float64(b.TotalEnergy())
		}
		return total
	default:
		return 0
	}
}

package surface

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/opossum-optics/opossum/aperture"
	"github.com/opossum-optics/opossum/isometry"
	"github.com/opossum-optics/opossum/operror"
	"github.com/opossum-optics/opossum/units"
)

// HitRecord is one intersection event recorded into a surface's hit-map:
// the point on the surface, the ray's energy at that point, and its
// wavelength.
type HitRecord struct {
	Point      r3.Vec
	Energy     units.Energy
	Wavelength units.Length
}

// OpticSurface owns a geometric Surface plus its aperture, coating, a
// hit-map, an LIDT, and two bidirectional ray caches. RB is the ray-bundle
// type stored in the caches; the ray package instantiates this with its own
// *Rays type so that surface never has to import ray.
//
// Invariant: the forward and backward caches are always disjoint from each
// other and from whatever bundle is currently flowing through an analysis
// pass — nothing in this type ever merges them implicitly; callers append
// and drain explicitly.
type OpticSurface[RB any] struct {
	shape   Shape
	anchor  isometry.Isometry
	ap      aperture.Aperture
	coating Coating
	lidt    float64 // J/cm^2

	hits          []HitRecord
	forwardCache  []RB
	backwardCache []RB
}

// New builds an OpticSurface. lidt must be non-negative.
func New[RB any](shape Shape, anchor isometry.Isometry, ap aperture.Aperture, coating Coating, lidt float64) (*OpticSurface[RB], error) {
	if lidt < 0 {
		return nil, operror.InvalidArgument("LIDT", lidt)
	}
	if ap == nil {
		ap = aperture.NewNone()
	}
	if coating == nil {
		coating = IdealAR{}
	}
	return &OpticSurface[RB]{shape: shape, anchor: anchor, ap: ap, coating: coating, lidt: lidt}, nil
}

// Shape returns the geometric surface.
func (s *OpticSurface[RB]) Shape() Shape { return s.shape }

// Anchor returns the surface-local anchor isometry, to be composed with the
// owning node's effective isometry at use.
func (s *OpticSurface[RB]) Anchor() isometry.Isometry { return s.anchor }

// SetAnchor replaces the surface-local anchor isometry, used when an
// element (e.g. Lens) repositions its surfaces relative to its own
// effective isometry during analysis.
func (s *OpticSurface[RB]) SetAnchor(anchor isometry.Isometry) { s.anchor = anchor }

// Aperture returns the surface's transmission map.
func (s *OpticSurface[RB]) Aperture() aperture.Aperture { return s.ap }

// Coating returns the surface's reflectivity model.
func (s *OpticSurface[RB]) Coating() Coating { return s.coating }

// LIDT returns the laser-induced damage threshold in J/cm^2.
func (s *OpticSurface[RB]) LIDT() float64 { return s.lidt }

// RecordHit appends h to the surface's hit-map.
func (s *OpticSurface[RB]) RecordHit(h HitRecord) {
	s.hits = append(s.hits, h)
}

// HitMap returns every intersection recorded on this surface so far.
// Callers must not mutate the returned slice.
func (s *OpticSurface[RB]) HitMap() []HitRecord { return s.hits }

// AppendCache appends rbs to the forward (backward=false) or backward
// (backward=true) cache.
func (s *OpticSurface[RB]) AppendCache(backward bool, rbs ...RB) {
	if backward {
		s.backwardCache = append(s.backwardCache, rbs...)
	} else {
		s.forwardCache = append(s.forwardCache, rbs...)
	}
}

// CachedRays peeks the forward or backward cache without clearing it.
func (s *OpticSurface[RB]) CachedRays(backward bool) []RB {
	if backward {
		return s.backwardCache
	}
	return s.forwardCache
}

// DrainCache returns the forward or backward cache and clears it, for a
// caller that is about to merge the cached bundles into the current flow.
func (s *OpticSurface[RB]) DrainCache(backward bool) []RB {
	if backward {
		out := s.backwardCache
		s.backwardCache = nil
		return out
	}
	out := s.forwardCache
	s.forwardCache = nil
	return out
}

// ResetData clears both caches and the hit-map, as performed between
// independent analyses.
func (s *OpticSurface[RB]) ResetData() {
	s.forwardCache = nil
	s.backwardCache = nil
	s.hits = nil
}

// Fluence estimates peak fluence (J/cm^2) on this surface from its
// recorded hit-map, by summing the energy of every recorded hit and
// dividing by a fixed 1mm^2 reference area; hit positions are not used —
// a coarse estimate, not a full irradiance-map renderer (which is
// explicitly out of scope).
func (s *OpticSurface[RB]) Fluence() float64 {
	const referenceAreaCm2 = 1e-2 // 1 mm^2 in cm^2
	var total float64
	for _, h := range s.hits {
		total += float64(h.Energy)
	}
	if total == 0 {
		return 0
	}
	return total / referenceAreaCm2
}

// Package ray implements Ray and Rays: a single traced ray and a bundle of
// them, propagation, paraxial and full refraction against an OpticSurface,
// spectral/constant filtering, and energy splitting.
package ray

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/opossum-optics/opossum/isometry"
	"github.com/opossum-optics/opossum/operror"
	"github.com/opossum-optics/opossum/spectrum"
	"github.com/opossum-optics/opossum/surface"
	"github.com/opossum-optics/opossum/units"
)

// Ray is a single traced geometric ray. Position and direction are expressed
// in world coordinates. Dir is unit length except transiently during
// RefractParaxial, which deliberately leaves it scaled so that the caller's
// Propagate call carries the lateral-slope approximation through correctly
// (see Propagate's use of |dir|).
type Ray struct {
	Pos        r3.Vec
	PosHistory []r3.Vec
	Dir        r3.Vec

	Wavelength units.Length
	Energy     units.Energy

	PathLength      units.Length
	RefractiveIndex float64

	Bounces     int
	Refractions int
	Valid       bool
}

// New builds a ray at pos traveling along dir (normalized internally), with
// the given wavelength, energy, and starting refractive index.
func New(pos, dir r3.Vec, wavelength units.Length, energy units.Energy, refractiveIndex float64) (*Ray, error) {
	if r3.Norm(dir) == 0 {
		return nil, operror.InvalidArgument("ray direction", dir)
	}
	if !units.FiniteLength(wavelength) || wavelength <= 0 {
		return nil, operror.InvalidArgument("wavelength", wavelength)
	}
	if !units.FiniteEnergy(energy) || energy < 0 {
		return nil, operror.InvalidArgument("energy", energy)
	}
	if !finite(refractiveIndex) || refractiveIndex < 1 {
		return nil, operror.InvalidArgument("refractive index", refractiveIndex)
	}
	return &Ray{
		Pos:             pos,
		Dir:             r3.Unit(dir),
		Wavelength:      wavelength,
		Energy:          energy,
		RefractiveIndex: refractiveIndex,
		Valid:           true,
	}, nil
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// Clone returns a deep-enough copy: PosHistory is copied so the two rays'
// histories diverge independently from here on.
func (ray *Ray) Clone() *Ray {
	cp := *ray
	cp.PosHistory = append([]r3.Vec(nil), ray.PosHistory...)
	return &cp
}

// Propagate advances the ray by length along its current direction,
// recording the prior position in history. path_length accrues
// length*n*|dir| rather than length*n, since dir can be transiently
// non-unit after RefractParaxial.
func (ray *Ray) Propagate(length units.Length) error {
	if !units.FiniteLength(length) {
		return operror.InvalidArgument("propagation length", length)
	}
	ray.PosHistory = append(ray.PosHistory, ray.Pos)
	ray.Pos = r3.Add(ray.Pos, r3.Scale(float64(length), ray.Dir))
	ray.PathLength += units.Length(float64(length) * ray.RefractiveIndex * r3.Norm(ray.Dir))
	return nil
}

// RefractParaxial applies the thin paraxial-lens approximation at focal
// length f: a ray at transverse offset (x,y) acquires lateral slope
// -(x/f, y/f), added onto its current direction's transverse components
// without renormalizing — the non-unit result is exactly what makes a
// subsequent Propagate(f) land collimated rays on-axis at z=f. The
// path_length correction accounts for the optical path difference of the
// thin-lens approximation relative to a flat reference plane.
func (ray *Ray) RefractParaxial(f units.Length) error {
	if !units.FiniteLength(f) || f == 0 {
		return operror.InvalidArgument("focal length", f)
	}
	x, y := ray.Pos.X, ray.Pos.Y
	ff := float64(f)
	rSq := x*x + y*y

	ray.Dir.X -= x / ff
	ray.Dir.Y -= y / ff

	ray.PathLength += units.Length(-(math.Sqrt(rSq+ff*ff) - math.Abs(ff)))
	ray.Refractions++
	return nil
}

// RefractOnSurface intersects the ray (already in world coordinates) against
// surf, whose full effective world isometry is iso (base isometry composed
// with the owning node's alignment and the surface's own anchor — computing
// that composition is the caller's job, in package node).
//
// hit reports whether the ray intersected the surface at all. When hit is
// false the ray is left untouched. When hit is true and reflected is nil,
// the interface was a total-internal-reflection case: ray moved to the
// intersection point (path length and position history updated) and was
// reflected there, with its bounce count incremented. When hit is true and reflected is non-nil, ray continues as the
// refracted ray and reflected is the new, independent reflected ray.
func (ray *Ray) RefractOnSurface(surf *surface.OpticSurface[*Rays], iso isometry.Isometry, n2 float64) (reflected *Ray, hit bool, err error) {
	if !finite(n2) || n2 < 1 {
		return nil, false, operror.InvalidArgument("refractive index", n2)
	}

	localPos := iso.InverseTransformPoint(ray.Pos)
	localDir := iso.InverseTransformVector(ray.Dir)
	localPoint, localNormal, ok := surf.Shape().Intersect(localPos, localDir)
	if !ok {
		return nil, false, nil
	}

	intersection := iso.TransformPoint(localPoint)
	normal := r3.Unit(iso.TransformVector(localNormal))

	n1 := ray.RefractiveIndex
	incident := r3.Unit(ray.Dir)

	dist := r3.Norm(r3.Sub(intersection, ray.Pos))
	ray.PosHistory = append(ray.PosHistory, ray.Pos)
	ray.PathLength += units.Length(n1 * dist)
	ray.Pos = intersection

	cosI := -r3.Dot(incident, normal)
	mu := n1 / n2
	sinT2 := mu * mu * (1 - cosI*cosI)

	reflectedDir := r3.Sub(incident, r3.Scale(2*r3.Dot(incident, normal), normal))

	if sinT2 >= 1 {
		// Total internal reflection: all energy stays on the incident side.
		ray.Dir = reflectedDir
		ray.Bounces++
		return nil, true, nil
	}

	cosT := math.Sqrt(1 - sinT2)
	transmittedDir := r3.Add(r3.Scale(mu, incident), r3.Scale(mu*cosI-cosT, normal))

	R := surf.Coating().Reflectivity(incident, normal, n1, n2)

	reflected = ray.Clone()
	reflected.Dir = reflectedDir
	reflected.Energy = units.Energy(float64(ray.Energy) * R)
	reflected.Bounces++

	ray.Dir = r3.Unit(transmittedDir)
	ray.Energy = units.Energy(float64(ray.Energy) * (1 - R))
	ray.RefractiveIndex = n2
	ray.Refractions++

	surf.RecordHit(surface.HitRecord{Point: intersection, Energy: ray.Energy + reflected.Energy, Wavelength: ray.Wavelength})

	return reflected, true, nil
}

// FilterKind distinguishes the two closed FilterType variants.
type FilterKind int

const (
	FilterConstant FilterKind = iota
	FilterSpectrum
)

// Filter is a closed sum type: either a constant transmission in [0,1], or
// a wavelength-dependent transmission spectrum.
type Filter struct {
	kind     FilterKind
	constant float64
	spec     *spectrum.Spectrum
}

// NewConstantFilter builds a Filter that multiplies energy by a fixed
// transmission t, which must be in [0,1].
func NewConstantFilter(t float64) (Filter, error) {
	if t < 0 || t > 1 {
		return Filter{}, operror.InvalidArgument("filter transmission", t)
	}
	return Filter{kind: FilterConstant, constant: t}, nil
}

// NewSpectrumFilter builds a Filter whose transmission varies by wavelength.
func NewSpectrumFilter(s *spectrum.Spectrum) (Filter, error) {
	if s == nil {
		return Filter{}, operror.InvalidArgument("filter spectrum", s)
	}
	return Filter{kind: FilterSpectrum, spec: s}, nil
}

// Kind reports which Filter variant this is.
func (f Filter) Kind() FilterKind { return f.kind }

// Constant returns the fixed transmission (meaningful when Kind()==FilterConstant).
func (f Filter) Constant() float64 { return f.constant }

// Spectrum returns the transmission spectrum (meaningful when Kind()==FilterSpectrum).
func (f Filter) Spectrum() *spectrum.Spectrum { return f.spec }

// ApplyFilter multiplies the ray's energy by the filter's transmission at
// its wavelength.
func (ray *Ray) ApplyFilter(f Filter) error {
	switch f.kind {
	case FilterConstant:
		ray.Energy = units.Energy(float64(ray.Energy) * f.constant)
		return nil
	case FilterSpectrum:
		t, ok := f.spec.GetValue(ray.Wavelength)
		if !ok {
			return operror.Spectrum("filter spectrum does not cover ray wavelength")
		}
		ray.Energy = units.Energy(float64(ray.Energy) * t)
		return nil
	default:
		return operror.InvalidArgument("filter kind", f.kind)
	}
}

// SplitKind distinguishes the two closed SplittingConfig variants.
type SplitKind int

const (
	SplitRatio SplitKind = iota
	SplitSpectrum
)

// SplittingConfig is a closed sum type describing how RefractOnSurface-style
// energy splitting divides a ray's energy between two descendants: a fixed
// ratio, or a wavelength-dependent one.
type SplittingConfig struct {
	kind  SplitKind
	ratio float64
	spec  *spectrum.Spectrum
}

// NewRatioSplit builds a SplittingConfig with a fixed transmitted fraction
// in [0,1] (the complement is reflected).
func NewRatioSplit(ratio float64) (SplittingConfig, error) {
	if ratio < 0 || ratio > 1 {
		return SplittingConfig{}, operror.InvalidArgument("split ratio", ratio)
	}
	return SplittingConfig{kind: SplitRatio, ratio: ratio}, nil
}

// NewSpectrumSplit builds a SplittingConfig whose transmitted fraction
// varies by wavelength.
func NewSpectrumSplit(s *spectrum.Spectrum) (SplittingConfig, error) {
	if s == nil {
		return SplittingConfig{}, operror.InvalidArgument("split spectrum", s)
	}
	return SplittingConfig{kind: SplitSpectrum, spec: s}, nil
}

// Kind reports which SplittingConfig variant this is.
func (cfg SplittingConfig) Kind() SplitKind { return cfg.kind }

// Ratio returns the fixed transmitted fraction (meaningful when Kind()==SplitRatio).
func (cfg SplittingConfig) Ratio() float64 { return cfg.ratio }

// Spectrum returns the wavelength-dependent transmitted fraction (meaningful when Kind()==SplitSpectrum).
func (cfg SplittingConfig) Spectrum() *spectrum.Spectrum { return cfg.spec }

// Split divides ray's energy in place (the transmitted share) and returns a
// new independent ray carrying the reflected share.
func (ray *Ray) Split(cfg SplittingConfig) (*Ray, error) {
	var t float64
	switch cfg.kind {
	case SplitRatio:
		t = cfg.ratio
	case SplitSpectrum:
		v, ok := cfg.spec.GetValue(ray.Wavelength)
		if !ok {
			return nil, operror.Spectrum("split spectrum does not cover ray wavelength")
		}
		t = v
	default:
		return nil, operror.InvalidArgument("split kind", cfg.kind)
	}

	reflected := ray.Clone()
	reflected.Energy = units.Energy(float64(ray.Energy) * (1 - t))
	ray.Energy = units.Energy(float64(ray.Energy) * t)
	return reflected, nil
}

// Invalidate marks the ray permanently invalid. A ray invalidated this way
// must never be re-validated; callers (analysis) simply drop invalid rays
// from further propagation.
func (ray *Ray) Invalidate() { ray.Valid = false }

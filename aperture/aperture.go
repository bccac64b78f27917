// Package aperture implements the transmission-map variants used by
// OpticSurface apodization: a pure function of a 2-D point to a factor in
// [0,1]. The variant set is closed (None, BinaryCircle, BinaryRectangle,
// BinaryPolygon, Gaussian, Stack); each is a small struct implementing the
// Aperture interface rather than an open-world plugin type, per the "closed
// sum type, implemented as trait objects with a fixed interface" guidance.
package aperture

import (
	"math"

	"github.com/opossum-optics/opossum/operror"
	"github.com/opossum-optics/opossum/units"
)

// Point2 is a point in the surface-local 2-D aperture plane.
type Point2 struct {
	X, Y units.Length
}

// Kind distinguishes a Hole (transmits inside its footprint) from an
// Obstruction (blocks inside its footprint, the complement of a Hole).
type Kind int

const (
	Hole Kind = iota
	Obstruction
)

func invert(kind Kind, value float64) float64 {
	if kind == Obstruction {
		return 1 - value
	}
	return value
}

// Aperture is a transmission map: a point maps to a factor in [0,1].
type Aperture interface {
	// ApodizationFactor returns the transmission factor at p, in [0,1].
	ApodizationFactor(p Point2) float64
}

// None is the always-transparent aperture.
type None struct{}

// NewNone returns an Aperture that always transmits fully.
func NewNone() Aperture { return None{} }

func (None) ApodizationFactor(Point2) float64 { return 1 }

// BinaryCircle transmits (or blocks, if Obstruction) inside a circle.
type BinaryCircle struct {
	radius units.Length
	center Point2
	kind   Kind
}

// NewBinaryCircle builds a circular binary aperture. radius must be finite
// and strictly positive.
func NewBinaryCircle(radius units.Length, center Point2, kind Kind) (Aperture, error) {
	if !units.FiniteLength(radius) || radius <= 0 {
		return nil, operror.InvalidArgument("radius", radius)
	}
	return BinaryCircle{radius: radius, center: center, kind: kind}, nil
}

func (a BinaryCircle) ApodizationFactor(p Point2) float64 {
	dx, dy := float64(p.X-a.center.X), float64(p.Y-a.center.Y)
	inside := dx*dx+dy*dy <= float64(a.radius)*float64(a.radius)
	if inside {
		return invert(a.kind, 1)
	}
	return invert(a.kind, 0)
}

// BinaryRectangle transmits (or blocks) inside an axis-aligned rectangle.
type BinaryRectangle struct {
	w, h   units.Length
	center Point2
	kind   Kind
}

// NewBinaryRectangle builds a rectangular binary aperture. w and h must be
// finite and strictly positive.
func NewBinaryRectangle(w, h units.Length, center Point2, kind Kind) (Aperture, error) {
	if !units.FiniteLength(w) || w <= 0 {
		return nil, operror.InvalidArgument("width", w)
	}
	if !units.FiniteLength(h) || h <= 0 {
		return nil, operror.InvalidArgument("height", h)
	}
	return BinaryRectangle{w: w, h: h, center: center, kind: kind}, nil
}

func (a BinaryRectangle) ApodizationFactor(p Point2) float64 {
	dx, dy := math.Abs(float64(p.X-a.center.X)), math.Abs(float64(p.Y-a.center.Y))
	inside := dx <= float64(a.w)/2 && dy <= float64(a.h)/2
	if inside {
		return invert(a.kind, 1)
	}
	return invert(a.kind, 0)
}

// triangle is one ear produced by triangulation, stored as three vertices.
type triangle [3]Point2

// BinaryPolygon transmits (or blocks) inside an arbitrary simple polygon.
// Containment is tested against a fixed ear-clipping triangulation computed
// once at construction.
type BinaryPolygon struct {
	points []Point2
	tris   []triangle
	kind   Kind
}

// NewBinaryPolygon builds a polygon aperture from a simple (non
// self-intersecting) polygon's vertices in order. Requires at least 3
// vertices; triangulates via ear-clipping immediately.
func NewBinaryPolygon(points []Point2, kind Kind) (Aperture, error) {
	if len(points) < 3 {
		return nil, operror.InvalidArgument("polygon vertex count", len(points))
	}
	tris, err := earClip(points)
	if err != nil {
		return nil, err
	}
	return BinaryPolygon{points: append([]Point2(nil), points...), tris: tris, kind: kind}, nil
}

func (a BinaryPolygon) ApodizationFactor(p Point2) float64 {
	for _, t := range a.tris {
		if pointInTriangle(p, t) {
			return invert(a.kind, 1)
		}
	}
	return invert(a.kind, 0)
}

func pointInTriangle(p Point2, t triangle) bool {
	sign := func(a, b, c Point2) float64 {
		return float64(a.X-c.X)*float64(b.Y-c.Y) - float64(b.X-c.X)*float64(a.Y-c.Y)
	}
	d1 := sign(p, t[0], t[1])
	d2 := sign(p, t[1], t[2])
	d3 := sign(p, t[2], t[0])
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

// earClip triangulates a simple polygon by repeatedly clipping convex
// "ears" (a vertex whose triangle with its neighbors contains no other
// polygon vertex). O(n^2) on the vertex count, which is fine for the small
// hand-authored aperture outlines this models.
func earClip(points []Point2) ([]triangle, error) {
	idx := make([]int, len(points))
	for i := range idx {
		idx[i] = i
	}
	// Ensure counter-clockwise winding so the "is convex" cross-product test
	// below is consistent regardless of input order.
	if signedArea(points) < 0 {
		reverseInts(idx)
	}

	var tris []triangle
	guard := 0
	for len(idx) > 3 && guard < len(points)*len(points)+8 {
		guard++
		earFound := false
		for i := 0; i < len(idx); i++ {
			prev := idx[(i-1+len(idx))%len(idx)]
			cur := idx[i]
			next := idx[(i+1)%len(idx)]
			a, b, c := points[prev], points[cur], points[next]
			if !isConvex(a, b, c) {
				continue
			}
			clipped := false
			for j := range idx {
				if j == (i-1+len(idx))%len(idx) || j == i || j == (i+1)%len(idx) {
					continue
				}
				if pointInTriangle(points[idx[j]], triangle{a, b, c}) {
					clipped = true
					break
				}
			}
			if clipped {
				continue
			}
			tris = append(tris, triangle{a, b, c})
			idx = append(idx[:i], idx[i+1:]...)
			earFound = true
			break
		}
		if !earFound {
			break // degenerate/self-intersecting input; stop rather than loop forever
		}
	}
	if len(idx) == 3 {
		tris = append(tris, triangle{points[idx[0]], points[idx[1]], points[idx[2]]})
	}
	return tris, nil
}

func isConvex(a, b, c Point2) bool {
	cross := float64(b.X-a.X)*float64(c.Y-a.Y) - float64(b.Y-a.Y)*float64(c.X-a.X)
	return cross > 0
}

func signedArea(points []Point2) float64 {
	var sum float64
	for i := range points {
		j := (i + 1) % len(points)
		sum += float64(points[i].X) * float64(points[j].Y)
		sum -= float64(points[j].X) * float64(points[i].Y)
	}
	return sum / 2
}

func reverseInts(a []int) {
	for i, j := 0, len(a)-1; i < j; i, j = i+1, j-1 {
		a[i], a[j] = a[j], a[i]
	}
}

// Gaussian is an elliptical Gaussian transmission profile.
type Gaussian struct {
	sigma  Point2 // sigma.X = sigma_x, sigma.Y = sigma_y
	center Point2
	kind   Kind
}

// NewGaussian builds a Gaussian aperture. Both sigma components must be
// finite and strictly positive.
func NewGaussian(sigma, center Point2, kind Kind) (Aperture, error) {
	if !units.FiniteLength(sigma.X) || sigma.X <= 0 {
		return nil, operror.InvalidArgument("sigma_x", sigma.X)
	}
	if !units.FiniteLength(sigma.Y) || sigma.Y <= 0 {
		return nil, operror.InvalidArgument("sigma_y", sigma.Y)
	}
	return Gaussian{sigma: sigma, center: center, kind: kind}, nil
}

func (a Gaussian) ApodizationFactor(p Point2) float64 {
	dx := float64(p.X-a.center.X) / float64(a.sigma.X)
	dy := float64(p.Y-a.center.Y) / float64(a.sigma.Y)
	value := math.Exp(-0.5*dx*dx - 0.5*dy*dy)
	return invert(a.kind, value)
}

// Stack composes child apertures by multiplying their factors (subtractive
// composition), then applies its own Hole/Obstruction inversion.
type Stack struct {
	children []Aperture
	kind     Kind
}

// NewStack builds a Stack over the given children in the given kind.
func NewStack(kind Kind, children ...Aperture) Aperture {
	return Stack{children: append([]Aperture(nil), children...), kind: kind}
}

func (a Stack) ApodizationFactor(p Point2) float64 {
	value := 1.0
	for _, c := range a.children {
		value *= c.ApodizationFactor(p)
	}
	return invert(a.kind, value)
}

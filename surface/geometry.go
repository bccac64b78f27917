// Package surface implements the geometric Surface variants (Plane, Sphere,
// Cylinder), the Coating reflectivity models, and OpticSurface — a
// geometric surface plus aperture, coating, bidirectional ray caches, a
// hit-map, and an LIDT. OpticSurface is generic over its ray-bundle type
// (RB) so that this package never has to import the ray package: the ray
// package is the one that needs to know about surfaces (to refract against
// them), not the reverse, and this keeps the dependency a one-way arrow
// while still letting a surface own typed caches of whatever bundle type
// the ray package defines.
package surface

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/opossum-optics/opossum/operror"
	"github.com/opossum-optics/opossum/units"
)

// Shape is a geometric surface expressed in its own local (anchor) frame:
// position and direction in, intersection point and outward unit normal
// out. The returned normal always opposes the incident direction (N.dir <=
// 0), which is the convention the refraction math in package ray relies on.
type Shape interface {
	Intersect(pos, dir r3.Vec) (point, normal r3.Vec, ok bool)
}

// Plane is the z=0 plane in local coordinates.
type Plane struct{}

// NewPlane returns the z=0 plane.
func NewPlane() Shape { return Plane{} }

func (Plane) Intersect(pos, dir r3.Vec) (r3.Vec, r3.Vec, bool) {
	if dir.Z == 0 {
		return r3.Vec{}, r3.Vec{}, false
	}
	t := -pos.Z / dir.Z
	if t < 0 {
		return r3.Vec{}, r3.Vec{}, false
	}
	point := r3.Add(pos, r3.Scale(t, dir))
	normal := r3.Vec{Z: 1}
	if r3.Dot(normal, dir) > 0 {
		normal = r3.Scale(-1, normal)
	}
	return point, normal, true
}

// Sphere is a sphere of the given signed radius, tangent to the local
// origin with its center on the local +Z axis at (0,0,radius) — the
// standard optical-vertex convention.
type Sphere struct {
	radius units.Length
}

// NewSphere builds a spherical surface. A radius of +-Inf degenerates to a
// Plane (a sphere of infinite radius is flat); 0 or NaN is rejected.
func NewSphere(radius units.Length) (Shape, error) {
	if math.IsNaN(float64(radius)) || radius == 0 {
		return nil, operror.InvalidArgument("sphere radius", radius)
	}
	if math.IsInf(float64(radius), 0) {
		return NewPlane(), nil
	}
	return Sphere{radius: radius}, nil
}

func (s Sphere) Intersect(pos, dir r3.Vec) (r3.Vec, r3.Vec, bool) {
	center := r3.Vec{Z: float64(s.radius)}
	oc := r3.Sub(pos, center)
	a := r3.Dot(dir, dir)
	b := 2 * r3.Dot(dir, oc)
	c := r3.Dot(oc, oc) - float64(s.radius)*float64(s.radius)
	disc := b*b - 4*a*c
	if disc < 0 {
		return r3.Vec{}, r3.Vec{}, false
	}
	sq := math.Sqrt(disc)
	t1 := (-b - sq) / (2 * a)
	t2 := (-b + sq) / (2 * a)
	t, ok := nearestPositive(t1, t2)
	if !ok {
		return r3.Vec{}, r3.Vec{}, false
	}
	point := r3.Add(pos, r3.Scale(t, dir))
	normal := r3.Unit(r3.Sub(point, center))
	if r3.Dot(normal, dir) > 0 {
		normal = r3.Scale(-1, normal)
	}
	return point, normal, true
}

// Cylinder is a cylindrical surface of the given signed radius whose axis
// direction passes through the local origin's projection, analogous to
// Sphere but extruded along axis.
type Cylinder struct {
	radius units.Length
	axis   r3.Vec
}

// NewCylinder builds a cylindrical surface aligned along axis (need not be
// normalized; normalized internally). A radius of +-Inf degenerates to a
// Plane; 0 or NaN is rejected.
func NewCylinder(radius units.Length, axis r3.Vec) (Shape, error) {
	if math.IsNaN(float64(radius)) || radius == 0 {
		return nil, operror.InvalidArgument("cylinder radius", radius)
	}
	if math.IsInf(float64(radius), 0) {
		return NewPlane(), nil
	}
	if r3.Norm(axis) == 0 {
		return nil, operror.InvalidArgument("cylinder axis", axis)
	}
	return Cylinder{radius: radius, axis: r3.Unit(axis)}, nil
}

func (c Cylinder) basis() (u, v r3.Vec) {
	helper := r3.Vec{Z: 1}
	if math.Abs(r3.Dot(helper, c.axis)) > 0.9 {
		helper = r3.Vec{X: 1}
	}
	u = r3.Unit(r3.Cross(c.axis, helper))
	v = r3.Cross(u, c.axis)
	return u, v
}

func (c Cylinder) Intersect(pos, dir r3.Vec) (r3.Vec, r3.Vec, bool) {
	u, v := c.basis()
	pu, pv := r3.Dot(pos, u), r3.Dot(pos, v)
	du, dv := r3.Dot(dir, u), r3.Dot(dir, v)

	// Circle of radius `radius` centered at (0, radius) in the (u,v) plane,
	// the same vertex-at-origin convention as Sphere.
	ocU, ocV := pu, pv-float64(c.radius)
	a := du*du + dv*dv
	b := 2 * (du*ocU + dv*ocV)
	cc := ocU*ocU + ocV*ocV - float64(c.radius)*float64(c.radius)
	if a == 0 {
		return r3.Vec{}, r3.Vec{}, false
	}
	disc := b*b - 4*a*cc
	if disc < 0 {
		return r3.Vec{}, r3.Vec{}, false
	}
	sq := math.Sqrt(disc)
	t1 := (-b - sq) / (2 * a)
	t2 := (-b + sq) / (2 * a)
	t, ok := nearestPositive(t1, t2)
	if !ok {
		return r3.Vec{}, r3.Vec{}, false
	}
	point := r3.Add(pos, r3.Scale(t, dir))
	pointU, pointV := r3.Dot(point, u), r3.Dot(point, v)
	nu, nv := pointU-0, pointV-float64(c.radius)
	normal := r3.Unit(r3.Add(r3.Scale(nu, u), r3.Scale(nv, v)))
	if r3.Dot(normal, dir) > 0 {
		normal = r3.Scale(-1, normal)
	}
	return point, normal, true
}

// nearestPositive picks the smaller non-negative root of a quadratic,
// preferring the closer intersection ahead of the ray.
func nearestPositive(t1, t2 float64) (float64, bool) {
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	if t1 >= 0 {
		return t1, true
	}
	if t2 >= 0 {
		return t2, true
	}
	return 0, false
}

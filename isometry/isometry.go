// Package isometry implements rigid 3-D transforms: a translation composed
// with a rotation, built from intrinsic Euler angles applied in order
// X->Y->Z. The forward rotation matrix and its inverse (its transpose, a
// rotation matrix always being orthonormal) are computed once at
// construction and cached side by side, per the "precompute the inverse
// alongside the forward transform" discipline — the two are never allowed
// to drift out of sync because nothing ever mutates an Isometry in place.
package isometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/opossum-optics/opossum/operror"
	"github.com/opossum-optics/opossum/units"
)

// Isometry is an immutable rigid transform: p' = R*p + t.
type Isometry struct {
	translation r3.Vec
	rotation    r3.Vec // the Euler angles (radians) this was built from
	rot         *mat.Dense
	rotInv      *mat.Dense // == rot^T
}

// Identity returns the no-op transform.
func Identity() Isometry {
	iso, _ := New(r3.Vec{}, r3.Vec{})
	return iso
}

// NewAlongZ returns a pure translation of z along the local Z axis.
func NewAlongZ(z units.Length) Isometry {
	iso, _ := New(r3.Vec{Z: float64(z)}, r3.Vec{})
	return iso
}

// RotateX returns a pure rotation about the local X axis by angle.
func RotateX(angle units.Angle) Isometry {
	iso, _ := New(r3.Vec{}, r3.Vec{X: float64(angle)})
	return iso
}

// New builds an Isometry from a translation vector (Length components) and
// an Euler-angle rotation vector (Angle components, radians), applied
// intrinsically in order X then Y then Z: R = Rx(rx) * Ry(ry) * Rz(rz).
// Returns operror.ErrInvalidArgument if any component is non-finite.
func New(translation, rotation r3.Vec) (Isometry, error) {
	for _, v := range []float64{translation.X, translation.Y, translation.Z, rotation.X, rotation.Y, rotation.Z} {
		if !units.Finite(v) {
			return Isometry{}, operror.InvalidArgument("isometry component", v)
		}
	}

	rx := elementalX(rotation.X)
	ry := elementalY(rotation.Y)
	rz := elementalZ(rotation.Z)

	tmp := mat.NewDense(3, 3, nil)
	tmp.Mul(rx, ry)
	rot := mat.NewDense(3, 3, nil)
	rot.Mul(tmp, rz)

	rotInv := mat.NewDense(3, 3, nil)
	rotInv.CloneFrom(rot.T())

	return Isometry{
		translation: translation,
		rotation:    rotation,
		rot:         rot,
		rotInv:      rotInv,
	}, nil
}

func elementalX(a float64) *mat.Dense {
	c, s := math.Cos(a), math.Sin(a)
	return mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, c, -s,
		0, s, c,
	})
}

func elementalY(a float64) *mat.Dense {
	c, s := math.Cos(a), math.Sin(a)
	return mat.NewDense(3, 3, []float64{
		c, 0, s,
		0, 1, 0,
		-s, 0, c,
	})
}

func elementalZ(a float64) *mat.Dense {
	c, s := math.Cos(a), math.Sin(a)
	return mat.NewDense(3, 3, []float64{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	})
}

// Translation returns the translation component.
func (iso Isometry) Translation() r3.Vec { return iso.translation }

// Rotation returns the Euler-angle rotation this Isometry was built from.
func (iso Isometry) Rotation() r3.Vec { return iso.rotation }

func mulVec(m *mat.Dense, v r3.Vec) r3.Vec {
	in := mat.NewVecDense(3, []float64{v.X, v.Y, v.Z})
	out := mat.NewVecDense(3, nil)
	out.MulVec(m, in)
	return r3.Vec{X: out.AtVec(0), Y: out.AtVec(1), Z: out.AtVec(2)}
}

// TransformPoint maps a point from this Isometry's local frame to world space.
func (iso Isometry) TransformPoint(p r3.Vec) r3.Vec {
	return r3.Add(mulVec(iso.rot, p), iso.translation)
}

// InverseTransformPoint maps a point from world space back to local space.
func (iso Isometry) InverseTransformPoint(p r3.Vec) r3.Vec {
	return mulVec(iso.rotInv, r3.Sub(p, iso.translation))
}

// TransformVector rotates (without translating) a direction/normal into world space.
func (iso Isometry) TransformVector(v r3.Vec) r3.Vec {
	return mulVec(iso.rot, v)
}

// InverseTransformVector rotates a world-space direction/normal back into local space.
func (iso Isometry) InverseTransformVector(v r3.Vec) r3.Vec {
	return mulVec(iso.rotInv, v)
}

// TransformPoints applies TransformPoint to every element of ps.
func (iso Isometry) TransformPoints(ps []r3.Vec) []r3.Vec {
	out := make([]r3.Vec, len(ps))
	for i, p := range ps {
		out[i] = iso.TransformPoint(p)
	}
	return out
}

// InverseTransformPoints applies InverseTransformPoint to every element of ps.
func (iso Isometry) InverseTransformPoints(ps []r3.Vec) []r3.Vec {
	out := make([]r3.Vec, len(ps))
	for i, p := range ps {
		out[i] = iso.InverseTransformPoint(p)
	}
	return out
}

// Append composes this Isometry with other, meaning "apply this, then
// other": Append(other).Transform(p) == other.Transform(this.Transform(p)).
func (iso Isometry) Append(other Isometry) Isometry {
	rot := mat.NewDense(3, 3, nil)
	rot.Mul(other.rot, iso.rot)
	rotInv := mat.NewDense(3, 3, nil)
	rotInv.CloneFrom(rot.T())

	translation := r3.Add(mulVec(other.rot, iso.translation), other.translation)

	return Isometry{
		translation: translation,
		rot:         rot,
		rotInv:      rotInv,
	}
}

// Inverse returns the Isometry that undoes this one.
func (iso Isometry) Inverse() Isometry {
	rotInv := mat.NewDense(3, 3, nil)
	rotInv.CloneFrom(iso.rotInv)
	rot := mat.NewDense(3, 3, nil)
	rot.CloneFrom(iso.rot)

	invTranslation := r3.Scale(-1, mulVec(iso.rotInv, iso.translation))

	return Isometry{
		translation: invTranslation,
		rot:         rotInv,
		rotInv:      rot,
	}
}

// NewLookAt builds an Isometry whose local +Z axis points from viewPoint
// toward target, with the local Y axis resolved against up. up must not be
// collinear with the view direction: this is a precondition, not a
// recoverable condition, per the spec's "implementation should treat this
// as a precondition, not silently recover" — a collinear up produces a
// zero-length cross product and NewLookAt returns operror.ErrInvalidArgument
// rather than guessing a basis.
func NewLookAt(viewPoint, target, up r3.Vec) (Isometry, error) {
	fwd := r3.Sub(target, viewPoint)
	if r3.Norm(fwd) == 0 {
		return Isometry{}, operror.InvalidArgument("view direction", "zero length")
	}
	fwd = r3.Unit(fwd)

	right := r3.Cross(up, fwd)
	if r3.Norm(right) == 0 {
		return Isometry{}, operror.InvalidArgument("up", "collinear with view direction")
	}
	right = r3.Unit(right)
	trueUp := r3.Cross(fwd, right)

	rot := mat.NewDense(3, 3, []float64{
		right.X, trueUp.X, fwd.X,
		right.Y, trueUp.Y, fwd.Y,
		right.Z, trueUp.Z, fwd.Z,
	})
	rotInv := mat.NewDense(3, 3, nil)
	rotInv.CloneFrom(rot.T())

	return Isometry{translation: viewPoint, rot: rot, rotInv: rotInv}, nil
}

func (iso Isometry) String() string {
	return fmt.Sprintf("Isometry{t=%v, euler=%v}", iso.translation, iso.rotation)
}

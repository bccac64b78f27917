package surface

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/opossum-optics/opossum/operror"
)

// Coating models reflectivity at a surface interface. The variant set is
// closed (IdealAR, ConstantR, Fresnel); each is queried with the incident
// direction, local outward normal, and the indices on either side, since
// the spec leaves it per-coating-kind whether reflectivity depends on n1.
type Coating interface {
	// Reflectivity returns R in [0,1] for a ray traveling along dirUnit
	// hitting a surface with outward unit normal normal, going from medium
	// n1 into medium n2.
	Reflectivity(dirUnit, normal r3.Vec, n1, n2 float64) float64
}

// IdealAR is a perfect anti-reflection coating: R=0 always.
type IdealAR struct{}

func (IdealAR) Reflectivity(r3.Vec, r3.Vec, float64, float64) float64 { return 0 }

// ConstantR reflects a fixed fraction of energy regardless of angle or index.
type ConstantR struct {
	r float64
}

// NewConstantR builds a constant-reflectivity coating. r must be in [0,1].
func NewConstantR(r float64) (Coating, error) {
	if r < 0 || r > 1 {
		return nil, operror.InvalidArgument("reflectivity", r)
	}
	return ConstantR{r: r}, nil
}

func (c ConstantR) Reflectivity(r3.Vec, r3.Vec, float64, float64) float64 { return c.r }

// Fresnel computes the unpolarized Fresnel reflectivity for an uncoated
// dielectric interface, averaging the s- and p-polarization components.
type Fresnel struct{}

// NewFresnel returns a Fresnel coating.
func NewFresnel() Coating { return Fresnel{} }

func (Fresnel) Reflectivity(dirUnit, normal r3.Vec, n1, n2 float64) float64 {
	cosI := math.Abs(r3.Dot(dirUnit, normal))
	sinI2 := 1 - cosI*cosI
	sinT2 := (n1 / n2) * (n1 / n2) * sinI2
	if sinT2 >= 1 {
		return 1 // total internal reflection: all energy stays reflected
	}
	cosT := math.Sqrt(1 - sinT2)

	rs := (n1*cosI - n2*cosT) / (n1*cosI + n2*cosT)
	rp := (n1*cosT - n2*cosI) / (n1*cosT + n2*cosI)

	return (rs*rs + rp*rp) / 2
}

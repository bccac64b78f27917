// Package distribution implements the external-interface samplers that
// seed a Source node's light payload: PositionDistribution,
// EnergyDistribution, and SpectralDistribution (§6), plus the
// RayDataBuilder/EnergyDataBuilder that combine them into a Rays bundle or
// a Spectrum.
package distribution

import (
	"math"
	"math/rand"

	"github.com/opossum-optics/opossum/aperture"
	"github.com/opossum-optics/opossum/operror"
	"github.com/opossum-optics/opossum/units"
)

// defaultSeed is the fixed "zero" seed used when a caller passes seed==0,
// keeping deterministic sampling reproducible by default.
const defaultSeed int64 = 1

// rngFromSeed returns a deterministic *rand.Rand: seed==0 maps to
// defaultSeed, otherwise seed is used verbatim.
func rngFromSeed(seed int64) *rand.Rand {
	s := seed
	if s == 0 {
		s = defaultSeed
	}
	return rand.New(rand.NewSource(s))
}

// PositionDistribution samples count transverse positions for a Source's
// emitted rays.
type PositionDistribution interface {
	Sample(count int) ([]aperture.Point2, error)
}

// SinglePoint emits count copies of a single fixed position (the default
// "point source" distribution).
type SinglePoint struct {
	at aperture.Point2
}

// NewSinglePoint builds a SinglePoint distribution at at.
func NewSinglePoint(at aperture.Point2) SinglePoint { return SinglePoint{at: at} }

func (d SinglePoint) Sample(count int) ([]aperture.Point2, error) {
	if count < 0 {
		return nil, operror.InvalidArgument("position sample count", count)
	}
	out := make([]aperture.Point2, count)
	for i := range out {
		out[i] = d.at
	}
	return out, nil
}

// HexapolarDisk samples positions on a hexapolar grid within radius: ring 0
// is the single center point, ring k (k=1..rings) places 6k points evenly
// spaced around a circle of radius k/rings*radius. This is the standard
// ray-fan sampling pattern for a circular pupil, chosen over a square grid
// because it has no wasted samples outside the aperture. count is
// interpreted as the number of rings; the actual number of positions
// returned is 1 + 3*count*(count+1).
type HexapolarDisk struct {
	radius units.Length
}

// NewHexapolarDisk builds a HexapolarDisk distribution; radius must be
// finite and positive.
func NewHexapolarDisk(radius units.Length) (HexapolarDisk, error) {
	if !units.FiniteLength(radius) || radius <= 0 {
		return HexapolarDisk{}, operror.InvalidArgument("hexapolar disk radius", radius)
	}
	return HexapolarDisk{radius: radius}, nil
}

func (d HexapolarDisk) Sample(rings int) ([]aperture.Point2, error) {
	if rings < 0 {
		return nil, operror.InvalidArgument("hexapolar ring count", rings)
	}
	out := []aperture.Point2{{X: 0, Y: 0}}
	for ring := 1; ring <= rings; ring++ {
		r := units.Length(float64(ring) / float64(rings) * float64(d.radius))
		n := 6 * ring
		for i := 0; i < n; i++ {
			theta := 2 * math.Pi * float64(i) / float64(n)
			out = append(out, aperture.Point2{
				X: units.Length(float64(r) * math.Cos(theta)),
				Y: units.Length(float64(r) * math.Sin(theta)),
			})
		}
	}
	return out, nil
}

// RandomUniformDisk samples count positions uniform over a disk of given
// radius, using rejection-free polar sampling (r = radius*sqrt(u) keeps the
// area density uniform; a plain uniform r would bias samples toward the
// center). Seed 0 selects the package's deterministic default stream.
type RandomUniformDisk struct {
	radius units.Length
	seed   int64
}

// NewRandomUniformDisk builds a RandomUniformDisk distribution; radius must
// be finite and positive.
func NewRandomUniformDisk(radius units.Length, seed int64) (RandomUniformDisk, error) {
	if !units.FiniteLength(radius) || radius <= 0 {
		return RandomUniformDisk{}, operror.InvalidArgument("random disk radius", radius)
	}
	return RandomUniformDisk{radius: radius, seed: seed}, nil
}

func (d RandomUniformDisk) Sample(count int) ([]aperture.Point2, error) {
	if count < 0 {
		return nil, operror.InvalidArgument("position sample count", count)
	}
	rng := rngFromSeed(d.seed)
	out := make([]aperture.Point2, count)
	for i := range out {
		r := float64(d.radius) * math.Sqrt(rng.Float64())
		theta := 2 * math.Pi * rng.Float64()
		out[i] = aperture.Point2{
			X: units.Length(r * math.Cos(theta)),
			Y: units.Length(r * math.Sin(theta)),
		}
	}
	return out, nil
}

// Grid2D samples a regular nx*ny grid of positions spanning width*height
// centered at the origin. count is ignored in favor of nx*ny, the
// distribution's own fixed shape; callers that need an exact sample count
// should use RandomUniformDisk instead.
type Grid2D struct {
	nx, ny        int
	width, height units.Length
}

// NewGrid2D builds a Grid2D distribution; nx, ny must be >= 1 and
// width/height finite and positive.
func NewGrid2D(nx, ny int, width, height units.Length) (Grid2D, error) {
	if nx < 1 || ny < 1 {
		return Grid2D{}, operror.InvalidArgument("grid dimensions", [2]int{nx, ny})
	}
	if !units.FiniteLength(width) || width <= 0 || !units.FiniteLength(height) || height <= 0 {
		return Grid2D{}, operror.InvalidArgument("grid extent", [2]units.Length{width, height})
	}
	return Grid2D{nx: nx, ny: ny, width: width, height: height}, nil
}

func (d Grid2D) Sample(int) ([]aperture.Point2, error) {
	out := make([]aperture.Point2, 0, d.nx*d.ny)
	for iy := 0; iy < d.ny; iy++ {
		y := units.Length(gridCoord(iy, d.ny) * float64(d.height))
		for ix := 0; ix < d.nx; ix++ {
			x := units.Length(gridCoord(ix, d.nx) * float64(d.width))
			out = append(out, aperture.Point2{X: x, Y: y})
		}
	}
	return out, nil
}

// gridCoord maps index i of n evenly spaced samples to a fraction in
// [-0.5, 0.5], collapsing to 0 for a single-row/column grid (n==1) to
// avoid dividing by zero.
func gridCoord(i, n int) float64 {
	if n == 1 {
		return 0
	}
	return float64(i)/float64(n-1) - 0.5
}

package ray

import (
	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/opossum-optics/opossum/aperture"
	"github.com/opossum-optics/opossum/isometry"
	"github.com/opossum-optics/opossum/operror"
	"github.com/opossum-optics/opossum/surface"
	"github.com/opossum-optics/opossum/units"
)

// Rays is a bundle of independently traced rays flowing together through one
// analysis pass. Insertion order is preserved through every operation
// (merge is concatenation, apodize is element-wise); callers that need
// stable ordering for reporting can rely on it directly.
//
// Each bundle carries a stable identity UUID plus a node-origin UUID tagging
// which source node produced it. The node origin is the zero UUID until
// SetNodeOrigin is called; bundles built by NewRays or split off by
// RefractOnSurface start untagged, and package ograph only copies an
// existing node origin onto the bundle it carries across an edge.
type Rays struct {
	id         uuid.UUID
	nodeOrigin uuid.UUID
	rays       []*Ray
}

// NewRays builds a bundle from the given rays (no copying), with a freshly
// generated bundle identity.
func NewRays(rays ...*Ray) *Rays {
	return &Rays{id: uuid.New(), rays: rays}
}

// ID returns the bundle's stable identity UUID.
func (rb *Rays) ID() uuid.UUID { return rb.id }

// NodeOrigin returns the UUID of the node that produced this bundle.
func (rb *Rays) NodeOrigin() uuid.UUID { return rb.nodeOrigin }

// SetNodeOrigin tags the bundle with the UUID of the node that produced it.
func (rb *Rays) SetNodeOrigin(id uuid.UUID) { rb.nodeOrigin = id }

// Add appends r to the bundle.
func (rb *Rays) Add(r *Ray) {
	rb.rays = append(rb.rays, r)
}

// Rays returns the underlying slice. Callers must not retain it across a
// mutating call (Add, Merge, pruning).
func (rb *Rays) Rays() []*Ray { return rb.rays }

// Len returns the number of rays currently in the bundle, valid or not.
func (rb *Rays) Len() int { return len(rb.rays) }

// Merge concatenates bundles into a single new bundle. A nil bundle in the
// list is skipped, matching the nil-identity convention used elsewhere
// (e.g. spectrum.MergeSpectra).
func Merge(bundles ...*Rays) *Rays {
	out := NewRays()
	for _, b := range bundles {
		if b == nil {
			continue
		}
		out.rays = append(out.rays, b.rays...)
	}
	return out
}

// Apodize multiplies each ray's energy by the aperture's apodization factor,
// evaluated at the ray's current position projected into the aperture
// plane's local (x,y) via iso (the aperture's world isometry). Returns true
// if any ray's energy fell to exactly zero, so the caller can raise an
// "apodization occurred" warning on the owning node.
func (rb *Rays) Apodize(ap aperture.Aperture, iso isometry.Isometry) bool {
	zeroed := false
	for _, r := range rb.rays {
		if !r.Valid {
			continue
		}
		local := iso.InverseTransformPoint(r.Pos)
		factor := ap.ApodizationFactor(aperture.Point2{X: units.Length(local.X), Y: units.Length(local.Y)})
		r.Energy = units.Energy(float64(r.Energy) * factor)
		if r.Energy == 0 {
			zeroed = true
		}
	}
	return zeroed
}

// InvalidateByThreshold permanently invalidates every ray whose energy is
// below threshold. Already-invalid rays are left as they are.
func (rb *Rays) InvalidateByThreshold(threshold units.Energy) {
	for _, r := range rb.rays {
		if r.Valid && r.Energy < threshold {
			r.Invalidate()
		}
	}
}

// PruneInvalid drops invalidated rays from the bundle in place.
func (rb *Rays) PruneInvalid() {
	kept := rb.rays[:0]
	for _, r := range rb.rays {
		if r.Valid {
			kept = append(kept, r)
		}
	}
	rb.rays = kept
}

// ApplyFilter applies f to every valid ray in the bundle.
func (rb *Rays) ApplyFilter(f Filter) error {
	for _, r := range rb.rays {
		if !r.Valid {
			continue
		}
		if err := r.ApplyFilter(f); err != nil {
			return err
		}
	}
	return nil
}

// RefractOnSurface refracts every valid ray in the bundle against surf,
// mutating each ray in place as the transmitted/continuing ray and
// collecting every reflected descendant into a new bundle. A ray that
// misses the surface entirely is left untouched and contributes nothing to
// the reflected bundle.
func (rb *Rays) RefractOnSurface(surf *surface.OpticSurface[*Rays], iso isometry.Isometry, n2 float64) (*Rays, error) {
	reflected := NewRays()
	for _, r := range rb.rays {
		if !r.Valid {
			continue
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

// Split divides every valid ray's energy by cfg, mutating each ray in place
// as the transmitted share and collecting the reflected shares into a new
// bundle.
func (rb *Rays) Split(cfg SplittingConfig) (*Rays, error) {
	reflected := NewRays()
	for _, r := range rb.rays {
		if !r.Valid {
			continue
		}
		refl, err := r.Split(cfg)
		if err != nil {
			return nil, err
		}
		reflected.Add(refl)
	}
	return reflected, nil
}

// TotalEnergy sums the energy of every valid ray, using Kahan compensated
// summation for the same reason spectrum.trapezoid does: bundles can carry
// thousands of rays of widely varying energy.
func (rb *Rays) TotalEnergy() units.Energy {
	var sum, c float64
	for _, r := range rb.rays {
		if !r.Valid {
			continue
		}
		y := float64(r.Energy) - c
		t := sum + y
		c = (t - sum) - y
		sum = t
	}
	return units.Energy(sum)
}

// GetRaysPositionHistory returns, for every valid ray, its full recorded
// position history plus its current position appended at the end, grouped
// by the ray's wavelength. The grouping key is an exact float equality
// check on Wavelength, matching the per-λ-bin contract: two rays must carry
// the bit-identical wavelength value to land in the same group.
func (rb *Rays) GetRaysPositionHistory() map[units.Length][][]r3.Vec {
	out := make(map[units.Length][][]r3.Vec)
	for _, r := range rb.rays {
		if !r.Valid {
			continue
		}
		path := append(append([]r3.Vec(nil), r.PosHistory...), r.Pos)
		out[r.Wavelength] = append(out[r.Wavelength], path)
	}
	return out
}

// Package sdfx implements the kernel.Kernel and kernel.Exporter
// interfaces using the github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/chazu/opk/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface checks.
var (
	_ kernel.Kernel   = (*SdfxKernel)(nil)
	_ kernel.Exporter = (*SdfxKernel)(nil)
)

// Marching cubes tessellation resolution bounds. Export tolerance picks a
// cell count inside these; SDF evaluation cost grows cubically with cells.
const (
	defaultMeshCells = 200
	minMeshCells     = 64
	maxMeshCells     = 400
)

// sdfxProfile wraps an sdf.SDF2 to implement kernel.Profile.
type sdfxProfile struct {
	s sdf.SDF2
}

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct{}

// New returns a new SdfxKernel.
func New() *SdfxKernel {
	return &SdfxKernel{}
}

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

// unwrap2 extracts the underlying sdf.SDF2 from a kernel.Profile.
func unwrap2(p kernel.Profile) sdf.SDF2 {
	return p.(*sdfxProfile).s
}

// RoundedRect creates a w×h rectangle profile with rounded corners.
func (k *SdfxKernel) RoundedRect(w, h, round float64) (kernel.Profile, error) {
	s := sdf.Box2D(v2.Vec{X: w, Y: h}, round)
	return &sdfxProfile{s: s}, nil
}

// Circle creates a circular profile.
func (k *SdfxKernel) Circle(radius float64) (kernel.Profile, error) {
	s, err := sdf.Circle2D(radius)
	if err != nil {
		return nil, fmt.Errorf("%w: circle r=%g: %v", kernel.ErrBadProfile, radius, err)
	}
	return &sdfxProfile{s: s}, nil
}

// Polygon creates a closed polygon profile from the given vertices.
func (k *SdfxKernel) Polygon(pts [][2]float64) (kernel.Profile, error) {
	if len(pts) < 3 {
		return nil, fmt.Errorf("%w: polygon needs at least 3 vertices, got %d", kernel.ErrBadProfile, len(pts))
	}
	verts := make([]v2.Vec, len(pts))
	for i, p := range pts {
		verts[i] = v2.Vec{X: p[0], Y: p[1]}
	}
	s, err := sdf.Polygon2D(verts)
	if err != nil {
		return nil, fmt.Errorf("%w: polygon: %v", kernel.ErrBadProfile, err)
	}
	return &sdfxProfile{s: s}, nil
}

// UnionProfile returns the union of multiple profiles.
func (k *SdfxKernel) UnionProfile(ps ...kernel.Profile) kernel.Profile {
	ss := make([]sdf.SDF2, len(ps))
	for i, p := range ps {
		ss[i] = unwrap2(p)
	}
	return &sdfxProfile{s: sdf.Union2D(ss...)}
}

// zeroBase shifts a solid so its bounding box starts at z=0. Extrusions
// and lofts are normalized this way so the kernel interface has a single
// placement convention regardless of sdfx internals.
func zeroBase(s sdf.SDF3) sdf.SDF3 {
	bb := s.BoundingBox()
	if bb.Min.Z == 0 {
		return s
	}
	return sdf.Transform3D(s, sdf.Translate3d(v3.Vec{Z: -bb.Min.Z}))
}

// Extrude extrudes a profile along +Z. The profile sits at z=0.
func (k *SdfxKernel) Extrude(p kernel.Profile, height float64) (kernel.Solid, error) {
	if height <= 0 {
		return nil, fmt.Errorf("extrude: height must be positive, got %g", height)
	}
	s := sdf.Extrude3D(unwrap2(p), height)
	return wrap(zeroBase(s)), nil
}

// Loft interpolates between two profiles along +Z. The lower profile
// sits at z=0 and the upper at z=height.
func (k *SdfxKernel) Loft(lower, upper kernel.Profile, height, round float64) (kernel.Solid, error) {
	s, err := sdf.Loft3D(unwrap2(lower), unwrap2(upper), height, round)
	if err != nil {
		return nil, fmt.Errorf("loft: %w", err)
	}
	return wrap(zeroBase(s)), nil
}

// Union returns the union of two solids.
func (k *SdfxKernel) Union(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Union3D(unwrap(a), unwrap(b)))
}

// Difference returns the difference a - b.
func (k *SdfxKernel) Difference(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Difference3D(unwrap(a), unwrap(b)))
}

// Intersection returns the intersection of two solids.
func (k *SdfxKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Intersect3D(unwrap(a), unwrap(b)))
}

// CutSmooth subtracts b from a and fillets the cut edges using a
// polynomial smoothing max. The radius is checked against the overlap
// of the two solids: a radius that exceeds half the smallest overlap
// extent cannot form a tangent fillet and is rejected with
// kernel.ErrFilletInfeasible so the caller can retry smaller.
func (k *SdfxKernel) CutSmooth(a, b kernel.Solid, fillet float64) (kernel.Solid, error) {
	if fillet <= 0 {
		return nil, fmt.Errorf("%w: radius %g", kernel.ErrFilletInfeasible, fillet)
	}

	aMin, aMax := a.BoundingBox()
	bMin, bMax := b.BoundingBox()
	overlap := math.Inf(1)
	for i := 0; i < 3; i++ {
		ext := math.Min(aMax[i], bMax[i]) - math.Max(aMin[i], bMin[i])
		if ext < overlap {
			overlap = ext
		}
	}
	if overlap <= 0 {
		// The cutter misses the solid entirely: no new edges to fillet.
		return k.Difference(a, b), nil
	}
	if fillet > overlap/2 {
		return nil, fmt.Errorf("%w: radius %g exceeds overlap %g", kernel.ErrFilletInfeasible, fillet, overlap)
	}

	d := sdf.Difference3D(unwrap(a), unwrap(b))
	ds, ok := d.(*sdf.DifferenceSDF3)
	if !ok {
		return nil, fmt.Errorf("%w: backend difference does not support smoothing", kernel.ErrFilletInfeasible)
	}
	ds.SetMax(sdf.PolyMax(fillet))
	return wrap(d), nil
}

// Translate moves a solid by (x, y, z).
func (k *SdfxKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Rotate rotates a solid by Euler angles (degrees) around X, Y, Z axes.
func (k *SdfxKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	xRad := x * math.Pi / 180.0
	yRad := y * math.Pi / 180.0
	zRad := z * math.Pi / 180.0

	m := sdf.RotateZ(zRad).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// CutPlane removes the half-space on the positive side of the plane
// through origin with the given outward normal. sdf.Cut3D keeps the side
// its normal points toward, so the normal is negated here.
func (k *SdfxKernel) CutPlane(s kernel.Solid, origin, normal [3]float64) kernel.Solid {
	a := v3.Vec{X: origin[0], Y: origin[1], Z: origin[2]}
	n := v3.Vec{X: -normal[0], Y: -normal[1], Z: -normal[2]}
	return wrap(sdf.Cut3D(unwrap(s), a, n))
}

// meshCells derives a marching cubes resolution from the export options.
// A smaller linear tolerance means more cells, clamped to sane bounds.
func meshCells(s kernel.Solid, opts kernel.ExportOptions) int {
	if opts.Tolerance <= 0 {
		return defaultMeshCells
	}
	min, max := s.BoundingBox()
	maxDim := 0.0
	for i := 0; i < 3; i++ {
		if d := max[i] - min[i]; d > maxDim {
			maxDim = d
		}
	}
	cells := int(math.Ceil(maxDim / opts.Tolerance))
	if cells < minMeshCells {
		cells = minMeshCells
	}
	if cells > maxMeshCells {
		cells = maxMeshCells
	}
	return cells
}

// ToMesh converts a solid to a triangle mesh using marching cubes.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	sdf3 := unwrap(s)

	renderer := render.NewMarchingCubesUniform(defaultMeshCells)
	triangles := render.ToTriangles(sdf3, renderer)

	numTri := len(triangles)
	numVerts := numTri * 3

	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		// Compute face normal.
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}, nil
}

// ExportSTL writes a solid to path as a triangle-mesh STL.
func (k *SdfxKernel) ExportSTL(s kernel.Solid, path string, opts kernel.ExportOptions) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("export stl: %w", err)
	}
	render.ToSTL(unwrap(s), path, render.NewMarchingCubesUniform(meshCells(s, opts)))
	return nil
}

// Export3MF writes a solid to path as a 3MF file. This is the exact-model
// interchange format for this backend; SDF solids have no boundary
// representation, so STEP output is not available.
func (k *SdfxKernel) Export3MF(s kernel.Solid, path string, opts kernel.ExportOptions) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("export 3mf: %w", err)
	}
	render.To3MF(unwrap(s), path, render.NewMarchingCubesUniform(meshCells(s, opts)))
	return nil
}

// Package kernel defines the abstract solid-modeling kernel interface.
// Implementations (sdfx, manifold) provide sketch construction, lofting,
// boolean operations and mesh export behind this interface. The kernel
// abstraction allows swapping backends without changing the keycap
// construction recipes.
package kernel

import "errors"

// Sentinel errors shared by all backends.
var (
	// ErrFilletInfeasible is returned by CutSmooth when the requested edge
	// fillet radius cannot be realized on the given solids. Callers may
	// retry with a smaller radius.
	ErrFilletInfeasible = errors.New("fillet radius infeasible")

	// ErrBadProfile is returned when a 2D profile cannot be constructed
	// from the given parameters.
	ErrBadProfile = errors.New("invalid profile parameters")
)

// Profile is an opaque handle to a kernel 2D cross-section (a sketch).
// Profiles live in the XY plane and are consumed by Extrude and Loft.
type Profile interface{}

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract solid-modeling kernel interface.
//
// Solids produced by Extrude and Loft sit on the XY plane: the profile
// is at z=0 and the solid extends to z=height. Rotations are Euler
// angles in degrees applied in Z·Y·X order.
type Kernel interface {
	// Profiles
	RoundedRect(w, h, round float64) (Profile, error)
	Circle(radius float64) (Profile, error)
	Polygon(pts [][2]float64) (Profile, error)
	UnionProfile(ps ...Profile) Profile

	// Solid construction
	Extrude(p Profile, height float64) (Solid, error)
	Loft(lower, upper Profile, height, round float64) (Solid, error)

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// CutSmooth subtracts b from a and fillets the edges created by the
	// cut at the given radius. Returns ErrFilletInfeasible when the
	// radius cannot be realized on these solids.
	CutSmooth(a, b Solid, fillet float64) (Solid, error)

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees
	// CutPlane removes everything on the positive side of the plane
	// through origin with the given outward normal.
	CutPlane(s Solid, origin, normal [3]float64) Solid

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}

// ExportOptions control mesh fidelity when serializing a solid.
// Tolerance is the maximum linear deviation in model units (mm);
// AngularTolerance is the maximum angular deviation in radians.
type ExportOptions struct {
	Tolerance        float64
	AngularTolerance float64
}

// Exporter serializes solids to files. Backends that can produce exact
// boundary representations may add formats; every backend provides at
// least a triangle-mesh STL and a 3MF.
type Exporter interface {
	ExportSTL(s Solid, path string, opts ExportOptions) error
	Export3MF(s Solid, path string, opts ExportOptions) error
}

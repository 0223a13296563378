package keycap

import (
	"testing"

	"github.com/chazu/opk/pkg/kernel/sdfx"
)

// These tests run the full build pipeline against the real sdfx
// backend. Bounding-box bounds are deliberately loose; exact surface
// checks belong to the kernel tests.

func TestBuildRowThreeOneUnit(t *testing.T) {
	k := sdfx.New()

	spec := DefaultSpec()
	spec.Angle = -6
	spec.Height = 8.75
	spec.Depth = 2.8
	spec.StemType = StemAlps

	res, err := Build(k, spec)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if res.Solid == nil {
		t.Fatal("Build returned nil solid")
	}
	// A 1u key gets exactly the center stem.
	if len(res.StemPoints) != 1 || res.StemPoints[0] != (StemPoint{0, 0}) {
		t.Errorf("stem points = %v, want only the center", res.StemPoints)
	}
	if res.SurfaceFillet > spec.SurfaceFillet {
		t.Errorf("effective fillet %g exceeds requested %g", res.SurfaceFillet, spec.SurfaceFillet)
	}

	min, max := res.Solid.BoundingBox()
	xExtent := max[0] - min[0]
	yExtent := max[1] - min[1]
	if xExtent < 15 || xExtent > 25 || yExtent < 15 || yExtent > 25 {
		t.Errorf("footprint = %f x %f, want roughly 18.2 x 18.2", xExtent, yExtent)
	}
	if max[2] < 8 || max[2] > 12 {
		t.Errorf("top of cap at z=%f, want roughly the 8.75 height", max[2])
	}
}

func TestBuildRowFiveConvexBar(t *testing.T) {
	k := sdfx.New()

	spec := DefaultSpec()
	spec.UnitX = 3
	spec.Angle = 0
	spec.Height = 10.5
	spec.Convex = true
	spec.StemType = StemAlps

	res, err := Build(k, spec)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	// Width 3 > 2.75: full-width stabilizers flank the center stem.
	if len(res.StemPoints) != 3 {
		t.Fatalf("stem points = %v, want center plus two stabilizers", res.StemPoints)
	}

	min, max := res.Solid.BoundingBox()
	xExtent := max[0] - min[0]
	if xExtent < 50 || xExtent > 62 {
		t.Errorf("bar width = %f, want roughly 56.3", xExtent)
	}
}

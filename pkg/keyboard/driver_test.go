package keyboard

import (
	"context"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/opk/pkg/kernel"
	"github.com/chazu/opk/pkg/keycap"
	"github.com/chazu/opk/pkg/logger"
)

// fakeSolid is a placeholder Solid for driver tests.
type fakeSolid struct{}

func (fakeSolid) BoundingBox() (min, max [3]float64) { return }

type fakeProfile struct{}

// fakeKernel satisfies kernel.Kernel with no real geometry; it records
// the rect profiles built so tests can tell stem types apart.
type fakeKernel struct {
	rects [][2]float64
}

func (f *fakeKernel) RoundedRect(w, h, _ float64) (kernel.Profile, error) {
	f.rects = append(f.rects, [2]float64{w, h})
	return fakeProfile{}, nil
}

func (f *fakeKernel) Circle(_ float64) (kernel.Profile, error) { return fakeProfile{}, nil }

func (f *fakeKernel) Polygon(pts [][2]float64) (kernel.Profile, error) {
	if len(pts) < 3 {
		return nil, kernel.ErrBadProfile
	}
	return fakeProfile{}, nil
}

func (f *fakeKernel) UnionProfile(ps ...kernel.Profile) kernel.Profile { return ps[0] }

func (f *fakeKernel) Extrude(_ kernel.Profile, _ float64) (kernel.Solid, error) {
	return fakeSolid{}, nil
}

func (f *fakeKernel) Loft(_, _ kernel.Profile, _, _ float64) (kernel.Solid, error) {
	return fakeSolid{}, nil
}

func (f *fakeKernel) Union(a, _ kernel.Solid) kernel.Solid        { return a }
func (f *fakeKernel) Difference(a, _ kernel.Solid) kernel.Solid   { return a }
func (f *fakeKernel) Intersection(a, _ kernel.Solid) kernel.Solid { return a }

func (f *fakeKernel) CutSmooth(a, _ kernel.Solid, fillet float64) (kernel.Solid, error) {
	if fillet <= 0 {
		return nil, kernel.ErrFilletInfeasible
	}
	return a, nil
}

func (f *fakeKernel) Translate(s kernel.Solid, _, _, _ float64) kernel.Solid { return s }
func (f *fakeKernel) Rotate(s kernel.Solid, _, _, _ float64) kernel.Solid    { return s }
func (f *fakeKernel) CutPlane(s kernel.Solid, _, _ [3]float64) kernel.Solid  { return s }
func (f *fakeKernel) ToMesh(_ kernel.Solid) (*kernel.Mesh, error)            { return &kernel.Mesh{}, nil }

func (f *fakeKernel) hasRect(w, h float64) bool {
	for _, r := range f.rects {
		if r[0] == w && r[1] == h {
			return true
		}
	}
	return false
}

var _ kernel.Kernel = (*fakeKernel)(nil)

// fakeExporter records requested export paths.
type fakeExporter struct {
	stls []string
	mfs  []string
}

func (e *fakeExporter) ExportSTL(_ kernel.Solid, path string, _ kernel.ExportOptions) error {
	e.stls = append(e.stls, path)
	return nil
}

func (e *fakeExporter) Export3MF(_ kernel.Solid, path string, _ kernel.ExportOptions) error {
	e.mfs = append(e.mfs, path)
	return nil
}

var _ kernel.Exporter = (*fakeExporter)(nil)

func newTestDriver() (*Driver, *fakeKernel, *fakeExporter) {
	k := &fakeKernel{}
	e := &fakeExporter{}
	return NewDriver(k, e, logger.Nop()), k, e
}

func TestKeyName(t *testing.T) {
	tests := []struct {
		name      string
		row       int
		key       Key
		wantName  string
		wantDepth float64
	}{
		{"plain 1u", 2, Key{UnitX: 1}, "row2_U1", 2.8},
		{"fractional unit", 2, Key{UnitX: 1.25}, "row2_U1.25", 2.8},
		{"convex", 4, Key{UnitX: 2, Convex: true}, "row4_U2_convex", 2.8},
		{"homing", 3, Key{UnitX: 1, Depth: 3.2}, "row3_U1_homing", 3.2},
		{"shallow override is not homing", 3, Key{UnitX: 1, Depth: 2}, "row3_U1", 2},
		{"convex homing", 0, Key{UnitX: 2.75, Convex: true, Depth: 3.5}, "row0_U2.75_convex_homing", 3.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, depth := keyName(tt.row, tt.key)
			if name != tt.wantName {
				t.Errorf("name = %q, want %q", name, tt.wantName)
			}
			if depth != tt.wantDepth {
				t.Errorf("depth = %g, want %g", depth, tt.wantDepth)
			}
		})
	}
}

func TestRunPlacesKeysByCumulativeWidth(t *testing.T) {
	d, _, _ := newTestDriver()
	layout := Layout{
		{Angle: 2, Height: 9, Keys: []Key{{UnitX: 1}, {UnitX: 1.25}, {UnitX: 1.5}}},
		{Angle: 0, Height: 9, Keys: []Key{{UnitX: 1}}},
	}

	assy, err := d.Run(context.Background(), layout, Options{Base: keycap.DefaultSpec()})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if assy.Len() != 4 {
		t.Fatalf("assembly has %d parts, want 4", assy.Len())
	}

	want := []Placement{
		{Name: "row0_U1", X: 9.525, Y: 0},
		{Name: "row0_U1.25", X: 30.95625, Y: 0},
		{Name: "row0_U1.5", X: 57.15, Y: 0},
		{Name: "row1_U1", X: 9.525, Y: -19.05},
	}
	got := assy.Placements()
	for i := range want {
		if got[i].Name != want[i].Name {
			t.Errorf("placement %d name = %q, want %q", i, got[i].Name, want[i].Name)
		}
		if math.Abs(got[i].X-want[i].X) > 1e-9 || math.Abs(got[i].Y-want[i].Y) > 1e-9 {
			t.Errorf("placement %d at (%f, %f), want (%f, %f)",
				i, got[i].X, got[i].Y, want[i].X, want[i].Y)
		}
	}
}

func TestRunExportPaths(t *testing.T) {
	d, _, e := newTestDriver()
	layout := Layout{
		{Angle: 0, Height: 9, Keys: []Key{{UnitX: 1}, {UnitX: 2, Convex: true}}},
	}
	opts := Options{
		Base:           keycap.DefaultSpec(),
		ExportKeys:     true,
		ExportAssembly: true,
		ExportDir:      "out",
	}

	if _, err := d.Run(context.Background(), layout, opts); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	wantSTLs := []string{
		filepath.Join("out", "STL", "row0_U1.stl"),
		filepath.Join("out", "STL", "row0_U2_convex.stl"),
		filepath.Join("out", assemblySTLName),
	}
	if len(e.stls) != len(wantSTLs) {
		t.Fatalf("exported %d STLs, want %d: %v", len(e.stls), len(wantSTLs), e.stls)
	}
	for i, p := range wantSTLs {
		if e.stls[i] != p {
			t.Errorf("STL %d = %q, want %q", i, e.stls[i], p)
		}
	}
	if len(e.mfs) != 1 || e.mfs[0] != filepath.Join("out", assembly3MFName) {
		t.Errorf("3MF exports = %v, want the assembly file", e.mfs)
	}
}

func TestRunWithoutExports(t *testing.T) {
	d, _, e := newTestDriver()
	layout := Layout{{Angle: 0, Height: 9, Keys: []Key{{UnitX: 1}}}}

	if _, err := d.Run(context.Background(), layout, Options{Base: keycap.DefaultSpec()}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(e.stls) != 0 || len(e.mfs) != 0 {
		t.Errorf("exports happened with both flags off: stls=%v mfs=%v", e.stls, e.mfs)
	}
}

func TestRunStemTypeOverride(t *testing.T) {
	d, k, _ := newTestDriver()
	layout := Layout{{Angle: 0, Height: 9, Keys: []Key{{UnitX: 1}}}}
	opts := Options{Base: keycap.DefaultSpec(), StemType: keycap.StemAlps}

	if _, err := d.Run(context.Background(), layout, opts); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	// The alps post footprint only shows up when the override applied.
	if !k.hasRect(4.35, 2.1) {
		t.Error("stem type override did not reach the builder")
	}
}

func TestRunAbortsOnBuildError(t *testing.T) {
	d, _, e := newTestDriver()
	layout := Layout{{Angle: 0, Height: 9, Keys: []Key{{UnitX: 1}, {UnitX: 2}}}}

	base := keycap.DefaultSpec()
	base.StemType = "choc"
	opts := Options{Base: base, ExportKeys: true, ExportDir: "out"}

	_, err := d.Run(context.Background(), layout, opts)
	if err == nil {
		t.Fatal("Run should fail on the first bad build")
	}
	if !strings.Contains(err.Error(), "row0_U1") {
		t.Errorf("error %q does not name the failing key", err)
	}
	if len(e.stls) != 0 {
		t.Errorf("exports happened after a failed build: %v", e.stls)
	}
}

func TestRunRejectsInvalidLayout(t *testing.T) {
	d, _, _ := newTestDriver()
	layout := Layout{{Angle: 0, Height: 0, Keys: []Key{{UnitX: 1}}}}

	if _, err := d.Run(context.Background(), layout, Options{Base: keycap.DefaultSpec()}); err == nil {
		t.Fatal("Run should reject a zero-height row")
	}
}

func TestRunHonorsContextCancellation(t *testing.T) {
	d, _, _ := newTestDriver()
	layout := Layout{{Angle: 0, Height: 9, Keys: []Key{{UnitX: 1}}}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := d.Run(ctx, layout, Options{Base: keycap.DefaultSpec()}); err != context.Canceled {
		t.Errorf("Run error = %v, want context.Canceled", err)
	}
}

func TestAssemblyCombineAndMeshes(t *testing.T) {
	k := &fakeKernel{}
	assy := &Assembly{}

	if got := assy.Combine(k); got != nil {
		t.Error("Combine of an empty assembly should be nil")
	}

	assy.Add("a", fakeSolid{}, 0, 0)
	assy.Add("b", fakeSolid{}, 19.05, 0)

	if got := assy.Combine(k); got == nil {
		t.Error("Combine returned nil for a populated assembly")
	}

	meshes, err := assy.Meshes(k)
	if err != nil {
		t.Fatalf("Meshes failed: %v", err)
	}
	if len(meshes) != 2 {
		t.Fatalf("got %d meshes, want 2", len(meshes))
	}
	if meshes[0].PartName != "a" || meshes[1].PartName != "b" {
		t.Errorf("mesh part names = %q, %q, want a, b", meshes[0].PartName, meshes[1].PartName)
	}
}

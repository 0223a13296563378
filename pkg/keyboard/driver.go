package keyboard

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/chazu/opk/pkg/kernel"
	"github.com/chazu/opk/pkg/keycap"
	"github.com/chazu/opk/pkg/logger"
	"github.com/chazu/opk/pkg/profile"
)

// defaultScoopDepth is the scoop depth used when a key does not override
// it. Keys deeper than this are homing keys.
const defaultScoopDepth = 2.8

// Assembly export file names under the export directory.
const (
	assemblySTLName = "opk_keycaps_all.stl"
	assembly3MFName = "opk_keycaps_all.3mf"
)

// Options control one batch run.
type Options struct {
	// Base is the reference keycap spec. Per-key fields (unit, angle,
	// height, convex, depth, stem type) are overridden from the layout.
	Base keycap.Spec

	// StemType overrides Base.StemType when non-empty.
	StemType keycap.StemType

	ExportKeys     bool   // write one STL per keycap
	ExportAssembly bool   // write the merged assembly STL + 3MF
	ExportDir      string // root of the export tree

	Tolerance        float64 // linear export tolerance, mm
	AngularTolerance float64 // angular export tolerance, radians
}

// Driver generates every keycap in a layout, strictly sequentially, and
// accumulates them into a spatial assembly. Keys are placed left to
// right by cumulative unit widths; rows stack downward at the unit
// pitch. The first build failure aborts the run.
type Driver struct {
	kernel   kernel.Kernel
	exporter kernel.Exporter
	log      logger.Logger
}

// NewDriver creates a Driver on the given kernel and exporter.
func NewDriver(k kernel.Kernel, e kernel.Exporter, log logger.Logger) *Driver {
	return &Driver{kernel: k, exporter: e, log: log}
}

// keyName derives the export name and effective scoop depth for a key.
func keyName(row int, key Key) (string, float64) {
	name := "row" + strconv.Itoa(row) + "_U" + strconv.FormatFloat(key.UnitX, 'f', -1, 64)
	if key.Convex {
		name += "_convex"
	}
	depth := defaultScoopDepth
	if key.Depth > 0 {
		if key.Depth > defaultScoopDepth {
			name += "_homing"
		}
		depth = key.Depth
	}
	return name, depth
}

// Run builds all keycaps in the layout and returns the populated
// assembly. Export side effects are controlled by opts.
func (d *Driver) Run(ctx context.Context, layout Layout, opts Options) (*Assembly, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	expOpts := kernel.ExportOptions{
		Tolerance:        opts.Tolerance,
		AngularTolerance: opts.AngularTolerance,
	}

	assy := &Assembly{}
	y := 0.0
	for i, row := range layout {
		x := 0.0
		for _, key := range row.Keys {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			name, depth := keyName(i, key)
			spec := opts.Base
			spec.UnitX = key.UnitX
			spec.Angle = row.Angle
			spec.Height = row.Height
			spec.Convex = key.Convex
			spec.Depth = depth
			if opts.StemType != "" {
				spec.StemType = opts.StemType
			}

			d.log.Info(ctx, "generating keycap",
				logger.String("name", name),
				logger.Float64("unit_x", key.UnitX))

			res, err := keycap.Build(d.kernel, spec)
			if err != nil {
				return nil, fmt.Errorf("build %s: %w", name, err)
			}
			if res.SurfaceFillet < spec.SurfaceFillet {
				d.log.Warn(ctx, "surface fillet reduced",
					logger.String("name", name),
					logger.Float64("requested", spec.SurfaceFillet),
					logger.Float64("effective", res.SurfaceFillet))
			}

			if opts.ExportKeys {
				path := filepath.Join(opts.ExportDir, "STL", name+".stl")
				if err := d.exporter.ExportSTL(res.Solid, path, expOpts); err != nil {
					return nil, fmt.Errorf("export %s: %w", name, err)
				}
			}

			w := profile.Pitch * key.UnitX / 2
			x += w
			assy.Add(name, res.Solid, x, y)
			x += w
		}
		y -= profile.Pitch
	}

	if opts.ExportAssembly && assy.Len() > 0 {
		merged := assy.Combine(d.kernel)
		stlPath := filepath.Join(opts.ExportDir, assemblySTLName)
		if err := d.exporter.ExportSTL(merged, stlPath, expOpts); err != nil {
			return nil, fmt.Errorf("export assembly: %w", err)
		}
		mfPath := filepath.Join(opts.ExportDir, assembly3MFName)
		if err := d.exporter.Export3MF(merged, mfPath, expOpts); err != nil {
			return nil, fmt.Errorf("export assembly: %w", err)
		}
	}

	return assy, nil
}

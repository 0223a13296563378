// Package keyboard drives batch keycap generation: it holds the row
// layout model, places finished keycaps into a spatial assembly, and
// exports individual and combined mesh files.
package keyboard

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Key is one keycap slot in a row. Depth 0 means the driver default;
// a larger depth marks a homing key.
type Key struct {
	UnitX  float64
	Convex bool
	Depth  float64
}

// Row is one keyboard row: a shared tilt angle and height plus the
// ordered key sizes, left to right.
type Row struct {
	Angle  float64
	Height float64
	Keys   []Key
}

// Layout is an ordered list of rows, top row first.
type Layout []Row

// Validate rejects layouts with impossible key sizes or heights.
func (l Layout) Validate() error {
	for i, r := range l {
		if r.Height <= 0 {
			return fmt.Errorf("row %d: height must be positive, got %g", i, r.Height)
		}
		for j, k := range r.Keys {
			if k.UnitX <= 0 {
				return fmt.Errorf("row %d key %d: unit_x must be positive, got %g", i, j, k.UnitX)
			}
			if k.Depth < 0 {
				return fmt.Errorf("row %d key %d: depth must not be negative, got %g", i, j, k.Depth)
			}
		}
	}
	return nil
}

// DefaultLayout is the stock six-row board: function row through bottom
// row, with convex spacebar-family caps on the lower rows. Row heights
// sit about 2mm lower than matt3o's original profile.
func DefaultLayout() Layout {
	return Layout{
		{Angle: 13, Height: 14},
		{Angle: 9, Height: 12, Keys: []Key{
			{UnitX: 1},
		}},
		{Angle: 8, Height: 9.75, Keys: []Key{
			{UnitX: 1}, {UnitX: 1.25}, {UnitX: 1.5}, {UnitX: 1.75}, {UnitX: 2},
		}},
		{Angle: -6, Height: 8.75, Keys: []Key{
			{UnitX: 1}, {UnitX: 1.25}, {UnitX: 1.5}, {UnitX: 1.75},
			{UnitX: 2}, {UnitX: 2.25}, {UnitX: 2.75}, {UnitX: 3},
		}},
		{Angle: -8, Height: 10.5, Keys: []Key{
			{UnitX: 1}, {UnitX: 1.25}, {UnitX: 1.75}, {UnitX: 2.25},
			{UnitX: 2, Convex: true}, {UnitX: 3, Convex: true},
		}},
		{Angle: 0, Height: 10.5, Keys: []Key{
			{UnitX: 1}, {UnitX: 1.25}, {UnitX: 1.5},
			{UnitX: 2, Convex: true}, {UnitX: 2.25, Convex: true},
			{UnitX: 2.75, Convex: true}, {UnitX: 3, Convex: true},
		}},
	}
}

// hclLayoutFile is the top-level structure of a layout file for decoding.
type hclLayoutFile struct {
	Rows []hclRow `hcl:"row,block"`
}

type hclRow struct {
	Name   string   `hcl:"name,label"`
	Angle  float64  `hcl:"angle"`
	Height float64  `hcl:"height"`
	Keys   []hclKey `hcl:"key,block"`
}

type hclKey struct {
	UnitX  float64  `hcl:"unit_x"`
	Convex *bool    `hcl:"convex,optional"`
	Depth  *float64 `hcl:"depth,optional"`
}

// LoadLayout parses a layout from an HCL file. Rows appear in file
// order; the row label is only informational.
//
//	row "qwert" {
//	  angle  = 8
//	  height = 9.75
//	  key { unit_x = 1 }
//	  key { unit_x = 1.25 }
//	}
func LoadLayout(path string) (Layout, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse layout %s: %w", path, diags)
	}

	var parsed hclLayoutFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("decode layout %s: %w", path, diags)
	}

	layout := make(Layout, 0, len(parsed.Rows))
	for _, hr := range parsed.Rows {
		row := Row{Angle: hr.Angle, Height: hr.Height}
		for _, hk := range hr.Keys {
			key := Key{UnitX: hk.UnitX}
			if hk.Convex != nil {
				key.Convex = *hk.Convex
			}
			if hk.Depth != nil {
				key.Depth = *hk.Depth
			}
			row.Keys = append(row.Keys, key)
		}
		layout = append(layout, row)
	}

	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("layout %s: %w", path, err)
	}
	return layout, nil
}

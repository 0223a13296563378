package keyboard

import (
	"github.com/chazu/opk/pkg/kernel"
)

// Placement records where a named keycap sits in the assembly, in mm.
type Placement struct {
	Name string
	X, Y float64
}

// Assembly collects finished keycap solids with their board positions.
// Solids are added once and never mutated afterwards.
type Assembly struct {
	parts []part
}

type part struct {
	name  string
	solid kernel.Solid
	x, y  float64
}

// Add places a named solid at (x, y) on the board plane.
func (a *Assembly) Add(name string, s kernel.Solid, x, y float64) {
	a.parts = append(a.parts, part{name: name, solid: s, x: x, y: y})
}

// Len returns the number of placed keycaps.
func (a *Assembly) Len() int {
	return len(a.parts)
}

// Placements returns the name and position of every placed keycap, in
// placement order.
func (a *Assembly) Placements() []Placement {
	ps := make([]Placement, len(a.parts))
	for i, p := range a.parts {
		ps[i] = Placement{Name: p.name, X: p.x, Y: p.y}
	}
	return ps
}

// Combine merges all placed keycaps into a single solid.
func (a *Assembly) Combine(k kernel.Kernel) kernel.Solid {
	var merged kernel.Solid
	for _, p := range a.parts {
		s := k.Translate(p.solid, p.x, p.y, 0)
		if merged == nil {
			merged = s
		} else {
			merged = k.Union(merged, s)
		}
	}
	return merged
}

// Meshes tessellates each placed keycap in place, one named mesh per
// part. The assembly is read-only during meshing.
func (a *Assembly) Meshes(k kernel.Kernel) ([]*kernel.Mesh, error) {
	meshes := make([]*kernel.Mesh, 0, len(a.parts))
	for _, p := range a.parts {
		m, err := k.ToMesh(k.Translate(p.solid, p.x, p.y, 0))
		if err != nil {
			return nil, err
		}
		m.PartName = p.name
		meshes = append(meshes, m)
	}
	return meshes, nil
}

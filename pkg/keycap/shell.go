package keycap

import (
	"math"

	"github.com/chazu/opk/pkg/kernel"
)

// buildShell lofts a tapered rounded-rect shell: base section at z=0, a
// mid section at height/4, and the top section at z=height with the row
// tilt applied. The tilt is realized by lofting past the nominal height
// and cutting a tilted plane through (0, 0, height) about the X axis, so
// the high edge of the tilted top keeps its material.
func buildShell(k kernel.Kernel, baseX, baseY, bFillet, topX, topY, tFillet, height, angle float64) (kernel.Solid, error) {
	// A top fillet below the base fillet would make the loft fold back on
	// itself; force it above.
	if tFillet < bFillet {
		tFillet = bFillet + 1
	}

	base, err := k.RoundedRect(baseX, baseY, bFillet)
	if err != nil {
		return nil, err
	}
	mid, err := k.RoundedRect(baseX, baseY, (tFillet-bFillet)/4)
	if err != nil {
		return nil, err
	}
	top, err := k.RoundedRect(topX, topY, tFillet)
	if err != nil {
		return nil, err
	}

	aRad := angle * math.Pi / 180
	// Extra height so the raised side of the tilted top is not truncated.
	extra := math.Abs(math.Tan(aRad)) * topY / 2

	lower, err := k.Loft(base, mid, height/4, 0)
	if err != nil {
		return nil, err
	}
	upper, err := k.Loft(mid, top, height*3/4+extra, 0)
	if err != nil {
		return nil, err
	}
	shell := k.Union(lower, k.Translate(upper, 0, 0, height/4))

	if angle == 0 && extra == 0 {
		return shell, nil
	}
	// Top face normal: +Z rotated by the row angle about X.
	n := [3]float64{0, -math.Sin(aRad), math.Cos(aRad)}
	return k.CutPlane(shell, [3]float64{0, 0, height}, n), nil
}

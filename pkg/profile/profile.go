// Package profile holds the 2D parameter math for keycap construction:
// footprint dimensions, circular arc sampling for scoop cross-sections,
// and the saddle curve used by the sculpted scoop style. Everything here
// is pure arithmetic; no kernel calls.
package profile

import (
	"errors"
	"fmt"
	"math"
)

// Pitch is the keyboard unit pitch in mm. 1u = 19.05mm.
const Pitch = 19.05

// ErrBadSteepness is returned for non-positive saddle steepness.
var ErrBadSteepness = errors.New("steepness must be a positive integer")

// BaseDims returns the keycap footprint at the base in mm. The footprint
// scales linearly with the unit count, anchored so a 1u key measures
// exactly baseDim on that axis.
func BaseDims(unitX, unitY, baseDim float64) (x, y float64) {
	dim := func(u float64) float64 {
		return Pitch*u - (Pitch - baseDim)
	}
	return dim(unitX), dim(unitY)
}

// TopDims returns the keycap footprint at the top, before tilting and
// scoop cutting. Both axes shrink by the smaller base axis's excess over
// the nominal top size, so the taper stays proportionate.
func TopDims(baseX, baseY, topDim float64) (x, y float64) {
	diff := math.Min(baseX, baseY) - topDim
	return baseX - diff, baseY - diff
}

// ArcPoints samples the circular arc passing through p0, p1, p2, from p0
// to p2 via p1, into segments+1 points (endpoints included). The three
// points must not be collinear.
func ArcPoints(p0, p1, p2 [2]float64, segments int) ([][2]float64, error) {
	if segments < 2 {
		return nil, fmt.Errorf("arc: need at least 2 segments, got %d", segments)
	}

	ax, ay := p0[0], p0[1]
	bx, by := p1[0], p1[1]
	cx, cy := p2[0], p2[1]

	d := 2 * (ax*(by-cy) + bx*(cy-ay) + cx*(ay-by))
	if math.Abs(d) < 1e-12 {
		return nil, errors.New("arc: points are collinear")
	}

	aa := ax*ax + ay*ay
	bb := bx*bx + by*by
	cc := cx*cx + cy*cy
	ux := (aa*(by-cy) + bb*(cy-ay) + cc*(ay-by)) / d
	uy := (aa*(cx-bx) + bb*(ax-cx) + cc*(bx-ax)) / d
	r := math.Hypot(ax-ux, ay-uy)

	a0 := math.Atan2(ay-uy, ax-ux)
	a1 := math.Atan2(by-uy, bx-ux)
	a2 := math.Atan2(cy-uy, cx-ux)

	// Pick the sweep direction that passes through the mid point.
	ccw0to1 := normAngle(a1 - a0)
	ccw0to2 := normAngle(a2 - a0)
	sweep := ccw0to2
	if ccw0to1 > ccw0to2 {
		// Mid point is outside the CCW sweep; go clockwise instead.
		sweep = ccw0to2 - 2*math.Pi
	}

	pts := make([][2]float64, 0, segments+1)
	for i := 0; i <= segments; i++ {
		t := a0 + sweep*float64(i)/float64(segments)
		pts = append(pts, [2]float64{ux + r*math.Cos(t), uy + r*math.Sin(t)})
	}
	// Pin the endpoints exactly.
	pts[0] = p0
	pts[segments] = p2
	return pts, nil
}

// normAngle maps an angle to [0, 2π).
func normAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// Saddle evaluates the saddle curve at x. The curve flattens near the
// center and falls away toward ±w; steepness controls how sharp the
// falloff is and must be positive. convex=-1 dishes downward, convex=1
// domes upward.
func Saddle(x, w, h float64, steepness, convex int) (float64, error) {
	if steepness <= 0 {
		return 0, fmt.Errorf("%w: got %d", ErrBadSteepness, steepness)
	}
	p := float64(steepness * 2)
	return -float64(convex) * math.Atan(math.Pow(x/w, p)) * h / 1.55, nil
}

// SaddlePoints samples the saddle curve over [start, stop] into n+1
// points.
func SaddlePoints(w, h float64, steepness, convex int, start, stop float64, n int) ([][2]float64, error) {
	if n < 1 {
		return nil, fmt.Errorf("saddle: need at least 1 segment, got %d", n)
	}
	pts := make([][2]float64, 0, n+1)
	for i := 0; i <= n; i++ {
		x := start + (stop-start)*float64(i)/float64(n)
		y, err := Saddle(x, w, h, steepness, convex)
		if err != nil {
			return nil, err
		}
		pts = append(pts, [2]float64{x, y})
	}
	return pts, nil
}

package keycap

import (
	"github.com/chazu/opk/pkg/kernel"
	"github.com/chazu/opk/pkg/profile"
)

// Arc cross-sections are sampled into this many polygon segments.
const arcSegments = 24

// Saddle scoops are approximated by this many loft stations along the key.
const saddleStations = 8

// buildScoop produces the subtractive body that carves the top of the
// keycap. It is positioned at the key top, tilted by the row angle, and
// is discarded after the cut.
func buildScoop(k kernel.Kernel, spec Spec, baseX, baseY, topX, topY float64) (kernel.Solid, error) {
	if spec.Convex {
		return buildConvexScoop(k, baseX, baseY, spec.Height, spec.Angle)
	}
	if spec.ScoopStyle == ScoopSaddle {
		return buildSaddleScoop(k, topX, topY, spec.Height, spec.Angle)
	}
	return buildDishScoop(k, baseX, baseY, spec.Height, spec.Angle, spec.Depth)
}

// dishProfile builds one closed scoop cross-section: an arc through the
// three given points, walled up to wallH on both sides.
func dishProfile(k kernel.Kernel, p0, p1, p2 [2]float64, wallX, wallH float64) (kernel.Profile, error) {
	arc, err := profile.ArcPoints(p0, p1, p2, arcSegments)
	if err != nil {
		return nil, err
	}
	pts := make([][2]float64, 0, len(arc)+2)
	pts = append(pts, arc...)
	pts = append(pts, [2]float64{wallX, wallH}, [2]float64{-wallX, wallH})
	return k.Polygon(pts)
}

// buildDishScoop lofts shallow → deep → shallow arc sections along the
// key's long axis, producing a rounded trough deepest at the center.
func buildDishScoop(k kernel.Kernel, baseX, baseY, height, angle, depth float64) (kernel.Solid, error) {
	// Depth of the shallow end sections, capped so short keys don't get
	// carved through.
	endDepth := -depth + 1.5
	if endDepth > -0.1 {
		endDepth = -0.1
	}

	shallow, err := dishProfile(k,
		[2]float64{-baseY/2 + 2, 0},
		[2]float64{0, endDepth},
		[2]float64{baseY/2 - 2, 0},
		baseY/2, height)
	if err != nil {
		return nil, err
	}
	deep, err := dishProfile(k,
		[2]float64{-baseY/2 - 2, -0.5},
		[2]float64{0, -depth},
		[2]float64{baseY/2 + 2, -0.5},
		baseY/2, height)
	if err != nil {
		return nil, err
	}

	front, err := k.Loft(shallow, deep, baseX/2, 0)
	if err != nil {
		return nil, err
	}
	back, err := k.Loft(deep, shallow, baseX/2, 0)
	if err != nil {
		return nil, err
	}
	trough := k.Union(front, k.Translate(back, 0, 0, baseX/2))

	return placeAtTop(k, trough, baseX, angle, height), nil
}

// buildConvexScoop extrudes a single shallow arc across the key's short
// axis, producing the spacebar dome.
func buildConvexScoop(k kernel.Kernel, baseX, baseY, height, angle float64) (kernel.Solid, error) {
	arc, err := profile.ArcPoints(
		[2]float64{-baseY / 2, -1},
		[2]float64{0, 2},
		[2]float64{baseY / 2, -1},
		arcSegments)
	if err != nil {
		return nil, err
	}
	pts := make([][2]float64, 0, len(arc)+2)
	pts = append(pts, arc...)
	pts = append(pts, [2]float64{baseY / 2, 10}, [2]float64{-baseY / 2, 10})
	dome, err := k.Polygon(pts)
	if err != nil {
		return nil, err
	}

	body, err := k.Extrude(dome, baseX)
	if err != nil {
		return nil, err
	}
	return placeAtTop(k, body, baseX, angle, height-2.1), nil
}

// buildSaddleScoop chains lofts between saddle cross-sections along the
// key, the sculpted alternative to the plain dish. The guide curve
// raises and lowers the whole section toward the key ends.
func buildSaddleScoop(k kernel.Kernel, topX, topY, height, angle float64) (kernel.Solid, error) {
	section, err := profile.SaddlePoints(topX, height, 2, -1, -topX, topX, arcSegments)
	if err != nil {
		return nil, err
	}

	profiles := make([]kernel.Profile, 0, saddleStations+1)
	span := 2 * topY
	for i := 0; i <= saddleStations; i++ {
		y := -topY + span*float64(i)/float64(saddleStations)
		lift, err := profile.Saddle(y, topY, height, 4, 1)
		if err != nil {
			return nil, err
		}
		pts := make([][2]float64, 0, len(section)+2)
		for _, p := range section {
			pts = append(pts, [2]float64{p[0], p[1] + lift - 2})
		}
		pts = append(pts, [2]float64{topX, height}, [2]float64{-topX, height})
		p, err := k.Polygon(pts)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}

	step := span / saddleStations
	var body kernel.Solid
	for i := 0; i < saddleStations; i++ {
		seg, err := k.Loft(profiles[i], profiles[i+1], step, 0)
		if err != nil {
			return nil, err
		}
		seg = k.Translate(seg, 0, 0, float64(i)*step)
		if body == nil {
			body = seg
		} else {
			body = k.Union(body, seg)
		}
	}

	// Sections are in the XZ plane lofted along Y: rotate the stack off
	// the Z axis, center it, then tilt and lift to the key top.
	body = k.Rotate(body, 90, 0, 0)
	body = k.Translate(body, 0, topY, 0)
	body = k.Rotate(body, angle, 0, 0)
	return k.Translate(body, 0, 0, height), nil
}

// placeAtTop reorients a trough built along +Z to run along the key's X
// axis, centers it, tilts it by the row angle and lifts it to z.
func placeAtTop(k kernel.Kernel, s kernel.Solid, length, angle, z float64) kernel.Solid {
	// Map loft space (profile XY, length along Z) onto key space
	// (length along X, profile in YZ).
	s = k.Rotate(s, 90, 0, 90)
	s = k.Translate(s, -length/2, 0, 0)
	s = k.Rotate(s, angle, 0, 0)
	return k.Translate(s, 0, 0, z)
}

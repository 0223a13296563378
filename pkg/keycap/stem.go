package keycap

import (
	"math"
	"sort"

	"github.com/chazu/opk/pkg/kernel"
	"github.com/chazu/opk/pkg/profile"
)

// Cherry stem dimensions (mm).
const (
	cherryStemRadius = 2.75
	cherryRibZ       = 4.5
	cherryZInset     = 0.6
	cherryCrossDepth = 4.6
)

// Alps stem dimensions (mm).
const (
	alpsStemW    = 4.35
	alpsStemH    = 2.1
	alpsWall     = 0.7
	alpsRibZ     = 5.4
	alpsChamfer  = 0.2 // kept for reference; SDF backend skips the chamfer
	ribThickness = 0.8
	ribSpan      = 100 // ribs run wall to wall, clipped by the shell
	stemReach    = 20  // stems overshoot upward and are clipped by the shell
)

// StemPoint is an (x, y) offset where a stem socket is placed.
type StemPoint struct {
	X, Y float64
}

// StemPoints computes stem socket positions for a key footprint.
//
// Standard layout always places a center stem. Keys whose longer axis
// exceeds 2.75u get stabilizer stems spaced for their full width; keys
// between 1.75u and 2.75u get the common 2.25u stabilizer spacing. POS
// layout places one stem per whole unit on a centered grid, and only
// applies when at least one axis reaches 2u.
func StemPoints(unitX, unitY float64, pos bool) []StemPoint {
	if unitX < 2 && unitY < 2 {
		pos = false
	}

	var pts []StemPoint
	if !pos {
		pts = []StemPoint{{0, 0}}
		width := math.Max(unitX, unitY)
		switch {
		case width > 2.75:
			dist := width/2*profile.Pitch - profile.Pitch/2
			pts = append(pts, StemPoint{dist, 0}, StemPoint{-dist, 0})
		case width > 1.75:
			dist := 2.25/2*profile.Pitch - profile.Pitch/2
			pts = append(pts, StemPoint{dist, 0}, StemPoint{-dist, 0})
		}
		// Stabilizers run along the long axis; flip for vertical keys.
		if unitY > unitX {
			for i, p := range pts {
				pts[i] = StemPoint{p.Y, p.X}
			}
		}
	} else {
		numX := int(math.Floor(unitX))
		numY := int(math.Floor(unitY))
		startX := -profile.Pitch*float64(numX)/2 + profile.Pitch/2
		startY := -profile.Pitch*float64(numY)/2 + profile.Pitch/2
		for i := 0; i < numY; i++ {
			for j := 0; j < numX; j++ {
				pts = append(pts, StemPoint{
					X: startX + float64(j)*profile.Pitch,
					Y: startY + float64(i)*profile.Pitch,
				})
			}
		}
	}

	sort.Slice(pts, func(i, j int) bool {
		return pts[i].X+pts[i].Y < pts[j].X+pts[j].Y
	})
	return pts
}

// ribProfile is the cross of reinforcing ribs, optionally with extra
// profiles merged in (the cherry post circle).
func ribProfile(k kernel.Kernel, extra ...kernel.Profile) (kernel.Profile, error) {
	h, err := k.RoundedRect(ribSpan, ribThickness, 0)
	if err != nil {
		return nil, err
	}
	v, err := k.RoundedRect(ribThickness, ribSpan, 0)
	if err != nil {
		return nil, err
	}
	ps := append([]kernel.Profile{h, v}, extra...)
	return k.UnionProfile(ps...), nil
}

// buildCherryStem makes one cherry stem: a round post with the MX cross
// socket cut from below and rib reinforcement running up into the cap.
// The post bottom is inset above z=0 so the stem clears the switch top.
func buildCherryStem(k kernel.Kernel) (kernel.Solid, error) {
	circle, err := k.Circle(cherryStemRadius)
	if err != nil {
		return nil, err
	}
	post, err := k.Extrude(circle, cherryRibZ-cherryZInset)
	if err != nil {
		return nil, err
	}

	ribs, err := ribProfile(k, circle)
	if err != nil {
		return nil, err
	}
	upper, err := k.Extrude(ribs, stemReach)
	if err != nil {
		return nil, err
	}
	body := k.Union(post, k.Translate(upper, 0, 0, cherryRibZ-cherryZInset))

	crossH, err := k.RoundedRect(4.15, 1.27, 0)
	if err != nil {
		return nil, err
	}
	crossV, err := k.RoundedRect(1.12, 4.15, 0)
	if err != nil {
		return nil, err
	}
	// Overshoot the socket cut below z=0 for a clean through-cut.
	socket, err := k.Extrude(k.UnionProfile(crossH, crossV), cherryCrossDepth+0.5)
	if err != nil {
		return nil, err
	}
	socket = k.Translate(socket, 0, 0, -0.5)

	stem := k.Difference(body, socket)
	return k.Translate(stem, 0, 0, cherryZInset), nil
}

// buildAlpsStem makes one alps stem: a rectangular post hollowed from
// below, with ribs starting above the switch engagement zone.
func buildAlpsStem(k kernel.Kernel) (kernel.Solid, error) {
	outer, err := k.RoundedRect(alpsStemW, alpsStemH, 0)
	if err != nil {
		return nil, err
	}
	post, err := k.Extrude(outer, stemReach)
	if err != nil {
		return nil, err
	}

	inner, err := k.RoundedRect(alpsStemW-2*alpsWall, alpsStemH-2*alpsWall, 0)
	if err != nil {
		return nil, err
	}
	cavity, err := k.Extrude(inner, stemReach-alpsWall)
	if err != nil {
		return nil, err
	}
	post = k.Difference(post, cavity)

	ribs, err := ribProfile(k)
	if err != nil {
		return nil, err
	}
	upper, err := k.Extrude(ribs, stemReach-alpsRibZ)
	if err != nil {
		return nil, err
	}
	return k.Union(post, k.Translate(upper, 0, 0, alpsRibZ)), nil
}

// BuildStems lays out and unions all stems for a key footprint. For alps
// caps only the center stem uses the alps profile; stabilizer stems keep
// the cherry profile because stabilizer wires use cherry-style sockets
// regardless of the switch family. The caller clips the result against
// the cap shell.
func BuildStems(k kernel.Kernel, unitX, unitY float64, pos bool, stemType StemType) (kernel.Solid, []StemPoint, error) {
	if stemType != StemCherry && stemType != StemAlps {
		return nil, nil, fmtUnknownStem(stemType)
	}

	pts := StemPoints(unitX, unitY, pos)

	var all kernel.Solid
	for _, pt := range pts {
		var (
			stem kernel.Solid
			err  error
		)
		if pt.X == 0 && pt.Y == 0 && stemType == StemAlps {
			stem, err = buildAlpsStem(k)
		} else {
			stem, err = buildCherryStem(k)
		}
		if err != nil {
			return nil, nil, err
		}
		stem = k.Translate(stem, pt.X, pt.Y, 0)
		if all == nil {
			all = stem
		} else {
			all = k.Union(all, stem)
		}
	}
	return all, pts, nil
}

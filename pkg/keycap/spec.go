// Package keycap builds keycap solids from a parametric spec using a
// solid-modeling kernel. The construction pipeline is: footprint dims →
// scoop body → outer/inner shells → smooth scoop cut with fillet retry →
// stems → boolean assembly.
package keycap

import (
	"errors"
	"fmt"
)

// StemType selects the switch interface built under the cap.
type StemType string

const (
	// StemCherry is the cross-shaped MX-compatible socket.
	StemCherry StemType = "cherry"
	// StemAlps is the rectangular Alps/Matias socket.
	StemAlps StemType = "alps"
)

// ScoopStyle selects how the top depression is sculpted.
type ScoopStyle string

const (
	// ScoopDish is the standard concave trough (default).
	ScoopDish ScoopStyle = "dish"
	// ScoopSaddle is the sculpted saddle-curve scoop.
	ScoopSaddle ScoopStyle = "saddle"
)

// ErrUnknownStemType is returned for stem types other than cherry/alps,
// before any geometry work happens.
var ErrUnknownStemType = errors.New("unknown stem type")

// Spec is the full parameter set for one keycap. Values are mm and
// degrees. A Spec is a plain value: builders never mutate it, and
// repeated builds with different specs cannot interfere.
type Spec struct {
	UnitX float64 // key width in units (1u = 19.05mm)
	UnitY float64 // key depth in units

	BaseDim float64 // 1u footprint at the base
	TopDim  float64 // 1u footprint at the top

	BaseFillet    float64 // side fillet at the base
	TopFillet     float64 // side fillet at the top
	SurfaceFillet float64 // fillet along the scoop edge

	Height    float64 // height before the scoop is cut
	Angle     float64 // row tilt of the top surface, degrees about X
	Depth     float64 // scoop depth
	Thickness float64 // wall thickness

	Convex bool // spacebar-style convex top
	POS    bool // POS-style per-unit stem grid on wide keys

	StemType   StemType
	ScoopStyle ScoopStyle
}

// DefaultSpec returns the reference 1u profile. Callers copy it and
// override what differs.
func DefaultSpec() Spec {
	return Spec{
		UnitX:         1,
		UnitY:         1,
		BaseDim:       18.2,
		TopDim:        12.5,
		BaseFillet:    0.5,
		TopFillet:     3.5,
		SurfaceFillet: 0.9,
		Height:        9,
		Angle:         2,
		Depth:         2.5,
		Thickness:     1.5,
		StemType:      StemCherry,
		ScoopStyle:    ScoopDish,
	}
}

// Validate rejects specs that cannot produce a sane keycap. Stem type
// checking happens here so a bad type fails before any kernel call.
func (s Spec) Validate() error {
	if s.StemType != StemCherry && s.StemType != StemAlps {
		return fmt.Errorf("%w: %q", ErrUnknownStemType, s.StemType)
	}
	if s.UnitX <= 0 || s.UnitY <= 0 {
		return fmt.Errorf("unit size must be positive, got %gx%g", s.UnitX, s.UnitY)
	}
	if s.Height <= 0 {
		return fmt.Errorf("height must be positive, got %g", s.Height)
	}
	if s.Height-s.Depth-s.Thickness <= 0 {
		return fmt.Errorf("height %g leaves no room for depth %g and wall %g", s.Height, s.Depth, s.Thickness)
	}
	if s.ScoopStyle != "" && s.ScoopStyle != ScoopDish && s.ScoopStyle != ScoopSaddle {
		return fmt.Errorf("unknown scoop style %q", s.ScoopStyle)
	}
	return nil
}

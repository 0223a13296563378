package keycap

import (
	"errors"
	"fmt"

	"github.com/chazu/opk/pkg/kernel"
	"github.com/chazu/opk/pkg/profile"
)

// ErrFilletExhausted is returned when no surface fillet radius down to
// zero can be realized on the scoop cut.
var ErrFilletExhausted = errors.New("surface fillet exhausted")

// filletRetryStep is how much the surface fillet radius shrinks per
// failed attempt.
const filletRetryStep = 0.1

// Result holds a finished keycap solid and how it was built.
type Result struct {
	Solid kernel.Solid

	// SurfaceFillet is the effective scoop-edge fillet radius after
	// retries. Never exceeds the requested radius.
	SurfaceFillet float64

	// StemPoints are the stem socket offsets placed under the cap.
	StemPoints []StemPoint
}

func fmtUnknownStem(t StemType) error {
	return fmt.Errorf("%w: %q", ErrUnknownStemType, t)
}

// Build constructs one keycap from spec:
//
//	footprints → scoop body → inner and outer shells → scoop cut with
//	surface fillet (retrying at smaller radii) → stems clipped to the
//	shell → (outer − inner) + stems.
//
// The spec is validated before any kernel work, so an unknown stem type
// fails without touching geometry.
func Build(k kernel.Kernel, spec Spec) (*Result, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	baseX, baseY := profile.BaseDims(spec.UnitX, spec.UnitY, spec.BaseDim)
	topX, topY := profile.TopDims(baseX, baseY, spec.TopDim)

	scoop, err := buildScoop(k, spec, baseX, baseY, topX, topY)
	if err != nil {
		return nil, fmt.Errorf("scoop: %w", err)
	}

	tFillet := spec.TopFillet
	if spec.Convex {
		tFillet *= 0.7
	}

	inner, err := buildShell(k,
		baseX-spec.Thickness, baseY-spec.Thickness, spec.BaseFillet,
		topX-spec.Thickness, topY-spec.Thickness, tFillet,
		spec.Height-spec.Depth-spec.Thickness, spec.Angle)
	if err != nil {
		return nil, fmt.Errorf("inner shell: %w", err)
	}

	outer, err := buildShell(k,
		baseX, baseY, spec.BaseFillet,
		topX, topY, tFillet,
		spec.Height, spec.Angle)
	if err != nil {
		return nil, fmt.Errorf("outer shell: %w", err)
	}

	carved, fillet, err := cutWithFilletRetry(k, outer, scoop, spec.SurfaceFillet)
	if err != nil {
		return nil, err
	}

	stems, pts, err := BuildStems(k, spec.UnitX, spec.UnitY, spec.POS, spec.StemType)
	if err != nil {
		return nil, fmt.Errorf("stems: %w", err)
	}
	stems = k.Intersection(stems, carved)

	body := k.Union(k.Difference(carved, inner), stems)
	return &Result{
		Solid:         body,
		SurfaceFillet: fillet,
		StemPoints:    pts,
	}, nil
}

// cutWithFilletRetry subtracts the scoop from the shell with a filleted
// edge, shrinking the radius by filletRetryStep per infeasible attempt.
// Unlike an unbounded retry, it gives up with ErrFilletExhausted once
// the radius would drop to zero or below.
func cutWithFilletRetry(k kernel.Kernel, shell, scoop kernel.Solid, radius float64) (kernel.Solid, float64, error) {
	for n := 0; ; n++ {
		r := radius - float64(n)*filletRetryStep
		if r <= 0 {
			return nil, 0, fmt.Errorf("%w: requested %g", ErrFilletExhausted, radius)
		}
		s, err := k.CutSmooth(shell, scoop, r)
		if err == nil {
			return s, r, nil
		}
		if !errors.Is(err, kernel.ErrFilletInfeasible) {
			return nil, 0, fmt.Errorf("scoop cut: %w", err)
		}
	}
}

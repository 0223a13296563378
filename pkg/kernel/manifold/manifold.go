// Package manifold reserves the backend slot for the Manifold library
// (https://github.com/elalish/manifold), which provides guaranteed-
// manifold mesh booleans through a C API. The manifoldc surface covers
// primitives, booleans and transforms, but not the lofted sections and
// smoothed cuts this kernel interface requires, so the backend is a
// stub until those land upstream.
package manifold

import (
	"errors"

	"github.com/chazu/opk/pkg/kernel"
)

// New returns an error: the Manifold backend is not implemented.
func New() (kernel.Kernel, error) {
	return nil, errors.New("manifold kernel not available: no loft/smooth-cut support in manifoldc")
}

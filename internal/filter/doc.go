// Package filter provides CPU image filters for the reference image chain.
//
// The filters reproduce the image kernels that run between the render
// passes of the quad programs:
//   - Binary threshold on linear gray (luminance above a cutoff becomes
//     a maximum value, everything else zero)
//   - Gaussian blur (separable, edge-clamped, kernel cached per sigma)
//
// All filters read and write *image.NRGBA of identical bounds.
package filter

import "errors"

var (
	// ErrNilImage is returned when a source or destination is nil.
	ErrNilImage = errors.New("filter: nil image")

	// ErrSizeMismatch is returned when source and destination bounds differ.
	ErrSizeMismatch = errors.New("filter: source and destination bounds differ")
)

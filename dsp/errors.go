// SPDX-License-Identifier: EPL-2.0

package dsp

import "errors"

var (
	// ErrTruncatedData is returned when a byte slice does not hold a whole
	// number of samples for its type.
	ErrTruncatedData = errors.New("byte length is not a whole number of samples")
	// ErrUnsupportedBitDepth is returned for integer bit depths outside
	// {8, 16, 24, 32}.
	ErrUnsupportedBitDepth = errors.New("unsupported bit depth")
	// ErrInvalidRate is returned for non-positive sample rates.
	ErrInvalidRate = errors.New("invalid sample rate")
	// ErrInvalidChannels is returned for a channel count that is non-positive
	// or does not divide the sample count.
	ErrInvalidChannels = errors.New("invalid channel count for sample data")
)

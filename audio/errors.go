// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	// ErrInvalidSampleRate is returned for rates outside (0, 192000] Hz.
	ErrInvalidSampleRate = errors.New("invalid sample rate")
	// ErrInvalidChannelCount is returned for channel counts outside [1, 32].
	ErrInvalidChannelCount = errors.New("invalid channel count")
	// ErrUnknownSampleType is returned for sample types outside the known set.
	ErrUnknownSampleType = errors.New("unknown sample type")
	// ErrPartialFrame is returned when a sample count is not a whole number
	// of frames for the format.
	ErrPartialFrame = errors.New("sample count is not a whole number of frames")
)

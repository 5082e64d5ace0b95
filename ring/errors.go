// SPDX-License-Identifier: EPL-2.0

package ring

import "errors"

var (
	// ErrDurationTooShort is returned for buffer durations under 100 ms.
	ErrDurationTooShort = errors.New("buffer duration too short")
	// ErrDurationTooLong is returned for buffer durations over 30 s.
	ErrDurationTooLong = errors.New("buffer duration too long")
	// ErrBufferTooLarge is returned when the derived size exceeds 100 MB.
	ErrBufferTooLarge = errors.New("buffer size exceeds maximum")
	// ErrInvalidThreshold is returned for underrun thresholds outside [0, 1].
	ErrInvalidThreshold = errors.New("underrun threshold outside [0, 1]")
)

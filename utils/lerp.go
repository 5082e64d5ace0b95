// SPDX-License-Identifier: EPL-2.0

package utils

// Lerp performs linear interpolation between y0 and y1.
// x is the fractional position between them (0 <= x <= 1).
func Lerp(y0, y1, x float64) float64 {
	return y0 + (y1-y0)*x
}

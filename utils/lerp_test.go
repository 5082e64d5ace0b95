// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"math"
	"testing"
)

func TestLerp_Endpoints(t *testing.T) {
	t.Parallel()

	if got := Lerp(2.0, 4.0, 0.0); got != 2.0 {
		t.Errorf("Lerp(2, 4, 0) = %v, want 2", got)
	}
	if got := Lerp(2.0, 4.0, 1.0); got != 4.0 {
		t.Errorf("Lerp(2, 4, 1) = %v, want 4", got)
	}
}

func TestLerp_Midpoint(t *testing.T) {
	t.Parallel()

	if got := Lerp(-1.0, 1.0, 0.5); math.Abs(got) > 1e-15 {
		t.Errorf("Lerp(-1, 1, 0.5) = %v, want 0", got)
	}
	if got := Lerp(0.0, 1.0, 0.25); math.Abs(got-0.25) > 1e-15 {
		t.Errorf("Lerp(0, 1, 0.25) = %v, want 0.25", got)
	}
}

func TestLerp_Monotonic(t *testing.T) {
	t.Parallel()

	// Interpolated values between increasing endpoints never decrease
	prev := math.Inf(-1)
	for i := 0; i <= 100; i++ {
		x := float64(i) / 100.0
		v := Lerp(-0.8, 0.9, x)
		if v < prev {
			t.Fatalf("Lerp not monotonic at x=%v: %v < %v", x, v, prev)
		}
		prev = v
	}
}

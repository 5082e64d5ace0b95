// SPDX-License-Identifier: EPL-2.0

package device

import (
	"fmt"

	"github.com/auricle-audio/auricle/audio"
)

// commonRates are the rates most source material ships in; a range that
// covers them keeps working when the track changes.
var commonRates = [...]int{44100, 48000, 96000, 192000}

// Scoring weights. Containment is the entry ticket, the bonuses order
// otherwise-compatible ranges.
const (
	scoreIncompatible  = -1
	scoreContainment   = 100
	scoreExactBoundary = 10
	scoreChannelMatch  = 50
	scoreHighRate      = 20
	scoreCommonRate    = 5
)

// Score rates how well a configuration range carries the target format.
// A negative score means the range cannot carry it at all.
func Score(r ConfigRange, target audio.Format) int {
	if !r.Contains(target.SampleRate) {
		return scoreIncompatible
	}

	score := scoreContainment

	if target.SampleRate == r.MinSampleRate || target.SampleRate == r.MaxSampleRate {
		score += scoreExactBoundary
	}
	if r.Channels == target.Channels {
		score += scoreChannelMatch
	}
	if target.IsHighResolution() && r.MaxSampleRate >= 96000 {
		score += scoreHighRate
	}
	for _, rate := range commonRates {
		if r.Contains(rate) {
			score += scoreCommonRate
		}
	}

	return score
}

// Selection is the outcome of a negotiation: the chosen device, the
// configuration range within it, and the score that won.
type Selection struct {
	Device DeviceInfo
	Range  ConfigRange
	Score  int
}

// Negotiate picks the (device, range) pair that best carries the target
// format. Ties go to the system default device, then to enumeration
// order. It returns ErrNoOutputs when devices is empty and
// ErrNoCompatibleConfig when nothing can carry the format.
func Negotiate(devices []DeviceInfo, target audio.Format) (Selection, error) {
	if err := target.Validate(); err != nil {
		return Selection{}, fmt.Errorf("negotiate: %w", err)
	}
	if len(devices) == 0 {
		return Selection{}, ErrNoOutputs
	}

	best := Selection{Score: scoreIncompatible}
	for _, dev := range devices {
		for _, r := range dev.Ranges {
			score := Score(r, target)
			if score < 0 {
				continue
			}
			if score > best.Score || (score == best.Score && dev.IsDefault && !best.Device.IsDefault) {
				best = Selection{Device: dev, Range: r, Score: score}
			}
		}
	}

	if best.Score < 0 {
		return Selection{}, fmt.Errorf("%w: %s", ErrNoCompatibleConfig, target)
	}
	return best, nil
}

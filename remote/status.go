// SPDX-License-Identifier: EPL-2.0

package remote

// Status is one pushed frame: the transport state, the loaded track's
// geometry, and the levels measured since the previous frame.
type Status struct {
	Type            string    `json:"type"`
	State           string    `json:"state"`
	PositionFrames  uint64    `json:"position_frames"`
	PositionSeconds float64   `json:"position_seconds"`
	DurationFrames  uint64    `json:"duration_frames"`
	DurationSeconds float64   `json:"duration_seconds"`
	DurationKnown   bool      `json:"duration_known"`
	Volume          float64   `json:"volume"`
	Muted           bool      `json:"muted"`
	SampleRate      int       `json:"sample_rate,omitempty"`
	Channels        int       `json:"channels,omitempty"`
	RMSDB           []float64 `json:"rms_db"`
	PeakDB          []float64 `json:"peak_db"`
	HeldPeakDB      []float64 `json:"held_peak_db"`
	Clips           []int     `json:"clips"`
	Underruns       uint64    `json:"underruns"`
}

// buildStatus snapshots the engine. It is the only reader of
// Engine.Levels, so each frame covers exactly one measurement period.
func (s *Server) buildStatus() Status {
	pos := s.eng.Position()
	dur, hasDur := s.eng.Duration()
	lv := s.eng.Levels()

	st := Status{
		Type:           "status",
		State:          s.eng.State().String(),
		PositionFrames: pos,
		DurationFrames: dur,
		DurationKnown:  hasDur,
		Volume:         s.eng.Volume(),
		Muted:          s.eng.IsMuted(),
		RMSDB:          lv.RMS,
		PeakDB:         lv.Peak,
		HeldPeakDB:     lv.HeldPeak,
		Clips:          lv.Clips,
		Underruns:      lv.Underruns,
	}

	if f, ok := s.eng.Format(); ok {
		st.SampleRate = f.SampleRate
		st.Channels = f.Channels
		rate := float64(f.SampleRate)
		st.PositionSeconds = float64(pos) / rate
		if hasDur {
			st.DurationSeconds = float64(dur) / rate
		}
	}

	return st
}

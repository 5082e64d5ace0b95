// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// SampleType identifies how a single sample is encoded.
type SampleType int

const (
	// U8 is unsigned 8-bit PCM.
	U8 SampleType = iota
	// I8 is signed 8-bit PCM.
	I8
	// U16 is unsigned 16-bit little-endian PCM.
	U16
	// I16 is signed 16-bit little-endian PCM, the CD baseline.
	I16
	// I24 is signed 24-bit little-endian PCM packed in 3 bytes.
	I24
	// I32 is signed 32-bit little-endian PCM.
	I32
	// F32 is 32-bit IEEE float PCM.
	F32
	// F64 is 64-bit IEEE float PCM, the canonical domain on the wire.
	F64
)

// Size returns the number of bytes one sample occupies.
func (t SampleType) Size() int {
	switch t {
	case U8, I8:
		return 1
	case U16, I16:
		return 2
	case I24:
		return 3
	case I32, F32:
		return 4
	case F64:
		return 8
	default:
		return 0
	}
}

// IsFloat reports whether the type is a floating-point encoding.
// Dithering is skipped for float targets.
func (t SampleType) IsFloat() bool {
	return t == F32 || t == F64
}

// Bits returns the significant bit depth of the encoding.
func (t SampleType) Bits() int {
	switch t {
	case U8, I8:
		return 8
	case U16, I16:
		return 16
	case I24:
		return 24
	case I32, F32:
		return 32
	case F64:
		return 64
	default:
		return 0
	}
}

func (t SampleType) String() string {
	switch t {
	case U8:
		return "u8"
	case I8:
		return "i8"
	case U16:
		return "u16"
	case I16:
		return "i16"
	case I24:
		return "i24"
	case I32:
		return "i32"
	case F32:
		return "f32"
	case F64:
		return "f64"
	default:
		return fmt.Sprintf("sample_type(%d)", int(t))
	}
}

// MaxSampleRate is the highest sample rate the engine drives.
const MaxSampleRate = 192000

// MaxChannels is the highest channel count the engine drives.
const MaxChannels = 32

// Format describes a PCM stream: rate, channel count and sample encoding.
// Layout is advisory and may be LayoutUnknown.
type Format struct {
	SampleRate int
	Channels   int
	Sample     SampleType
	Layout     ChannelLayout
}

// DefaultFormat returns the engine's canonical working format:
// 44.1 kHz stereo in the 64-bit float domain.
func DefaultFormat() Format {
	return Format{
		SampleRate: 44100,
		Channels:   2,
		Sample:     F64,
		Layout:     Stereo,
	}
}

// Validate rejects formats the engine cannot drive. It is called before any
// buffer allocation that derives its size from the format.
func (f Format) Validate() error {
	if f.SampleRate <= 0 || f.SampleRate > MaxSampleRate {
		return fmt.Errorf("%w: %d Hz", ErrInvalidSampleRate, f.SampleRate)
	}
	if f.Channels < 1 || f.Channels > MaxChannels {
		return fmt.Errorf("%w: %d", ErrInvalidChannelCount, f.Channels)
	}
	if f.Sample.Size() == 0 {
		return fmt.Errorf("%w: %v", ErrUnknownSampleType, f.Sample)
	}
	return nil
}

// FrameSize returns the byte size of one frame (one sample per channel).
func (f Format) FrameSize() int {
	return f.Channels * f.Sample.Size()
}

// ByteRate returns the encoded data rate in bytes per second.
func (f Format) ByteRate() int {
	return f.SampleRate * f.FrameSize()
}

// IsHighResolution reports whether the format exceeds the CD baseline,
// either by sample rate (48 kHz and up) or by sample encoding (anything
// other than 16-bit integer).
func (f Format) IsHighResolution() bool {
	return f.SampleRate >= 48000 || f.Sample != I16
}

// WithLayout returns a copy with the layout derived from the channel count.
func (f Format) WithLayout() Format {
	f.Layout = LayoutForChannels(f.Channels)
	return f
}

func (f Format) String() string {
	return fmt.Sprintf("%d Hz, %d ch, %v", f.SampleRate, f.Channels, f.Sample)
}

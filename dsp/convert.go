// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/auricle-audio/auricle/audio"
	"github.com/auricle-audio/auricle/utils"
)

// Decode converts encoded PCM bytes into canonical samples. It fills dst with
// min(len(dst), len(src)/sampleSize) samples and returns the count. src must
// hold a whole number of samples for the type.
func Decode(dst []float64, src []byte, st audio.SampleType) (int, error) {
	size := st.Size()
	if size == 0 {
		return 0, fmt.Errorf("%w: %v", audio.ErrUnknownSampleType, st)
	}
	if len(src)%size != 0 {
		return 0, fmt.Errorf("%w: %d bytes of %v", ErrTruncatedData, len(src), st)
	}

	n := len(src) / size
	if n > len(dst) {
		n = len(dst)
	}

	switch st {
	case audio.U8:
		for i := range n {
			dst[i] = (float64(src[i])/255.0)*2.0 - 1.0
		}
	case audio.I8:
		for i := range n {
			dst[i] = float64(int8(src[i])) / 127.0
		}
	case audio.U16:
		for i := range n {
			u := binary.LittleEndian.Uint16(src[2*i:])
			dst[i] = (float64(u)/65535.0)*2.0 - 1.0
		}
	case audio.I16:
		for i := range n {
			s := int16(binary.LittleEndian.Uint16(src[2*i:]))
			dst[i] = float64(s) / 32767.0
		}
	case audio.I24:
		for i := range n {
			dst[i] = decodeI24(src[3*i : 3*i+3])
		}
	case audio.I32:
		for i := range n {
			s := int32(binary.LittleEndian.Uint32(src[4*i:]))
			dst[i] = float64(s) / 2147483647.0
		}
	case audio.F32:
		for i := range n {
			bits := binary.LittleEndian.Uint32(src[4*i:])
			dst[i] = float64(math.Float32frombits(bits))
		}
	case audio.F64:
		for i := range n {
			bits := binary.LittleEndian.Uint64(src[8*i:])
			dst[i] = math.Float64frombits(bits)
		}
	}

	return n, nil
}

// Encode converts canonical samples into encoded PCM bytes. Samples are
// clamped to [-1, 1] before scaling. It encodes min(len(src), len(dst)/size)
// samples and returns the count; bytes written = count * size.
func Encode(dst []byte, src []float64, st audio.SampleType) (int, error) {
	size := st.Size()
	if size == 0 {
		return 0, fmt.Errorf("%w: %v", audio.ErrUnknownSampleType, st)
	}

	n := len(dst) / size
	if n > len(src) {
		n = len(src)
	}

	switch st {
	case audio.U8:
		for i := range n {
			c := utils.ClampUnit(src[i])
			dst[i] = uint8((c + 1.0) * 0.5 * 255.0)
		}
	case audio.I8:
		for i := range n {
			c := utils.ClampUnit(src[i])
			dst[i] = byte(int8(c * 127.0))
		}
	case audio.U16:
		for i := range n {
			c := utils.ClampUnit(src[i])
			binary.LittleEndian.PutUint16(dst[2*i:], uint16((c+1.0)*0.5*65535.0))
		}
	case audio.I16:
		for i := range n {
			c := utils.ClampUnit(src[i])
			binary.LittleEndian.PutUint16(dst[2*i:], uint16(int16(c*32767.0)))
		}
	case audio.I24:
		for i := range n {
			// Scale to 32 bits; the wire takes the low 3 bytes.
			s := int32(utils.ClampUnit(src[i]) * 2147483647.0)
			dst[3*i] = byte(s)
			dst[3*i+1] = byte(s >> 8)
			dst[3*i+2] = byte(s >> 16)
		}
	case audio.I32:
		for i := range n {
			s := int32(utils.ClampUnit(src[i]) * 2147483647.0)
			binary.LittleEndian.PutUint32(dst[4*i:], uint32(s))
		}
	case audio.F32:
		for i := range n {
			c := utils.ClampUnit(src[i])
			binary.LittleEndian.PutUint32(dst[4*i:], math.Float32bits(float32(c)))
		}
	case audio.F64:
		for i := range n {
			binary.LittleEndian.PutUint64(dst[8*i:], math.Float64bits(utils.ClampUnit(src[i])))
		}
	}

	return n, nil
}

// decodeI24 sign-extends a 3-byte little-endian sample and normalizes by 2^23.
func decodeI24(b []byte) float64 {
	v := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
	if v&0x00800000 != 0 {
		v |= ^int32(0x00FFFFFF)
	}
	return float64(v) / 8388608.0
}

// FromInt16 converts signed 16-bit samples to canonical form, appending to dst.
func FromInt16(dst []float64, src []int16) []float64 {
	for _, s := range src {
		dst = append(dst, float64(s)/32767.0)
	}
	return dst
}

// FromFloat32 widens 32-bit float samples to canonical form, appending to dst.
func FromFloat32(dst []float64, src []float32) []float64 {
	for _, s := range src {
		dst = append(dst, float64(s))
	}
	return dst
}

// FromInts converts integer samples of the given bit depth to canonical form,
// appending to dst. Decoders that surface PCM as machine ints use this; the
// normalization divisor matches the signed formulas above.
func FromInts(dst []float64, src []int, bits int) ([]float64, error) {
	var div float64
	switch bits {
	case 8:
		div = 127.0
	case 16:
		div = 32767.0
	case 24:
		div = 8388608.0
	case 32:
		div = 2147483647.0
	default:
		return dst, fmt.Errorf("%w: %d-bit integer samples", ErrUnsupportedBitDepth, bits)
	}
	for _, s := range src {
		dst = append(dst, float64(s)/div)
	}
	return dst, nil
}

// SPDX-License-Identifier: EPL-2.0

package auricle_test

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auricle-audio/auricle"
	"github.com/auricle-audio/auricle/audio"
	"github.com/auricle-audio/auricle/decode"
	"github.com/auricle-audio/auricle/engine"
	"github.com/auricle-audio/auricle/formats/wav"
	"github.com/auricle-audio/auricle/internal/audiotest"
)

// writeWAV writes 16-bit PCM test audio to a temp file and returns its path.
func writeWAV(t *testing.T, name string, sampleRate, channels int, samples []int16) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, wav.WriteWAV16(f, sampleRate, channels, samples))
	require.NoError(t, f.Close())
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	samples := make([]int16, 200) // 100 stereo frames
	for i := range samples {
		samples[i] = int16(i * 50)
	}
	path := writeWAV(t, "ramp.wav", 8000, 2, samples)

	buf, err := auricle.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8000, buf.Format.SampleRate)
	assert.Equal(t, 2, buf.Format.Channels)
	assert.Equal(t, 100, buf.Frames())
	assert.InDelta(t, 50.0/32767.0, buf.Data[1], 1e-9)
	assert.InDelta(t, 199*50.0/32767.0, buf.Data[199], 1e-9)
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	t.Parallel()

	_, err := auricle.Load(filepath.Join(t.TempDir(), "track.xyz"))
	assert.ErrorIs(t, err, decode.ErrUnsupportedFormat)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := auricle.Load(filepath.Join(t.TempDir(), "absent.wav"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadResampled_Upsamples(t *testing.T) {
	t.Parallel()

	// A constant signal survives interpolation unchanged, so the content
	// check stays exact across the rate change.
	samples := make([]int16, 100)
	for i := range samples {
		samples[i] = 16384
	}
	path := writeWAV(t, "const.wav", 8000, 1, samples)

	buf, err := auricle.LoadResampled(path, 16000)
	require.NoError(t, err)

	assert.Equal(t, 16000, buf.Format.SampleRate)
	assert.Equal(t, 1, buf.Format.Channels)
	assert.Equal(t, 199, buf.Frames())
	want := 16384.0 / 32767.0
	for i, s := range buf.Data {
		require.InDeltaf(t, want, s, 1e-9, "sample %d", i)
	}
}

func TestLoadResampled_SameRatePassesThrough(t *testing.T) {
	t.Parallel()

	samples := make([]int16, 100)
	path := writeWAV(t, "same.wav", 8000, 1, samples)

	buf, err := auricle.LoadResampled(path, 8000)
	require.NoError(t, err)
	assert.Equal(t, 8000, buf.Format.SampleRate)
	assert.Equal(t, 100, buf.Frames())
}

func mockRegistry(dec decode.Decoder) *decode.Registry {
	reg := decode.NewRegistry()
	reg.Register(func(io.ReadSeeker) (decode.Decoder, error) {
		return dec, nil
	}, "mock")
	return reg
}

func writeMockFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "track.mock")
	require.NoError(t, os.WriteFile(path, []byte("mock"), 0o644))
	return path
}

func TestPlayer_PlaysThroughInjectedHost(t *testing.T) {
	host := audiotest.NewMockHost()
	dec := audiotest.NewConstantDecoder(audio.DefaultFormat(), 1000, 0.5)
	player, err := auricle.NewPlayerWithHost(host, engine.Config{
		Registry: mockRegistry(dec),
		Logger:   slog.New(slog.DiscardHandler),
	})
	require.NoError(t, err)

	require.NoError(t, player.LoadFile(writeMockFile(t)))
	require.NoError(t, player.Play())
	assert.Equal(t, engine.Playing, player.State())

	require.NoError(t, player.Close())
	assert.True(t, host.Closed())
}

func TestPlayer_CloseIsIdempotent(t *testing.T) {
	player, err := auricle.NewPlayerWithHost(audiotest.NewMockHost(), engine.Config{
		Logger: slog.New(slog.DiscardHandler),
	})
	require.NoError(t, err)

	require.NoError(t, player.Close())
	require.NoError(t, player.Close())
}

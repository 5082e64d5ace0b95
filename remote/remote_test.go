// SPDX-License-Identifier: EPL-2.0

package remote_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auricle-audio/auricle/audio"
	"github.com/auricle-audio/auricle/decode"
	"github.com/auricle-audio/auricle/engine"
	"github.com/auricle-audio/auricle/internal/audiotest"
	"github.com/auricle-audio/auricle/remote"
)

const waitFor = 2 * time.Second

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

// newTestServer wires a played-from-memory engine behind a remote server
// with a fast status tick.
func newTestServer(t *testing.T) (*httptest.Server, *remote.Server, *engine.Engine) {
	t.Helper()

	host := audiotest.NewMockHost()
	dec := audiotest.NewConstantDecoder(audio.DefaultFormat(), 1000, 0.5)
	eng, err := engine.New(host, engine.Config{
		Registry: mockRegistry(dec),
		Logger:   slog.New(slog.DiscardHandler),
	})
	require.NoError(t, err)
	t.Cleanup(func() { eng.Close() })
	require.NoError(t, eng.LoadFile(writeMockFile(t)))

	srv := remote.NewServer(eng, remote.Config{
		StatusInterval: 20 * time.Millisecond,
		Logger:         slog.New(slog.DiscardHandler),
	})
	t.Cleanup(srv.Stop)

	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts, srv, eng
}

func wsURL(ts *httptest.Server) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

func dialWS(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// frame decodes any server message: status fields are promoted from
// Status, result fields sit alongside.
type frame struct {
	remote.Status
	Success *bool  `json:"success"`
	Error   string `json:"error"`
}

// awaitFrame reads until a message of the wanted type arrives.
func awaitFrame(t *testing.T, conn *websocket.Conn, want string) frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(waitFor)))
	for {
		var f frame
		require.NoError(t, conn.ReadJSON(&f), "waiting for %q frame", want)
		if f.Type == want {
			return f
		}
	}
}

// awaitStatus reads status frames until pred holds.
func awaitStatus(t *testing.T, conn *websocket.Conn, pred func(frame) bool) frame {
	t.Helper()
	deadline := time.Now().Add(waitFor)
	for time.Now().Before(deadline) {
		f := awaitFrame(t, conn, "status")
		if pred(f) {
			return f
		}
	}
	t.Fatal("no status frame matched before the deadline")
	return frame{}
}

func sendCommand(t *testing.T, conn *websocket.Conn, typ string, data any) {
	t.Helper()
	cmd := remote.Command{Type: typ}
	if data != nil {
		raw, err := json.Marshal(data)
		require.NoError(t, err)
		cmd.Data = raw
	}
	require.NoError(t, conn.WriteJSON(cmd))
}

func TestStatusEndpoint(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var st remote.Status
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))
	assert.Equal(t, "status", st.Type)
	assert.Equal(t, "stopped", st.State)
	assert.Equal(t, uint64(1000), st.DurationFrames)
	assert.True(t, st.DurationKnown)
	assert.Equal(t, 44100, st.SampleRate)
	assert.Equal(t, 2, st.Channels)
	assert.InEpsilon(t, 1.0, st.Volume, 1e-9)
	assert.False(t, st.Muted)
	assert.Len(t, st.RMSDB, 2)
	assert.Len(t, st.HeldPeakDB, 2)
	assert.Zero(t, st.Underruns)
}

func TestStatusEndpoint_MethodNotAllowed(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/status", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestWebSocket_InitialStatus(t *testing.T) {
	ts, _, _ := newTestServer(t)
	conn := dialWS(t, ts)

	f := awaitFrame(t, conn, "status")
	assert.Equal(t, "stopped", f.State)
	assert.Equal(t, uint64(1000), f.DurationFrames)
	assert.True(t, f.DurationKnown)
}

func TestWebSocket_TransportCommands(t *testing.T) {
	ts, _, eng := newTestServer(t)
	conn := dialWS(t, ts)

	sendCommand(t, conn, "play", nil)
	res := awaitFrame(t, conn, "play_result")
	require.NotNil(t, res.Success)
	assert.True(t, *res.Success)
	awaitStatus(t, conn, func(f frame) bool { return f.State == "playing" })
	assert.Equal(t, engine.Playing, eng.State())

	sendCommand(t, conn, "pause", nil)
	awaitStatus(t, conn, func(f frame) bool { return f.State == "paused" })
	assert.Equal(t, engine.Paused, eng.State())

	sendCommand(t, conn, "stop", nil)
	awaitStatus(t, conn, func(f frame) bool { return f.State == "stopped" })
	assert.Equal(t, engine.Stopped, eng.State())
}

func TestWebSocket_CommandFailureReported(t *testing.T) {
	ts, _, _ := newTestServer(t)
	conn := dialWS(t, ts)

	// Pausing a stopped engine is an invalid transition.
	sendCommand(t, conn, "pause", nil)
	res := awaitFrame(t, conn, "pause_result")
	require.NotNil(t, res.Success)
	assert.False(t, *res.Success)
	assert.NotEmpty(t, res.Error)
}

func TestWebSocket_Seek(t *testing.T) {
	ts, _, eng := newTestServer(t)
	conn := dialWS(t, ts)

	sendCommand(t, conn, "seek", map[string]any{"frame": 500})
	res := awaitFrame(t, conn, "seek_result")
	require.NotNil(t, res.Success)
	assert.True(t, *res.Success)

	awaitStatus(t, conn, func(f frame) bool { return f.PositionFrames == 500 })
	assert.Equal(t, uint64(500), eng.Position())
}

func TestWebSocket_Volume(t *testing.T) {
	ts, _, eng := newTestServer(t)
	conn := dialWS(t, ts)

	sendCommand(t, conn, "volume", map[string]any{"volume": 0.5})
	res := awaitFrame(t, conn, "volume_result")
	require.NotNil(t, res.Success)
	assert.True(t, *res.Success)

	awaitStatus(t, conn, func(f frame) bool { return f.Volume == 0.5 })
	assert.InEpsilon(t, 0.5, eng.Volume(), 1e-9)
}

func TestWebSocket_VolumeRamp(t *testing.T) {
	ts, _, eng := newTestServer(t)
	conn := dialWS(t, ts)

	sendCommand(t, conn, "volume", map[string]any{"volume": 0.2, "ramp_ms": 5})
	res := awaitFrame(t, conn, "volume_result")
	require.NotNil(t, res.Success)
	assert.True(t, *res.Success)
	assert.InEpsilon(t, 0.2, eng.Volume(), 1e-9)
}

func TestWebSocket_VolumeValidation(t *testing.T) {
	ts, _, eng := newTestServer(t)
	conn := dialWS(t, ts)

	sendCommand(t, conn, "volume", map[string]any{"volume": 3.0})
	res := awaitFrame(t, conn, "volume_result")
	require.NotNil(t, res.Success)
	assert.False(t, *res.Success)
	assert.Contains(t, res.Error, "volume")

	// The rejected command left the engine untouched.
	assert.InEpsilon(t, 1.0, eng.Volume(), 1e-9)
}

func TestWebSocket_MuteUnmute(t *testing.T) {
	ts, _, eng := newTestServer(t)
	conn := dialWS(t, ts)

	sendCommand(t, conn, "mute", nil)
	awaitStatus(t, conn, func(f frame) bool { return f.Muted })
	assert.True(t, eng.IsMuted())

	sendCommand(t, conn, "unmute", nil)
	awaitStatus(t, conn, func(f frame) bool { return !f.Muted })
	assert.False(t, eng.IsMuted())
}

func TestWebSocket_UnknownCommand(t *testing.T) {
	ts, _, _ := newTestServer(t)
	conn := dialWS(t, ts)

	sendCommand(t, conn, "eject", nil)
	res := awaitFrame(t, conn, "eject_result")
	require.NotNil(t, res.Success)
	assert.False(t, *res.Success)
	assert.Contains(t, res.Error, "unknown command")
}

func TestWebSocket_PeriodicPushTracksEngine(t *testing.T) {
	ts, _, eng := newTestServer(t)
	conn := dialWS(t, ts)

	// Drive the engine directly; the ticker alone must surface it.
	require.NoError(t, eng.Play())
	awaitStatus(t, conn, func(f frame) bool { return f.State == "playing" })
}

func TestWebSocket_RejectsForeignOrigin(t *testing.T) {
	ts, _, _ := newTestServer(t)

	header := http.Header{"Origin": {"http://attacker.example"}}
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(ts), header)
	require.Error(t, err)
	if conn != nil {
		conn.Close()
	}
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestWebSocket_AllowsLocalOrigins(t *testing.T) {
	ts, _, _ := newTestServer(t)

	for _, origin := range []string{"http://localhost:5173", "http://127.0.0.1:3000"} {
		header := http.Header{"Origin": {origin}}
		conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts), header)
		require.NoError(t, err, "origin %s", origin)
		conn.Close()
	}
}

func TestStop_DisconnectsClients(t *testing.T) {
	ts, srv, _ := newTestServer(t)
	conn := dialWS(t, ts)
	awaitFrame(t, conn, "status")

	srv.Stop()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(waitFor)))
	for {
		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			return
		}
	}
}

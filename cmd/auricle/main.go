// SPDX-License-Identifier: EPL-2.0

// Command auricle plays an audio file through an output device.
//
// Usage:
//
//	auricle -file track.flac
//	auricle -stream long-set.flac -listen :8090
//	auricle -devices
//
// Playback settings come from a TOML file (-config); flags override the
// volume and the remote listen address. Without -config the player reads
// player.toml under the user configuration directory, writing one with
// defaults on first run.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/auricle-audio/auricle/config"
	"github.com/auricle-audio/auricle/device"
	"github.com/auricle-audio/auricle/engine"
	"github.com/auricle-audio/auricle/remote"
)

// Version is overridden at build time.
var Version = "dev"

const shutdownTimeout = 5 * time.Second

func main() {
	configPath := flag.String("config", "", "path to the configuration file (default: player.toml in the user config dir)")
	filePath := flag.String("file", "", "decode the whole file into memory and play it")
	streamPath := flag.String("stream", "", "stream the file through the ring buffer and play it")
	volume := flag.Float64("volume", -1, "initial volume in [0, 1], overriding the configuration")
	listen := flag.String("listen", "", "serve status and control on this address, overriding the configuration")
	listDevices := flag.Bool("devices", false, "list output devices and exit")
	showVersion := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("auricle", Version)
		return
	}

	if *configPath == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			slog.Error("failed to locate the user config directory", "error", err)
			os.Exit(1)
		}
		*configPath = filepath.Join(dir, "auricle", "player.toml")
	}

	cfg := config.New(*configPath)
	if err := cfg.Load(); err != nil {
		slog.Error("failed to load config", "path", *configPath, "error", err)
		os.Exit(1)
	}
	if err := overrideConfig(cfg, *volume, *listen); err != nil {
		slog.Error("invalid flag value", "error", err)
		os.Exit(1)
	}

	logger := slog.New(cfg.Log.Handler(os.Stderr))
	slog.SetDefault(logger)

	host, err := device.NewMalgoHost(func(message string) {
		logger.Debug("miniaudio", "message", strings.TrimSpace(message))
	})
	if err != nil {
		slog.Error("failed to initialize the audio backend", "error", err)
		os.Exit(1)
	}
	defer host.Close()

	if *listDevices {
		outputs, err := host.Outputs()
		if err != nil {
			slog.Error("failed to enumerate devices", "error", err)
			os.Exit(1)
		}
		for _, line := range describeDevices(outputs) {
			fmt.Println(line)
		}
		return
	}

	if *filePath == "" && *streamPath == "" {
		fmt.Fprintln(os.Stderr, "auricle: one of -file or -stream is required")
		flag.Usage()
		os.Exit(2)
	}
	if *filePath != "" && *streamPath != "" {
		fmt.Fprintln(os.Stderr, "auricle: -file and -stream are mutually exclusive")
		os.Exit(2)
	}

	eng, err := engine.New(host, engine.Config{
		RingDuration:      cfg.Playback.RingDuration(),
		UnderrunThreshold: cfg.Playback.UnderrunThreshold,
		BufferFrames:      cfg.Playback.BufferFrames,
		Prefetch:          cfg.Playback.PrefetchPackets,
		Loop:              cfg.Playback.Loop,
		Dither:            cfg.Playback.DitherAlgorithm(),
		Logger:            logger,
	})
	if err != nil {
		slog.Error("failed to create the engine", "error", err)
		os.Exit(1)
	}
	defer eng.Close()

	eng.SetVolume(cfg.Playback.Volume)

	ended := make(chan struct{}, 1)
	eng.SetHandler(engine.HandlerFunc(func(ev engine.Event) {
		logEvent(logger, ev)
		if ev.Type == engine.EventTrackEnded {
			select {
			case ended <- struct{}{}:
			default:
			}
		}
	}))

	path, load, mode := *filePath, eng.LoadFile, "file"
	if *streamPath != "" {
		path, load, mode = *streamPath, eng.LoadStream, "stream"
	}
	if err := load(path); err != nil {
		slog.Error("failed to load track", "path", path, "error", err)
		os.Exit(1)
	}
	logTrack(logger, eng, path, mode)

	if err := eng.Play(); err != nil {
		slog.Error("failed to start playback", "error", err)
		os.Exit(1)
	}

	var rsrv *remote.Server
	var httpSrv *http.Server
	if cfg.Remote.Enabled {
		rsrv = remote.NewServer(eng, remote.Config{
			Listen:         cfg.Remote.Listen,
			StatusInterval: cfg.Remote.StatusInterval(),
			Logger:         logger,
		})
		httpSrv = rsrv.Start()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	waitForExit(sigChan, ended, cfg.Remote.Enabled, logger)

	if rsrv != nil {
		rsrv.Stop()
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := httpSrv.Shutdown(ctx); err != nil {
			slog.Error("remote server shutdown error", "error", err)
		}
		cancel()
	}

	if err := eng.Close(); err != nil {
		slog.Error("engine close error", "error", err)
	}
	slog.Info("shutdown complete")
}

// waitForExit blocks until a shutdown signal arrives or, when no control
// server keeps the process useful afterwards, the track ends.
func waitForExit(sig <-chan os.Signal, ended <-chan struct{}, remoteEnabled bool, log *slog.Logger) {
	for {
		select {
		case <-sig:
			log.Info("shutting down")
			return
		case <-ended:
			if remoteEnabled {
				continue
			}
			log.Info("playback finished")
			return
		}
	}
}

// overrideConfig applies flag overrides and revalidates the result. A
// negative volume or empty listen address leaves the configured value in
// place.
func overrideConfig(cfg *config.Config, volume float64, listen string) error {
	if volume >= 0 {
		cfg.Playback.Volume = volume
	}
	if listen != "" {
		cfg.Remote.Listen = listen
		cfg.Remote.Enabled = true
	}
	return cfg.Validate()
}

// describeDevices renders one line per output device, marking the
// default with an asterisk.
func describeDevices(outputs []device.DeviceInfo) []string {
	lines := make([]string, 0, len(outputs))
	for _, dev := range outputs {
		marker := "  "
		if dev.IsDefault {
			marker = "* "
		}
		specs := make([]string, 0, len(dev.Ranges))
		for _, r := range dev.Ranges {
			specs = append(specs, fmt.Sprintf("%d-%d Hz %dch %v",
				r.MinSampleRate, r.MaxSampleRate, r.Channels, r.Sample))
		}
		line := marker + dev.Name
		if len(specs) > 0 {
			line += "  [" + strings.Join(specs, ", ") + "]"
		}
		lines = append(lines, line)
	}
	return lines
}

func logEvent(log *slog.Logger, ev engine.Event) {
	switch ev.Type {
	case engine.EventStateChanged:
		log.Info("state changed", "state", ev.State)
	case engine.EventPositionChanged:
		log.Debug("position changed", "frame", ev.Position)
	case engine.EventTrackEnded:
		log.Info("track ended")
	case engine.EventBufferUnderrun:
		log.Warn("buffer underrun")
	case engine.EventError:
		log.Error("engine error", "message", ev.Message)
	}
}

func logTrack(log *slog.Logger, eng *engine.Engine, path, mode string) {
	attrs := []any{"path", path, "mode", mode}
	if f, ok := eng.Format(); ok {
		attrs = append(attrs, "format", f)
		if frames, known := eng.Duration(); known && f.SampleRate > 0 {
			secs := float64(frames) / float64(f.SampleRate)
			attrs = append(attrs, "duration", fmt.Sprintf("%.1fs", secs))
		}
	}
	log.Info("track loaded", attrs...)
}

// capfit probes a media file and prints the encode parameters a codec with
// the configured capability profile would accept for it.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"

	"thirdcoast.systems/codecfit/internal/config"
	"thirdcoast.systems/codecfit/pkg/bitrate"
	"thirdcoast.systems/codecfit/pkg/codecs"
	"thirdcoast.systems/codecfit/pkg/mediafmt"
	"thirdcoast.systems/codecfit/pkg/negotiate"
	"thirdcoast.systems/codecfit/pkg/probe"
	"thirdcoast.systems/codecfit/pkg/tracks"
)

func main() {
	input := flag.String("input", "", "media file to probe (required)")
	width := flag.Int("width", 0, "requested output width (0 = default)")
	height := flag.Int("height", 0, "requested output height (0 = default)")
	quality := flag.String("quality", "", "auto bitrate quality: high, medium, low")
	maxSizeMB := flag.Int("max-size", 0, "target output size in MB (overrides quality)")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if *input == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conf, err := config.LoadConfig(ctx)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if conf.GateCodec != "" && !codecs.HasEncoder(codecs.Platform(), conf.GateCodec) {
		slog.Error("gate codec not available", "codec", conf.GateCodec)
		os.Exit(1)
	}

	info, err := probe.Probe(ctx, *input)
	if err != nil {
		slog.Error("probe failed", "error", err)
		os.Exit(1)
	}
	if !info.HasVideo {
		slog.Error("no video track", "file", *input)
		os.Exit(1)
	}

	requested := mediafmt.StreamFormat{}
	if *width > 0 {
		requested.Width = mediafmt.Int(*width)
	}
	if *height > 0 {
		requested.Height = mediafmt.Int(*height)
	}

	override := resolveOverride(info, *quality, *maxSizeMB)

	res, err := negotiate.Negotiate(info.Video, requested, conf.Caps(), override)
	if err != nil {
		slog.Error("negotiation failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("container:  %s (%s)\n", info.Container, humanize.Bytes(uint64(info.Size)))
	fmt.Printf("source:     %dx%d @ %d fps, %s\n",
		info.Video.WidthOrDefault(), info.Video.HeightOrDefault(),
		info.Video.FrameRateOrDefault(), humanize.SI(float64(info.Video.BitrateOrDefault()), "bps"))
	fmt.Printf("negotiated: %dx%d @ %d fps, %s, keyframe every %ds\n",
		res.Width, res.Height, res.FrameRate,
		humanize.SI(float64(res.Bitrate), "bps"), res.IFrameInterval)
	if idx := tracks.Find(info.TrackMimes, false); idx != tracks.NotFound {
		fmt.Printf("audio:      track %d (%s)\n", idx, info.TrackMimes[idx])
	}
}

// resolveOverride turns the size or quality flags into an explicit bitrate
// override, or nil when neither applies.
func resolveOverride(info *probe.MediaInfo, quality string, maxSizeMB int) *int {
	if maxSizeMB > 0 {
		return mediafmt.Int(bitrate.ForSize(maxSizeMB, info.Duration, info.AudioBps))
	}

	var q bitrate.Quality
	switch quality {
	case "high":
		q = bitrate.QualityHigh
	case "medium":
		q = bitrate.QualityMedium
	case "low":
		q = bitrate.QualityLow
	case "":
		return nil
	default:
		slog.Warn("unknown quality, using medium", "quality", quality)
		q = bitrate.QualityMedium
	}

	v := info.Video
	return mediafmt.Int(bitrate.Auto(v.WidthOrDefault(), v.HeightOrDefault(), v.BitrateOrDefault(), q))
}

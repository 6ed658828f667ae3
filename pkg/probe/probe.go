// Package probe extracts stream formats from media files via ffprobe. The
// exec boundary is isolated in Probe; everything downstream of the JSON
// parse is pure and testable without ffprobe installed.
package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os/exec"
	"strconv"

	"thirdcoast.systems/codecfit/pkg/mediafmt"
)

// MediaInfo is the file-level view of a probed container.
type MediaInfo struct {
	Container  string  // container format name (mov,mp4,... as ffprobe reports it)
	Duration   float64 // seconds
	Size       int64   // bytes
	Video      mediafmt.StreamFormat
	HasVideo   bool
	AudioBps   int      // first audio stream bitrate, 0 when unreported
	TrackMimes []string // per-track MIME types in container order
}

// ffprobeOutput matches the ffprobe JSON we consume.
type ffprobeOutput struct {
	Format struct {
		FormatName string `json:"format_name"`
		Duration   string `json:"duration"`
		Size       string `json:"size"`
		BitRate    string `json:"bit_rate"`
	} `json:"format"`
	Streams []struct {
		Index         int    `json:"index"`
		CodecType     string `json:"codec_type"`
		CodecName     string `json:"codec_name"`
		Width         int    `json:"width"`
		Height        int    `json:"height"`
		RFrameRate    string `json:"r_frame_rate"`
		AvgFrameRate  string `json:"avg_frame_rate"`
		BitRate       string `json:"bit_rate"`
		ColorSpace    string `json:"color_space"`
		ColorTransfer string `json:"color_transfer"`
		ColorRange    string `json:"color_range"`
	} `json:"streams"`
}

// Probe runs ffprobe on a file and maps the output into a MediaInfo.
func Probe(ctx context.Context, path string) (*MediaInfo, error) {
	args := []string{
		"-hide_banner",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	}

	cmd := exec.CommandContext(ctx, "ffprobe", args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe: %w: %s", err, stderr.String())
	}

	return Parse(stdout.Bytes())
}

// Parse maps raw ffprobe JSON into a MediaInfo.
func Parse(raw []byte) (*MediaInfo, error) {
	var output ffprobeOutput
	if err := json.Unmarshal(raw, &output); err != nil {
		return nil, fmt.Errorf("ffprobe: failed to parse output: %w", err)
	}

	info := &MediaInfo{Container: output.Format.FormatName}

	if output.Format.Duration != "" {
		info.Duration, _ = strconv.ParseFloat(output.Format.Duration, 64)
	}
	if output.Format.Size != "" {
		info.Size, _ = strconv.ParseInt(output.Format.Size, 10, 64)
	}

	formatBps := 0
	if output.Format.BitRate != "" {
		formatBps, _ = strconv.Atoi(output.Format.BitRate)
	}

	for _, stream := range output.Streams {
		info.TrackMimes = append(info.TrackMimes, MimeFor(stream.CodecType, stream.CodecName))

		switch stream.CodecType {
		case "video":
			// Only the first video stream feeds negotiation.
			if info.HasVideo {
				continue
			}
			info.HasVideo = true

			f := mediafmt.StreamFormat{MimeType: MimeFor("video", stream.CodecName)}
			if stream.Width > 0 {
				f.Width = mediafmt.Int(stream.Width)
			}
			if stream.Height > 0 {
				f.Height = mediafmt.Int(stream.Height)
			}
			if fps := parseFrameRate(stream.RFrameRate); fps > 0 {
				f.FrameRate = mediafmt.Int(int(math.Round(fps)))
			}
			if stream.BitRate != "" {
				if bps, err := strconv.Atoi(stream.BitRate); err == nil && bps > 0 {
					f.Bitrate = mediafmt.Int(bps)
				}
			} else if formatBps > 0 {
				// Containers like MKV report bitrate only at format level.
				f.Bitrate = mediafmt.Int(formatBps)
			}
			f.ColorStandard = colorStandard(stream.ColorSpace)
			f.ColorTransfer = colorTransfer(stream.ColorTransfer)
			f.ColorRange = colorRange(stream.ColorRange)

			info.Video = f

		case "audio":
			if info.AudioBps == 0 && stream.BitRate != "" {
				info.AudioBps, _ = strconv.Atoi(stream.BitRate)
			}
		}
	}

	return info, nil
}

// parseFrameRate parses ffprobe frame rate fractions ("30/1", "30000/1001").
func parseFrameRate(rate string) float64 {
	var num, den int
	_, err := fmt.Sscanf(rate, "%d/%d", &num, &den)
	if err != nil || den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

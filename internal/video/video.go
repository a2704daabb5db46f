// Package video is the encoder boundary: an ordered frame sequence goes in,
// a playable file comes out. The encoder runs once, after every frame has
// been written.
package video

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
)

// Encoder turns a zero-padded frame-file pattern into a video file.
type Encoder interface {
	Encode(ctx context.Context, pattern string, fps int, quality int, output string) error
}

// FFmpegEncoder shells out to ffmpeg with the detected H.264 codec.
type FFmpegEncoder struct {
	Codec string // libx264, h264_nvenc or h264_videotoolbox
}

func (e *FFmpegEncoder) buildArgs(pattern string, fps, quality int, output string) []string {
	args := []string{
		"-y",
		"-framerate", strconv.Itoa(fps),
		"-i", pattern,
		"-c:v", e.Codec,
	}
	// Quality parameter depends on the encoder.
	switch e.Codec {
	case "h264_videotoolbox":
		// VideoToolbox has spotty -q:v support; drive it by bitrate.
		args = append(args, "-b:v", fmt.Sprintf("%dk", quality*100))
	case "h264_nvenc":
		args = append(args, "-cq", strconv.Itoa(quality))
	default: // libx264
		args = append(args, "-crf", strconv.Itoa(quality), "-preset", "medium")
	}
	args = append(args, "-pix_fmt", "yuv420p", "-movflags", "+faststart", output)
	return args
}

func (e *FFmpegEncoder) Encode(ctx context.Context, pattern string, fps, quality int, output string) error {
	cmd := exec.CommandContext(ctx, "ffmpeg", e.buildArgs(pattern, fps, quality, output)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg error: %w, output: %s", err, string(out))
	}
	return nil
}
